package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mannepanne/hultberg-admin/internal/logger"
	"github.com/mannepanne/hultberg-admin/internal/model"
)

const (
	maxTitleChars   = 200
	maxExcerptChars = 300
	maxContentBytes = 100 * 1024
	maxImageBytes   = 5 * 1024 * 1024
	maxSlugChars    = 60

	indexFileName = "index.json"
)

var (
	slugPattern     = regexp.MustCompile(`^[a-z0-9-]+$`)
	filenamePattern = regexp.MustCompile(`^[a-z0-9._-]+$`)

	allowedImageTypes = map[string]struct{}{
		"image/jpeg": {},
		"image/png":  {},
		"image/gif":  {},
		"image/webp": {},
	}
)

// ContentConfig contains content service parameters.
type ContentConfig struct {
	UpdatesPath string
	ImagesPath  string
	Author      string
}

// Content implements the admin operations over a versioned content store:
// updates as one JSON file per slug, a published-only index, and per-update
// image directories.
type Content struct {
	store  model.ContentStore
	clock  model.Clock
	logger *logger.Logger
	cfg    ContentConfig
}

// NewContent creates a content service.
func NewContent(
	store model.ContentStore,
	clock model.Clock,
	logger *logger.Logger,
	cfg ContentConfig,
) *Content {
	return &Content{
		store:  store,
		clock:  clock,
		logger: logger,
		cfg:    cfg,
	}
}

func (c *Content) updatePath(slug string) string {
	return c.cfg.UpdatesPath + "/" + slug + ".json"
}

func (c *Content) imagePath(slug, filename string) string {
	return c.cfg.ImagesPath + "/" + slug + "/" + filename
}

// saveFile writes content at path under the optimistic-concurrency
// protocol: read the current revision tag (absent path means insert),
// write presenting that tag, and on a revision conflict retry the whole
// read-then-write sequence exactly once. A second conflict surfaces to
// the caller; anything else failing surfaces immediately.
func (c *Content) saveFile(ctx context.Context, path string, content []byte, message string) error {
	for attempt := 0; attempt < 2; attempt++ {
		revision := ""
		current, err := c.store.Read(ctx, path)
		switch {
		case err == nil:
			revision = current.Revision
		case errors.Is(err, model.ErrNotFound):
		default:
			return fmt.Errorf("failed to read current revision: %w", err)
		}

		err = c.store.Write(ctx, path, content, revision, message)
		if err == nil {
			return nil
		}
		if !errors.Is(err, model.ErrConflict) || attempt == 1 {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}

		c.logger.Info("Content service: revision conflict, retrying write", "path", path)
	}

	return nil
}

// ListUpdates reads every update file under the updates directory,
// excluding the index, sorted by editedDate descending. An absent
// directory yields an empty list. Files that fail to decode are skipped
// with a log line rather than failing the whole listing.
func (c *Content) ListUpdates(ctx context.Context) ([]model.Update, error) {
	entries, err := c.store.List(ctx, c.cfg.UpdatesPath)
	if errors.Is(err, model.ErrNotFound) {
		return []model.Update{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list updates: %w", err)
	}

	updates := make([]model.Update, 0, len(entries))
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name, ".json") || entry.Name == indexFileName {
			continue
		}

		file, err := c.store.Read(ctx, entry.Path)
		if err != nil {
			c.logger.Error("Content service: failed to read update file",
				"path", entry.Path, "error", err.Error())
			continue
		}

		var update model.Update
		if err := json.Unmarshal(file.Content, &update); err != nil {
			c.logger.Error("Content service: malformed update file",
				"path", entry.Path, "error", err.Error())
			continue
		}
		updates = append(updates, update)
	}

	sort.SliceStable(updates, func(i, j int) bool {
		return parseDate(updates[i].EditedDate).After(parseDate(updates[j].EditedDate))
	})

	return updates, nil
}

// GetUpdate reads a single update by slug. Returns model.ErrNotFound for
// an absent slug.
func (c *Content) GetUpdate(ctx context.Context, slug string) (model.Update, error) {
	file, err := c.store.Read(ctx, c.updatePath(slug))
	if err != nil {
		return model.Update{}, fmt.Errorf("failed to read update %s: %w", slug, err)
	}

	var update model.Update
	if err := json.Unmarshal(file.Content, &update); err != nil {
		return model.Update{}, fmt.Errorf("malformed update file %s: %w", slug, err)
	}

	return update, nil
}

// SaveUpdate creates or overwrites one update and regenerates the index.
// An empty slug means a new update: the slug is generated from the title
// and is immutable afterwards. For an existing update the stored
// publishedDate and images are preserved; publishedDate is set exactly
// once, on the first save with published status. Returns the stored
// update and whether it was newly created.
func (c *Content) SaveUpdate(ctx context.Context, in model.Update) (model.Update, bool, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return model.Update{}, false, fmt.Errorf("%w: title is required", model.ErrInvalidInput)
	}
	if utf8.RuneCountInString(title) > maxTitleChars {
		return model.Update{}, false, fmt.Errorf("%w: title must be %d characters or fewer", model.ErrInvalidInput, maxTitleChars)
	}

	excerpt := strings.TrimSpace(in.Excerpt)
	if utf8.RuneCountInString(excerpt) > maxExcerptChars {
		return model.Update{}, false, fmt.Errorf("%w: excerpt must be %d characters or fewer", model.ErrInvalidInput, maxExcerptChars)
	}

	if !in.Status.Valid() {
		return model.Update{}, false, fmt.Errorf("%w: status must be one of: draft, published, unpublished", model.ErrInvalidInput)
	}

	if len(in.Content) > maxContentBytes {
		return model.Update{}, false, fmt.Errorf("%w: content exceeds maximum size of 100KB", model.ErrInvalidInput)
	}

	now := c.clock.Now().UTC().Format(time.RFC3339)
	slug := strings.TrimSpace(in.Slug)
	publishedDate := ""
	var images []string
	isNew := slug == ""

	if isNew {
		existing, err := c.ListUpdates(ctx)
		if err != nil {
			return model.Update{}, false, err
		}
		taken := make([]string, 0, len(existing))
		for _, u := range existing {
			taken = append(taken, u.Slug)
		}
		slug = generateSlug(title, taken)
		if in.Status == model.StatusPublished {
			publishedDate = now
		}
	} else {
		if !slugPattern.MatchString(slug) {
			return model.Update{}, false, fmt.Errorf("%w: invalid slug format", model.ErrInvalidInput)
		}

		stored, err := c.GetUpdate(ctx, slug)
		switch {
		case err == nil:
			publishedDate = stored.PublishedDate
			images = stored.Images
		case errors.Is(err, model.ErrNotFound):
		default:
			return model.Update{}, false, err
		}
		if publishedDate == "" && in.Status == model.StatusPublished {
			publishedDate = now
		}
	}

	if images == nil {
		images = []string{}
	}

	update := model.Update{
		Slug:          slug,
		Title:         title,
		Excerpt:       excerpt,
		Content:       in.Content,
		Status:        in.Status,
		PublishedDate: publishedDate,
		EditedDate:    now,
		Author:        c.cfg.Author,
		Images:        images,
	}

	encoded, err := json.MarshalIndent(update, "", "  ")
	if err != nil {
		return model.Update{}, false, fmt.Errorf("failed to encode update: %w", err)
	}

	if err := c.saveFile(ctx, c.updatePath(slug), encoded, "Save update: "+slug); err != nil {
		return model.Update{}, false, err
	}

	if err := c.regenerateIndex(ctx); err != nil {
		return model.Update{}, false, err
	}

	return update, isNew, nil
}

// DeleteUpdate removes the update file, regenerates the index, and then
// best-effort deletes the update's image directory. Returns
// model.ErrNotFound when no such update exists.
func (c *Content) DeleteUpdate(ctx context.Context, slug string) error {
	if !slugPattern.MatchString(slug) {
		return fmt.Errorf("%w: invalid slug format", model.ErrInvalidInput)
	}

	path := c.updatePath(slug)
	current, err := c.store.Read(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to read update %s: %w", slug, err)
	}

	if err := c.store.Delete(ctx, path, current.Revision, "Delete update: "+slug); err != nil {
		return fmt.Errorf("failed to delete update %s: %w", slug, err)
	}

	if err := c.regenerateIndex(ctx); err != nil {
		return err
	}

	c.deleteImagesDirectory(ctx, slug)

	return nil
}

// regenerateIndex rewrites the index file with summaries of the published
// updates only, newest first, through the same save protocol as any other
// file.
func (c *Content) regenerateIndex(ctx context.Context) error {
	updates, err := c.ListUpdates(ctx)
	if err != nil {
		return err
	}

	index := model.UpdateIndex{Updates: []model.UpdateSummary{}}
	for _, u := range updates {
		if u.Status != model.StatusPublished {
			continue
		}
		index.Updates = append(index.Updates, model.UpdateSummary{
			Slug:          u.Slug,
			Title:         u.Title,
			Excerpt:       u.Excerpt,
			PublishedDate: u.PublishedDate,
			Status:        u.Status,
		})
	}
	sort.SliceStable(index.Updates, func(i, j int) bool {
		return parseDate(index.Updates[i].PublishedDate).After(parseDate(index.Updates[j].PublishedDate))
	})

	encoded, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}

	return c.saveFile(ctx, c.cfg.UpdatesPath+"/"+indexFileName, encoded, "Regenerate updates index")
}

// deleteImagesDirectory removes every file under the update's image
// directory. Failures are logged and swallowed; an absent directory is
// not an error.
func (c *Content) deleteImagesDirectory(ctx context.Context, slug string) {
	dir := c.cfg.ImagesPath + "/" + slug
	entries, err := c.store.List(ctx, dir)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			c.logger.Error("Content service: failed to list images for cascade delete",
				"slug", slug, "error", err.Error())
		}
		return
	}

	for _, entry := range entries {
		if err := c.store.Delete(ctx, entry.Path, entry.Revision, "Delete image from update: "+slug); err != nil {
			c.logger.Error("Content service: failed to delete image",
				"path", entry.Path, "error", err.Error())
		}
	}
}

// UploadImage validates and stores one image under the update's image
// directory and returns its public path. Image writes present the current
// revision tag but do not retry on conflict; concurrent uploads of the
// same filename are rare enough that the second writer just sees the
// error.
func (c *Content) UploadImage(ctx context.Context, slug, filename, contentType string, data []byte) (string, error) {
	slug = strings.TrimSpace(slug)
	if !slugPattern.MatchString(slug) {
		return "", fmt.Errorf("%w: valid slug is required", model.ErrInvalidInput)
	}

	if _, ok := allowedImageTypes[contentType]; !ok {
		return "", fmt.Errorf("%w: only JPEG, PNG, GIF, and WebP images are allowed", model.ErrInvalidInput)
	}

	if len(data) == 0 {
		return "", fmt.Errorf("%w: image file is required", model.ErrInvalidInput)
	}
	if len(data) > maxImageBytes {
		return "", fmt.Errorf("%w: image exceeds maximum size of 5MB", model.ErrInvalidInput)
	}

	name := sanitizeFilename(filename)
	if name == "" {
		return "", fmt.Errorf("%w: invalid filename", model.ErrInvalidInput)
	}

	path := c.imagePath(slug, name)
	revision := ""
	current, err := c.store.Read(ctx, path)
	switch {
	case err == nil:
		revision = current.Revision
	case errors.Is(err, model.ErrNotFound):
	default:
		return "", fmt.Errorf("failed to read current revision: %w", err)
	}

	if err := c.store.Write(ctx, path, data, revision, "Upload image to update: "+slug); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	return publicPath(path), nil
}

// DeleteImage removes a single image file. Returns model.ErrNotFound when
// the file does not exist.
func (c *Content) DeleteImage(ctx context.Context, slug, filename string) error {
	if !slugPattern.MatchString(slug) {
		return fmt.Errorf("%w: valid slug is required", model.ErrInvalidInput)
	}
	if filename == "" || !filenamePattern.MatchString(strings.ToLower(filename)) {
		return fmt.Errorf("%w: valid filename is required", model.ErrInvalidInput)
	}

	path := c.imagePath(slug, filename)
	current, err := c.store.Read(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to read image %s: %w", path, err)
	}

	if err := c.store.Delete(ctx, path, current.Revision, "Delete image from update: "+slug); err != nil {
		return fmt.Errorf("failed to delete image %s: %w", path, err)
	}

	return nil
}

// generateSlug derives a URL-safe slug from title: lowercase, spaces to
// hyphens, [a-z0-9-] only, at most maxSlugChars, "update" when nothing
// survives. A numeric suffix resolves collisions with taken slugs.
func generateSlug(title string, taken []string) string {
	base := strings.ToLower(title)
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == ' ':
			return r
		}
		return -1
	}, base)
	base = strings.TrimSpace(base)
	base = strings.Join(strings.Fields(base), "-")
	for strings.Contains(base, "--") {
		base = strings.ReplaceAll(base, "--", "-")
	}
	if len(base) > maxSlugChars {
		base = base[:maxSlugChars]
	}
	base = strings.TrimSuffix(base, "-")
	if base == "" {
		base = "update"
	}

	exists := make(map[string]struct{}, len(taken))
	for _, s := range taken {
		exists[s] = struct{}{}
	}

	if _, ok := exists[base]; !ok {
		return base
	}
	for counter := 2; ; counter++ {
		candidate := fmt.Sprintf("%s-%d", base, counter)
		if _, ok := exists[candidate]; !ok {
			return candidate
		}
	}
}

// sanitizeFilename lowercases, collapses whitespace to hyphens, and strips
// everything outside [a-z0-9._-]. Returns "" when nothing survives.
func sanitizeFilename(filename string) string {
	name := strings.ToLower(strings.TrimSpace(filename))
	name = strings.Join(strings.Fields(name), "-")
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '_', r == '-':
			return r
		}
		return -1
	}, name)
	return name
}

// publicPath maps a storage path to its public URL path by dropping the
// site-root prefix.
func publicPath(storagePath string) string {
	return "/" + strings.TrimPrefix(strings.TrimPrefix(storagePath, "public/"), "/")
}

func parseDate(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
