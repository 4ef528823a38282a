package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mannepanne/hultberg-admin/internal/model"
)

// httpDoer lets tests inject a transport without a real API endpoint.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config carries the coordinates of one content repository.
type Config struct {
	APIBase string
	Repo    string
	Token   string
}

var _ model.ContentStore = (*Client)(nil)

// Client implements model.ContentStore against a GitHub-style contents
// API. File shas serve as the revision tags: any write invalidates the
// previous sha, and a write presenting a stale sha is rejected by the API
// with 409.
type Client struct {
	api     httpDoer
	apiBase string
	repo    string
	token   string
}

// NewClient creates a content store client using a default HTTP client.
func NewClient(cfg Config) *Client {
	return NewClientWithDoer(cfg, &http.Client{Timeout: 30 * time.Second})
}

// NewClientWithDoer allows injecting a mockable transport (used in tests).
func NewClientWithDoer(cfg Config, doer httpDoer) *Client {
	return &Client{
		api:     doer,
		apiBase: strings.TrimRight(cfg.APIBase, "/"),
		repo:    cfg.Repo,
		token:   cfg.Token,
	}
}

type fileResponse struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	SHA      string `json:"sha"`
	Type     string `json:"type"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

type writeRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha,omitempty"`
}

type deleteRequest struct {
	Message string `json:"message"`
	SHA     string `json:"sha"`
}

// Read fetches the file at path together with its revision tag.
func (c *Client) Read(ctx context.Context, path string) (model.StoredFile, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return model.StoredFile{}, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return model.StoredFile{}, err
	}

	var file fileResponse
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return model.StoredFile{}, fmt.Errorf("failed to decode file response: %w", err)
	}

	content, err := decodeContent(file.Content)
	if err != nil {
		return model.StoredFile{}, fmt.Errorf("failed to decode file content: %w", err)
	}

	return model.StoredFile{Path: path, Content: content, Revision: file.SHA}, nil
}

// List returns the file entries directly under dir. A missing directory
// reports model.ErrNotFound; callers that tolerate absence treat it as an
// empty listing.
func (c *Client) List(ctx context.Context, dir string) ([]model.FileEntry, error) {
	resp, err := c.do(ctx, http.MethodGet, dir, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var files []fileResponse
	if err := json.NewDecoder(resp.Body).Decode(&files); err != nil {
		return nil, fmt.Errorf("failed to decode listing response: %w", err)
	}

	entries := make([]model.FileEntry, 0, len(files))
	for _, f := range files {
		if f.Type != "file" {
			continue
		}
		entries = append(entries, model.FileEntry{Name: f.Name, Path: f.Path, Revision: f.SHA})
	}

	return entries, nil
}

// Write stores content at path. An empty revision creates the file; a
// non-empty one must match the current sha or the write fails with
// model.ErrConflict.
func (c *Client) Write(ctx context.Context, path string, content []byte, revision string, message string) error {
	body := writeRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		SHA:     revision,
	}

	resp, err := c.do(ctx, http.MethodPut, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return c.checkStatus(resp)
}

// Delete removes the file at path. The current revision tag is required.
func (c *Client) Delete(ctx context.Context, path string, revision string, message string) error {
	resp, err := c.do(ctx, http.MethodDelete, path, deleteRequest{Message: message, SHA: revision})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return c.checkStatus(resp)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/contents/%s", c.apiBase, c.repo, escapePath(path))

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "hultberg-admin")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.api.Do(req)
	if err != nil {
		return nil, fmt.Errorf("content store request failed: %w", err)
	}

	return resp, nil
}

func (c *Client) checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return model.ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		return model.ErrConflict
	default:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("content store returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
}

// decodeContent handles the API's base64 payloads, which arrive wrapped
// with newlines.
func decodeContent(encoded string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, encoded)

	return base64.StdEncoding.DecodeString(cleaned)
}

// escapePath escapes each path segment while preserving separators.
func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
