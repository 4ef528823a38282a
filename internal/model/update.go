package model

// UpdateStatus enumerates the publication states of an update.
type UpdateStatus string

const (
	// StatusDraft is an unpublished work in progress.
	StatusDraft UpdateStatus = "draft"
	// StatusPublished is live on the public site.
	StatusPublished UpdateStatus = "published"
	// StatusUnpublished was published once and has been withdrawn.
	StatusUnpublished UpdateStatus = "unpublished"
)

// Valid reports whether s is one of the known statuses.
func (s UpdateStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusUnpublished:
		return true
	}
	return false
}

// Update is one blog-style entry, stored as a JSON file per slug. The slug
// is assigned at creation and never changes.
type Update struct {
	Slug          string       `json:"slug"`
	Title         string       `json:"title"`
	Excerpt       string       `json:"excerpt"`
	Content       string       `json:"content"`
	Status        UpdateStatus `json:"status"`
	PublishedDate string       `json:"publishedDate"` // ISO 8601, empty until first published
	EditedDate    string       `json:"editedDate"`    // ISO 8601, refreshed on every save
	Author        string       `json:"author"`
	Images        []string     `json:"images"`
}

// UpdateSummary is the index entry for one published update.
type UpdateSummary struct {
	Slug          string       `json:"slug"`
	Title         string       `json:"title"`
	Excerpt       string       `json:"excerpt"`
	PublishedDate string       `json:"publishedDate"`
	Status        UpdateStatus `json:"status"`
}

// UpdateIndex aggregates published-only summaries for the public site.
type UpdateIndex struct {
	Updates []UpdateSummary `json:"updates"`
}
