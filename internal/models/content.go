package models

// Document kinds as named in the content store schema.
const (
	KindAnalysis = "analysis"
	KindBlog     = "blog"
	KindVlog     = "vlog"
)

// Report is an "analysis" document: a data-driven weekly report.
type Report struct {
	ID           string   `json:"_id"`
	Title        string   `json:"title"`
	Slug         string   `json:"slug,omitempty"`
	Date         string   `json:"date,omitempty"`
	Summary      string   `json:"summary,omitempty"`
	ForestLoss   *float64 `json:"forestLoss,omitempty"`
	ActiveAlerts *float64 `json:"activeAlerts,omitempty"`
	ThumbnailURL string   `json:"thumbnailUrl,omitempty"`
	Content      []Block  `json:"content,omitempty"`
}

// Ref returns the path segment used to link to the report.
func (r Report) Ref() string {
	if r.Slug != "" {
		return r.Slug
	}
	return r.ID
}

// Article is a "blog" document. Date is resolved from publishedAt, then date.
type Article struct {
	ID           string        `json:"_id"`
	Title        string        `json:"title"`
	Slug         string        `json:"slug,omitempty"`
	Author       string        `json:"author,omitempty"`
	Date         string        `json:"date,omitempty"`
	Summary      string        `json:"summary,omitempty"`
	Tags         []string      `json:"tags,omitempty"`
	ThumbnailURL string        `json:"thumbnailUrl,omitempty"`
	Content      []Block       `json:"content,omitempty"`
	DocumentFile *DocumentFile `json:"documentFile,omitempty"`
}

// Ref returns the path segment used to link to the article.
func (a Article) Ref() string {
	if a.Slug != "" {
		return a.Slug
	}
	return a.ID
}

// HasDocument reports whether a downloadable file is attached.
func (a Article) HasDocument() bool {
	return a.DocumentFile != nil && a.DocumentFile.URL != ""
}

// DocumentFile is an uploaded PDF or Word document attached to an article.
type DocumentFile struct {
	URL              string `json:"url"`
	OriginalFilename string `json:"originalFilename,omitempty"`
}

// VideoLog is a "vlog" document pointing at an external video.
type VideoLog struct {
	ID           string `json:"_id"`
	Title        string `json:"title"`
	Date         string `json:"date,omitempty"`
	Summary      string `json:"summary,omitempty"`
	VideoURL     string `json:"videoUrl,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}
