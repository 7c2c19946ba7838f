package assemble

import (
	"context"
	"html/template"
	"path"
	"strings"

	"github.com/lajketz/site/internal/i18n"
	"github.com/lajketz/site/internal/models"
	"github.com/lajketz/site/internal/richtext"
	"github.com/lajketz/site/internal/text"
)

const tagSeparator = " • "

type BlogEntry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Summary     string `json:"summary,omitempty"`
	Href        string `json:"href"`
	ImageURL    string `json:"imageUrl"`
	Date        string `json:"date,omitempty"`
	TagLine     string `json:"tagLine"`
	DownloadURL string `json:"downloadUrl,omitempty"`
}

type BlogIndexView struct {
	Lang    i18n.Lang   `json:"lang"`
	Entries []BlogEntry `json:"entries"`
}

// Empty reports whether the index should show its empty-state copy.
func (v BlogIndexView) Empty() bool { return len(v.Entries) == 0 }

// Document describes an article's attached file.
type Document struct {
	DownloadURL string `json:"downloadUrl"`
	SourceURL   string `json:"sourceUrl"`
	Label       string `json:"label"`
	Previewable bool   `json:"previewable"`
}

type BlogDetailView struct {
	Lang     i18n.Lang     `json:"lang"`
	ID       string        `json:"id"`
	Ref      string        `json:"ref"`
	Title    string        `json:"title"`
	Date     string        `json:"date,omitempty"`
	Author   string        `json:"author,omitempty"`
	Tags     []string      `json:"tags"`
	ImageURL string        `json:"imageUrl,omitempty"`
	Summary  string        `json:"summary,omitempty"`
	Body     template.HTML `json:"body,omitempty"`
	Notice   string        `json:"notice,omitempty"`
	Document *Document     `json:"document,omitempty"`
}

// BlogIndex lists every article without padding.
func (a *Assembler) BlogIndex(ctx context.Context) Localized[BlogIndexView] {
	return BuildBlogIndex(a.src.Blogs(ctx).Items)
}

func BuildBlogIndex(articles []models.Article) Localized[BlogIndexView] {
	return localize(func(lang i18n.Lang) BlogIndexView {
		s := i18n.For(lang)
		entries := make([]BlogEntry, 0, len(articles))
		for _, art := range articles {
			if art.Title == "" {
				continue
			}
			date := s.DateOrFallback(art.Date)
			entry := BlogEntry{
				ID:       art.ID,
				Title:    art.Title,
				Summary:  art.Summary,
				Href:     "/blog/" + art.Ref(),
				ImageURL: orDefault(art.ThumbnailURL, FallbackImage),
				Date:     date,
				TagLine:  TagLine(art.Tags, s.Blog.TagFallback),
			}
			if art.HasDocument() {
				entry.DownloadURL = DownloadPath(art)
			}
			entries = append(entries, entry)
		}
		return BlogIndexView{Lang: lang, Entries: entries}
	})
}

// TagLine joins the first two tags, or returns fallback when there are none.
func TagLine(tags []string, fallback string) string {
	if len(tags) == 0 {
		return fallback
	}
	if len(tags) > 2 {
		tags = tags[:2]
	}
	return strings.Join(tags, tagSeparator)
}

// DownloadPath is the site route serving an article's attached document.
func DownloadPath(art models.Article) string {
	return "/blog/" + art.Ref() + "/download"
}

// BlogDetail resolves one article by slug or id. It returns ErrNotFound when
// the record is absent, untitled or could not be fetched.
func (a *Assembler) BlogDetail(ctx context.Context, slug string) (Localized[BlogDetailView], error) {
	lookup := a.src.BlogBySlug(ctx, slug)
	if !lookup.Found() || lookup.Value.Title == "" {
		return Localized[BlogDetailView]{}, ErrNotFound
	}
	return BuildBlogDetail(*lookup.Value), nil
}

func BuildBlogDetail(art models.Article) Localized[BlogDetailView] {
	// rendered once, the body is language independent
	var body template.HTML
	empty := richtext.IsEmpty(art.Content)
	if !empty {
		body = richtext.Render(art.Content)
	}

	return localize(func(lang i18n.Lang) BlogDetailView {
		s := i18n.For(lang)
		date := s.DateOrFallback(art.Date)
		view := BlogDetailView{
			Lang:     lang,
			ID:       art.ID,
			Ref:      art.Ref(),
			Title:    art.Title,
			Date:     date,
			Author:   art.Author,
			Tags:     nonNilTags(art.Tags),
			ImageURL: art.ThumbnailURL,
			Summary:  art.Summary,
			Body:     body,
		}
		if art.HasDocument() {
			view.Document = documentFor(s, art)
		}
		if empty {
			view.Notice = s.Blog.ComingSoon
			if view.Document != nil {
				view.Notice = s.Blog.DocumentHint
			}
		}
		return view
	})
}

func documentFor(s *i18n.Strings, art models.Article) *Document {
	file := art.DocumentFile
	name := text.Clean(file.OriginalFilename)
	return &Document{
		DownloadURL: DownloadPath(art),
		SourceURL:   file.URL,
		Label:       s.Blog.DownloadButton + " " + orDefault(name, s.Blog.DocumentFallbackName),
		Previewable: isPDF(name) || isPDF(file.URL),
	}
}

func isPDF(name string) bool {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	return strings.EqualFold(path.Ext(name), ".pdf")
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

// Document returns the file attached to an article. It returns ErrNotFound
// when the article is absent or carries no file.
func (a *Assembler) Document(ctx context.Context, slug string) (models.DocumentFile, error) {
	lookup := a.src.BlogBySlug(ctx, slug)
	if !lookup.Found() || !lookup.Value.HasDocument() {
		return models.DocumentFile{}, ErrNotFound
	}
	return *lookup.Value.DocumentFile, nil
}
