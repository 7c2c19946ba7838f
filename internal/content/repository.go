// Package content holds the accessors that read documents from the content
// store. Accessors never return errors: a failed fetch is logged and reported
// as an empty or absent result so pages degrade to placeholder content.
package content

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/lajketz/site/internal/logger"
	"github.com/lajketz/site/internal/models"
	"github.com/lajketz/site/internal/sanity"
	"github.com/lajketz/site/internal/text"
)

// MaxSlugLength mirrors the slug field's maxLength in the studio schema.
const MaxSlugLength = 96

// Listing is the result of a list accessor.
type Listing[T any] struct {
	Items  []T  `json:"items"`
	Failed bool `json:"failed"`
}

// Empty reports whether there is nothing to show, for whatever reason.
func (l Listing[T]) Empty() bool { return len(l.Items) == 0 }

// Lookup is the result of a detail accessor.
type Lookup[T any] struct {
	Value  *T   `json:"value"`
	Failed bool `json:"failed"`
}

// Found reports whether a record was returned.
func (l Lookup[T]) Found() bool { return l.Value != nil }

type Repository struct {
	q sanity.Querier
}

func NewRepository(q sanity.Querier) *Repository {
	return &Repository{q: q}
}

// Analyses lists reports, newest first.
func (r *Repository) Analyses(ctx context.Context) Listing[models.Report] {
	var items []models.Report
	if !r.fetch(ctx, models.KindAnalysis, analysesQuery, nil, &items) {
		return Listing[models.Report]{Items: []models.Report{}, Failed: true}
	}
	for i := range items {
		normalizeReport(&items[i])
	}
	sortNewestFirst(items, func(r models.Report) string { return r.Date })
	return Listing[models.Report]{Items: nonNil(items)}
}

// AnalysisBySlug resolves one report by slug or document id.
func (r *Repository) AnalysisBySlug(ctx context.Context, slug string) Lookup[models.Report] {
	slug, ok := NormalizeSlug(slug)
	if !ok {
		return Lookup[models.Report]{}
	}
	var item *models.Report
	if !r.fetch(ctx, models.KindAnalysis, analysisBySlugQuery, map[string]any{"slug": slug}, &item) {
		return Lookup[models.Report]{Failed: true}
	}
	if item != nil {
		normalizeReport(item)
	}
	return Lookup[models.Report]{Value: item}
}

// Blogs lists articles that have a slug, newest first.
func (r *Repository) Blogs(ctx context.Context) Listing[models.Article] {
	var items []models.Article
	if !r.fetch(ctx, models.KindBlog, blogsQuery, nil, &items) {
		return Listing[models.Article]{Items: []models.Article{}, Failed: true}
	}
	for i := range items {
		normalizeArticle(&items[i])
	}
	sortNewestFirst(items, func(a models.Article) string { return a.Date })
	return Listing[models.Article]{Items: nonNil(items)}
}

// BlogBySlug resolves one article by slug or document id.
func (r *Repository) BlogBySlug(ctx context.Context, slug string) Lookup[models.Article] {
	slug, ok := NormalizeSlug(slug)
	if !ok {
		return Lookup[models.Article]{}
	}
	var item *models.Article
	if !r.fetch(ctx, models.KindBlog, blogBySlugQuery, map[string]any{"slug": slug}, &item) {
		return Lookup[models.Article]{Failed: true}
	}
	if item != nil {
		normalizeArticle(item)
	}
	return Lookup[models.Article]{Value: item}
}

// Vlogs lists video logs, newest first.
func (r *Repository) Vlogs(ctx context.Context) Listing[models.VideoLog] {
	var items []models.VideoLog
	if !r.fetch(ctx, models.KindVlog, vlogsQuery, nil, &items) {
		return Listing[models.VideoLog]{Items: []models.VideoLog{}, Failed: true}
	}
	for i := range items {
		items[i].Title = text.Clean(items[i].Title)
		items[i].Summary = text.Clean(items[i].Summary)
		items[i].VideoURL = strings.TrimSpace(items[i].VideoURL)
	}
	sortNewestFirst(items, func(v models.VideoLog) string { return v.Date })
	return Listing[models.VideoLog]{Items: nonNil(items)}
}

// fetch runs one query and reports success. Failures are logged here and
// nowhere else.
func (r *Repository) fetch(ctx context.Context, kind, query string, params map[string]any, out any) bool {
	start := time.Now()
	if err := r.q.Fetch(ctx, query, params, out); err != nil {
		event := logger.Get().Error().
			Err(err).
			Str("kind", kind).
			Dur("duration", time.Since(start))
		if slug, ok := params["slug"].(string); ok {
			event = event.Str("slug", slug)
		}
		event.Msg("Error fetching content")
		return false
	}
	logger.Get().Debug().
		Str("kind", kind).
		Dur("duration", time.Since(start)).
		Msg("Fetched content")
	return true
}

// NormalizeSlug trims a path parameter and rejects values that cannot name
// a document.
func NormalizeSlug(slug string) (string, bool) {
	slug = strings.TrimSpace(slug)
	if slug == "" || strings.ContainsAny(slug, "/?#") {
		return "", false
	}
	if text.RuneLen(slug) > MaxSlugLength {
		return "", false
	}
	return slug, true
}

func normalizeReport(r *models.Report) {
	r.Title = text.Clean(r.Title)
	r.Summary = text.Clean(r.Summary)
	r.Slug = strings.TrimSpace(r.Slug)
}

func normalizeArticle(a *models.Article) {
	a.Title = text.Clean(a.Title)
	a.Summary = text.Clean(a.Summary)
	a.Author = text.Clean(a.Author)
	a.Slug = strings.TrimSpace(a.Slug)
	tags := make([]string, 0, len(a.Tags))
	for _, tag := range a.Tags {
		if tag = text.Clean(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	a.Tags = tags
	if a.DocumentFile != nil && a.DocumentFile.URL == "" {
		a.DocumentFile = nil
	}
}

// sortNewestFirst reorders by parsed date, descending. Records whose date
// does not parse keep their relative order after all dated ones.
func sortNewestFirst[T any](items []T, date func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, okI := text.ParseDate(date(items[i]))
		tj, okJ := text.ParseDate(date(items[j]))
		switch {
		case okI && okJ:
			return ti.After(tj)
		case okI:
			return true
		default:
			return false
		}
	})
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
