// Package assemble builds language-keyed page view-models from whatever mix
// of real and placeholder content is available. Nothing here returns a
// content error: missing or failed content is replaced, never surfaced.
package assemble

import (
	"context"
	"errors"
	"slices"

	"github.com/lajketz/site/internal/content"
	"github.com/lajketz/site/internal/i18n"
	"github.com/lajketz/site/internal/models"
)

// Slot capacities on the home page.
const (
	StoryCapacity    = 3
	AnalysisCapacity = 3
	SnapshotCapacity = 3
	TimelineCapacity = 3
	VideoCapacity    = 3
)

// MinHeroSummary is the summary length, in characters, a report needs to
// replace the placeholder hero.
const MinHeroSummary = 80

// Dash stands in for an absent measurement.
const Dash = "—"

// FallbackImage is shown for articles without a thumbnail.
const FallbackImage = "https://images.unsplash.com/photo-1500530855697-b586d89ba3ee?auto=format&fit=crop&w=1200&q=80"

var ErrNotFound = errors.New("assemble: record not found")

// Source is the subset of content accessors the assembler reads from.
type Source interface {
	Analyses(ctx context.Context) content.Listing[models.Report]
	AnalysisBySlug(ctx context.Context, slug string) content.Lookup[models.Report]
	Blogs(ctx context.Context) content.Listing[models.Article]
	BlogBySlug(ctx context.Context, slug string) content.Lookup[models.Article]
	Vlogs(ctx context.Context) content.Listing[models.VideoLog]
}

type Assembler struct {
	src Source
}

func New(src Source) *Assembler {
	return &Assembler{src: src}
}

// Localized holds one view per supported language, all derived from the same
// fetched records.
type Localized[T any] struct {
	Default i18n.Lang       `json:"default"`
	Views   map[i18n.Lang]T `json:"views"`
}

// For returns the view for l, or the default language's view.
func (l Localized[T]) For(lang i18n.Lang) T {
	if v, ok := l.Views[lang]; ok {
		return v
	}
	return l.Views[l.Default]
}

// Ordered returns the views in display-language order.
func (l Localized[T]) Ordered() []T {
	out := make([]T, 0, len(l.Views))
	for _, lang := range i18n.All {
		if v, ok := l.Views[lang]; ok {
			out = append(out, v)
		}
	}
	return out
}

func localize[T any](build func(i18n.Lang) T) Localized[T] {
	views := make(map[i18n.Lang]T, len(i18n.All))
	for _, lang := range i18n.All {
		views[lang] = build(lang)
	}
	return Localized[T]{Default: i18n.Default, Views: views}
}

// Fill keeps the usable real items in order, appends the placeholders and
// truncates to capacity. Neither input is modified.
func Fill[T any](actual, fallback []T, usable func(T) bool, capacity int) []T {
	if capacity <= 0 {
		return []T{}
	}
	out := make([]T, 0, capacity)
	for _, item := range actual {
		if len(out) == capacity {
			return out
		}
		if usable(item) {
			out = append(out, item)
		}
	}
	for _, item := range fallback {
		if len(out) == capacity {
			break
		}
		out = append(out, item)
	}
	return slices.Clip(out)
}
