package assemble

import (
	"context"
	"html/template"

	"github.com/lajketz/site/internal/i18n"
	"github.com/lajketz/site/internal/models"
	"github.com/lajketz/site/internal/richtext"
	"github.com/lajketz/site/internal/text"
)

type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type AnalysisDetailView struct {
	Lang     i18n.Lang     `json:"lang"`
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Date     string        `json:"date,omitempty"`
	Summary  string        `json:"summary,omitempty"`
	ImageURL string        `json:"imageUrl,omitempty"`
	Metrics  []Metric      `json:"metrics"`
	Body     template.HTML `json:"body,omitempty"`
	Notice   string        `json:"notice,omitempty"`
}

// AnalysisDetail resolves one report by slug or id.
func (a *Assembler) AnalysisDetail(ctx context.Context, slug string) (Localized[AnalysisDetailView], error) {
	lookup := a.src.AnalysisBySlug(ctx, slug)
	if !lookup.Found() {
		return Localized[AnalysisDetailView]{}, ErrNotFound
	}
	return BuildAnalysisDetail(*lookup.Value), nil
}

func BuildAnalysisDetail(r models.Report) Localized[AnalysisDetailView] {
	var body template.HTML
	empty := richtext.IsEmpty(r.Content)
	if !empty {
		body = richtext.Render(r.Content)
	}

	return localize(func(lang i18n.Lang) AnalysisDetailView {
		s := i18n.For(lang)
		date := s.DateOrFallback(r.Date)
		view := AnalysisDetailView{
			Lang:     lang,
			ID:       r.ID,
			Title:    r.Title,
			Date:     date,
			Summary:  r.Summary,
			ImageURL: r.ThumbnailURL,
			Metrics:  reportMetrics(s, r),
			Body:     body,
		}
		if empty {
			view.Notice = s.Report.ComingSoon
		}
		return view
	})
}

// reportMetrics lists only the measurements the report actually carries.
func reportMetrics(s *i18n.Strings, r models.Report) []Metric {
	metrics := []Metric{}
	if n, ok := text.FormatNumber(r.ForestLoss); ok {
		metrics = append(metrics, Metric{Label: s.Report.ForestLoss, Value: n + " " + s.Units.Hectares})
	}
	if n, ok := text.FormatNumber(r.ActiveAlerts); ok {
		metrics = append(metrics, Metric{Label: s.Report.ActiveAlerts, Value: n})
	}
	return metrics
}
