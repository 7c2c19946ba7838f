package assemble

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/lajketz/site/internal/i18n"
	"github.com/lajketz/site/internal/models"
	"github.com/lajketz/site/internal/placeholder"
	"github.com/lajketz/site/internal/text"
)

const (
	excerptLength = 180
	changeLength  = 120
)

var snapshotIcons = []string{"🌳", "🛡️", "🦜"}

type HomeView struct {
	Lang     i18n.Lang                  `json:"lang"`
	Hero     models.Hero                `json:"hero"`
	Stories  []models.StoryCard         `json:"stories"`
	Analyses []models.AnalysisCard      `json:"analyses"`
	Videos   []models.VideoCard         `json:"videos"`
	Snapshot []models.SnapshotMetric    `json:"snapshot"`
	Timeline []models.TimelineHighlight `json:"timeline"`
	Partners []models.Partner           `json:"partners"`
}

// Home fetches the three lists concurrently and builds every language view
// from that single fetch.
func (a *Assembler) Home(ctx context.Context) Localized[HomeView] {
	var (
		reports  []models.Report
		articles []models.Article
		vlogs    []models.VideoLog
	)

	// accessors never fail, so the group only joins
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		reports = a.src.Analyses(gctx).Items
		return nil
	})
	g.Go(func() error {
		articles = a.src.Blogs(gctx).Items
		return nil
	})
	g.Go(func() error {
		vlogs = a.src.Vlogs(gctx).Items
		return nil
	})
	_ = g.Wait()

	return BuildHome(reports, articles, vlogs)
}

// BuildHome maps fetched records into home views for every language.
func BuildHome(reports []models.Report, articles []models.Article, vlogs []models.VideoLog) Localized[HomeView] {
	return localize(func(lang i18n.Lang) HomeView {
		s := i18n.For(lang)
		ph := placeholder.For(lang)

		return HomeView{
			Lang:     lang,
			Hero:     buildHero(s, ph.Hero, reports, articles),
			Stories:  Fill(storyCards(s, articles), ph.Stories, func(c models.StoryCard) bool { return c.Title != "" }, StoryCapacity),
			Analyses: Fill(analysisCards(s, reports), ph.Analyses, func(c models.AnalysisCard) bool { return c.Title != "" }, AnalysisCapacity),
			Videos:   Fill(videoCards(s, vlogs), ph.Videos, func(c models.VideoCard) bool { return c.Title != "" }, VideoCapacity),
			Snapshot: Fill(snapshotMetrics(s, reports), ph.Snapshot, func(m models.SnapshotMetric) bool { return m.Label != "" }, SnapshotCapacity),
			Timeline: Fill(timelineHighlights(s, reports), ph.Timeline, func(h models.TimelineHighlight) bool { return h.Label != "" }, TimelineCapacity),
			Partners: placeholder.Partners(),
		}
	})
}

func heroUsable(h models.Hero) bool {
	return h.Title != "" && text.RuneLen(h.Subtitle) >= MinHeroSummary
}

func buildHero(s *i18n.Strings, ph models.Hero, reports []models.Report, articles []models.Article) models.Hero {
	candidates := make([]models.Hero, 0, len(reports))
	for _, r := range reports {
		bg := r.ThumbnailURL
		if bg == "" {
			bg = ph.BackgroundImage
		}
		candidates = append(candidates, models.Hero{
			Title:           r.Title,
			Subtitle:        r.Summary,
			CtaURL:          "/analysis/" + r.Ref(),
			CtaText:         s.Hero.PrimaryCta,
			BackgroundImage: bg,
		})
	}

	hero := Fill(candidates, []models.Hero{ph}, heroUsable, 1)[0]
	hero.Stats = heroStats(s, ph.Stats, reports, articles)
	return hero
}

// heroStats reads measurements from the newest report whether or not that
// report made it into the hero.
func heroStats(s *i18n.Strings, ph models.HeroStats, reports []models.Report, articles []models.Article) models.HeroStats {
	stats := ph
	if len(reports) > 0 {
		first := reports[0]
		stats.ForestLoss = Dash
		if n, ok := text.FormatNumber(first.ForestLoss); ok {
			stats.ForestLoss = n + " " + s.Units.Hectares
		}
		stats.Alerts = Dash
		if n, ok := text.FormatNumber(first.ActiveAlerts); ok {
			stats.Alerts = n
		}
	}
	if len(articles) > 0 {
		stats.Posts = len(articles)
	}
	return stats
}

func storyCards(s *i18n.Strings, articles []models.Article) []models.StoryCard {
	cards := make([]models.StoryCard, 0, len(articles))
	for _, a := range articles {
		category := s.Posts.Tag
		if len(a.Tags) > 0 {
			category = a.Tags[0]
		}
		author := a.Author
		if author == "" {
			author = s.Units.DefaultAuthor
		}
		date := s.DateOrFallback(a.Date)
		cards = append(cards, models.StoryCard{
			ID:       a.ID,
			Title:    a.Title,
			Excerpt:  text.Truncate(a.Summary, excerptLength),
			Href:     "/blog/" + a.Ref(),
			ImageURL: orDefault(a.ThumbnailURL, FallbackImage),
			Category: category,
			Author:   author,
			Date:     date,
		})
	}
	return cards
}

func analysisCards(s *i18n.Strings, reports []models.Report) []models.AnalysisCard {
	cards := make([]models.AnalysisCard, 0, len(reports))
	for _, r := range reports {
		cards = append(cards, models.AnalysisCard{
			ID:      r.ID,
			Range:   s.DateOrFallback(r.Date),
			Title:   r.Title,
			Summary: text.Truncate(r.Summary, excerptLength),
			Href:    "/analysis/" + r.Ref(),
		})
	}
	return cards
}

func videoCards(s *i18n.Strings, vlogs []models.VideoLog) []models.VideoCard {
	cards := make([]models.VideoCard, 0, len(vlogs))
	for _, v := range vlogs {
		cards = append(cards, models.VideoCard{
			Title:     v.Title,
			Excerpt:   orDefault(text.Truncate(v.Summary, excerptLength), s.Vlog.FallbackDescription),
			Thumbnail: orDefault(v.ThumbnailURL, youTubeThumbnail(v.VideoURL)),
			URL:       orDefault(v.VideoURL, "#"),
		})
	}
	return cards
}

func snapshotMetrics(s *i18n.Strings, reports []models.Report) []models.SnapshotMetric {
	metrics := make([]models.SnapshotMetric, 0, len(reports))
	for i, r := range reports {
		value := orDefault(text.Truncate(r.Summary, changeLength), s.Units.SeeDetails)
		if n, ok := text.FormatNumber(r.ForestLoss); ok {
			value = n + " " + s.Units.HectaresLost
		}
		trend := Dash
		if n, ok := text.FormatNumber(r.ActiveAlerts); ok {
			trend = n + " " + s.Units.ActiveAlerts
		}
		metrics = append(metrics, models.SnapshotMetric{
			ID:          r.ID,
			Label:       r.Title,
			Value:       value,
			Trend:       trend,
			Direction:   models.DirectionFlat,
			Description: text.Truncate(r.Summary, excerptLength),
			Icon:        snapshotIcons[i%len(snapshotIcons)],
		})
	}
	return metrics
}

func timelineHighlights(s *i18n.Strings, reports []models.Report) []models.TimelineHighlight {
	highlights := make([]models.TimelineHighlight, 0, len(reports))
	for _, r := range reports {
		highlights = append(highlights, models.TimelineHighlight{
			Label:     r.Title,
			Change:    orDefault(text.Truncate(r.Summary, changeLength), s.Units.UpdateAvailable),
			Direction: models.DirectionFlat,
		})
	}
	return highlights
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
