package assemble

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/lajketz/site/internal/content"
	"github.com/lajketz/site/internal/i18n"
	"github.com/lajketz/site/internal/models"
	"github.com/lajketz/site/internal/placeholder"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSource struct {
	reports  []models.Report
	articles []models.Article
	vlogs    []models.VideoLog
	failed   bool

	listCalls atomic.Int32
}

func (f *fakeSource) Analyses(context.Context) content.Listing[models.Report] {
	f.listCalls.Add(1)
	return content.Listing[models.Report]{Items: f.reports, Failed: f.failed}
}

func (f *fakeSource) Blogs(context.Context) content.Listing[models.Article] {
	f.listCalls.Add(1)
	return content.Listing[models.Article]{Items: f.articles, Failed: f.failed}
}

func (f *fakeSource) Vlogs(context.Context) content.Listing[models.VideoLog] {
	f.listCalls.Add(1)
	return content.Listing[models.VideoLog]{Items: f.vlogs, Failed: f.failed}
}

func (f *fakeSource) AnalysisBySlug(_ context.Context, slug string) content.Lookup[models.Report] {
	for i := range f.reports {
		if f.reports[i].Slug == slug || f.reports[i].ID == slug {
			return content.Lookup[models.Report]{Value: &f.reports[i]}
		}
	}
	return content.Lookup[models.Report]{Failed: f.failed}
}

func (f *fakeSource) BlogBySlug(_ context.Context, slug string) content.Lookup[models.Article] {
	for i := range f.articles {
		if f.articles[i].Slug == slug || f.articles[i].ID == slug {
			return content.Lookup[models.Article]{Value: &f.articles[i]}
		}
	}
	return content.Lookup[models.Article]{Failed: f.failed}
}

func num(v float64) *float64 { return &v }

var longSummary = strings.Repeat("La tala ilegal subió frente a la semana anterior. ", 3)

func paragraph(text string) []models.Block {
	return []models.Block{{Type: "block", Style: "normal", Children: []models.Span{{Type: "span", Text: text}}}}
}

func TestFill(t *testing.T) {
	nonEmpty := func(s string) bool { return s != "" }

	tests := []struct {
		name        string
		actual      []string
		placeholder []string
		capacity    int
		want        []string
	}{
		{name: "no real items", actual: nil, placeholder: []string{"p1", "p2", "p3", "p4"}, capacity: 3, want: []string{"p1", "p2", "p3"}},
		{name: "pads after real", actual: []string{"r1", "r2"}, placeholder: []string{"p1", "p2", "p3"}, capacity: 3, want: []string{"r1", "r2", "p1"}},
		{name: "skips unusable", actual: []string{"", "r1", ""}, placeholder: []string{"p1", "p2"}, capacity: 3, want: []string{"r1", "p1", "p2"}},
		{name: "real overflow truncated", actual: []string{"r1", "r2", "r3", "r4"}, placeholder: []string{"p1"}, capacity: 3, want: []string{"r1", "r2", "r3"}},
		{name: "short placeholder", actual: nil, placeholder: []string{"p1"}, capacity: 3, want: []string{"p1"}},
		{name: "zero capacity", actual: []string{"r1"}, placeholder: []string{"p1"}, capacity: 0, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fill(tt.actual, tt.placeholder, nonEmpty, tt.capacity)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), tt.capacity)
		})
	}
}

func TestFill_DoesNotMutateInputs(t *testing.T) {
	actual := []string{"r1", "", "r2"}
	ph := []string{"p1", "p2", "p3"}
	realCopy := append([]string(nil), actual...)
	phCopy := append([]string(nil), ph...)

	got := Fill(actual, ph, func(s string) bool { return s != "" }, 3)
	got[0] = "changed"
	_ = append(got, "grown")

	assert.Equal(t, realCopy, actual)
	assert.Equal(t, phCopy, ph)
}

func TestHome_AllEmptyUsesPlaceholdersEverywhere(t *testing.T) {
	src := &fakeSource{}
	home := New(src).Home(context.Background())

	assert.Equal(t, int32(3), src.listCalls.Load())
	for _, lang := range i18n.All {
		view := home.For(lang)
		ph := placeholder.For(lang)

		assert.Equal(t, lang, view.Lang)
		assert.Equal(t, ph.Hero, view.Hero)
		assert.Equal(t, ph.Stories, view.Stories)
		assert.Equal(t, ph.Analyses, view.Analyses)
		assert.Equal(t, ph.Videos, view.Videos)
		assert.Equal(t, ph.Snapshot, view.Snapshot)
		assert.Equal(t, ph.Timeline, view.Timeline)
		assert.Equal(t, placeholder.Partners(), view.Partners)
	}
}

func TestHome_FailedFetchesMatchEmpty(t *testing.T) {
	failed := New(&fakeSource{failed: true}).Home(context.Background())
	empty := New(&fakeSource{}).Home(context.Background())
	assert.Equal(t, empty, failed)
}

func TestHome_PartialReportsArePadded(t *testing.T) {
	reports := []models.Report{
		{ID: "a1", Title: "Pico de pérdida forestal", Summary: "Subió 13%"},
		{ID: "a2", Title: "Corredor del jaguar"},
	}
	view := BuildHome(reports, nil, nil).For(i18n.ES)
	ph := placeholder.For(i18n.ES)

	require.Len(t, view.Snapshot, SnapshotCapacity)
	assert.Equal(t, "Pico de pérdida forestal", view.Snapshot[0].Label)
	assert.Equal(t, "Corredor del jaguar", view.Snapshot[1].Label)
	assert.Equal(t, ph.Snapshot[0], view.Snapshot[2])

	require.Len(t, view.Timeline, TimelineCapacity)
	assert.Equal(t, "Subió 13%", view.Timeline[0].Change)
	assert.Equal(t, "Actualización disponible", view.Timeline[1].Change)
	assert.Equal(t, ph.Timeline[0], view.Timeline[2])

	require.Len(t, view.Analyses, AnalysisCapacity)
	assert.Equal(t, "/analysis/a1", view.Analyses[0].Href)
	assert.Equal(t, "Fecha no disponible", view.Analyses[0].Range)
}

func TestHome_AbsentMeasurementsUseDash(t *testing.T) {
	reports := []models.Report{{ID: "a1", Title: "Pico", ActiveAlerts: num(7)}}
	home := BuildHome(reports, nil, nil)

	for _, lang := range i18n.All {
		stats := home.For(lang).Hero.Stats
		assert.Equal(t, Dash, stats.ForestLoss)
		assert.Equal(t, "7", stats.Alerts)
	}
	assert.Equal(t, "7 alertas activas", home.For(i18n.ES).Snapshot[0].Trend)
	assert.Equal(t, "7 active alerts", home.For(i18n.EN).Snapshot[0].Trend)
}

func TestHome_ZeroIsAMeasurement(t *testing.T) {
	reports := []models.Report{{ID: "a1", Title: "Pico", ForestLoss: num(0), ActiveAlerts: num(0)}}
	view := BuildHome(reports, nil, nil).For(i18n.EN)

	assert.Equal(t, "0 ha", view.Hero.Stats.ForestLoss)
	assert.Equal(t, "0", view.Hero.Stats.Alerts)
	assert.Equal(t, "0 ha lost", view.Snapshot[0].Value)
}

func TestHome_HeroThreshold(t *testing.T) {
	short := models.Report{ID: "a1", Title: "Corto", Summary: "Breve", ForestLoss: num(12.5)}
	long := models.Report{ID: "a2", Slug: "largo", Title: "Largo", Summary: longSummary, ThumbnailURL: "https://cdn.sanity.io/a2.jpg"}

	t.Run("short summary keeps placeholder hero with real stats", func(t *testing.T) {
		view := BuildHome([]models.Report{short}, nil, nil).For(i18n.EN)
		ph := placeholder.For(i18n.EN).Hero

		assert.Equal(t, ph.Title, view.Hero.Title)
		assert.Equal(t, "12.5 ha", view.Hero.Stats.ForestLoss)
		assert.Equal(t, Dash, view.Hero.Stats.Alerts)
		assert.Equal(t, ph.Stats.Posts, view.Hero.Stats.Posts)
	})

	t.Run("first qualifying report wins", func(t *testing.T) {
		view := BuildHome([]models.Report{short, long}, nil, nil).For(i18n.ES)

		assert.Equal(t, "Largo", view.Hero.Title)
		assert.Equal(t, "/analysis/largo", view.Hero.CtaURL)
		assert.Equal(t, "Leer el análisis de esta semana", view.Hero.CtaText)
		assert.Equal(t, "https://cdn.sanity.io/a2.jpg", view.Hero.BackgroundImage)
		assert.Equal(t, "12.5 ha", view.Hero.Stats.ForestLoss, "stats come from the newest report")
	})
}

func TestHome_PostsStatCountsRealBlogs(t *testing.T) {
	articles := []models.Article{{ID: "b1", Title: "Uno"}, {ID: "b2", Title: "Dos"}}
	view := BuildHome(nil, articles, nil).For(i18n.ES)

	assert.Equal(t, 2, view.Hero.Stats.Posts)
	require.Len(t, view.Stories, StoryCapacity)
	assert.Equal(t, "/blog/b1", view.Stories[0].Href)
	assert.Equal(t, FallbackImage, view.Stories[0].ImageURL)
	assert.Equal(t, "Laj Ketz", view.Stories[0].Author)
	assert.Equal(t, placeholder.For(i18n.ES).Stories[0], view.Stories[2])
}

func TestHome_LanguagesShareOneFetch(t *testing.T) {
	src := &fakeSource{
		reports: []models.Report{{ID: "a1", Title: "Pico de pérdida forestal", Summary: longSummary, Date: "2025-11-10"}},
		vlogs:   []models.VideoLog{{ID: "v1", Title: "Pulso Selva", VideoURL: "https://youtu.be/Scxs7L0vhZ4"}},
	}
	home := New(src).Home(context.Background())

	assert.Equal(t, int32(3), src.listCalls.Load(), "one fetch per kind for every language")
	es, en := home.For(i18n.ES), home.For(i18n.EN)

	assert.Equal(t, "Pico de pérdida forestal", es.Hero.Title)
	assert.Equal(t, "Pico de pérdida forestal", en.Hero.Title)
	assert.Equal(t, "Pico de pérdida forestal", en.Analyses[0].Title)
	assert.Equal(t, "10 de noviembre de 2025", es.Analyses[0].Range)
	assert.Equal(t, "November 10, 2025", en.Analyses[0].Range)

	assert.Equal(t, "Pulso Selva", en.Videos[0].Title)
	assert.Equal(t, "https://img.youtube.com/vi/Scxs7L0vhZ4/maxresdefault.jpg", en.Videos[0].Thumbnail)
	assert.Equal(t, "Quick weekly rundown with community voices and actions to take.", en.Videos[0].Excerpt)
}

func TestLocalized_ForFallsBackToDefault(t *testing.T) {
	home := BuildHome(nil, nil, nil)
	assert.Equal(t, home.For(i18n.Default), home.For(i18n.Lang("fr")))
	assert.Len(t, home.Ordered(), len(i18n.All))
	assert.Equal(t, i18n.ES, home.Ordered()[0].Lang)
}

func TestBlogIndex(t *testing.T) {
	src := &fakeSource{articles: []models.Article{
		{ID: "b1", Slug: "selva-maya", Title: "La Selva Maya", Date: "fin de año", Tags: []string{"Petén", "Juventud", "Fuego"},
			DocumentFile: &models.DocumentFile{URL: "https://cdn.sanity.io/files/p/d/x.pdf"}},
		{ID: "b2", Title: "Sin slug", ThumbnailURL: "https://cdn.sanity.io/b2.jpg"},
		{ID: "b3", Title: ""},
	}}
	index := New(src).BlogIndex(context.Background())
	view := index.For(i18n.EN)

	require.Len(t, view.Entries, 2)
	assert.False(t, view.Empty())

	first := view.Entries[0]
	assert.Equal(t, "/blog/selva-maya", first.Href)
	assert.Equal(t, "Petén • Juventud", first.TagLine)
	assert.Equal(t, "fin de año", first.Date, "unparseable dates are shown verbatim")
	assert.Equal(t, "/blog/selva-maya/download", first.DownloadURL)
	assert.Equal(t, FallbackImage, first.ImageURL)

	second := view.Entries[1]
	assert.Equal(t, "/blog/b2", second.Href)
	assert.Equal(t, "Blog", second.TagLine)
	assert.Empty(t, second.DownloadURL)
	assert.Equal(t, "https://cdn.sanity.io/b2.jpg", second.ImageURL)
}

func TestBlogIndex_Empty(t *testing.T) {
	view := New(&fakeSource{failed: true}).BlogIndex(context.Background()).For(i18n.ES)
	assert.True(t, view.Empty())
	assert.NotNil(t, view.Entries)
}

func TestBlogDetail(t *testing.T) {
	withBody := models.Article{ID: "b1", Slug: "con-cuerpo", Title: "Con cuerpo", Content: paragraph("Hola"), Tags: nil}
	emptyBody := models.Article{ID: "b2", Slug: "vacio", Title: "Vacío", Content: []models.Block{}}
	withDoc := models.Article{ID: "b3", Slug: "documento", Title: "Documento",
		DocumentFile: &models.DocumentFile{URL: "https://cdn.sanity.io/files/p/d/abc.pdf", OriginalFilename: "informe.pdf"}}
	untitled := models.Article{ID: "b4", Slug: "sin-titulo"}

	a := New(&fakeSource{articles: []models.Article{withBody, emptyBody, withDoc, untitled}})
	ctx := context.Background()

	t.Run("renders body", func(t *testing.T) {
		got, err := a.BlogDetail(ctx, "con-cuerpo")
		require.NoError(t, err)
		view := got.For(i18n.ES)
		assert.Equal(t, "<p>Hola</p>", string(view.Body))
		assert.Empty(t, view.Notice)
		assert.NotNil(t, view.Tags)
	})

	t.Run("empty body shows coming soon", func(t *testing.T) {
		got, err := a.BlogDetail(ctx, "vacio")
		require.NoError(t, err)
		assert.Equal(t, "Este artículo estará disponible pronto.", got.For(i18n.ES).Notice)
		assert.Equal(t, "This article will be available soon.", got.For(i18n.EN).Notice)
		assert.Empty(t, got.For(i18n.ES).Body)
	})

	t.Run("empty body with document shows hint", func(t *testing.T) {
		got, err := a.BlogDetail(ctx, "b3")
		require.NoError(t, err)
		view := got.For(i18n.ES)
		assert.Equal(t, "Lee el documento incrustado o descárgalo para revisarlo sin conexión.", view.Notice)
		require.NotNil(t, view.Document)
		assert.Equal(t, "/blog/documento/download", view.Document.DownloadURL)
		assert.Equal(t, "Descargar informe.pdf", view.Document.Label)
		assert.True(t, view.Document.Previewable)
	})

	t.Run("not found", func(t *testing.T) {
		for _, slug := range []string{"missing", "sin-titulo"} {
			_, err := a.BlogDetail(ctx, slug)
			assert.ErrorIs(t, err, ErrNotFound, slug)
		}
	})
}

func TestBlogDetail_FailedFetchIsNotFound(t *testing.T) {
	_, err := New(&fakeSource{failed: true}).BlogDetail(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocument_FallbackName(t *testing.T) {
	art := models.Article{ID: "b1", Title: "Doc", DocumentFile: &models.DocumentFile{URL: "https://cdn.sanity.io/files/p/d/abc.docx"}}
	view := BuildBlogDetail(art).For(i18n.EN)
	require.NotNil(t, view.Document)
	assert.Equal(t, "Download document", view.Document.Label)
	assert.False(t, view.Document.Previewable)
}

func TestAnalysisDetail(t *testing.T) {
	src := &fakeSource{reports: []models.Report{
		{ID: "a1", Slug: "pico", Title: "Pico de pérdida forestal", ActiveAlerts: num(7), Date: "2025-11-10"},
		{ID: "a2", Slug: "completo", Title: "Completo", ForestLoss: num(312), ActiveAlerts: num(3), Content: paragraph("Datos")},
	}}
	a := New(src)
	ctx := context.Background()

	got, err := a.AnalysisDetail(ctx, "a1")
	require.NoError(t, err)
	es := got.For(i18n.ES)
	assert.Equal(t, []Metric{{Label: "Alertas activas", Value: "7"}}, es.Metrics)
	assert.Equal(t, "Este análisis estará disponible pronto. Vuelve a consultar en las próximas horas.", es.Notice)
	assert.Equal(t, "10 de noviembre de 2025", es.Date)

	got, err = a.AnalysisDetail(ctx, "completo")
	require.NoError(t, err)
	en := got.For(i18n.EN)
	assert.Equal(t, []Metric{{Label: "Forest loss", Value: "312 ha"}, {Label: "Active alerts", Value: "3"}}, en.Metrics)
	assert.Equal(t, "<p>Datos</p>", string(en.Body))
	assert.Empty(t, en.Notice)

	_, err = a.AnalysisDetail(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDiagnostics(t *testing.T) {
	src := &fakeSource{failed: true}
	view := New(src).Diagnostics(context.Background())

	assert.False(t, view.Healthy())
	assert.True(t, view.Analyses.Failed)
	assert.Equal(t, int32(3), src.listCalls.Load())

	ok := New(&fakeSource{reports: []models.Report{{ID: "a1", Title: "Pico"}}}).Diagnostics(context.Background())
	assert.True(t, ok.Healthy())
	assert.Len(t, ok.Analyses.Items, 1)
}

func TestYouTubeThumbnail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "https://www.youtube.com/watch?v=Scxs7L0vhZ4", want: "https://img.youtube.com/vi/Scxs7L0vhZ4/maxresdefault.jpg"},
		{in: "https://youtu.be/Scxs7L0vhZ4", want: "https://img.youtube.com/vi/Scxs7L0vhZ4/maxresdefault.jpg"},
		{in: "https://www.youtube.com/embed/Scxs7L0vhZ4", want: "https://img.youtube.com/vi/Scxs7L0vhZ4/maxresdefault.jpg"},
		{in: "https://vimeo.com/12345", want: ""},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, youTubeThumbnail(tt.in), tt.in)
	}
}

func TestDocument(t *testing.T) {
	file := &models.DocumentFile{URL: "https://cdn.sanity.io/files/p/d/informe.pdf", OriginalFilename: "informe.pdf"}
	a := New(&fakeSource{articles: []models.Article{
		{ID: "b1", Slug: "con-doc", Title: "Con documento", DocumentFile: file},
		{ID: "b2", Slug: "sin-doc", Title: "Sin documento"},
	}})

	doc, err := a.Document(context.Background(), "con-doc")
	require.NoError(t, err)
	assert.Equal(t, *file, doc)

	byID, err := a.Document(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, doc, byID)

	_, err = a.Document(context.Background(), "sin-doc")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = a.Document(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAbsentDatesUseLocalizedFallback(t *testing.T) {
	articles := []models.Article{{ID: "b1", Title: "Sin fecha"}}
	reports := []models.Report{{ID: "a1", Title: "Sin fecha"}}

	home := BuildHome(nil, articles, nil)
	assert.Equal(t, "Fecha no disponible", home.For(i18n.ES).Stories[0].Date)
	assert.Equal(t, "Date unavailable", home.For(i18n.EN).Stories[0].Date)

	index := BuildBlogIndex(articles)
	require.Len(t, index.For(i18n.EN).Entries, 1)
	assert.Equal(t, "Date unavailable", index.For(i18n.EN).Entries[0].Date)

	detail, err := New(&fakeSource{articles: articles, reports: reports}).BlogDetail(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "Fecha no disponible", detail.For(i18n.ES).Date)

	analysis, err := New(&fakeSource{reports: reports}).AnalysisDetail(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "Date unavailable", analysis.For(i18n.EN).Date)
}
