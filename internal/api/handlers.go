package api

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lajketz/site/internal/archive"
	"github.com/lajketz/site/internal/assemble"
	"github.com/lajketz/site/internal/cache"
	"github.com/lajketz/site/internal/config"
	"github.com/lajketz/site/internal/i18n"
	"github.com/lajketz/site/internal/logger"
	"github.com/lajketz/site/internal/middleware"
	"github.com/lajketz/site/internal/prefs"
	"github.com/lajketz/site/internal/views"
)

// Cached page paths. Every other page is rendered per request.
const (
	PathHome = "/"
	PathBlog = "/blog"
)

// CacheablePaths lists the pages whose views live in the render cache.
var CacheablePaths = []string{PathHome, PathBlog}

// RevalidateRequest optionally narrows revalidation to some cached pages.
type RevalidateRequest struct {
	Paths []string `json:"paths" validate:"omitempty,max=2,dive,oneof=/ /blog"`
}

type Handlers struct {
	config *config.Config
	pages  *assemble.Assembler
	cache  *cache.Views
	mirror *archive.Mirror
}

// NewHandlers wires the page handlers. mirror may be nil, in which case
// document downloads redirect to the content store's CDN.
func NewHandlers(cfg *config.Config, pages *assemble.Assembler, cached *cache.Views, mirror *archive.Mirror) *Handlers {
	return &Handlers{
		config: cfg,
		pages:  pages,
		cache:  cached,
		mirror: mirror,
	}
}

// HealthCheck handles the /health endpoint
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": "1.0.0",
		"time":    time.Now().Format(time.RFC3339),
	})
}

// Home handles GET /
func (h *Handlers) Home(c *fiber.Ctx) error {
	ctx := c.UserContext()
	var home assemble.Localized[assemble.HomeView]
	gen := h.cache.Generation(PathHome)
	if !h.cache.Load(ctx, PathHome, &home) {
		home = h.pages.Home(ctx)
		h.cache.Save(ctx, PathHome, gen, home)
	}

	p := prefs.FromRequest(c)
	hero := home.For(p.Language()).Hero
	return h.render(c, p, views.PageHome, views.Page{
		Description: hero.Subtitle,
		Image:       hero.BackgroundImage,
		Data:        home,
	})
}

// BlogIndex handles GET /blog
func (h *Handlers) BlogIndex(c *fiber.Ctx) error {
	ctx := c.UserContext()
	var index assemble.Localized[assemble.BlogIndexView]
	gen := h.cache.Generation(PathBlog)
	if !h.cache.Load(ctx, PathBlog, &index) {
		index = h.pages.BlogIndex(ctx)
		h.cache.Save(ctx, PathBlog, gen, index)
	}

	p := prefs.FromRequest(c)
	s := i18n.For(p.Language())
	return h.render(c, p, views.PageBlogIndex, views.Page{
		Title:       s.Blog.Archive,
		Description: s.Blog.Intro,
		Data:        index,
	})
}

// BlogDetail handles GET /blog/:slug
func (h *Handlers) BlogDetail(c *fiber.Ctx) error {
	detail, err := h.pages.BlogDetail(c.UserContext(), c.Params("slug"))
	if err != nil {
		return err
	}

	p := prefs.FromRequest(c)
	view := detail.For(p.Language())
	return h.render(c, p, views.PageBlogDetail, views.Page{
		Title:       view.Title,
		Description: view.Summary,
		Image:       view.ImageURL,
		Data:        detail,
	})
}

// AnalysisDetail handles GET /analysis/:slug
func (h *Handlers) AnalysisDetail(c *fiber.Ctx) error {
	detail, err := h.pages.AnalysisDetail(c.UserContext(), c.Params("slug"))
	if err != nil {
		return err
	}

	p := prefs.FromRequest(c)
	view := detail.For(p.Language())
	return h.render(c, p, views.PageAnalysisDetail, views.Page{
		Title:       view.Title,
		Description: view.Summary,
		Image:       view.ImageURL,
		Data:        detail,
	})
}

// Download handles GET /blog/:slug/download. Archive failures fall back to
// the content store's own link.
func (h *Handlers) Download(c *fiber.Ctx) error {
	ctx := c.UserContext()
	slug := c.Params("slug")
	doc, err := h.pages.Document(ctx, slug)
	if err != nil {
		return err
	}
	if h.mirror == nil {
		return c.Redirect(doc.URL, fiber.StatusFound)
	}

	loc, err := h.mirror.Resolve(ctx, doc)
	if err != nil {
		logger.Get().Warn().
			Err(err).
			Str("slug", slug).
			Str("url", doc.URL).
			Msg("Archive unavailable, redirecting to source")
		return c.Redirect(doc.URL, fiber.StatusFound)
	}
	if loc.URL != "" {
		return c.Redirect(loc.URL, fiber.StatusFound)
	}
	return c.Download(loc.Path, archive.Filename(doc))
}

// CMSTest handles GET /cms-test
func (h *Handlers) CMSTest(c *fiber.Ctx) error {
	diag := h.pages.Diagnostics(c.UserContext())

	logger.Get().Info().
		Int("analysis", len(diag.Analyses.Items)).
		Int("blog", len(diag.Blogs.Items)).
		Int("vlog", len(diag.Vlogs.Items)).
		Bool("healthy", diag.Healthy()).
		Dur("duration", diag.Duration).
		Msg("CMS diagnostics")

	if c.Query("format") == "json" {
		return c.JSON(diag)
	}
	p := prefs.FromRequest(c)
	return h.render(c, p, views.PageCMSTest, views.Page{Title: "CMS test", Data: diag})
}

// Revalidate handles POST /api/revalidate
func (h *Handlers) Revalidate(c *fiber.Ctx) error {
	log := logger.Get()
	paths := middleware.Body[RevalidateRequest](c).Paths
	if len(paths) == 0 {
		paths = CacheablePaths
	}

	if err := h.cache.Invalidate(c.UserContext(), paths...); err != nil {
		log.Error().Err(err).Strs("paths", paths).Msg("Revalidation failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"revalidated": false,
			"error":       "Revalidation failed",
			"details":     err.Error(),
		})
	}

	log.Info().
		Strs("paths", paths).
		Str("ip", c.IP()).
		Msg("Revalidated cached pages")

	return c.JSON(fiber.Map{
		"revalidated": true,
		"now":         time.Now().UnixMilli(),
	})
}

// SetLanguage handles GET /prefs/lang/:code for clients without script.
func (h *Handlers) SetLanguage(c *fiber.Ctx) error {
	if err := prefs.FromRequest(c).SetLanguage(c.Params("code")); err != nil {
		if errors.Is(err, prefs.ErrInvalidLanguage) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return err
	}
	return c.Redirect(SafeNext(c.Query("next")), fiber.StatusSeeOther)
}

// SetTheme handles GET /prefs/theme/:mode for clients without script.
func (h *Handlers) SetTheme(c *fiber.Ctx) error {
	dark, err := prefs.ParseTheme(c.Params("mode"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := prefs.FromRequest(c).SetDark(dark); err != nil {
		return err
	}
	return c.Redirect(SafeNext(c.Query("next")), fiber.StatusSeeOther)
}

func (h *Handlers) render(c *fiber.Ctx, p *prefs.Store, name string, page views.Page) error {
	page.Lang = p.Language()
	page.Dark = p.Dark()
	page.Path = c.Path()
	return c.Render(name, page)
}

// SafeNext returns next when it is a local path, "/" otherwise.
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, `/\`) {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return "/"
	}
	return u.RequestURI()
}
