// Package views renders the site's HTML pages from embedded templates.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/lajketz/site/internal/i18n"
)

//go:embed templates/*.html
var files embed.FS

// Page names.
const (
	PageHome           = "home"
	PageBlogIndex      = "blog_index"
	PageBlogDetail     = "blog_detail"
	PageAnalysisDetail = "analysis_detail"
	PageCMSTest        = "cms_test"
	PageNotFound       = "not_found"
	PageError          = "error"
)

var pageNames = []string{
	PageHome, PageBlogIndex, PageBlogDetail, PageAnalysisDetail,
	PageCMSTest, PageNotFound, PageError,
}

// Site holds the metadata shared by every page. Title is the document title
// of pages that do not set their own.
type Site struct {
	Name        string
	Title       string
	URL         string
	Description string
	Image       string
}

// Page is the binding every template receives. Data holds the page's
// language-keyed view.
type Page struct {
	Lang        i18n.Lang
	Dark        bool
	Path        string
	Title       string
	Description string
	Image       string
	Data        any
}

type document struct {
	Page
	Site      Site
	Canonical string
}

// Renderer implements fiber.Views.
type Renderer struct {
	site  Site
	now   func() time.Time
	pages map[string]*template.Template
}

func New(site Site) (*Renderer, error) {
	r := &Renderer{site: site, now: time.Now}
	if err := r.Load(); err != nil {
		return nil, err
	}
	return r, nil
}

// Load parses every page against the shared layout.
func (r *Renderer) Load() error {
	funcs := template.FuncMap{
		"t":     i18n.For,
		"langs": func() []i18n.Lang { return i18n.All },
		"year":  func() int { return r.now().Year() },
		"upper": strings.ToUpper,
	}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(files,
			"templates/layout.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return fmt.Errorf("views: parse %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	r.pages = pages
	return nil
}

// Render executes the named page into a buffer first so a failing template
// never leaves a half-written response.
func (r *Renderer) Render(w io.Writer, name string, binding any, _ ...string) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("views: unknown page %q", name)
	}
	page, ok := binding.(Page)
	if !ok {
		return fmt.Errorf("views: %s: binding must be views.Page, got %T", name, binding)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", r.document(page)); err != nil {
		return fmt.Errorf("views: render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func (r *Renderer) document(p Page) document {
	if p.Lang == "" {
		p.Lang = i18n.Default
	}
	if p.Description == "" {
		p.Description = r.site.Description
	}
	if p.Image == "" {
		p.Image = r.site.Image
	}
	title := r.site.Title
	if title == "" {
		title = r.site.Name
	}
	if p.Title != "" {
		title = p.Title + " | " + r.site.Name
	}
	p.Title = title
	return document{
		Page:      p,
		Site:      r.site,
		Canonical: strings.TrimRight(r.site.URL, "/") + p.Path,
	}
}
