// Package views renders recipe pages from embedded html/template sources.
//
// Views are pure: they receive fully shaped data, perform no content queries and
// return the complete page as bytes, so a failed render never leaves partial output.
package views

import (
	"bytes"
	"embed"
	"html/template"
	"time"

	"git.home.luguber.info/inful/recipebook/internal/config"
	"git.home.luguber.info/inful/recipebook/internal/content"
	derrors "git.home.luguber.info/inful/recipebook/internal/foundation/errors"
	"git.home.luguber.info/inful/recipebook/internal/recipes"
	"git.home.luguber.info/inful/recipebook/internal/richtext"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed assets/site.css
var siteCSS string

// PendingRefreshSeconds is the meta refresh interval of the pending page.
const PendingRefreshSeconds = 2

const (
	pageListing  = "listing"
	pageDetail   = "detail"
	pagePending  = "pending"
	pageNotFound = "notfound"
)

// Renderer turns listing records and recipe details into HTML pages.
type Renderer struct {
	site      config.SiteConfig
	pages     map[string]*template.Template
	converter *richtext.Converter
	now       func() time.Time
}

// NewRenderer parses the embedded templates.
func NewRenderer(site config.SiteConfig) (*Renderer, error) {
	r := &Renderer{
		site:      site,
		pages:     make(map[string]*template.Template, 4),
		converter: richtext.NewConverter(),
		now:       time.Now,
	}
	for _, name := range []string{pageListing, pageDetail, pagePending, pageNotFound} {
		t, err := template.ParseFS(templateFS,
			"templates/layout.tmpl",
			"templates/card.tmpl",
			"templates/"+name+".tmpl")
		if err != nil {
			return nil, derrors.WrapError(err, derrors.CategoryInternal, "parse page template").
				WithContext("page", name).
				Build()
		}
		r.pages[name] = t
	}
	return r, nil
}

// DetailInput is what the detail view renders: a ready recipe or a pending marker.
type DetailInput struct {
	detail *recipes.Detail
	slug   string
}

// Ready wraps a fetched recipe.
func Ready(d *recipes.Detail) DetailInput {
	return DetailInput{detail: d}
}

// Pending marks a route whose data is not available yet.
func Pending(slug string) DetailInput {
	return DetailInput{slug: slug}
}

// IsPending reports whether the input is the pending marker.
func (in DetailInput) IsPending() bool {
	return in.detail == nil
}

type layoutData struct {
	Site    config.SiteConfig
	Title   string
	CSS     template.CSS
	Refresh int
	Year    int
	Body    any
}

type listingData struct {
	Cards []Card
}

type detailData struct {
	Detail *recipes.Detail
	Method template.HTML
}

type pendingData struct {
	Slug string
}

// RenderListing renders one card per record, in input order.
func (r *Renderer) RenderListing(records []content.Record) ([]byte, error) {
	return r.execute(pageListing, "", 0, listingData{Cards: CardsFromRecords(records)})
}

// RenderDetail renders a recipe, or the placeholder page for a pending marker.
func (r *Renderer) RenderDetail(in DetailInput) ([]byte, error) {
	if in.IsPending() {
		return r.execute(pagePending, "", PendingRefreshSeconds, pendingData{Slug: in.slug})
	}

	method, err := r.converter.HTML(in.detail.Method)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryRender, "render method").
			WithContext("slug", in.detail.Slug).
			Build()
	}
	return r.execute(pageDetail, in.detail.Title, 0, detailData{Detail: in.detail, Method: method})
}

// RenderNotFound renders the terminal not-found page.
func (r *Renderer) RenderNotFound() ([]byte, error) {
	return r.execute(pageNotFound, "Not found", 0, nil)
}

func (r *Renderer) execute(page, title string, refresh int, body any) ([]byte, error) {
	var buf bytes.Buffer
	data := layoutData{
		Site:    r.site,
		Title:   title,
		CSS:     template.CSS(siteCSS), // #nosec G203 -- embedded stylesheet
		Refresh: refresh,
		Year:    r.now().Year(),
		Body:    body,
	}
	if err := r.pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryRender, "execute page template").
			WithContext("page", page).
			Build()
	}
	return buf.Bytes(), nil
}
