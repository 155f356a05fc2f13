// Package export writes a prerendered site to a directory for static hosting.
//
// Layout:
//
//	index.html                    listing
//	recipes/<slug>/index.html     recipe details
//	recipes/_fallback.html        pending placeholder
//	404.html                      not-found page
//	_redirects                    temporary redirects for slugs without a recipe
package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	derrors "git.home.luguber.info/inful/recipebook/internal/foundation/errors"
	"git.home.luguber.info/inful/recipebook/internal/generation"
	"git.home.luguber.info/inful/recipebook/internal/logfields"
	"git.home.luguber.info/inful/recipebook/internal/pagecache"
	"git.home.luguber.info/inful/recipebook/internal/views"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Renderer renders the pages that are not generated per route.
type Renderer interface {
	RenderDetail(in views.DetailInput) ([]byte, error)
	RenderNotFound() ([]byte, error)
}

// Result summarises what was written.
type Result struct {
	Directory string
	Pages     int
	Redirects int
	Skipped   []string
}

// Exporter copies generated routes from a page cache to disk.
type Exporter struct {
	store    pagecache.Store
	renderer Renderer
	logger   *slog.Logger
}

// New returns an exporter reading from store.
func New(store pagecache.Store, renderer Renderer, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{store: store, renderer: renderer, logger: logger}
}

// Write exports every route in report into dir. With clean set the directory is
// removed first.
func (e *Exporter) Write(ctx context.Context, report *generation.Report, dir string, clean bool) (*Result, error) {
	if err := prepare(dir, clean); err != nil {
		return nil, err
	}

	res := &Result{Directory: dir}
	var redirects []string
	for _, rr := range report.Routes {
		if rr.Kind == pagecache.KindRedirect {
			redirects = append(redirects, fmt.Sprintf("%s %s %d", rr.Route, rr.Location, rr.Status))
			res.Redirects++
			continue
		}

		rel, ok := fileFor(rr)
		if !ok {
			e.logger.Warn("Skipping route that cannot be a file path", logfields.Route(rr.Route), logfields.Slug(rr.Slug))
			res.Skipped = append(res.Skipped, rr.Route)
			continue
		}
		entry, found, err := e.store.Get(ctx, rr.Route)
		if err != nil {
			return nil, derrors.WrapError(err, derrors.CategoryCache, "read generated page").
				WithContext("route", rr.Route).
				Build()
		}
		if !found {
			return nil, derrors.InternalError("generated page missing from cache").
				WithContext("route", rr.Route).
				Build()
		}
		if err := writeFile(dir, rel, entry.Body); err != nil {
			return nil, err
		}
		res.Pages++
	}

	fallback, err := e.renderer.RenderDetail(views.Pending(""))
	if err != nil {
		return nil, err
	}
	if err := writeFile(dir, filepath.Join("recipes", "_fallback.html"), fallback); err != nil {
		return nil, err
	}
	notFound, err := e.renderer.RenderNotFound()
	if err != nil {
		return nil, err
	}
	if err := writeFile(dir, "404.html", notFound); err != nil {
		return nil, err
	}
	if len(redirects) > 0 {
		if err := writeFile(dir, "_redirects", []byte(strings.Join(redirects, "\n")+"\n")); err != nil {
			return nil, err
		}
	}

	e.logger.Info("Static site written",
		logfields.Path(dir),
		slog.Int("pages", res.Pages),
		slog.Int("redirects", res.Redirects))
	return res, nil
}

// fileFor maps a route to its file below the output directory.
func fileFor(rr generation.RouteResult) (string, bool) {
	if rr.Slug == "" {
		return "index.html", true
	}
	if rr.Slug == "." || strings.ContainsAny(rr.Slug, `/\`) || !filepath.IsLocal(rr.Slug) || strings.HasPrefix(rr.Slug, "_") {
		return "", false
	}
	return filepath.Join("recipes", rr.Slug, "index.html"), true
}

func prepare(dir string, clean bool) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "resolve output directory").
			WithContext("path", dir).
			Build()
	}
	if clean {
		if abs == filepath.Dir(abs) || isWorkingDir(abs) {
			return derrors.ConfigError("refusing to clean output directory").
				WithContext("path", abs).
				Build()
		}
		if err := os.RemoveAll(abs); err != nil {
			return derrors.WrapError(err, derrors.CategoryFileSystem, "clean output directory").
				WithContext("path", abs).
				Build()
		}
	}
	if err := os.MkdirAll(abs, dirPerm); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "create output directory").
			WithContext("path", abs).
			Build()
	}
	return nil
}

func isWorkingDir(abs string) bool {
	wd, err := os.Getwd()
	return err == nil && wd == abs
}

func writeFile(dir, rel string, data []byte) error {
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "create directory").
			WithContext("path", filepath.Dir(path)).
			Build()
	}
	// #nosec G306 -- published site content is world readable
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "write file").
			WithContext("path", path).
			Build()
	}
	return nil
}
