package generation

import (
	"net/url"
	"strings"

	"git.home.luguber.info/inful/recipebook/internal/views"
)

// RootPath is the listing route and the target of not-found redirects.
const RootPath = "/"

const detailPrefix = "/recipes/"

type routeKind string

const (
	routeListing routeKind = "listing"
	routeDetail  routeKind = "detail"
)

type route struct {
	kind routeKind
	slug string
	key  string // canonical path, used as cache key
}

func listingRoute() route {
	return route{kind: routeListing, key: RootPath}
}

func detailRoute(slug string) route {
	return route{kind: routeDetail, slug: slug, key: views.DetailPath(slug)}
}

// parseRoute maps a request path to a route. A trailing slash is accepted.
func parseRoute(path string) (route, bool) {
	if path == "" || path == RootPath || path == "/index.html" {
		return listingRoute(), true
	}
	rest, ok := strings.CutPrefix(path, detailPrefix)
	if !ok {
		return route{}, false
	}
	rest = strings.TrimSuffix(rest, "/")
	if rest == "" || strings.Contains(rest, "/") {
		return route{}, false
	}
	slug, err := url.PathUnescape(rest)
	if err != nil || strings.TrimSpace(slug) == "" {
		return route{}, false
	}
	return detailRoute(slug), true
}
