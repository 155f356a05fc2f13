// Package generation owns the lifecycle of generated pages: build-time prerendering,
// on-demand generation of unknown routes, time-based and explicit revalidation, and
// periodic route rediscovery.
//
// Routes:
//
//	/                 recipe listing
//	/recipes/{slug}   recipe detail
//
// A cached route is always answered from the page cache. Stale entries are served
// while a single background regeneration runs; the cached entry is replaced only when
// regeneration succeeds or the recipe no longer exists. A route that is not cached is
// generated on demand; if that takes longer than the fallback timeout the caller
// receives a pending placeholder while generation continues.
package generation
