// Package recipes implements the data side of page generation: listing all
// recipes, discovering routable slugs and fetching one recipe shaped for rendering.
//
// Every operation issues exactly one logical query to the content source and
// returns its failure unchanged to the caller. Nothing is retried, cached or shared
// between invocations, so a Pipeline may be used from many goroutines at once.
package recipes
