// Package handlers contains HTTP handlers for the recipebook site and admin listeners.
//
// This package provides handlers for:
//   - Generated pages (listing and recipe details)
//   - Health checks
//   - On-demand revalidation
//
// Errors are classified with the foundation/errors package and written through
// its HTTP adapter; JSON payloads are defined in server/responses.
package handlers
