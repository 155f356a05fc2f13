// Package errors provides foundational, type-safe error primitives used across recipebook.
//
// Errors are classified by category (config, network, content source, render, ...),
// severity and a retry hint. The hint is informational: the content pipelines never
// retry, they surface each failure exactly once to their caller.
//
// Example usage:
//
//	err := errors.ContentSourceError("query entries failed").
//		WithContext("content_type", "recipe").
//		WithCause(originalErr).
//		Build()
package errors
