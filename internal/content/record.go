// Package content defines the records returned by a content source and the
// query contract used to fetch them.
package content

import (
	"context"
	"math"
	"strings"
	"time"
)

// Record is one entry returned by a content source. Fields hold decoded JSON values
// (string, float64, bool, []any, map[string]any); linked assets and entries are
// resolved in place to objects with "sys" and "fields" keys.
type Record struct {
	ID          string
	ContentType string
	Fields      map[string]any
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Query selects records of one content type, optionally filtered by field equality.
type Query struct {
	ContentType string
	Fields      map[string]string
}

// Source is the content service contract. Implementations return records in the
// order supplied by the service.
type Source interface {
	Query(ctx context.Context, q Query) ([]Record, error)
}

// String returns a string field.
func (r Record) String(field string) (string, bool) {
	v, ok := r.Fields[field].(string)
	return v, ok
}

// Number returns a numeric field.
func (r Record) Number(field string) (float64, bool) {
	switch v := r.Fields[field].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// Int returns a numeric field rounded to the nearest integer.
func (r Record) Int(field string) (int, bool) {
	n, ok := r.Number(field)
	if !ok {
		return 0, false
	}
	return int(math.Round(n)), true
}

// Strings returns a list-of-strings field, preserving order. Non-string items are skipped.
func (r Record) Strings(field string) ([]string, bool) {
	switch v := r.Fields[field].(type) {
	case []string:
		return append([]string(nil), v...), true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out, true
	default:
		return nil, false
	}
}

// Object returns a nested object field (rich text documents, resolved links).
func (r Record) Object(field string) (map[string]any, bool) {
	v, ok := r.Fields[field].(map[string]any)
	return v, ok
}

// Lookup walks nested objects, e.g. Lookup(asset, "fields", "file", "url").
func Lookup(obj map[string]any, path ...string) (any, bool) {
	var cur any = obj
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// AssetURL turns a protocol-relative asset URL ("//images.example/x.jpg") into an
// https URL. Absolute and empty URLs are returned unchanged.
func AssetURL(raw string) string {
	if strings.HasPrefix(raw, "//") {
		return "https:" + raw
	}
	return raw
}
