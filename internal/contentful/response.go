package contentful

import (
	"time"

	"git.home.luguber.info/inful/recipebook/internal/content"
)

type sysLink struct {
	Sys struct {
		ID string `json:"id"`
	} `json:"sys"`
}

type sys struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	ContentType *sysLink  `json:"contentType,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type entity struct {
	Sys    sys            `json:"sys"`
	Fields map[string]any `json:"fields"`
}

type entriesResponse struct {
	Total    int      `json:"total"`
	Skip     int      `json:"skip"`
	Limit    int      `json:"limit"`
	Items    []entity `json:"items"`
	Includes struct {
		Entry []entity `json:"Entry"`
		Asset []entity `json:"Asset"`
	} `json:"includes"`
}

// records converts the page items, resolving links against the page's includes.
func (r *entriesResponse) records() []content.Record {
	res := newResolver(r)
	out := make([]content.Record, 0, len(r.Items))
	for _, item := range r.Items {
		rec := content.Record{
			ID:        item.Sys.ID,
			Fields:    make(map[string]any, len(item.Fields)),
			CreatedAt: item.Sys.CreatedAt,
			UpdatedAt: item.Sys.UpdatedAt,
		}
		if item.Sys.ContentType != nil {
			rec.ContentType = item.Sys.ContentType.Sys.ID
		}
		for name, value := range item.Fields {
			rec.Fields[name] = res.resolve(value, includeDepth)
		}
		out = append(out, rec)
	}
	return out
}

type linkKey struct {
	linkType string
	id       string
}

// resolver replaces {"sys": {"type": "Link", ...}} values with the linked entity.
type resolver struct {
	index map[linkKey]entity
}

func newResolver(r *entriesResponse) *resolver {
	idx := make(map[linkKey]entity, len(r.Includes.Entry)+len(r.Includes.Asset)+len(r.Items))
	for _, e := range r.Items {
		idx[linkKey{"Entry", e.Sys.ID}] = e
	}
	for _, e := range r.Includes.Entry {
		idx[linkKey{"Entry", e.Sys.ID}] = e
	}
	for _, a := range r.Includes.Asset {
		idx[linkKey{"Asset", a.Sys.ID}] = a
	}
	return &resolver{index: idx}
}

func (r *resolver) resolve(v any, depth int) any {
	switch val := v.(type) {
	case map[string]any:
		if key, ok := asLink(val); ok {
			target, found := r.index[key]
			if !found || depth <= 0 {
				return val
			}
			fields := make(map[string]any, len(target.Fields))
			for name, fv := range target.Fields {
				fields[name] = r.resolve(fv, depth-1)
			}
			return map[string]any{
				"sys": map[string]any{
					"id":   target.Sys.ID,
					"type": target.Sys.Type,
				},
				"fields": fields,
			}
		}
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = r.resolve(item, depth)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = r.resolve(item, depth)
		}
		return out
	default:
		return v
	}
}

func asLink(m map[string]any) (linkKey, bool) {
	s, ok := m["sys"].(map[string]any)
	if !ok || s["type"] != "Link" {
		return linkKey{}, false
	}
	linkType, _ := s["linkType"].(string)
	id, _ := s["id"].(string)
	if linkType == "" || id == "" {
		return linkKey{}, false
	}
	return linkKey{linkType, id}, true
}
