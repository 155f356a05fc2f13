package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRoute        = "route"
	KeySlug         = "slug"
	KeyContentType  = "content_type"
	KeyGenerationID = "generation_id"
	KeyOutcome      = "outcome"
	KeyCacheState   = "cache_state"
	KeyCount        = "count"
	KeyDurationMS   = "duration_ms"
	KeyMethod       = "method"
	KeyPath         = "path"
	KeyStatus       = "status"
	KeyError        = "error"
	KeyUserAgent    = "user_agent"
	KeyRemoteAddr   = "remote_addr"
	KeySubject      = "subject"
)

func Route(r string) slog.Attr         { return slog.String(KeyRoute, r) }
func Slug(s string) slog.Attr          { return slog.String(KeySlug, s) }
func ContentType(t string) slog.Attr   { return slog.String(KeyContentType, t) }
func GenerationID(id string) slog.Attr { return slog.String(KeyGenerationID, id) }
func Outcome(o string) slog.Attr       { return slog.String(KeyOutcome, o) }
func CacheState(s string) slog.Attr    { return slog.String(KeyCacheState, s) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Method(m string) slog.Attr        { return slog.String(KeyMethod, m) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Status(code int) slog.Attr        { return slog.Int(KeyStatus, code) }
func UserAgent(ua string) slog.Attr    { return slog.String(KeyUserAgent, ua) }
func RemoteAddr(a string) slog.Attr    { return slog.String(KeyRemoteAddr, a) }
func Subject(s string) slog.Attr       { return slog.String(KeySubject, s) }

// Duration records d as fractional milliseconds.
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d)/float64(time.Millisecond))
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
