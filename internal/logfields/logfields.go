package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyURL        = "url"
	KeyLine       = "line"
	KeyAnchor     = "anchor"
	KeyLinkCount  = "link_count"
	KeyFileCount  = "file_count"
	KeyStatus     = "status"
	KeyReason     = "reason"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Line(n int) slog.Attr            { return slog.Int(KeyLine, n) }
func Anchor(a string) slog.Attr       { return slog.String(KeyAnchor, a) }
func LinkCount(n int) slog.Attr       { return slog.Int(KeyLinkCount, n) }
func FileCount(n int) slog.Attr       { return slog.Int(KeyFileCount, n) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func Reason(r string) slog.Attr       { return slog.String(KeyReason, r) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
