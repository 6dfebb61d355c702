package metrics

import "time"

// ResultLabel enumerates outcome categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
)

// DocumentLabel enumerates what happened to one scanned document.
type DocumentLabel string

const (
	DocumentChecked   DocumentLabel = "checked"
	DocumentNoLinks   DocumentLabel = "no_links"
	DocumentReadError DocumentLabel = "read_error"
)

// Recorder defines observability hooks for a scan. Implementations may
// forward to Prometheus, OpenTelemetry, etc. All methods must be safe for nil
// receivers when using the NoopRecorder (allowing optional injection).
type Recorder interface {
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(outcome ResultLabel)
	IncDocument(result DocumentLabel)
	IncLink(kind string, valid bool)
	ObserveExternalCheck(d time.Duration, ok bool)
	IncExternalCacheHit()
	IncExternalRetry()
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRunDuration(time.Duration)         {}
func (NoopRecorder) IncRunOutcome(ResultLabel)                {}
func (NoopRecorder) IncDocument(DocumentLabel)                {}
func (NoopRecorder) IncLink(string, bool)                     {}
func (NoopRecorder) ObserveExternalCheck(time.Duration, bool) {}
func (NoopRecorder) IncExternalCacheHit()                     {}
func (NoopRecorder) IncExternalRetry()                        {}
