package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveRunDuration(500 * time.Millisecond)
	pr.IncRunOutcome(ResultSuccess)
	pr.IncDocument(DocumentChecked)
	pr.IncDocument(DocumentChecked)
	pr.IncLink("internal", true)
	pr.IncLink("internal", false)
	pr.ObserveExternalCheck(150*time.Millisecond, true)
	pr.IncExternalCacheHit()
	pr.IncExternalRetry()

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, mfs, 7)

	require.InDelta(t, 2, counterValue(t, mfs, "doclinks_documents_total", "checked"), 0)
	require.InDelta(t, 1, counterValue(t, mfs, "doclinks_links_total", "internal", "false"), 0)
	require.InDelta(t, 1, counterValue(t, mfs, "doclinks_external_cache_hits_total"), 0)
}

// counterValue returns the counter in family name whose label values equal
// labels, in declaration order.
func counterValue(t *testing.T, mfs []*dto.MetricFamily, name string, labels ...string) float64 {
	t.Helper()
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if len(m.GetLabel()) != len(labels) {
				continue
			}
			match := true
			for i, lp := range m.GetLabel() {
				if lp.GetValue() != labels[i] {
					match = false
				}
			}
			if match {
				return m.GetCounter().GetValue()
			}
		}
	}
	t.Fatalf("metric %s%v not found", name, labels)
	return 0
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	require.NotPanics(t, func() {
		pr.ObserveRunDuration(time.Second)
		pr.IncRunOutcome(ResultFailed)
		pr.IncDocument(DocumentReadError)
		pr.IncLink("anchor", true)
		pr.ObserveExternalCheck(time.Second, false)
		pr.IncExternalCacheHit()
		pr.IncExternalRetry()
	})
}

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncLink("external", true)
	r = NewPrometheusRecorder(nil)
	r.IncLink("external", true)
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncRunOutcome(ResultFailed)

	path := filepath.Join(t.TempDir(), "doclinks.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), `doclinks_run_outcomes_total{outcome="failed"} 1`))
}

func TestWriteTextfile_BadPath(t *testing.T) {
	err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"), prom.NewRegistry())
	require.Error(t, err)
}
