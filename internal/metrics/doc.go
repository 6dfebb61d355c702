// Package metrics provides observability hooks for link check runs.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics stay optional:
//
//	checker := linkcheck.New(opts) // NoopRecorder
//	checker.WithRecorder(metrics.NewPrometheusRecorder(reg))
//
// PrometheusRecorder registers its collectors on a caller-supplied registry.
// A CLI run has no scrape endpoint; WriteTextfile dumps the registry in the
// text exposition format for the node-exporter textfile collector.
package metrics
