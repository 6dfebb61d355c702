package config

import "strings"

// RetryBackoffMode enumerates supported backoff strategies for retries.
type RetryBackoffMode string

const (
	RetryBackoffFixed       RetryBackoffMode = "fixed"
	RetryBackoffLinear      RetryBackoffMode = "linear"
	RetryBackoffExponential RetryBackoffMode = "exponential"
)

// NormalizeRetryBackoff converts user input (case-insensitive) into a typed mode, returning empty string for unknown.
func NormalizeRetryBackoff(raw string) RetryBackoffMode {
	switch RetryBackoffMode(strings.ToLower(strings.TrimSpace(raw))) {
	case RetryBackoffFixed:
		return RetryBackoffFixed
	case RetryBackoffLinear:
		return RetryBackoffLinear
	case RetryBackoffExponential:
		return RetryBackoffExponential
	default:
		return ""
	}
}

// ReportFormat selects how a report is printed to stdout.
type ReportFormat string

const (
	ReportFormatText ReportFormat = "text"
	ReportFormatJSON ReportFormat = "json"
)

// NormalizeReportFormat canonicalizes user input returning empty string if unknown.
func NormalizeReportFormat(raw string) ReportFormat {
	switch ReportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case ReportFormatText:
		return ReportFormatText
	case ReportFormatJSON:
		return ReportFormatJSON
	default:
		return ""
	}
}
