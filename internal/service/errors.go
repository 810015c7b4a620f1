package service

import "errors"

// Kind classifies an internal failure for structured logging. The public
// API collapses every kind to one flat error shape; classification never
// changes what the caller sees.
type Kind string

const (
	KindUnknown       Kind = "unknown"
	KindConfigMissing Kind = "config_missing"
	KindUpstreamDown  Kind = "upstream_unreachable"
	// KindUpstreamStatus covers non-200 upstream answers of any cause;
	// rate limiting, bad credentials and rejected input are not told
	// apart.
	KindUpstreamStatus Kind = "upstream_status"
	KindBadPayload     Kind = "bad_upstream_payload"
	KindAggregation    Kind = "aggregation"
	KindPersistence    Kind = "persistence"
)

// Failure pairs a classification with the underlying cause.
type Failure struct {
	Kind Kind
	Err  error
}

func (f *Failure) Error() string { return f.Err.Error() }

func (f *Failure) Unwrap() error { return f.Err }

// KindOf extracts the classification carried by err, or KindUnknown when
// err was never classified.
func KindOf(err error) Kind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindUnknown
}
