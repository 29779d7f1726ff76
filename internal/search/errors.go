package search

import "fmt"

// ErrorKind classifies a search failure for callers and metrics.
type ErrorKind string

const (
	// ErrKindValidation means the input itself was unusable; the caller can
	// correct it and retry.
	ErrKindValidation ErrorKind = "validation"
	// ErrKindUpstream means a persistent-store call failed or timed out.
	ErrKindUpstream ErrorKind = "upstream"
	// ErrKindCompute means enrichment or ranking failed unexpectedly.
	ErrKindCompute ErrorKind = "compute"
)

// Error is a classified search failure. Upstream and compute failures
// surface to callers as "search temporarily unavailable" plus the
// correlation ID; the wrapped cause stays in the logs.
type Error struct {
	Kind          ErrorKind
	CorrelationID string
	Err           error
}

func (e *Error) Error() string {
	if e.CorrelationID != "" {
		return fmt.Sprintf("search %s failure [%s]: %v", e.Kind, e.CorrelationID, e.Err)
	}
	return fmt.Sprintf("search %s failure: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
