package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and adapters return these
// (wrapped) so handlers can translate them into domain errors.
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	// ErrUnavailable means the backing service could not be reached or
	// answered with a transport-level failure.
	ErrUnavailable = errors.New("unavailable")
)
