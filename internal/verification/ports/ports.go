// Package ports defines the interfaces the verification service depends on.
package ports

import "context"

// UsageSink counts resolution attempts by outcome label. Implementations
// must not block the caller and must be safe for concurrent use.
type UsageSink interface {
	Record(ctx context.Context, label string)
}
