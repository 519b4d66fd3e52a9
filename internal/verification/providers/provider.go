package providers

import (
	"context"

	"bankqr/internal/bank"
)

// Tier names one stage of the resolution chain. The values double as usage
// labels and appear verbatim in API responses.
type Tier string

const (
	TierPrimary   Tier = "Primary"
	TierSimulated Tier = "Simulated"
	TierSynthetic Tier = "Synthetic"
)

// Resolution is a successful answer from a tier. Name is always in
// normalized form (see account.Normalize).
type Resolution struct {
	Name      string
	Synthetic bool
}

// Provider is one strategy in the ordered resolution chain.
type Provider interface {
	// ID returns a unique identifier for this provider instance.
	ID() string

	// Tier reports which stage of the chain this provider fills.
	Tier() Tier

	// Attempt tries to resolve the holder name exactly once. Failures are
	// returned as *ProviderError so the orchestrator can classify them.
	Attempt(ctx context.Context, def bank.Definition, accountNumber string) (*Resolution, error)
}
