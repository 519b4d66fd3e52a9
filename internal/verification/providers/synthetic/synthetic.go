// Package synthetic is the last tier of the chain: it always answers with a
// deterministic generated name.
package synthetic

import (
	"context"

	"bankqr/internal/account"
	"bankqr/internal/bank"
	"bankqr/internal/verification/providers"
)

type Provider struct {
	id string
}

func New(id string) *Provider {
	return &Provider{id: id}
}

func (p *Provider) ID() string { return p.id }

func (p *Provider) Tier() providers.Tier { return providers.TierSynthetic }

// Attempt never fails.
func (p *Provider) Attempt(_ context.Context, def bank.Definition, accountNumber string) (*providers.Resolution, error) {
	return &providers.Resolution{
		Name:      account.GenerateName(def.ID, accountNumber),
		Synthetic: true,
	}, nil
}
