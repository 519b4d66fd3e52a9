// Package simulated stands in for the remote lookup with deterministic
// behavior derived from the account number.
package simulated

import (
	"context"
	"math/rand/v2"
	"time"

	"bankqr/internal/account"
	"bankqr/internal/bank"
	"bankqr/internal/verification/providers"
)

// DelayPolicy decides how long an attempt waits before answering.
type DelayPolicy func(accountNumber string) time.Duration

// NoDelay answers immediately.
func NoDelay(string) time.Duration { return 0 }

// FixedDelay always waits d.
func FixedDelay(d time.Duration) DelayPolicy {
	return func(string) time.Duration { return d }
}

// UniformDelay waits a random duration in [lo, hi].
func UniformDelay(lo, hi time.Duration) DelayPolicy {
	if hi < lo {
		lo, hi = hi, lo
	}
	return func(string) time.Duration {
		if hi == lo {
			return lo
		}
		return lo + rand.N(hi-lo+1)
	}
}

// Provider fails on roughly a quarter of inputs (digit sum divisible by 4)
// and otherwise returns a synthetic name.
type Provider struct {
	id    string
	delay DelayPolicy
}

// Option configures a Provider.
type Option func(*Provider)

// WithDelay replaces the delay policy. The default is NoDelay.
func WithDelay(policy DelayPolicy) Option {
	return func(p *Provider) {
		if policy != nil {
			p.delay = policy
		}
	}
}

// New creates the simulated provider.
func New(id string, opts ...Option) *Provider {
	p := &Provider{id: id, delay: NoDelay}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) ID() string { return p.id }

func (p *Provider) Tier() providers.Tier { return providers.TierSimulated }

func (p *Provider) Attempt(ctx context.Context, def bank.Definition, accountNumber string) (*providers.Resolution, error) {
	if d := p.delay(accountNumber); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, providers.NewProviderError(providers.ErrorTimeout, p.id, "simulated lookup cancelled", ctx.Err())
		case <-timer.C:
		}
	}

	if Fails(accountNumber) {
		return nil, providers.NewProviderError(providers.ErrorNotFound, p.id, "simulated lookup failure", nil)
	}

	return &providers.Resolution{
		Name:      account.GenerateName(def.ID, accountNumber),
		Synthetic: true,
	}, nil
}

// Fails reports whether the simulated lookup rejects accountNumber.
func Fails(accountNumber string) bool {
	return digitSum(accountNumber)%4 == 0
}

func digitSum(s string) int {
	sum := 0
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			sum += int(c - '0')
		}
	}
	return sum
}
