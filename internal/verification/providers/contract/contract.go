// Package contract provides reusable test suites every tier provider must pass.
package contract

import (
	"context"
	"testing"

	"bankqr/internal/account"
	"bankqr/internal/bank"
	"bankqr/internal/verification/providers"
)

// ContractTest defines a test case for provider contract validation
type ContractTest struct {
	Name         string
	Provider     providers.Provider
	Bank         bank.Definition
	Account      string
	ValidateFunc func(res *providers.Resolution) error
}

// ContractSuite is a collection of contract tests for a provider
type ContractSuite struct {
	ProviderID string
	Tier       providers.Tier
	Tests      []ContractTest
}

// Run executes all contract tests in the suite
func (s *ContractSuite) Run(t *testing.T) {
	for _, test := range s.Tests {
		t.Run(test.Name, func(t *testing.T) {
			ctx := context.Background()

			if test.Provider.ID() != s.ProviderID {
				t.Errorf("expected provider ID %s, got %s", s.ProviderID, test.Provider.ID())
			}
			if test.Provider.Tier() != s.Tier {
				t.Errorf("expected tier %s, got %s", s.Tier, test.Provider.Tier())
			}

			res, err := test.Provider.Attempt(ctx, test.Bank, test.Account)
			if err != nil {
				t.Fatalf("provider attempt failed: %v", err)
			}
			if res == nil {
				t.Fatal("nil resolution without error")
			}

			// Names leave every tier already normalized
			if res.Name == "" {
				t.Error("empty resolved name")
			}
			if got := account.Normalize(res.Name); got != res.Name {
				t.Errorf("name %q is not normalized (want %q)", res.Name, got)
			}

			if s.Tier != providers.TierPrimary && !res.Synthetic {
				t.Errorf("tier %s must flag its data as synthetic", s.Tier)
			}

			if test.ValidateFunc != nil {
				if err := test.ValidateFunc(res); err != nil {
					t.Errorf("custom validation failed: %v", err)
				}
			}
		})
	}
}

// ErrorContractTest validates that provider errors follow the taxonomy
type ErrorContractTest struct {
	Name          string
	Provider      providers.Provider
	Bank          bank.Definition
	Account       string
	ExpectedError providers.ErrorCategory
}

// Run executes an error contract test
func (ect *ErrorContractTest) Run(t *testing.T) {
	t.Run(ect.Name, func(t *testing.T) {
		res, err := ect.Provider.Attempt(context.Background(), ect.Bank, ect.Account)
		if err == nil {
			t.Fatalf("expected error but got resolution %+v", res)
		}
		if res != nil {
			t.Errorf("expected nil resolution alongside error, got %+v", res)
		}

		category := providers.GetCategory(err)
		if category != ect.ExpectedError {
			t.Errorf("expected error category %s, got %s (%v)", ect.ExpectedError, category, err)
		}
	})
}
