package models

import (
	"strings"

	"bankqr/internal/verification/providers"
	dErrors "bankqr/pkg/domain-errors"
)

// UsageLabelError is recorded when resolution stops before any tier runs.
const UsageLabelError = "Error"

// MaxBatchSize caps the number of accounts in one batch request.
const MaxBatchSize = 50

// Outcome is the result of one resolution. Diagnostics is never nil.
type Outcome struct {
	Resolved    bool           `json:"resolved"`
	Name        string         `json:"name,omitempty"`
	Tier        providers.Tier `json:"tier,omitempty"`
	Synthetic   bool           `json:"synthetic"`
	LatencyMs   int64          `json:"latency_ms"`
	Diagnostics []string       `json:"diagnostics"`
}

// UsageLabel is the counter label for this outcome.
func (o *Outcome) UsageLabel() string {
	if !o.Resolved {
		return UsageLabelError
	}
	return string(o.Tier)
}

// VerifyRequest asks for a single account name.
type VerifyRequest struct {
	BankID        string `json:"bank_id"`
	AccountNumber string `json:"account_number"`
}

// Validate trims the fields and checks presence of the bank. Account number
// rules are reported inside the outcome, not here.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *VerifyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.BankID = strings.ToUpper(strings.TrimSpace(r.BankID))
	r.AccountNumber = strings.TrimSpace(r.AccountNumber)
	if r.BankID == "" {
		return dErrors.New(dErrors.CodeValidation, "bank_id is required")
	}
	return nil
}

// BatchRequest resolves several accounts in one call.
type BatchRequest struct {
	Items []VerifyRequest `json:"items"`
}

func (r *BatchRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Items) == 0 {
		return dErrors.New(dErrors.CodeValidation, "items must not be empty")
	}
	if len(r.Items) > MaxBatchSize {
		return dErrors.New(dErrors.CodeValidation, "too many items in batch")
	}
	for i := range r.Items {
		if err := r.Items[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// BatchResult pairs each request item with its outcome or error. Results
// keep request order.
type BatchResult struct {
	BankID        string   `json:"bank_id"`
	AccountNumber string   `json:"account_number"`
	Outcome       *Outcome `json:"outcome,omitempty"`
	Error         string   `json:"error,omitempty"`
}
