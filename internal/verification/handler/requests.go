package handler

import (
	"strings"

	dErrors "bankqr/pkg/domain-errors"
)

// ValidateRequest is the body of POST /v1/accounts/validate. The bank is
// optional; it only shapes the advisory hint.
type ValidateRequest struct {
	BankID        string `json:"bank_id"`
	AccountNumber string `json:"account_number"`
}

// Validate trims the fields. Account number rules are reported in the
// response body rather than as an error.
func (r *ValidateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.BankID = strings.ToUpper(strings.TrimSpace(r.BankID))
	r.AccountNumber = strings.TrimSpace(r.AccountNumber)
	return nil
}
