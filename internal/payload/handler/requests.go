package handler

import (
	"strings"
	"unicode/utf8"

	"bankqr/internal/account"
	"bankqr/internal/bank"
	dErrors "bankqr/pkg/domain-errors"
)

const (
	// MaxAmountDigits is the EMV limit for tag 54.
	MaxAmountDigits = 13

	// MaxDescriptionLength leaves room for the sub-tag header inside
	// template 62.
	MaxDescriptionLength = 95
)

// PayloadRequest is the body of POST /v1/payloads and /v1/payloads/qr.png.
type PayloadRequest struct {
	BankID        string `json:"bank_id"`
	AccountNumber string `json:"account_number"`
	Amount        string `json:"amount,omitempty"`
	Description   string `json:"description,omitempty"`
	VerifyName    bool   `json:"verify_name,omitempty"`

	// Populated by Validate
	bank bank.Definition
}

// Validate trims and checks the request, resolving the bank definition.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *PayloadRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.BankID = strings.ToUpper(strings.TrimSpace(r.BankID))
	r.AccountNumber = strings.TrimSpace(r.AccountNumber)
	r.Amount = strings.TrimSpace(r.Amount)
	r.Description = strings.TrimSpace(r.Description)

	if r.BankID == "" {
		return dErrors.New(dErrors.CodeValidation, "bank_id is required")
	}
	def, err := bank.Lookup(r.BankID)
	if err != nil {
		return err
	}
	r.bank = def

	if res := account.Validate(r.AccountNumber, r.BankID); !res.Valid {
		return dErrors.New(dErrors.CodeValidation, "account_number: "+res.Message)
	}

	if r.Amount != "" {
		if len(r.Amount) > MaxAmountDigits {
			return dErrors.New(dErrors.CodeValidation, "amount is too large")
		}
		for i := 0; i < len(r.Amount); i++ {
			if r.Amount[i] < '0' || r.Amount[i] > '9' {
				return dErrors.New(dErrors.CodeValidation, "amount must be a whole number of VND")
			}
		}
	}

	if utf8.RuneCountInString(r.Description) > MaxDescriptionLength {
		return dErrors.New(dErrors.CodeValidation, "description is too long")
	}
	return nil
}

// Bank returns the definition resolved by Validate.
func (r *PayloadRequest) Bank() bank.Definition {
	return r.bank
}
