package account

import (
	"fmt"
	"unicode/utf8"

	"bankqr/internal/bank"
)

const (
	MinLength = 6
	MaxLength = 25
)

// Validation messages for rejected account numbers.
const (
	MsgMissing    = "missing account number"
	MsgTooShort   = "too short"
	MsgTooLong    = "too long"
	MsgDigitsOnly = "digits only"
)

// ValidationResult is the outcome of Validate.
type ValidationResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// lengthHints are advisory only and never cause rejection.
var lengthHints = map[string]string{
	"VCB":  "13 digits",
	"TCB":  "14 digits",
	"BIDV": "14 digits",
	"VTB":  "12 digits",
	"ACB":  "8 to 9 digits",
	"MB":   "9 to 13 digits",
	"TPB":  "11 digits",
	"VPB":  "9 digits",
	"AGR":  "13 digits",
	"STB":  "12 digits",
	"SHB":  "10 to 13 digits",
	"HDB":  "12 to 14 digits",
	"VIB":  "16 digits",
	"OCB":  "12 digits",
	"MSB":  "14 digits",
}

const defaultHint = "6 to 25 digits"

// Validate checks the structure of accountNumber. Rules apply in order and
// the first failing rule decides the message.
func Validate(accountNumber, bankID string) ValidationResult {
	switch n := utf8.RuneCountInString(accountNumber); {
	case n == 0:
		return ValidationResult{Message: MsgMissing}
	case n < MinLength:
		return ValidationResult{Message: MsgTooShort}
	case n > MaxLength:
		return ValidationResult{Message: MsgTooLong}
	}
	if !isDigits(accountNumber) {
		return ValidationResult{Message: MsgDigitsOnly}
	}

	name := bankID
	if def, err := bank.Lookup(bankID); err == nil {
		name = def.Name
	}
	hint, ok := lengthHints[bankID]
	if !ok {
		hint = defaultHint
	}
	return ValidationResult{
		Valid:   true,
		Message: fmt.Sprintf("valid %s account number (typically %s)", name, hint),
	}
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Mask hides all but the last four characters of an account number for logs.
func Mask(accountNumber string) string {
	const visible = 4
	if len(accountNumber) <= visible {
		return accountNumber
	}
	masked := make([]byte, len(accountNumber))
	for i := range masked {
		if i < len(accountNumber)-visible {
			masked[i] = '*'
		} else {
			masked[i] = accountNumber[i]
		}
	}
	return string(masked)
}
