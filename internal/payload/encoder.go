// Package payload encodes VietQR transfer payloads: EMV merchant-presented
// QR strings made of nested tag-length-value fields with a CRC16 trailer.
package payload

import (
	"errors"
	"fmt"

	"bankqr/internal/account"
	"bankqr/internal/bank"
	"bankqr/internal/payload/metrics"
	dErrors "bankqr/pkg/domain-errors"
)

// ErrInvalidBank is returned when the definition passed to Encode is not in
// the bank registry.
var ErrInvalidBank = errors.New("bank definition not recognized")

// ErrNotDigits is returned when the account number or amount holds anything
// other than ASCII digits.
var ErrNotDigits = errors.New("field must contain ASCII digits only")

// Top-level tags, in emission order.
const (
	TagVersion        = "00"
	TagInitMethod     = "01"
	TagMerchantInfo   = "38"
	TagCurrency       = "53"
	TagAmount         = "54"
	TagCountry        = "58"
	TagAdditionalData = "62"
	TagCRC            = "63"
)

// Sub-tags of the merchant account template (38).
const (
	SubTagScheme  = "00"
	SubTagBIN     = "01"
	SubTagAccount = "02"
)

// SubTagPurpose carries the transfer description inside template 62.
const SubTagPurpose = "08"

// Fixed field values.
const (
	Version            = "01"
	InitMethodStatic   = "11"
	SchemeID           = "A000000727"
	CurrencyVND        = "704"
	CountryVN          = "VN"
	DefaultDescription = "payment for invoice"
)

// crcPrefix is tag 63 with its fixed length; the checksum covers it.
const crcPrefix = TagCRC + "04"

// Encoder builds transfer payloads. The zero value is not usable; use NewEncoder.
type Encoder struct {
	metrics *metrics.Metrics
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithMetrics records encode outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Encoder) {
		e.metrics = m
	}
}

// NewEncoder creates an Encoder.
func NewEncoder(opts ...Option) *Encoder {
	e := &Encoder{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode serializes a transfer to a payload string. amount is omitted from
// the payload when empty. description is folded to ASCII and replaced with
// DefaultDescription when nothing remains.
//
// Errors (all code invariant_violation): ErrInvalidBank for an unregistered
// definition, ErrNotDigits for an empty or non-digit account number or a
// non-digit amount, and ErrFieldTooLong for a value that cannot fit a
// two-digit length. No partial payload is ever returned.
func (e *Encoder) Encode(def bank.Definition, accountNumber, amount, description string) (string, error) {
	if !bank.Recognizes(def) {
		e.metrics.IncrementEncodeFailure("invalid_bank")
		return "", dErrors.Wrap(
			fmt.Errorf("%w: %q", ErrInvalidBank, def.ID),
			dErrors.CodeInvariantViolation,
			"bank definition not recognized",
		)
	}

	if !asciiDigits(accountNumber) {
		e.metrics.IncrementEncodeFailure("not_digits")
		return "", notDigits("account number", accountNumber)
	}
	if amount != "" && !asciiDigits(amount) {
		e.metrics.IncrementEncodeFailure("not_digits")
		return "", notDigits("amount", amount)
	}

	desc := account.FoldASCII(description)
	if desc == "" {
		desc = DefaultDescription
	}

	var w tlvWriter
	w.field(TagVersion, Version)
	w.field(TagInitMethod, InitMethodStatic)
	w.nested(TagMerchantInfo, func(in *tlvWriter) {
		in.field(SubTagScheme, SchemeID)
		in.field(SubTagBIN, def.BIN)
		in.field(SubTagAccount, accountNumber)
	})
	w.field(TagCurrency, CurrencyVND)
	if amount != "" {
		w.field(TagAmount, amount)
	}
	w.field(TagCountry, CountryVN)
	w.nested(TagAdditionalData, func(in *tlvWriter) {
		in.field(SubTagPurpose, desc)
	})
	w.raw(crcPrefix)
	if w.err != nil {
		e.metrics.IncrementEncodeFailure("field_too_long")
		return "", w.err
	}

	body := w.String()
	e.metrics.IncrementEncoded(amount != "")
	return body + Checksum(body), nil
}

func asciiDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func notDigits(field, value string) error {
	return dErrors.Wrap(
		fmt.Errorf("%w: %s %q", ErrNotDigits, field, value),
		dErrors.CodeInvariantViolation,
		field+" must be ASCII digits",
	)
}
