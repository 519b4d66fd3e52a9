package providers

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorCategory defines the normalized failure taxonomy
type ErrorCategory string

const (
	// ErrorTimeout indicates the provider took too long to respond
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorBadData indicates the provider returned invalid/malformed data
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorAuthentication indicates credential or permission issues
	ErrorAuthentication ErrorCategory = "authentication"

	// ErrorProviderOutage indicates the provider is unavailable
	ErrorProviderOutage ErrorCategory = "provider_outage"

	// ErrorContractMismatch indicates an unrecognized response code
	ErrorContractMismatch ErrorCategory = "contract_mismatch"

	// ErrorNotFound indicates the account is unknown to the provider
	ErrorNotFound ErrorCategory = "not_found"

	// ErrorRateLimited indicates too many requests
	ErrorRateLimited ErrorCategory = "rate_limited"

	// ErrorInternal indicates an unexpected internal error
	ErrorInternal ErrorCategory = "internal"
)

// ProviderError wraps provider failures with normalized categorization
type ProviderError struct {
	Category   ErrorCategory
	ProviderID string
	Message    string
	Underlying error
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("provider %s [%s]: %s: %v", e.ProviderID, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("provider %s [%s]: %s", e.ProviderID, e.Category, e.Message)
}

// Unwrap supports error unwrapping
func (e *ProviderError) Unwrap() error {
	return e.Underlying
}

// NewProviderError creates a new normalized provider error
func NewProviderError(category ErrorCategory, providerID, message string, underlying error) *ProviderError {
	return &ProviderError{
		Category:   category,
		ProviderID: providerID,
		Message:    message,
		Underlying: underlying,
	}
}

// GetCategory extracts the error category from an error
func GetCategory(err error) ErrorCategory {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Category
	}
	return ErrorInternal
}

// ClassifyTransport maps an error from an outbound call to a category:
// deadline and net timeouts are ErrorTimeout, anything else is an outage.
func ClassifyTransport(err error) ErrorCategory {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrorTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ErrorTimeout
	}
	return ErrorProviderOutage
}
