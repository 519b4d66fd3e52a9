// Package primary queries the authoritative account-name lookup service.
package primary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"bankqr/internal/account"
	"bankqr/internal/bank"
	"bankqr/internal/verification/providers"
	"bankqr/pkg/platform/circuit"
)

const (
	// DefaultTimeout bounds a lookup when the configuration leaves it unset.
	DefaultTimeout = 8 * time.Second

	headerClientID = "x-client-id"
	headerAPIKey   = "x-api-key"

	codeFound    = "00"
	codeNotFound = "01"

	maxResponseBytes = 1 << 20
)

// Config carries the remote endpoint and its credentials. Empty credentials
// are sent as-is; the remote side rejects them and the chain moves on.
type Config struct {
	Endpoint string
	ClientID string
	APIKey   string
	Timeout  time.Duration
}

// Provider calls the remote lookup endpoint once per attempt.
type Provider struct {
	id       string
	endpoint string
	clientID string
	apiKey   string
	timeout  time.Duration
	client   *http.Client
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithHTTPClient overrides the transport, mostly for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) {
		p.client = c
	}
}

// WithBreaker skips the remote call while the endpoint keeps failing.
func WithBreaker(b *circuit.Breaker) Option {
	return func(p *Provider) {
		p.breaker = b
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}

// New creates the primary provider.
func New(id string, cfg Config, opts ...Option) *Provider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	p := &Provider{
		id:       id,
		endpoint: cfg.Endpoint,
		clientID: cfg.ClientID,
		apiKey:   cfg.APIKey,
		timeout:  timeout,
		client:   &http.Client{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) ID() string { return p.id }

func (p *Provider) Tier() providers.Tier { return providers.TierPrimary }

type lookupRequest struct {
	BIN           string `json:"bin"`
	AccountNumber string `json:"accountNumber"`
}

type lookupResponse struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
	Data *struct {
		AccountName string `json:"accountName"`
	} `json:"data"`
}

// Attempt posts {bin, accountNumber} and classifies the answer. The request
// is cancelled when the configured timeout elapses.
func (p *Provider) Attempt(ctx context.Context, def bank.Definition, accountNumber string) (*providers.Resolution, error) {
	if p.breaker == nil {
		return p.lookup(ctx, def, accountNumber)
	}
	if !p.breaker.Allow() {
		return nil, providers.NewProviderError(providers.ErrorProviderOutage, p.id, "circuit open, lookup skipped", nil)
	}

	res, err := p.lookup(ctx, def, accountNumber)
	if err != nil && tripsBreaker(providers.GetCategory(err)) {
		if p.breaker.RecordFailure() {
			p.logger.WarnContext(ctx, "lookup circuit opened",
				"provider_id", p.id,
				"error", err,
			)
		}
		return nil, err
	}
	p.breaker.RecordSuccess()
	return res, err
}

// tripsBreaker reports whether a failure says the endpoint is unhealthy, as
// opposed to a well-formed negative answer.
func tripsBreaker(c providers.ErrorCategory) bool {
	switch c {
	case providers.ErrorTimeout, providers.ErrorProviderOutage,
		providers.ErrorRateLimited, providers.ErrorAuthentication:
		return true
	default:
		return false
	}
}

func (p *Provider) lookup(ctx context.Context, def bank.Definition, accountNumber string) (*providers.Resolution, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	body, err := json.Marshal(lookupRequest{BIN: def.BIN, AccountNumber: accountNumber})
	if err != nil {
		return nil, providers.NewProviderError(providers.ErrorInternal, p.id, "encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, providers.NewProviderError(providers.ErrorProviderOutage, p.id, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerClientID, p.clientID)
	req.Header.Set(headerAPIKey, p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, providers.NewProviderError(providers.ClassifyTransport(err), p.id, "lookup request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, providers.NewProviderError(providers.ClassifyTransport(err), p.id, "read response", err)
	}

	return parseLookupResponse(p.id, resp.StatusCode, raw)
}

func parseLookupResponse(providerID string, status int, body []byte) (*providers.Resolution, error) {
	if status < 200 || status > 299 {
		return nil, providers.NewProviderError(statusCategory(status), providerID,
			fmt.Sprintf("unexpected status %d", status), nil)
	}

	var resp lookupResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, providers.NewProviderError(providers.ErrorBadData, providerID, "malformed response body", err)
	}

	switch resp.Code {
	case codeFound:
		if resp.Data == nil {
			return nil, providers.NewProviderError(providers.ErrorBadData, providerID, "found response without data", nil)
		}
		name := account.Normalize(resp.Data.AccountName)
		if name == "" {
			return nil, providers.NewProviderError(providers.ErrorBadData, providerID, "account name empty after normalization", nil)
		}
		return &providers.Resolution{Name: name}, nil
	case codeNotFound:
		msg := "account not found"
		if resp.Desc != "" {
			msg += ": " + resp.Desc
		}
		return nil, providers.NewProviderError(providers.ErrorNotFound, providerID, msg, nil)
	default:
		return nil, providers.NewProviderError(providers.ErrorContractMismatch, providerID,
			fmt.Sprintf("unrecognized response code %q", resp.Code), nil)
	}
}

func statusCategory(status int) providers.ErrorCategory {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return providers.ErrorAuthentication
	case status == http.StatusTooManyRequests:
		return providers.ErrorRateLimited
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return providers.ErrorTimeout
	default:
		return providers.ErrorProviderOutage
	}
}
