package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"bankqr/internal/account"
	"bankqr/internal/bank"
	"bankqr/internal/verification/metrics"
	"bankqr/internal/verification/models"
	"bankqr/internal/verification/ports"
	"bankqr/internal/verification/providers"
	dErrors "bankqr/pkg/domain-errors"
)

const (
	tracerName = "bankqr/verification"

	// batchConcurrency bounds in-flight resolutions for one batch request.
	batchConcurrency = 8
)

// Service walks the tier chain until one provider resolves the name.
type Service struct {
	chain   []providers.Provider
	usage   ports.UsageSink
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithUsageSink(sink ports.UsageSink) Option {
	return func(s *Service) {
		s.usage = sink
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// New builds the service. The chain runs in order and must end with a
// synthetic-tier provider so every valid request resolves.
func New(chain []providers.Provider, opts ...Option) (*Service, error) {
	if len(chain) == 0 {
		return nil, errors.New("verification chain is empty")
	}
	if last := chain[len(chain)-1]; last.Tier() != providers.TierSynthetic {
		return nil, fmt.Errorf("verification chain must end with the %s tier, got %s", providers.TierSynthetic, last.Tier())
	}

	s := &Service{
		chain:  append([]providers.Provider(nil), chain...),
		logger: slog.Default(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Resolve validates the account number and runs the chain. An invalid
// account yields an unresolved outcome and no error; an unknown bank is an
// error. Soft failures of individual tiers end up in Diagnostics.
func (s *Service) Resolve(ctx context.Context, bankID, accountNumber string) (*models.Outcome, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveResolveLatency(time.Since(start))
	}()

	validation := account.Validate(accountNumber, bankID)
	if !validation.Valid {
		s.record(ctx, models.UsageLabelError)
		return &models.Outcome{Diagnostics: []string{validation.Message}}, nil
	}

	def, err := bank.Lookup(bankID)
	if err != nil {
		s.record(ctx, models.UsageLabelError)
		return nil, err
	}

	diagnostics := make([]string, 0, len(s.chain))
	for _, p := range s.chain {
		res, elapsed, err := s.attempt(ctx, p, def, accountNumber)
		if err != nil {
			category := providers.GetCategory(err)
			diagnostics = append(diagnostics, diagnostic(p.Tier(), category, err))
			s.metrics.IncrementSoftFailure(string(p.Tier()), string(category))
			s.logger.WarnContext(ctx, "verification tier failed",
				"tier", p.Tier(),
				"provider_id", p.ID(),
				"bank_id", def.ID,
				"account", account.Mask(accountNumber),
				"category", category,
				"error", err,
			)
			continue
		}

		outcome := &models.Outcome{
			Resolved:    true,
			Name:        res.Name,
			Tier:        p.Tier(),
			Synthetic:   res.Synthetic,
			LatencyMs:   elapsed.Milliseconds(),
			Diagnostics: diagnostics,
		}
		s.record(ctx, outcome.UsageLabel())
		s.logger.InfoContext(ctx, "account name resolved",
			"tier", outcome.Tier,
			"bank_id", def.ID,
			"account", account.Mask(accountNumber),
			"latency_ms", outcome.LatencyMs,
		)
		return outcome, nil
	}

	// Unreachable while New enforces a synthetic tail.
	s.record(ctx, models.UsageLabelError)
	return nil, dErrors.New(dErrors.CodeInternal, "no verification tier produced a name")
}

func (s *Service) attempt(ctx context.Context, p providers.Provider, def bank.Definition, accountNumber string) (*providers.Resolution, time.Duration, error) {
	tier := p.Tier()
	ctx, span := s.tracer.Start(ctx, "verification.tier."+strings.ToLower(string(tier)),
		trace.WithAttributes(
			attribute.String("bank.id", def.ID),
			attribute.String("verification.tier", string(tier)),
			attribute.String("provider.id", p.ID()),
		))
	defer span.End()

	start := time.Now()
	res, err := p.Attempt(ctx, def, accountNumber)
	elapsed := time.Since(start)
	s.metrics.ObserveTierLatency(string(tier), elapsed)

	if err == nil && res == nil {
		err = providers.NewProviderError(providers.ErrorInternal, p.ID(), "provider returned no resolution", nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(providers.GetCategory(err)))
		return nil, elapsed, err
	}
	span.SetStatus(codes.Ok, "")
	return res, elapsed, nil
}

// ResolveBatch resolves every item concurrently. A failing item carries its
// error message and does not affect the others.
func (s *Service) ResolveBatch(ctx context.Context, items []models.VerifyRequest) []models.BatchResult {
	results := make([]models.BatchResult, len(items))

	var g errgroup.Group
	g.SetLimit(batchConcurrency)
	for i, item := range items {
		results[i] = models.BatchResult{BankID: item.BankID, AccountNumber: item.AccountNumber}
		g.Go(func() error {
			outcome, err := s.Resolve(ctx, item.BankID, item.AccountNumber)
			if err != nil {
				results[i].Error = err.Error()
				return nil
			}
			results[i].Outcome = outcome
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (s *Service) record(ctx context.Context, label string) {
	s.metrics.IncrementOutcome(label)
	if s.usage != nil {
		s.usage.Record(ctx, label)
	}
}

func diagnostic(tier providers.Tier, category providers.ErrorCategory, err error) string {
	var pe *providers.ProviderError
	if errors.As(err, &pe) {
		return fmt.Sprintf("[%s] %s: %s", tier, category, pe.Message)
	}
	return fmt.Sprintf("[%s] %s: %v", tier, category, err)
}
