package service

//go:generate mockgen -source=../providers/provider.go -destination=../providers/mocks/mocks.go -package=mocks Provider
//go:generate mockgen -source=../ports/ports.go -destination=../ports/mocks/mocks.go -package=mocks UsageSink

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/mock/gomock"

	"bankqr/internal/account"
	"bankqr/internal/bank"
	"bankqr/internal/verification/metrics"
	"bankqr/internal/verification/models"
	portmocks "bankqr/internal/verification/ports/mocks"
	"bankqr/internal/verification/providers"
	"bankqr/internal/verification/providers/mocks"
	"bankqr/internal/verification/providers/simulated"
	"bankqr/internal/verification/providers/synthetic"
	dErrors "bankqr/pkg/domain-errors"
)

// =============================================================================
// Verification Service Test Suite
// =============================================================================
// The primary tier is mocked; the simulated and synthetic tiers are the real
// deterministic implementations with no delay, so outcomes depend only on
// the account number.

type ServiceSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	primary   *mocks.MockProvider
	usageSink *portmocks.MockUsageSink
	metrics   *metrics.Metrics
	service   *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.primary = mocks.NewMockProvider(s.ctrl)
	s.primary.EXPECT().ID().Return("napas").AnyTimes()
	s.primary.EXPECT().Tier().Return(providers.TierPrimary).AnyTimes()
	s.usageSink = portmocks.NewMockUsageSink(s.ctrl)
	s.metrics = metrics.New(prometheus.NewRegistry())

	var err error
	s.service, err = New(
		[]providers.Provider{s.primary, simulated.New("simulated"), synthetic.New("synthetic")},
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithUsageSink(s.usageSink),
		WithMetrics(s.metrics),
	)
	s.Require().NoError(err)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) primaryFails(category providers.ErrorCategory) {
	s.primary.EXPECT().Attempt(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, providers.NewProviderError(category, "napas", "lookup failed", nil))
}

// =============================================================================
// Constructor Tests
// =============================================================================

func (s *ServiceSuite) TestNew() {
	s.Run("empty chain returns error", func() {
		_, err := New(nil)
		s.Error(err)
		s.Contains(err.Error(), "empty")
	})

	s.Run("chain without synthetic tail returns error", func() {
		_, err := New([]providers.Provider{synthetic.New("synthetic"), simulated.New("simulated")})
		s.Error(err)
		s.Contains(err.Error(), "must end with the Synthetic tier")
	})

	s.Run("with options applies options", func() {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		tracer := noop.NewTracerProvider().Tracer("test")
		svc, err := New(
			[]providers.Provider{synthetic.New("synthetic")},
			WithLogger(logger),
			WithUsageSink(s.usageSink),
			WithTracer(tracer),
		)
		s.Require().NoError(err)
		s.Equal(logger, svc.logger)
		s.Equal(s.usageSink, svc.usage)
		s.Equal(tracer, svc.tracer)
	})
}

// =============================================================================
// Validation Stage
// =============================================================================

func (s *ServiceSuite) TestResolve_InvalidAccount() {
	cases := []struct {
		account string
		message string
	}{
		{"", account.MsgMissing},
		{"12345", account.MsgTooShort},
		{"12345678901234567890123456", account.MsgTooLong},
		{"12345a", account.MsgDigitsOnly},
	}
	for _, tc := range cases {
		s.Run(tc.message, func() {
			s.usageSink.EXPECT().Record(gomock.Any(), models.UsageLabelError)

			out, err := s.service.Resolve(context.Background(), "VCB", tc.account)
			s.Require().NoError(err)
			s.False(out.Resolved)
			s.Empty(out.Name)
			s.Empty(out.Tier)
			s.Equal([]string{tc.message}, out.Diagnostics)
		})
	}
}

func (s *ServiceSuite) TestResolve_UnknownBank() {
	s.usageSink.EXPECT().Record(gomock.Any(), models.UsageLabelError)

	out, err := s.service.Resolve(context.Background(), "NOPE", "0123456789")
	s.Nil(out)
	s.Require().Error(err)
	s.ErrorIs(err, bank.ErrUnknownBank)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

// =============================================================================
// Tier Chain
// =============================================================================

func (s *ServiceSuite) TestResolve_PrimarySucceeds() {
	s.primary.EXPECT().Attempt(gomock.Any(), gomock.Any(), "0123456789").
		DoAndReturn(func(_ context.Context, def bank.Definition, _ string) (*providers.Resolution, error) {
			s.Equal("970436", def.BIN)
			return &providers.Resolution{Name: "NGUYEN VAN AN"}, nil
		})
	s.usageSink.EXPECT().Record(gomock.Any(), string(providers.TierPrimary))

	out, err := s.service.Resolve(context.Background(), "VCB", "0123456789")
	s.Require().NoError(err)
	s.True(out.Resolved)
	s.Equal("NGUYEN VAN AN", out.Name)
	s.Equal(providers.TierPrimary, out.Tier)
	s.False(out.Synthetic)
	s.NotNil(out.Diagnostics)
	s.Empty(out.Diagnostics)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Outcomes.WithLabelValues("Primary")))
}

func (s *ServiceSuite) TestResolve_FallsBackToSimulated() {
	s.primaryFails(providers.ErrorProviderOutage)
	s.usageSink.EXPECT().Record(gomock.Any(), string(providers.TierSimulated))

	out, err := s.service.Resolve(context.Background(), "TCB", "0123456789")
	s.Require().NoError(err)
	s.True(out.Resolved)
	s.Equal(providers.TierSimulated, out.Tier)
	s.True(out.Synthetic)
	s.Equal(account.GenerateName("TCB", "0123456789"), out.Name)
	s.Equal([]string{"[Primary] provider_outage: lookup failed"}, out.Diagnostics)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.SoftFailures.WithLabelValues("Primary", "provider_outage")))
}

// Account 000000 has digit sum 0, so the simulated tier fails as well.
func (s *ServiceSuite) TestResolve_LandsOnSynthetic() {
	s.primaryFails(providers.ErrorTimeout)
	s.usageSink.EXPECT().Record(gomock.Any(), string(providers.TierSynthetic))

	out, err := s.service.Resolve(context.Background(), "VCB", "000000")
	s.Require().NoError(err)
	s.True(out.Resolved)
	s.Equal(providers.TierSynthetic, out.Tier)
	s.True(out.Synthetic)
	s.Equal(account.GenerateName("VCB", "000000"), out.Name)
	s.Require().Len(out.Diagnostics, 2)
	s.Equal("[Primary] timeout: lookup failed", out.Diagnostics[0])
	s.Equal("[Simulated] not_found: simulated lookup failure", out.Diagnostics[1])
}

// =============================================================================
// Tracing
// =============================================================================

func (s *ServiceSuite) TestResolve_SpanPerAttemptedTier() {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	svc, err := New(
		[]providers.Provider{s.primary, simulated.New("simulated"), synthetic.New("synthetic")},
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithUsageSink(s.usageSink),
		WithTracer(tp.Tracer("test")),
	)
	s.Require().NoError(err)

	s.primaryFails(providers.ErrorTimeout)
	s.usageSink.EXPECT().Record(gomock.Any(), string(providers.TierSynthetic))

	_, err = svc.Resolve(context.Background(), "VCB", "000000")
	s.Require().NoError(err)

	spans := recorder.Ended()
	s.Require().Len(spans, 3)

	expected := []struct {
		name     string
		tier     providers.Tier
		provider string
		status   codes.Code
	}{
		{"verification.tier.primary", providers.TierPrimary, "napas", codes.Error},
		{"verification.tier.simulated", providers.TierSimulated, "simulated", codes.Error},
		{"verification.tier.synthetic", providers.TierSynthetic, "synthetic", codes.Ok},
	}
	for i, want := range expected {
		span := spans[i]
		s.Equal(want.name, span.Name())
		s.Equal(want.status, span.Status().Code, want.name)

		attrs := attribute.NewSet(span.Attributes()...)
		bankID, ok := attrs.Value("bank.id")
		s.True(ok)
		s.Equal("VCB", bankID.AsString())
		tier, ok := attrs.Value("verification.tier")
		s.True(ok)
		s.Equal(string(want.tier), tier.AsString())
		providerID, ok := attrs.Value("provider.id")
		s.True(ok)
		s.Equal(want.provider, providerID.AsString())
	}

	s.Equal("timeout", spans[0].Status().Description)
	s.Require().NotEmpty(spans[0].Events())
	s.Equal("exception", spans[0].Events()[0].Name)
}

func (s *ServiceSuite) TestResolve_InvalidAccountStartsNoSpan() {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	svc, err := New(
		[]providers.Provider{synthetic.New("synthetic")},
		WithUsageSink(s.usageSink),
		WithTracer(tp.Tracer("test")),
	)
	s.Require().NoError(err)
	s.usageSink.EXPECT().Record(gomock.Any(), models.UsageLabelError)

	_, err = svc.Resolve(context.Background(), "VCB", "12")
	s.Require().NoError(err)
	s.Empty(recorder.Ended())
}

func (s *ServiceSuite) TestResolve_NilResolutionIsSoftFailure() {
	s.primary.EXPECT().Attempt(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	s.usageSink.EXPECT().Record(gomock.Any(), string(providers.TierSimulated))

	out, err := s.service.Resolve(context.Background(), "VCB", "123456")
	s.Require().NoError(err)
	s.Equal(providers.TierSimulated, out.Tier)
	s.Require().Len(out.Diagnostics, 1)
	s.Contains(out.Diagnostics[0], "[Primary] internal")
}

func (s *ServiceSuite) TestResolve_AlwaysResolvesValidAccounts() {
	s.primary.EXPECT().Attempt(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, providers.NewProviderError(providers.ErrorNotFound, "napas", "not found", nil)).
		AnyTimes()
	s.usageSink.EXPECT().Record(gomock.Any(), gomock.Any()).AnyTimes()

	for _, id := range bank.IDs() {
		for _, acct := range []string{"000000", "000001", "123456", "0123456789", "9999999999999999999999999"} {
			out, err := s.service.Resolve(context.Background(), id, acct)
			s.Require().NoError(err)
			s.True(out.Resolved, "%s/%s", id, acct)
			s.NotEmpty(out.Name)
			s.Equal(account.Normalize(out.Name), out.Name)
		}
	}
}

// =============================================================================
// Batch
// =============================================================================

func (s *ServiceSuite) TestResolveBatch() {
	s.primary.EXPECT().Attempt(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, providers.NewProviderError(providers.ErrorTimeout, "napas", "timeout", nil)).
		AnyTimes()

	var mu sync.Mutex
	labels := map[string]int{}
	s.usageSink.EXPECT().Record(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, label string) {
			mu.Lock()
			labels[label]++
			mu.Unlock()
		}).AnyTimes()

	items := []models.VerifyRequest{
		{BankID: "VCB", AccountNumber: "000000"},
		{BankID: "NOPE", AccountNumber: "0123456789"},
		{BankID: "TCB", AccountNumber: "0123456789"},
		{BankID: "MB", AccountNumber: "12"},
	}
	for i := 0; i < 20; i++ {
		items = append(items, models.VerifyRequest{BankID: "ACB", AccountNumber: "123456"})
	}

	results := s.service.ResolveBatch(context.Background(), items)
	s.Require().Len(results, len(items))

	s.Equal("VCB", results[0].BankID)
	s.Equal(providers.TierSynthetic, results[0].Outcome.Tier)

	s.Nil(results[1].Outcome)
	s.Contains(results[1].Error, "unknown bank")

	s.Equal(providers.TierSimulated, results[2].Outcome.Tier)

	s.False(results[3].Outcome.Resolved)
	s.Equal([]string{account.MsgTooShort}, results[3].Outcome.Diagnostics)

	for _, r := range results[4:] {
		s.Equal("ACB", r.BankID)
		s.Equal(providers.TierSimulated, r.Outcome.Tier)
	}

	s.Equal(1, labels["Synthetic"])
	s.Equal(21, labels["Simulated"])
	s.Equal(2, labels[models.UsageLabelError])
}

// =============================================================================
// Concurrency
// =============================================================================

func (s *ServiceSuite) TestResolve_ConcurrentCallsShareNoState() {
	s.primary.EXPECT().Attempt(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, providers.NewProviderError(providers.ErrorTimeout, "napas", "timeout", nil)).
		AnyTimes()
	s.usageSink.EXPECT().Record(gomock.Any(), gomock.Any()).AnyTimes()

	var wg sync.WaitGroup
	outs := make([]*models.Outcome, 50)
	for i := range outs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := s.service.Resolve(context.Background(), "VCB", "000000")
			s.NoError(err)
			outs[i] = out
		}()
	}
	wg.Wait()

	for _, out := range outs {
		s.Require().NotNil(out)
		s.Len(out.Diagnostics, 2)
		s.Equal(outs[0].Name, out.Name)
	}
}
