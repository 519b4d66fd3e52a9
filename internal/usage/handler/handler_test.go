package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"bankqr/internal/usage/store"
	"bankqr/pkg/platform/sentinel"
	"bankqr/pkg/testutil"
)

type failingCounter struct {
	err error
}

func (c failingCounter) Counts(context.Context, string) (map[string]int64, error) {
	return nil, c.err
}

// =============================================================================
// Usage Handler Test Suite
// =============================================================================
// Handler tests validate HTTP concerns (query parsing, response mapping) with
// the real in-memory store.

type HandlerSuite struct {
	suite.Suite
	store  *store.InMemoryStore
	router http.Handler
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.router = s.routerFor(s.store)
}

func (s *HandlerSuite) routerFor(c Counter) http.Handler {
	r := chi.NewRouter()
	New(c, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return r
}

func (s *HandlerSuite) TestExplicitDay() {
	ctx := context.Background()
	s.Require().NoError(s.store.Increment(ctx, "2026-01-15", "Primary"))
	s.Require().NoError(s.store.Increment(ctx, "2026-01-15", "Synthetic"))
	s.Require().NoError(s.store.Increment(ctx, "2026-01-15", "Synthetic"))

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/v1/usage?day=2026-01-15"))

	testutil.AssertStatusOK(s.T(), rr)
	resp := testutil.UnmarshalResponse[UsageResponse](s.T(), rr)
	s.Equal("2026-01-15", resp.Day)
	s.Equal(map[string]int64{"Primary": 1, "Synthetic": 2}, resp.Counts)
	s.Equal(int64(3), resp.Total)
}

func (s *HandlerSuite) TestDefaultsToRequestDay() {
	s.Require().NoError(s.store.Increment(context.Background(), "2026-02-01", "Error"))

	req := testutil.NewRequest(s.T(), http.MethodGet, "/v1/usage")
	req = testutil.WithRequestTime(req, time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC))
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusOK(s.T(), rr)
	resp := testutil.UnmarshalResponse[UsageResponse](s.T(), rr)
	s.Equal("2026-02-01", resp.Day)
	s.Equal(int64(1), resp.Total)
}

func (s *HandlerSuite) TestInvalidDay() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/v1/usage?day=15-01-2026"))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
}

func (s *HandlerSuite) TestStoreUnavailable() {
	err := fmt.Errorf("read usage: %w: %w", sentinel.ErrUnavailable, errors.New("connection refused"))
	router := s.routerFor(failingCounter{err: err})
	rr := testutil.DoRequest(router, testutil.NewRequest(s.T(), http.MethodGet, "/v1/usage?day=2026-01-15"))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusServiceUnavailable, "unavailable")
}

func (s *HandlerSuite) TestStoreCorruptData() {
	router := s.routerFor(failingCounter{err: errors.New("usage holds non-integer")})
	rr := testutil.DoRequest(router, testutil.NewRequest(s.T(), http.MethodGet, "/v1/usage?day=2026-01-15"))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, "internal_error")
}
