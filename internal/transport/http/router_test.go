package httptransport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	bankhandler "bankqr/internal/bank/handler"
	platformmetrics "bankqr/internal/platform/metrics"
	"bankqr/pkg/platform/middleware/requestid"
	"bankqr/pkg/testutil"
)

type panicHandler struct{}

func (panicHandler) Register(r chi.Router) {
	r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRouter_MountsHandlers(t *testing.T) {
	router := NewRouter(discardLogger(), []Registrar{bankhandler.New()})

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/v1/banks/VCB"))

	testutil.AssertStatusOK(t, rr)
	assert.NotEmpty(t, rr.Header().Get(requestid.Header))
}

func TestRouter_RecoversPanics(t *testing.T) {
	router := NewRouter(discardLogger(), []Registrar{panicHandler{}})

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/boom"))

	testutil.AssertStatus(t, rr, http.StatusInternalServerError)
}

func TestRouter_Health(t *testing.T) {
	t.Run("no checks", func(t *testing.T) {
		router := NewRouter(discardLogger(), nil)
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "status", "ok")
	})

	t.Run("failing dependency", func(t *testing.T) {
		router := NewRouter(discardLogger(), nil,
			WithHealthCheck("redis", func(context.Context) error { return errors.New("connection refused") }),
		)
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
		resp := testutil.UnmarshalResponse[healthResponse](t, rr)
		assert.Equal(t, "degraded", resp.Status)
		assert.Equal(t, map[string]string{"redis": "unavailable"}, resp.Checks)
	})
}

func TestRouter_Metrics(t *testing.T) {
	router := NewRouter(discardLogger(), []Registrar{bankhandler.New()}, WithMetrics(platformmetrics.New()))

	testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/v1/banks"))
	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/metrics"))

	testutil.AssertStatusOK(t, rr)
	assert.Contains(t, rr.Body.String(), `route="/v1/banks"`)
}
