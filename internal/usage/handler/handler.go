package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"bankqr/internal/usage"
	dErrors "bankqr/pkg/domain-errors"
	"bankqr/pkg/platform/httputil"
	"bankqr/pkg/platform/sentinel"
	"bankqr/pkg/requestcontext"
)

// Counter reads daily usage counters.
type Counter interface {
	Counts(ctx context.Context, day string) (map[string]int64, error)
}

type Handler struct {
	counter Counter
	logger  *slog.Logger
}

func New(counter Counter, logger *slog.Logger) *Handler {
	return &Handler{counter: counter, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/v1/usage", h.HandleGetUsage)
}

// UsageResponse is the body of GET /v1/usage.
type UsageResponse struct {
	Day    string           `json:"day"`
	Counts map[string]int64 `json:"counts"`
	Total  int64            `json:"total"`
}

// HandleGetUsage returns the counters for ?day=YYYY-MM-DD, defaulting to the
// current UTC day.
func (h *Handler) HandleGetUsage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	day := r.URL.Query().Get("day")
	if day == "" {
		day = usage.Day(requestcontext.Now(ctx))
	} else if _, err := time.Parse(usage.DayLayout, day); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "day must be formatted as YYYY-MM-DD"))
		return
	}

	counts, err := h.counter.Counts(ctx, day)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to read usage counters",
			"request_id", requestID,
			"day", day,
			"error", err,
		)
		if errors.Is(err, sentinel.ErrUnavailable) {
			httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "usage counters unavailable"))
			return
		}
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read usage counters"))
		return
	}

	var total int64
	for _, n := range counts {
		total += n
	}
	httputil.WriteJSON(w, http.StatusOK, UsageResponse{Day: day, Counts: counts, Total: total})
}
