package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"bankqr/internal/account"
	"bankqr/internal/verification/models"
	"bankqr/pkg/platform/httputil"
	"bankqr/pkg/requestcontext"
)

// Service resolves account holder names.
type Service interface {
	Resolve(ctx context.Context, bankID, accountNumber string) (*models.Outcome, error)
	ResolveBatch(ctx context.Context, items []models.VerifyRequest) []models.BatchResult
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/accounts/validate", h.HandleValidate)
	r.Post("/v1/accounts/verify", h.HandleVerify)
	r.Post("/v1/accounts/verify/batch", h.HandleVerifyBatch)
}

// HandleValidate runs the offline account-number rules only.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ValidateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	httputil.WriteJSON(w, http.StatusOK, account.Validate(req.AccountNumber, req.BankID))
}

// HandleVerify resolves one account name through the tier chain.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[models.VerifyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	outcome, err := h.service.Resolve(ctx, req.BankID, req.AccountNumber)
	if err != nil {
		h.logger.InfoContext(ctx, "account verification rejected",
			"request_id", requestID,
			"bank_id", req.BankID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "account verified",
		"request_id", requestID,
		"bank_id", req.BankID,
		"account", account.Mask(req.AccountNumber),
		"resolved", outcome.Resolved,
		"tier", outcome.Tier,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, outcome)
}

// BatchResponse is the body of POST /v1/accounts/verify/batch.
type BatchResponse struct {
	Results []models.BatchResult `json:"results"`
}

// HandleVerifyBatch resolves up to models.MaxBatchSize accounts concurrently.
// Per-item failures are reported inside the results with status 200.
func (h *Handler) HandleVerifyBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[models.BatchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	results := h.service.ResolveBatch(ctx, req.Items)

	h.logger.InfoContext(ctx, "batch verification completed",
		"request_id", requestID,
		"items", len(results),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, BatchResponse{Results: results})
}
