package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bankqr/internal/account"
	"bankqr/internal/bank"
	"bankqr/internal/payload/qrimage"
	"bankqr/internal/verification/models"
	dErrors "bankqr/pkg/domain-errors"
	"bankqr/pkg/platform/httputil"
	"bankqr/pkg/requestcontext"
)

// Encoder builds payload strings.
type Encoder interface {
	Encode(def bank.Definition, accountNumber, amount, description string) (string, error)
}

// Resolver looks up the holder name when a request asks for it.
type Resolver interface {
	Resolve(ctx context.Context, bankID, accountNumber string) (*models.Outcome, error)
}

// Renderer turns a payload into a PNG image.
type Renderer interface {
	PNGSize(payload string, size int) ([]byte, error)
}

type Handler struct {
	encoder  Encoder
	resolver Resolver
	renderer Renderer
	logger   *slog.Logger
}

func New(encoder Encoder, resolver Resolver, renderer Renderer, logger *slog.Logger) *Handler {
	return &Handler{
		encoder:  encoder,
		resolver: resolver,
		renderer: renderer,
		logger:   logger,
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/payloads", h.HandleCreatePayload)
	r.Post("/v1/payloads/qr.png", h.HandleCreateImage)
}

// PayloadResponse is the body of POST /v1/payloads.
type PayloadResponse struct {
	Payload      string          `json:"payload"`
	BankID       string          `json:"bank_id"`
	BIN          string          `json:"bin"`
	Amount       string          `json:"amount,omitempty"`
	Verification *models.Outcome `json:"verification,omitempty"`
}

func (h *Handler) HandleCreatePayload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[PayloadRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	payload, ok := h.encode(w, r, req)
	if !ok {
		return
	}

	resp := PayloadResponse{
		Payload: payload,
		BankID:  req.BankID,
		BIN:     req.Bank().BIN,
		Amount:  req.Amount,
	}

	if req.VerifyName {
		outcome, err := h.resolver.Resolve(ctx, req.BankID, req.AccountNumber)
		if err != nil {
			h.logger.ErrorContext(ctx, "name verification failed for encoded payload",
				"request_id", requestID,
				"bank_id", req.BankID,
				"error", err,
			)
			httputil.WriteError(w, err)
			return
		}
		resp.Verification = outcome
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleCreateImage encodes the payload and returns it as a PNG. The optional
// ?size= query sets the image edge in pixels.
func (h *Handler) HandleCreateImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	size := 0
	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "size must be a positive integer"))
			return
		}
		size = n
	}

	req, ok := httputil.DecodeAndPrepare[PayloadRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	payload, ok := h.encode(w, r, req)
	if !ok {
		return
	}

	img, err := h.renderer.PNGSize(payload, size)
	if err != nil {
		if errors.Is(err, qrimage.ErrInvalidSize) {
			httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeValidation, "size is out of range"))
			return
		}
		h.logger.ErrorContext(ctx, "failed to render QR image",
			"request_id", requestID,
			"size", size,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to render QR image"))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

func (h *Handler) encode(w http.ResponseWriter, r *http.Request, req *PayloadRequest) (string, bool) {
	ctx := r.Context()
	payload, err := h.encoder.Encode(req.Bank(), req.AccountNumber, req.Amount, req.Description)
	if err != nil {
		// Request validation should make this unreachable.
		h.logger.ErrorContext(ctx, "payload encoding failed",
			"request_id", requestcontext.RequestID(ctx),
			"bank_id", req.BankID,
			"account", account.Mask(req.AccountNumber),
			"error", err,
		)
		httputil.WriteError(w, err)
		return "", false
	}
	return payload, true
}
