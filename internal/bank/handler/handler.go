package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"bankqr/internal/bank"
	"bankqr/pkg/platform/httputil"
)

// BanksResponse is the body of GET /v1/banks.
type BanksResponse struct {
	Banks []bank.Definition `json:"banks"`
}

type Handler struct{}

func New() *Handler {
	return &Handler{}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/v1/banks", h.HandleList)
	r.Get("/v1/banks/{id}", h.HandleGet)
}

func (h *Handler) HandleList(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, BanksResponse{Banks: bank.List()})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	def, err := bank.Lookup(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, def)
}
