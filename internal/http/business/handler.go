package business

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kpraj/billbook/internal/business"
)

type Handler struct {
	svc *business.Service
}

func NewHandler(svc *business.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
}

type profileResponse struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	LogoURL string `json:"logo_url,omitempty"`
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.Get(r.Context())
	if err != nil {
		if errors.Is(err, business.ErrNotFound) {
			http.Error(w, "business profile not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(profileResponse{
		Name:    profile.Name,
		Address: profile.Address,
		LogoURL: profile.LogoURL,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
