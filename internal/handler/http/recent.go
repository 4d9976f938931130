package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gearshed/storefront/pkg/validator"

	"github.com/gearshed/storefront/internal/service"
)

// RecentlyViewedHandler handles HTTP requests for the browsing-history rail.
type RecentlyViewedHandler struct {
	service *service.RecentlyViewedService
	logger  *slog.Logger
}

// NewRecentlyViewedHandler creates a new browsing-history HTTP handler.
func NewRecentlyViewedHandler(svc *service.RecentlyViewedService, logger *slog.Logger) *RecentlyViewedHandler {
	return &RecentlyViewedHandler{
		service: svc,
		logger:  logger,
	}
}

// RecordViewRequest is the JSON request body for recording a product view.
type RecordViewRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	Name        string `json:"name" validate:"required,min=1,max=500"`
	PriceCents  int64  `json:"price_cents" validate:"gte=0"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// Get handles GET /api/v1/recently-viewed
func (h *RecentlyViewedHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())

	recent, err := h.service.Get(r.Context(), sessionID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: recent})
}

// RecordView handles POST /api/v1/recently-viewed
func (h *RecentlyViewedHandler) RecordView(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())

	var req RecordViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w, err)
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	recent, err := h.service.RecordView(r.Context(), sessionID, service.RecordViewInput{
		ProductID:   req.ProductID,
		Name:        req.Name,
		PriceCents:  req.PriceCents,
		Image:       req.Image,
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: recent})
}

// Remove handles DELETE /api/v1/recently-viewed/{productID}
func (h *RecentlyViewedHandler) Remove(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())

	productID := chi.URLParam(r, "productID")

	recent, err := h.service.Remove(r.Context(), sessionID, productID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: recent})
}

// Clear handles DELETE /api/v1/recently-viewed
func (h *RecentlyViewedHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())

	if err := h.service.Clear(r.Context(), sessionID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"status": "cleared"}})
}
