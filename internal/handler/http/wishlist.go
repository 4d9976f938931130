package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gearshed/storefront/pkg/validator"

	"github.com/gearshed/storefront/internal/service"
)

// WishlistHandler handles HTTP requests for wishlist endpoints.
type WishlistHandler struct {
	service *service.WishlistService
	logger  *slog.Logger
}

// NewWishlistHandler creates a new wishlist HTTP handler.
func NewWishlistHandler(svc *service.WishlistService, logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{
		service: svc,
		logger:  logger,
	}
}

// SaveProductRequest is the JSON request body for saving a product to the
// wishlist or toggling it.
type SaveProductRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	Name        string `json:"name" validate:"required,min=1,max=500"`
	PriceCents  int64  `json:"price_cents" validate:"gte=0"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

func (req SaveProductRequest) input() service.SaveProductInput {
	return service.SaveProductInput{
		ProductID:   req.ProductID,
		Name:        req.Name,
		PriceCents:  req.PriceCents,
		Image:       req.Image,
		Category:    req.Category,
		Description: req.Description,
	}
}

// List handles GET /api/v1/wishlist
func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())

	items, err := h.service.List(r.Context(), sessionID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]any{
		"items": items,
		"count": len(items),
	}})
}

// Save handles POST /api/v1/wishlist/items
func (h *WishlistHandler) Save(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())

	var req SaveProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w, err)
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	if err := h.service.Save(r.Context(), sessionID, req.input()); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]any{
		"product_id": req.ProductID,
		"saved":      true,
	}})
}

// Toggle handles POST /api/v1/wishlist/toggle
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())

	var req SaveProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w, err)
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	saved, err := h.service.Toggle(r.Context(), sessionID, req.input())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]any{
		"product_id": req.ProductID,
		"saved":      saved,
	}})
}

// Contains handles GET /api/v1/wishlist/items/{productID}
func (h *WishlistHandler) Contains(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())

	productID := chi.URLParam(r, "productID")

	saved, err := h.service.Contains(r.Context(), sessionID, productID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]any{
		"product_id": productID,
		"saved":      saved,
	}})
}

// Remove handles DELETE /api/v1/wishlist/items/{productID}
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())

	productID := chi.URLParam(r, "productID")

	if err := h.service.Remove(r.Context(), sessionID, productID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]any{
		"product_id": productID,
		"saved":      false,
	}})
}

// Clear handles DELETE /api/v1/wishlist
func (h *WishlistHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())

	if err := h.service.Clear(r.Context(), sessionID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"status": "cleared"}})
}
