package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gearshed/storefront/pkg/validator"

	"github.com/gearshed/storefront/internal/domain"
	"github.com/gearshed/storefront/internal/service"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// AddItemRequest is the JSON request body for adding a product to the cart.
type AddItemRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	Name        string `json:"name" validate:"required,min=1,max=500"`
	PriceCents  int64  `json:"price_cents" validate:"gte=0"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

// SetQuantityRequest is the JSON request body for setting an absolute
// quantity on a line item.
type SetQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// cartView decorates the stored cart with its derived aggregates.
type cartView struct {
	*domain.Cart
	Subtotal  int64 `json:"subtotal_cents"`
	ItemCount int   `json:"item_count"`
}

func viewCart(cart *domain.Cart) cartView {
	return cartView{
		Cart:      cart,
		Subtotal:  cart.Subtotal(),
		ItemCount: cart.ItemCount(),
	}
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())

	cart, err := h.service.GetCart(r.Context(), sessionID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: viewCart(cart)})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w, err)
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	cart, err := h.service.AddItem(r.Context(), sessionID, service.AddItemInput{
		ProductID:   req.ProductID,
		Name:        req.Name,
		PriceCents:  req.PriceCents,
		Image:       req.Image,
		Category:    req.Category,
		Description: req.Description,
		Quantity:    req.Quantity,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: viewCart(cart)})
}

// SetItemQuantity handles PUT /api/v1/cart/items/{productID}
func (h *CartHandler) SetItemQuantity(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())

	productID := chi.URLParam(r, "productID")

	var req SetQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w, err)
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	cart, err := h.service.SetItemQuantity(r.Context(), sessionID, productID, req.Quantity)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: viewCart(cart)})
}

// RemoveItem handles DELETE /api/v1/cart/items/{productID}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())

	productID := chi.URLParam(r, "productID")

	cart, err := h.service.RemoveItem(r.Context(), sessionID, productID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: viewCart(cart)})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())

	if err := h.service.ClearCart(r.Context(), sessionID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"status": "cleared"}})
}
