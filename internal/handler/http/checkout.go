package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gearshed/storefront/internal/service"
)

// CheckoutHandler handles HTTP requests for checkout.
type CheckoutHandler struct {
	service *service.CheckoutService
	logger  *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(svc *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: svc,
		logger:  logger,
	}
}

// Submit handles POST /api/v1/checkout
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())

	var form service.CustomerForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeBadBody(w, err)
		return
	}

	confirmation, err := h.service.Submit(r.Context(), sessionID, form)
	if err != nil {
		writeValidationOrError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: confirmation})
}
