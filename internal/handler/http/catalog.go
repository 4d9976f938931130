package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gearshed/storefront/pkg/pagination"

	"github.com/gearshed/storefront/internal/repository"
	"github.com/gearshed/storefront/internal/service"
)

// CatalogHandler handles HTTP requests for catalog endpoints.
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(svc *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: svc,
		logger:  logger,
	}
}

// List handles GET /api/v1/catalog/products
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	q := r.URL.Query()

	filter := repository.CatalogFilter{
		Category:      q.Get("category"),
		Brand:         q.Get("brand"),
		Status:        q.Get("status"),
		Search:        q.Get("search"),
		MinPriceCents: parsePriceCents(q.Get("min_price_cents")),
		MaxPriceCents: parsePriceCents(q.Get("max_price_cents")),
		Sort:          q.Get("sort"),
		Limit:         params.PerPage,
		Offset:        params.Offset,
	}

	products, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, pagination.NewResult(products, total, params))
}

// parsePriceCents reads a price bound query parameter; invalid or negative
// values mean unbounded.
func parsePriceCents(s string) int64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// GetByID handles GET /api/v1/catalog/products/{productID}
func (h *CatalogHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetByID(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: product})
}

// GetBySlug handles GET /api/v1/catalog/products/slug/{slug}
func (h *CatalogHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: product})
}

// Create handles POST /api/v1/catalog/products
func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeBadBody(w, err)
		return
	}

	product, err := h.service.Create(r.Context(), input)
	if err != nil {
		writeValidationOrError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: product})
}
