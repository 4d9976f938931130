package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gearshed/storefront/internal/domain"
	"github.com/gearshed/storefront/internal/service"
)

type mockWishlistRepository struct {
	mock.Mock
}

func (m *mockWishlistRepository) List(ctx context.Context, sessionID string) ([]domain.WishlistItem, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WishlistItem), args.Error(1)
}

func (m *mockWishlistRepository) Add(ctx context.Context, sessionID string, item domain.WishlistItem) error {
	args := m.Called(ctx, sessionID, item)
	return args.Error(0)
}

func (m *mockWishlistRepository) Remove(ctx context.Context, sessionID, productID string) (bool, error) {
	args := m.Called(ctx, sessionID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *mockWishlistRepository) Toggle(ctx context.Context, sessionID string, item domain.WishlistItem) (bool, error) {
	args := m.Called(ctx, sessionID, item)
	return args.Bool(0), args.Error(1)
}

func (m *mockWishlistRepository) Contains(ctx context.Context, sessionID, productID string) (bool, error) {
	args := m.Called(ctx, sessionID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *mockWishlistRepository) Count(ctx context.Context, sessionID string) (int64, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockWishlistRepository) Clear(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func testWishlistHandler(repo *mockWishlistRepository) *WishlistHandler {
	svc := service.NewWishlistService(repo, testEventProducer(), testLogger())
	return NewWishlistHandler(svc, testLogger())
}

func setupWishlistRouter(handler *WishlistHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/v1/wishlist", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(SessionIDFromHeader)

		r.Get("/", handler.List)
		r.Delete("/", handler.Clear)
		r.Post("/items", handler.Save)
		r.Post("/toggle", handler.Toggle)
		r.Get("/items/{productID}", handler.Contains)
		r.Delete("/items/{productID}", handler.Remove)
	})
	return r
}

func sampleWishlistItem(id string) domain.WishlistItem {
	return domain.WishlistItem{
		ProductSummary: domain.ProductSummary{
			ID:         id,
			Name:       "Kevlar Riding Jeans",
			PriceCents: 18900,
		},
		AddedAt: time.Now().UTC(),
	}
}

func TestWishlistList_Success(t *testing.T) {
	repo := new(mockWishlistRepository)
	router := setupWishlistRouter(testWishlistHandler(repo))

	repo.On("List", mock.Anything, "sess-123").Return([]domain.WishlistItem{sampleWishlistItem("jeans-2")}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wishlist", nil)
	req.Header.Set("X-Session-ID", "sess-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)
	assert.Equal(t, float64(1), resp.Data["count"])
	repo.AssertExpectations(t)
}

func TestWishlistToggle_ReportsSavedState(t *testing.T) {
	repo := new(mockWishlistRepository)
	router := setupWishlistRouter(testWishlistHandler(repo))

	repo.On("Toggle", mock.Anything, "sess-123", mock.AnythingOfType("domain.WishlistItem")).Return(true, nil)

	b, _ := json.Marshal(SaveProductRequest{ProductID: "jeans-2", Name: "Kevlar Riding Jeans", PriceCents: 18900})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/wishlist/toggle", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", "sess-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)
	assert.Equal(t, "jeans-2", resp.Data["product_id"])
	assert.Equal(t, true, resp.Data["saved"])
	repo.AssertExpectations(t)
}

func TestWishlistSave_MissingName_ValidationError(t *testing.T) {
	repo := new(mockWishlistRepository)
	router := setupWishlistRouter(testWishlistHandler(repo))

	b, _ := json.Marshal(SaveProductRequest{ProductID: "jeans-2"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/wishlist/items", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", "sess-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "name")
	repo.AssertNotCalled(t, "Add")
}

func TestWishlistContains_NotSaved(t *testing.T) {
	repo := new(mockWishlistRepository)
	router := setupWishlistRouter(testWishlistHandler(repo))

	repo.On("Contains", mock.Anything, "sess-123", "boots-9").Return(false, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wishlist/items/boots-9", nil)
	req.Header.Set("X-Session-ID", "sess-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)
	assert.Equal(t, false, resp.Data["saved"])
	repo.AssertExpectations(t)
}

func TestWishlistRemove_Success(t *testing.T) {
	repo := new(mockWishlistRepository)
	router := setupWishlistRouter(testWishlistHandler(repo))

	repo.On("Remove", mock.Anything, "sess-123", "jeans-2").Return(true, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/wishlist/items/jeans-2", nil)
	req.Header.Set("X-Session-ID", "sess-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)
	assert.Equal(t, false, resp.Data["saved"])
	repo.AssertExpectations(t)
}

func TestWishlistClear_Success(t *testing.T) {
	repo := new(mockWishlistRepository)
	router := setupWishlistRouter(testWishlistHandler(repo))

	repo.On("Clear", mock.Anything, "sess-123").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/wishlist", nil)
	req.Header.Set("X-Session-ID", "sess-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)
	assert.Equal(t, "cleared", resp.Data["status"])
	repo.AssertExpectations(t)
}
