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

	apperrors "github.com/gearshed/storefront/pkg/errors"

	"github.com/gearshed/storefront/internal/domain"
	"github.com/gearshed/storefront/internal/service"
)

type mockRecentRepository struct {
	mock.Mock
}

func (m *mockRecentRepository) Get(ctx context.Context, sessionID string) (*domain.RecentlyViewed, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecentlyViewed), args.Error(1)
}

func (m *mockRecentRepository) Save(ctx context.Context, recent *domain.RecentlyViewed) error {
	args := m.Called(ctx, recent)
	return args.Error(0)
}

func (m *mockRecentRepository) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func testRecentHandler(repo *mockRecentRepository) *RecentlyViewedHandler {
	svc := service.NewRecentlyViewedService(repo, testEventProducer(), testLogger(), domain.DefaultRecentlyViewedCap)
	return NewRecentlyViewedHandler(svc, testLogger())
}

func setupRecentRouter(handler *RecentlyViewedHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/v1/recently-viewed", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(SessionIDFromHeader)

		r.Get("/", handler.Get)
		r.Post("/", handler.RecordView)
		r.Delete("/", handler.Clear)
		r.Delete("/{productID}", handler.Remove)
	})
	return r
}

func TestRecentGet_EmptyHistory(t *testing.T) {
	repo := new(mockRecentRepository)
	router := setupRecentRouter(testRecentHandler(repo))

	repo.On("Get", mock.Anything, "sess-123").Return(nil, apperrors.NotFound("recently viewed", "sess-123"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recently-viewed", nil)
	req.Header.Set("X-Session-ID", "sess-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)
	assert.Equal(t, "sess-123", resp.Data["session_id"])
	repo.AssertExpectations(t)
}

func TestRecentRecordView_Success(t *testing.T) {
	repo := new(mockRecentRepository)
	router := setupRecentRouter(testRecentHandler(repo))

	existing := &domain.RecentlyViewed{
		SessionID: "sess-123",
		Items: []domain.ProductSummary{
			{ID: "boots-9", Name: "Touring Boots", PriceCents: 25900},
		},
		UpdatedAt: time.Now().UTC(),
	}
	repo.On("Get", mock.Anything, "sess-123").Return(existing, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.RecentlyViewed")).Return(nil)

	b, _ := json.Marshal(RecordViewRequest{ProductID: "helmet-3", Name: "Carbon Full-Face Helmet", PriceCents: 44900})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recently-viewed", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", "sess-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)

	items, ok := resp.Data["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.Equal(t, "helmet-3", first["id"])
	repo.AssertExpectations(t)
}

func TestRecentRecordView_MissingProductID_ValidationError(t *testing.T) {
	repo := new(mockRecentRepository)
	router := setupRecentRouter(testRecentHandler(repo))

	b, _ := json.Marshal(RecordViewRequest{Name: "Nameless"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recently-viewed", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", "sess-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	repo.AssertNotCalled(t, "Save")
}

func TestRecentRemove_Success(t *testing.T) {
	repo := new(mockRecentRepository)
	router := setupRecentRouter(testRecentHandler(repo))

	existing := &domain.RecentlyViewed{
		SessionID: "sess-123",
		Items: []domain.ProductSummary{
			{ID: "boots-9", Name: "Touring Boots", PriceCents: 25900},
		},
		UpdatedAt: time.Now().UTC(),
	}
	repo.On("Get", mock.Anything, "sess-123").Return(existing, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.RecentlyViewed")).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/recently-viewed/boots-9", nil)
	req.Header.Set("X-Session-ID", "sess-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)
	items, ok := resp.Data["items"].([]any)
	require.True(t, ok)
	assert.Empty(t, items)
	repo.AssertExpectations(t)
}

func TestRecentClear_Success(t *testing.T) {
	repo := new(mockRecentRepository)
	router := setupRecentRouter(testRecentHandler(repo))

	repo.On("Delete", mock.Anything, "sess-123").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/recently-viewed", nil)
	req.Header.Set("X-Session-ID", "sess-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)
	assert.Equal(t, "cleared", resp.Data["status"])
	repo.AssertExpectations(t)
}
