package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinels_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound, ErrAlreadyExists, ErrInvalidInput,
		ErrUnauthorized, ErrConflict, ErrInternal, ErrServiceUnavail,
	}

	for i := 0; i < len(sentinels); i++ {
		for j := i + 1; j < len(sentinels); j++ {
			assert.NotEqual(t, sentinels[i], sentinels[j])
		}
	}
}

func TestAppError_ErrorString(t *testing.T) {
	inner := fmt.Errorf("redis connection refused")
	withInner := &AppError{Code: "INTERNAL_ERROR", Message: "cart save failed", Err: inner}
	assert.Contains(t, withInner.Error(), "INTERNAL_ERROR")
	assert.Contains(t, withInner.Error(), "cart save failed")
	assert.Contains(t, withInner.Error(), "redis connection refused")

	bare := &AppError{Code: "NOT_FOUND", Message: "cart missing"}
	assert.Equal(t, "NOT_FOUND: cart missing", bare.Error())
}

func TestAppError_UnwrapChain(t *testing.T) {
	err := NotFound("cart", "session-9")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Nil(t, (&AppError{Code: "X", Message: "y"}).Unwrap())
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		code     string
		status   int
		sentinel error
	}{
		{"not found", NotFound("product", "p-1"), "NOT_FOUND", http.StatusNotFound, ErrNotFound},
		{"already exists", AlreadyExists("product", "slug", "rally-jacket"), "ALREADY_EXISTS", http.StatusConflict, ErrAlreadyExists},
		{"invalid input", InvalidInput("quantity must be positive"), "INVALID_INPUT", http.StatusBadRequest, ErrInvalidInput},
		{"unauthorized", Unauthorized("session required"), "UNAUTHORIZED", http.StatusUnauthorized, ErrUnauthorized},
		{"conflict", Conflict("cart modified concurrently"), "CONFLICT", http.StatusConflict, ErrConflict},
		{"unavailable", ServiceUnavailable("order endpoint unreachable"), "SERVICE_UNAVAILABLE", http.StatusServiceUnavailable, ErrServiceUnavail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotNil(t, tt.err)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.Status)
			assert.True(t, errors.Is(tt.err, tt.sentinel))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(ErrNotFound))
	assert.Equal(t, http.StatusConflict, HTTPStatus(ErrConflict))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(fmt.Errorf("wrapped: %w", ErrInvalidInput)))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(ErrUnauthorized))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(ErrServiceUnavail))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))

	appErr := &AppError{Code: "TEAPOT", Message: "short and stout", Status: http.StatusTeapot}
	assert.Equal(t, http.StatusTeapot, HTTPStatus(appErr))
}

func TestWrap(t *testing.T) {
	err := Wrap(ErrConflict, "save cart")
	assert.True(t, errors.Is(err, ErrConflict))
	assert.Contains(t, err.Error(), "save cart")
}
