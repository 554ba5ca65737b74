package httpapi_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libris-io/libris"
	"github.com/libris-io/libris/httpapi"
)

func TestHandleError_Mapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"validation", libris.ErrValidation, http.StatusBadRequest, "validation_failed"},
		{"payload", libris.ErrPayload, http.StatusRequestEntityTooLarge, "payload_rejected"},
		{"credentials", libris.ErrCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{"forbidden", libris.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"not found", libris.ErrNotFound, http.StatusNotFound, "not_found"},
		{"storage", libris.ErrStorage, http.StatusBadGateway, "storage_failed"},
		{"persistence", libris.ErrPersistence, http.StatusInternalServerError, "internal_error"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			httpapi.HandleError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var resp httpapi.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantErr, resp.Error)
		})
	}
}

func TestHandleError_WrappedError(t *testing.T) {
	rec := httptest.NewRecorder()
	err := fmt.Errorf("create book: %w: %w", libris.ErrStorage, errors.New("connection reset"))
	httpapi.HandleError(rec, err)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleError_NeverLeaksDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	httpapi.HandleError(rec, fmt.Errorf("update book: %w: %w", libris.ErrPersistence, errors.New("pq: secret dsn")))

	var resp httpapi.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotContains(t, resp.Message, "dsn")
	assert.Equal(t, "internal_error", resp.Error)
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	err := httpapi.WriteJSON(rec, http.StatusCreated, map[string]string{"id": "abc"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"abc"}`, rec.Body.String())
}
