package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/ProductReviewGo/pkg/logger"
)

func TestRecovery_PanicReturns500(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter("test-svc", "info", &buf)

	handler := Recovery(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("database connection string leaked: postgres://admin:secret@db")
	}))

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "INTERNAL_ERROR", body["code"])
	assert.NotContains(t, body["message"], "secret")

	// Panic detail goes to the log, not the response.
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), "database connection string leaked")
}

func TestRecovery_NoPanicPassesThrough(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter("test-svc", "info", &buf)

	handler := Recovery(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/reviews", nil))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Empty(t, buf.String())
}
