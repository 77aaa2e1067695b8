package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okValidator(claims *Claims) TokenValidator {
	return func(token string) (*Claims, error) {
		return claims, nil
	}
}

func failValidator() TokenValidator {
	return func(token string) (*Claims, error) {
		return nil, errors.New("bad token")
	}
}

func TestAuth_MissingHeader_Returns401(t *testing.T) {
	handler := Auth(okValidator(&Claims{UserID: "u1"}))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/reviews", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "UNAUTHORIZED", body["code"])
}

func TestAuth_MalformedHeader_Returns401(t *testing.T) {
	cases := []string{
		"tokenwithoutscheme",
		"Basic dXNlcjpwYXNz",
		"Bearer",
	}

	for _, header := range cases {
		handler := Auth(okValidator(&Claims{UserID: "u1"}))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatalf("handler should not be reached for header %q", header)
		}))

		req := httptest.NewRequest(http.MethodGet, "/reviews", nil)
		req.Header.Set("Authorization", header)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code, "header %q", header)
	}
}

func TestAuth_InvalidToken_Returns401(t *testing.T) {
	handler := Auth(failValidator())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/reviews", nil)
	req.Header.Set("Authorization", "Bearer expired.token.here")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_ValidToken_InjectsClaims(t *testing.T) {
	var gotUserID, gotUsername string
	handler := Auth(okValidator(&Claims{UserID: "user-123", Username: "alice"}))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserIDFromContext(r.Context())
		gotUsername = UsernameFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/reviews", nil)
	req.Header.Set("Authorization", "Bearer good.token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "user-123", gotUserID)
	assert.Equal(t, "alice", gotUsername)
}

func TestAuth_BearerSchemeIsCaseInsensitive(t *testing.T) {
	handler := Auth(okValidator(&Claims{UserID: "u1"}))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/reviews", nil)
	req.Header.Set("Authorization", "bearer good.token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestUserIDFromContext_EmptyWhenUnset(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, UserIDFromContext(req.Context()))
	assert.Empty(t, UsernameFromContext(req.Context()))
}
