package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwtutil "github.com/tmcgann/errand-manager/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeErrors unpacks the uniform {"errors":[{"msg":...}]} body.
func decodeErrors(t *testing.T, rec *httptest.ResponseRecorder) []map[string]string {
	t.Helper()
	var resp struct {
		Errors []map[string]string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Errors
}

func TestAuthMiddleware(t *testing.T) {
	secret := "test-secret"

	var captured *jwtutil.Claims
	handler := AuthMiddleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetUserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	token, err := jwtutil.GenerateToken("507f1f77bcf86cd799439011", secret, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/user/detail", nil)
	req.Header.Set("x-auth-token", token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "507f1f77bcf86cd799439011", captured.UserID)
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	handler := AuthMiddleware("test-secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/user/detail", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	errs := decodeErrors(t, rec)
	require.Len(t, errs, 1)
	assert.Equal(t, "No token, authorization denied", errs[0]["msg"])
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	handler := AuthMiddleware("test-secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/user/detail", nil)
	req.Header.Set("x-auth-token", "tampered")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	errs := decodeErrors(t, rec)
	require.Len(t, errs, 1)
	assert.Equal(t, "Token is not valid", errs[0]["msg"])
}

func TestGetUserFromContextWithoutAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, GetUserFromContext(req.Context()))
}
