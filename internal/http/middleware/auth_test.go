package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-for-the-builder-console")

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims UserClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims() UserClaims {
	return UserClaims{
		UserID: "user-1",
		Email:  "editor@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestRequireAuth(t *testing.T) {
	authConfig := NewAuthMiddleware(testSecret)
	assert.Equal(t, testSecret, authConfig.JWTSecret)

	var seen *AuthenticatedUser
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := authConfig.RequireAuth()(next)

	serve := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	t.Run("valid token", func(t *testing.T) {
		seen = nil
		w := serve("Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, validClaims()))
		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "user-1", seen.ID)
		assert.Equal(t, "editor@example.com", seen.Email)
	})

	t.Run("subject is accepted as user id", func(t *testing.T) {
		claims := validClaims()
		claims.UserID = ""
		claims.Subject = "user-2"
		w := serve("Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, claims))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-2", seen.ID)
	})

	t.Run("missing authorization header", func(t *testing.T) {
		w := serve("")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Authorization header is required")
	})

	t.Run("invalid authorization header format", func(t *testing.T) {
		w := serve("Token abc")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid authorization header format")
	})

	t.Run("wrong secret", func(t *testing.T) {
		w := serve("Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("other"), validClaims()))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := validClaims()
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		w := serve("Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, claims))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unsigned token", func(t *testing.T) {
		w := serve("Bearer " + signToken(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, validClaims()))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token without user", func(t *testing.T) {
		claims := validClaims()
		claims.UserID = ""
		w := serve("Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, claims))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "User ID not found in token")
	})
}
