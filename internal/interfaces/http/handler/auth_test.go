package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocker/backend/internal/infrastructure/auth"
	"github.com/stocker/backend/internal/infrastructure/config"
	"github.com/stocker/backend/internal/interfaces/http/middleware"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-access-tokens",
		RefreshSecret:          "test-secret-key-for-refresh-tokens",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "stocker-test",
		MaxRefreshCount:        10,
	})
}

func setupAuthTestRouter(revocations auth.TokenRevocations) (*gin.Engine, *auth.JWTService, *AuthHandler) {
	gin.SetMode(gin.TestMode)

	jwtService := newTestJWTService()
	h := NewAuthHandler(jwtService, revocations)

	router := gin.New()
	return router, jwtService, h
}

func issueTestTokenPair(t *testing.T, jwtService *auth.JWTService) *auth.TokenPair {
	t.Helper()
	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID:   uuid.New(),
		TenantCode: "ACME",
		UserID:     uuid.New(),
		Email:      "user@acme.example",
	})
	require.NoError(t, err)
	return pair
}

func TestAuthHandler_Refresh(t *testing.T) {
	t.Run("should rotate token pair", func(t *testing.T) {
		router, jwtService, h := setupAuthTestRouter(auth.NewInMemoryTokenRevocations())
		router.POST("/auth/refresh", h.Refresh)

		pair := issueTestTokenPair(t, jwtService)

		body, _ := json.Marshal(RefreshTokenRequest{RefreshToken: pair.RefreshToken})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Success bool `json:"success"`
			Data    struct {
				AccessToken  string `json:"access_token"`
				RefreshToken string `json:"refresh_token"`
				TokenType    string `json:"token_type"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.Data.AccessToken)
		assert.NotEmpty(t, resp.Data.RefreshToken)
		assert.Equal(t, "Bearer", resp.Data.TokenType)
		assert.NotEqual(t, pair.RefreshToken, resp.Data.RefreshToken)
	})

	t.Run("should reject garbage token", func(t *testing.T) {
		router, _, h := setupAuthTestRouter(nil)
		router.POST("/auth/refresh", h.Refresh)

		body, _ := json.Marshal(RefreshTokenRequest{RefreshToken: "not-a-jwt"})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("should reject access token as refresh token", func(t *testing.T) {
		router, jwtService, h := setupAuthTestRouter(nil)
		router.POST("/auth/refresh", h.Refresh)

		pair := issueTestTokenPair(t, jwtService)

		body, _ := json.Marshal(RefreshTokenRequest{RefreshToken: pair.AccessToken})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("should reject revoked refresh token", func(t *testing.T) {
		revocations := auth.NewInMemoryTokenRevocations()
		router, jwtService, h := setupAuthTestRouter(revocations)
		router.POST("/auth/refresh", h.Refresh)

		pair := issueTestTokenPair(t, jwtService)
		claims, err := jwtService.ValidateRefreshToken(pair.RefreshToken)
		require.NoError(t, err)
		require.NoError(t, revocations.Revoke(t.Context(), claims.ID, time.Hour))

		body, _ := json.Marshal(RefreshTokenRequest{RefreshToken: pair.RefreshToken})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("should require refresh_token field", func(t *testing.T) {
		router, _, h := setupAuthTestRouter(nil)
		router.POST("/auth/refresh", h.Refresh)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Run("should revoke current token", func(t *testing.T) {
		revocations := auth.NewInMemoryTokenRevocations()
		router, jwtService, h := setupAuthTestRouter(revocations)

		pair := issueTestTokenPair(t, jwtService)
		claims, err := jwtService.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)

		router.POST("/auth/logout", func(c *gin.Context) {
			c.Set(middleware.JWTClaimsKey, claims)
			h.Logout(c)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)

		revoked, err := revocations.IsRevoked(t.Context(), claims.ID)
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("should revoke all sessions on request", func(t *testing.T) {
		revocations := auth.NewInMemoryTokenRevocations()
		router, jwtService, h := setupAuthTestRouter(revocations)

		pair := issueTestTokenPair(t, jwtService)
		claims, err := jwtService.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)

		router.POST("/auth/logout", func(c *gin.Context) {
			c.Set(middleware.JWTClaimsKey, claims)
			h.Logout(c)
		})

		body, _ := json.Marshal(LogoutRequest{AllSessions: true})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/logout", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)

		revoked, err := revocations.IsUserRevokedSince(t.Context(), claims.UserID, claims.IssuedAt.Time)
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("should require authentication", func(t *testing.T) {
		router, _, h := setupAuthTestRouter(nil)
		router.POST("/auth/logout", h.Logout)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
