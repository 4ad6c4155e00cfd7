package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/stocker/backend/internal/infrastructure/auth"
	"github.com/stocker/backend/internal/interfaces/http/middleware"
)

// RefreshTokenRequest carries the refresh token to exchange
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest optionally asks for every session to be revoked
type LogoutRequest struct {
	AllSessions bool `json:"all_sessions"`
}

// AuthHandler handles token refresh and logout. Token issuance happens
// at the identity provider; this API only rotates and revokes tokens.
type AuthHandler struct {
	BaseHandler
	jwtService  *auth.JWTService
	revocations auth.TokenRevocations
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(jwtService *auth.JWTService, revocations auth.TokenRevocations) *AuthHandler {
	return &AuthHandler{
		jwtService:  jwtService,
		revocations: revocations,
	}
}

// Refresh exchanges a valid refresh token for a new token pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if h.revocations != nil {
		claims, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
		if err != nil {
			h.Unauthorized(c, "Invalid refresh token")
			return
		}
		if claims.ID != "" {
			revoked, err := h.revocations.IsRevoked(c.Request.Context(), claims.ID)
			if err == nil && revoked {
				h.Unauthorized(c, "Refresh token has been revoked")
				return
			}
		}
	}

	pair, err := h.jwtService.RefreshTokenPair(req.RefreshToken)
	if err != nil {
		h.Unauthorized(c, "Invalid refresh token")
		return
	}

	h.Success(c, pair)
}

// Logout revokes the current access token, and with all_sessions every
// token issued to the user so far
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req LogoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, "Invalid request body: "+err.Error())
			return
		}
	}

	if h.revocations == nil {
		h.NoContent(c)
		return
	}

	ctx := c.Request.Context()

	if req.AllSessions {
		if err := h.revocations.RevokeAllForUser(ctx, claims.UserID, claims.GetRemainingTTL()); err != nil {
			h.InternalError(c, "Failed to revoke sessions")
			return
		}
		h.NoContent(c)
		return
	}

	if claims.ID != "" {
		if err := h.revocations.Revoke(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
			h.InternalError(c, "Failed to revoke token")
			return
		}
	}

	h.NoContent(c)
}
