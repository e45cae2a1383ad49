package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/wanderplan/wanderplan-backend/errors"
	"github.com/wanderplan/wanderplan-backend/internal/auth"
	"github.com/wanderplan/wanderplan-backend/logger"
	"github.com/wanderplan/wanderplan-backend/types"
)

// AuthHandler exposes session operations backed by the session provider.
type AuthHandler struct {
	provider auth.SessionProvider
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(provider auth.SessionProvider) *AuthHandler {
	return &AuthHandler{provider: provider}
}

// CredentialsRequest is the request body for sign-in and sign-up.
type CredentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// RefreshRequest is the request body for refreshing a session.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// SessionResponse is the session shape returned to clients.
type SessionResponse struct {
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int    `json:"expiresIn,omitempty"`
}

func sessionResponse(sess *types.Session) SessionResponse {
	return SessionResponse{
		UserID:       sess.UserID,
		Email:        sess.Email,
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		ExpiresIn:    sess.ExpiresIn,
	}
}

// SignIn handles POST /auth/signin.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req CredentialsRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	sess, err := h.provider.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		logger.GetLogger().Warnw("Sign-in failed", "email", logger.MaskEmail(req.Email))
		_ = c.Error(apperrors.Unauthorized("invalid_credentials", "invalid email or password"))
		return
	}
	c.JSON(http.StatusOK, sessionResponse(sess))
}

// SignUp handles POST /auth/signup.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req CredentialsRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	sess, err := h.provider.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, sessionResponse(sess))
}

// SignOut handles POST /auth/signout.
func (h *AuthHandler) SignOut(c *gin.Context) {
	token := extractBearer(c)
	if err := h.provider.SignOut(c.Request.Context(), token); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	sess, err := h.provider.RefreshSession(c.Request.Context(), req.RefreshToken)
	if err != nil {
		_ = c.Error(apperrors.Unauthorized("invalid_refresh_token", "could not refresh session"))
		return
	}
	c.JSON(http.StatusOK, sessionResponse(sess))
}

// Me handles GET /auth/me, resolving the session behind the bearer token.
func (h *AuthHandler) Me(c *gin.Context) {
	sess, err := h.provider.GetSession(c.Request.Context(), extractBearer(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(sess))
}

func extractBearer(c *gin.Context) string {
	const prefix = "Bearer "
	header := c.GetHeader("Authorization")
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
