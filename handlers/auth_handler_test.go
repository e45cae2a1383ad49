package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderplan/wanderplan-backend/internal/auth"
	"github.com/wanderplan/wanderplan-backend/middleware"
)

func newAuthRouter() *gin.Engine {
	h := NewAuthHandler(auth.NewStatic("mock-user-1", "mock@example.com"))

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.POST("/auth/signin", h.SignIn)
	r.POST("/auth/signup", h.SignUp)
	r.POST("/auth/signout", h.SignOut)
	r.GET("/auth/me", h.Me)
	return r
}

func TestSignIn(t *testing.T) {
	r := newAuthRouter()

	w := doJSON(t, r, http.MethodPost, "/auth/signin",
		`{"email":"mock@example.com","password":"secret123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "mock-user-1")
	assert.Contains(t, w.Body.String(), "accessToken")
}

func TestSignInRejectsBadPayload(t *testing.T) {
	r := newAuthRouter()

	w := doJSON(t, r, http.MethodPost, "/auth/signin", `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignUp(t *testing.T) {
	r := newAuthRouter()

	w := doJSON(t, r, http.MethodPost, "/auth/signup",
		`{"email":"new@example.com","password":"secret123"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestSignOut(t *testing.T) {
	r := newAuthRouter()

	w := doJSON(t, r, http.MethodPost, "/auth/signout", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestMeRequiresToken(t *testing.T) {
	r := newAuthRouter()

	w := doJSON(t, r, http.MethodGet, "/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
