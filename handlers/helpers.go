package handlers

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/wanderplan/wanderplan-backend/errors"
	"github.com/wanderplan/wanderplan-backend/middleware"
)

// bindJSONOrError binds the JSON request body and sets a validation error if
// binding fails. Returns true if binding succeeded.
func bindJSONOrError(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		_ = c.Error(apperrors.ValidationFailed("invalid_request_payload", err.Error()))
		return false
	}
	return true
}

// requireUserID reads the authenticated user id from the request context and
// sets an authentication error when it is missing. Returns "" in that case.
func requireUserID(c *gin.Context) string {
	userID := c.GetString(string(middleware.UserIDKey))
	if userID == "" {
		_ = c.Error(apperrors.AuthenticationRequired("authentication required"))
	}
	return userID
}
