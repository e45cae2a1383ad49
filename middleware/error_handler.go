package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wanderplan/wanderplan-backend/errors"
	"github.com/wanderplan/wanderplan-backend/logger"
)

// ErrorResponse is the JSON error body returned to clients.
type ErrorResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Code    string `json:"code,omitempty"`
}

// ErrorHandler renders the last error attached to the context as a JSON
// response. AppError values carry their own status code; anything else is a
// 500 with the detail withheld from the client.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		log := logger.GetLogger()

		if appErr, ok := err.(*errors.AppError); ok {
			status := appErr.GetHTTPStatus()
			log.Warnw("Request failed",
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"type", appErr.Type,
				"code", appErr.Code,
				"status", status,
				"error", appErr.Error())
			c.JSON(status, ErrorResponse{
				Type:    string(appErr.Type),
				Message: appErr.Message,
				Detail:  appErr.Detail,
				Code:    appErr.Code,
			})
			return
		}

		log.Errorw("Unhandled error",
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Type:    string(errors.ServerError),
			Message: "Internal server error",
		})
	}
}
