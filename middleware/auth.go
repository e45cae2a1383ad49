package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/wanderplan/wanderplan-backend/errors"
	"github.com/wanderplan/wanderplan-backend/logger"
)

// SupabaseClaims are the claims carried by a Supabase-issued access token.
type SupabaseClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the Bearer token as an HS256 JWT signed with the
// Supabase project's JWT secret and stores the subject's user id and email on
// the request context.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.GetLogger()

		token := extractBearerToken(c)
		if token == "" {
			_ = c.Error(apperrors.AuthenticationRequired("no access token provided"))
			c.Abort()
			return
		}

		claims, err := validateToken(token, jwtSecret)
		if err != nil {
			log.Warnw("Rejected invalid access token",
				"path", c.Request.URL.Path,
				"error", err)
			_ = c.Error(apperrors.Unauthorized("invalid_token", "invalid or expired access token"))
			c.Abort()
			return
		}

		c.Set(string(UserIDKey), claims.Subject)
		c.Set(string(UserEmailKey), claims.Email)
		c.Next()
	}
}

// StaticAuth pins every request to the given user. It pairs with the fixture
// data source so the whole API works without Supabase credentials.
func StaticAuth(userID, email string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(string(UserIDKey), userID)
		c.Set(string(UserEmailKey), email)
		c.Next()
	}
}

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func validateToken(tokenString, secret string) (*SupabaseClaims, error) {
	claims := &SupabaseClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	return claims, nil
}
