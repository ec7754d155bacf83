package utilities

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"inkwell-report-backend/pkg/response"
)

// AuthMiddleware ensures each request carries a valid access token
func AuthMiddleware(tokens *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.RespondError(c, http.StatusUnauthorized, response.CodeUnauthorized, errors.New("missing authorization header"))
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := tokens.ValidateToken(tokenStr, false)
		if err != nil {
			response.RespondError(c, http.StatusUnauthorized, response.CodeUnauthorized, errors.New("invalid or expired token"))
			return
		}

		// Store claims in context for later use
		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)

		c.Next()
	}
}
