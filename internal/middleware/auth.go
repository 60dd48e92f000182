package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"smartinvoice/internal/service"
)

const ContextKeyClaims = "claims"

// AuthMiddleware returns Gin middleware that validates Bearer JWT tokens.
// When no password is configured the service reports auth disabled and every
// request passes through, which keeps local single-user setups friction-free.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authService.Enabled() {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "missing or invalid authorization header"},
			})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := authService.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "invalid or expired token"},
			})
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}
