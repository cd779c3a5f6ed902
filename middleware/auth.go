package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const UserEmailKey = "userEmail"

// AuthMiddleware trusts the identity headers set by the API gateway.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetHeader("X-User-Email")
		if email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(UserEmailKey, email)
		c.Next()
	}
}

func GetUserEmail(c *gin.Context) string {
	if val, exists := c.Get(UserEmailKey); exists {
		return val.(string)
	}
	return ""
}
