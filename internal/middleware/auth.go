package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AdminAuth guards admin routes with a shared secret sent as "Authorization: Bearer <password>".
// An empty adminPassword rejects every request.
func AdminAuth(adminPassword string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		if !VerifyAdmin(c.GetHeader("Authorization"), adminPassword) {
			logger.Warn("Admin authorization failed", "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(string(adminKey), true)
		c.Next()
	}
}

// VerifyAdmin checks an Authorization header value against the admin password.
func VerifyAdmin(authHeader, adminPassword string) bool {
	if authHeader == "" || adminPassword == "" {
		return false
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	return subtle.ConstantTimeCompare([]byte(token), []byte(adminPassword)) == 1
}
