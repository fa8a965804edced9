package middleware

import "github.com/gin-gonic/gin"

// adminKey marks requests that passed AdminAuth.
const adminKey = contextKey("isAdmin")

// IsAdminRequest reports whether AdminAuth accepted the request.
func IsAdminRequest(c *gin.Context) bool {
	return c.GetBool(string(adminKey))
}
