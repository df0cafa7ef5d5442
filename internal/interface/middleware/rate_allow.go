package middleware

import (
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dietia/dietia-backend/pkg/response"
)

// AllowPrivateIP lets loopback and RFC 1918 clients bypass a limiter.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		parsed := net.ParseIP(ipFromCtx(c))
		if parsed == nil {
			return false
		}
		return parsed.IsLoopback() || parsed.IsPrivate()
	}
}

// PrivateOnly hides a route from public clients with a 404.
func PrivateOnly() gin.HandlerFunc {
	allow := AllowPrivateIP()
	return func(c *gin.Context) {
		if !allow(c) {
			response.Error[any](c, http.StatusNotFound, "not found", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
