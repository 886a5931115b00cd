// Package middleware contains Gin middleware functions.
// Middleware in Gin is a handler that runs before (or after) your route handler.
// It calls c.Next() to proceed or c.Abort() to stop the chain.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS returns middleware that sets Cross-Origin Resource Sharing headers.
// This allows browser dashboards on a different origin to query the
// sentiment API directly.
//
// CORS explained: browsers block cross-origin requests by default. The server
// must explicitly allow them via these headers. For preflight OPTIONS requests,
// we return 204 immediately (no content).
func CORS(allowedOrigins []string) gin.HandlerFunc {
	// Build a set for O(1) lookups. Go doesn't have a built-in Set type,
	// so we use map[string]struct{} — struct{} takes zero bytes of memory.
	originSet := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		originSet[o] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		if _, ok := originSet[origin]; ok {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type")
			c.Header("Access-Control-Max-Age", "86400")
		}

		// Handle preflight requests
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
