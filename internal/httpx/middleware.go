// Package httpx carries the HTTP middleware shared by every storefront
// route: request correlation, access logging and bearer-token auth.
package httpx

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ctxRequestID = "requestID"

// RequestID tags each request with a correlation id, honoring one sent by
// the storefront frontend and minting one otherwise. Payment callbacks in
// particular need the id to tie gateway traffic to access log lines.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(ctxRequestID, rid)
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Next()
	}
}

// Logger writes one access log line per request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		rid := c.GetString(ctxRequestID)
		log.Printf("[http] rid=%s %s %s status=%d dur=%s ip=%s",
			rid, c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start), c.ClientIP())
	}
}
