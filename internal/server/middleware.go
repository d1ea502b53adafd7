package server

import (
	"net/http"
	"strings"
	"time"

	"smart-deals/internal/auth"
	"smart-deals/utils"

	"github.com/gin-gonic/gin"
)

// RequestIDMiddleware tags every request with a generated id, echoed in the
// X-Request-ID header and carried into log fields.
func RequestIDMiddleware(c *gin.Context) {
	id := utils.GenerateID()
	c.Set("request_id", id)
	c.Writer.Header().Set("X-Request-ID", id)

	c.Next()
}

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	utils.Info("HTTP Request", map[string]any{
		"request_id": c.GetString("request_id"),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"status":     c.Writer.Status(),
		"latency":    time.Since(start).String(),
	})
}

// RequireAuth verifies the bearer token on protected routes and attaches the
// email claim to the request context. Missing header, missing token segment,
// or failed verification all reject with 401; nothing downstream runs. Every
// request re-verifies; results are never cached.
func RequireAuth(verifier auth.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized access"})
			return
		}

		parts := strings.Fields(header)
		if len(parts) < 2 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized access"})
			return
		}

		claim, err := verifier.Verify(c.Request.Context(), parts[1])
		if err != nil {
			utils.Warn("RequireAuth: token verification failed", map[string]any{
				"request_id": c.GetString("request_id"),
				"error":      err.Error(),
			})
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized access"})
			return
		}

		c.Set(auth.ContextEmailKey, claim.Email)
		c.Next()
	}
}
