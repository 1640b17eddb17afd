package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jobtrack/jobtrack/pkg/logger"
)

// Token is minimal interface for a verified token that can expose claims
type Token interface {
	Claims(v interface{}) error
}

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	Verify(ctx context.Context, raw string) (Token, error)
}

// BlacklistChecker reports whether a raw access token has been revoked.
// Optional; pass nil to skip the check.
type BlacklistChecker func(ctx context.Context, raw string) (bool, error)

// AuthMiddleware returns a Gin middleware that verifies Bearer tokens using
// the provided verifier. On success the raw claims map is stored under
// "claims" and the subject under "sub".
func AuthMiddleware(ver Verifier, blacklisted BlacklistChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}

		if blacklisted != nil {
			revoked, err := blacklisted(c.Request.Context(), token)
			if err != nil {
				// fail open: an unreachable blacklist must not take auth down
				logger.Errorf("Blacklist check failed: %v", err)
			} else if revoked {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token revoked"})
				return
			}
		}

		idToken, err := ver.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token", "details": err.Error()})
			return
		}

		// Extract claims
		var claims map[string]interface{}
		if err := idToken.Claims(&claims); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "failed to parse claims"})
			return
		}
		sub, _ := claims["sub"].(string)
		if sub == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token missing subject"})
			return
		}

		c.Set("claims", claims)
		c.Set("sub", sub)
		c.Set("rawToken", token)
		c.Next()
	}
}

// Subject returns the authenticated subject set by AuthMiddleware.
func Subject(c *gin.Context) string {
	return c.GetString("sub")
}
