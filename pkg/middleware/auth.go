package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/gonotes/pkg/logger"
	"github.com/gogotex/gonotes/pkg/metrics"
)

// Context keys set by AuthMiddleware.
const (
	ClaimsKey = "claims"
	UserIDKey = "userID"
	TokenKey  = "rawToken"
)

// LegacyTokenHeader is accepted when no Authorization header is sent.
const LegacyTokenHeader = "auth-token"

// Token is minimal interface for a verified token that can expose claims
type Token interface {
	Claims(v interface{}) error
}

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	Verify(ctx context.Context, raw string) (Token, error)
}

// RevocationChecker reports whether a raw token has been revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, raw string) (bool, error)
}

// AuthMiddleware returns a Gin middleware that verifies bearer tokens using the
// provided verifier. revoked may be nil.
func AuthMiddleware(ver Verifier, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, reason := rawToken(c)
		if raw == "" {
			reject(c, reason)
			return
		}

		if revoked != nil {
			gone, err := revoked.IsRevoked(c.Request.Context(), raw)
			if err != nil {
				// fail closed: an unreachable revocation list cannot vouch for the token
				logger.Errorf("revocation check failed: %v", err)
				reject(c, "revocation_unavailable")
				return
			}
			if gone {
				reject(c, "revoked")
				return
			}
		}

		tok, err := ver.Verify(c.Request.Context(), raw)
		if err != nil {
			logger.Debugf("token verification failed: %v", err)
			reject(c, "invalid_token")
			return
		}

		var claims map[string]interface{}
		if err := tok.Claims(&claims); err != nil {
			reject(c, "bad_claims")
			return
		}
		id := IdentityFromClaims(claims)
		if id == "" {
			reject(c, "no_subject")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, id)
		c.Set(TokenKey, raw)
		c.Next()
	}
}

// rawToken extracts the token from "Authorization: Bearer <t>" or the legacy
// header. The second value is the rejection reason when no token is found.
func rawToken(c *gin.Context) (string, string) {
	if auth := c.GetHeader("Authorization"); auth != "" {
		var token string
		if n, _ := fmt.Sscanf(auth, "Bearer %s", &token); n != 1 {
			return "", "malformed_header"
		}
		return token, ""
	}
	if legacy := strings.TrimSpace(c.GetHeader(LegacyTokenHeader)); legacy != "" {
		return legacy, ""
	}
	return "", "missing_token"
}

func reject(c *gin.Context, reason string) {
	metrics.AuthRejected.WithLabelValues(reason).Inc()
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Please authenticate using a valid token"})
}

// IdentityFromClaims returns the caller identity: the "sub" claim, or the id
// of the legacy {"user":{"id":...}} payload.
func IdentityFromClaims(claims map[string]interface{}) string {
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub
	}
	if u, ok := claims["user"].(map[string]interface{}); ok {
		if id, ok := u["id"].(string); ok {
			return id
		}
	}
	return ""
}

// UserID returns the identity stored by AuthMiddleware, or "" on public routes.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// RawToken returns the verified token stored by AuthMiddleware.
func RawToken(c *gin.Context) string {
	return c.GetString(TokenKey)
}
