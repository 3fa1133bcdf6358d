package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/gonotes/internal/revocation"
	"github.com/gogotex/gonotes/internal/tokens"
	"github.com/gogotex/gonotes/pkg/logger"
	"github.com/gogotex/gonotes/pkg/middleware"
)

// AuthHandler serves the token endpoints owned by this service. Issuing tokens
// is left to the identity provider.
type AuthHandler struct {
	revocations *revocation.List
}

func NewAuthHandler(l *revocation.List) *AuthHandler {
	return &AuthHandler{revocations: l}
}

// Register routes under /auth. protect must authenticate the caller.
func (h *AuthHandler) Register(rg gin.IRouter, protect ...gin.HandlerFunc) {
	a := rg.Group("/auth")
	chain := make([]gin.HandlerFunc, 0, len(protect)+1)
	a.POST("/revoke", append(append(chain, protect...), h.Revoke)...)
}

// Revoke puts the presented access token on the revocation list until it
// expires. Without Redis the call succeeds and nothing is stored.
func (h *AuthHandler) Revoke(c *gin.Context) {
	raw := middleware.RawToken(c)
	exp, err := tokens.ExpiresAt(raw)
	if err != nil {
		// tokens without exp cannot be bounded; keep them out of Redis
		c.JSON(http.StatusBadRequest, gin.H{"error": "token has no usable exp claim"})
		return
	}
	if err := h.revocations.Revoke(c.Request.Context(), raw, time.Until(exp)); err != nil {
		logger.Errorf("revoke token for %s: %v", middleware.UserID(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke access token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"revoked": h.revocations.Enabled(), "expiresAt": exp.UTC()})
}
