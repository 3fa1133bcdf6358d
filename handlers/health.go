package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/gonotes/pkg/logger"
)

// Check reports whether a dependency can serve requests.
type Check func(ctx context.Context) error

// RegisterHealth mounts /health (liveness) and /ready, which runs every check
// and answers 503 when any of them fails.
func RegisterHealth(r gin.IRouter, checks map[string]Check, started time.Time) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		ready := true
		deps := make(map[string]bool, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				logger.Warnf("readiness: %s: %v", name, err)
				deps[name] = false
				ready = false
				continue
			}
			deps[name] = true
		}

		status, code := "ready", http.StatusOK
		if !ready {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "deps": deps, "uptime": time.Since(started).String()})
	})
}
