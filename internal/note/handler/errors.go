package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/gonotes/internal/note/service"
	"github.com/gogotex/gonotes/pkg/logger"
	"github.com/gogotex/gonotes/pkg/middleware"
)

// fieldError is one entry of a 400 response, shaped like express-validator output.
type fieldError struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Msg      string `json:"msg"`
	Path     string `json:"path"`
	Location string `json:"location"`
}

// writeError maps service errors to status codes. Ownership failures answer
// 401, not 403, because existing clients expect it.
func writeError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		out := make([]fieldError, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			out = append(out, fieldError{Type: "field", Value: f.Value, Msg: f.Msg, Path: f.Field, Location: "body"})
		}
		c.JSON(http.StatusBadRequest, gin.H{"errors": out})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not Allowed"})
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please authenticate using a valid token"})
	default:
		logger.WithFields(map[string]interface{}{
			"request_id": middleware.GetRequestID(c),
			"path":       c.Request.URL.Path,
		}).Errorf("request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
	}
}

func writeBadBody(c *gin.Context, err error) {
	logger.Debugf("bad request body on %s: %v", c.Request.URL.Path, err)
	c.JSON(http.StatusBadRequest, gin.H{"errors": []fieldError{{
		Type:     "field",
		Msg:      "Invalid request body",
		Location: "body",
	}}})
}
