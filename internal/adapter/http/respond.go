package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/couchcryptid/ufo-sightings/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/vmihailenco/msgpack/v5"
)

const contentTypeMsgPack = "application/x-msgpack"

// fail maps err onto a status code and writes {"error": ...}. Failures of the
// store or the geometry reference are surfaced, never rendered as empty data.
func (h *handlers) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidFilter):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrDataUnavailable), errors.Is(err, domain.ErrGeometryUnavailable):
		status = http.StatusServiceUnavailable
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			"path", c.Request.URL.Path,
			"status", status,
			"request_id", c.GetString(requestIDKey),
			"error", err,
		)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// negotiate writes v as MessagePack when the client asks for it through the
// Accept header or ?format=msgpack, and as JSON otherwise.
func (h *handlers) negotiate(c *gin.Context, status int, v any) {
	if !wantsMsgPack(c) {
		c.JSON(status, v)
		return
	}

	c.Header("Content-Type", contentTypeMsgPack)
	c.Status(status)
	enc := msgpack.NewEncoder(c.Writer)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		h.logger.Warn("msgpack encode failed", "request_id", c.GetString(requestIDKey), "error", err)
	}
}

func wantsMsgPack(c *gin.Context) bool {
	if c.Query("format") == "msgpack" {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), contentTypeMsgPack)
}
