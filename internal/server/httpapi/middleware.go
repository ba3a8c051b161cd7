package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophid/internal/logging"
	"github.com/dmitrijs2005/gophid/internal/server/auth"
)

const (
	requestIDHeader = "X-Request-Id"
	requestIDKey    = "request_id"
)

// RequestID propagates X-Request-Id, generating one when absent.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func RequestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"request_id", c.GetString(requestIDKey),
		}
		ctx := c.Request.Context()
		switch status := c.Writer.Status(); {
		case status >= 500:
			logger.Error(ctx, "request completed", args...)
		case status >= 400:
			logger.Warn(ctx, "request completed", args...)
		default:
			logger.Info(ctx, "request completed", args...)
		}
	}
}

// Authenticate runs the bearer gate on the Authorization header and stores
// the user in the request context.
func Authenticate(gate Authenticator, logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		user, err := gate.Authenticate(ctx, c.GetHeader("Authorization"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.Request = c.Request.WithContext(auth.WithUser(ctx, user))
		c.Next()
	}
}
