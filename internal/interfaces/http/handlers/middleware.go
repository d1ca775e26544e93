package handlers

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/turtacn/mrsa/pkg/constants"
	"github.com/turtacn/mrsa/pkg/errors"
	"github.com/turtacn/mrsa/pkg/logger"
)

// RequestIDMiddleware propagates X-Request-ID, generating one when absent,
// and stores it in the request context for logging.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(string(constants.ContextKeyRequestID), requestID)
		c.Header(constants.HeaderRequestID, requestID)

		ctx := context.WithValue(c.Request.Context(), constants.ContextKeyRequestID, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// LoggingMiddleware logs incoming requests. Downstream handlers get a
// request-scoped logger through logger.Logger.ForContext.
func LoggingMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		scoped := log.WithFields(logger.Fields{
			"method":    c.Request.Method,
			"route":     c.FullPath(),
			"client_ip": c.ClientIP(),
		})
		ctx := context.WithValue(c.Request.Context(), constants.ContextKeyLogger, scoped)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		scoped.Info(ctx, "Request processed", logger.Fields{
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
		})
	}
}

// RecoveryMiddleware recovers from panics.
func RecoveryMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				ctx := c.Request.Context()
				log.ForContext(ctx).Error(ctx, "Panic recovered", stderrors.New("panic"), logger.Fields{"panic": fmt.Sprint(rec)})
				sendError(c, errors.ErrServerError("internal error"))
				c.Abort()
			}
		}()
		c.Next()
	}
}
