package middleware

import (
	"context"
	"time"

	"anoa.com/kulupportal/pkg/apperror"
	"anoa.com/kulupportal/pkg/logger"
	"anoa.com/kulupportal/pkg/metrics"
	"anoa.com/kulupportal/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestID reuses an incoming X-Request-ID or generates one, and makes it
// visible to the logger through the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}

		c.Set(string(logger.RequestIDKey), id)
		c.Writer.Header().Set(RequestIDHeader, id)

		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, id)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// Logger logs every request with the structured logger.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		logger.LogRequest(c.Request.Context(), c.Request.Method, path, c.Writer.Status(), time.Since(start), c.ClientIP())
	}
}

// Metrics counts requests by route template and authorization refusals by
// kind.
func Metrics(reg *metrics.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		reg.ObserveRequest(c.Request.Method, c.FullPath(), status)

		switch kind := c.GetString(response.ErrorKindKey); kind {
		case apperror.KindForbidden, apperror.KindForbiddenRole, apperror.KindUnauthorized:
			reg.ObserveDenial(kind)
		}
	}
}
