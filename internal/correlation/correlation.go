// Package correlation threads a correlation id through every call as an
// explicit context value and over the wire as a transport header.
package correlation

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header is the transport header carrying the correlation id on HTTP
// requests/responses and Kafka messages.
const Header = "X-Correlation-Id"

type ctxKey struct{}

// WithID returns a child context carrying the given correlation id.
func WithID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the correlation id stored in ctx, or "" when absent.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}

// Ensure returns a context that carries a correlation id, generating a
// fresh one when ctx has none, along with the id itself.
func Ensure(ctx context.Context) (context.Context, string) {
	if id := FromContext(ctx); id != "" {
		return ctx, id
	}
	id := uuid.NewString()
	return WithID(ctx, id), id
}

// Middleware reads the correlation id header, generates one when missing,
// echoes it on the response and stores it on the request context.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(Header)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(Header, id)
		c.Request = c.Request.WithContext(WithID(c.Request.Context(), id))
		c.Next()
	}
}
