package app

import (
	"context"

	"github.com/labstack/echo/v4"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// NewEchoContextAdapter returns the request context carrying the request id
// set by the RequestID middleware.
func NewEchoContextAdapter(c echo.Context) context.Context {
	ctx := c.Request().Context()

	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		ctx = WithRequestID(ctx, id)
	}

	return ctx
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)

	return id
}
