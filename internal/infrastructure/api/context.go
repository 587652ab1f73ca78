package api

import "context"

type ctxKey string

const (
	// RequestIDKey is the context key for the request id forwarded upstream
	RequestIDKey ctxKey = "request_id"
)

// WithRequestID adds a request id to context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID extracts the request id from context
func GetRequestID(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(RequestIDKey).(string)
	return requestID, ok && requestID != ""
}
