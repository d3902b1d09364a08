package observability

import (
	"context"

	"github.com/google/uuid"
)

// Attribute keys shared by logs and metric tags.
const (
	CorrelationIDKey = "correlation_id"
	RequestIDKey     = "request_id"
	UserIDKey        = "user_id"
	OperationKey     = "operation"
	DurationKey      = "duration_ms"
	ErrorKey         = "error"
	StatusKey        = "status"
)

// requestIDs travel together through a request; values are copied on update
// so a derived context never changes its parent.
type requestIDs struct {
	request     string
	correlation string
	user        string
}

type requestIDsKey struct{}

func idsFrom(ctx context.Context) requestIDs {
	if ctx == nil {
		return requestIDs{}
	}
	ids, _ := ctx.Value(requestIDsKey{}).(requestIDs)
	return ids
}

func withIDs(ctx context.Context, update func(*requestIDs)) context.Context {
	ids := idsFrom(ctx)
	update(&ids)
	return context.WithValue(ctx, requestIDsKey{}, ids)
}

// NewRequestContext assigns a fresh request id and keeps correlationID when
// the caller sent one, generating it otherwise.
func NewRequestContext(ctx context.Context, correlationID string) context.Context {
	return WithCorrelationID(WithRequestID(ctx, ""), correlationID)
}

// WithRequestID sets the request id; empty generates one.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return withIDs(ctx, func(ids *requestIDs) { ids.request = id })
}

// WithCorrelationID sets the correlation id; empty generates one.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return withIDs(ctx, func(ids *requestIDs) { ids.correlation = id })
}

// WithUserID records the user a request acts for.
func WithUserID(ctx context.Context, userID string) context.Context {
	return withIDs(ctx, func(ids *requestIDs) { ids.user = userID })
}

func RequestIDFromContext(ctx context.Context) string     { return idsFrom(ctx).request }
func CorrelationIDFromContext(ctx context.Context) string { return idsFrom(ctx).correlation }
func UserIDFromContext(ctx context.Context) string        { return idsFrom(ctx).user }
