package events

import "context"

type ctxKey string

const ctxCorrelationID ctxKey = "correlation_id"

// WithCorrelationID stores the request id so events published while handling
// the request can carry it.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxCorrelationID, id)
}

func CorrelationID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxCorrelationID).(string); ok {
		return v
	}
	return ""
}
