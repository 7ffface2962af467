package log

import (
	"context"
)

type requestId struct{}

// RequestIDFromContext returns an empty string when no request id was attached.
func RequestIDFromContext(c context.Context) string {
	id, _ := c.Value(requestId{}).(string)
	return id
}

func AttachRequestIDToContext(c context.Context, h string) context.Context {
	return context.WithValue(c, requestId{}, h)
}
