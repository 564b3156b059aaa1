// Package ctxutil carries request-scoped identifiers through a context.
package ctxutil

import (
	"context"
	"strings"
)

type ctxKey string

const (
	tenantIDKey  ctxKey = "tenant_id"
	requestIDKey ctxKey = "request_id"
)

// WithTenantID stores the authenticated tenant (shop domain) in the context.
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantIDKey, strings.ToLower(strings.TrimSpace(tenantID)))
}

// TenantIDFromCtx extracts the tenant ID from the context.
// Returns "" and false if the value is missing, blank, or of the wrong type.
func TenantIDFromCtx(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(tenantIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
