package middleware

import "context"

type probeKey struct{}

// tenantProbe lets TenantAuth report the tenant back to outer middleware,
// which only see the request context they created.
type tenantProbe struct {
	tenantID string
}

func withProbe(ctx context.Context, p *tenantProbe) context.Context {
	return context.WithValue(ctx, probeKey{}, p)
}

func reportTenant(ctx context.Context, tenantID string) {
	if p, ok := ctx.Value(probeKey{}).(*tenantProbe); ok {
		p.tenantID = tenantID
	}
}
