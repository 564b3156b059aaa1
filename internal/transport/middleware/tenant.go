package middleware

import (
	"context"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
	"github.com/heartmarshall/catalog-compliance/pkg/ctxutil"
)

// RequireTenant returns the authenticated tenant or domain.ErrUnauthorized.
// Use in handlers behind TenantAuth.
func RequireTenant(ctx context.Context) (string, error) {
	tenantID, ok := ctxutil.TenantIDFromCtx(ctx)
	if !ok {
		return "", domain.ErrUnauthorized
	}
	return tenantID, nil
}
