package middleware

import (
	"net/http"
	"strings"

	"github.com/heartmarshall/catalog-compliance/pkg/ctxutil"
)

//go:generate moq -out session_validator_mock_test.go -pkg middleware . sessionValidator

type sessionValidator interface {
	ValidateSession(token string) (string, error)
}

// TenantAuth resolves the tenant from the Bearer session token. Requests
// without a valid token are rejected with 401.
func TenantAuth(validator sessionValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "missing session token")
				return
			}
			tenantID, err := validator.ValidateSession(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid session token")
				return
			}
			ctx := ctxutil.WithTenantID(r.Context(), tenantID)
			reportTenant(ctx, tenantID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) < 7 || !strings.EqualFold(auth[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(auth[7:])
}
