package middleware

import (
	"context"
	"net/http"
	"strings"

	"internsaathi/internal/common"
	"internsaathi/internal/domain/account"
	"internsaathi/internal/http/response"
)

type contextKey string

const contextAccountKey contextKey = "account"

// Authenticator resolves a bearer token to the account it was issued for.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*account.Account, error)
}

type AuthMiddleware struct {
	auth Authenticator
}

func NewAuthMiddleware(auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Error(w, common.NewError(common.CodeUnauthorized, "not authorized, no token", nil))
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || strings.TrimSpace(parts[1]) == "" {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid authorization header", nil))
			return
		}
		caller, err := m.auth.Authenticate(r.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			response.Error(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithAccount(r.Context(), *caller)))
	})
}

// RequireRole admits callers holding any of roles.
func RequireRole(roles ...account.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := AccountFromContext(r.Context())
			if !ok {
				response.Error(w, common.NewError(common.CodeUnauthorized, "not authorized", nil))
				return
			}
			for _, role := range roles {
				if caller.Role() == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.Error(w, common.NewError(common.CodeForbidden, "role "+string(caller.Role())+" is not authorized to access this route", nil))
		})
	}
}

func WithAccount(ctx context.Context, caller account.Account) context.Context {
	return context.WithValue(ctx, contextAccountKey, caller)
}

func AccountFromContext(ctx context.Context) (account.Account, bool) {
	caller, ok := ctx.Value(contextAccountKey).(account.Account)
	return caller, ok
}
