package middleware

import (
	"context"
	"net/http"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/auth"
	"github.com/dolluzcorp/dtime-backend-go/internal/domain/employee"
	"github.com/dolluzcorp/dtime-backend-go/internal/handler/http/response"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// Identity is the caller resolved from a verified access token.
type Identity struct {
	EmpID string
	Email string
	Role  employee.Role
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// AuthRequired must run after jwtauth.Verifier. It accepts access tokens only and
// stores the caller's Identity in the request context.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}
			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if !ok || tokenType != jwt.TypeAccess {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			empID, _ := claims["emp_id"].(string)
			role, _ := claims["role"].(string)
			if empID == "" || !employee.Role(role).Valid() {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			email, _ := claims["email"].(string)

			ctx := WithIdentity(r.Context(), Identity{EmpID: empID, Email: email, Role: employee.Role(role)})
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}
