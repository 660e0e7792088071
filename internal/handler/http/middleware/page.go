package middleware

import (
	"net/http"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/access"
	"github.com/dolluzcorp/dtime-backend-go/internal/domain/auth"
	"github.com/dolluzcorp/dtime-backend-go/internal/handler/http/response"
)

// RequirePage lets the request through only when the caller's role may open page.
func RequirePage(checker access.Checker, page access.Page) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			if !checker.Can(id.Role, page) {
				response.HandleError(w, access.ErrPageAccessDenied)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
