package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/auth"
	"github.com/dolluzcorp/dtime-backend-go/internal/domain/leave"
	"github.com/dolluzcorp/dtime-backend-go/internal/handler/http/middleware"
	"github.com/dolluzcorp/dtime-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// identity returns the authenticated caller, answering 401 when the route was
// mounted without AuthRequired.
func identity(w http.ResponseWriter, r *http.Request) (middleware.Identity, bool) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
	}
	return id, ok
}

func leaveActor(id middleware.Identity) leave.Actor {
	return leave.Actor{EmpID: id.EmpID, Role: id.Role}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Warn("Request decode error", "path", r.URL.Path, "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

// int64Param parses a positive integer URL parameter.
func int64Param(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid "+name, nil)
		return 0, false
	}
	return id, true
}

// intQuery returns fallback when the query value is absent.
func intQuery(w http.ResponseWriter, r *http.Request, name string, fallback int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		response.BadRequest(w, "Invalid "+name, map[string]string{name: "must be a number"})
		return 0, false
	}
	return v, true
}
