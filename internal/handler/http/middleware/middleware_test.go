package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/access"
	"github.com/dolluzcorp/dtime-backend-go/internal/domain/employee"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageChecker map[employee.Role][]access.Page

func (c pageChecker) Can(role employee.Role, page access.Page) bool {
	for _, p := range c[role] {
		if p == page {
			return true
		}
	}
	return false
}

func newTestJWT(t *testing.T) *jwt.JWTService {
	t.Helper()
	svc, err := jwt.NewJWTService("middleware-test-secret", "1h", "24h", false)
	require.NoError(t, err)
	return svc
}

func protectedRouter(svc jwt.Service, extra ...func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(svc.JWTAuth()))
		r.Use(AuthRequired(svc.JWTAuth()))
		for _, mw := range extra {
			r.Use(mw)
		}
		r.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
			id, _ := IdentityFromContext(r.Context())
			w.Write([]byte(id.EmpID + "|" + string(id.Role)))
		})
	})
	return r
}

func TestAuthRequired(t *testing.T) {
	svc := newTestJWT(t)
	router := protectedRouter(svc)

	accessToken, _, err := svc.GenerateAccessToken(jwt.Claims{EmpID: "dolluzcorp-2025-00002", Email: "vikram@dolluz.com", Role: string(employee.RoleManager)})
	require.NoError(t, err)
	refresh, _, err := svc.GenerateRefreshToken("dolluzcorp-2025-00002")
	require.NoError(t, err)

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+refresh)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bearer access token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+accessToken)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "dolluzcorp-2025-00002|Manager", w.Body.String())
	})

	t.Run("cookie access token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(svc.AccessTokenCookie(accessToken, time.Now().Add(time.Hour).Unix()))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown role", func(t *testing.T) {
		token, _, err := svc.GenerateAccessToken(jwt.Claims{EmpID: "dolluzcorp-2025-00002", Role: "Owner"})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequirePage(t *testing.T) {
	svc := newTestJWT(t)
	checker := pageChecker{
		employee.RoleAdmin:   {access.PageHoliday},
		employee.RoleManager: {access.PageLeaveApprovals},
	}
	router := protectedRouter(svc, RequirePage(checker, access.PageHoliday))

	for _, tc := range []struct {
		role employee.Role
		want int
	}{
		{employee.RoleAdmin, http.StatusOK},
		{employee.RoleManager, http.StatusForbidden},
		{employee.RoleUser, http.StatusForbidden},
	} {
		t.Run(string(tc.role), func(t *testing.T) {
			token, _, err := svc.GenerateAccessToken(jwt.Claims{EmpID: "dolluzcorp-2025-00001", Role: string(tc.role)})
			require.NoError(t, err)
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestRateLimit_PerIP(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 2)
	h := limiter.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:5000"))
	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:5001"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:5002"))
	assert.Equal(t, http.StatusNoContent, call("10.0.0.2:5000"))
}

func TestRateLimit_EvictsIdleVisitors(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow("10.0.0.1"))
	now = now.Add(time.Hour)
	assert.True(t, limiter.Allow("10.0.0.2"))

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.NotContains(t, limiter.visitors, "10.0.0.1")
	assert.Contains(t, limiter.visitors, "10.0.0.2")
}
