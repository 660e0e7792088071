package http

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/access"
	"github.com/dolluzcorp/dtime-backend-go/internal/handler/http/middleware"
	"github.com/dolluzcorp/dtime-backend-go/internal/handler/http/response"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type Handlers struct {
	Auth     AuthHandler
	Employee EmployeeHandler
	Punch    PunchHandler
	Holiday  HolidayHandler
	Leave    LeaveHandler
	Approval ApprovalHandler
	Project  ProjectHandler
	Event    EventHandler
}

type RouterOptions struct {
	AllowedOrigins []string
	// UploadDir is served read-only under /uploads. Empty disables it.
	UploadDir string
	// Login and OTP endpoints share one per-IP limiter.
	AuthRateLimit float64
	AuthBurst     int
	// Ready backs GET /api/v1/health. Nil reports healthy.
	Ready func(ctx context.Context) error
}

// NewLogger builds the JSON slog logger used for access logs and as the process default.
func NewLogger(app, version, env, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelInfo
	}
	logFormat := httplog.SchemaECS.Concise(false)
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       lvl,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", app),
		slog.String("version", version),
		slog.String("env", env),
	)
}

func NewRouter(logger *slog.Logger, JWTService jwt.Service, checker access.Checker, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if opts.UploadDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadDir))))
	}

	authLimiter := middleware.RateLimit(opts.AuthRateLimit, opts.AuthBurst)
	requirePage := func(page access.Page) func(http.Handler) http.Handler {
		return middleware.RequirePage(checker, page)
	}

	authenticated := func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired(JWTService.JWTAuth()))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			if opts.Ready != nil {
				if err := opts.Ready(r.Context()); err != nil {
					slog.Error("Health check failed", "error", err)
					response.ServiceUnavailable(w, "Service unavailable")
					return
				}
			}
			response.Success(w, map[string]string{"status": "ok"})
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
			r.Get("/oauth/callback/google", h.Auth.OAuthCallbackGoogle)
			r.Get("/login/google", h.Auth.LoginWithGoogle)

			r.Group(func(r chi.Router) {
				r.Use(authLimiter)
				r.Post("/login", h.Auth.Login)
				r.Post("/password/otp", h.Auth.SendOTP)
				r.Post("/password/otp/verify", h.Auth.VerifyOTP)
				r.Post("/password/reset", h.Auth.ResetPassword)
			})

			r.Group(func(r chi.Router) {
				authenticated(r)
				r.Get("/me", h.Auth.Me)
				r.Get("/access", h.Auth.AccessMatrix)
				r.Post("/password/verify", h.Auth.VerifyPassword)
				r.Post("/password/change", h.Auth.ChangePassword)
			})
		})

		r.Route("/leave", func(r chi.Router) {
			// EventSource cannot send headers, so the stream authenticates with its own token.
			r.Get("/events", h.Event.Stream)

			r.Group(func(r chi.Router) {
				authenticated(r)
				r.Get("/events/token", h.Event.StreamToken)

				r.Route("/types", func(r chi.Router) {
					r.Get("/", h.Leave.ListTypes)
					r.Group(func(r chi.Router) {
						r.Use(requirePage(access.PageLeaveAdmin))
						r.Post("/", h.Leave.CreateType)
						r.Put("/{id}", h.Leave.UpdateType)
						r.Delete("/{id}", h.Leave.DeleteType)
					})
				})

				r.Group(func(r chi.Router) {
					r.Use(requirePage(access.PageLeave))
					r.Get("/requests", h.Leave.MyRequests)
					r.Post("/requests", h.Leave.CreateRequest)
					r.Put("/requests/{id}", h.Leave.UpdateRequest)
					r.Post("/requests/{id}/cancel", h.Leave.CancelRequest)
					r.Delete("/requests/{id}", h.Leave.DeleteRequest)
					r.Get("/balance", h.Leave.Balance)
					r.Get("/history", h.Leave.History)
					r.Get("/totals", h.Leave.Totals)
					r.Get("/approver", h.Leave.Approver)
				})

				r.Route("/approvals", func(r chi.Router) {
					r.Use(requirePage(access.PageLeaveApprovals))
					r.Get("/", h.Approval.Queue)
					r.Get("/export", h.Approval.Export)
					r.Put("/{id}/status", h.Approval.UpdateStatus)
				})

				r.Route("/approval-chains", func(r chi.Router) {
					r.Use(requirePage(access.PageLeaveAdmin))
					r.Get("/", h.Approval.ListChains)
					r.Put("/{department_id}", h.Approval.SetChain)
					r.Delete("/{department_id}", h.Approval.DeleteChain)
				})
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			authenticated(r)

			r.Route("/employees", func(r chi.Router) {
				r.Use(requirePage(access.PageEmployee))
				r.Get("/", h.Employee.ListEmployees)
				r.Post("/", h.Employee.CreateEmployee)
				r.Get("/{emp_id}", h.Employee.GetEmployee)
				r.Put("/{emp_id}", h.Employee.UpdateEmployee)
				r.Delete("/{emp_id}", h.Employee.DeleteEmployee)
				r.Put("/{emp_id}/active", h.Employee.SetActive)
			})

			r.Route("/departments", func(r chi.Router) {
				r.Get("/", h.Employee.ListDepartments)
				r.Group(func(r chi.Router) {
					r.Use(requirePage(access.PageEmployee))
					r.Post("/", h.Employee.CreateDepartment)
					r.Put("/{id}", h.Employee.UpdateDepartment)
					r.Delete("/{id}", h.Employee.DeleteDepartment)
				})
			})

			r.Route("/access-levels", func(r chi.Router) {
				r.Use(requirePage(access.PageAccessControl))
				r.Get("/", h.Employee.ListAccessLevels)
				r.Put("/{id}", h.Employee.UpdateAccessLevel)
			})

			r.Route("/punch", func(r chi.Router) {
				r.Use(requirePage(access.PageTimesheet))
				r.Get("/history", h.Punch.History)
				r.Get("/status", h.Punch.Status)
				r.Post("/in", h.Punch.PunchIn)
				r.Post("/out", h.Punch.PunchOut)
			})

			r.Route("/holidays", func(r chi.Router) {
				r.Get("/", h.Holiday.List)
				r.Get("/calendar", h.Holiday.Calendar)
				r.Group(func(r chi.Router) {
					r.Use(requirePage(access.PageHoliday))
					r.Post("/", h.Holiday.Create)
					r.Put("/{id}", h.Holiday.Update)
					r.Delete("/{id}", h.Holiday.Delete)
				})
			})

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", h.Project.List)
				r.Get("/{project_id}/tasks", h.Project.ListTasks)
				r.Group(func(r chi.Router) {
					r.Use(requirePage(access.PageConfiguration))
					r.Post("/", h.Project.Create)
					r.Put("/{project_id}", h.Project.Update)
					r.Delete("/{project_id}", h.Project.Delete)
					r.Post("/{project_id}/tasks", h.Project.CreateTask)
					r.Put("/{project_id}/tasks/{task_id}", h.Project.UpdateTask)
					r.Delete("/{project_id}/tasks/{task_id}", h.Project.DeleteTask)
				})
			})
		})
	})
	return r
}
