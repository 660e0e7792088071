package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/config"
	"github.com/dolluzcorp/dtime-backend-go/internal/domain/auth"
	appHTTP "github.com/dolluzcorp/dtime-backend-go/internal/handler/http"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/cache"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/cron"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/database"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/email"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/events"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/jwt"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/oauth"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/sse"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/storage"
	"github.com/dolluzcorp/dtime-backend-go/internal/repository/postgresql"
	accessService "github.com/dolluzcorp/dtime-backend-go/internal/service/access"
	serviceAuth "github.com/dolluzcorp/dtime-backend-go/internal/service/auth"
	employeeService "github.com/dolluzcorp/dtime-backend-go/internal/service/employee"
	"github.com/dolluzcorp/dtime-backend-go/internal/service/file"
	holidayService "github.com/dolluzcorp/dtime-backend-go/internal/service/holiday"
	"github.com/dolluzcorp/dtime-backend-go/internal/service/leave"
	projectService "github.com/dolluzcorp/dtime-backend-go/internal/service/project"
	punchService "github.com/dolluzcorp/dtime-backend-go/internal/service/punch"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := appHTTP.NewLogger(cfg.App.Name, cfg.App.Version, cfg.App.Env, cfg.App.LogLevel)
	slog.SetDefault(logger)

	loc := cfg.Location()

	ctx := context.Background()
	dbs, err := database.NewManager(ctx,
		database.Source{Name: database.AdminDB, DSN: cfg.DatabaseURL(), PoolOptions: database.PoolOptions{
			Schema: cfg.Database.AdminSchema, MaxConns: cfg.Database.MaxConns, MinConns: cfg.Database.MinConns,
		}},
		database.Source{Name: database.TimesheetDB, DSN: cfg.DatabaseURL(), PoolOptions: database.PoolOptions{
			Schema: cfg.Database.TimesheetSchema, MaxConns: cfg.Database.MaxConns, MinConns: cfg.Database.MinConns,
		}},
	)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer dbs.Close()

	adminDB := dbs.MustGet(database.AdminDB)
	timesheetDB := dbs.MustGet(database.TimesheetDB)
	adminTx := postgresql.NewTransactor(adminDB)
	timesheetTx := postgresql.NewTransactor(timesheetDB)

	employeeRepo := postgresql.NewEmployeeRepository(adminDB)
	departmentRepo := postgresql.NewDepartmentRepository(adminDB)
	accessLevelRepo := postgresql.NewAccessLevelRepository(adminDB)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(adminDB)
	punchRepo := postgresql.NewPunchRepository(timesheetDB)
	holidayRepo := postgresql.NewHolidayRepository(timesheetDB)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(timesheetDB)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(timesheetDB, cfg.Database.AdminSchema)
	approvalRepo := postgresql.NewApprovalRepository(timesheetDB, cfg.Database.AdminSchema)
	escalationRepo := postgresql.NewEscalationRepository(timesheetDB)
	projectRepo := postgresql.NewProjectRepository(timesheetDB)
	taskRepo := postgresql.NewTaskRepository(timesheetDB)

	// Redis is optional: without it OTPs and cron bookkeeping stay in process.
	var (
		otpStore auth.OTPStore = cache.NewMemoryOTPStore()
		guard    cron.Guard    = cron.NewMemoryGuard()
	)
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		otpStore = cache.NewOTPStore(rdb)
		guard = cron.NewRedisGuard(rdb)
		slog.Info("Redis connected", "addr", cfg.Redis.Addr)
	}

	hub := sse.NewHub()
	publisher := events.NewHubPublisher(hub)
	if len(cfg.Kafka.Brokers) > 0 {
		writer := events.NewKafkaWriter(cfg.Kafka.Brokers)
		defer writer.Close()
		publisher = events.NewMultiPublisher(publisher, events.NewKafkaPublisher(writer, cfg.Kafka.Topic))
		slog.Info("Kafka publisher enabled", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cfg.App.Env == "production")
	if err != nil {
		return fmt.Errorf("init jwt: %w", err)
	}

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			return fmt.Errorf("init local storage: %w", err)
		}
	default:
		return fmt.Errorf("unsupported storage type %q", cfg.Storage.Type)
	}
	fileService := file.NewFileService(fileStorage)

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		return fmt.Errorf("init email: %w", err)
	}

	accessSvc, err := accessService.NewAccessService(ctx, accessLevelRepo)
	if err != nil {
		return fmt.Errorf("load access levels: %w", err)
	}
	authSvc := serviceAuth.NewAuthService(adminTx, employeeRepo, refreshTokenRepo, JWTService, otpStore, emailService, cfg.OTP)
	employeeSvc := employeeService.NewEmployeeService(adminTx, employeeRepo, departmentRepo, cfg.Employee.IDPrefix)
	holidaySvc := holidayService.NewHolidayService(holidayRepo, employeeRepo)
	punchSvc := punchService.NewPunchService(timesheetTx, punchRepo)
	projectSvc := projectService.NewProjectService(timesheetTx, projectRepo, taskRepo)

	notifier := leave.NewNotifier(emailService, publisher, employeeRepo, cfg.App.FrontendURL)
	leaveSvc := leave.NewLeaveService(timesheetTx, leaveTypeRepo, leaveRequestRepo, approvalRepo, employeeRepo, holidaySvc, fileService, notifier)
	approvalSvc := leave.NewApprovalService(leaveRequestRepo, approvalRepo, employeeRepo, accessSvc, holidaySvc, notifier, loc)

	var googleService oauth.GoogleService
	if cfg.OAuth2Google.Enabled() {
		googleService = oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	}

	scheduler := cron.NewScheduler(guard)
	if cfg.Escalation.Enabled {
		escalator := leave.NewEscalator(leaveRequestRepo, approvalRepo, escalationRepo, employeeRepo, notifier, loc, leave.EscalationOptions{
			SystemActor: cfg.Escalation.SystemActor,
			Reason:      cfg.Escalation.Reason,
		})
		cron.NewLeaveJobs(escalator, cron.TimeOfDay{Hour: cfg.Escalation.RunHour, Minute: cfg.Escalation.RunMinute}, loc, cfg.Escalation.CheckInterval).
			RegisterJobs(scheduler)
	}
	scheduler.Start()
	defer scheduler.Stop()

	handlers := appHTTP.Handlers{
		Auth:     appHTTP.NewAuthHandler(JWTService, authSvc, accessSvc, googleService, cfg.App.FrontendURL, cfg.App.Env == "production"),
		Employee: appHTTP.NewEmployeeHandler(employeeSvc, accessSvc),
		Punch:    appHTTP.NewPunchHandler(punchSvc, accessSvc),
		Holiday:  appHTTP.NewHolidayHandler(holidaySvc, loc),
		Leave:    appHTTP.NewLeaveHandler(leaveSvc),
		Approval: appHTTP.NewApprovalHandler(approvalSvc),
		Project:  appHTTP.NewProjectHandler(projectSvc),
		Event:    appHTTP.NewEventHandler(JWTService, hub),
	}

	uploadDir := ""
	if cfg.Storage.Type == "local" {
		uploadDir = cfg.Storage.BasePath
	}
	router := appHTTP.NewRouter(logger, JWTService, accessSvc, handlers, appHTTP.RouterOptions{
		AllowedOrigins: cfg.App.AllowedOrigins,
		UploadDir:      uploadDir,
		AuthRateLimit:  cfg.RateLimit.RequestsPerSecond,
		AuthBurst:      cfg.RateLimit.Burst,
		Ready:          dbs.Ping,
	})

	// Canceling baseCtx ends open event streams, which never go idle on their own.
	baseCtx, cancelRequests := context.WithCancel(context.Background())
	defer cancelRequests()
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return err
	case sig := <-stop:
		slog.Info("Shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	srv.RegisterOnShutdown(cancelRequests)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
