// Command escalate runs one leave escalation pass and prints the report.
// It is meant for backfills and for operators checking what the daily job would do.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/config"
	leaveDomain "github.com/dolluzcorp/dtime-backend-go/internal/domain/leave"
	appHTTP "github.com/dolluzcorp/dtime-backend-go/internal/handler/http"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/database"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/email"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/events"
	"github.com/dolluzcorp/dtime-backend-go/internal/repository/postgresql"
	"github.com/dolluzcorp/dtime-backend-go/internal/service/leave"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		dryRun  bool
		nowFlag string
	)
	flagSet := pflag.NewFlagSet("escalate", pflag.ContinueOnError)
	flagSet.BoolVar(&dryRun, "dry-run", false, "compute the report without writing or sending anything")
	flagSet.StringVar(&nowFlag, "now", "", "evaluate as of this time (RFC 3339 or YYYY-MM-DD, default: current time)")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.SetDefault(appHTTP.NewLogger(cfg.App.Name+"-escalate", cfg.App.Version, cfg.App.Env, cfg.App.LogLevel))
	loc := cfg.Location()

	now, err := parseNow(nowFlag, loc, time.Now())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbs, err := database.NewManager(ctx,
		database.Source{Name: database.AdminDB, DSN: cfg.DatabaseURL(), PoolOptions: database.PoolOptions{Schema: cfg.Database.AdminSchema, MaxConns: 2}},
		database.Source{Name: database.TimesheetDB, DSN: cfg.DatabaseURL(), PoolOptions: database.PoolOptions{Schema: cfg.Database.TimesheetSchema, MaxConns: 4}},
	)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer dbs.Close()

	adminDB := dbs.MustGet(database.AdminDB)
	timesheetDB := dbs.MustGet(database.TimesheetDB)
	employeeRepo := postgresql.NewEmployeeRepository(adminDB)

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		return fmt.Errorf("init email: %w", err)
	}

	// No browser is connected to this process, so events only go to Kafka.
	publisher := events.NewNoopPublisher()
	if len(cfg.Kafka.Brokers) > 0 {
		writer := events.NewKafkaWriter(cfg.Kafka.Brokers)
		defer writer.Close()
		publisher = events.NewKafkaPublisher(writer, cfg.Kafka.Topic)
	}

	escalator := leave.NewEscalator(
		postgresql.NewLeaveRequestRepository(timesheetDB, cfg.Database.AdminSchema),
		postgresql.NewApprovalRepository(timesheetDB, cfg.Database.AdminSchema),
		postgresql.NewEscalationRepository(timesheetDB),
		employeeRepo,
		leave.NewNotifier(emailService, publisher, employeeRepo, cfg.App.FrontendURL),
		loc,
		leave.EscalationOptions{
			SystemActor: cfg.Escalation.SystemActor,
			Reason:      cfg.Escalation.Reason,
			DryRun:      dryRun,
		},
	)

	report, err := escalator.Run(ctx, now)
	if err != nil {
		return err
	}

	return writeReport(os.Stdout, now, dryRun, report)
}

func writeReport(w io.Writer, at time.Time, dryRun bool, report leaveDomain.EscalationReport) error {
	out := struct {
		At     time.Time                    `json:"at"`
		DryRun bool                         `json:"dry_run"`
		Report leaveDomain.EscalationReport `json:"report"`
	}{At: at, DryRun: dryRun, Report: report}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// parseNow accepts a full timestamp or a bare date, which is read as midnight in loc.
func parseNow(value string, loc *time.Location, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback.In(loc), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(loc), nil
	}
	t, err := time.ParseInLocation(time.DateOnly, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now %q: want RFC 3339 or YYYY-MM-DD", value)
	}
	return t, nil
}
