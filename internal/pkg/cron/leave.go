package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/leave"
)

const LeaveEscalationJob = "leave_escalation"

type LeaveJobs struct {
	escalator     leave.Escalator
	at            TimeOfDay
	loc           *time.Location
	checkInterval time.Duration
}

func NewLeaveJobs(escalator leave.Escalator, at TimeOfDay, loc *time.Location, checkInterval time.Duration) *LeaveJobs {
	if loc == nil {
		loc = time.UTC
	}
	if checkInterval <= 0 {
		checkInterval = time.Minute
	}
	return &LeaveJobs{escalator: escalator, at: at, loc: loc, checkInterval: checkInterval}
}

func (j *LeaveJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddDailyJob(LeaveEscalationJob, j.at, j.loc, j.checkInterval, j.EscalatePendingRequests)
}

// EscalatePendingRequests runs one escalation pass. Per-request failures are counted in the
// report, so only a failure to load the pending requests is returned.
func (j *LeaveJobs) EscalatePendingRequests(ctx context.Context, now time.Time) error {
	slog.Info("Cron: Starting leave escalation", "at", now.Format(time.RFC3339))

	report, err := j.escalator.Run(ctx, now)
	if err != nil {
		slog.Error("Cron: Leave escalation failed", "error", err)
		return err
	}

	slog.Info("Cron: Leave escalation completed",
		"scanned", report.Scanned,
		"notified_level_2", report.NotifiedL2,
		"notified_level_3", report.NotifiedL3,
		"auto_approved", report.AutoApproved,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)
	return nil
}
