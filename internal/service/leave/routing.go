package leave

import (
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/leave"
)

// DaysPending is the number of calendar days between created and now in loc.
func DaysPending(created, now time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	cy, cm, cd := created.In(loc).Date()
	ny, nm, nd := now.In(loc).Date()
	from := time.Date(cy, cm, cd, 0, 0, 0, 0, time.UTC)
	to := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	days := int(to.Sub(from).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// VisibleLevel returns the approver level a request is shown to after days.
// From day 6 nobody sees it until the escalation job approves it.
func VisibleLevel(days int) (leave.Level, bool) {
	switch {
	case days <= 2:
		return leave.Level1, true
	case days <= 4:
		return leave.Level2, true
	case days == 5:
		return leave.Level3, true
	}
	return 0, false
}

type escalationStep int

const (
	stepNone escalationStep = iota
	stepNotifyLevel2
	stepNotifyLevel3
	stepAutoApprove
)

func nextEscalation(days int) escalationStep {
	switch {
	case days == 2:
		return stepNotifyLevel2
	case days == 4:
		return stepNotifyLevel3
	case days >= 5:
		return stepAutoApprove
	}
	return stepNone
}
