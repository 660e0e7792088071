package punch

import (
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/validator"
)

const (
	DefaultHistoryLimit = 100
	MaxHistoryLimit     = 500
)

type HistoryRequest struct {
	EmpID string
	Limit int
}

func (r *HistoryRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.EmpID) {
		errs.Add("emp_id", "emp_id is required")
	}
	if r.Limit < 0 || r.Limit > MaxHistoryLimit {
		errs.Add("limit", "limit must be between 1 and 500")
	}
	if r.Limit == 0 {
		r.Limit = DefaultHistoryLimit
	}
	return errs.Err()
}

type RecordResponse struct {
	ID            int64      `json:"auto_id"`
	EmpID         string     `json:"emp_id"`
	PunchIn       time.Time  `json:"punch_in"`
	PunchOut      *time.Time `json:"punch_out"`
	WorkedMinutes int64      `json:"worked_minutes"`
}

func NewRecordResponse(r Record, now time.Time) RecordResponse {
	return RecordResponse{
		ID:            r.ID,
		EmpID:         r.EmpID,
		PunchIn:       r.PunchIn,
		PunchOut:      r.PunchOut,
		WorkedMinutes: int64(r.Worked(now) / time.Minute),
	}
}

type StatusResponse struct {
	PunchedIn bool            `json:"punched_in"`
	Open      *RecordResponse `json:"open,omitempty"`
}
