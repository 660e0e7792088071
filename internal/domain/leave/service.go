package leave

import (
	"context"
	"io"
	"time"
)

type LeaveService interface {
	ListTypes(ctx context.Context) ([]LeaveTypeResponse, error)
	CreateType(ctx context.Context, req SaveLeaveTypeRequest) (LeaveTypeResponse, error)
	UpdateType(ctx context.Context, req SaveLeaveTypeRequest) (LeaveTypeResponse, error)
	DeleteType(ctx context.Context, id int64, actor string) error

	MyRequests(ctx context.Context, empID string) ([]LeaveRequestResponse, error)
	CreateRequest(ctx context.Context, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	UpdateRequest(ctx context.Context, req UpdateLeaveRequestRequest) (LeaveRequestResponse, error)
	CancelRequest(ctx context.Context, id int64, actor Actor) error
	DeleteRequest(ctx context.Context, id int64, actor Actor) error

	Balance(ctx context.Context, empID string) ([]BalanceResponse, error)
	History(ctx context.Context, empID string) ([]HistoryResponse, error)
	Totals(ctx context.Context, empID string) ([]TotalResponse, error)
	Approver(ctx context.Context, empID string) (ApproverResponse, error)
}

type ApprovalService interface {
	Queue(ctx context.Context, approverID string) ([]QueueItemResponse, error)
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) error
	ExportQueue(ctx context.Context, approverID string, w io.Writer) error

	ListChains(ctx context.Context) ([]ApprovalChainResponse, error)
	SetChain(ctx context.Context, req SetApprovalChainRequest) (ApprovalChainResponse, error)
	DeleteChain(ctx context.Context, departmentID int64) error
}

// Escalator runs the daily escalation pass over pending requests.
type Escalator interface {
	Run(ctx context.Context, now time.Time) (EscalationReport, error)
}

type EscalationReport struct {
	Scanned      int `json:"scanned"`
	NotifiedL2   int `json:"notified_level_2"`
	NotifiedL3   int `json:"notified_level_3"`
	AutoApproved int `json:"auto_approved"`
	Skipped      int `json:"skipped"`
	Failed       int `json:"failed"`
}
