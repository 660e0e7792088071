package punch

import "context"

type PunchService interface {
	History(ctx context.Context, req HistoryRequest) ([]RecordResponse, error)
	Status(ctx context.Context, empID string) (StatusResponse, error)
	PunchIn(ctx context.Context, empID string) (RecordResponse, error)
	PunchOut(ctx context.Context, empID string) (RecordResponse, error)
}
