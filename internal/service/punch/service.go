package punch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/punch"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/database"
)

type PunchServiceImpl struct {
	db      database.Transactor
	punches punch.PunchRepository
	now     func() time.Time
}

var _ punch.PunchService = (*PunchServiceImpl)(nil)

func NewPunchService(db database.Transactor, punchRepo punch.PunchRepository) *PunchServiceImpl {
	return &PunchServiceImpl{db: db, punches: punchRepo, now: time.Now}
}

// History implements punch.PunchService. Newest first.
func (s *PunchServiceImpl) History(ctx context.Context, req punch.HistoryRequest) ([]punch.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	records, err := s.punches.ListByEmployee(ctx, req.EmpID, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list punch history: %w", err)
	}

	now := s.now()
	responses := make([]punch.RecordResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, punch.NewRecordResponse(r, now))
	}
	return responses, nil
}

// Status implements punch.PunchService.
func (s *PunchServiceImpl) Status(ctx context.Context, empID string) (punch.StatusResponse, error) {
	open, err := s.punches.GetOpen(ctx, empID)
	if errors.Is(err, punch.ErrPunchNotFound) {
		return punch.StatusResponse{}, nil
	}
	if err != nil {
		return punch.StatusResponse{}, err
	}
	resp := punch.NewRecordResponse(open, s.now())
	return punch.StatusResponse{PunchedIn: true, Open: &resp}, nil
}

// PunchIn implements punch.PunchService.
func (s *PunchServiceImpl) PunchIn(ctx context.Context, empID string) (punch.RecordResponse, error) {
	at := s.now()
	var created punch.Record
	err := s.db.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.punches.LockEmployee(ctx, empID); err != nil {
			return fmt.Errorf("failed to lock punch record: %w", err)
		}

		_, err := s.punches.GetOpen(ctx, empID)
		if err == nil {
			return punch.ErrAlreadyPunchedIn
		}
		if !errors.Is(err, punch.ErrPunchNotFound) {
			return err
		}

		created, err = s.punches.Create(ctx, empID, at)
		return err
	})
	if err != nil {
		return punch.RecordResponse{}, err
	}
	return punch.NewRecordResponse(created, at), nil
}

// PunchOut implements punch.PunchService. Only the newest open record is closed.
func (s *PunchServiceImpl) PunchOut(ctx context.Context, empID string) (punch.RecordResponse, error) {
	at := s.now()
	var closed punch.Record
	err := s.db.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.punches.LockEmployee(ctx, empID); err != nil {
			return fmt.Errorf("failed to lock punch record: %w", err)
		}
		var err error
		closed, err = s.punches.CloseLatestOpen(ctx, empID, at)
		return err
	})
	if err != nil {
		return punch.RecordResponse{}, err
	}
	return punch.NewRecordResponse(closed, at), nil
}
