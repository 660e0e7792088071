package events

import (
	"context"
	"errors"
	"time"
)

const (
	LeaveRequestCreated = "leave.request.created"
	LeaveRequestUpdated = "leave.request.updated"
	LeaveStatusChanged  = "leave.request.status_changed"
	LeaveEscalated      = "leave.request.escalated"
	LeaveAutoApproved   = "leave.request.auto_approved"
)

// LeaveEvent describes a change in the leave workflow.
type LeaveEvent struct {
	Type       string    `json:"event_type"`
	RequestID  int64     `json:"leave_requests_id"`
	EmpID      string    `json:"emp_id"`
	Status     string    `json:"leave_status"`
	Level      int       `json:"level,omitempty"`
	Actor      string    `json:"actor,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	// Recipients are the employees whose live streams receive the event.
	Recipients []string `json:"-"`
}

type Publisher interface {
	Publish(ctx context.Context, event LeaveEvent) error
}

type noopPublisher struct{}

func NewNoopPublisher() Publisher { return noopPublisher{} }

func (noopPublisher) Publish(context.Context, LeaveEvent) error { return nil }

type multiPublisher []Publisher

// NewMultiPublisher publishes to every non-nil publisher and joins their errors.
func NewMultiPublisher(publishers ...Publisher) Publisher {
	var m multiPublisher
	for _, p := range publishers {
		if p != nil {
			m = append(m, p)
		}
	}
	return m
}

func (m multiPublisher) Publish(ctx context.Context, event LeaveEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
