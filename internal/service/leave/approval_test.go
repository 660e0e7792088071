package leave

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/access"
	"github.com/dolluzcorp/dtime-backend-go/internal/domain/employee"
	"github.com/dolluzcorp/dtime-backend-go/internal/domain/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var approvalNow = time.Date(2025, 3, 20, 10, 0, 0, 0, time.UTC)

func newApprovalService(f *fixture) *ApprovalServiceImpl {
	adminOnly := checkerFunc(func(role employee.Role, page access.Page) bool {
		return role == employee.RoleAdmin && page == access.PageLeaveAdmin
	})
	svc := NewApprovalService(f.requests, f.approvals, f.employees, adminOnly, f.holidays, f.notifier, time.UTC)
	svc.now = func() time.Time { return approvalNow }
	return svc
}

// pendingAged stores a pending request submitted the given number of days before approvalNow.
func pendingAged(f *fixture, days int) leave.LeaveRequest {
	return f.requests.put(leave.LeaveRequest{
		EmpID: empAsha, LeaveTypeID: 1, Status: leave.StatusPending,
		StartDate: day(4, 1), StartBreakdown: leave.BreakdownFull,
		EndDate: day(4, 2), EndBreakdown: leave.BreakdownFull,
		CreatedTime: approvalNow.AddDate(0, 0, -days).Add(-time.Hour),
	})
}

func queueIDs(t *testing.T, svc *ApprovalServiceImpl, approverID string) []int64 {
	t.Helper()
	items, err := svc.Queue(context.Background(), approverID)
	require.NoError(t, err)
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}

func TestApprovalService_QueueRoutingByAge(t *testing.T) {
	tests := []struct {
		days     int
		expected string
	}{
		{0, approver1},
		{2, approver1},
		{3, approver2},
		{4, approver2},
		{5, approver3},
		{6, ""},
		{12, ""},
	}

	for _, tt := range tests {
		f := newFixture()
		svc := newApprovalService(f)
		r := pendingAged(f, tt.days)

		for _, approver := range []string{approver1, approver2, approver3} {
			ids := queueIDs(t, svc, approver)
			if approver == tt.expected {
				assert.Equal(t, []int64{r.ID}, ids, "day %d should be visible to %s", tt.days, approver)
			} else {
				assert.Empty(t, ids, "day %d should not be visible to %s", tt.days, approver)
			}
		}
	}
}

func TestApprovalService_QueueItem(t *testing.T) {
	f := newFixture()
	f.holidays.holidays = nil
	svc := newApprovalService(f)
	r := pendingAged(f, 3)
	f.requests.put(leave.LeaveRequest{EmpID: empAsha, LeaveTypeID: 1, Status: leave.StatusCanceled, StartDate: day(4, 1), EndDate: day(4, 1), CreatedTime: approvalNow.AddDate(0, 0, -3)})

	items, err := svc.Queue(context.Background(), approver2)
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, r.ID, item.ID)
	assert.Equal(t, "Asha Raman", item.EmployeeName)
	require.NotNil(t, item.DepartmentName)
	assert.Equal(t, "Engineering", *item.DepartmentName)
	assert.Equal(t, 3, item.DaysPending)
	assert.Equal(t, leave.Level2, item.VisibleTo)
	assert.Equal(t, 2.0, item.RequestedDays)
}

func TestApprovalService_UpdateStatus(t *testing.T) {
	t.Run("only the approver the request is shown to can decide", func(t *testing.T) {
		f := newFixture()
		svc := newApprovalService(f)
		r := pendingAged(f, 3)

		err := svc.UpdateStatus(context.Background(), leave.UpdateStatusRequest{ID: r.ID, Status: leave.StatusApproved, Actor: leave.Actor{EmpID: approver1, Role: employee.RoleManager}})
		assert.ErrorIs(t, err, leave.ErrNotCurrentApprover)

		err = svc.UpdateStatus(context.Background(), leave.UpdateStatusRequest{ID: r.ID, Status: leave.StatusApproved, Actor: leave.Actor{EmpID: approver2, Role: employee.RoleManager}})
		require.NoError(t, err)

		stored, _ := f.requests.GetByID(context.Background(), r.ID)
		assert.Equal(t, leave.StatusApproved, stored.Status)
		require.NotNil(t, stored.StatusUpdatedBy)
		assert.Equal(t, approver2, *stored.StatusUpdatedBy)
		assert.Equal(t, []string{"status_updated:asha@dolluzcorp.in"}, f.mail.kinds())
	})

	t.Run("decided requests cannot change again", func(t *testing.T) {
		f := newFixture()
		svc := newApprovalService(f)
		r := pendingAged(f, 1)

		reason := "project deadline"
		require.NoError(t, svc.UpdateStatus(context.Background(), leave.UpdateStatusRequest{ID: r.ID, Status: leave.StatusRejected, Reason: &reason, Actor: leave.Actor{EmpID: approver1}}))

		err := svc.UpdateStatus(context.Background(), leave.UpdateStatusRequest{ID: r.ID, Status: leave.StatusApproved, Actor: leave.Actor{EmpID: approver1}})
		assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)

		stored, _ := f.requests.GetByID(context.Background(), r.ID)
		assert.Equal(t, leave.StatusRejected, stored.Status)
		require.NotNil(t, stored.StatusUpdatedReason)
		assert.Equal(t, reason, *stored.StatusUpdatedReason)
	})

	t.Run("rejection needs a reason", func(t *testing.T) {
		f := newFixture()
		svc := newApprovalService(f)
		r := pendingAged(f, 1)

		err := svc.UpdateStatus(context.Background(), leave.UpdateStatusRequest{ID: r.ID, Status: leave.StatusRejected, Actor: leave.Actor{EmpID: approver1}})
		assert.Error(t, err)
	})

	t.Run("leave admin decides at any age", func(t *testing.T) {
		f := newFixture()
		svc := newApprovalService(f)
		r := pendingAged(f, 9)

		err := svc.UpdateStatus(context.Background(), leave.UpdateStatusRequest{ID: r.ID, Status: leave.StatusApproved, Actor: leave.Actor{EmpID: leaveBoss, Role: employee.RoleAdmin}})
		require.NoError(t, err)
	})

	t.Run("expired requests have no current approver", func(t *testing.T) {
		f := newFixture()
		svc := newApprovalService(f)
		r := pendingAged(f, 9)

		err := svc.UpdateStatus(context.Background(), leave.UpdateStatusRequest{ID: r.ID, Status: leave.StatusApproved, Actor: leave.Actor{EmpID: approver3, Role: employee.RoleSubAdmin}})
		assert.ErrorIs(t, err, leave.ErrNotCurrentApprover)
	})
}

func TestApprovalService_ExportQueue(t *testing.T) {
	f := newFixture()
	svc := newApprovalService(f)
	r := pendingAged(f, 1)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportQueue(context.Background(), approver1, &buf))

	book, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows(queueSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, queueHeaders, rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, r.EmpID, rows[1][1])
	assert.Equal(t, "Asha Raman", rows[1][2])
	assert.Equal(t, "Engineering", rows[1][3])
	assert.Equal(t, "2025-04-01", rows[1][5])
}

func TestApprovalService_Chains(t *testing.T) {
	f := newFixture()
	svc := newApprovalService(f)
	ctx := context.Background()

	_, err := svc.SetChain(ctx, leave.SetApprovalChainRequest{DepartmentID: 7, Level1: strPtr("dolluzcorp-2025-09999")})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = svc.SetChain(ctx, leave.SetApprovalChainRequest{DepartmentID: 7, Level1: strPtr(approver1), Level2: strPtr(approver1)})
	assert.Error(t, err)

	saved, err := svc.SetChain(ctx, leave.SetApprovalChainRequest{DepartmentID: 7, Level1: strPtr(approver2), Level3: strPtr(" "), Actor: leaveBoss})
	require.NoError(t, err)
	assert.Equal(t, approver2, *saved.Level1)
	assert.Nil(t, saved.Level3)

	chains, err := svc.ListChains(ctx)
	require.NoError(t, err)
	require.Len(t, chains, 2)
	assert.Equal(t, int64(4), chains[0].DepartmentID)

	require.NoError(t, svc.DeleteChain(ctx, 7))
	assert.ErrorIs(t, svc.DeleteChain(ctx, 7), leave.ErrApprovalChainNotFound)
}
