package leave

import (
	"bytes"
	"context"
	"mime/multipart"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/holiday"
	"github.com/dolluzcorp/dtime-backend-go/internal/domain/leave"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/events"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/storage"
	"github.com/dolluzcorp/dtime-backend-go/internal/service/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLeaveService(t *testing.T, f *fixture) (*LeaveServiceImpl, *storage.LocalStorage) {
	t.Helper()
	local, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:4003/uploads")
	require.NoError(t, err)

	svc := NewLeaveService(f.tx, f.types, f.requests, f.approvals, f.employees, f.holidays, file.NewFileService(local), f.notifier)
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC) }
	return svc, local
}

func createInput(typeID int64, start, end string) leave.LeaveRequestInput {
	return leave.LeaveRequestInput{LeaveTypeID: typeID, StartDate: start, EndDate: end}
}

func withFile(in leave.LeaveRequestInput, name, content string) leave.LeaveRequestInput {
	in.File = memFile{bytes.NewReader([]byte(content))}
	in.FileHeader = &multipart.FileHeader{Filename: name, Size: int64(len(content))}
	return in
}

func TestLeaveService_Balance_HolidayInsideRequest(t *testing.T) {
	f := newFixture()
	f.holidays.holidays = []holiday.Holiday{{Name: "Ugadi", StartDate: day(3, 11), EndDate: day(3, 11), Scope: holiday.ScopeGeneral}}
	f.requests.put(leave.LeaveRequest{
		EmpID: empAsha, LeaveTypeID: 1, Status: leave.StatusApproved,
		StartDate: day(3, 10), StartBreakdown: leave.BreakdownFull,
		EndDate: day(3, 12), EndBreakdown: leave.BreakdownFull,
	})
	svc, _ := newLeaveService(t, f)

	balances, err := svc.Balance(context.Background(), empAsha)
	require.NoError(t, err)
	require.Len(t, balances, 2)

	assert.Equal(t, "Casual Leave", balances[0].LeaveType)
	assert.Equal(t, 12.0, balances[0].MaxLeave)
	assert.Equal(t, 2.0, balances[0].UsedLeave)
	assert.Equal(t, 10.0, balances[0].BalanceLeave)
	assert.Equal(t, 6.0, balances[1].BalanceLeave)
}

func TestLeaveService_Balance_IgnoresCanceled(t *testing.T) {
	f := newFixture()
	f.requests.put(leave.LeaveRequest{EmpID: empAsha, LeaveTypeID: 1, Status: leave.StatusCanceled, StartDate: day(3, 10), EndDate: day(3, 12)})
	f.requests.put(leave.LeaveRequest{EmpID: empAsha, LeaveTypeID: 1, Status: leave.StatusRejected, StartDate: day(4, 1), EndDate: day(4, 1)})
	svc, _ := newLeaveService(t, f)

	balances, err := svc.Balance(context.Background(), empAsha)
	require.NoError(t, err)
	assert.Equal(t, 1.0, balances[0].UsedLeave, "rejected requests still count, canceled ones do not")
	assert.Equal(t, 11.0, balances[0].BalanceLeave)
}

func TestLeaveService_Balance_CountsEveryYear(t *testing.T) {
	f := newFixture()
	f.holidays.holidays = nil
	f.requests.put(leave.LeaveRequest{EmpID: empAsha, LeaveTypeID: 1, Status: leave.StatusApproved,
		StartDate: time.Date(2024, 12, 27, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)})
	f.requests.put(leave.LeaveRequest{EmpID: empAsha, LeaveTypeID: 1, Status: leave.StatusPending,
		StartDate: time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)})
	svc, _ := newLeaveService(t, f)

	balances, err := svc.Balance(context.Background(), empAsha)
	require.NoError(t, err)
	assert.Equal(t, 7.0, balances[0].UsedLeave)
	assert.Equal(t, 5.0, balances[0].BalanceLeave)
}

func TestLeaveService_CreateRequest(t *testing.T) {
	f := newFixture()
	svc, local := newLeaveService(t, f)

	in := withFile(createInput(1, "2025-03-10", "2025-03-11"), "scan.pdf", "%PDF")
	in.EndBreakdown = leave.BreakdownFirstHalf
	resp, err := svc.CreateRequest(context.Background(), leave.CreateLeaveRequestRequest{EmpID: empAsha, LeaveRequestInput: in})
	require.NoError(t, err)

	assert.Equal(t, leave.StatusPending, resp.Status)
	assert.Equal(t, 1.5, resp.RequestedDays)
	assert.Equal(t, "Casual Leave", resp.LeaveType)
	require.NotNil(t, resp.Attachment)
	assert.True(t, strings.HasPrefix(*resp.Attachment, "leave_attachments/"+empAsha+"-"))
	require.NotNil(t, resp.AttachmentURL)

	exists, err := local.Exists(context.Background(), *resp.Attachment)
	require.NoError(t, err)
	assert.True(t, exists)

	assert.Equal(t, 1, f.tx.calls)
	assert.Equal(t, []string{empAsha}, f.requests.locks)
	assert.Equal(t, []string{"submitted:vikram@dolluzcorp.in"}, f.mail.kinds())
	require.Len(t, f.published.events, 1)
	assert.Equal(t, events.LeaveRequestCreated, f.published.events[0].Type)
	assert.Equal(t, []string{approver1}, f.published.events[0].Recipients)
}

func TestLeaveService_CreateRequest_NoApprovalChain(t *testing.T) {
	f := newFixture()
	delete(f.approvals.chains, 4)
	svc, _ := newLeaveService(t, f)

	_, err := svc.CreateRequest(context.Background(), leave.CreateLeaveRequestRequest{EmpID: empAsha, LeaveRequestInput: createInput(1, "2025-03-10", "2025-03-10")})
	require.NoError(t, err)
	assert.Equal(t, []string{"not_configured:admin"}, f.mail.kinds())
}

func TestLeaveService_CreateRequest_InsufficientBalance(t *testing.T) {
	f := newFixture()
	f.requests.put(leave.LeaveRequest{EmpID: empAsha, LeaveTypeID: 2, Status: leave.StatusApproved, StartDate: day(2, 3), EndDate: day(2, 7)})
	svc, local := newLeaveService(t, f)

	in := withFile(createInput(2, "2025-03-10", "2025-03-11"), "note.png", "png")
	_, err := svc.CreateRequest(context.Background(), leave.CreateLeaveRequestRequest{EmpID: empAsha, LeaveRequestInput: in})
	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)

	requests, _ := f.requests.ListByEmployee(context.Background(), empAsha)
	assert.Len(t, requests, 1)
	assert.Empty(t, f.mail.kinds())

	matches, err := filepath.Glob(filepath.Join(local.BasePath(), "leave_attachments", "*"))
	require.NoError(t, err)
	assert.Empty(t, matches, "uploaded file is removed when the request is rejected")
}

func TestLeaveService_CreateRequest_Validation(t *testing.T) {
	f := newFixture()
	svc, _ := newLeaveService(t, f)

	_, err := svc.CreateRequest(context.Background(), leave.CreateLeaveRequestRequest{EmpID: empAsha, LeaveRequestInput: createInput(1, "2025-03-12", "2025-03-10")})
	assert.Error(t, err)

	_, err = svc.CreateRequest(context.Background(), leave.CreateLeaveRequestRequest{EmpID: empAsha, LeaveRequestInput: createInput(1, "", "2025-03-10")})
	assert.Error(t, err)

	_, err = svc.CreateRequest(context.Background(), leave.CreateLeaveRequestRequest{EmpID: empAsha, LeaveRequestInput: createInput(77, "2025-03-10", "2025-03-10")})
	assert.ErrorIs(t, err, leave.ErrLeaveTypeNotFound)
}

func TestLeaveService_CancelKeepsRow(t *testing.T) {
	f := newFixture()
	r := f.requests.put(leave.LeaveRequest{EmpID: empAsha, LeaveTypeID: 1, Status: leave.StatusPending, StartDate: day(3, 10), EndDate: day(3, 10)})
	svc, _ := newLeaveService(t, f)
	ctx := context.Background()

	err := svc.CancelRequest(ctx, r.ID, leave.Actor{EmpID: approver1})
	assert.ErrorIs(t, err, leave.ErrNotRequestOwner)

	require.NoError(t, svc.CancelRequest(ctx, r.ID, leave.Actor{EmpID: empAsha}))

	stored, err := f.requests.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusCanceled, stored.Status)
	require.NotNil(t, stored.CanceledBy)
	assert.Equal(t, empAsha, *stored.CanceledBy)
	assert.NotNil(t, stored.CanceledTime)

	err = svc.CancelRequest(ctx, r.ID, leave.Actor{EmpID: empAsha})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)
}

func TestLeaveService_DeleteRemovesRowAndFile(t *testing.T) {
	f := newFixture()
	svc, local := newLeaveService(t, f)
	ctx := context.Background()

	path, err := local.Upload(ctx, strings.NewReader("scan"), "leave_attachments/"+empAsha+"-1-abcd1234.pdf")
	require.NoError(t, err)
	r := f.requests.put(leave.LeaveRequest{EmpID: empAsha, LeaveTypeID: 1, Status: leave.StatusApproved, StartDate: day(3, 10), EndDate: day(3, 10), Attachment: &path})

	err = svc.DeleteRequest(ctx, r.ID, leave.Actor{EmpID: approver1})
	assert.ErrorIs(t, err, leave.ErrNotRequestOwner)

	require.NoError(t, svc.DeleteRequest(ctx, r.ID, leave.Actor{EmpID: empAsha}))

	_, err = f.requests.GetByID(ctx, r.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
	exists, err := local.Exists(ctx, path)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLeaveService_DeleteByAdmin(t *testing.T) {
	f := newFixture()
	r := f.requests.put(leave.LeaveRequest{EmpID: empAsha, LeaveTypeID: 1, StartDate: day(3, 10), EndDate: day(3, 10)})
	svc, _ := newLeaveService(t, f)

	require.NoError(t, svc.DeleteRequest(context.Background(), r.ID, leave.Actor{EmpID: leaveBoss, Role: "Admin"}))
	_, err := f.requests.GetByID(context.Background(), r.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestLeaveService_UpdateRequest_ReplacesAttachmentAndResetsStatus(t *testing.T) {
	f := newFixture()
	svc, local := newLeaveService(t, f)
	ctx := context.Background()

	oldPath, err := local.Upload(ctx, strings.NewReader("old"), "leave_attachments/"+empAsha+"-1-old00000.pdf")
	require.NoError(t, err)
	reason := "team release"
	r := f.requests.put(leave.LeaveRequest{
		EmpID: empAsha, LeaveTypeID: 1, Status: leave.StatusRejected, StartDate: day(3, 10), EndDate: day(3, 10),
		Attachment: &oldPath, StatusUpdatedBy: strPtr(approver1), StatusUpdatedReason: &reason,
	})

	in := withFile(createInput(1, "2025-03-17", "2025-03-18"), "new.docx", "doc")
	resp, err := svc.UpdateRequest(ctx, leave.UpdateLeaveRequestRequest{ID: r.ID, EmpID: empAsha, LeaveRequestInput: in})
	require.NoError(t, err)

	assert.Equal(t, leave.StatusPending, resp.Status)
	assert.Nil(t, resp.StatusUpdatedReason)
	assert.Equal(t, "2025-03-17", resp.StartDate)
	assert.Equal(t, 2.0, resp.RequestedDays)
	require.NotNil(t, resp.Attachment)
	assert.NotEqual(t, oldPath, *resp.Attachment)

	oldExists, _ := local.Exists(ctx, oldPath)
	newExists, _ := local.Exists(ctx, *resp.Attachment)
	assert.False(t, oldExists)
	assert.True(t, newExists)
}

func TestLeaveService_UpdateRequest_RemoveAttachment(t *testing.T) {
	f := newFixture()
	svc, local := newLeaveService(t, f)
	ctx := context.Background()

	oldPath, err := local.Upload(ctx, strings.NewReader("old"), "leave_attachments/"+empAsha+"-1-old00000.pdf")
	require.NoError(t, err)
	r := f.requests.put(leave.LeaveRequest{EmpID: empAsha, LeaveTypeID: 1, Status: leave.StatusPending, StartDate: day(3, 10), EndDate: day(3, 10), Attachment: &oldPath})

	resp, err := svc.UpdateRequest(ctx, leave.UpdateLeaveRequestRequest{
		ID: r.ID, EmpID: empAsha, RemoveAttachment: true, LeaveRequestInput: createInput(1, "2025-03-10", "2025-03-10"),
	})
	require.NoError(t, err)
	assert.Nil(t, resp.Attachment)

	exists, _ := local.Exists(ctx, oldPath)
	assert.False(t, exists)
}

func TestLeaveService_UpdateRequest_BalanceExcludesItself(t *testing.T) {
	f := newFixture()
	r := f.requests.put(leave.LeaveRequest{EmpID: empAsha, LeaveTypeID: 2, Status: leave.StatusPending, StartDate: day(3, 3), EndDate: day(3, 8)})
	svc, _ := newLeaveService(t, f)

	_, err := svc.UpdateRequest(context.Background(), leave.UpdateLeaveRequestRequest{
		ID: r.ID, EmpID: empAsha, LeaveRequestInput: createInput(2, "2025-03-03", "2025-03-08"),
	})
	assert.NoError(t, err, "a six day request fits a six day type when its own days are not counted twice")

	_, err = svc.UpdateRequest(context.Background(), leave.UpdateLeaveRequestRequest{
		ID: r.ID, EmpID: approver1, LeaveRequestInput: createInput(2, "2025-03-03", "2025-03-04"),
	})
	assert.ErrorIs(t, err, leave.ErrNotRequestOwner)
}

func TestLeaveService_Approver(t *testing.T) {
	f := newFixture()
	svc, _ := newLeaveService(t, f)
	ctx := context.Background()

	resp, err := svc.Approver(ctx, empAsha)
	require.NoError(t, err)
	assert.Equal(t, "Vikram", resp.ApproverName)
	assert.Equal(t, 1, resp.Level)

	f.approvals.chains[4] = leave.ApprovalChain{DepartmentID: 4, Level2: strPtr(approver2)}
	resp, err = svc.Approver(ctx, empAsha)
	require.NoError(t, err)
	assert.Equal(t, "Meena", resp.ApproverName)
	assert.Equal(t, 2, resp.Level)

	resp, err = svc.Approver(ctx, approver3)
	require.NoError(t, err)
	assert.Equal(t, "Admin", resp.ApproverName)
	assert.Nil(t, resp.ApproverID)
}

func TestLeaveService_HistoryAndTotals(t *testing.T) {
	f := newFixture()
	f.requests.put(leave.LeaveRequest{EmpID: empAsha, LeaveTypeID: 1, Status: leave.StatusApproved, StartDate: day(1, 6), EndDate: day(1, 8), EndBreakdown: leave.BreakdownFirstHalf})
	f.requests.put(leave.LeaveRequest{EmpID: empAsha, LeaveTypeID: 2, Status: leave.StatusPending, StartDate: day(3, 3), EndDate: day(3, 3)})
	svc, _ := newLeaveService(t, f)
	ctx := context.Background()

	history, err := svc.History(ctx, empAsha)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Sick Leave", history[0].LeaveType)
	assert.Equal(t, 2.5, history[1].RequestedDays)

	totals, err := svc.Totals(ctx, empAsha)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "2025-03-03", totals[0].StartDate)
	assert.Equal(t, 3, totals[1].RequestDays)
}

func TestLeaveService_LeaveTypes(t *testing.T) {
	f := newFixture()
	svc, _ := newLeaveService(t, f)
	ctx := context.Background()

	created, err := svc.CreateType(ctx, leave.SaveLeaveTypeRequest{Name: "  Comp Off ", MaxLeave: 4, Actor: leaveBoss})
	require.NoError(t, err)
	assert.Equal(t, "Comp Off", created.Name)

	_, err = svc.CreateType(ctx, leave.SaveLeaveTypeRequest{Name: "", MaxLeave: 4})
	assert.Error(t, err)

	updated, err := svc.UpdateType(ctx, leave.SaveLeaveTypeRequest{ID: created.ID, Name: "Comp Off", MaxLeave: 5})
	require.NoError(t, err)
	assert.Equal(t, 5.0, updated.MaxLeave)

	require.NoError(t, svc.DeleteType(ctx, created.ID, leaveBoss))
	types, err := svc.ListTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, types, 2)
}
