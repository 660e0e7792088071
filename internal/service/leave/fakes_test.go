package leave

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/access"
	"github.com/dolluzcorp/dtime-backend-go/internal/domain/employee"
	"github.com/dolluzcorp/dtime-backend-go/internal/domain/holiday"
	"github.com/dolluzcorp/dtime-backend-go/internal/domain/leave"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/email"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/events"
)

type fakeTx struct{ calls int }

func (f *fakeTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeTypeRepo struct {
	types map[int64]leave.LeaveType
}

func (f *fakeTypeRepo) List(context.Context) ([]leave.LeaveType, error) {
	out := make([]leave.LeaveType, 0, len(f.types))
	for _, t := range f.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeTypeRepo) GetByID(_ context.Context, id int64) (leave.LeaveType, error) {
	t, ok := f.types[id]
	if !ok {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return t, nil
}

func (f *fakeTypeRepo) Create(_ context.Context, t leave.LeaveType) (leave.LeaveType, error) {
	t.ID = int64(len(f.types) + 1)
	f.types[t.ID] = t
	return t, nil
}

func (f *fakeTypeRepo) Update(_ context.Context, t leave.LeaveType) error {
	if _, ok := f.types[t.ID]; !ok {
		return leave.ErrLeaveTypeNotFound
	}
	f.types[t.ID] = t
	return nil
}

func (f *fakeTypeRepo) SoftDelete(_ context.Context, id int64, _ string) error {
	if _, ok := f.types[id]; !ok {
		return leave.ErrLeaveTypeNotFound
	}
	delete(f.types, id)
	return nil
}

// fakeRequestRepo keeps requests in memory and joins employees the way the SQL does.
type fakeRequestRepo struct {
	mu        sync.Mutex
	nextID    int64
	rows      map[int64]leave.LeaveRequest
	employees *fakeEmployeeRepo
	types     *fakeTypeRepo
	locks     []string
}

func newFakeRequestRepo(employees *fakeEmployeeRepo, types *fakeTypeRepo) *fakeRequestRepo {
	return &fakeRequestRepo{rows: make(map[int64]leave.LeaveRequest), employees: employees, types: types}
}

func (f *fakeRequestRepo) put(r leave.LeaveRequest) leave.LeaveRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID == 0 {
		f.nextID++
		r.ID = f.nextID
	} else if r.ID > f.nextID {
		f.nextID = r.ID
	}
	if t, ok := f.types.types[r.LeaveTypeID]; ok {
		r.LeaveTypeName = t.Name
	}
	f.rows[r.ID] = r
	return r
}

func (f *fakeRequestRepo) sorted(keep func(leave.LeaveRequest) bool) []leave.LeaveRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]leave.LeaveRequest, 0)
	for _, r := range f.rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (f *fakeRequestRepo) join(requests []leave.LeaveRequest) []leave.DepartmentRequest {
	out := make([]leave.DepartmentRequest, 0, len(requests))
	for _, r := range requests {
		e := f.employees.byID[r.EmpID]
		out = append(out, leave.DepartmentRequest{
			LeaveRequest:   r,
			EmployeeName:   e.FullName(),
			EmployeeEmail:  e.Email,
			DepartmentID:   e.DepartmentID,
			DepartmentName: e.DepartmentName,
		})
	}
	return out
}

func (f *fakeRequestRepo) Create(_ context.Context, r leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.ID = 0
	r.Status = leave.StatusPending
	return f.put(r), nil
}

func (f *fakeRequestRepo) GetByID(_ context.Context, id int64) (leave.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return r, nil
}

func (f *fakeRequestRepo) ListByEmployee(_ context.Context, empID string) ([]leave.LeaveRequest, error) {
	return f.sorted(func(r leave.LeaveRequest) bool { return r.EmpID == empID }), nil
}

func (f *fakeRequestRepo) ListCounted(_ context.Context, empID string) ([]leave.LeaveRequest, error) {
	return f.sorted(func(r leave.LeaveRequest) bool {
		return r.EmpID == empID && r.Status != leave.StatusCanceled
	}), nil
}

func (f *fakeRequestRepo) ListByDepartment(_ context.Context, departmentID int64) ([]leave.DepartmentRequest, error) {
	return f.join(f.sorted(func(r leave.LeaveRequest) bool {
		e := f.employees.byID[r.EmpID]
		return r.Status != leave.StatusCanceled && e.DepartmentID != nil && *e.DepartmentID == departmentID
	})), nil
}

func (f *fakeRequestRepo) ListPending(context.Context) ([]leave.DepartmentRequest, error) {
	return f.join(f.sorted(func(r leave.LeaveRequest) bool { return r.Status == leave.StatusPending })), nil
}

func (f *fakeRequestRepo) Update(_ context.Context, r leave.LeaveRequest) error {
	if _, err := f.GetByID(context.Background(), r.ID); err != nil {
		return err
	}
	r.Status = leave.StatusPending
	r.CanceledBy, r.CanceledTime = nil, nil
	r.StatusUpdatedBy, r.StatusUpdatedTime, r.StatusUpdatedReason = nil, nil, nil
	f.put(r)
	return nil
}

func (f *fakeRequestRepo) Cancel(_ context.Context, id int64, actor string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok || r.Status != leave.StatusPending {
		return false, nil
	}
	r.Status = leave.StatusCanceled
	r.CanceledBy, r.CanceledTime = &actor, &at
	f.rows[id] = r
	return true, nil
}

func (f *fakeRequestRepo) UpdateStatus(_ context.Context, id int64, status leave.Status, actor string, reason *string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok || r.Status != leave.StatusPending {
		return false, nil
	}
	r.Status = status
	r.StatusUpdatedBy, r.StatusUpdatedReason, r.StatusUpdatedTime = &actor, reason, &at
	f.rows[id] = r
	return true, nil
}

func (f *fakeRequestRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return leave.ErrLeaveRequestNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeRequestRepo) LockBalance(_ context.Context, empID string, leaveTypeID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locks = append(f.locks, empID)
	return nil
}

type fakeApprovalRepo struct {
	chains map[int64]leave.ApprovalChain
}

func (f *fakeApprovalRepo) List(context.Context) ([]leave.ApprovalChain, error) {
	out := make([]leave.ApprovalChain, 0, len(f.chains))
	for _, c := range f.chains {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DepartmentID < out[j].DepartmentID })
	return out, nil
}

func (f *fakeApprovalRepo) GetByDepartment(_ context.Context, departmentID int64) (leave.ApprovalChain, error) {
	c, ok := f.chains[departmentID]
	if !ok {
		return leave.ApprovalChain{}, leave.ErrApprovalChainNotFound
	}
	return c, nil
}

func (f *fakeApprovalRepo) Upsert(_ context.Context, c leave.ApprovalChain) error {
	f.chains[c.DepartmentID] = c
	return nil
}

func (f *fakeApprovalRepo) Delete(_ context.Context, departmentID int64) error {
	if _, ok := f.chains[departmentID]; !ok {
		return leave.ErrApprovalChainNotFound
	}
	delete(f.chains, departmentID)
	return nil
}

type noticeKey struct {
	id    int64
	level leave.Level
}

type fakeEscalationRepo struct {
	notices map[noticeKey]time.Time
}

func (f *fakeEscalationRepo) RecordNotice(_ context.Context, requestID int64, level leave.Level, at time.Time) (bool, error) {
	key := noticeKey{requestID, level}
	if _, ok := f.notices[key]; ok {
		return false, nil
	}
	f.notices[key] = at
	return true, nil
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	byID map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByEmpID(_ context.Context, empID string) (employee.Employee, error) {
	e, ok := f.byID[empID]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

type fakeHolidays struct {
	holidays []holiday.Holiday
}

func (f *fakeHolidays) ApplicableHolidays(_ context.Context, _ string, from, to time.Time) ([]holiday.Holiday, error) {
	var out []holiday.Holiday
	for _, h := range f.holidays {
		if !h.StartDate.After(to) && !h.EndDate.Before(from) {
			out = append(out, h)
		}
	}
	return out, nil
}

type sentMail struct {
	kind string
	to   string
	data email.LeaveMail
}

type fakeMail struct {
	mu   sync.Mutex
	sent []sentMail
}

func (f *fakeMail) record(kind, to string, data email.LeaveMail) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{kind: kind, to: to, data: data})
	return nil
}

func (f *fakeMail) SendLeaveRequestSubmitted(to string, data email.LeaveMail) error {
	return f.record("submitted", to, data)
}

func (f *fakeMail) SendApprovalNotConfigured(data email.LeaveMail) error {
	return f.record("not_configured", "admin", data)
}

func (f *fakeMail) SendLeaveEscalation(to string, data email.LeaveMail) error {
	return f.record("escalation", to, data)
}

func (f *fakeMail) SendLeaveAutoApproved(to string, data email.LeaveMail) error {
	return f.record("auto_approved", to, data)
}

func (f *fakeMail) SendLeaveStatusUpdated(to string, data email.LeaveMail) error {
	return f.record("status_updated", to, data)
}

func (f *fakeMail) SendPasswordOTP(string, string, time.Duration) error { return nil }

func (f *fakeMail) kinds() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, m := range f.sent {
		out = append(out, m.kind+":"+m.to)
	}
	return out
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.LeaveEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e events.LeaveEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

type checkerFunc func(role employee.Role, page access.Page) bool

func (f checkerFunc) Can(role employee.Role, page access.Page) bool { return f(role, page) }

type memFile struct{ *bytes.Reader }

func (memFile) Close() error { return nil }

func strPtr(s string) *string { return &s }
func int64Ptr(n int64) *int64 { return &n }

func day(month time.Month, d int) time.Time {
	return time.Date(2025, month, d, 0, 0, 0, 0, time.UTC)
}

const (
	empAsha   = "dolluzcorp-2025-00001"
	approver1 = "dolluzcorp-2025-00010"
	approver2 = "dolluzcorp-2025-00011"
	approver3 = "dolluzcorp-2025-00012"
	leaveBoss = "dolluzcorp-2025-00099"
)

// fixture wires every service of the package against in-memory fakes.
type fixture struct {
	tx          *fakeTx
	types       *fakeTypeRepo
	requests    *fakeRequestRepo
	approvals   *fakeApprovalRepo
	escalations *fakeEscalationRepo
	employees   *fakeEmployeeRepo
	holidays    *fakeHolidays
	mail        *fakeMail
	published   *recordingPublisher
	notifier    *Notifier
}

func newFixture() *fixture {
	employees := &fakeEmployeeRepo{byID: map[string]employee.Employee{
		empAsha:   {EmpID: empAsha, FirstName: "Asha", LastName: "Raman", Email: "asha@dolluzcorp.in", DepartmentID: int64Ptr(4), DepartmentName: strPtr("Engineering"), AccessLevel: employee.RoleUser},
		approver1: {EmpID: approver1, FirstName: "Vikram", Email: "vikram@dolluzcorp.in", DepartmentID: int64Ptr(4), AccessLevel: employee.RoleManager},
		approver2: {EmpID: approver2, FirstName: "Meena", Email: "meena@dolluzcorp.in", DepartmentID: int64Ptr(4), AccessLevel: employee.RoleManager},
		approver3: {EmpID: approver3, FirstName: "Karthik", Email: "karthik@dolluzcorp.in", AccessLevel: employee.RoleSubAdmin},
		leaveBoss: {EmpID: leaveBoss, FirstName: "Priya", Email: "priya@dolluzcorp.in", AccessLevel: employee.RoleAdmin},
	}}
	types := &fakeTypeRepo{types: map[int64]leave.LeaveType{
		1: {ID: 1, Name: "Casual Leave", MaxLeave: 12},
		2: {ID: 2, Name: "Sick Leave", MaxLeave: 6},
	}}
	mail := &fakeMail{}
	published := &recordingPublisher{}
	notifier := NewNotifier(mail, published, employees, "http://localhost:3000")
	notifier.dispatch = func(fn func()) { fn() }

	return &fixture{
		tx:          &fakeTx{},
		types:       types,
		requests:    newFakeRequestRepo(employees, types),
		approvals:   &fakeApprovalRepo{chains: map[int64]leave.ApprovalChain{4: {DepartmentID: 4, DepartmentName: "Engineering", Level1: strPtr(approver1), Level2: strPtr(approver2), Level3: strPtr(approver3)}}},
		escalations: &fakeEscalationRepo{notices: make(map[noticeKey]time.Time)},
		employees:   employees,
		holidays:    &fakeHolidays{},
		mail:        mail,
		published:   published,
		notifier:    notifier,
	}
}
