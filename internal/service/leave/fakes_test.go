package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shiftwise/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftwise/attendance-backend-go/internal/domain/leave"
)

// stubTxRunner runs the function directly. Service tests assert the calls
// made inside the transaction, not transaction mechanics.
type stubTxRunner struct{}

func (stubTxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeBalanceRepo struct {
	balances map[string]*leave.Balance
	nextID   int
}

func newFakeBalanceRepo() *fakeBalanceRepo {
	return &fakeBalanceRepo{balances: make(map[string]*leave.Balance)}
}

func (f *fakeBalanceRepo) seed(employeeID, leaveTypeID string, year int, allocated, used, pending string) *leave.Balance {
	f.nextID++
	b := &leave.Balance{
		ID:            fmt.Sprintf("balance-%d", f.nextID),
		EmployeeID:    employeeID,
		LeaveTypeID:   leaveTypeID,
		Year:          year,
		AllocatedDays: decimal.RequireFromString(allocated),
		UsedDays:      decimal.RequireFromString(used),
		PendingDays:   decimal.RequireFromString(pending),
	}
	f.balances[b.ID] = b
	return b
}

func (f *fakeBalanceRepo) Create(_ context.Context, balance leave.Balance) (leave.Balance, error) {
	f.nextID++
	balance.ID = fmt.Sprintf("balance-%d", f.nextID)
	b := balance
	f.balances[b.ID] = &b
	return b, nil
}

func (f *fakeBalanceRepo) GetByEmployeeTypeYear(_ context.Context, employeeID, leaveTypeID string, year int) (leave.Balance, error) {
	for _, b := range f.balances {
		if b.EmployeeID == employeeID && b.LeaveTypeID == leaveTypeID && b.Year == year {
			return *b, nil
		}
	}
	return leave.Balance{}, leave.ErrBalanceNotFound
}

func (f *fakeBalanceRepo) GetByEmployeeYear(_ context.Context, employeeID string, year int) ([]leave.Balance, error) {
	var out []leave.Balance
	for _, b := range f.balances {
		if b.EmployeeID == employeeID && b.Year == year {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBalanceRepo) AddPending(_ context.Context, balanceID string, days decimal.Decimal) error {
	b, ok := f.balances[balanceID]
	if !ok {
		return leave.ErrBalanceNotFound
	}
	if b.Remaining().Sub(days).IsNegative() {
		return leave.ErrInsufficientBalance
	}
	b.PendingDays = b.PendingDays.Add(days)
	return nil
}

func (f *fakeBalanceRepo) MovePendingToUsed(_ context.Context, balanceID string, days decimal.Decimal) error {
	b, ok := f.balances[balanceID]
	if !ok {
		return leave.ErrBalanceNotFound
	}
	if b.PendingDays.Sub(days).IsNegative() {
		return leave.ErrInvariantViolation
	}
	b.PendingDays = b.PendingDays.Sub(days)
	b.UsedDays = b.UsedDays.Add(days)
	return nil
}

func (f *fakeBalanceRepo) RemovePending(_ context.Context, balanceID string, days decimal.Decimal) error {
	b, ok := f.balances[balanceID]
	if !ok {
		return leave.ErrBalanceNotFound
	}
	if b.PendingDays.Sub(days).IsNegative() {
		return leave.ErrInvariantViolation
	}
	b.PendingDays = b.PendingDays.Sub(days)
	return nil
}

func (f *fakeBalanceRepo) RemoveUsed(_ context.Context, balanceID string, days decimal.Decimal) error {
	b, ok := f.balances[balanceID]
	if !ok {
		return leave.ErrBalanceNotFound
	}
	if b.UsedDays.Sub(days).IsNegative() {
		return leave.ErrInvariantViolation
	}
	b.UsedDays = b.UsedDays.Sub(days)
	return nil
}

func (f *fakeBalanceRepo) BulkInitialize(_ context.Context, _ string, _ int) (int64, error) {
	return 0, nil
}

type fakeTypeRepo struct {
	types map[string]leave.LeaveType
}

func (f *fakeTypeRepo) GetByID(_ context.Context, id string, _ string) (leave.LeaveType, error) {
	lt, ok := f.types[id]
	if !ok {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return lt, nil
}

func (f *fakeTypeRepo) GetActiveByCompanyID(_ context.Context, _ string) ([]leave.LeaveType, error) {
	var out []leave.LeaveType
	for _, lt := range f.types {
		if lt.IsActive {
			out = append(out, lt)
		}
	}
	return out, nil
}

type fakeRequestRepo struct {
	requests map[string]*leave.Request
	nextID   int
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[string]*leave.Request)}
}

func (f *fakeRequestRepo) Create(_ context.Context, request leave.Request) (leave.Request, error) {
	f.nextID++
	request.ID = fmt.Sprintf("request-%d", f.nextID)
	r := request
	f.requests[r.ID] = &r
	return r, nil
}

func (f *fakeRequestRepo) GetByID(_ context.Context, id string, _ string) (leave.Request, error) {
	r, ok := f.requests[id]
	if !ok {
		return leave.Request{}, leave.ErrRequestNotFound
	}
	return *r, nil
}

func (f *fakeRequestRepo) ListByEmployee(_ context.Context, employeeID string, _ string) ([]leave.Request, error) {
	var out []leave.Request
	for _, r := range f.requests {
		if r.EmployeeID == employeeID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) HasOverlapping(_ context.Context, employeeID string, start, end time.Time, statuses []leave.RequestStatus) (bool, error) {
	for _, r := range f.requests {
		if r.EmployeeID != employeeID {
			continue
		}
		active := false
		for _, s := range statuses {
			if r.Status == s {
				active = true
				break
			}
		}
		if active && leave.Overlaps(start, end, r.StartDate, r.EndDate) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRequestRepo) UpdateStatus(_ context.Context, update leave.UpdateRequestStatus) error {
	r, ok := f.requests[update.ID]
	if !ok {
		return leave.ErrRequestNotFound
	}
	r.Status = update.Status
	if update.ApprovedBy != nil {
		r.ApprovedBy = update.ApprovedBy
	}
	if update.ApprovedAt != nil {
		r.ApprovedAt = update.ApprovedAt
	}
	if update.RejectionReason != nil {
		r.RejectionReason = update.RejectionReason
	}
	if update.CancelledBy != nil {
		r.CancelledBy = update.CancelledBy
	}
	if update.CancelledAt != nil {
		r.CancelledAt = update.CancelledAt
	}
	return nil
}

// fakeAttendanceRepo records the derived-status range calls the coordinator
// makes; the rest of the interface is unused in these tests.
type fakeAttendanceRepo struct {
	marked   []markedRange
	unmarked []markedRange
}

type markedRange struct {
	employeeID string
	from, to   time.Time
	status     attendance.Status
}

func (f *fakeAttendanceRepo) MarkStatusRange(_ context.Context, employeeID, _ string, from, to time.Time, status attendance.Status) (int64, error) {
	f.marked = append(f.marked, markedRange{employeeID, from, to, status})
	return int64(to.Sub(from).Hours()/24) + 1, nil
}

func (f *fakeAttendanceRepo) UnmarkStatusRange(_ context.Context, employeeID, _ string, from, to time.Time, status attendance.Status) (int64, error) {
	f.unmarked = append(f.unmarked, markedRange{employeeID, from, to, status})
	return int64(to.Sub(from).Hours()/24) + 1, nil
}

func (f *fakeAttendanceRepo) Create(_ context.Context, day attendance.DailyAttendance) (attendance.DailyAttendance, error) {
	return day, nil
}

func (f *fakeAttendanceRepo) GetByEmployeeAndDate(_ context.Context, _ string, _ time.Time, _ string) (attendance.DailyAttendance, error) {
	return attendance.DailyAttendance{}, attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) GetByEmployeeAndDateForUpdate(_ context.Context, _ string, _ time.Time, _ string) (attendance.DailyAttendance, error) {
	return attendance.DailyAttendance{}, attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) Update(_ context.Context, _ attendance.DailyAttendance) error {
	return nil
}

func (f *fakeAttendanceRepo) ListRange(_ context.Context, _ string, _, _ time.Time, _ string) ([]attendance.DailyAttendance, error) {
	return nil, nil
}

func (f *fakeAttendanceRepo) GetByEventID(_ context.Context, _, _ string) (attendance.DailyAttendance, error) {
	return attendance.DailyAttendance{}, attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) RecordEventID(_ context.Context, _, _, _ string) error {
	return nil
}

func (f *fakeAttendanceRepo) MarkAbsentees(_ context.Context, _ string, _ time.Time) (int64, error) {
	return 0, nil
}
