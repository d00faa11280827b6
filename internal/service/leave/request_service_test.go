package leave

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftwise/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftwise/attendance-backend-go/internal/domain/leave"
)

type requestFixture struct {
	balances   *fakeBalanceRepo
	requests   *fakeRequestRepo
	types      *fakeTypeRepo
	attendance *fakeAttendanceRepo
	svc        leave.RequestService
}

func newRequestFixture(requiresApproval bool) *requestFixture {
	balances := newFakeBalanceRepo()
	requests := newFakeRequestRepo()
	types := &fakeTypeRepo{types: map[string]leave.LeaveType{
		"type-1": {
			ID:               "type-1",
			CompanyID:        "company-1",
			Name:             "Annual Leave",
			AnnualAllocation: d("20"),
			RequiresApproval: requiresApproval,
			IsActive:         true,
		},
	}}
	att := &fakeAttendanceRepo{}

	ledger := NewLedgerService(balances)
	svc := NewRequestService(stubTxRunner{}, requests, types, ledger, att)
	return &requestFixture{
		balances:   balances,
		requests:   requests,
		types:      types,
		attendance: att,
		svc:        svc,
	}
}

func createReq(start, end string) leave.CreateRequestRequest {
	return leave.CreateRequestRequest{
		CompanyID:   "company-1",
		EmployeeID:  "employee-1",
		LeaveTypeID: "type-1",
		StartDate:   start,
		EndDate:     end,
		Reason:      "family matters",
	}
}

func TestCreateRequestReservesBalance(t *testing.T) {
	ctx := context.Background()
	f := newRequestFixture(true)
	b := f.balances.seed("employee-1", "type-1", 2024, "20", "5", "0")

	resp, err := f.svc.Create(ctx, createReq("2024-03-01", "2024-03-10"))
	require.NoError(t, err)

	assert.Equal(t, string(leave.RequestStatusPending), resp.Status)
	assert.True(t, resp.DaysRequested.Equal(d("10")), "days = %s", resp.DaysRequested)

	got := f.balances.balances[b.ID]
	assert.True(t, got.PendingDays.Equal(d("10")))
	assert.True(t, got.UsedDays.Equal(d("5")))
	assert.True(t, got.Remaining().Equal(d("5")))
	assert.Empty(t, f.attendance.marked, "pending requests must not mark attendance")
}

func TestCreateRequestInsufficientBalance(t *testing.T) {
	ctx := context.Background()
	f := newRequestFixture(true)
	b := f.balances.seed("employee-1", "type-1", 2024, "20", "5", "10")

	// Remaining is 5, the range needs 6.
	_, err := f.svc.Create(ctx, createReq("2024-03-01", "2024-03-06"))
	require.ErrorIs(t, err, leave.ErrInsufficientBalance)

	got := f.balances.balances[b.ID]
	assert.True(t, got.PendingDays.Equal(d("10")))
	assert.Empty(t, f.requests.requests, "no request row on a failed reservation")
}

func TestCreateRequestOverlapConflict(t *testing.T) {
	ctx := context.Background()
	f := newRequestFixture(true)
	b := f.balances.seed("employee-1", "type-1", 2024, "20", "0", "0")

	_, err := f.svc.Create(ctx, createReq("2024-03-01", "2024-03-05"))
	require.NoError(t, err)

	// Touches the existing range at its end date.
	_, err = f.svc.Create(ctx, createReq("2024-03-05", "2024-03-10"))
	require.ErrorIs(t, err, leave.ErrOverlapConflict)

	got := f.balances.balances[b.ID]
	assert.True(t, got.PendingDays.Equal(d("5")), "conflicting request must not reserve")
	assert.Len(t, f.requests.requests, 1)
}

func TestCreateRequestNoOverlapWithInactiveStatuses(t *testing.T) {
	ctx := context.Background()
	f := newRequestFixture(true)
	f.balances.seed("employee-1", "type-1", 2024, "20", "0", "0")

	first, err := f.svc.Create(ctx, createReq("2024-03-01", "2024-03-05"))
	require.NoError(t, err)
	_, err = f.svc.Reject(ctx, first.ID, "company-1", "user-admin", "coverage gap")
	require.NoError(t, err)

	// Same range again: the rejected request no longer blocks it.
	_, err = f.svc.Create(ctx, createReq("2024-03-01", "2024-03-05"))
	assert.NoError(t, err)
}

func TestCreateRequestAutoApprove(t *testing.T) {
	ctx := context.Background()
	f := newRequestFixture(false)
	b := f.balances.seed("employee-1", "type-1", 2024, "20", "0", "0")

	resp, err := f.svc.Create(ctx, createReq("2024-03-04", "2024-03-05"))
	require.NoError(t, err)

	assert.Equal(t, string(leave.RequestStatusApproved), resp.Status)

	got := f.balances.balances[b.ID]
	assert.True(t, got.UsedDays.Equal(d("2")), "used = %s", got.UsedDays)
	assert.True(t, got.PendingDays.IsZero())

	require.Len(t, f.attendance.marked, 1)
	assert.Equal(t, attendance.StatusLeave, f.attendance.marked[0].status)
}

func TestApproveRequest(t *testing.T) {
	ctx := context.Background()
	f := newRequestFixture(true)
	b := f.balances.seed("employee-1", "type-1", 2024, "20", "5", "0")

	created, err := f.svc.Create(ctx, createReq("2024-03-01", "2024-03-10"))
	require.NoError(t, err)

	resp, err := f.svc.Approve(ctx, created.ID, "company-1", "user-admin")
	require.NoError(t, err)

	assert.Equal(t, string(leave.RequestStatusApproved), resp.Status)
	require.NotNil(t, resp.ApprovedBy)
	assert.Equal(t, "user-admin", *resp.ApprovedBy)

	got := f.balances.balances[b.ID]
	assert.True(t, got.UsedDays.Equal(d("15")))
	assert.True(t, got.PendingDays.IsZero())
	assert.True(t, got.Remaining().Equal(d("5")))

	require.Len(t, f.attendance.marked, 1)
	assert.Equal(t, attendance.StatusLeave, f.attendance.marked[0].status)
	assert.Equal(t, "employee-1", f.attendance.marked[0].employeeID)
}

func TestApproveRequestTwice(t *testing.T) {
	ctx := context.Background()
	f := newRequestFixture(true)
	f.balances.seed("employee-1", "type-1", 2024, "20", "0", "0")

	created, err := f.svc.Create(ctx, createReq("2024-03-01", "2024-03-05"))
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, created.ID, "company-1", "user-admin")
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, created.ID, "company-1", "user-admin")
	assert.ErrorIs(t, err, leave.ErrRequestAlreadyProcessed)
}

func TestRejectRequestReleasesReservation(t *testing.T) {
	ctx := context.Background()
	f := newRequestFixture(true)
	b := f.balances.seed("employee-1", "type-1", 2024, "20", "5", "0")

	created, err := f.svc.Create(ctx, createReq("2024-03-01", "2024-03-10"))
	require.NoError(t, err)

	resp, err := f.svc.Reject(ctx, created.ID, "company-1", "user-admin", "coverage gap")
	require.NoError(t, err)

	assert.Equal(t, string(leave.RequestStatusRejected), resp.Status)
	require.NotNil(t, resp.RejectionReason)
	assert.Equal(t, "coverage gap", *resp.RejectionReason)

	got := f.balances.balances[b.ID]
	assert.True(t, got.PendingDays.IsZero())
	assert.True(t, got.UsedDays.Equal(d("5")))
	assert.True(t, got.Remaining().Equal(d("15")))
}

func TestCancelPendingRequest(t *testing.T) {
	ctx := context.Background()
	f := newRequestFixture(true)
	b := f.balances.seed("employee-1", "type-1", 2024, "20", "0", "0")

	created, err := f.svc.Create(ctx, createReq("2024-03-01", "2024-03-05"))
	require.NoError(t, err)

	resp, err := f.svc.Cancel(ctx, created.ID, "company-1", "employee-1")
	require.NoError(t, err)

	assert.Equal(t, string(leave.RequestStatusCancelled), resp.Status)
	got := f.balances.balances[b.ID]
	assert.True(t, got.PendingDays.IsZero())
	assert.True(t, got.Remaining().Equal(d("20")))
	assert.Empty(t, f.attendance.unmarked)
}

func TestCancelApprovedFutureRequest(t *testing.T) {
	ctx := context.Background()
	f := newRequestFixture(true)
	startDate := time.Now().UTC().AddDate(0, 0, 30)
	b := f.balances.seed("employee-1", "type-1", startDate.Year(), "20", "0", "0")

	start := startDate.Format("2006-01-02")
	end := startDate.AddDate(0, 0, 2).Format("2006-01-02")

	created, err := f.svc.Create(ctx, createReq(start, end))
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, created.ID, "company-1", "user-admin")
	require.NoError(t, err)

	resp, err := f.svc.Cancel(ctx, created.ID, "company-1", "employee-1")
	require.NoError(t, err)

	assert.Equal(t, string(leave.RequestStatusCancelled), resp.Status)
	got := f.balances.balances[b.ID]
	assert.True(t, got.UsedDays.IsZero())
	assert.True(t, got.Remaining().Equal(d("20")))

	require.Len(t, f.attendance.unmarked, 1)
	assert.Equal(t, attendance.StatusLeave, f.attendance.unmarked[0].status)
}

func TestCancelApprovedStartedRequest(t *testing.T) {
	ctx := context.Background()
	f := newRequestFixture(true)
	startDate := time.Now().UTC().AddDate(0, 0, -1)
	b := f.balances.seed("employee-1", "type-1", startDate.Year(), "20", "0", "0")

	start := startDate.Format("2006-01-02")
	end := startDate.AddDate(0, 0, 3).Format("2006-01-02")

	created, err := f.svc.Create(ctx, createReq(start, end))
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, created.ID, "company-1", "user-admin")
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, created.ID, "company-1", "employee-1")
	require.ErrorIs(t, err, leave.ErrLeaveAlreadyStarted)

	got := f.balances.balances[b.ID]
	assert.True(t, got.UsedDays.Equal(d("4")), "committed days stay committed")
}

func TestCreateRequestValidation(t *testing.T) {
	ctx := context.Background()
	f := newRequestFixture(true)
	f.balances.seed("employee-1", "type-1", 2024, "20", "0", "0")

	tests := []struct {
		name string
		req  leave.CreateRequestRequest
	}{
		{"missing employee", leave.CreateRequestRequest{CompanyID: "company-1", LeaveTypeID: "type-1", StartDate: "2024-03-01", EndDate: "2024-03-05"}},
		{"bad start date", createReq("not-a-date", "2024-03-05")},
		{"end before start", createReq("2024-03-10", "2024-03-05")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, tt.req)
			assert.Error(t, err)
		})
	}
	assert.Empty(t, f.requests.requests)
}

func TestCreateRequestUnknownLeaveType(t *testing.T) {
	ctx := context.Background()
	f := newRequestFixture(true)
	f.balances.seed("employee-1", "type-1", 2024, "20", "0", "0")

	req := createReq("2024-03-01", "2024-03-05")
	req.LeaveTypeID = "type-missing"

	_, err := f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, leave.ErrLeaveTypeNotFound)
}
