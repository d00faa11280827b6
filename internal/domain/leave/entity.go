package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// LeaveType entity. The engine only reads annual_allocation and
// requires_approval; the rest is registry metadata.
type LeaveType struct {
	ID               string
	CompanyID        string
	Name             string
	Code             *string
	AnnualAllocation decimal.Decimal
	RequiresApproval bool
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Balance is one ledger row per (employee, leaveType, year). Day amounts are
// decimals so half days never drift.
type Balance struct {
	ID            string
	EmployeeID    string
	LeaveTypeID   string
	Year          int
	AllocatedDays decimal.Decimal
	UsedDays      decimal.Decimal
	PendingDays   decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// DTO
	EmployeeName  *string
	LeaveTypeName *string
}

// Remaining is always derived from the three stored fields, never stored as a
// fourth mutable field.
func (b Balance) Remaining() decimal.Decimal {
	return b.AllocatedDays.Sub(b.UsedDays).Sub(b.PendingDays)
}

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// ActiveStatuses are the request states that block an overlapping request.
var ActiveStatuses = []RequestStatus{RequestStatusPending, RequestStatusApproved}

// Request entity. The ledger reacts to its status transitions but the request
// row itself is owned by the lifecycle coordinator.
type Request struct {
	ID            string
	EmployeeID    string
	LeaveTypeID   string
	StartDate     time.Time
	EndDate       time.Time
	DaysRequested decimal.Decimal
	Reason        string
	Status        RequestStatus

	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string
	CancelledBy     *string
	CancelledAt     *time.Time

	SubmittedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// DTO
	EmployeeName  *string
	LeaveTypeName *string
}
