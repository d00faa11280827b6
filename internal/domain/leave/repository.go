package leave

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type LeaveTypeRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (LeaveType, error)
	GetActiveByCompanyID(ctx context.Context, companyID string) ([]LeaveType, error)
}

// BalanceRepository persists ledger rows. The mutating methods are single
// conditional updates: the guard expression and the write happen in one
// statement so two concurrent writers can never both act on a stale read.
type BalanceRepository interface {
	Create(ctx context.Context, balance Balance) (Balance, error)
	GetByEmployeeTypeYear(ctx context.Context, employeeID, leaveTypeID string, year int) (Balance, error)
	GetByEmployeeYear(ctx context.Context, employeeID string, year int) ([]Balance, error)

	// AddPending reserves days: pending += days, guarded by
	// allocated - used - pending - days >= 0. ErrInsufficientBalance when the
	// guard fails.
	AddPending(ctx context.Context, balanceID string, days decimal.Decimal) error

	// MovePendingToUsed commits a reservation: used += days, pending -= days,
	// guarded by pending - days >= 0. ErrInvariantViolation when the guard
	// fails.
	MovePendingToUsed(ctx context.Context, balanceID string, days decimal.Decimal) error

	// RemovePending releases a reservation: pending -= days, same guard as
	// MovePendingToUsed.
	RemovePending(ctx context.Context, balanceID string, days decimal.Decimal) error

	// RemoveUsed returns committed days: used -= days, guarded by
	// used - days >= 0. ErrInvariantViolation when the guard fails.
	RemoveUsed(ctx context.Context, balanceID string, days decimal.Decimal) error

	// BulkInitialize creates one zeroed row per active employee x active leave
	// type missing a row for year, allocated from the type's annual
	// allocation. Never overwrites. Returns the number of rows created.
	BulkInitialize(ctx context.Context, companyID string, year int) (int64, error)
}

type RequestRepository interface {
	Create(ctx context.Context, request Request) (Request, error)
	GetByID(ctx context.Context, id string, companyID string) (Request, error)
	ListByEmployee(ctx context.Context, employeeID string, companyID string) ([]Request, error)

	// HasOverlapping reports whether any request for the employee with a
	// status in statuses intersects [start, end] inclusive. Touching ranges
	// intersect. Must run inside a transaction: the check takes a lock on
	// the employee that serializes concurrent check-then-insert sequences
	// until that transaction ends.
	HasOverlapping(ctx context.Context, employeeID string, start, end time.Time, statuses []RequestStatus) (bool, error)

	UpdateStatus(ctx context.Context, update UpdateRequestStatus) error
}
