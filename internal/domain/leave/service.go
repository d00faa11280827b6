package leave

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Overlaps reports whether two inclusive date ranges intersect. Ranges that
// merely touch (one ends the day the other starts) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}

// LedgerService mutates balance rows. Every mutation is delegated to a single
// conditional update in the repository; the service never computes a new
// balance from a previously read one.
type LedgerService interface {
	// Reserve moves days into pending. ErrInsufficientBalance when the
	// remaining balance cannot cover them.
	Reserve(ctx context.Context, employeeID, leaveTypeID string, year int, days decimal.Decimal) error

	// Commit moves previously reserved days from pending to used.
	// ErrInvariantViolation when pending cannot cover them.
	Commit(ctx context.Context, employeeID, leaveTypeID string, year int, days decimal.Decimal) error

	// Release returns days from pending (from=pending) or from used
	// (from=approved), mirroring the request state they were held under.
	Release(ctx context.Context, employeeID, leaveTypeID string, year int, days decimal.Decimal, from RequestStatus) error

	// Remaining derives the available balance from the row's counters; the
	// value itself is never stored.
	Remaining(ctx context.Context, employeeID, leaveTypeID string, year int) (decimal.Decimal, error)

	ListBalances(ctx context.Context, employeeID string, year int) ([]BalanceResponse, error)

	// InitializeYear creates missing balance rows for every active employee
	// and active leave type of the company. Idempotent: existing rows are
	// never touched. Returns the number of rows created.
	InitializeYear(ctx context.Context, companyID string, year int) (int64, error)
}

// RequestService owns the request lifecycle. Status transitions and their
// ledger effects happen in one transaction.
type RequestService interface {
	Create(ctx context.Context, req CreateRequestRequest) (RequestResponse, error)
	Approve(ctx context.Context, requestID, companyID, approverID string) (RequestResponse, error)
	Reject(ctx context.Context, requestID, companyID, rejecterID, reason string) (RequestResponse, error)
	Cancel(ctx context.Context, requestID, companyID, cancelledBy string) (RequestResponse, error)
	GetByID(ctx context.Context, requestID, companyID string) (RequestResponse, error)
	ListByEmployee(ctx context.Context, employeeID, companyID string) ([]RequestResponse, error)
}
