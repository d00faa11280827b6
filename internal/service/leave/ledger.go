package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/shiftwise/attendance-backend-go/internal/domain/leave"
)

// LedgerServiceImpl implements leave.LedgerService on top of the conditional
// updates in BalanceRepository. It holds no transaction machinery of its own:
// callers that need a larger atomic scope run it inside their transaction and
// the repository picks the querier up from the context.
type LedgerServiceImpl struct {
	balances leave.BalanceRepository
}

func NewLedgerService(balanceRepo leave.BalanceRepository) leave.LedgerService {
	return &LedgerServiceImpl{balances: balanceRepo}
}

// Reserve implements leave.LedgerService.
func (l *LedgerServiceImpl) Reserve(ctx context.Context, employeeID, leaveTypeID string, year int, days decimal.Decimal) error {
	if !days.IsPositive() {
		return fmt.Errorf("%w: reserve amount must be positive, got %s", leave.ErrInvariantViolation, days)
	}

	balance, err := l.balances.GetByEmployeeTypeYear(ctx, employeeID, leaveTypeID, year)
	if err != nil {
		return fmt.Errorf("failed to get leave balance: %w", err)
	}

	if err := l.balances.AddPending(ctx, balance.ID, days); err != nil {
		if errors.Is(err, leave.ErrInsufficientBalance) {
			return fmt.Errorf("%w: requested %s, remaining %s", leave.ErrInsufficientBalance, days, balance.Remaining())
		}
		return fmt.Errorf("failed to reserve leave days: %w", err)
	}
	return nil
}

// Commit implements leave.LedgerService.
func (l *LedgerServiceImpl) Commit(ctx context.Context, employeeID, leaveTypeID string, year int, days decimal.Decimal) error {
	if !days.IsPositive() {
		return fmt.Errorf("%w: commit amount must be positive, got %s", leave.ErrInvariantViolation, days)
	}

	balance, err := l.balances.GetByEmployeeTypeYear(ctx, employeeID, leaveTypeID, year)
	if err != nil {
		return fmt.Errorf("failed to get leave balance: %w", err)
	}

	if err := l.balances.MovePendingToUsed(ctx, balance.ID, days); err != nil {
		if errors.Is(err, leave.ErrInvariantViolation) {
			// A commit without a matching reservation is a lifecycle bug in
			// the caller, not a user error.
			slog.Error("leave commit without matching reservation",
				"employee_id", employeeID,
				"leave_type_id", leaveTypeID,
				"year", year,
				"days", days,
				"pending", balance.PendingDays,
			)
			return err
		}
		return fmt.Errorf("failed to commit leave days: %w", err)
	}
	return nil
}

// Release implements leave.LedgerService. from names the request state the
// days were held under: pending reservations come back from pending_days,
// approved days come back from used_days.
func (l *LedgerServiceImpl) Release(ctx context.Context, employeeID, leaveTypeID string, year int, days decimal.Decimal, from leave.RequestStatus) error {
	if !days.IsPositive() {
		return fmt.Errorf("%w: release amount must be positive, got %s", leave.ErrInvariantViolation, days)
	}

	balance, err := l.balances.GetByEmployeeTypeYear(ctx, employeeID, leaveTypeID, year)
	if err != nil {
		return fmt.Errorf("failed to get leave balance: %w", err)
	}

	var release func(context.Context, string, decimal.Decimal) error
	switch from {
	case leave.RequestStatusPending:
		release = l.balances.RemovePending
	case leave.RequestStatusApproved:
		release = l.balances.RemoveUsed
	default:
		return fmt.Errorf("%w: cannot release days held under status %q", leave.ErrInvariantViolation, from)
	}

	if err := release(ctx, balance.ID, days); err != nil {
		if errors.Is(err, leave.ErrInvariantViolation) {
			slog.Error("leave release exceeds held days",
				"employee_id", employeeID,
				"leave_type_id", leaveTypeID,
				"year", year,
				"days", days,
				"from_status", from,
			)
			return err
		}
		return fmt.Errorf("failed to release leave days: %w", err)
	}
	return nil
}

// Remaining implements leave.LedgerService.
func (l *LedgerServiceImpl) Remaining(ctx context.Context, employeeID, leaveTypeID string, year int) (decimal.Decimal, error) {
	balance, err := l.balances.GetByEmployeeTypeYear(ctx, employeeID, leaveTypeID, year)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return balance.Remaining(), nil
}

// ListBalances implements leave.LedgerService.
func (l *LedgerServiceImpl) ListBalances(ctx context.Context, employeeID string, year int) ([]leave.BalanceResponse, error) {
	balances, err := l.balances.GetByEmployeeYear(ctx, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}

	responses := make([]leave.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		responses = append(responses, leave.NewBalanceResponse(b))
	}
	return responses, nil
}

// InitializeYear implements leave.LedgerService.
func (l *LedgerServiceImpl) InitializeYear(ctx context.Context, companyID string, year int) (int64, error) {
	created, err := l.balances.BulkInitialize(ctx, companyID, year)
	if err != nil {
		return 0, fmt.Errorf("failed to initialize leave year: %w", err)
	}

	slog.Info("initialized leave year",
		"company_id", companyID,
		"year", year,
		"balances_created", created,
	)
	return created, nil
}
