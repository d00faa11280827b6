package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/shiftwise/attendance-backend-go/internal/domain/leave"
	"github.com/shiftwise/attendance-backend-go/internal/pkg/database"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.BalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

// Create implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) Create(ctx context.Context, balance leave.Balance) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (
			id, employee_id, leave_type_id, year,
			allocated_days, used_days, pending_days,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3,
			$4, $5, $6,
			NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		balance.EmployeeID, balance.LeaveTypeID, balance.Year,
		balance.AllocatedDays, balance.UsedDays, balance.PendingDays,
	).Scan(&balance.ID, &balance.CreatedAt, &balance.UpdatedAt)
	if err != nil {
		return leave.Balance{}, err
	}

	return balance, nil
}

// GetByEmployeeTypeYear implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) GetByEmployeeTypeYear(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, leave_type_id, year,
			   allocated_days, used_days, pending_days,
			   created_at, updated_at
		FROM leave_balances
		WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
	`

	var balance leave.Balance
	err := q.QueryRow(ctx, query, employeeID, leaveTypeID, year).Scan(
		&balance.ID, &balance.EmployeeID, &balance.LeaveTypeID, &balance.Year,
		&balance.AllocatedDays, &balance.UsedDays, &balance.PendingDays,
		&balance.CreatedAt, &balance.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Balance{}, leave.ErrBalanceNotFound
		}
		return leave.Balance{}, err
	}

	return balance, nil
}

// GetByEmployeeYear implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) GetByEmployeeYear(ctx context.Context, employeeID string, year int) ([]leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT lb.id, lb.employee_id, lb.leave_type_id, lb.year,
			   lb.allocated_days, lb.used_days, lb.pending_days,
			   lb.created_at, lb.updated_at,
			   lt.name AS leave_type_name
		FROM leave_balances lb
		JOIN leave_types lt ON lb.leave_type_id = lt.id
		WHERE lb.employee_id = $1 AND lb.year = $2
		ORDER BY lt.name
	`

	rows, err := q.Query(ctx, query, employeeID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := make([]leave.Balance, 0)
	for rows.Next() {
		var balance leave.Balance
		if err := rows.Scan(
			&balance.ID, &balance.EmployeeID, &balance.LeaveTypeID, &balance.Year,
			&balance.AllocatedDays, &balance.UsedDays, &balance.PendingDays,
			&balance.CreatedAt, &balance.UpdatedAt,
			&balance.LeaveTypeName,
		); err != nil {
			return nil, err
		}
		balances = append(balances, balance)
	}

	return balances, rows.Err()
}

// AddPending implements leave.BalanceRepository. The remaining-balance guard
// lives in the WHERE clause, so the check and the write are one statement and
// concurrent reservations cannot both pass on a stale read.
func (r *leaveBalanceRepositoryImpl) AddPending(ctx context.Context, balanceID string, days decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET pending_days = pending_days + $1,
			updated_at = NOW()
		WHERE id = $2
		  AND (allocated_days - used_days - pending_days - $1) >= 0
	`

	result, err := q.Exec(ctx, query, days, balanceID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return leave.ErrInsufficientBalance
	}

	return nil
}

// MovePendingToUsed implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) MovePendingToUsed(ctx context.Context, balanceID string, days decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET pending_days = pending_days - $1,
			used_days = used_days + $1,
			updated_at = NOW()
		WHERE id = $2
		  AND (pending_days - $1) >= 0
	`

	result, err := q.Exec(ctx, query, days, balanceID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return leave.ErrInvariantViolation
	}

	return nil
}

// RemovePending implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) RemovePending(ctx context.Context, balanceID string, days decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET pending_days = pending_days - $1,
			updated_at = NOW()
		WHERE id = $2
		  AND (pending_days - $1) >= 0
	`

	result, err := q.Exec(ctx, query, days, balanceID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return leave.ErrInvariantViolation
	}

	return nil
}

// RemoveUsed implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) RemoveUsed(ctx context.Context, balanceID string, days decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET used_days = used_days - $1,
			updated_at = NOW()
		WHERE id = $2
		  AND (used_days - $1) >= 0
	`

	result, err := q.Exec(ctx, query, days, balanceID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return leave.ErrInvariantViolation
	}

	return nil
}

// BulkInitialize implements leave.BalanceRepository. Cross join of active
// employees and active leave types, minus the rows that already exist; the
// unique constraint backstops concurrent runs.
func (r *leaveBalanceRepositoryImpl) BulkInitialize(ctx context.Context, companyID string, year int) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (id, employee_id, leave_type_id, year, allocated_days, created_at, updated_at)
		SELECT uuidv7(), e.id, lt.id, $2, lt.annual_allocation, NOW(), NOW()
		FROM employees e
		CROSS JOIN leave_types lt
		WHERE e.company_id = $1 AND e.is_active
		  AND lt.company_id = $1 AND lt.is_active
		  AND NOT EXISTS (
				SELECT 1 FROM leave_balances lb
				WHERE lb.employee_id = e.id AND lb.leave_type_id = lt.id AND lb.year = $2
		  )
		ON CONFLICT (employee_id, leave_type_id, year) DO NOTHING
	`

	result, err := q.Exec(ctx, query, companyID, year)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
