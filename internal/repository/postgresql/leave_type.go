package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/shiftwise/attendance-backend-go/internal/domain/leave"
	"github.com/shiftwise/attendance-backend-go/internal/pkg/database"
)

type leaveTypeRepositoryImpl struct {
	db *database.DB
}

func NewLeaveTypeRepository(db *database.DB) leave.LeaveTypeRepository {
	return &leaveTypeRepositoryImpl{db: db}
}

// GetByID implements leave.LeaveTypeRepository.
func (r *leaveTypeRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, name, code, annual_allocation,
			   requires_approval, is_active, created_at, updated_at
		FROM leave_types
		WHERE id = $1 AND company_id = $2
	`

	var leaveType leave.LeaveType
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&leaveType.ID, &leaveType.CompanyID, &leaveType.Name, &leaveType.Code, &leaveType.AnnualAllocation,
		&leaveType.RequiresApproval, &leaveType.IsActive, &leaveType.CreatedAt, &leaveType.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveType{}, err
	}

	return leaveType, nil
}

// GetActiveByCompanyID implements leave.LeaveTypeRepository.
func (r *leaveTypeRepositoryImpl) GetActiveByCompanyID(ctx context.Context, companyID string) ([]leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, name, code, annual_allocation,
			   requires_approval, is_active, created_at, updated_at
		FROM leave_types
		WHERE company_id = $1 AND is_active
		ORDER BY name
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leaveTypes := make([]leave.LeaveType, 0)
	for rows.Next() {
		var leaveType leave.LeaveType
		if err := rows.Scan(
			&leaveType.ID, &leaveType.CompanyID, &leaveType.Name, &leaveType.Code, &leaveType.AnnualAllocation,
			&leaveType.RequiresApproval, &leaveType.IsActive, &leaveType.CreatedAt, &leaveType.UpdatedAt,
		); err != nil {
			return nil, err
		}
		leaveTypes = append(leaveTypes, leaveType)
	}

	return leaveTypes, rows.Err()
}
