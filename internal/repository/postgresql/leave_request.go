package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/shiftwise/attendance-backend-go/internal/domain/leave"
	"github.com/shiftwise/attendance-backend-go/internal/pkg/database"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.RequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

// Create implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.Request) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, employee_id, leave_type_id,
			start_date, end_date, days_requested, reason,
			status, submitted_at,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2,
			$3, $4, $5, $6,
			$7, NOW(),
			NOW(), NOW()
		) RETURNING id, submitted_at, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.EmployeeID, request.LeaveTypeID,
		request.StartDate, request.EndDate, request.DaysRequested, request.Reason,
		request.Status,
	).Scan(&request.ID, &request.SubmittedAt, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return leave.Request{}, err
	}

	return request, nil
}

// GetByID implements leave.RequestRepository. Company scoping goes through
// the employee row, requests have no company column of their own.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT lr.id, lr.employee_id, lr.leave_type_id,
			   lr.start_date, lr.end_date, lr.days_requested, lr.reason, lr.status,
			   lr.approved_by, lr.approved_at, lr.rejection_reason,
			   lr.cancelled_by, lr.cancelled_at,
			   lr.submitted_at, lr.created_at, lr.updated_at,
			   e.full_name AS employee_name,
			   lt.name AS leave_type_name
		FROM leave_requests lr
		JOIN employees e ON lr.employee_id = e.id
		JOIN leave_types lt ON lr.leave_type_id = lt.id
		WHERE lr.id = $1 AND e.company_id = $2
	`

	var request leave.Request
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&request.ID, &request.EmployeeID, &request.LeaveTypeID,
		&request.StartDate, &request.EndDate, &request.DaysRequested, &request.Reason, &request.Status,
		&request.ApprovedBy, &request.ApprovedAt, &request.RejectionReason,
		&request.CancelledBy, &request.CancelledAt,
		&request.SubmittedAt, &request.CreatedAt, &request.UpdatedAt,
		&request.EmployeeName,
		&request.LeaveTypeName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Request{}, leave.ErrRequestNotFound
		}
		return leave.Request{}, err
	}

	return request, nil
}

// ListByEmployee implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, companyID string) ([]leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT lr.id, lr.employee_id, lr.leave_type_id,
			   lr.start_date, lr.end_date, lr.days_requested, lr.reason, lr.status,
			   lr.approved_by, lr.approved_at, lr.rejection_reason,
			   lr.cancelled_by, lr.cancelled_at,
			   lr.submitted_at, lr.created_at, lr.updated_at,
			   lt.name AS leave_type_name
		FROM leave_requests lr
		JOIN employees e ON lr.employee_id = e.id
		JOIN leave_types lt ON lr.leave_type_id = lt.id
		WHERE lr.employee_id = $1 AND e.company_id = $2
		ORDER BY lr.start_date DESC
	`

	rows, err := q.Query(ctx, query, employeeID, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]leave.Request, 0)
	for rows.Next() {
		var request leave.Request
		if err := rows.Scan(
			&request.ID, &request.EmployeeID, &request.LeaveTypeID,
			&request.StartDate, &request.EndDate, &request.DaysRequested, &request.Reason, &request.Status,
			&request.ApprovedBy, &request.ApprovedAt, &request.RejectionReason,
			&request.CancelledBy, &request.CancelledAt,
			&request.SubmittedAt, &request.CreatedAt, &request.UpdatedAt,
			&request.LeaveTypeName,
		); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	return requests, rows.Err()
}

// HasOverlapping implements leave.RequestRepository. Inclusive on both ends:
// ranges that merely touch count as overlapping. The advisory lock serializes
// concurrent check-then-insert sequences for the same employee; it is held
// until the surrounding transaction ends, so this must run inside one.
func (r *leaveRequestRepositoryImpl) HasOverlapping(ctx context.Context, employeeID string, start, end time.Time, statuses []leave.RequestStatus) (bool, error) {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, employeeID); err != nil {
		return false, err
	}

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM leave_requests
			WHERE employee_id = $1
			  AND status = ANY($4)
			  AND start_date <= $3
			  AND end_date >= $2
		)
	`

	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, string(s))
	}

	var exists bool
	err := q.QueryRow(ctx, query, employeeID, start, end, names).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// UpdateStatus implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) UpdateStatus(ctx context.Context, update leave.UpdateRequestStatus) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $1,
			approved_by = COALESCE($2, approved_by),
			approved_at = COALESCE($3, approved_at),
			rejection_reason = COALESCE($4, rejection_reason),
			cancelled_by = COALESCE($5, cancelled_by),
			cancelled_at = COALESCE($6, cancelled_at),
			updated_at = NOW()
		WHERE id = $7
	`

	result, err := q.Exec(ctx, query,
		update.Status,
		update.ApprovedBy, update.ApprovedAt,
		update.RejectionReason,
		update.CancelledBy, update.CancelledAt,
		update.ID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return leave.ErrRequestNotFound
	}

	return nil
}
