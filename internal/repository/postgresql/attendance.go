package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/shiftwise/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftwise/attendance-backend-go/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepositoryImpl{db: db}
}

// Create implements attendance.Repository. The conflict clause keeps a lost
// insert race from aborting the surrounding transaction: instead of SQLSTATE
// 23505 the caller gets ErrAttendanceExists and can reload the winner's row
// on the same connection.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, day attendance.DailyAttendance) (attendance.DailyAttendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO daily_attendances (
			id, company_id, employee_id, date,
			sign_in_time, sign_out_time, work_minutes, status, notes,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3,
			$4, $5, $6, $7, $8,
			NOW(), NOW()
		)
		ON CONFLICT (company_id, employee_id, date) DO NOTHING
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		day.CompanyID, day.EmployeeID, day.Date,
		day.SignInTime, day.SignOutTime, day.WorkMinutes, day.Status, day.Notes,
	).Scan(&day.ID, &day.CreatedAt, &day.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.DailyAttendance{}, attendance.ErrAttendanceExists
		}
		return attendance.DailyAttendance{}, err
	}

	return day, nil
}

// GetByEmployeeAndDate implements attendance.Repository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (attendance.DailyAttendance, error) {
	return r.getByEmployeeAndDate(ctx, employeeID, date, companyID, "")
}

// GetByEmployeeAndDateForUpdate implements attendance.Repository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDateForUpdate(ctx context.Context, employeeID string, date time.Time, companyID string) (attendance.DailyAttendance, error) {
	return r.getByEmployeeAndDate(ctx, employeeID, date, companyID, " FOR UPDATE")
}

func (r *attendanceRepositoryImpl) getByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID, suffix string) (attendance.DailyAttendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, employee_id, date,
			   sign_in_time, sign_out_time, work_minutes, status, notes,
			   created_at, updated_at
		FROM daily_attendances
		WHERE employee_id = $1 AND date = $2 AND company_id = $3
	` + suffix

	var day attendance.DailyAttendance
	err := q.QueryRow(ctx, query, employeeID, date, companyID).Scan(
		&day.ID, &day.CompanyID, &day.EmployeeID, &day.Date,
		&day.SignInTime, &day.SignOutTime, &day.WorkMinutes, &day.Status, &day.Notes,
		&day.CreatedAt, &day.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.DailyAttendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.DailyAttendance{}, err
	}

	return day, nil
}

// Update implements attendance.Repository.
func (r *attendanceRepositoryImpl) Update(ctx context.Context, day attendance.DailyAttendance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE daily_attendances
		SET sign_in_time = $1,
			sign_out_time = $2,
			work_minutes = $3,
			status = $4,
			notes = $5,
			updated_at = NOW()
		WHERE id = $6
	`

	result, err := q.Exec(ctx, query,
		day.SignInTime, day.SignOutTime, day.WorkMinutes, day.Status, day.Notes,
		day.ID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// ListRange implements attendance.Repository.
func (r *attendanceRepositoryImpl) ListRange(ctx context.Context, employeeID string, from, to time.Time, companyID string) ([]attendance.DailyAttendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT da.id, da.company_id, da.employee_id, da.date,
			   da.sign_in_time, da.sign_out_time, da.work_minutes, da.status, da.notes,
			   da.created_at, da.updated_at,
			   e.full_name AS employee_name
		FROM daily_attendances da
		JOIN employees e ON da.employee_id = e.id
		WHERE da.employee_id = $1 AND da.date BETWEEN $2 AND $3 AND da.company_id = $4
		ORDER BY da.date
	`

	rows, err := q.Query(ctx, query, employeeID, from, to, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := make([]attendance.DailyAttendance, 0)
	for rows.Next() {
		var day attendance.DailyAttendance
		if err := rows.Scan(
			&day.ID, &day.CompanyID, &day.EmployeeID, &day.Date,
			&day.SignInTime, &day.SignOutTime, &day.WorkMinutes, &day.Status, &day.Notes,
			&day.CreatedAt, &day.UpdatedAt,
			&day.EmployeeName,
		); err != nil {
			return nil, err
		}
		days = append(days, day)
	}

	return days, rows.Err()
}

// GetByEventID implements attendance.Repository.
func (r *attendanceRepositoryImpl) GetByEventID(ctx context.Context, employeeID, eventID string) (attendance.DailyAttendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT da.id, da.company_id, da.employee_id, da.date,
			   da.sign_in_time, da.sign_out_time, da.work_minutes, da.status, da.notes,
			   da.created_at, da.updated_at
		FROM attendance_events ae
		JOIN daily_attendances da ON ae.attendance_id = da.id
		WHERE ae.employee_id = $1 AND ae.event_id = $2
	`

	var day attendance.DailyAttendance
	err := q.QueryRow(ctx, query, employeeID, eventID).Scan(
		&day.ID, &day.CompanyID, &day.EmployeeID, &day.Date,
		&day.SignInTime, &day.SignOutTime, &day.WorkMinutes, &day.Status, &day.Notes,
		&day.CreatedAt, &day.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.DailyAttendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.DailyAttendance{}, err
	}

	return day, nil
}

// RecordEventID implements attendance.Repository.
func (r *attendanceRepositoryImpl) RecordEventID(ctx context.Context, employeeID, eventID, attendanceID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_events (employee_id, event_id, attendance_id, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (employee_id, event_id) DO NOTHING
	`

	_, err := q.Exec(ctx, query, employeeID, eventID, attendanceID)
	return err
}

// MarkAbsentees implements attendance.Repository. One insert covers every
// active employee missing a row on date; company holidays land as holiday
// instead of absent.
func (r *attendanceRepositoryImpl) MarkAbsentees(ctx context.Context, companyID string, date time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO daily_attendances (id, company_id, employee_id, date, status, created_at, updated_at)
		SELECT uuidv7(), e.company_id, e.id, $2,
			   CASE WHEN EXISTS (
					SELECT 1 FROM company_holidays ch
					WHERE ch.company_id = e.company_id AND ch.date = $2
			   ) THEN 'holiday' ELSE 'absent' END,
			   NOW(), NOW()
		FROM employees e
		WHERE e.company_id = $1
		  AND e.is_active
		  AND NOT EXISTS (
				SELECT 1 FROM daily_attendances da
				WHERE da.employee_id = e.id AND da.date = $2
		  )
		ON CONFLICT (company_id, employee_id, date) DO NOTHING
	`

	result, err := q.Exec(ctx, query, companyID, date)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// MarkStatusRange implements attendance.Repository.
func (r *attendanceRepositoryImpl) MarkStatusRange(ctx context.Context, employeeID, companyID string, from, to time.Time, status attendance.Status) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO daily_attendances (id, company_id, employee_id, date, status, created_at, updated_at)
		SELECT uuidv7(), $2, $1, d::date, $5, NOW(), NOW()
		FROM generate_series($3::date, $4::date, interval '1 day') AS d
		ON CONFLICT (company_id, employee_id, date) DO NOTHING
	`

	result, err := q.Exec(ctx, query, employeeID, companyID, from, to, status)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// UnmarkStatusRange implements attendance.Repository. Only derived rows are
// removed; anything with a recorded timestamp stays.
func (r *attendanceRepositoryImpl) UnmarkStatusRange(ctx context.Context, employeeID, companyID string, from, to time.Time, status attendance.Status) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM daily_attendances
		WHERE employee_id = $1 AND company_id = $2
		  AND date BETWEEN $3 AND $4
		  AND status = $5
		  AND sign_in_time IS NULL AND sign_out_time IS NULL
	`

	result, err := q.Exec(ctx, query, employeeID, companyID, from, to, status)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
