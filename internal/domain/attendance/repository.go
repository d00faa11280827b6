package attendance

import (
	"context"
	"time"
)

// Repository defines data access for daily attendance rows.
// All methods carry companyID to prevent cross-company access.
type Repository interface {
	// Create inserts a new day row. Returns ErrAttendanceExists when a row
	// for (company, employee, date) is already there; the insert attempt
	// never aborts a surrounding transaction, so callers may reload and
	// update instead.
	Create(ctx context.Context, day DailyAttendance) (DailyAttendance, error)

	// GetByEmployeeAndDate retrieves the day row for an employee.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (DailyAttendance, error)

	// GetByEmployeeAndDateForUpdate is GetByEmployeeAndDate with a row lock.
	// Must be called inside a transaction; serializes concurrent events for
	// the same (employee, date).
	GetByEmployeeAndDateForUpdate(ctx context.Context, employeeID string, date time.Time, companyID string) (DailyAttendance, error)

	// Update persists the mutable fields of an existing day row.
	Update(ctx context.Context, day DailyAttendance) error

	// ListRange retrieves an employee's rows for [from, to] inclusive.
	ListRange(ctx context.Context, employeeID string, from, to time.Time, companyID string) ([]DailyAttendance, error)

	// GetByEventID resolves a previously recorded event id to its day row.
	// Returns ErrAttendanceNotFound when the event was never seen.
	GetByEventID(ctx context.Context, employeeID, eventID string) (DailyAttendance, error)

	// RecordEventID remembers an applied event id for replay detection.
	RecordEventID(ctx context.Context, employeeID, eventID, attendanceID string) error

	// MarkAbsentees inserts absent rows for active employees with no row on
	// date. Existing rows are left untouched. Returns the number inserted.
	MarkAbsentees(ctx context.Context, companyID string, date time.Time) (int64, error)

	// MarkStatusRange inserts rows with the given derived status for every day
	// in [from, to]. Existing rows are never demoted. Returns rows inserted.
	MarkStatusRange(ctx context.Context, employeeID, companyID string, from, to time.Time, status Status) (int64, error)

	// UnmarkStatusRange deletes derived rows with the given status in
	// [from, to]. Rows carrying real sign-in or sign-out timestamps are kept.
	UnmarkStatusRange(ctx context.Context, employeeID, companyID string, from, to time.Time, status Status) (int64, error)
}
