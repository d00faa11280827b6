package attendance

import (
	"time"
)

// Status is the derived state of a day. Clients never set it directly; it is
// computed from the day's event stream (and cron jobs for absent/holiday/leave).
type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half_day"
	StatusAbsent  Status = "absent"
	StatusHoliday Status = "holiday"
	StatusLeave   Status = "leave"
)

type EventType string

const (
	EventSignIn  EventType = "sign_in"
	EventSignOut EventType = "sign_out"
)

// DailyAttendance is the single derived record per (employee, date). Created on
// the first event of a day, mutated by later events, never deleted.
type DailyAttendance struct {
	ID          string
	CompanyID   string
	EmployeeID  string
	Date        time.Time // midnight of the working day
	SignInTime  *time.Time
	SignOutTime *time.Time
	WorkMinutes *int
	Status      Status
	Notes       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// DTO
	EmployeeName *string
}

// Event is one raw sign-in/sign-out observation. EventID is an optional
// client-generated idempotency key; replays with the same id are not reapplied.
type Event struct {
	EventID    *string
	CompanyID  string
	EmployeeID string
	Type       EventType
	Timestamp  time.Time
	Notes      *string
}
