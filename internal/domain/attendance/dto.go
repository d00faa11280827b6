package attendance

import (
	"time"

	"github.com/shiftwise/attendance-backend-go/internal/domain/schedule"
	"github.com/shiftwise/attendance-backend-go/internal/pkg/validator"
)

// RecordEventRequest carries one raw event into the tracker. Timestamp may be
// zero (defaults to now) to support live events; offline-queued clients send
// the original capture time. Schedule, when set, overrides the registry lookup
// for the lateness comparison.
type RecordEventRequest struct {
	CompanyID  string
	EmployeeID string
	EventID    *string
	Type       EventType
	Timestamp  time.Time
	Notes      *string
	Schedule   *schedule.WorkSchedule
}

func (r *RecordEventRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CompanyID) {
		errs = append(errs, validator.ValidationError{
			Field:   "company_id",
			Message: "company_id is required",
		})
	}

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.Type != EventSignIn && r.Type != EventSignOut {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be sign_in or sign_out",
		})
	}

	if r.EventID != nil && !validator.IsValidUUID(*r.EventID) {
		errs = append(errs, validator.ValidationError{
			Field:   "event_id",
			Message: "event_id must be a valid UUIDv7",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RecordEventResponse is the updated day snapshot returned to the ingestion
// caller, used for audit logging and the API response.
type RecordEventResponse struct {
	ID          string  `json:"id"`
	EmployeeID  string  `json:"employee_id"`
	Date        string  `json:"date"`
	Status      string  `json:"status"`
	SignInTime  *string `json:"sign_in_time"`
	SignOutTime *string `json:"sign_out_time"`
	WorkMinutes *int    `json:"work_minutes"`
	Notes       *string `json:"notes,omitempty"`
	IsLate      bool    `json:"is_late"`
	Replayed    bool    `json:"replayed,omitempty"`
}

type ListRangeRequest struct {
	CompanyID  string
	EmployeeID string
	From       string
	To         string
}

func (r *ListRangeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if _, ok := validator.IsValidDate(r.From); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "from",
			Message: "from must be a valid date (YYYY-MM-DD)",
		})
	}

	if _, ok := validator.IsValidDate(r.To); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to must be a valid date (YYYY-MM-DD)",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DayResponse struct {
	ID          string  `json:"id"`
	EmployeeID  string  `json:"employee_id"`
	Date        string  `json:"date"`
	Status      string  `json:"status"`
	SignInTime  *string `json:"sign_in_time"`
	SignOutTime *string `json:"sign_out_time"`
	WorkMinutes *int    `json:"work_minutes"`
	Notes       *string `json:"notes,omitempty"`
}

type ListRangeResponse struct {
	EmployeeID string        `json:"employee_id"`
	Days       []DayResponse `json:"days"`
}
