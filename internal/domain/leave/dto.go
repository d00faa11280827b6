package leave

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shiftwise/attendance-backend-go/internal/pkg/validator"
)

type CreateRequestRequest struct {
	CompanyID   string
	EmployeeID  string
	LeaveTypeID string
	StartDate   string
	EndDate     string
	Reason      string
}

func (r *CreateRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.LeaveTypeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_id",
			Message: "leave_type_id is required",
		})
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be a valid date (YYYY-MM-DD)",
		})
	}

	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be a valid date (YYYY-MM-DD)",
		})
	}

	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateRequestStatus carries the fields of one status transition.
type UpdateRequestStatus struct {
	ID              string
	Status          RequestStatus
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string
	CancelledBy     *string
	CancelledAt     *time.Time
}

type RequestResponse struct {
	ID              string          `json:"id"`
	EmployeeID      string          `json:"employee_id"`
	EmployeeName    *string         `json:"employee_name,omitempty"`
	LeaveTypeID     string          `json:"leave_type_id"`
	LeaveTypeName   *string         `json:"leave_type_name,omitempty"`
	StartDate       string          `json:"start_date"`
	EndDate         string          `json:"end_date"`
	DaysRequested   decimal.Decimal `json:"days_requested"`
	Reason          string          `json:"reason"`
	Status          string          `json:"status"`
	ApprovedBy      *string         `json:"approved_by,omitempty"`
	RejectionReason *string         `json:"rejection_reason,omitempty"`
	SubmittedAt     time.Time       `json:"submitted_at"`
}

type BalanceResponse struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	LeaveTypeID   string          `json:"leave_type_id"`
	LeaveTypeName *string         `json:"leave_type_name,omitempty"`
	Year          int             `json:"year"`
	AllocatedDays decimal.Decimal `json:"allocated_days"`
	UsedDays      decimal.Decimal `json:"used_days"`
	PendingDays   decimal.Decimal `json:"pending_days"`
	RemainingDays decimal.Decimal `json:"remaining_days"`
}

func NewRequestResponse(req Request) RequestResponse {
	return RequestResponse{
		ID:              req.ID,
		EmployeeID:      req.EmployeeID,
		EmployeeName:    req.EmployeeName,
		LeaveTypeID:     req.LeaveTypeID,
		LeaveTypeName:   req.LeaveTypeName,
		StartDate:       req.StartDate.Format("2006-01-02"),
		EndDate:         req.EndDate.Format("2006-01-02"),
		DaysRequested:   req.DaysRequested,
		Reason:          req.Reason,
		Status:          string(req.Status),
		ApprovedBy:      req.ApprovedBy,
		RejectionReason: req.RejectionReason,
		SubmittedAt:     req.SubmittedAt,
	}
}

func NewBalanceResponse(b Balance) BalanceResponse {
	return BalanceResponse{
		ID:            b.ID,
		EmployeeID:    b.EmployeeID,
		LeaveTypeID:   b.LeaveTypeID,
		LeaveTypeName: b.LeaveTypeName,
		Year:          b.Year,
		AllocatedDays: b.AllocatedDays,
		UsedDays:      b.UsedDays,
		PendingDays:   b.PendingDays,
		RemainingDays: b.Remaining(),
	}
}
