package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shiftwise/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftwise/attendance-backend-go/internal/domain/user"
	"github.com/shiftwise/attendance-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	RecordEvent(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	GetEmployeeAttendance(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.Service
}

func NewAttendanceHandler(attendanceService attendance.Service) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

type recordEventBody struct {
	EmployeeID *string    `json:"employee_id"`
	EventID    *string    `json:"event_id"`
	Type       string     `json:"type"`
	Timestamp  *time.Time `json:"timestamp"`
	Notes      *string    `json:"notes"`
}

// RecordEvent implements AttendanceHandler. Employees record their own
// events; admins may record for any employee by setting employee_id.
func (h *attendanceHandlerImpl) RecordEvent(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var body recordEventBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	employeeID := claims.EmployeeID
	if body.EmployeeID != nil && *body.EmployeeID != employeeID {
		if claims.Role != user.RoleAdmin {
			response.Forbidden(w, "Cannot record attendance for another employee")
			return
		}
		employeeID = *body.EmployeeID
	}
	if employeeID == "" {
		response.BadRequest(w, "No employee profile linked to this account", nil)
		return
	}

	req := attendance.RecordEventRequest{
		CompanyID:  claims.CompanyID,
		EmployeeID: employeeID,
		EventID:    body.EventID,
		Type:       attendance.EventType(body.Type),
		Notes:      body.Notes,
	}
	if body.Timestamp != nil {
		req.Timestamp = *body.Timestamp
	}

	result, err := h.attendanceService.RecordEvent(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance event recorded", result)
}

// GetMyAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if claims.EmployeeID == "" {
		response.BadRequest(w, "No employee profile linked to this account", nil)
		return
	}

	h.listRange(w, r, claims.EmployeeID, claims.CompanyID)
}

// GetEmployeeAttendance implements AttendanceHandler. Admin only, enforced by
// the router.
func (h *attendanceHandlerImpl) GetEmployeeAttendance(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.listRange(w, r, chi.URLParam(r, "employeeID"), claims.CompanyID)
}

func (h *attendanceHandlerImpl) listRange(w http.ResponseWriter, r *http.Request, employeeID, companyID string) {
	req := attendance.ListRangeRequest{
		CompanyID:  companyID,
		EmployeeID: employeeID,
		From:       r.URL.Query().Get("from"),
		To:         r.URL.Query().Get("to"),
	}

	result, err := h.attendanceService.ListRange(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
