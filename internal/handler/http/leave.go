package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shiftwise/attendance-backend-go/internal/domain/leave"
	"github.com/shiftwise/attendance-backend-go/internal/domain/user"
	"github.com/shiftwise/attendance-backend-go/internal/handler/http/response"
)

type LeaveHandler interface {
	CreateRequest(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	ListMyRequests(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
	RejectRequest(w http.ResponseWriter, r *http.Request)
	CancelRequest(w http.ResponseWriter, r *http.Request)
	GetMyBalances(w http.ResponseWriter, r *http.Request)
	GetEmployeeBalances(w http.ResponseWriter, r *http.Request)
	InitializeYear(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	requestService leave.RequestService
	ledgerService  leave.LedgerService
}

func NewLeaveHandler(requestService leave.RequestService, ledgerService leave.LedgerService) LeaveHandler {
	return &leaveHandlerImpl{
		requestService: requestService,
		ledgerService:  ledgerService,
	}
}

type createRequestBody struct {
	LeaveTypeID string `json:"leave_type_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Reason      string `json:"reason"`
}

// CreateRequest implements LeaveHandler.
func (h *leaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if claims.EmployeeID == "" {
		response.BadRequest(w, "No employee profile linked to this account", nil)
		return
	}

	var body createRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.requestService.Create(r.Context(), leave.CreateRequestRequest{
		CompanyID:   claims.CompanyID,
		EmployeeID:  claims.EmployeeID,
		LeaveTypeID: body.LeaveTypeID,
		StartDate:   body.StartDate,
		EndDate:     body.EndDate,
		Reason:      body.Reason,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted", result)
}

// GetRequest implements LeaveHandler. Employees only see their own requests.
func (h *leaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.requestService.GetByID(r.Context(), chi.URLParam(r, "requestID"), claims.CompanyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if claims.Role != user.RoleAdmin && result.EmployeeID != claims.EmployeeID {
		response.HandleError(w, leave.ErrUnauthorizedAccess)
		return
	}

	response.Success(w, result)
}

// ListMyRequests implements LeaveHandler.
func (h *leaveHandlerImpl) ListMyRequests(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if claims.EmployeeID == "" {
		response.BadRequest(w, "No employee profile linked to this account", nil)
		return
	}

	result, err := h.requestService.ListByEmployee(r.Context(), claims.EmployeeID, claims.CompanyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ApproveRequest implements LeaveHandler. Admin only, enforced by the router.
func (h *leaveHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.requestService.Approve(r.Context(), chi.URLParam(r, "requestID"), claims.CompanyID, claims.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved", result)
}

type rejectRequestBody struct {
	Reason string `json:"reason"`
}

// RejectRequest implements LeaveHandler. Admin only, enforced by the router.
func (h *leaveHandlerImpl) RejectRequest(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var body rejectRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.requestService.Reject(r.Context(), chi.URLParam(r, "requestID"), claims.CompanyID, claims.UserID, body.Reason)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected", result)
}

// CancelRequest implements LeaveHandler. Employees cancel their own requests,
// admins may cancel any.
func (h *leaveHandlerImpl) CancelRequest(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	requestID := chi.URLParam(r, "requestID")

	if claims.Role != user.RoleAdmin {
		existing, err := h.requestService.GetByID(r.Context(), requestID, claims.CompanyID)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		if existing.EmployeeID != claims.EmployeeID {
			response.HandleError(w, leave.ErrUnauthorizedAccess)
			return
		}
	}

	result, err := h.requestService.Cancel(r.Context(), requestID, claims.CompanyID, claims.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request cancelled", result)
}

// GetMyBalances implements LeaveHandler.
func (h *leaveHandlerImpl) GetMyBalances(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if claims.EmployeeID == "" {
		response.BadRequest(w, "No employee profile linked to this account", nil)
		return
	}

	h.listBalances(w, r, claims.EmployeeID)
}

// GetEmployeeBalances implements LeaveHandler. Admin only, enforced by the
// router.
func (h *leaveHandlerImpl) GetEmployeeBalances(w http.ResponseWriter, r *http.Request) {
	h.listBalances(w, r, chi.URLParam(r, "employeeID"))
}

func (h *leaveHandlerImpl) listBalances(w http.ResponseWriter, r *http.Request, employeeID string) {
	year := time.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "year must be a number", nil)
			return
		}
		year = parsed
	}

	result, err := h.ledgerService.ListBalances(r.Context(), employeeID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

type initializeYearBody struct {
	Year int `json:"year"`
}

// InitializeYear implements LeaveHandler. Admin only, enforced by the router.
// Safe to call repeatedly, existing balances are never touched.
func (h *leaveHandlerImpl) InitializeYear(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var body initializeYearBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if body.Year == 0 {
		body.Year = time.Now().Year()
	}

	created, err := h.ledgerService.InitializeYear(r.Context(), claims.CompanyID, body.Year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave year initialized", map[string]int64{"balances_created": created})
}
