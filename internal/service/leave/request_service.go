package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shiftwise/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftwise/attendance-backend-go/internal/domain/leave"
	"github.com/shiftwise/attendance-backend-go/internal/pkg/database"
)

// RequestServiceImpl coordinates the request lifecycle: every status
// transition and its ledger effect run in one transaction, so a request can
// never disagree with the balance it holds days against.
type RequestServiceImpl struct {
	tx         database.TxRunner
	requests   leave.RequestRepository
	types      leave.LeaveTypeRepository
	ledger     leave.LedgerService
	attendance attendance.Repository
}

func NewRequestService(
	tx database.TxRunner,
	requestRepo leave.RequestRepository,
	typeRepo leave.LeaveTypeRepository,
	ledger leave.LedgerService,
	attendanceRepo attendance.Repository,
) leave.RequestService {
	return &RequestServiceImpl{
		tx:         tx,
		requests:   requestRepo,
		types:      typeRepo,
		ledger:     ledger,
		attendance: attendanceRepo,
	}
}

// daysInclusive counts calendar days in [start, end], both midnights.
func daysInclusive(start, end time.Time) decimal.Decimal {
	return decimal.NewFromInt(int64(end.Sub(start).Hours()/24) + 1)
}

// Create implements leave.RequestService. Overlap check, reservation and
// insert share a transaction; when the leave type needs no approval the
// commit happens in the same transaction and the request lands approved.
func (s *RequestServiceImpl) Create(ctx context.Context, req leave.CreateRequestRequest) (leave.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	leaveType, err := s.types.GetByID(ctx, req.LeaveTypeID, req.CompanyID)
	if err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to get leave type: %w", err)
	}

	days := daysInclusive(start, end)
	year := start.Year()
	now := time.Now().UTC()

	var created leave.Request
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		overlapping, err := s.requests.HasOverlapping(ctx, req.EmployeeID, start, end, leave.ActiveStatuses)
		if err != nil {
			return fmt.Errorf("failed to check overlapping requests: %w", err)
		}
		if overlapping {
			return leave.ErrOverlapConflict
		}

		if err := s.ledger.Reserve(ctx, req.EmployeeID, req.LeaveTypeID, year, days); err != nil {
			return err
		}

		created, err = s.requests.Create(ctx, leave.Request{
			EmployeeID:    req.EmployeeID,
			LeaveTypeID:   req.LeaveTypeID,
			StartDate:     start,
			EndDate:       end,
			DaysRequested: days,
			Reason:        req.Reason,
			Status:        leave.RequestStatusPending,
			SubmittedAt:   now,
		})
		if err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}

		if !leaveType.RequiresApproval {
			if err := s.ledger.Commit(ctx, req.EmployeeID, req.LeaveTypeID, year, days); err != nil {
				return err
			}
			if err := s.requests.UpdateStatus(ctx, leave.UpdateRequestStatus{
				ID:         created.ID,
				Status:     leave.RequestStatusApproved,
				ApprovedAt: &now,
			}); err != nil {
				return fmt.Errorf("failed to auto-approve leave request: %w", err)
			}
			created.Status = leave.RequestStatusApproved
			created.ApprovedAt = &now

			if _, err := s.attendance.MarkStatusRange(ctx, req.EmployeeID, req.CompanyID, start, end, attendance.StatusLeave); err != nil {
				return fmt.Errorf("failed to mark leave days: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return leave.RequestResponse{}, err
	}

	resp := leave.NewRequestResponse(created)
	resp.LeaveTypeName = &leaveType.Name
	return resp, nil
}

// Approve implements leave.RequestService.
func (s *RequestServiceImpl) Approve(ctx context.Context, requestID, companyID, approverID string) (leave.RequestResponse, error) {
	request, err := s.requests.GetByID(ctx, requestID, companyID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if request.Status != leave.RequestStatusPending {
		return leave.RequestResponse{}, leave.ErrRequestAlreadyProcessed
	}

	now := time.Now().UTC()
	year := request.StartDate.Year()

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.ledger.Commit(ctx, request.EmployeeID, request.LeaveTypeID, year, request.DaysRequested); err != nil {
			return err
		}
		if err := s.requests.UpdateStatus(ctx, leave.UpdateRequestStatus{
			ID:         request.ID,
			Status:     leave.RequestStatusApproved,
			ApprovedBy: &approverID,
			ApprovedAt: &now,
		}); err != nil {
			return fmt.Errorf("failed to update request status: %w", err)
		}
		if _, err := s.attendance.MarkStatusRange(ctx, request.EmployeeID, companyID, request.StartDate, request.EndDate, attendance.StatusLeave); err != nil {
			return fmt.Errorf("failed to mark leave days: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.RequestResponse{}, err
	}

	request.Status = leave.RequestStatusApproved
	request.ApprovedBy = &approverID
	request.ApprovedAt = &now
	return leave.NewRequestResponse(request), nil
}

// Reject implements leave.RequestService.
func (s *RequestServiceImpl) Reject(ctx context.Context, requestID, companyID, rejecterID, reason string) (leave.RequestResponse, error) {
	request, err := s.requests.GetByID(ctx, requestID, companyID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if request.Status != leave.RequestStatusPending {
		return leave.RequestResponse{}, leave.ErrRequestAlreadyProcessed
	}

	year := request.StartDate.Year()

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.ledger.Release(ctx, request.EmployeeID, request.LeaveTypeID, year, request.DaysRequested, leave.RequestStatusPending); err != nil {
			return err
		}
		if err := s.requests.UpdateStatus(ctx, leave.UpdateRequestStatus{
			ID:              request.ID,
			Status:          leave.RequestStatusRejected,
			ApprovedBy:      &rejecterID,
			RejectionReason: &reason,
		}); err != nil {
			return fmt.Errorf("failed to update request status: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.RequestResponse{}, err
	}

	request.Status = leave.RequestStatusRejected
	request.RejectionReason = &reason
	return leave.NewRequestResponse(request), nil
}

// Cancel implements leave.RequestService. Pending requests release their
// reservation; approved requests can only be cancelled before the leave
// starts, returning the committed days and removing the derived leave rows.
func (s *RequestServiceImpl) Cancel(ctx context.Context, requestID, companyID, cancelledBy string) (leave.RequestResponse, error) {
	request, err := s.requests.GetByID(ctx, requestID, companyID)
	if err != nil {
		return leave.RequestResponse{}, err
	}

	now := time.Now().UTC()
	year := request.StartDate.Year()

	var releaseFrom leave.RequestStatus
	switch request.Status {
	case leave.RequestStatusPending:
		releaseFrom = leave.RequestStatusPending
	case leave.RequestStatusApproved:
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if !request.StartDate.After(today) {
			return leave.RequestResponse{}, leave.ErrLeaveAlreadyStarted
		}
		releaseFrom = leave.RequestStatusApproved
	default:
		return leave.RequestResponse{}, leave.ErrRequestAlreadyProcessed
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.ledger.Release(ctx, request.EmployeeID, request.LeaveTypeID, year, request.DaysRequested, releaseFrom); err != nil {
			return err
		}
		if err := s.requests.UpdateStatus(ctx, leave.UpdateRequestStatus{
			ID:          request.ID,
			Status:      leave.RequestStatusCancelled,
			CancelledBy: &cancelledBy,
			CancelledAt: &now,
		}); err != nil {
			return fmt.Errorf("failed to update request status: %w", err)
		}
		if releaseFrom == leave.RequestStatusApproved {
			if _, err := s.attendance.UnmarkStatusRange(ctx, request.EmployeeID, companyID, request.StartDate, request.EndDate, attendance.StatusLeave); err != nil {
				return fmt.Errorf("failed to unmark leave days: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return leave.RequestResponse{}, err
	}

	request.Status = leave.RequestStatusCancelled
	request.CancelledBy = &cancelledBy
	request.CancelledAt = &now
	return leave.NewRequestResponse(request), nil
}

// GetByID implements leave.RequestService.
func (s *RequestServiceImpl) GetByID(ctx context.Context, requestID, companyID string) (leave.RequestResponse, error) {
	request, err := s.requests.GetByID(ctx, requestID, companyID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	return leave.NewRequestResponse(request), nil
}

// ListByEmployee implements leave.RequestService.
func (s *RequestServiceImpl) ListByEmployee(ctx context.Context, employeeID, companyID string) ([]leave.RequestResponse, error) {
	requests, err := s.requests.ListByEmployee(ctx, employeeID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.RequestResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, leave.NewRequestResponse(request))
	}
	return responses, nil
}
