package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shiftwise/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftwise/attendance-backend-go/internal/domain/employee"
	"github.com/shiftwise/attendance-backend-go/internal/domain/schedule"
	"github.com/shiftwise/attendance-backend-go/internal/pkg/database"
)

type ServiceImpl struct {
	tx        database.TxRunner
	days      attendance.Repository
	employees employee.Repository
}

func NewService(tx database.TxRunner, attendanceRepo attendance.Repository, employeeRepo employee.Repository) attendance.Service {
	return &ServiceImpl{
		tx:        tx,
		days:      attendanceRepo,
		employees: employeeRepo,
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(time.RFC3339)
	return &format
}

// RecordEvent implements attendance.Service. One event in, one idempotent
// update of the day's row out. All identifiers and the schedule arrive as
// explicit parameters; nothing is read from ambient session state.
func (s *ServiceImpl) RecordEvent(ctx context.Context, req attendance.RecordEventRequest) (attendance.RecordEventResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordEventResponse{}, err
	}

	ts := req.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	// Replay of a known event id returns the current snapshot untouched, so
	// retried deliveries do not duplicate notes. Events submitted without an
	// id get one assigned here so every delivery ends up in the replay table.
	if req.EventID == nil {
		id := uuid.Must(uuid.NewV7()).String()
		req.EventID = &id
	} else {
		day, err := s.days.GetByEventID(ctx, req.EmployeeID, *req.EventID)
		if err == nil {
			resp := snapshotResponse(day, false)
			resp.Replayed = true
			return resp, nil
		}
		if !errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.RecordEventResponse{}, fmt.Errorf("failed to look up event id: %w", err)
		}
	}

	sched := req.Schedule
	if sched == nil && req.Type == attendance.EventSignIn {
		sched = s.resolveSchedule(ctx, req.EmployeeID, req.CompanyID, ts)
	}

	ev := attendance.Event{
		EventID:    req.EventID,
		CompanyID:  req.CompanyID,
		EmployeeID: req.EmployeeID,
		Type:       req.Type,
		Timestamp:  ts,
		Notes:      req.Notes,
	}

	var result ApplyResult
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		result, err = s.applyEvent(ctx, ev, sched)
		if err != nil {
			return err
		}
		if ev.EventID != nil {
			if err := s.days.RecordEventID(ctx, ev.EmployeeID, *ev.EventID, result.Day.ID); err != nil {
				return fmt.Errorf("failed to record event id: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return attendance.RecordEventResponse{}, err
	}

	if result.ClockSkew {
		slog.Warn("sign-out earlier than sign-in, work duration skipped",
			"employee_id", ev.EmployeeID,
			"sign_in", result.Day.SignInTime,
			"sign_out", result.Day.SignOutTime,
		)
	}
	if result.LongShift {
		slog.Warn("implausibly long shift recorded",
			"employee_id", ev.EmployeeID,
			"work_minutes", result.Day.WorkMinutes,
		)
	}

	return snapshotResponse(result.Day, result.IsLate), nil
}

// applyEvent find-or-creates the day row under a row lock and persists the
// applied snapshot. Must run inside a transaction.
func (s *ServiceImpl) applyEvent(ctx context.Context, ev attendance.Event, sched *schedule.WorkSchedule) (ApplyResult, error) {
	date := DayOf(ev.Timestamp)

	day, err := s.days.GetByEmployeeAndDateForUpdate(ctx, ev.EmployeeID, date, ev.CompanyID)
	switch {
	case err == nil:
		result := Apply(&day, ev, sched)
		if err := s.days.Update(ctx, result.Day); err != nil {
			return ApplyResult{}, fmt.Errorf("failed to update attendance record: %w", err)
		}
		return result, nil

	case errors.Is(err, attendance.ErrAttendanceNotFound):
		result := Apply(nil, ev, sched)
		created, err := s.days.Create(ctx, result.Day)
		if err == nil {
			result.Day = created
			return result, nil
		}
		// Lost the insert race for the first event of the day: another
		// worker created the row between our lock attempt and the insert.
		// Create swallows the conflict instead of erroring, so the
		// transaction is still healthy and the winner's row can be locked
		// and updated here.
		if errors.Is(err, attendance.ErrAttendanceExists) {
			day, getErr := s.days.GetByEmployeeAndDateForUpdate(ctx, ev.EmployeeID, date, ev.CompanyID)
			if getErr != nil {
				return ApplyResult{}, fmt.Errorf("failed to reload attendance record: %w", getErr)
			}
			result = Apply(&day, ev, sched)
			if err := s.days.Update(ctx, result.Day); err != nil {
				return ApplyResult{}, fmt.Errorf("failed to update attendance record: %w", err)
			}
			return result, nil
		}
		return ApplyResult{}, fmt.Errorf("failed to create attendance record: %w", err)

	default:
		return ApplyResult{}, fmt.Errorf("failed to get attendance record: %w", err)
	}
}

// resolveSchedule reads the employee's schedule blob and resolves it for the
// event's weekday. Any failure degrades to nil: attendance is never blocked,
// and the sign-in is simply not late.
func (s *ServiceImpl) resolveSchedule(ctx context.Context, employeeID, companyID string, ts time.Time) *schedule.WorkSchedule {
	emp, err := s.employees.GetByID(ctx, employeeID, companyID)
	if err != nil {
		slog.Warn("schedule lookup failed, treating sign-in as on time",
			"employee_id", employeeID,
			"error", err,
		)
		return nil
	}
	return schedule.Resolve(emp.WorkSchedule, ts.Weekday())
}

// ListRange implements attendance.Service.
func (s *ServiceImpl) ListRange(ctx context.Context, req attendance.ListRangeRequest) (attendance.ListRangeResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ListRangeResponse{}, err
	}

	from, _ := time.Parse("2006-01-02", req.From)
	to, _ := time.Parse("2006-01-02", req.To)

	days, err := s.days.ListRange(ctx, req.EmployeeID, from, to, req.CompanyID)
	if err != nil {
		return attendance.ListRangeResponse{}, fmt.Errorf("failed to list attendance range: %w", err)
	}

	resp := attendance.ListRangeResponse{
		EmployeeID: req.EmployeeID,
		Days:       make([]attendance.DayResponse, 0, len(days)),
	}
	for _, day := range days {
		resp.Days = append(resp.Days, attendance.DayResponse{
			ID:          day.ID,
			EmployeeID:  day.EmployeeID,
			Date:        day.Date.Format("2006-01-02"),
			Status:      string(day.Status),
			SignInTime:  timePtrToString(day.SignInTime),
			SignOutTime: timePtrToString(day.SignOutTime),
			WorkMinutes: day.WorkMinutes,
			Notes:       day.Notes,
		})
	}
	return resp, nil
}

func snapshotResponse(day attendance.DailyAttendance, isLate bool) attendance.RecordEventResponse {
	return attendance.RecordEventResponse{
		ID:          day.ID,
		EmployeeID:  day.EmployeeID,
		Date:        day.Date.Format("2006-01-02"),
		Status:      string(day.Status),
		SignInTime:  timePtrToString(day.SignInTime),
		SignOutTime: timePtrToString(day.SignOutTime),
		WorkMinutes: day.WorkMinutes,
		Notes:       day.Notes,
		IsLate:      isLate,
	}
}
