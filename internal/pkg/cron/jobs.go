package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shiftwise/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftwise/attendance-backend-go/internal/domain/employee"
	"github.com/shiftwise/attendance-backend-go/internal/domain/leave"
)

// Jobs holds the periodic maintenance work: closing out each day's
// attendance and gap-filling leave balances at the start of a year.
type Jobs struct {
	attendanceRepo attendance.Repository
	employeeRepo   employee.Repository
	ledger         leave.LedgerService
	now            func() time.Time
}

func NewJobs(attendanceRepo attendance.Repository, employeeRepo employee.Repository, ledger leave.LedgerService) *Jobs {
	return &Jobs{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		ledger:         ledger,
		now:            time.Now,
	}
}

func (j *Jobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("mark_absent_employees", 1*time.Hour, j.MarkAbsentEmployees)
	scheduler.AddJob("initialize_leave_year", 12*time.Hour, j.InitializeLeaveYear)
}

// MarkAbsentEmployees closes out the previous UTC day: every active employee
// without a row gets one, absent or holiday. Runs hourly but only acts in the
// first hour after midnight UTC; day boundaries are UTC everywhere, companies
// do not carry a timezone. The insert is conflict-free so a rerun after a
// missed window is safe.
func (j *Jobs) MarkAbsentEmployees(ctx context.Context) error {
	now := j.now().UTC()
	if now.Hour() != 0 {
		return nil
	}

	yesterday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)

	companyIDs, err := j.employeeRepo.ActiveCompanyIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active companies: %w", err)
	}

	var total int64
	for _, companyID := range companyIDs {
		marked, err := j.attendanceRepo.MarkAbsentees(ctx, companyID, yesterday)
		if err != nil {
			slog.Error("failed to mark absentees", "company_id", companyID, "date", yesterday, "error", err)
			continue
		}
		total += marked
	}

	slog.Info("marked absent employees", "date", yesterday.Format("2006-01-02"), "rows", total)
	return nil
}

// InitializeLeaveYear gap-fills balance rows for the current year. Only acts
// in January; the bulk insert skips existing rows, so repeated runs are
// harmless.
func (j *Jobs) InitializeLeaveYear(ctx context.Context) error {
	now := j.now().UTC()
	if now.Month() != time.January {
		return nil
	}

	companyIDs, err := j.employeeRepo.ActiveCompanyIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active companies: %w", err)
	}

	for _, companyID := range companyIDs {
		if _, err := j.ledger.InitializeYear(ctx, companyID, now.Year()); err != nil {
			slog.Error("failed to initialize leave year", "company_id", companyID, "year", now.Year(), "error", err)
		}
	}

	return nil
}
