package attendance

import (
	"math"
	"time"

	"github.com/shiftwise/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftwise/attendance-backend-go/internal/domain/schedule"
)

const (
	// GracePeriod is the tolerance added to the scheduled start before a
	// sign-in counts as late.
	GracePeriod = 5 * time.Minute

	// Below this worked duration the day is downgraded to half_day.
	halfDayMinutes = 240

	// Shifts longer than this are flagged for review, not rejected.
	longShiftMinutes = 16 * 60
)

// ApplyResult is the outcome of applying one event to a day row.
type ApplyResult struct {
	Day    attendance.DailyAttendance
	IsLate bool

	// ClockSkew: the sign-out precedes the sign-in, so no duration was
	// computed. LongShift: the computed duration exceeds a plausible shift.
	// Both are review flags, never errors.
	ClockSkew bool
	LongShift bool
}

// DayOf returns the working-day key for a timestamp: midnight in the
// timestamp's location.
func DayOf(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
}

// Apply computes the day snapshot after one raw event. day is nil when no row
// exists yet for the event's date. sched is the resolved work schedule, nil
// when none applies; a nil schedule means the sign-in is never late. Apply is
// pure: it never reads clocks, config, or storage.
func Apply(day *attendance.DailyAttendance, ev attendance.Event, sched *schedule.WorkSchedule) ApplyResult {
	var out attendance.DailyAttendance
	if day != nil {
		out = *day
	} else {
		out = attendance.DailyAttendance{
			CompanyID:  ev.CompanyID,
			EmployeeID: ev.EmployeeID,
			Date:       DayOf(ev.Timestamp),
		}
	}

	res := ApplyResult{}

	switch ev.Type {
	case attendance.EventSignIn:
		ts := ev.Timestamp
		out.SignInTime = &ts
		res.IsLate = isLate(ev.Timestamp, sched)
		if res.IsLate {
			out.Status = attendance.StatusLate
		} else {
			out.Status = attendance.StatusPresent
		}

	case attendance.EventSignOut:
		ts := ev.Timestamp
		out.SignOutTime = &ts
		if out.Status == "" {
			// No sign-in that day (crash recovery, offline sync). Do not
			// guess lateness.
			out.Status = attendance.StatusPresent
		}
	}

	out.Notes = appendNotes(out.Notes, ev.Notes)

	// Recompute the worked duration whenever both timestamps exist. This also
	// covers a sign-in arriving after its sign-out.
	if out.SignInTime != nil && out.SignOutTime != nil {
		mins := int(math.Round(out.SignOutTime.Sub(*out.SignInTime).Minutes()))
		switch {
		case mins < 0:
			// Clock skew from offline sync. Keep both timestamps, skip the
			// duration and flag the row instead of inventing a value.
			out.WorkMinutes = nil
			res.ClockSkew = true
		default:
			m := mins
			out.WorkMinutes = &m
			if mins < halfDayMinutes {
				out.Status = attendance.StatusHalfDay
			}
			if mins > longShiftMinutes {
				res.LongShift = true
			}
		}
	}

	res.Day = out
	return res
}

// isLate compares the sign-in against the schedule's start on the event's
// calendar date plus the grace period. Missing or unresolvable schedules fail
// open: never late.
func isLate(ts time.Time, sched *schedule.WorkSchedule) bool {
	if sched == nil {
		return false
	}
	start, ok := sched.StartOn(DayOf(ts))
	if !ok {
		return false
	}
	return ts.After(start.Add(GracePeriod))
}

// appendNotes semicolon-joins the incoming note onto the existing ones.
// Existing text is never replaced.
func appendNotes(existing, add *string) *string {
	if add == nil || *add == "" {
		return existing
	}
	if existing == nil || *existing == "" {
		note := *add
		return &note
	}
	joined := *existing + "; " + *add
	return &joined
}
