package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftwise/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftwise/attendance-backend-go/internal/domain/schedule"
)

func strPtr(s string) *string { return &s }

func signIn(ts time.Time) attendance.Event {
	return attendance.Event{
		CompanyID:  "company-1",
		EmployeeID: "employee-1",
		Type:       attendance.EventSignIn,
		Timestamp:  ts,
	}
}

func signOut(ts time.Time) attendance.Event {
	return attendance.Event{
		CompanyID:  "company-1",
		EmployeeID: "employee-1",
		Type:       attendance.EventSignOut,
		Timestamp:  ts,
	}
}

func TestApplySignInLateness(t *testing.T) {
	sched := &schedule.WorkSchedule{Start: "09:00"}
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		signInAt   time.Time
		schedule   *schedule.WorkSchedule
		wantLate   bool
		wantStatus attendance.Status
	}{
		{
			name:       "on time before start",
			signInAt:   day.Add(8*time.Hour + 55*time.Minute),
			schedule:   sched,
			wantLate:   false,
			wantStatus: attendance.StatusPresent,
		},
		{
			name:       "within grace period",
			signInAt:   day.Add(9*time.Hour + 4*time.Minute),
			schedule:   sched,
			wantLate:   false,
			wantStatus: attendance.StatusPresent,
		},
		{
			name:       "exactly at grace boundary",
			signInAt:   day.Add(9*time.Hour + 5*time.Minute),
			schedule:   sched,
			wantLate:   false,
			wantStatus: attendance.StatusPresent,
		},
		{
			name:       "one second past grace",
			signInAt:   day.Add(9*time.Hour + 5*time.Minute + time.Second),
			schedule:   sched,
			wantLate:   true,
			wantStatus: attendance.StatusLate,
		},
		{
			name:       "well past grace",
			signInAt:   day.Add(9*time.Hour + 30*time.Minute),
			schedule:   sched,
			wantLate:   true,
			wantStatus: attendance.StatusLate,
		},
		{
			name:       "no schedule is never late",
			signInAt:   day.Add(14 * time.Hour),
			schedule:   nil,
			wantLate:   false,
			wantStatus: attendance.StatusPresent,
		},
		{
			name:       "unparseable schedule start is never late",
			signInAt:   day.Add(14 * time.Hour),
			schedule:   &schedule.WorkSchedule{Start: "morning"},
			wantLate:   false,
			wantStatus: attendance.StatusPresent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Apply(nil, signIn(tt.signInAt), tt.schedule)

			assert.Equal(t, tt.wantLate, res.IsLate)
			assert.Equal(t, tt.wantStatus, res.Day.Status)
			require.NotNil(t, res.Day.SignInTime)
			assert.True(t, res.Day.SignInTime.Equal(tt.signInAt))
			assert.Nil(t, res.Day.WorkMinutes)
		})
	}
}

func TestApplyWorkDuration(t *testing.T) {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		signInAt    time.Time
		signOutAt   time.Time
		wantMinutes *int
		wantStatus  attendance.Status
		wantSkew    bool
		wantLong    bool
	}{
		{
			name:        "full day stays present",
			signInAt:    day.Add(9 * time.Hour),
			signOutAt:   day.Add(17 * time.Hour),
			wantMinutes: intPtr(480),
			wantStatus:  attendance.StatusPresent,
		},
		{
			name:        "exactly four hours is not downgraded",
			signInAt:    day.Add(9 * time.Hour),
			signOutAt:   day.Add(13 * time.Hour),
			wantMinutes: intPtr(240),
			wantStatus:  attendance.StatusPresent,
		},
		{
			name:        "one minute short becomes half day",
			signInAt:    day.Add(9 * time.Hour),
			signOutAt:   day.Add(12*time.Hour + 59*time.Minute),
			wantMinutes: intPtr(239),
			wantStatus:  attendance.StatusHalfDay,
		},
		{
			name:        "sign-out before sign-in flags clock skew",
			signInAt:    day.Add(17 * time.Hour),
			signOutAt:   day.Add(9 * time.Hour),
			wantMinutes: nil,
			wantStatus:  attendance.StatusPresent,
			wantSkew:    true,
		},
		{
			name:        "implausibly long shift is flagged not rejected",
			signInAt:    day.Add(1 * time.Hour),
			signOutAt:   day.Add(18*time.Hour + 30*time.Minute),
			wantMinutes: intPtr(1050),
			wantStatus:  attendance.StatusPresent,
			wantLong:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := Apply(nil, signIn(tt.signInAt), nil)
			res := Apply(&first.Day, signOut(tt.signOutAt), nil)

			assert.Equal(t, tt.wantStatus, res.Day.Status)
			assert.Equal(t, tt.wantSkew, res.ClockSkew)
			assert.Equal(t, tt.wantLong, res.LongShift)
			if tt.wantMinutes == nil {
				assert.Nil(t, res.Day.WorkMinutes)
			} else {
				require.NotNil(t, res.Day.WorkMinutes)
				assert.Equal(t, *tt.wantMinutes, *res.Day.WorkMinutes)
			}
			require.NotNil(t, res.Day.SignInTime)
			require.NotNil(t, res.Day.SignOutTime)
		})
	}
}

func TestApplyLateHalfDayDowngrade(t *testing.T) {
	sched := &schedule.WorkSchedule{Start: "09:00"}
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	first := Apply(nil, signIn(day.Add(10*time.Hour)), sched)
	require.True(t, first.IsLate)
	require.Equal(t, attendance.StatusLate, first.Day.Status)

	res := Apply(&first.Day, signOut(day.Add(12*time.Hour)), sched)
	assert.Equal(t, attendance.StatusHalfDay, res.Day.Status)
	require.NotNil(t, res.Day.WorkMinutes)
	assert.Equal(t, 120, *res.Day.WorkMinutes)
}

func TestApplySignOutWithoutSignIn(t *testing.T) {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	res := Apply(nil, signOut(day.Add(17*time.Hour)), nil)

	assert.Equal(t, attendance.StatusPresent, res.Day.Status)
	assert.Nil(t, res.Day.SignInTime)
	require.NotNil(t, res.Day.SignOutTime)
	assert.Nil(t, res.Day.WorkMinutes)
	assert.False(t, res.IsLate)
}

func TestApplyLateSignInAfterSignOut(t *testing.T) {
	// Offline sync can deliver the sign-in after the sign-out. The duration
	// must be computed once both sides exist, regardless of arrival order.
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	first := Apply(nil, signOut(day.Add(17*time.Hour)), nil)
	res := Apply(&first.Day, signIn(day.Add(9*time.Hour)), nil)

	require.NotNil(t, res.Day.WorkMinutes)
	assert.Equal(t, 480, *res.Day.WorkMinutes)
	assert.Equal(t, attendance.StatusPresent, res.Day.Status)
}

func TestApplyNotesAppend(t *testing.T) {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	ev := signIn(day.Add(9 * time.Hour))
	ev.Notes = strPtr("forgot badge")
	first := Apply(nil, ev, nil)
	require.NotNil(t, first.Day.Notes)
	assert.Equal(t, "forgot badge", *first.Day.Notes)

	out := signOut(day.Add(17 * time.Hour))
	out.Notes = strPtr("left early approval pending")
	second := Apply(&first.Day, out, nil)
	require.NotNil(t, second.Day.Notes)
	assert.Equal(t, "forgot badge; left early approval pending", *second.Day.Notes)

	// Empty and nil notes leave existing text untouched.
	blank := signOut(day.Add(17*time.Hour + 5*time.Minute))
	blank.Notes = strPtr("")
	third := Apply(&second.Day, blank, nil)
	require.NotNil(t, third.Day.Notes)
	assert.Equal(t, *second.Day.Notes, *third.Day.Notes)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	first := Apply(nil, signIn(day.Add(9*time.Hour)), nil)
	before := first.Day

	Apply(&first.Day, signOut(day.Add(17*time.Hour)), nil)

	assert.Equal(t, before.Status, first.Day.Status)
	assert.Nil(t, first.Day.SignOutTime)
	assert.Nil(t, first.Day.WorkMinutes)
}

func TestDayOf(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	ts := time.Date(2024, 3, 4, 23, 45, 0, 0, loc)
	got := DayOf(ts)

	assert.Equal(t, 2024, got.Year())
	assert.Equal(t, time.March, got.Month())
	assert.Equal(t, 4, got.Day())
	assert.Equal(t, 0, got.Hour())
	assert.Equal(t, loc, got.Location())
}

func intPtr(n int) *int { return &n }
