package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		blob    string
		weekday time.Weekday
		want    *WorkSchedule
	}{
		{
			name:    "flat start shape",
			blob:    `{"start": "09:00"}`,
			weekday: time.Monday,
			want:    &WorkSchedule{Start: "09:00"},
		},
		{
			name:    "days and hours shape on a working day",
			blob:    `{"days": ["mon", "tue", "wed"], "hours": {"start": "08:30"}}`,
			weekday: time.Tuesday,
			want:    &WorkSchedule{Start: "08:30"},
		},
		{
			name:    "days and hours shape with full day names",
			blob:    `{"days": ["monday", "friday"], "hours": {"start": "10:00"}}`,
			weekday: time.Friday,
			want:    &WorkSchedule{Start: "10:00"},
		},
		{
			name:    "non-working weekday resolves to nothing",
			blob:    `{"days": ["mon", "tue"], "hours": {"start": "08:30"}}`,
			weekday: time.Saturday,
			want:    nil,
		},
		{
			name:    "null blob",
			blob:    `null`,
			weekday: time.Monday,
			want:    nil,
		},
		{
			name:    "empty blob",
			blob:    ``,
			weekday: time.Monday,
			want:    nil,
		},
		{
			name:    "malformed json",
			blob:    `{"start": `,
			weekday: time.Monday,
			want:    nil,
		},
		{
			name:    "unparseable clock",
			blob:    `{"start": "nine"}`,
			weekday: time.Monday,
			want:    nil,
		},
		{
			name:    "hours shape without day restriction",
			blob:    `{"hours": {"start": "07:45"}}`,
			weekday: time.Sunday,
			want:    &WorkSchedule{Start: "07:45"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve([]byte(tt.blob), tt.weekday)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestStartOn(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	date := time.Date(2024, 3, 4, 0, 0, 0, 0, loc)

	start, ok := WorkSchedule{Start: "09:15"}.StartOn(date)
	require.True(t, ok)
	assert.Equal(t, 9, start.Hour())
	assert.Equal(t, 15, start.Minute())
	assert.Equal(t, loc, start.Location())
	assert.Equal(t, date.Day(), start.Day())

	_, ok = WorkSchedule{Start: "25:99"}.StartOn(date)
	assert.False(t, ok)

	_, ok = WorkSchedule{Start: ""}.StartOn(date)
	assert.False(t, ok)
}
