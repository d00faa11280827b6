package schedule

import (
	"encoding/json"
	"strings"
	"time"
)

// WorkSchedule is the canonical shape the tracker consumes: the expected start
// of the working day as a wall-clock string. Blob ambiguity is resolved here at
// the boundary and never leaks further in.
type WorkSchedule struct {
	Start string // "HH:MM"
}

// StartOn anchors the schedule's start time to the given calendar date, in the
// date's location. ok is false when Start is not a valid clock string.
func (s WorkSchedule) StartOn(date time.Time) (time.Time, bool) {
	hour, minute, ok := parseClock(s.Start)
	if !ok {
		return time.Time{}, false
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location()), true
}

// rawSchedule covers the blob shapes stored on employees:
//
//	{"start": "09:00"}
//	{"days": ["mon", ...], "hours": {"start": "09:00"}}
//	null
type rawSchedule struct {
	Start string   `json:"start"`
	Days  []string `json:"days"`
	Hours *struct {
		Start string `json:"start"`
	} `json:"hours"`
}

// Resolve turns a stored schedule blob into the canonical shape for one
// weekday. A nil result means no schedule applies; callers treat that as
// "never late" rather than an error.
func Resolve(blob []byte, weekday time.Weekday) *WorkSchedule {
	if len(blob) == 0 || string(blob) == "null" {
		return nil
	}

	var raw rawSchedule
	if err := json.Unmarshal(blob, &raw); err != nil {
		return nil
	}

	start := raw.Start
	if raw.Hours != nil {
		start = raw.Hours.Start
		if len(raw.Days) > 0 && !containsWeekday(raw.Days, weekday) {
			return nil
		}
	}

	if _, _, ok := parseClock(start); !ok {
		return nil
	}
	return &WorkSchedule{Start: start}
}

func containsWeekday(days []string, weekday time.Weekday) bool {
	name := strings.ToLower(weekday.String())
	for _, d := range days {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == name || (len(d) >= 3 && d[:3] == name[:3]) {
			return true
		}
	}
	return false
}

func parseClock(s string) (hour, minute int, ok bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, false
	}
	return t.Hour(), t.Minute(), true
}
