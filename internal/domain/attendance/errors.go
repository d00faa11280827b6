package attendance

import "errors"

// Attendance domain errors. Being late or missing a sign-in is not an error,
// those are normal outcomes carried in Status.
var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrAttendanceExists   = errors.New("attendance record already exists for this day")
	ErrUnknownEventType   = errors.New("unknown attendance event type")
	ErrEmployeeNotFound   = errors.New("employee not found")
)
