package attendance

import (
	"context"
)

// Service defines business logic for attendance tracking.
type Service interface {
	// RecordEvent applies one raw sign-in/sign-out event to the day's row and
	// returns the updated snapshot.
	RecordEvent(ctx context.Context, req RecordEventRequest) (RecordEventResponse, error)

	// ListRange returns an employee's day rows for an inclusive date range.
	ListRange(ctx context.Context, req ListRangeRequest) (ListRangeResponse, error)
}
