package employee

import (
	"encoding/json"
	"time"
)

// Employee is the read-only registry view the engine consumes: identity,
// activity flag and the raw work-schedule blob.
type Employee struct {
	ID           string
	CompanyID    string
	FullName     string
	Email        *string
	WorkSchedule json.RawMessage
	IsActive     bool
	HireDate     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
