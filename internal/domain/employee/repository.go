package employee

import (
	"context"
)

type Repository interface {
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)

	GetActiveByCompanyID(ctx context.Context, companyID string) ([]Employee, error)

	// ActiveCompanyIDs lists companies with at least one active employee.
	// Used by the yearly initialization and absence-marking jobs.
	ActiveCompanyIDs(ctx context.Context) ([]string, error)
}
