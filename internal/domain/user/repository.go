package user

import "context"

type Repository interface {
	GetByEmail(ctx context.Context, email string, companyUsername string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
}
