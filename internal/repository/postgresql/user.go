package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/shiftwise/attendance-backend-go/internal/domain/user"
	"github.com/shiftwise/attendance-backend-go/internal/pkg/database"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.Repository {
	return &userRepositoryImpl{db: db}
}

// GetByEmail implements user.Repository. Emails are unique per company, so
// login carries the company username alongside the email.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string, companyUsername string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT u.id, u.company_id, u.employee_id, u.email, u.password_hash, u.role,
			   u.created_at, u.updated_at
		FROM users u
		JOIN companies c ON u.company_id = c.id
		WHERE u.email = $1 AND c.username = $2
	`

	var usr user.User
	err := q.QueryRow(ctx, query, email, companyUsername).Scan(
		&usr.ID, &usr.CompanyID, &usr.EmployeeID, &usr.Email, &usr.PasswordHash, &usr.Role,
		&usr.CreatedAt, &usr.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}

	return usr, nil
}

// GetByID implements user.Repository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, employee_id, email, password_hash, role,
			   created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var usr user.User
	err := q.QueryRow(ctx, query, id).Scan(
		&usr.ID, &usr.CompanyID, &usr.EmployeeID, &usr.Email, &usr.PasswordHash, &usr.Role,
		&usr.CreatedAt, &usr.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}

	return usr, nil
}
