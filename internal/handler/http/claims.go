package http

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/shiftwise/attendance-backend-go/internal/domain/auth"
	"github.com/shiftwise/attendance-backend-go/internal/domain/user"
)

// authClaims is the identity a verified access token carries. Handlers pass
// these values into services as explicit parameters; services never read the
// request context for identity.
type authClaims struct {
	UserID     string
	CompanyID  string
	EmployeeID string
	Role       user.Role
}

func claimsFromRequest(r *http.Request) (authClaims, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return authClaims{}, auth.ErrInvalidToken
	}

	userID, _ := claims["user_id"].(string)
	companyID, _ := claims["company_id"].(string)
	if userID == "" || companyID == "" {
		return authClaims{}, auth.ErrInvalidToken
	}

	employeeID, _ := claims["employee_id"].(string)
	role, _ := claims["role"].(string)

	return authClaims{
		UserID:     userID,
		CompanyID:  companyID,
		EmployeeID: employeeID,
		Role:       user.Role(role),
	}, nil
}
