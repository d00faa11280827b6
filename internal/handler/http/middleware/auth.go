package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/shiftwise/attendance-backend-go/internal/domain/auth"
	"github.com/shiftwise/attendance-backend-go/internal/handler/http/response"
)

// AuthRequired rejects requests without a verified access token. Refresh
// tokens share the signing key, so the token type claim is checked here to
// keep a stolen refresh cookie from passing as an access token.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			switch {
			case err != nil:
				response.Unauthorized(w, err.Error())
			case token == nil:
				response.HandleError(w, auth.ErrInvalidToken)
			case claims["type"] != "access":
				response.HandleError(w, auth.ErrInvalidToken)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
