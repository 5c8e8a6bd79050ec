package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/hris-analytics/internal/domain/user"
	"github.com/cmlabs-hris/hris-analytics/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-analytics/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-analytics/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
)

// Identity turns the verified access token into a user.Identity in the request context.
// It must run after jwtauth.Verifier.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			response.Unauthorized(w)
			return
		}

		tokenType, ok := claims[jwt.ClaimType].(string)
		if !ok || tokenType != jwt.TokenTypeAccess {
			response.Unauthorized(w)
			return
		}

		id, ok := identityFromClaims(claims)
		if !ok {
			response.Unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(user.WithIdentity(r.Context(), id)))
	})
}

func identityFromClaims(claims map[string]interface{}) (user.Identity, bool) {
	userID, _ := claims[jwt.ClaimUserID].(string)
	companyID, _ := claims[jwt.ClaimCompanyID].(string)
	if !validator.IsValidUUID(userID) || !validator.IsValidUUID(companyID) {
		return user.Identity{}, false
	}

	rawRole, _ := claims[jwt.ClaimRole].(string)
	role, ok := user.ParseRole(rawRole)
	if !ok {
		return user.Identity{}, false
	}

	id := user.Identity{UserID: userID, CompanyID: companyID, Role: role}

	// employee_id is null for accounts without an employee record
	switch v := claims[jwt.ClaimEmployeeID].(type) {
	case nil:
	case string:
		if !validator.IsValidUUID(v) {
			return user.Identity{}, false
		}
		id.EmployeeID = &v
	default:
		return user.Identity{}, false
	}

	return id, true
}
