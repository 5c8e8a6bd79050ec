package stats

import (
	"fmt"

	"github.com/cmlabs-hris/hris-analytics/internal/domain/stats"
	"github.com/cmlabs-hris/hris-analytics/internal/domain/user"
)

type roleScopeResolver struct{}

// NewScopeResolver returns the role based resolver
func NewScopeResolver() stats.ScopeResolver {
	return roleScopeResolver{}
}

// Resolve maps the caller to a scope:
//   - EMPLOYEE, STAFF: Personal, requires the caller's employee record
//   - ADMIN, COMPANY_OWNER: Organization without platform accounts
//   - SUPERADMIN: Organization including platform accounts
func (roleScopeResolver) Resolve(id user.Identity) (stats.Scope, error) {
	if id.CompanyID == "" {
		return stats.Scope{}, fmt.Errorf("%w: %w", stats.ErrUnauthorized, user.ErrCompanyIDRequired)
	}

	switch {
	case id.Role.IsSelfService():
		if id.EmployeeID == nil || *id.EmployeeID == "" {
			return stats.Scope{}, stats.ErrEmployeeNotFound
		}
		return stats.PersonalScope(id.CompanyID, *id.EmployeeID), nil
	case id.Role.IsTenantAdmin():
		return stats.OrganizationScope(id.CompanyID, true), nil
	case id.Role.IsSuperAdmin():
		return stats.OrganizationScope(id.CompanyID, false), nil
	}
	return stats.Scope{}, fmt.Errorf("%w: %w %q", stats.ErrUnauthorized, user.ErrInvalidRole, id.Role)
}
