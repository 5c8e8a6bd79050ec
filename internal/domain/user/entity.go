package user

import (
	"context"
	"strings"
)

type Role string

const (
	RoleSuperAdmin   Role = "SUPERADMIN"    // Platform account - sees every tenant account
	RoleCompanyOwner Role = "COMPANY_OWNER" // Tenant owner
	RoleAdmin        Role = "ADMIN"         // Tenant administrator
	RoleEmployee     Role = "EMPLOYEE"      // Regular employee
	RoleStaff        Role = "STAFF"         // Staff member, same visibility as employee
)

// ParseRole normalizes a role claim. Unknown roles are rejected.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RoleSuperAdmin, RoleCompanyOwner, RoleAdmin, RoleEmployee, RoleStaff:
		return r, true
	}
	return "", false
}

// IsSuperAdmin checks if the role is a platform account
func (r Role) IsSuperAdmin() bool {
	return r == RoleSuperAdmin
}

// IsTenantAdmin checks if the role administers a single tenant
func (r Role) IsTenantAdmin() bool {
	return r == RoleAdmin || r == RoleCompanyOwner
}

// IsSelfService checks if the role only sees its own records
func (r Role) IsSelfService() bool {
	return r == RoleEmployee || r == RoleStaff
}

// Identity is the caller resolved from the session token
type Identity struct {
	UserID     string
	CompanyID  string
	EmployeeID *string
	Role       Role
}

type identityKey struct{}

// WithIdentity stores the caller identity in the context
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the caller identity stored by the auth middleware
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
