package user

import "errors"

var (
	ErrInvalidRole       = errors.New("invalid role")
	ErrIdentityMissing   = errors.New("identity not found in context")
	ErrCompanyIDRequired = errors.New("company ID is required")
)
