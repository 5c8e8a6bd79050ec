package stats

import "errors"

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrEmployeeNotFound   = errors.New("employee record not found")
	ErrInvalidRange       = errors.New("range must be one of week, month, year")
	ErrUnknownScope       = errors.New("unknown report scope")
	ErrInvalidBucketRange = errors.New("bucket start must be before end")
)
