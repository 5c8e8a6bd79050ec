package response

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-analytics/internal/domain/stats"
	"github.com/cmlabs-hris/hris-analytics/internal/domain/user"
	"github.com/cmlabs-hris/hris-analytics/internal/pkg/validator"
)

// StatusClientClosedRequest is written when the caller went away before the report was built
const StatusClientClosedRequest = 499

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		BadRequest(w, "Validation failed", validationErrs.ToMap())
		return
	}

	switch {
	// Session errors
	case errors.Is(err, stats.ErrUnauthorized),
		errors.Is(err, user.ErrIdentityMissing),
		errors.Is(err, user.ErrInvalidRole),
		errors.Is(err, user.ErrCompanyIDRequired):
		Unauthorized(w)

	// Stats domain errors
	case errors.Is(err, stats.ErrEmployeeNotFound):
		NotFound(w, "Employee record not found")
	case errors.Is(err, stats.ErrInvalidRange):
		BadRequest(w, err.Error(), nil)

	// Caller disconnected, nobody reads the body
	case errors.Is(err, context.Canceled):
		slog.Debug("Request canceled by client", "error", err)
		w.WriteHeader(StatusClientClosedRequest)
	case errors.Is(err, context.DeadlineExceeded):
		InternalServerError(w, "Stats query timed out")

	// Default
	default:
		InternalServerError(w, "Internal server error")
	}
}
