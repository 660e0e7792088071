package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/access"
	"github.com/dolluzcorp/dtime-backend-go/internal/domain/auth"
	"github.com/dolluzcorp/dtime-backend-go/internal/domain/employee"
	"github.com/dolluzcorp/dtime-backend-go/internal/domain/holiday"
	"github.com/dolluzcorp/dtime-backend-go/internal/domain/leave"
	"github.com/dolluzcorp/dtime-backend-go/internal/domain/project"
	"github.com/dolluzcorp/dtime-backend-go/internal/domain/punch"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/storage"
	"github.com/dolluzcorp/dtime-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrPasswordNotSet),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrRefreshTokenRevoked),
		errors.Is(err, auth.ErrInvalidOTP),
		errors.Is(err, auth.ErrOTPNotFound),
		errors.Is(err, auth.ErrGoogleEmailNotVerified),
		errors.Is(err, auth.ErrInvalidOAuthState):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrOTPExpired):
		Gone(w, err.Error())
	case errors.Is(err, auth.ErrEmailNotRegistered):
		NotFound(w, err.Error())

	// Forbidden
	case errors.Is(err, access.ErrPageAccessDenied),
		errors.Is(err, leave.ErrNotRequestOwner),
		errors.Is(err, leave.ErrNotCurrentApprover),
		errors.Is(err, employee.ErrCannotDeleteSelf):
		Forbidden(w, err.Error())

	// Not found
	case errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, employee.ErrDepartmentNotFound),
		errors.Is(err, access.ErrAccessLevelNotFound),
		errors.Is(err, holiday.ErrHolidayNotFound),
		errors.Is(err, leave.ErrLeaveTypeNotFound),
		errors.Is(err, leave.ErrLeaveRequestNotFound),
		errors.Is(err, leave.ErrApprovalChainNotFound),
		errors.Is(err, project.ErrProjectNotFound),
		errors.Is(err, project.ErrTaskNotFound),
		errors.Is(err, punch.ErrPunchNotFound):
		NotFound(w, err.Error())

	// Conflicts
	case errors.Is(err, employee.ErrEmailExists),
		errors.Is(err, employee.ErrDepartmentExists),
		errors.Is(err, employee.ErrDepartmentInUse),
		errors.Is(err, project.ErrProjectExists),
		errors.Is(err, punch.ErrAlreadyPunchedIn),
		errors.Is(err, punch.ErrNotPunchedIn),
		errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
		Conflict(w, err.Error())

	// Bad input the DTO could not catch
	case errors.Is(err, leave.ErrInsufficientBalance),
		errors.Is(err, leave.ErrNoWorkingDays),
		errors.Is(err, leave.ErrInvalidDateRange),
		errors.Is(err, leave.ErrInvalidAttachment),
		errors.Is(err, leave.ErrAttachmentTooLarge),
		errors.Is(err, holiday.ErrInvalidScope),
		errors.Is(err, employee.ErrInvalidAccessLevel),
		errors.Is(err, employee.ErrEmployeeNotAssigned),
		errors.Is(err, storage.ErrInvalidPath):
		BadRequest(w, err.Error(), nil)

	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
