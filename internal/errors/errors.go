package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"Finary/internal/logger"

	"github.com/go-playground/validator/v10"
)

// Kind classifies an AppError. Callers branch on the kind, never on the
// message.
type Kind string

const (
	KindNotFound     Kind = "NOT_FOUND"
	KindConflict     Kind = "CONFLICT"
	KindBadRequest   Kind = "BAD_REQUEST"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindInternal     Kind = "INTERNAL"
)

const internalMessage = "An unexpected error occurred"

var (
	ErrNotFound       = NewAppError(KindNotFound, "NOT_FOUND", "Resource not found")
	ErrUnauthorized   = NewAppError(KindUnauthorized, "UNAUTHORIZED", "Unauthorized")
	ErrBadRequest     = NewAppError(KindBadRequest, "BAD_REQUEST", "Invalid request")
	ErrInternalServer = NewAppError(KindInternal, "INTERNAL_SERVER_ERROR", internalMessage)
	ErrConflict       = NewAppError(KindConflict, "CONFLICT", "Resource conflict")
	ErrValidation     = NewAppError(KindBadRequest, "VALIDATION_ERROR", "Validation failed")

	ErrTransactionNotFound = NewAppError(KindNotFound, "TRANSACTION_NOT_FOUND", "Transaction not found")
	ErrBudgetNotFound      = NewAppError(KindNotFound, "BUDGET_NOT_FOUND", "Budget not found")
	ErrCategoryNotFound    = NewAppError(KindNotFound, "CATEGORY_NOT_FOUND", "Category not found")
	ErrGoalNotFound        = NewAppError(KindNotFound, "GOAL_NOT_FOUND", "Goal not found")
)

type AppError struct {
	Kind       Kind
	Code       string
	Message    string
	StatusCode int
	Details    map[string]interface{}
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s - %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches two AppErrors by code so sentinels survive WithError and
// WithDetails.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	clone := e.clone()
	clone.Details = make(map[string]interface{}, len(details))
	for k, v := range details {
		clone.Details[k] = v
	}
	return clone
}

func (e *AppError) WithError(err error) *AppError {
	clone := e.clone()
	clone.Err = err
	return clone
}

func (e *AppError) WithMessage(message string) *AppError {
	clone := e.clone()
	clone.Message = message
	return clone
}

func NewAppError(kind Kind, code, message string) *AppError {
	return &AppError{
		Kind:       kind,
		Code:       code,
		Message:    message,
		StatusCode: StatusFor(kind),
		Details:    make(map[string]interface{}),
	}
}

func (e *AppError) clone() *AppError {
	clone := *e
	clone.Details = make(map[string]interface{}, len(e.Details))
	for k, v := range e.Details {
		clone.Details[k] = v
	}
	return &clone
}

func StatusFor(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf reports the kind carried by err. Untagged errors are internal.
func KindOf(err error) Kind {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

func FromError(err error) *AppError {
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}

	if errors.Is(err, context.Canceled) {
		return &AppError{
			Kind:       KindBadRequest,
			Code:       "REQUEST_CANCELED",
			Message:    "Request canceled by the client",
			StatusCode: http.StatusRequestTimeout,
			Details:    make(map[string]interface{}),
			Err:        err,
		}
	}

	return ErrInternalServer.WithError(err)
}

// Expose is applied at operation boundaries. NotFound, Conflict, BadRequest
// and Unauthorized errors pass through untouched; anything else is logged with
// its cause and replaced by the generic internal error.
func Expose(op string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok && appErr.Kind != KindInternal {
		return appErr
	}
	logger.Error().Err(err).Str("op", op).Msg("unexpected failure")
	return ErrInternalServer.WithError(err)
}

func NotFound(code, message string) *AppError {
	return NewAppError(KindNotFound, code, message)
}

func Conflict(code, message string) *AppError {
	return NewAppError(KindConflict, code, message)
}

func BadRequest(code, message string) *AppError {
	return NewAppError(KindBadRequest, code, message)
}

func NewValidationError(field, message string) *AppError {
	return ErrValidation.WithMessage(message).WithDetails(map[string]interface{}{
		"field": field,
	})
}

func NewNotFoundError(resource string) *AppError {
	return ErrNotFound.
		WithMessage(fmt.Sprintf("%s not found", resource)).
		WithDetails(map[string]interface{}{"resource": resource})
}

func NewConflictError(resource string) *AppError {
	return ErrConflict.
		WithMessage(fmt.Sprintf("%s already exists", resource)).
		WithDetails(map[string]interface{}{"resource": resource})
}

func ParseValidationErrors(err error) *AppError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return ErrBadRequest.WithError(err)
	}

	fieldErrors := make([]map[string]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		fieldErrors = append(fieldErrors, map[string]string{
			"field":   fieldErr.Field(),
			"message": describeValidationError(fieldErr),
		})
	}

	return ErrValidation.
		WithMessage("Request fields failed validation").
		WithDetails(map[string]interface{}{"fields": fieldErrors})
}

func describeValidationError(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "ulid":
		return fmt.Sprintf("%s must be a valid ULID", field)
	case "datetime":
		return fmt.Sprintf("%s must be a valid date", field)
	default:
		return fmt.Sprintf("%s failed the '%s' check", field, fe.Tag())
	}
}
