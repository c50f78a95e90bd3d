package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeConflict   ErrorType = "CONFLICT"
	ErrorTypeInternal   ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed        ErrorCode = "VALIDATION_FAILED"
	ErrCodeMissingFields           ErrorCode = "MISSING_FIELDS"
	ErrCodeInvalidBody             ErrorCode = "INVALID_BODY"
	ErrCodeInvalidID               ErrorCode = "INVALID_ID"
	ErrCodeInvalidDate             ErrorCode = "INVALID_DATE"
	ErrCodeInvalidHours            ErrorCode = "INVALID_HOURS"
	ErrCodeInvalidTaxRate          ErrorCode = "INVALID_TAX_RATE"
	ErrCodeInvalidRate             ErrorCode = "INVALID_RATE"
	ErrCodeInvalidDeductions       ErrorCode = "INVALID_DEDUCTIONS"
	ErrCodeInvalidEmail            ErrorCode = "INVALID_EMAIL"
	ErrCodeInvalidEmploymentType   ErrorCode = "INVALID_EMPLOYMENT_TYPE"
	ErrCodeInvalidPeriodStatus     ErrorCode = "INVALID_PERIOD_STATUS"
	ErrCodeInvalidStatusTransition ErrorCode = "INVALID_STATUS_TRANSITION"

	ErrCodeDepartmentNotFound ErrorCode = "DEPARTMENT_NOT_FOUND"
	ErrCodeEmployeeNotFound   ErrorCode = "EMPLOYEE_NOT_FOUND"
	ErrCodePeriodNotFound     ErrorCode = "PERIOD_NOT_FOUND"
	ErrCodeRecordNotFound     ErrorCode = "RECORD_NOT_FOUND"

	ErrCodeDepartmentExists ErrorCode = "DEPARTMENT_EXISTS"
	ErrCodeEmailExists      ErrorCode = "EMAIL_EXISTS"
	ErrCodeRecordExists     ErrorCode = "RECORD_EXISTS"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return e.GetDetailedMessage()
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on type and code so sentinel errors keep working after WithCause.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// WithCause returns a copy so package-level sentinels are never mutated.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

// NewMissingFieldsError reports every absent required field in one error.
func NewMissingFieldsError(fields []string) *AppError {
	details := ValidationErrors{Errors: make([]ValidationError, 0, len(fields))}
	for _, f := range fields {
		details.Errors = append(details.Errors, ValidationError{
			Field:   f,
			Message: fmt.Sprintf("%s is required", f),
			Code:    string(ErrCodeMissingFields),
		})
	}
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeMissingFields,
		Message:    fmt.Sprintf("Missing fields: %s", strings.Join(fields, ", ")),
		StatusCode: http.StatusBadRequest,
		Details:    details,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

var (
	ErrDepartmentNotFound = NewNotFoundError("Department not found", ErrCodeDepartmentNotFound)
	ErrEmployeeNotFound   = NewNotFoundError("Employee not found", ErrCodeEmployeeNotFound)
	ErrPeriodNotFound     = NewNotFoundError("Payroll period not found", ErrCodePeriodNotFound)
	ErrRecordNotFound     = NewNotFoundError("Payroll record not found", ErrCodeRecordNotFound)

	ErrDepartmentExists = NewConflictError("Department already exists", ErrCodeDepartmentExists)
	ErrEmailExists      = NewConflictError("Email already exists", ErrCodeEmailExists)
	ErrRecordExists     = NewConflictError("Payroll record already exists for this employee and period", ErrCodeRecordExists)

	ErrInvalidBody = NewValidationError("invalid request body", ErrCodeInvalidBody)
	ErrInvalidID   = NewValidationError("invalid id", ErrCodeInvalidID)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func IsType(err error, t ErrorType) bool {
	appErr, ok := IsAppError(err)
	return ok && appErr.Type == t
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
