// internal/common/errors/errors.go
package errors

import (
	"errors"
	"fmt"
	"time"
)

type ErrorCode string

const (
	// Submission validation
	ErrCodeMissingFields              ErrorCode = "MISSING_FIELDS"
	ErrCodeInvalidName                ErrorCode = "INVALID_NAME"
	ErrCodeInvalidEmail               ErrorCode = "INVALID_EMAIL"
	ErrCodeInvalidPhone               ErrorCode = "INVALID_PHONE"
	ErrCodeInvalidRegNumber           ErrorCode = "INVALID_REG_NUMBER"
	ErrCodeInvalidResumeLink          ErrorCode = "INVALID_RESUME_LINK"
	ErrCodeInvalidPositionCount       ErrorCode = "INVALID_POSITION_COUNT"
	ErrCodeIncompletePositionData     ErrorCode = "INCOMPLETE_POSITION_DATA"
	ErrCodeUnknownPosition            ErrorCode = "UNKNOWN_POSITION"
	ErrCodeDuplicatePosition          ErrorCode = "DUPLICATE_POSITION"
	ErrCodeInvalidMotivationLength    ErrorCode = "INVALID_MOTIVATION_LENGTH"
	ErrCodeInvalidDomainAnswersLength ErrorCode = "INVALID_DOMAIN_ANSWERS_LENGTH"
	ErrCodeTermsNotAgreed             ErrorCode = "TERMS_NOT_AGREED"

	// Request shape
	ErrCodeInvalidRequestBody ErrorCode = "INVALID_REQUEST_BODY"
	ErrCodeInvalidStatus      ErrorCode = "INVALID_STATUS"

	ErrCodeDuplicateEmail      ErrorCode = "DUPLICATE_EMAIL"
	ErrCodeApplicationNotFound ErrorCode = "APPLICATION_NOT_FOUND"

	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeRateLimited        ErrorCode = "RATE_LIMITED"

	// System
	ErrCodeSubmissionFailed ErrorCode = "SUBMISSION_FAILED"
	ErrCodeFetchFailed      ErrorCode = "FETCH_FAILED"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"

	// Never surfaced to callers, only logged and counted.
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
)

type Category string

const (
	CategoryValidation Category = "validation"
	CategoryConflict   Category = "conflict"
	CategoryNotFound   Category = "not_found"
	CategoryAuth       Category = "auth"
	CategoryRateLimit  Category = "rate_limit"
	CategorySystem     Category = "system"
)

var categories = map[ErrorCode]Category{
	ErrCodeMissingFields:              CategoryValidation,
	ErrCodeInvalidName:                CategoryValidation,
	ErrCodeInvalidEmail:               CategoryValidation,
	ErrCodeInvalidPhone:               CategoryValidation,
	ErrCodeInvalidRegNumber:           CategoryValidation,
	ErrCodeInvalidResumeLink:          CategoryValidation,
	ErrCodeInvalidPositionCount:       CategoryValidation,
	ErrCodeIncompletePositionData:     CategoryValidation,
	ErrCodeUnknownPosition:            CategoryValidation,
	ErrCodeDuplicatePosition:          CategoryValidation,
	ErrCodeInvalidMotivationLength:    CategoryValidation,
	ErrCodeInvalidDomainAnswersLength: CategoryValidation,
	ErrCodeTermsNotAgreed:             CategoryValidation,
	ErrCodeInvalidRequestBody:         CategoryValidation,
	ErrCodeInvalidStatus:              CategoryValidation,
	ErrCodeDuplicateEmail:             CategoryConflict,
	ErrCodeApplicationNotFound:        CategoryNotFound,
	ErrCodeUnauthorized:               CategoryAuth,
	ErrCodeInvalidCredentials:         CategoryAuth,
	ErrCodeRateLimited:                CategoryRateLimit,
}

// CategoryOf reports how a code is surfaced. Unknown codes are system errors.
func CategoryOf(code ErrorCode) Category {
	if c, ok := categories[code]; ok {
		return c
	}
	return CategorySystem
}

type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

func (e *StandardError) Category() Category {
	return CategoryOf(e.Code)
}

// As extracts a *StandardError from anywhere in err's chain.
func As(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := As(err)
	return ok && stdErr.Code == code
}

func NewValidationError(code ErrorCode, message string) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewDuplicateEmailError(email string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateEmail,
		Message:   "An application with this email already exists",
		Details:   fmt.Sprintf("email: %s", email),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewApplicationNotFoundError(applicationID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeApplicationNotFound,
		Message:   "Application not found",
		Details:   fmt.Sprintf("applicationId: %s", applicationID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSubmissionFailedError hides the cause from callers; Details is for logs only.
func NewSubmissionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSubmissionFailed,
		Message:   "Failed to submit application. Please try again.",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewFetchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeFetchFailed,
		Message:   "Failed to fetch applications",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewUnauthorizedError() *StandardError {
	return &StandardError{
		Code:      ErrCodeUnauthorized,
		Message:   "Unauthorized",
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidCredentialsError() *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidCredentials,
		Message:   "Invalid credentials",
		Timestamp: time.Now().UTC(),
	}
}

func NewRateLimitedError() *StandardError {
	return &StandardError{
		Code:      ErrCodeRateLimited,
		Message:   "Too many requests. Please try again later.",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Internal server error",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}
