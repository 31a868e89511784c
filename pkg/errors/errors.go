package errors

import "fmt"

// Application error types organized by category for better error handling

type ErrorType string

// Domain/Business Logic Errors - errors related to search inputs
const (
	ValidationError ErrorType = "VALIDATION_ERROR"
)

// Infrastructure Errors - errors related to external systems and services
const (
	StoreUnavailableError  ErrorType = "STORE_UNAVAILABLE_ERROR"
	SerializationError     ErrorType = "SERIALIZATION_ERROR"
	BackendError           ErrorType = "BACKEND_ERROR"
	EncodeError            ErrorType = "ENCODE_ERROR"
	DimensionMismatchError ErrorType = "DIMENSION_MISMATCH_ERROR"
)

// System/Configuration Errors - errors related to system setup and configuration
const (
	ConfigurationError ErrorType = "CONFIGURATION_ERROR"
)

type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
	}
}

func Wrap(errorType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// Domain/Business Logic Error Constructors
func NewValidationError(message string) *AppError {
	return New(ValidationError, message)
}

// Infrastructure Error Constructors
func NewStoreUnavailableError(message string, cause error) *AppError {
	return Wrap(StoreUnavailableError, message, cause)
}

func NewSerializationError(message string, cause error) *AppError {
	return Wrap(SerializationError, message, cause)
}

func NewBackendError(message string, cause error) *AppError {
	return Wrap(BackendError, message, cause)
}

func NewEncodeError(message string, cause error) *AppError {
	return Wrap(EncodeError, message, cause)
}

func NewDimensionMismatchError(message string) *AppError {
	return New(DimensionMismatchError, message)
}

// System/Configuration Error Constructors
func NewConfigurationError(message string, cause error) *AppError {
	return Wrap(ConfigurationError, message, cause)
}

// Helper functions for error type checking
func IsValidationError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == ValidationError
	}
	return false
}

func IsStoreUnavailableError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == StoreUnavailableError
	}
	return false
}

func IsSerializationError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == SerializationError
	}
	return false
}

func IsBackendError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == BackendError
	}
	return false
}

func IsEncodeError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == EncodeError
	}
	return false
}

func IsDimensionMismatchError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == DimensionMismatchError
	}
	return false
}

func IsConfigurationError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == ConfigurationError
	}
	return false
}
