package errors

import (
	"errors"
	"fmt"
)

// Domain error types for business logic

var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrAlreadyExists indicates a resource already exists
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrInvalidInput indicates invalid input parameters
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal indicates an internal error
	ErrInternal = errors.New("internal error")

	// ErrTimeout indicates an operation timeout
	ErrTimeout = errors.New("operation timeout")

	// ErrUnavailable indicates a service is unavailable
	ErrUnavailable = errors.New("service unavailable")
)

// Market data errors

var (
	// ErrPriceUnavailable indicates the provider returned no price for a symbol
	ErrPriceUnavailable = errors.New("price unavailable")

	// ErrInsufficientData indicates not enough history to compute an indicator
	ErrInsufficientData = errors.New("insufficient data for indicator")

	// ErrUnknownIndicator indicates an unsupported indicator type
	ErrUnknownIndicator = errors.New("unknown indicator type")
)

// Rule engine errors

var (
	// ErrUnknownRuleType indicates a rule type with no registered evaluator
	ErrUnknownRuleType = errors.New("unknown rule type")
)

// Notification errors

var (
	// ErrChannelNotConfigured indicates a channel is enabled but missing credentials
	ErrChannelNotConfigured = errors.New("notification channel not configured")

	// ErrDeliveryFailed indicates all delivery attempts for a channel were exhausted
	ErrDeliveryFailed = errors.New("notification delivery failed")
)

// Helper functions

// Is checks if err is or wraps target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func New(message string) error {
	return errors.New(message)
}

func Newf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
