package domain

import "errors"

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInternalError       = errors.New("internal error")
	ErrUserNotFound        = errors.New("user not found")
	ErrCashFlowNotFound    = errors.New("cash flow not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryInUse       = errors.New("category has cash flows attached")
	ErrInvalidCategoryType = errors.New("invalid category type")
	ErrInvalidDateRange    = errors.New("start date is after end date")
	ErrNameRequired        = errors.New("name is required")
	ErrNameTooLong         = errors.New("name exceeds maximum length")
	ErrNoteTooLong         = errors.New("note exceeds maximum length")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrDateRequired        = errors.New("date is required")
)

// Validation constants
const (
	MaxCashFlowNameLength = 255
	MaxCashFlowNoteLength = 1000
	MaxCategoryNameLength = 255
)
