package intake

import "errors"

var (
	// ErrRecordNotFound indicates the intake record doesn't exist.
	ErrRecordNotFound = errors.New("intake record not found")
	// ErrInvalidInput indicates invalid intake input.
	ErrInvalidInput = errors.New("invalid intake input")
	// ErrSingleIntakeTooLarge indicates one intake exceeds the configured maximum.
	ErrSingleIntakeTooLarge = errors.New("single intake exceeds safe maximum")
	// ErrDailyLimitExceeded indicates the day's total would exceed the safe limit.
	ErrDailyLimitExceeded = errors.New("daily intake would exceed safe limit")
)
