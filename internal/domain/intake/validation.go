package intake

import (
	"fmt"
	"time"
)

// Stored timestamps are written with a four-digit UTC year.
const (
	minTimestampYear = 0
	maxTimestampYear = 9999

	// MaxRecentDays bounds ListRecent so the window stays representable.
	MaxRecentDays = 36500
)

// ValidateVolume checks a single intake volume against the limits.
func ValidateVolume(volumeML int, limits Limits) error {
	if volumeML <= 0 {
		return fmt.Errorf("%w: amount must be greater than 0 ml", ErrInvalidInput)
	}
	if limits.MaxSingleML > 0 && volumeML > limits.MaxSingleML {
		return fmt.Errorf("%w: %d ml is above %d ml", ErrSingleIntakeTooLarge, volumeML, limits.MaxSingleML)
	}
	return nil
}

// Validate checks the invariants every stored record must hold.
func Validate(rec Record) error {
	if rec.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if err := ValidateTimestamp(rec.Timestamp); err != nil {
		return err
	}
	if rec.VolumeML <= 0 {
		return fmt.Errorf("%w: amount must be greater than 0 ml", ErrInvalidInput)
	}
	return nil
}

// ValidateTimestamp checks that ts is set and that its UTC year fits the
// stored four-digit form.
func ValidateTimestamp(ts time.Time) error {
	if ts.IsZero() {
		return fmt.Errorf("%w: timestamp is required", ErrInvalidInput)
	}
	if year := ts.UTC().Year(); year < minTimestampYear || year > maxTimestampYear {
		return fmt.Errorf("%w: timestamp year %d in UTC is outside 0000-9999", ErrInvalidInput, year)
	}
	return nil
}
