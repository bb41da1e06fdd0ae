package intake

import "time"

// ListOptions filters records by timestamp. Both bounds are inclusive and
// optional.
type ListOptions struct {
	From *time.Time
	To   *time.Time
}

// Limits bounds how much water a single record and a single day may hold.
// Zero disables the check.
type Limits struct {
	MaxSingleML int
	MaxDailyML  int
}

// DefaultLimits returns the safety limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{MaxSingleML: 2000, MaxDailyML: 8000}
}

// Includes reports whether t falls within the options' bounds.
func (o ListOptions) Includes(t time.Time) bool {
	if o.From != nil && t.Before(*o.From) {
		return false
	}
	if o.To != nil && t.After(*o.To) {
		return false
	}
	return true
}
