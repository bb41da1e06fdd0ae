package intake

import "time"

// Record is a single logged water intake event.
type Record struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	VolumeML  int       `json:"volume_ml"`
	Note      string    `json:"note,omitempty"`
}

// DailyStatus summarizes intake for one calendar day against the target.
type DailyStatus struct {
	Date        time.Time `json:"date"`
	ConsumedML  int       `json:"consumed_ml"`
	TargetML    int       `json:"target_ml"`
	RemainingML int       `json:"remaining_ml"`
	Progress    float64   `json:"progress"`
	Records     int       `json:"records"`
}

// NormalizeTimestamp converts t to the stored form: UTC at millisecond
// precision.
func NormalizeTimestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
