package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeProfileSaved  ActivityType = "profile_saved"
	TypeIntakeAdded   ActivityType = "intake_added"
	TypeIntakeUpdated ActivityType = "intake_updated"
	TypeIntakeDeleted ActivityType = "intake_deleted"
	TypeDataExported  ActivityType = "data_exported"
	TypeDataImported  ActivityType = "data_imported"
	TypeDataCleared   ActivityType = "data_cleared"
)

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	RecordID     *string      `json:"record_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}
