package mcp

import (
	"time"

	"github.com/rpggio/watertrack/internal/domain/activity"
	"github.com/rpggio/watertrack/internal/domain/intake"
	"github.com/rpggio/watertrack/internal/domain/profile"
	"github.com/rpggio/watertrack/internal/snapshot"
)

const dateLayout = "2006-01-02"

type GetProfileParams struct{}

type SaveProfileParams struct {
	Name     string  `json:"name" jsonschema:"display name"`
	Unit     string  `json:"unit,omitempty" jsonschema:"display unit: ml or oz (default ml)"`
	TargetML int     `json:"target_ml,omitempty" jsonschema:"explicit daily target in ml; omit to compute it from the body measurements"`
	HeightCM int     `json:"height_cm,omitempty" jsonschema:"height in centimeters"`
	WeightKG float64 `json:"weight_kg,omitempty" jsonschema:"weight in kilograms; stored as the shortest decimal that reads back as the given number"`
	AgeYears int     `json:"age_years,omitempty" jsonschema:"age in years"`
	Gender   string  `json:"gender,omitempty" jsonschema:"MALE, FEMALE or OTHER"`
}

type AddIntakeParams struct {
	VolumeML  int    `json:"volume_ml" jsonschema:"amount drunk in milliliters"`
	Note      string `json:"note,omitempty" jsonschema:"optional note"`
	Timestamp string `json:"timestamp,omitempty" jsonschema:"RFC 3339 time of the intake; defaults to now"`
}

type UpdateIntakeParams struct {
	ID        string  `json:"id" jsonschema:"record id"`
	VolumeML  *int    `json:"volume_ml,omitempty" jsonschema:"new amount in milliliters"`
	Note      *string `json:"note,omitempty" jsonschema:"new note; an empty string clears it"`
	Timestamp string  `json:"timestamp,omitempty" jsonschema:"new RFC 3339 time of the intake"`
}

type DeleteIntakeParams struct {
	ID string `json:"id" jsonschema:"record id"`
}

type ListIntakeParams struct {
	Days      int    `json:"days,omitempty" jsonschema:"rolling window in days ending now"`
	StartDate string `json:"start_date,omitempty" jsonschema:"first calendar day (YYYY-MM-DD)"`
	EndDate   string `json:"end_date,omitempty" jsonschema:"last calendar day, inclusive (YYYY-MM-DD); defaults to start_date"`
}

type GetStatusParams struct{}

type ExportDataParams struct {
	Path string `json:"path" jsonschema:"destination file; overwritten if it exists"`
}

type ImportDataParams struct {
	Path string `json:"path" jsonschema:"file produced by export_data"`
}

type ClearDataParams struct {
	Confirm bool `json:"confirm" jsonschema:"must be true; removes the profile and every intake record"`
}

type ListActivityParams struct {
	Type     string `json:"type,omitempty" jsonschema:"only entries of this type"`
	RecordID string `json:"record_id,omitempty" jsonschema:"only entries about this intake record"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum entries (default 50)"`
	Offset   int    `json:"offset,omitempty" jsonschema:"entries to skip"`
}

type ProfileResult struct {
	Name          string  `json:"name"`
	Unit          string  `json:"unit"`
	TargetML      int     `json:"target_ml"`
	TargetDisplay string  `json:"target_display"`
	HeightCM      int     `json:"height_cm,omitempty"`
	WeightKG      float64 `json:"weight_kg,omitempty"`
	AgeYears      int     `json:"age_years,omitempty"`
	Gender        string  `json:"gender,omitempty"`
}

type IntakeResult struct {
	ID            string `json:"id"`
	Timestamp     string `json:"timestamp"`
	VolumeML      int    `json:"volume_ml"`
	VolumeDisplay string `json:"volume_display"`
	Note          string `json:"note,omitempty"`
}

type DeleteIntakeResult struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

type ListIntakeResult struct {
	Records      []IntakeResult `json:"records"`
	Count        int            `json:"count"`
	TotalML      int            `json:"total_ml"`
	TotalDisplay string         `json:"total_display"`
}

type StatusResult struct {
	Date             string  `json:"date"`
	ConsumedML       int     `json:"consumed_ml"`
	TargetML         int     `json:"target_ml"`
	RemainingML      int     `json:"remaining_ml"`
	Progress         float64 `json:"progress"`
	ProgressPercent  int     `json:"progress_percent"`
	Records          int     `json:"records"`
	ConsumedDisplay  string  `json:"consumed_display"`
	TargetDisplay    string  `json:"target_display"`
	RemainingDisplay string  `json:"remaining_display"`
}

type ExportDataResult struct {
	Path string `json:"path"`
}

type ImportDataResult struct {
	Path        string `json:"path"`
	ProfileName string `json:"profile_name"`
	Records     int    `json:"records"`
}

type ClearDataResult struct {
	Cleared bool `json:"cleared"`
}

type ActivityResult struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	RecordID  string `json:"record_id,omitempty"`
	Summary   string `json:"summary"`
	Details   string `json:"details,omitempty"`
	CreatedAt string `json:"created_at"`
}

type ListActivityResult struct {
	Entries []ActivityResult `json:"entries"`
}

func formatVolume(ml int, unit profile.Unit) string {
	if !unit.Valid() {
		unit = profile.UnitML
	}
	return unit.FromML(ml).String() + " " + string(unit)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(snapshot.TimestampLayout)
}

func toProfileResult(p *profile.Profile) ProfileResult {
	return ProfileResult{
		Name:          p.Name,
		Unit:          string(p.Unit),
		TargetML:      p.TargetML,
		TargetDisplay: formatVolume(p.TargetML, p.Unit),
		HeightCM:      p.HeightCM,
		WeightKG:      p.WeightKG.InexactFloat64(),
		AgeYears:      p.AgeYears,
		Gender:        string(p.Gender),
	}
}

func toIntakeResult(rec intake.Record, unit profile.Unit) IntakeResult {
	return IntakeResult{
		ID:            rec.ID,
		Timestamp:     formatTime(rec.Timestamp),
		VolumeML:      rec.VolumeML,
		VolumeDisplay: formatVolume(rec.VolumeML, unit),
		Note:          rec.Note,
	}
}

func toListIntakeResult(records []intake.Record, unit profile.Unit) ListIntakeResult {
	out := ListIntakeResult{Records: make([]IntakeResult, 0, len(records))}
	for _, rec := range records {
		out.Records = append(out.Records, toIntakeResult(rec, unit))
		out.TotalML += rec.VolumeML
	}
	out.Count = len(out.Records)
	out.TotalDisplay = formatVolume(out.TotalML, unit)
	return out
}

func toStatusResult(st *intake.DailyStatus, unit profile.Unit) StatusResult {
	return StatusResult{
		Date:             st.Date.Format(dateLayout),
		ConsumedML:       st.ConsumedML,
		TargetML:         st.TargetML,
		RemainingML:      st.RemainingML,
		Progress:         st.Progress,
		ProgressPercent:  int(st.Progress*100 + 0.5),
		Records:          st.Records,
		ConsumedDisplay:  formatVolume(st.ConsumedML, unit),
		TargetDisplay:    formatVolume(st.TargetML, unit),
		RemainingDisplay: formatVolume(st.RemainingML, unit),
	}
}

func toActivityResult(entry activity.ActivityEntry) ActivityResult {
	out := ActivityResult{
		ID:        entry.ID,
		Type:      string(entry.ActivityType),
		Summary:   entry.Summary,
		Details:   entry.Details,
		CreatedAt: formatTime(entry.CreatedAt),
	}
	if entry.RecordID != nil {
		out.RecordID = *entry.RecordID
	}
	return out
}
