package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/watertrack/internal/domain/activity"
	"github.com/rpggio/watertrack/internal/repository"
)

// Service handles intake business logic.
type Service struct {
	records    Repository
	targets    TargetProvider
	activities ActivityRepository
	limits     Limits
	logger     *slog.Logger
	now        func() time.Time
	loc        *time.Location
}

// NewService creates a new intake service.
func NewService(
	records Repository,
	targets TargetProvider,
	activities ActivityRepository,
	limits Limits,
	logger *slog.Logger,
) *Service {
	return &Service{
		records:    records,
		targets:    targets,
		activities: activities,
		limits:     limits,
		logger:     logger,
		now:        time.Now,
		loc:        time.Local,
	}
}

// WithClock overrides the time source and the zone that defines calendar days.
func (s *Service) WithClock(now func() time.Time, loc *time.Location) *Service {
	s.now = now
	if loc != nil {
		s.loc = loc
	}
	return s
}

// AddRequest describes a new intake.
type AddRequest struct {
	VolumeML  int
	Note      string
	Timestamp *time.Time
}

// UpdateRequest describes an intake edit. Nil fields are left unchanged.
type UpdateRequest struct {
	ID        string
	VolumeML  *int
	Note      *string
	Timestamp *time.Time
}

// Add records a new intake after checking the single and daily limits.
func (s *Service) Add(ctx context.Context, req AddRequest) (*Record, error) {
	if err := ValidateVolume(req.VolumeML, s.limits); err != nil {
		return nil, err
	}

	ts := s.now()
	if req.Timestamp != nil {
		if err := ValidateTimestamp(*req.Timestamp); err != nil {
			return nil, err
		}
		ts = *req.Timestamp
	}

	rec := &Record{
		ID:        uuid.NewString(),
		Timestamp: NormalizeTimestamp(ts),
		VolumeML:  req.VolumeML,
		Note:      strings.TrimSpace(req.Note),
	}

	if err := s.checkDailyLimit(ctx, rec.Timestamp, rec.VolumeML, ""); err != nil {
		return nil, err
	}

	if err := s.records.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("creating intake: %w", err)
	}

	s.logActivity(ctx, activity.TypeIntakeAdded, rec.ID, fmt.Sprintf("added %d ml", rec.VolumeML), recordDetails(*rec))
	return rec, nil
}

// Update edits an existing intake.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*Record, error) {
	if req.ID == "" {
		return nil, ErrInvalidInput
	}

	current, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	updated := *current
	if req.VolumeML != nil {
		if err := ValidateVolume(*req.VolumeML, s.limits); err != nil {
			return nil, err
		}
		updated.VolumeML = *req.VolumeML
	}
	if req.Note != nil {
		updated.Note = strings.TrimSpace(*req.Note)
	}
	if req.Timestamp != nil {
		if err := ValidateTimestamp(*req.Timestamp); err != nil {
			return nil, err
		}
		updated.Timestamp = NormalizeTimestamp(*req.Timestamp)
	}

	if err := s.checkDailyLimit(ctx, updated.Timestamp, updated.VolumeML, updated.ID); err != nil {
		return nil, err
	}

	if err := s.records.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("updating intake: %w", err)
	}

	s.logActivity(ctx, activity.TypeIntakeUpdated, updated.ID, fmt.Sprintf("updated intake to %d ml", updated.VolumeML), recordDetails(updated))
	return &updated, nil
}

// Delete removes an intake.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	if err := s.records.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecordNotFound
		}
		return fmt.Errorf("deleting intake: %w", err)
	}

	s.logActivity(ctx, activity.TypeIntakeDeleted, id, fmt.Sprintf("deleted intake %s", id), "")
	return nil
}

// Get returns an intake by ID.
func (s *Service) Get(ctx context.Context, id string) (*Record, error) {
	rec, err := s.records.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("getting intake: %w", err)
	}
	return rec, nil
}

// List returns records matching opts in logged order.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Record, error) {
	return s.records.List(ctx, opts)
}

// ListRecent returns records from the last days*24h up to now.
func (s *Service) ListRecent(ctx context.Context, days int) ([]Record, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: days must be greater than 0", ErrInvalidInput)
	}
	if days > MaxRecentDays {
		return nil, fmt.Errorf("%w: days must be at most %d", ErrInvalidInput, MaxRecentDays)
	}
	to := s.now()
	from := to.Add(-time.Duration(days) * 24 * time.Hour)
	return s.records.List(ctx, ListOptions{From: &from, To: &to})
}

// ListRange returns records between the start of startDate's day and the end
// of endDate's day.
func (s *Service) ListRange(ctx context.Context, startDate, endDate time.Time) ([]Record, error) {
	from, _ := s.dayBounds(startDate)
	_, to := s.dayBounds(endDate)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: end date is before start date", ErrInvalidInput)
	}
	return s.records.List(ctx, ListOptions{From: &from, To: &to})
}

// DailyConsumption returns the total volume logged today.
func (s *Service) DailyConsumption(ctx context.Context) (int, error) {
	total, _, err := s.dayTotal(ctx, s.now(), "")
	return total, err
}

// Status returns today's consumption against the profile target.
func (s *Service) Status(ctx context.Context) (*DailyStatus, error) {
	now := s.now()
	consumed, count, err := s.dayTotal(ctx, now, "")
	if err != nil {
		return nil, err
	}

	target := 0
	if s.targets != nil {
		target, err = s.targets.DailyTarget(ctx)
		if err != nil {
			return nil, fmt.Errorf("getting daily target: %w", err)
		}
	}

	start, _ := s.dayBounds(now)
	return &DailyStatus{
		Date:        start,
		ConsumedML:  consumed,
		TargetML:    target,
		RemainingML: max(target-consumed, 0),
		Progress:    Progress(consumed, target),
		Records:     count,
	}, nil
}

// Progress returns consumed/target clamped to [0, 1]; 0 when there is no target.
func Progress(consumedML, targetML int) float64 {
	if targetML <= 0 || consumedML <= 0 {
		return 0
	}
	return min(1.0, float64(consumedML)/float64(targetML))
}

func (s *Service) checkDailyLimit(ctx context.Context, ts time.Time, volumeML int, excludeID string) error {
	if s.limits.MaxDailyML <= 0 {
		return nil
	}
	total, _, err := s.dayTotal(ctx, ts, excludeID)
	if err != nil {
		return err
	}
	if total+volumeML > s.limits.MaxDailyML {
		return fmt.Errorf("%w: %d ml already logged, limit %d ml", ErrDailyLimitExceeded, total, s.limits.MaxDailyML)
	}
	return nil
}

func (s *Service) dayTotal(ctx context.Context, day time.Time, excludeID string) (int, int, error) {
	from, to := s.dayBounds(day)
	recs, err := s.records.List(ctx, ListOptions{From: &from, To: &to})
	if err != nil {
		return 0, 0, fmt.Errorf("listing intake: %w", err)
	}
	total, count := 0, 0
	for _, rec := range recs {
		if rec.ID == excludeID {
			continue
		}
		total += rec.VolumeML
		count++
	}
	return total, count, nil
}

func (s *Service) dayBounds(t time.Time) (time.Time, time.Time) {
	local := t.In(s.loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	end := start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return start, end
}

func (s *Service) logActivity(ctx context.Context, typ activity.ActivityType, recordID, summary, details string) {
	if s.activities != nil {
		_ = s.activities.Log(ctx, &activity.ActivityEntry{
			RecordID:     &recordID,
			ActivityType: typ,
			Summary:      summary,
			Details:      details,
		})
	}
	if s.logger != nil {
		s.logger.Debug("intake changed", "type", typ, "record_id", recordID)
	}
}

func recordDetails(rec Record) string {
	details := "timestamp=" + rec.Timestamp.Format(time.RFC3339Nano)
	if rec.Note != "" {
		details += " note=" + rec.Note
	}
	return details
}
