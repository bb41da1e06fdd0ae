package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rpggio/watertrack/internal/domain/activity"
	"github.com/rpggio/watertrack/internal/repository"
	"github.com/shopspring/decimal"
)

// Service handles profile operations.
type Service struct {
	repo       Repository
	activities ActivityRepository
	logger     *slog.Logger
}

// NewService creates a new profile service.
func NewService(repo Repository, activities ActivityRepository, logger *slog.Logger) *Service {
	return &Service{repo: repo, activities: activities, logger: logger}
}

// SaveRequest defines profile creation or update inputs. A zero TargetML
// derives the target from the body measurements.
type SaveRequest struct {
	Name     string
	Unit     Unit
	TargetML int
	HeightCM int
	WeightKG decimal.Decimal
	AgeYears int
	Gender   Gender
}

// Save creates the profile or replaces the existing one.
func (s *Service) Save(ctx context.Context, req SaveRequest) (*Profile, error) {
	if err := validateSaveRequest(req); err != nil {
		return nil, err
	}

	unit := req.Unit
	if unit == "" {
		unit = UnitML
	}

	p := &Profile{
		Name:     strings.TrimSpace(req.Name),
		Unit:     unit,
		TargetML: req.TargetML,
		HeightCM: req.HeightCM,
		WeightKG: req.WeightKG,
		AgeYears: req.AgeYears,
		Gender:   Gender(strings.ToUpper(string(req.Gender))),
	}
	if p.TargetML == 0 {
		p.TargetML = ComputeDailyTarget(p.HeightCM, p.WeightKG, p.AgeYears, p.Gender)
	}
	if err := Validate(*p); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("saving profile: %w", err)
	}

	if s.activities != nil {
		_ = s.activities.Log(ctx, &activity.ActivityEntry{
			ActivityType: activity.TypeProfileSaved,
			Summary:      fmt.Sprintf("saved profile %q with target %d ml", p.Name, p.TargetML),
		})
	}
	if s.logger != nil {
		s.logger.Info("profile saved", "name", p.Name, "target_ml", p.TargetML)
	}

	return p, nil
}

// Get returns the profile.
func (s *Service) Get(ctx context.Context) (*Profile, error) {
	p, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("getting profile: %w", err)
	}
	return p, nil
}

// Has reports whether a profile exists.
func (s *Service) Has(ctx context.Context) (bool, error) {
	_, err := s.Get(ctx)
	if errors.Is(err, ErrProfileNotFound) {
		return false, nil
	}
	return err == nil, err
}

// DailyTarget returns the daily target in milliliters, or 0 without a profile.
func (s *Service) DailyTarget(ctx context.Context) (int, error) {
	p, err := s.Get(ctx)
	if errors.Is(err, ErrProfileNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return p.TargetML, nil
}
