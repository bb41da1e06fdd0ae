package mocks

import (
	"context"

	"github.com/rpggio/watertrack/internal/domain/activity"
	"github.com/rpggio/watertrack/internal/domain/intake"
	"github.com/rpggio/watertrack/internal/domain/profile"
	"github.com/stretchr/testify/mock"
)

// ProfileRepository is a mock for profile.Repository.
type ProfileRepository struct {
	mock.Mock
}

func (m *ProfileRepository) Get(ctx context.Context) (*profile.Profile, error) {
	args := m.Called(ctx)
	if p, ok := args.Get(0).(*profile.Profile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProfileRepository) Save(ctx context.Context, p *profile.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// IntakeRepository is a mock for intake.Repository.
type IntakeRepository struct {
	mock.Mock
}

func (m *IntakeRepository) Create(ctx context.Context, rec *intake.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *IntakeRepository) Get(ctx context.Context, id string) (*intake.Record, error) {
	args := m.Called(ctx, id)
	if rec, ok := args.Get(0).(*intake.Record); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *IntakeRepository) Update(ctx context.Context, rec *intake.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *IntakeRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *IntakeRepository) List(ctx context.Context, opts intake.ListOptions) ([]intake.Record, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]intake.Record); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// TargetProvider is a mock for intake.TargetProvider.
type TargetProvider struct {
	mock.Mock
}

func (m *TargetProvider) DailyTarget(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
