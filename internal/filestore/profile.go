package filestore

import (
	"context"
	"fmt"

	"github.com/rpggio/watertrack/internal/domain/profile"
	"github.com/rpggio/watertrack/internal/repository"
	"github.com/rpggio/watertrack/internal/snapshot"
)

// ProfileRepository implements profile.Repository on a Store
type ProfileRepository struct {
	store *Store
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(store *Store) *ProfileRepository {
	return &ProfileRepository{store: store}
}

// Get returns the stored profile
func (r *ProfileRepository) Get(_ context.Context) (*profile.Profile, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if r.store.state.Profile == nil {
		return nil, repository.ErrNotFound
	}
	p := *r.store.state.Profile
	return &p, nil
}

// Save creates or replaces the profile
func (r *ProfileRepository) Save(_ context.Context, p *profile.Profile) error {
	if p == nil {
		return fmt.Errorf("%w: profile is nil", repository.ErrInvalidInput)
	}
	saved := *p
	return r.store.update(func(next *snapshot.State) error {
		next.Profile = &saved
		return nil
	})
}
