package filestore

import (
	"context"
	"fmt"
	"slices"

	"github.com/rpggio/watertrack/internal/domain/intake"
	"github.com/rpggio/watertrack/internal/repository"
	"github.com/rpggio/watertrack/internal/snapshot"
)

// IntakeRepository implements intake.Repository on a Store.
// Records keep the order they were created in.
type IntakeRepository struct {
	store *Store
}

// NewIntakeRepository creates a new IntakeRepository
func NewIntakeRepository(store *Store) *IntakeRepository {
	return &IntakeRepository{store: store}
}

// Create appends a record
func (r *IntakeRepository) Create(_ context.Context, rec *intake.Record) error {
	if rec == nil {
		return fmt.Errorf("%w: record is nil", repository.ErrInvalidInput)
	}
	created := *rec
	return r.store.update(func(next *snapshot.State) error {
		if indexOf(next.Records, created.ID) >= 0 {
			return fmt.Errorf("%w: duplicate record id %s", repository.ErrInvalidInput, created.ID)
		}
		next.Records = append(next.Records, created)
		return nil
	})
}

// Get returns a record by ID
func (r *IntakeRepository) Get(_ context.Context, id string) (*intake.Record, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	i := indexOf(r.store.state.Records, id)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	rec := r.store.state.Records[i]
	return &rec, nil
}

// Update replaces a record in place
func (r *IntakeRepository) Update(_ context.Context, rec *intake.Record) error {
	if rec == nil {
		return fmt.Errorf("%w: record is nil", repository.ErrInvalidInput)
	}
	updated := *rec
	return r.store.update(func(next *snapshot.State) error {
		i := indexOf(next.Records, updated.ID)
		if i < 0 {
			return repository.ErrNotFound
		}
		next.Records[i] = updated
		return nil
	})
}

// Delete removes a record
func (r *IntakeRepository) Delete(_ context.Context, id string) error {
	return r.store.update(func(next *snapshot.State) error {
		i := indexOf(next.Records, id)
		if i < 0 {
			return repository.ErrNotFound
		}
		next.Records = slices.Delete(next.Records, i, i+1)
		return nil
	})
}

// List returns the records whose timestamps fall within opts
func (r *IntakeRepository) List(_ context.Context, opts intake.ListOptions) ([]intake.Record, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]intake.Record, 0, len(r.store.state.Records))
	for _, rec := range r.store.state.Records {
		if opts.Includes(rec.Timestamp) {
			out = append(out, rec)
		}
	}
	return out, nil
}
