// Package filestore keeps the tracker state in memory and mirrors every change
// to a single checksummed JSON data file.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"sync"

	"github.com/rpggio/watertrack/internal/domain/intake"
	"github.com/rpggio/watertrack/internal/domain/profile"
	"github.com/rpggio/watertrack/internal/snapshot"
)

var (
	_ snapshot.Source    = (*Store)(nil)
	_ snapshot.Sink      = (*Store)(nil)
	_ profile.Repository = (*ProfileRepository)(nil)
	_ intake.Repository  = (*IntakeRepository)(nil)
)

// Store holds the current state. An empty path keeps the state in memory only.
type Store struct {
	mu     sync.RWMutex
	path   string
	state  snapshot.State
	logger *slog.Logger
}

// Open loads the data file at path. A missing file starts an empty state; a
// file that fails verification is an error, so a damaged file is never
// silently overwritten.
func Open(path string, logger *slog.Logger) (*Store, error) {
	s := &Store{path: path, state: emptyState(), logger: logger}
	if path == "" {
		return s, nil
	}

	st, err := snapshot.ReadFile(path)
	switch {
	case err == nil:
		s.state = st
	case errors.Is(err, fs.ErrNotExist):
		if logger != nil {
			logger.Info("no data file yet, starting empty", "path", path)
		}
	default:
		return nil, fmt.Errorf("opening data file %s: %w", path, err)
	}
	return s, nil
}

// Path returns the data file location.
func (s *Store) Path() string {
	return s.path
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot(_ context.Context) (snapshot.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneState(s.state), nil
}

// Replace swaps in st as the whole state.
func (s *Store) Replace(_ context.Context, st snapshot.State) error {
	return s.update(func(next *snapshot.State) error {
		*next = cloneState(st)
		return nil
	})
}

// update applies fn to a copy of the state and commits the copy only once it
// has been written to disk.
func (s *Store) update(fn func(next *snapshot.State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := cloneState(s.state)
	if err := fn(&next); err != nil {
		return err
	}
	if err := s.persist(next); err != nil {
		return err
	}
	s.state = next
	return nil
}

func (s *Store) persist(st snapshot.State) error {
	if s.path == "" {
		return nil
	}
	data, err := snapshot.Encode(st)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	if err := snapshot.WriteFile(s.path, data); err != nil {
		return fmt.Errorf("persisting state: %w", err)
	}
	if s.logger != nil {
		s.logger.Debug("state persisted", "path", s.path, "records", len(st.Records))
	}
	return nil
}

func emptyState() snapshot.State {
	return snapshot.State{Records: []intake.Record{}}
}

func cloneState(st snapshot.State) snapshot.State {
	out := snapshot.State{Records: make([]intake.Record, len(st.Records))}
	copy(out.Records, st.Records)
	if st.Profile != nil {
		p := *st.Profile
		out.Profile = &p
	}
	return out
}

func indexOf(records []intake.Record, id string) int {
	return slices.IndexFunc(records, func(rec intake.Record) bool { return rec.ID == id })
}
