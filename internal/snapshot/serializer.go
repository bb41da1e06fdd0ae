package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rpggio/watertrack/internal/domain/activity"
	"github.com/rpggio/watertrack/internal/domain/intake"
)

// Source provides the current state for export.
type Source interface {
	Snapshot(ctx context.Context) (State, error)
}

// Sink receives a verified state on import and replaces the current one.
type Sink interface {
	Replace(ctx context.Context, st State) error
}

// ActivityRepository logs export and import events.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}

// Serializer exports and imports checksummed state documents.
type Serializer struct {
	source     Source
	sink       Sink
	activities ActivityRepository
	logger     *slog.Logger
}

// NewSerializer creates a serializer reading from source and writing imports to sink.
func NewSerializer(source Source, sink Sink, activities ActivityRepository, logger *slog.Logger) *Serializer {
	return &Serializer{source: source, sink: sink, activities: activities, logger: logger}
}

// Export writes the current state to path, overwriting it.
func (s *Serializer) Export(ctx context.Context, path string) error {
	st, err := s.source.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("reading state: %w", err)
	}
	if st.Profile == nil {
		return ErrNoProfile
	}

	data, err := Encode(st)
	if err != nil {
		return err
	}
	if err := WriteFile(path, data); err != nil {
		return err
	}

	s.logActivity(ctx, activity.TypeDataExported, fmt.Sprintf("exported %d records", len(st.Records)), "path="+path)
	if s.logger != nil {
		s.logger.Info("state exported", "path", path, "records", len(st.Records))
	}
	return nil
}

// Import verifies the document at path and replaces the current state with
// it. On any error the current state is left untouched.
func (s *Serializer) Import(ctx context.Context, path string) (State, error) {
	st, err := ReadFile(path)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("import rejected", "path", path, "error", err)
		}
		return State{}, err
	}
	if st.Profile == nil {
		return State{}, fmt.Errorf("%w: document has no profile", ErrParse)
	}

	if err := s.sink.Replace(ctx, st); err != nil {
		return State{}, fmt.Errorf("replacing state: %w", err)
	}

	s.logActivity(ctx, activity.TypeDataImported, fmt.Sprintf("imported %d records for %s", len(st.Records), st.Profile.Name), "path="+path)
	if s.logger != nil {
		s.logger.Info("state imported", "path", path, "records", len(st.Records))
	}
	return st, nil
}

// Reset replaces the current state with an empty one.
func (s *Serializer) Reset(ctx context.Context) error {
	if err := s.sink.Replace(ctx, State{Records: []intake.Record{}}); err != nil {
		return fmt.Errorf("clearing state: %w", err)
	}
	s.logActivity(ctx, activity.TypeDataCleared, "cleared profile and intake history", "")
	if s.logger != nil {
		s.logger.Info("state cleared")
	}
	return nil
}

func (s *Serializer) logActivity(ctx context.Context, typ activity.ActivityType, summary, details string) {
	if s.activities == nil {
		return
	}
	_ = s.activities.Log(ctx, &activity.ActivityEntry{ActivityType: typ, Summary: summary, Details: details})
}

// ReadFile reads and verifies the document at path.
func ReadFile(path string) (State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return State{}, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return Decode(data)
}

// WriteFile replaces path with data through a temporary file in the same
// directory, so readers never observe a partial document.
func WriteFile(path string, data []byte) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	tmpName := tmp.Name()

	if err := writeAndClose(tmp, data); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

func writeAndClose(f *os.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Chmod(0o644); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
