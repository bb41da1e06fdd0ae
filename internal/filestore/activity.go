package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/rpggio/watertrack/internal/domain/activity"
	"github.com/rpggio/watertrack/internal/repository"
	"github.com/tidwall/gjson"
)

var _ activity.Repository = (*ActivityRepository)(nil)

// ActivityRepository implements activity.Repository as an
// append-only JSON Lines journal. An empty path keeps entries in memory only.
type ActivityRepository struct {
	mu      sync.Mutex
	path    string
	entries []activity.ActivityEntry
	nextID  int64
}

// OpenActivityRepository loads the journal at path. Lines that cannot be
// decoded are skipped with a warning.
func OpenActivityRepository(path string, logger *slog.Logger) (*ActivityRepository, error) {
	r := &ActivityRepository{path: path, nextID: 1}
	if path == "" {
		return r, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read activity log: %w", err)
	}

	lineNo := 0
	gjson.ForEachLine(string(data), func(line gjson.Result) bool {
		lineNo++
		var entry activity.ActivityEntry
		if err := json.Unmarshal([]byte(line.Raw), &entry); err != nil {
			if logger != nil {
				logger.Warn("skipping unreadable activity entry", "path", path, "line", lineNo, "error", err)
			}
			return true
		}
		r.entries = append(r.entries, entry)
		if entry.ID >= r.nextID {
			r.nextID = entry.ID + 1
		}
		return true
	})
	return r, nil
}

// Log appends a new activity entry
func (r *ActivityRepository) Log(_ context.Context, entry *activity.ActivityEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: activity entry is nil", repository.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *entry
	stored.ID = r.nextID
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	stored.CreatedAt = stored.CreatedAt.UTC()

	if r.path != "" {
		if err := r.appendLine(stored); err != nil {
			return fmt.Errorf("failed to log activity: %w", err)
		}
	}

	r.nextID++
	r.entries = append(r.entries, stored)
	entry.ID = stored.ID
	entry.CreatedAt = stored.CreatedAt
	return nil
}

func (r *ActivityRepository) appendLine(entry activity.ActivityEntry) error {
	line, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(r.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns activity entries matching the given filters, newest first
func (r *ActivityRepository) List(_ context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := []activity.ActivityEntry{}
	skipped := 0
	for i := len(r.entries) - 1; i >= 0; i-- {
		entry := r.entries[i]
		if opts.RecordID != nil && (entry.RecordID == nil || *entry.RecordID != *opts.RecordID) {
			continue
		}
		if opts.ActivityType != nil && entry.ActivityType != *opts.ActivityType {
			continue
		}
		if skipped < opts.Offset {
			skipped++
			continue
		}
		entries = append(entries, entry)
		if opts.Limit > 0 && len(entries) == opts.Limit {
			break
		}
	}
	return entries, nil
}
