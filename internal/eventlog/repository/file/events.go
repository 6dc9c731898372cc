package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"webhook-event-log/internal/eventlog/repository"
	"webhook-event-log/internal/model"
)

// Load reads the persisted array. A missing file yields an empty log.
func (r *fileRepository) Load(ctx context.Context) ([]model.NormalizedEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return []model.NormalizedEvent{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", repository.ErrFailedToLoad, r.path, err)
	}

	var events []model.NormalizedEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", repository.ErrCorruptLog, r.path, err)
	}
	for i := range events {
		if events[i].Commits == nil {
			events[i].Commits = []model.Commit{}
		}
	}
	if events == nil {
		events = []model.NormalizedEvent{}
	}
	return events, nil
}

// Save writes events to a temp file in the same directory and renames it over
// the log, so readers never observe a partially written file.
func (r *fileRepository) Save(ctx context.Context, events []model.NormalizedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if events == nil {
		events = []model.NormalizedEvent{}
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create dir %s: %v", repository.ErrFailedToSave, r.dir, err)
	}

	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", repository.ErrFailedToSave, err)
	}

	tmp, err := os.CreateTemp(r.dir, "."+filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp: %v", repository.ErrFailedToSave, err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once the rename succeeded
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write: %v", repository.ErrFailedToSave, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: sync: %v", repository.ErrFailedToSave, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close: %v", repository.ErrFailedToSave, err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("%w: rename: %v", repository.ErrFailedToSave, err)
	}
	return nil
}
