package file

import (
	"path/filepath"

	"webhook-event-log/internal/eventlog/repository"
)

// DefaultFileName is the log file created inside the data directory.
const DefaultFileName = "github-events.json"

type fileRepository struct {
	dir  string
	path string
}

var _ repository.Repository = (*fileRepository)(nil)

// New returns a repository that keeps the log as one JSON array at dir/name.
// The directory is created on first save.
func New(dir, name string) *fileRepository {
	if name == "" {
		name = DefaultFileName
	}
	return &fileRepository{
		dir:  dir,
		path: filepath.Join(dir, name),
	}
}

// Path returns the location of the log file.
func (r *fileRepository) Path() string { return r.path }
