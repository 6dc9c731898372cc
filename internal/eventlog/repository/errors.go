package repository

import "errors"

var (
	ErrFailedToLoad = errors.New("failed to load event log")
	ErrFailedToSave = errors.New("failed to save event log")
	ErrCorruptLog   = errors.New("persisted event log is corrupt")
)
