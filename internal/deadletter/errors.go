package deadletter

import "errors"

var (
	ErrOpenFailed   = errors.New("could not open dead-letter database")
	ErrSchemaFailed = errors.New("failed to initialize dead-letter schema")
	ErrRecordFailed = errors.New("failed to record dead letter")
	ErrQueryFailed  = errors.New("failed to query dead letters")
	ErrPruneFailed  = errors.New("failed to prune dead letters")
)
