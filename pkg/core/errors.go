package core

import "errors"

// Sentinel errors for configuration problems that abort a run before any job
// executes. Callers match with errors.Is.
var (
	ErrUnknownTask        = errors.New("unknown task")
	ErrTaskDisabled       = errors.New("task disabled")
	ErrInvalidFoldSpec    = errors.New("invalid fold spec")
	ErrFoldOutOfRange     = errors.New("fold out of range")
	ErrNoTaskAvailable    = errors.New("no task available")
	ErrUnsupportedDataset = errors.New("unsupported dataset")
)
