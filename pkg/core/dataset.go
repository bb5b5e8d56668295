package core

import "context"

// Target describes the target column of a dataset.
type Target interface {
	IsCategorical() bool
}

// Dataset is a handle to the feature/target data for one task/fold. The job
// that loaded it owns it exclusively. Release must be safe to call more than
// once.
type Dataset interface {
	Target() Target
	TrainPath() string
	TestPath() string
	Release()
}

// DatasetService loads datasets for tasks. Implementations may cache on disk.
type DatasetService interface {
	Load(ctx context.Context, ref DatasetRef, fold int) (Dataset, error)
}
