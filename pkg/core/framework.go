package core

import "context"

// Prediction pairs one predicted value with the ground truth, both in their
// string form as they would appear in a predictions file.
type Prediction struct {
	Predicted string
	Truth     string
}

// MetaResult is what a framework adapter reports back after a run.
type MetaResult struct {
	Predictions []Prediction
	// Duration is the training+prediction time in seconds as measured by the
	// adapter itself. NaN when the adapter did not measure it.
	Duration float64
}

// Framework is an adapter performing the actual model training and evaluation
// for one named framework.
type Framework interface {
	Name() string
	Run(ctx context.Context, ds Dataset, cfg TaskConfig) (MetaResult, error)
}

// SetupCapable is implemented by adapters that need a one-time setup step.
type SetupCapable interface {
	Setup(args []string) error
}
