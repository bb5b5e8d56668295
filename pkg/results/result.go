// Package results turns per-job outcomes into score records and aggregates
// them into scoreboards.
package results

import (
	"math"
	"time"

	"github.com/seb-h2o/automlbenchmark/pkg/core"
)

// Result is the outcome of one job: either a scored record or a no-result
// sentinel carrying a truncated diagnostic. Exactly one of the two; callers
// branch on NoResult instead of catching errors.
type Result struct {
	Task      string
	Fold      int
	Framework string
	Type      core.TaskType
	Metric    string
	// Value is the primary-metric score; NaN for a no-result.
	Value  float64
	Scores map[string]float64
	// Duration is the adapter-reported run time in seconds; NaN until the
	// runner reconciles it with its own wall-clock measurement.
	Duration  float64
	Seed      int64
	Info      string
	NoResult  bool
	Timestamp time.Time
}

// IsZero reports whether the result carries no identity at all (a job that
// produced nothing).
func (r Result) IsZero() bool {
	return r.Task == "" && r.Framework == ""
}

// NoResultOf builds the sentinel result for a failed job.
func NoResultOf(cfg core.TaskConfig, info string) Result {
	return Result{
		Task:      cfg.Name,
		Fold:      cfg.Fold,
		Framework: cfg.Framework,
		Type:      cfg.Type,
		Metric:    cfg.Metric,
		Value:     math.NaN(),
		Duration:  math.NaN(),
		Seed:      cfg.Seed,
		Info:      info,
		NoResult:  true,
		Timestamp: time.Now(),
	}
}

// Truncate shortens a diagnostic message to at most max characters, replacing
// the tail with an ellipsis marker. The result is exactly max characters long
// when truncation happens.
func Truncate(msg string, max int) string {
	const marker = "..."
	if max <= 0 || len(msg) <= max {
		return msg
	}
	if max <= len(marker) {
		return marker[:max]
	}
	return msg[:max-len(marker)] + marker
}
