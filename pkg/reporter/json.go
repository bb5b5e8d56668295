package reporter

import (
	"encoding/json"
	"io"
	"math"
	"time"

	"github.com/seb-h2o/automlbenchmark/pkg/results"
)

type JSONReporter struct {
	Writer io.Writer
	Pretty bool
}

type jsonReport struct {
	Framework string    `json:"framework"`
	Task      string    `json:"task,omitempty"`
	Benchmark string    `json:"benchmark,omitempty"`
	Rows      []jsonRow `json:"rows"`
}

// jsonRow mirrors results.Result with NaN values mapped to null, which the
// JSON encoder cannot represent otherwise.
type jsonRow struct {
	Task      string             `json:"task"`
	Fold      int                `json:"fold"`
	Framework string             `json:"framework"`
	Type      string             `json:"type"`
	Metric    string             `json:"metric"`
	Result    *float64           `json:"result"`
	Duration  *float64           `json:"duration_s"`
	Seed      int64              `json:"seed"`
	Info      string             `json:"info,omitempty"`
	Scores    map[string]float64 `json:"scores,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

func (r JSONReporter) Report(board *results.Scoreboard) error {
	report := jsonReport{}
	if board != nil {
		report.Framework = board.Framework
		report.Task = board.Task
		report.Benchmark = board.Benchmark
		report.Rows = make([]jsonRow, 0, len(board.Rows))
		for _, row := range board.Rows {
			report.Rows = append(report.Rows, jsonRow{
				Task:      row.Task,
				Fold:      row.Fold,
				Framework: row.Framework,
				Type:      string(row.Type),
				Metric:    row.Metric,
				Result:    finite(row.Value),
				Duration:  finite(row.Duration),
				Seed:      row.Seed,
				Info:      row.Info,
				Scores:    finiteScores(row.Scores),
				Timestamp: row.Timestamp,
			})
		}
	}
	encoder := json.NewEncoder(r.Writer)
	if r.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(report)
}

func finite(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func finiteScores(scores map[string]float64) map[string]float64 {
	if len(scores) == 0 {
		return nil
	}
	kept := make(map[string]float64, len(scores))
	for name, value := range scores {
		if !math.IsNaN(value) {
			kept[name] = value
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}
