package reporter

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/seb-h2o/automlbenchmark/pkg/results"
)

type CSVReporter struct {
	Writer io.Writer
}

func (r CSVReporter) Report(board *results.Scoreboard) error {
	writer := csv.NewWriter(r.Writer)
	header := []string{"task", "fold", "framework", "type", "metric", "result", "duration_s", "seed", "info"}
	if err := writer.Write(header); err != nil {
		return err
	}
	if board != nil {
		for _, row := range board.Rows {
			record := []string{
				row.Task,
				strconv.Itoa(row.Fold),
				row.Framework,
				string(row.Type),
				row.Metric,
				csvFloat(row.Value),
				csvFloat(row.Duration),
				strconv.FormatInt(row.Seed, 10),
				row.Info,
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

func csvFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}
