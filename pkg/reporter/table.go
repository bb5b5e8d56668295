package reporter

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/seb-h2o/automlbenchmark/pkg/results"
)

type TableReporter struct {
	Writer io.Writer
}

func (r TableReporter) Report(board *results.Scoreboard) error {
	if board == nil || len(board.Rows) == 0 {
		_, err := fmt.Fprintln(r.Writer, "no results")
		return err
	}
	table := tablewriter.NewWriter(r.Writer)
	table.Header([]string{"Task", "Fold", "Framework", "Type", "Metric", "Result", "Duration (s)", "Info"})
	for _, row := range board.Rows {
		table.Append([]string{
			row.Task,
			strconv.Itoa(row.Fold),
			row.Framework,
			string(row.Type),
			row.Metric,
			formatValue(row.Value),
			formatValue(row.Duration),
			row.Info,
		})
	}
	table.Render()
	return nil
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}
