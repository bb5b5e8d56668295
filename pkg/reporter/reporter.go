// Package reporter renders scoreboards for human and machine consumers.
package reporter

import "github.com/seb-h2o/automlbenchmark/pkg/results"

// Reporter writes a scoreboard report.
type Reporter interface {
	Report(board *results.Scoreboard) error
}

const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)
