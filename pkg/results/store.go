package results

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const allTimeFile = "results.csv"

var csvHeader = []string{
	"task", "fold", "framework", "type", "metric", "result",
	"duration_s", "seed", "info", "scores", "timestamp",
}

// Store persists scoreboards under a scores directory. Each board appends to
// its own file and is merged into a cumulative all-time store; the two are
// saved independently.
type Store struct {
	Dir string
}

// Save appends the board's rows to the board file and to the all-time store.
func (s *Store) Save(board *Scoreboard) error {
	if board == nil {
		return nil
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	if err := appendRows(s.boardPath(board), board.Rows); err != nil {
		return fmt.Errorf("save scoreboard: %w", err)
	}
	if err := appendRows(filepath.Join(s.Dir, allTimeFile), board.Rows); err != nil {
		return fmt.Errorf("merge scoreboard into all-time store: %w", err)
	}
	return nil
}

func (s *Store) boardPath(board *Scoreboard) string {
	scope := board.Benchmark
	if board.Task != "" {
		scope = board.Task
	}
	return filepath.Join(s.Dir, fmt.Sprintf("%s_%s.csv", board.Framework, scope))
}

func appendRows(path string, rows []Result) error {
	_, statErr := os.Stat(path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(csvHeader); err != nil {
			return err
		}
	}
	for _, r := range rows {
		if err := w.Write(record(r)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func record(r Result) []string {
	scores := ""
	if len(r.Scores) > 0 {
		// NaN is not representable in JSON; missing scores are simply omitted.
		finite := make(map[string]float64, len(r.Scores))
		for name, value := range r.Scores {
			if !math.IsNaN(value) {
				finite[name] = value
			}
		}
		if data, err := json.Marshal(finite); err == nil {
			scores = string(data)
		}
	}
	return []string{
		r.Task,
		strconv.Itoa(r.Fold),
		r.Framework,
		string(r.Type),
		r.Metric,
		formatFloat(r.Value),
		formatFloat(r.Duration),
		strconv.FormatInt(r.Seed, 10),
		r.Info,
		scores,
		r.Timestamp.UTC().Format(time.RFC3339),
	}
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}
