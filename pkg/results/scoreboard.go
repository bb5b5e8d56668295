package results

// Scoreboard is an ordered collection of results bound to either a single
// task or a whole benchmark run, never both.
type Scoreboard struct {
	Framework string
	Task      string
	Benchmark string
	Rows      []Result
}

// ForTask builds a scoreboard bound to one task.
func ForTask(rows []Result, framework, task string) *Scoreboard {
	return &Scoreboard{Framework: framework, Task: task, Rows: rows}
}

// ForBenchmark builds a scoreboard bound to a whole benchmark run.
func ForBenchmark(rows []Result, framework, benchmark string) *Scoreboard {
	return &Scoreboard{Framework: framework, Benchmark: benchmark, Rows: rows}
}

// Collect aggregates per-job results into a scoreboard, dropping jobs that
// produced no result at all. It returns nil when nothing remains: a partially
// failed batch still yields a board whose NoResult rows are visible.
func Collect(rows []Result, framework string, taskName string, benchmarkName string) *Scoreboard {
	var kept []Result
	for _, r := range rows {
		if r.IsZero() {
			continue
		}
		kept = append(kept, r)
	}
	if len(kept) == 0 {
		return nil
	}
	if taskName != "" {
		return ForTask(kept, framework, taskName)
	}
	return ForBenchmark(kept, framework, benchmarkName)
}
