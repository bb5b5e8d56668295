package framework

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/seb-h2o/automlbenchmark/pkg/core"
)

// ConstantPredictor is the reference adapter: it predicts the majority class
// for classification tasks and the target mean for regression tasks. It has
// no dependencies and always succeeds on well-formed data.
type ConstantPredictor struct{}

func (ConstantPredictor) Name() string { return "constant" }

func (ConstantPredictor) Run(_ context.Context, ds core.Dataset, cfg core.TaskConfig) (core.MetaResult, error) {
	start := time.Now()

	trainTargets, err := targetColumn(ds.TrainPath())
	if err != nil {
		return core.MetaResult{}, err
	}
	testTargets, err := targetColumn(ds.TestPath())
	if err != nil {
		return core.MetaResult{}, err
	}

	var constant string
	if cfg.Type == core.Regression {
		constant, err = meanOf(trainTargets)
		if err != nil {
			return core.MetaResult{}, err
		}
	} else {
		constant = majorityOf(trainTargets)
	}

	preds := make([]core.Prediction, len(testTargets))
	for i, truth := range testTargets {
		preds[i] = core.Prediction{Predicted: constant, Truth: truth}
	}
	return core.MetaResult{
		Predictions: preds,
		Duration:    time.Since(start).Seconds(),
	}, nil
}

func targetColumn(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s: no data rows", path)
	}
	targets := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		targets = append(targets, row[len(row)-1])
	}
	return targets, nil
}

func majorityOf(values []string) string {
	counts := make(map[string]int, len(values))
	best := ""
	for _, v := range values {
		counts[v]++
		if best == "" || counts[v] > counts[best] {
			best = v
		}
	}
	return best
}

func meanOf(values []string) (string, error) {
	var sum float64
	for _, v := range values {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return "", fmt.Errorf("non-numeric target %q", v)
		}
		sum += f
	}
	mean := sum / float64(len(values))
	return strconv.FormatFloat(mean, 'f', -1, 64), nil
}
