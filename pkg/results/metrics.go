package results

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/seb-h2o/automlbenchmark/pkg/core"
)

// Metric computes one score from a set of predictions.
type Metric func(preds []core.Prediction) (float64, error)

var metrics = map[string]Metric{
	"acc":  accuracy,
	"err":  errorRate,
	"rmse": rmse,
	"mse":  mse,
	"mae":  mae,
	"r2":   r2,
}

// ComputeScores builds the scored result for one successful framework run.
// A metric that cannot be computed yields NaN for that metric only.
func ComputeScores(cfg core.TaskConfig, meta core.MetaResult) Result {
	scores := make(map[string]float64, len(cfg.Metrics))
	for _, name := range cfg.Metrics {
		fn, ok := metrics[name]
		if !ok {
			scores[name] = math.NaN()
			continue
		}
		value, err := fn(meta.Predictions)
		if err != nil {
			scores[name] = math.NaN()
			continue
		}
		scores[name] = value
	}

	value := math.NaN()
	if v, ok := scores[cfg.Metric]; ok {
		value = v
	}

	return Result{
		Task:      cfg.Name,
		Fold:      cfg.Fold,
		Framework: cfg.Framework,
		Type:      cfg.Type,
		Metric:    cfg.Metric,
		Value:     value,
		Scores:    scores,
		Duration:  meta.Duration,
		Seed:      cfg.Seed,
		Timestamp: time.Now(),
	}
}

func accuracy(preds []core.Prediction) (float64, error) {
	if len(preds) == 0 {
		return 0, fmt.Errorf("acc: no predictions")
	}
	correct := 0
	for _, p := range preds {
		if p.Predicted == p.Truth {
			correct++
		}
	}
	return float64(correct) / float64(len(preds)), nil
}

func errorRate(preds []core.Prediction) (float64, error) {
	acc, err := accuracy(preds)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}

func numericPairs(preds []core.Prediction) ([]float64, []float64, error) {
	if len(preds) == 0 {
		return nil, nil, fmt.Errorf("no predictions")
	}
	predicted := make([]float64, len(preds))
	truth := make([]float64, len(preds))
	for i, p := range preds {
		var err error
		if predicted[i], err = strconv.ParseFloat(p.Predicted, 64); err != nil {
			return nil, nil, fmt.Errorf("non-numeric prediction %q", p.Predicted)
		}
		if truth[i], err = strconv.ParseFloat(p.Truth, 64); err != nil {
			return nil, nil, fmt.Errorf("non-numeric truth %q", p.Truth)
		}
	}
	return predicted, truth, nil
}

func mse(preds []core.Prediction) (float64, error) {
	predicted, truth, err := numericPairs(preds)
	if err != nil {
		return 0, fmt.Errorf("mse: %w", err)
	}
	var sum float64
	for i := range predicted {
		d := predicted[i] - truth[i]
		sum += d * d
	}
	return sum / float64(len(predicted)), nil
}

func rmse(preds []core.Prediction) (float64, error) {
	m, err := mse(preds)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(m), nil
}

func mae(preds []core.Prediction) (float64, error) {
	predicted, truth, err := numericPairs(preds)
	if err != nil {
		return 0, fmt.Errorf("mae: %w", err)
	}
	var sum float64
	for i := range predicted {
		sum += math.Abs(predicted[i] - truth[i])
	}
	return sum / float64(len(predicted)), nil
}

func r2(preds []core.Prediction) (float64, error) {
	predicted, truth, err := numericPairs(preds)
	if err != nil {
		return 0, fmt.Errorf("r2: %w", err)
	}
	var mean float64
	for _, t := range truth {
		mean += t
	}
	mean /= float64(len(truth))

	var ssRes, ssTot float64
	for i := range truth {
		d := truth[i] - predicted[i]
		ssRes += d * d
		m := truth[i] - mean
		ssTot += m * m
	}
	if ssTot == 0 {
		return 0, fmt.Errorf("r2: constant truth values")
	}
	return 1 - ssRes/ssTot, nil
}
