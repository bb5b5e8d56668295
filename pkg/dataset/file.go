// Package dataset provides the file-backed dataset service: train/test CSV
// splits cached under an input directory, one subdirectory per task id.
package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/seb-h2o/automlbenchmark/pkg/core"
)

// FileService loads datasets from <Dir>/<task_id>/{train,test}_<fold>.csv.
// Task-id references are the only supported dataset shape.
type FileService struct {
	Dir string
}

func (s *FileService) Load(_ context.Context, ref core.DatasetRef, fold int) (core.Dataset, error) {
	if ref.DatasetID != "" {
		return nil, fmt.Errorf("%w: dataset-id references are not supported yet", core.ErrUnsupportedDataset)
	}
	if ref.Path != "" {
		return nil, fmt.Errorf("%w: raw dataset files are not supported yet", core.ErrUnsupportedDataset)
	}
	if ref.TaskID == "" {
		return nil, fmt.Errorf("%w: task definition carries no dataset reference", core.ErrUnsupportedDataset)
	}

	trainPath := filepath.Join(s.Dir, ref.TaskID, fmt.Sprintf("train_%d.csv", fold))
	testPath := filepath.Join(s.Dir, ref.TaskID, fmt.Sprintf("test_%d.csv", fold))
	for _, p := range []string{trainPath, testPath} {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("load dataset for task %s fold %d: %w", ref.TaskID, fold, err)
		}
	}

	categorical, err := targetIsCategorical(trainPath)
	if err != nil {
		return nil, fmt.Errorf("inspect target for task %s fold %d: %w", ref.TaskID, fold, err)
	}

	return &fileDataset{
		train:  trainPath,
		test:   testPath,
		target: target{categorical: categorical},
	}, nil
}

// targetIsCategorical reports whether the last column of the CSV holds
// non-numeric values. The header row is skipped.
func targetIsCategorical(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return false, err
	}
	if len(rows) < 2 {
		return false, fmt.Errorf("%s: no data rows", path)
	}
	for _, row := range rows[1:] {
		value := row[len(row)-1]
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return true, nil
		}
	}
	return false, nil
}

type target struct {
	categorical bool
}

func (t target) IsCategorical() bool { return t.categorical }

type fileDataset struct {
	train  string
	test   string
	target target

	releaseOnce sync.Once
	released    bool
}

func (d *fileDataset) Target() core.Target { return d.target }
func (d *fileDataset) TrainPath() string   { return d.train }
func (d *fileDataset) TestPath() string    { return d.test }

// Release frees the handle. Safe to call more than once.
func (d *fileDataset) Release() {
	d.releaseOnce.Do(func() {
		d.released = true
	})
}
