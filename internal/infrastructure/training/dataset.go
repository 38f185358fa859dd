// Package training fits the scaling transform and classifier out of band and
// evaluates them. It is used by the creditrisk CLI, never by the server.
package training

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"
)

// Column names of the raw credit default dataset.
const (
	RawTargetColumn = "default.payment.next.month"
	TargetColumn    = "default"
	IDColumn        = "ID"
)

// Dataset is a dense numeric feature matrix with binary targets.
type Dataset struct {
	Features []string
	X        [][]float64
	Y        []int
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Y)
}

// LoadCSV reads a dataset file. See ReadCSV.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	ds, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// ReadCSV parses a header-first CSV. The raw target column is renamed to
// "default", the ID column is dropped, and every other column becomes a
// feature in file order. A processed file with a "target" column is also
// accepted.
func ReadCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	targetIdx := -1
	var featureIdx []int
	var features []string
	for i, col := range header {
		col = strings.TrimSpace(col)
		switch col {
		case RawTargetColumn, TargetColumn, "target":
			targetIdx = i
		case IDColumn:
		default:
			featureIdx = append(featureIdx, i)
			features = append(features, col)
		}
	}
	if targetIdx < 0 {
		return nil, fmt.Errorf("no target column (%q or %q)", RawTargetColumn, TargetColumn)
	}
	if len(features) == 0 {
		return nil, errors.New("no feature columns")
	}

	ds := &Dataset{Features: features}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		row := make([]float64, len(featureIdx))
		for j, idx := range featureIdx {
			v, err := strconv.ParseFloat(strings.TrimSpace(record[idx]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %q: %w", line, features[j], err)
			}
			row[j] = v
		}

		target, err := strconv.ParseFloat(strings.TrimSpace(record[targetIdx]), 64)
		if err != nil || (target != 0 && target != 1) {
			return nil, fmt.Errorf("line %d: target must be 0 or 1, got %q", line, record[targetIdx])
		}

		ds.X = append(ds.X, row)
		ds.Y = append(ds.Y, int(target))
	}

	if ds.Len() == 0 {
		return nil, errors.New("dataset has no rows")
	}
	return ds, nil
}

// TrainTestSplit shuffles rows with a fixed seed and holds out testSize of
// them. At least one row lands on each side.
func TrainTestSplit(ds *Dataset, testSize float64, seed int64) (train, test *Dataset, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("test size must be in (0, 1), got %v", testSize)
	}
	n := ds.Len()
	if n < 2 {
		return nil, nil, fmt.Errorf("need at least 2 rows to split, got %d", n)
	}

	nTest := int(float64(n)*testSize + 0.5)
	if nTest < 1 {
		nTest = 1
	}
	if nTest >= n {
		nTest = n - 1
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	test = subset(ds, perm[:nTest])
	train = subset(ds, perm[nTest:])
	return train, test, nil
}

func subset(ds *Dataset, idx []int) *Dataset {
	out := &Dataset{
		Features: ds.Features,
		X:        make([][]float64, len(idx)),
		Y:        make([]int, len(idx)),
	}
	for i, j := range idx {
		out.X[i] = ds.X[j]
		out.Y[i] = ds.Y[j]
	}
	return out
}

// WriteProcessedCSV writes scaled features plus a "target" column.
func WriteProcessedCSV(path string, features []string, scaled [][]float64, y []int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create processed dataset: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close processed dataset: %w", cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(append(append([]string(nil), features...), "target")); err != nil {
		return err
	}
	for i, row := range scaled {
		rec := make([]string, 0, len(row)+1)
		for _, v := range row {
			rec = append(rec, strconv.FormatFloat(v, 'g', -1, 64))
		}
		rec = append(rec, strconv.Itoa(y[i]))
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write processed dataset: %w", err)
	}
	return nil
}
