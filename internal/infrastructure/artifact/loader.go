package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/JWang8249/credit-risk-pipeline/internal/domain/port"
)

// Default file names written by the training job.
const (
	DefaultScalerFile = "scaler.json"
	DefaultModelFile  = "model.json"
)

// LoadScaler reads and validates a scaler document.
func LoadScaler(path string) (*StandardScaler, error) {
	var doc ScalerDocument
	if err := readJSON(path, &doc); err != nil {
		return nil, err
	}
	return NewStandardScaler(doc.FeatureNamesIn, doc.Mean, doc.Scale)
}

// LoadModel reads and validates a classifier document.
func LoadModel(path string) (*LogisticRegression, []string, error) {
	var doc ModelDocument
	if err := readJSON(path, &doc); err != nil {
		return nil, nil, err
	}
	if doc.Type != "" && doc.Type != ModelTypeLogisticRegression {
		return nil, nil, fmt.Errorf("%s: unsupported model type %q", path, doc.Type)
	}
	m, err := NewLogisticRegression(doc.Coef, doc.Intercept)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, doc.FeatureNames, nil
}

// Load reads both artifacts and checks they agree on the feature schema.
func Load(scalerPath, modelPath string) (*port.Artifacts, error) {
	scaler, err := LoadScaler(scalerPath)
	if err != nil {
		return nil, fmt.Errorf("load scaler: %w", err)
	}

	model, names, err := LoadModel(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	if model.NumFeatures() != scaler.Schema().Len() {
		return nil, fmt.Errorf("model expects %d features but scaler was fit on %d",
			model.NumFeatures(), scaler.Schema().Len())
	}
	if len(names) > 0 && strings.Join(names, ",") != strings.Join(scaler.FeatureNames(), ",") {
		return nil, fmt.Errorf("model and scaler feature orders differ")
	}

	return &port.Artifacts{Scaler: scaler, Classifier: model}, nil
}

// Save writes both artifacts into dir using the default file names.
func Save(dir string, scaler *StandardScaler, model *LogisticRegression) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, DefaultScalerFile), scaler.Document()); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, DefaultModelFile), model.Document(scaler.FeatureNames()))
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
