package training

import (
	"fmt"
	"log/slog"

	"github.com/JWang8249/credit-risk-pipeline/internal/domain/valueobject"
	"github.com/JWang8249/credit-risk-pipeline/internal/infrastructure/artifact"
)

// TrainConfig configures a training run.
type TrainConfig struct {
	DataPath      string
	OutputDir     string
	ProcessedPath string
	TestSize      float64
	Seed          int64
	Logistic      LogisticConfig
}

// DefaultTrainConfig returns the defaults used by the CLI.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		DataPath:  "data/UCI_Credit_Card.csv",
		OutputDir: "models",
		TestSize:  0.2,
		Seed:      42,
		Logistic:  DefaultLogisticConfig(),
	}
}

// TrainResult is what a training run produced.
type TrainResult struct {
	Scaler     *artifact.StandardScaler
	Model      *artifact.LogisticRegression
	Fit        *FitResult
	Evaluation *Evaluation
	TrainRows  int
	TestRows   int
}

// Train loads the dataset, fits the scaler on every row, splits, fits the
// classifier on the training rows, scores the held-out rows and writes both
// artifacts to OutputDir.
func Train(cfg TrainConfig, logger *slog.Logger) (*TrainResult, error) {
	ds, err := LoadCSV(cfg.DataPath)
	if err != nil {
		return nil, err
	}
	logger.Info("dataset loaded", "path", cfg.DataPath, "rows", ds.Len(), "features", len(ds.Features))

	scaler, err := FitStandardScaler(ds.Features, ds.X)
	if err != nil {
		return nil, err
	}
	scaledX, err := TransformAll(scaler, ds.X)
	if err != nil {
		return nil, fmt.Errorf("scale dataset: %w", err)
	}
	scaled := &Dataset{Features: ds.Features, X: scaledX, Y: ds.Y}

	if cfg.ProcessedPath != "" {
		if err := WriteProcessedCSV(cfg.ProcessedPath, ds.Features, scaledX, ds.Y); err != nil {
			return nil, err
		}
		logger.Info("processed dataset written", "path", cfg.ProcessedPath)
	}

	train, test, err := TrainTestSplit(scaled, cfg.TestSize, cfg.Seed)
	if err != nil {
		return nil, err
	}

	fit, err := FitLogisticRegression(train.X, train.Y, cfg.Logistic)
	if err != nil {
		return nil, err
	}
	logger.Info("classifier fitted",
		"iterations", fit.Iterations,
		"converged", fit.Converged,
		"log_loss", fit.Loss,
	)

	eval, err := Evaluate(fit.Model.Predict, test.X, test.Y)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}

	if err := artifact.Save(cfg.OutputDir, scaler, fit.Model); err != nil {
		return nil, err
	}
	logger.Info("artifacts saved", "dir", cfg.OutputDir, "accuracy", eval.Report.Accuracy)

	return &TrainResult{
		Scaler:     scaler,
		Model:      fit.Model,
		Fit:        fit,
		Evaluation: eval,
		TrainRows:  train.Len(),
		TestRows:   test.Len(),
	}, nil
}

// EvaluateArtifacts scores a raw dataset with saved artifacts. Rows are
// reordered to the scaler's columns and scaled exactly once.
func EvaluateArtifacts(dataPath, scalerPath, modelPath string) (*Evaluation, error) {
	ds, err := LoadCSV(dataPath)
	if err != nil {
		return nil, err
	}
	artifacts, err := artifact.Load(scalerPath, modelPath)
	if err != nil {
		return nil, err
	}

	have, err := valueobject.NewFeatureSchema(ds.Features)
	if err != nil {
		return nil, fmt.Errorf("dataset columns: %w", err)
	}
	columns := artifacts.Scaler.FeatureNames()
	for _, name := range columns {
		if !have.Contains(name) {
			return nil, fmt.Errorf("dataset is missing column %q", name)
		}
	}

	x := make([][]float64, ds.Len())
	for i, row := range ds.X {
		aligned := make([]float64, len(columns))
		for j, name := range columns {
			aligned[j] = row[have.Index(name)]
		}
		scaledRow, err := artifacts.Scaler.Transform(aligned)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		x[i] = scaledRow
	}

	return Evaluate(artifacts.Classifier.Predict, x, ds.Y)
}
