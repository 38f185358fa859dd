package cli

import (
	"fmt"
	"log/slog"

	urfave "github.com/urfave/cli/v2"

	"github.com/JWang8249/credit-risk-pipeline/internal/infrastructure/training"
)

var (
	dataPathFlag = &urfave.StringFlag{
		Name:  "data",
		Usage: "Path to the labelled credit card CSV",
		Value: training.DefaultTrainConfig().DataPath,
	}

	outputDirFlag = &urfave.StringFlag{
		Name:  "out",
		Usage: "Directory the scaler and model artifacts are written to",
		Value: training.DefaultTrainConfig().OutputDir,
	}

	processedPathFlag = &urfave.StringFlag{
		Name:  "processed",
		Usage: "Optional path for the scaled dataset CSV",
	}

	testSizeFlag = &urfave.Float64Flag{
		Name:  "test-size",
		Usage: "Fraction of rows held out for evaluation",
		Value: training.DefaultTrainConfig().TestSize,
	}

	seedFlag = &urfave.Int64Flag{
		Name:  "seed",
		Usage: "Seed of the train/test shuffle",
		Value: training.DefaultTrainConfig().Seed,
	}

	maxIterFlag = &urfave.IntFlag{
		Name:  "max-iter",
		Usage: "Maximum gradient descent iterations",
		Value: training.DefaultLogisticConfig().MaxIter,
	}

	trainCmd = &urfave.Command{
		Name:   "train",
		Usage:  "Fit the scaler and classifier and persist both artifacts",
		Action: cmdTrain,
		Flags: []urfave.Flag{
			dataPathFlag,
			outputDirFlag,
			processedPathFlag,
			testSizeFlag,
			seedFlag,
			maxIterFlag,
		},
	}
)

func cmdTrain(c *urfave.Context) error {
	cfg := training.DefaultTrainConfig()
	cfg.DataPath = c.String(dataPathFlag.Name)
	cfg.OutputDir = c.String(outputDirFlag.Name)
	cfg.ProcessedPath = c.String(processedPathFlag.Name)
	cfg.TestSize = c.Float64(testSizeFlag.Name)
	cfg.Seed = c.Int64(seedFlag.Name)
	cfg.Logistic.MaxIter = c.Int(maxIterFlag.Name)

	if cfg.TestSize <= 0 || cfg.TestSize >= 1 {
		return fmt.Errorf("--%s must be between 0 and 1, got %v", testSizeFlag.Name, cfg.TestSize)
	}

	res, err := training.Train(cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("training: %w", err)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "trained on %d rows, evaluated on %d rows\n", res.TrainRows, res.TestRows)
	fmt.Fprintf(w, "converged: %t after %d iterations (log loss %.4f)\n",
		res.Fit.Converged, res.Fit.Iterations, res.Fit.Loss)
	fmt.Fprintf(w, "confusion matrix: %v\n\n", res.Evaluation.ConfusionMatrix)
	if err := res.Evaluation.Report.WriteText(w); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nartifacts written to %s\n", cfg.OutputDir)
	return nil
}
