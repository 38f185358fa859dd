package cli

import (
	"fmt"
	"path/filepath"

	urfave "github.com/urfave/cli/v2"

	"github.com/JWang8249/credit-risk-pipeline/internal/infrastructure/artifact"
	"github.com/JWang8249/credit-risk-pipeline/internal/infrastructure/training"
)

var (
	scalerPathFlag = &urfave.StringFlag{
		Name:  "scaler",
		Usage: "Path to the persisted scaler artifact",
		Value: filepath.Join("models", artifact.DefaultScalerFile),
	}

	modelPathFlag = &urfave.StringFlag{
		Name:  "model",
		Usage: "Path to the persisted model artifact",
		Value: filepath.Join("models", artifact.DefaultModelFile),
	}

	formatFlag = &urfave.StringFlag{
		Name:  "format",
		Usage: "Output format [text, json, yaml]",
		Value: formatText,
	}

	evaluateCmd = &urfave.Command{
		Name:   "evaluate",
		Usage:  "Score a labelled dataset with the persisted artifacts",
		Action: cmdEvaluate,
		Flags: []urfave.Flag{
			dataPathFlag,
			scalerPathFlag,
			modelPathFlag,
			formatFlag,
		},
	}
)

func cmdEvaluate(c *urfave.Context) error {
	eval, err := training.EvaluateArtifacts(
		c.String(dataPathFlag.Name),
		c.String(scalerPathFlag.Name),
		c.String(modelPathFlag.Name),
	)
	if err != nil {
		return fmt.Errorf("evaluation: %w", err)
	}

	w := c.App.Writer
	format := c.String(formatFlag.Name)
	if format != formatText {
		return encode(w, format, eval)
	}

	fmt.Fprintln(w, "Confusion Matrix:")
	for _, row := range eval.ConfusionMatrix {
		fmt.Fprintln(w, row)
	}
	fmt.Fprintln(w, "\nClassification Report:")
	return eval.Report.WriteText(w)
}
