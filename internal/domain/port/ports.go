package port

import (
	"context"

	"github.com/JWang8249/credit-risk-pipeline/internal/domain/model"
)

// Scaler is a fitted, deterministic feature transform.
type Scaler interface {
	// FeatureNames returns the column order recorded when the transform was fit.
	FeatureNames() []string

	// Transform scales a vector aligned to FeatureNames.
	Transform(x []float64) ([]float64, error)
}

// Classifier is a fitted binary model.
type Classifier interface {
	// Predict returns a class label in {0, 1} for a scaled vector.
	Predict(x []float64) (int, error)
}

// Artifacts is the immutable pair of fitted objects loaded at startup.
type Artifacts struct {
	Scaler     Scaler
	Classifier Classifier
}

// ArtifactSource hands out the artifacts currently in service.
type ArtifactSource interface {
	Current() (*Artifacts, error)
}

// AuditSink persists audit records. Implementations may fail; callers treat
// failures as non-fatal.
type AuditSink interface {
	Record(ctx context.Context, rec model.AuditRecord) error
}
