package service

import (
	"fmt"

	"github.com/JWang8249/credit-risk-pipeline/internal/domain/model"
	"github.com/JWang8249/credit-risk-pipeline/internal/domain/port"
)

// Scorer defines the interface for credit default scoring.
type Scorer interface {
	Score(fields map[string]float64) (*model.Prediction, error)
}

// RiskScorer applies the persisted scaling transform and classifier to
// request fields. It holds no per-request state and is safe for concurrent use.
type RiskScorer struct {
	artifacts port.ArtifactSource
	aligner   *FeatureAligner
}

// NewRiskScorer creates a RiskScorer reading artifacts from source.
func NewRiskScorer(source port.ArtifactSource, aligner *FeatureAligner) *RiskScorer {
	if aligner == nil {
		aligner = NewFeatureAligner()
	}
	return &RiskScorer{
		artifacts: source,
		aligner:   aligner,
	}
}

// Score aligns, scales and classifies. Any failure aborts scoring; no partial
// or best-guess prediction is produced.
func (s *RiskScorer) Score(fields map[string]float64) (*model.Prediction, error) {
	artifacts, err := s.artifacts.Current()
	if err != nil {
		return nil, fmt.Errorf("load artifacts: %w", err)
	}

	// The same artifacts handle is used for all three steps so a concurrent
	// reload cannot mix a new scaler with an old classifier.
	vec := s.aligner.Align(fields, artifacts.Scaler.FeatureNames())

	scaled, err := artifacts.Scaler.Transform(vec)
	if err != nil {
		return nil, fmt.Errorf("scale features: %w", err)
	}

	label, err := artifacts.Classifier.Predict(scaled)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}

	return model.NewPrediction(label), nil
}
