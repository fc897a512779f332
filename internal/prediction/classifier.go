package prediction

import (
	"fmt"
	"math"

	"github.com/goccy/go-json"
)

const (
	classifierFormat  = "logistic_regression"
	classifierVersion = 1
)

// Classifier is a fitted binary classifier.
type Classifier interface {
	Predict(x []float64) (int, error)
	// PredictProba returns one probability per class, in class order.
	PredictProba(x []float64) ([]float64, error)
}

// LogisticRegression is a fitted binary logistic model.
type LogisticRegression struct {
	Format    string    `json:"format"`
	Version   int       `json:"version"`
	Classes   []int     `json:"classes"`
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

func DecodeLogisticRegression(data []byte) (*LogisticRegression, error) {
	var lr LogisticRegression
	if err := json.Unmarshal(data, &lr); err != nil {
		return nil, fmt.Errorf("decode classifier: %w", err)
	}
	if lr.Format != classifierFormat {
		return nil, fmt.Errorf("classifier format %q, want %q", lr.Format, classifierFormat)
	}
	if lr.Version != classifierVersion {
		return nil, fmt.Errorf("unsupported classifier version %d", lr.Version)
	}
	if len(lr.Classes) != 2 || lr.Classes[0] != 0 || lr.Classes[1] != 1 {
		return nil, fmt.Errorf("classifier classes %v, want [0 1]", lr.Classes)
	}
	if len(lr.Coef) == 0 {
		return nil, fmt.Errorf("classifier has no coefficients")
	}
	return &lr, nil
}

func (lr *LogisticRegression) decision(x []float64) (float64, error) {
	if len(x) != len(lr.Coef) {
		return 0, fmt.Errorf("feature width %d, classifier expects %d", len(x), len(lr.Coef))
	}
	z := lr.Intercept
	for i, c := range lr.Coef {
		z += c * x[i]
	}
	return z, nil
}

func (lr *LogisticRegression) Predict(x []float64) (int, error) {
	z, err := lr.decision(x)
	if err != nil {
		return 0, err
	}
	if z > 0 {
		return lr.Classes[1], nil
	}
	return lr.Classes[0], nil
}

func (lr *LogisticRegression) PredictProba(x []float64) ([]float64, error) {
	z, err := lr.decision(x)
	if err != nil {
		return nil, err
	}
	p := sigmoid(z)
	return []float64{1 - p, p}, nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
