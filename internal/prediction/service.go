package prediction

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/babyname-machine/backend/internal/metrics"
	"github.com/babyname-machine/backend/pkg/logger"
)

// PositiveClass is the column of PredictProba holding the "Top 100"
// probability.
const PositiveClass = 1

type Result struct {
	Name        string    `json:"name"`
	Label       int       `json:"label"`
	Probability float64   `json:"probability"`
	InTop100    bool      `json:"in_top_100"`
	Message     string    `json:"message"`
	Transformed []float64 `json:"-"`
}

type Service struct {
	transformer *Handle[Transformer]
	classifier  *Handle[Classifier]
	log         *zap.Logger
}

func NewService(transformer *Handle[Transformer], classifier *Handle[Classifier]) *Service {
	return &Service{
		transformer: transformer,
		classifier:  classifier,
		log:         logger.Named("prediction"),
	}
}

// ArtifactsLoaded reports whether both artifacts have been deserialized.
func (s *Service) ArtifactsLoaded() bool {
	return s.transformer.Loaded() && s.classifier.Loaded()
}

// Predict normalizes the input year, transforms the row and asks the
// classifier for a label and the positive class probability. Artifact load
// failures are returned as is.
func (s *Service) Predict(ctx context.Context, in Input) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	transformer, err := s.transformer.Get()
	if err != nil {
		return nil, err
	}
	classifier, err := s.classifier.Get()
	if err != nil {
		return nil, err
	}

	x, err := transformer.Transform(NewFeatureVector(in))
	if err != nil {
		return nil, fmt.Errorf("transform features: %w", err)
	}

	label, err := classifier.Predict(x)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	proba, err := classifier.PredictProba(x)
	if err != nil {
		return nil, fmt.Errorf("predict proba: %w", err)
	}
	if len(proba) <= PositiveClass {
		return nil, fmt.Errorf("predict proba returned %d columns", len(proba))
	}
	probability := proba[PositiveClass]

	metrics.PredictionTotal.WithLabelValues(strconv.Itoa(label)).Inc()
	metrics.PredictionProbability.Observe(probability)

	s.log.Debug("Prediction served",
		zap.String("name", in.Name),
		zap.Int("year", in.Year),
		zap.Int("label", label),
		zap.Float64("probability", probability),
	)

	return &Result{
		Name:        in.Name,
		Label:       label,
		Probability: probability,
		InTop100:    label == 1,
		Message:     message(in.Name, label),
		Transformed: x,
	}, nil
}

func message(name string, label int) string {
	if label == 1 {
		return fmt.Sprintf("The name %s is predicted to be in the Top 100.", name)
	}
	return fmt.Sprintf("The name %s is predicted to be not in the Top 100.", name)
}

// FormatProbability renders p the way the prediction page shows it.
func FormatProbability(p float64) string {
	return fmt.Sprintf("Probability of being in the Top 100: %.3f", p)
}
