package evaluation

import (
	"context"
	"fmt"
	"math"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/babyname-machine/backend/internal/prediction"
	"github.com/babyname-machine/backend/pkg/apperr"
	"github.com/babyname-machine/backend/pkg/logger"
)

// Clipping bound for log loss, matching the usual scikit-learn epsilon.
const epsilon = 1e-15

type Evaluator struct {
	service *prediction.Service
}

type EvaluationDataset struct {
	Items []DatasetItem `json:"items"`
}

// DatasetItem is one labeled input. Expected is 1 for a Top 100 name.
type DatasetItem struct {
	Input    prediction.Input `json:"input"`
	Expected int              `json:"expected"`
}

type EvaluationReport struct {
	Total          int
	TruePositives  int
	FalsePositives int
	TrueNegatives  int
	FalseNegatives int
	Accuracy       float64
	Precision      float64
	Recall         float64
	F1             float64
	LogLoss        float64
}

func NewEvaluator(service *prediction.Service) *Evaluator {
	return &Evaluator{
		service: service,
	}
}

// RunDatasetEvaluation predicts every item and scores the labels against
// Expected. The first prediction error aborts the run.
func (e *Evaluator) RunDatasetEvaluation(ctx context.Context, dataset *EvaluationDataset) (*EvaluationReport, error) {
	report := &EvaluationReport{Total: len(dataset.Items)}
	if report.Total == 0 {
		return report, nil
	}

	totalLoss := 0.0
	for i, item := range dataset.Items {
		result, err := e.service.Predict(ctx, item.Input)
		if err != nil {
			return nil, fmt.Errorf("item %d (%s): %w", i, item.Input.Name, err)
		}

		switch {
		case result.Label == 1 && item.Expected == 1:
			report.TruePositives++
		case result.Label == 1:
			report.FalsePositives++
		case item.Expected == 1:
			report.FalseNegatives++
		default:
			report.TrueNegatives++
		}

		totalLoss += logLoss(result.Probability, item.Expected)
	}

	n := float64(report.Total)
	report.Accuracy = float64(report.TruePositives+report.TrueNegatives) / n
	report.Precision = ratio(report.TruePositives, report.TruePositives+report.FalsePositives)
	report.Recall = ratio(report.TruePositives, report.TruePositives+report.FalseNegatives)
	if report.Precision+report.Recall > 0 {
		report.F1 = 2 * report.Precision * report.Recall / (report.Precision + report.Recall)
	}
	report.LogLoss = totalLoss / n

	logger.Info("Evaluation complete",
		zap.Int("total", report.Total),
		zap.Float64("accuracy", report.Accuracy),
		zap.Float64("f1", report.F1),
	)

	return report, nil
}

func logLoss(p float64, expected int) float64 {
	p = math.Min(math.Max(p, epsilon), 1-epsilon)
	if expected == 1 {
		return -math.Log(p)
	}
	return -math.Log(1 - p)
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func (e *Evaluator) LoadDatasetFromJSON(data []byte) (*EvaluationDataset, error) {
	var dataset EvaluationDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		return nil, fmt.Errorf("%w: evaluation dataset: %v", apperr.ErrParse, err)
	}
	for i, item := range dataset.Items {
		if item.Expected != 0 && item.Expected != 1 {
			return nil, fmt.Errorf("%w: item %d expected label %d", apperr.ErrInvalidArgument, i, item.Expected)
		}
	}
	return &dataset, nil
}

func (e *Evaluator) GenerateReport(report *EvaluationReport) string {
	return fmt.Sprintf(`
Evaluation Report
=================

Total Names: %d

Confusion Matrix:
- True Positives:  %d
- False Positives: %d
- True Negatives:  %d
- False Negatives: %d

Scores:
- Accuracy:  %.3f
- Precision: %.3f
- Recall:    %.3f
- F1:        %.3f
- Log Loss:  %.4f
`,
		report.Total,
		report.TruePositives,
		report.FalsePositives,
		report.TrueNegatives,
		report.FalseNegatives,
		report.Accuracy,
		report.Precision,
		report.Recall,
		report.F1,
		report.LogLoss,
	)
}
