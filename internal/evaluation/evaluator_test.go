package evaluation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babyname-machine/backend/internal/prediction"
	"github.com/babyname-machine/backend/pkg/apperr"
)

// The classifier only looks at Is_Famous: famous names score 0.9, others 0.1.
func newEvaluator(t *testing.T) *Evaluator {
	t.Helper()

	transformer, err := prediction.DecodeColumnTransformer([]byte(`{
		"format": "column_transformer",
		"version": 1,
		"transformers": [{"kind": "passthrough", "columns": ["Is_Famous"]}]
	}`))
	require.NoError(t, err)

	classifier, err := prediction.DecodeLogisticRegression([]byte(`{
		"format": "logistic_regression",
		"version": 1,
		"classes": [0, 1],
		"coef": [4.394449154672439],
		"intercept": -2.1972245773362196
	}`))
	require.NoError(t, err)

	return NewEvaluator(prediction.NewService(
		prediction.StaticHandle[prediction.Transformer]("transformer", transformer),
		prediction.StaticHandle[prediction.Classifier]("classifier", classifier),
	))
}

func TestRunDatasetEvaluation(t *testing.T) {
	e := newEvaluator(t)

	dataset, err := e.LoadDatasetFromJSON([]byte(`{"items": [
		{"input": {"name": "Olivia", "year": 2020, "is_famous": 1}, "expected": 1},
		{"input": {"name": "Emma", "year": 2020, "is_famous": 1}, "expected": 0},
		{"input": {"name": "Zebulon", "year": 2020, "is_famous": 0}, "expected": 0},
		{"input": {"name": "Liam", "year": 2020, "is_famous": 0}, "expected": 1}
	]}`))
	require.NoError(t, err)
	require.Len(t, dataset.Items, 4)
	assert.Equal(t, "Olivia", dataset.Items[0].Input.Name)

	report, err := e.RunDatasetEvaluation(context.Background(), dataset)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 1, report.TruePositives)
	assert.Equal(t, 1, report.FalsePositives)
	assert.Equal(t, 1, report.TrueNegatives)
	assert.Equal(t, 1, report.FalseNegatives)
	assert.InDelta(t, 0.5, report.Accuracy, 1e-9)
	assert.InDelta(t, 0.5, report.Precision, 1e-9)
	assert.InDelta(t, 0.5, report.Recall, 1e-9)
	assert.InDelta(t, 0.5, report.F1, 1e-9)
	// Two items at -ln(0.9) and two at -ln(0.1).
	assert.InDelta(t, 1.2040, report.LogLoss, 1e-3)

	text := e.GenerateReport(report)
	assert.Contains(t, text, "Total Names: 4")
	assert.Contains(t, text, "Accuracy:  0.500")
}

func TestRunDatasetEvaluation_Empty(t *testing.T) {
	report, err := newEvaluator(t).RunDatasetEvaluation(context.Background(), &EvaluationDataset{})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Total)
	assert.Zero(t, report.Accuracy)
}

func TestLoadDatasetFromJSON_Errors(t *testing.T) {
	e := newEvaluator(t)

	_, err := e.LoadDatasetFromJSON([]byte(`{"items": [`))
	assert.True(t, errors.Is(err, apperr.ErrParse))

	_, err = e.LoadDatasetFromJSON([]byte(`{"items": [{"input": {"name": "Ada"}, "expected": 3}]}`))
	assert.True(t, errors.Is(err, apperr.ErrInvalidArgument))
}
