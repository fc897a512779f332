package prediction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogisticRegression(t *testing.T) {
	lr, err := DecodeLogisticRegression([]byte(classifierJSON))
	require.NoError(t, err)

	x := []float64{1.75, -0.19, 0, 1, 1, 0}
	label, err := lr.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, 1, label)

	proba, err := lr.PredictProba(x)
	require.NoError(t, err)
	require.Len(t, proba, 2)
	assert.InDelta(t, sigmoid(2.162), proba[1], 1e-9)
	assert.InDelta(t, 1.0, proba[0]+proba[1], 1e-12)
}

func TestLogisticRegression_NegativeClass(t *testing.T) {
	lr := &LogisticRegression{Classes: []int{0, 1}, Coef: []float64{1}, Intercept: -3}

	label, err := lr.Predict([]float64{1})
	require.NoError(t, err)
	assert.Equal(t, 0, label)

	proba, err := lr.PredictProba([]float64{1})
	require.NoError(t, err)
	assert.Less(t, proba[1], 0.5)
}

func TestLogisticRegression_WidthMismatch(t *testing.T) {
	lr := &LogisticRegression{Classes: []int{0, 1}, Coef: []float64{1, 2}}

	_, err := lr.Predict([]float64{1})
	assert.Error(t, err)
	_, err = lr.PredictProba([]float64{1, 2, 3})
	assert.Error(t, err)
}

func TestSigmoid_Extremes(t *testing.T) {
	assert.InDelta(t, 0.5, sigmoid(0), 1e-12)
	assert.Equal(t, 1.0, sigmoid(1000))
	assert.Equal(t, 0.0, sigmoid(-1000))
}

func TestDecodeLogisticRegression_Rejects(t *testing.T) {
	for name, body := range map[string]string{
		"garbage":    "not json",
		"format":     `{"format":"svm","version":1,"classes":[0,1],"coef":[1]}`,
		"version":    `{"format":"logistic_regression","version":9,"classes":[0,1],"coef":[1]}`,
		"multiclass": `{"format":"logistic_regression","version":1,"classes":[0,1,2],"coef":[1]}`,
		"labels":     `{"format":"logistic_regression","version":1,"classes":[3,7],"coef":[1]}`,
		"reversed":   `{"format":"logistic_regression","version":1,"classes":[1,0],"coef":[1]}`,
		"no coef":    `{"format":"logistic_regression","version":1,"classes":[0,1],"coef":[]}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeLogisticRegression([]byte(body))
			assert.Error(t, err)
		})
	}
}
