package prediction

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const transformerJSON = `{
  "format": "column_transformer",
  "version": 1,
  "transformers": [
    {"kind": "standard_scaler", "columns": ["Year", "Rolling_Average_Gender_Ratio_5_Years", "Vowel_Count"], "mean": [70, 10, 3], "scale": [40, 50, 1.5]},
    {"kind": "passthrough", "columns": ["Is_Famous", "Gender_Binary", "Ends_With_Specified_Letters"]}
  ]
}`

const classifierJSON = `{
  "format": "logistic_regression",
  "version": 1,
  "classes": [0, 1],
  "coef": [0.8, 0.2, -0.1, 1.5, 0.3, -0.4],
  "intercept": -1.0
}`

func writeArtifact(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func scenarioInput() Input {
	return Input{
		Name:                            "Olivia",
		Year:                            2020,
		IsFamous:                        1,
		GenderBinary:                    1,
		RollingAverageGenderRatio5Years: 0.5,
		VowelCount:                      3,
		EndsWithSpecifiedLetters:        0,
	}
}
