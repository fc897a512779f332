package prediction

import (
	"fmt"

	"github.com/goccy/go-json"
)

const (
	transformerFormat  = "column_transformer"
	transformerVersion = 1
)

// Transformer maps a raw feature row onto the numeric vector the classifier
// was trained on.
type Transformer interface {
	Transform(FeatureVector) ([]float64, error)
}

// Transformer step kinds.
const (
	StepStandardScaler = "standard_scaler"
	StepPassthrough    = "passthrough"
	StepOneHot         = "one_hot"
)

// ColumnTransformer applies its steps in order and concatenates their
// outputs, like a fitted scikit-learn ColumnTransformer.
type ColumnTransformer struct {
	Format       string `json:"format"`
	Version      int    `json:"version"`
	Transformers []Step `json:"transformers"`
}

type Step struct {
	Kind    string   `json:"kind"`
	Columns []string `json:"columns"`

	// standard_scaler
	Mean  []float64 `json:"mean,omitempty"`
	Scale []float64 `json:"scale,omitempty"`

	// one_hot, one category list per column. Unknown values encode as all
	// zeros.
	Categories [][]float64 `json:"categories,omitempty"`
}

// DecodeColumnTransformer parses and checks a serialized transformer.
func DecodeColumnTransformer(data []byte) (*ColumnTransformer, error) {
	var ct ColumnTransformer
	if err := json.Unmarshal(data, &ct); err != nil {
		return nil, fmt.Errorf("decode transformer: %w", err)
	}
	if err := ct.validate(); err != nil {
		return nil, err
	}
	return &ct, nil
}

func (ct *ColumnTransformer) validate() error {
	if ct.Format != transformerFormat {
		return fmt.Errorf("transformer format %q, want %q", ct.Format, transformerFormat)
	}
	if ct.Version != transformerVersion {
		return fmt.Errorf("unsupported transformer version %d", ct.Version)
	}
	if len(ct.Transformers) == 0 {
		return fmt.Errorf("transformer has no steps")
	}

	known := NewFeatureVector(Input{}).Columns()
	for i, step := range ct.Transformers {
		for _, col := range step.Columns {
			if _, ok := known[col]; !ok {
				return fmt.Errorf("step %d: unknown column %q", i, col)
			}
		}
		switch step.Kind {
		case StepStandardScaler:
			if len(step.Mean) != len(step.Columns) || len(step.Scale) != len(step.Columns) {
				return fmt.Errorf("step %d: scaler has %d columns, %d means, %d scales",
					i, len(step.Columns), len(step.Mean), len(step.Scale))
			}
		case StepOneHot:
			if len(step.Categories) != len(step.Columns) {
				return fmt.Errorf("step %d: one_hot has %d columns, %d category lists",
					i, len(step.Columns), len(step.Categories))
			}
		case StepPassthrough:
		default:
			return fmt.Errorf("step %d: unknown kind %q", i, step.Kind)
		}
	}
	return nil
}

// OutputWidth is the length of every vector Transform returns.
func (ct *ColumnTransformer) OutputWidth() int {
	n := 0
	for _, step := range ct.Transformers {
		if step.Kind == StepOneHot {
			for _, cats := range step.Categories {
				n += len(cats)
			}
			continue
		}
		n += len(step.Columns)
	}
	return n
}

func (ct *ColumnTransformer) Transform(f FeatureVector) ([]float64, error) {
	row := f.Columns()
	out := make([]float64, 0, ct.OutputWidth())

	for _, step := range ct.Transformers {
		for j, col := range step.Columns {
			v, ok := row[col]
			if !ok {
				return nil, fmt.Errorf("feature %q missing", col)
			}

			switch step.Kind {
			case StepStandardScaler:
				scale := step.Scale[j]
				if scale == 0 {
					scale = 1
				}
				out = append(out, (v-step.Mean[j])/scale)
			case StepOneHot:
				for _, c := range step.Categories[j] {
					if v == c {
						out = append(out, 1)
					} else {
						out = append(out, 0)
					}
				}
			default:
				out = append(out, v)
			}
		}
	}
	return out, nil
}
