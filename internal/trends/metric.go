package trends

import (
	"fmt"

	"github.com/babyname-machine/backend/internal/dataset"
	"github.com/babyname-machine/backend/pkg/apperr"
)

// Metric is the quantity plotted against year.
type Metric string

const (
	MetricCount           Metric = "Count"
	MetricNameRatio       Metric = "Name_Ratio"
	MetricGenderNameRatio Metric = "Gender_Name_Ratio"
)

// Metrics lists the accepted metrics in display order.
var Metrics = []Metric{MetricCount, MetricNameRatio, MetricGenderNameRatio}

// ParseMetric accepts exactly the three metric keys and rejects anything
// else with apperr.ErrInvalidArgument.
func ParseMetric(s string) (Metric, error) {
	m := Metric(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: unknown metric %q", apperr.ErrInvalidArgument, s)
	}
	return m, nil
}

func (m Metric) Valid() bool {
	switch m {
	case MetricCount, MetricNameRatio, MetricGenderNameRatio:
		return true
	default:
		return false
	}
}

// Label is the y-axis caption for the metric.
func (m Metric) Label() string {
	switch m {
	case MetricCount:
		return "Count"
	case MetricNameRatio:
		return "Name Per Thousand"
	case MetricGenderNameRatio:
		return "Gender Name Per Thousand"
	default:
		return ""
	}
}

func (m Metric) value(r dataset.NameRecord) float64 {
	switch m {
	case MetricNameRatio:
		return r.NameRatio
	case MetricGenderNameRatio:
		return r.GenderNameRatio
	default:
		return float64(r.Count)
	}
}
