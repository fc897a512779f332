package trends

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/babyname-machine/backend/internal/dataset"
	"github.com/babyname-machine/backend/internal/metrics"
	"github.com/babyname-machine/backend/pkg/logger"
)

type Query struct {
	Names     []string
	Metric    Metric
	StartYear int
	EndYear   int
}

type Point struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

type Series struct {
	Name   string         `json:"name"`
	Gender dataset.Gender `json:"gender"`
	Label  string         `json:"label"`
	Style  Style          `json:"style"`
	Points []Point        `json:"points"`
}

// Chart is everything a renderer needs to draw one trends figure.
type Chart struct {
	Title     string   `json:"title"`
	XLabel    string   `json:"x_label"`
	YLabel    string   `json:"y_label"`
	Metric    Metric   `json:"metric"`
	StartYear int      `json:"start_year"`
	EndYear   int      `json:"end_year"`
	Series    []Series `json:"series"`
}

// ParseNames splits the comma separated names field and trims each entry.
// Empty entries are kept; they match no rows.
func ParseNames(input string) []string {
	parts := strings.Split(input, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// Render filters table to [StartYear, EndYear] and emits up to two series per
// requested name, male first. Names are processed in request order without
// deduplication, and a gender with no rows in range produces no series.
func Render(table *dataset.Table, q Query) ([]Series, error) {
	var out []Series
	err := walk(table, q, func(s Series) error {
		out = append(out, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []Series{}
	}
	return out, nil
}

func walk(table *dataset.Table, q Query, emit func(Series) error) error {
	if _, err := ParseMetric(string(q.Metric)); err != nil {
		return err
	}

	for i, name := range q.Names {
		var male, female []Point
		for _, r := range table.Rows(name) {
			if r.Year < q.StartYear || r.Year > q.EndYear {
				continue
			}
			p := Point{Year: r.Year, Value: q.Metric.value(r)}
			if r.Gender == dataset.Female {
				female = append(female, p)
			} else {
				male = append(male, p)
			}
		}

		if len(male) > 0 {
			if err := emit(newSeries(i, name, dataset.Male, male)); err != nil {
				return err
			}
		}
		if len(female) > 0 {
			if err := emit(newSeries(i, name, dataset.Female, female)); err != nil {
				return err
			}
		}
	}
	return nil
}

func newSeries(position int, name string, gender dataset.Gender, points []Point) Series {
	return Series{
		Name:   name,
		Gender: gender,
		Label:  fmt.Sprintf("%s (%s)", name, gender),
		Style:  styleFor(position, gender),
		Points: points,
	}
}

// Engine runs trend queries against the process-wide table.
type Engine struct {
	table *dataset.Table
	log   *zap.Logger
}

func NewEngine(table *dataset.Table) *Engine {
	return &Engine{
		table: table,
		log:   logger.Named("trends"),
	}
}

func (e *Engine) Table() *dataset.Table {
	return e.table
}

// Chart renders q and attaches the figure labels.
func (e *Engine) Chart(ctx context.Context, q Query) (*Chart, error) {
	startTime := time.Now()

	series, err := Render(e.table, q)
	if err != nil {
		metrics.TrendQueryTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	metrics.TrendQueryTotal.WithLabelValues("ok").Inc()
	metrics.TrendQueryDuration.WithLabelValues(string(q.Metric)).Observe(time.Since(startTime).Seconds())
	metrics.TrendSeriesReturned.Observe(float64(len(series)))

	e.log.Debug("Trend chart rendered",
		zap.Strings("names", q.Names),
		zap.String("metric", string(q.Metric)),
		zap.Int("start_year", q.StartYear),
		zap.Int("end_year", q.EndYear),
		zap.Int("series", len(series)),
	)

	return &Chart{
		Title:     fmt.Sprintf("Trends from %d to %d", q.StartYear, q.EndYear),
		XLabel:    "Year",
		YLabel:    q.Metric.Label(),
		Metric:    q.Metric,
		StartYear: q.StartYear,
		EndYear:   q.EndYear,
		Series:    series,
	}, nil
}

// Stream calls emit for each series as it is produced. It stops at the first
// emit error or when ctx is done.
func (e *Engine) Stream(ctx context.Context, q Query, emit func(Series) error) error {
	count := 0
	err := walk(e.table, q, func(s Series) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		count++
		return emit(s)
	})
	if err != nil {
		return err
	}

	metrics.TrendQueryTotal.WithLabelValues("streamed").Inc()
	metrics.TrendSeriesReturned.Observe(float64(count))
	return nil
}
