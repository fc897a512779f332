package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/babyname-machine/backend/internal/cache"
	"github.com/babyname-machine/backend/internal/metrics"
	"github.com/babyname-machine/backend/internal/middleware/validation"
	"github.com/babyname-machine/backend/internal/storage/models"
	"github.com/babyname-machine/backend/internal/trends"
	"github.com/babyname-machine/backend/pkg/apperr"
	"github.com/babyname-machine/backend/pkg/logger"
)

// Widget minimums, used when the client omits a year.
const (
	defaultStartYear = 1880
	defaultEndYear   = 1881
)

// NameList accepts either the free-text "Bill, Elon" form or a JSON array.
// Entries are trimmed in both forms.
type NameList []string

func (n *NameList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = trends.ParseNames(s)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("names must be a string or an array of strings")
	}
	for i := range list {
		list[i] = strings.TrimSpace(list[i])
	}
	*n = list
	return nil
}

type TrendRequest struct {
	Names     NameList `json:"names" validate:"max=50"`
	StartYear int      `json:"start_year" validate:"min=1880,max=2023"`
	EndYear   int      `json:"end_year" validate:"min=1881,max=2023"`
	Metric    string   `json:"metric"`
}

// Query checks the metric before anything else and then the widget bounds.
func (r *TrendRequest) Query() (trends.Query, error) {
	metric, err := trends.ParseMetric(r.Metric)
	if err != nil {
		return trends.Query{}, err
	}
	if r.StartYear == 0 {
		r.StartYear = defaultStartYear
	}
	if r.EndYear == 0 {
		r.EndYear = defaultEndYear
	}
	if err := validation.Struct(r); err != nil {
		return trends.Query{}, err
	}
	return trends.Query{
		Names:     r.Names,
		Metric:    metric,
		StartYear: r.StartYear,
		EndYear:   r.EndYear,
	}, nil
}

type TrendsHandler struct {
	engine  *trends.Engine
	cache   *cache.ChartCache
	history TrendHistory
}

// NewTrendsHandler builds the handler. chartCache and history may be nil.
func NewTrendsHandler(engine *trends.Engine, chartCache *cache.ChartCache, history TrendHistory) *TrendsHandler {
	return &TrendsHandler{
		engine:  engine,
		cache:   chartCache,
		history: history,
	}
}

func (h *TrendsHandler) HandleTrends(c *fiber.Ctx) error {
	startTime := time.Now()

	var req TrendRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fmt.Errorf("%w: invalid request body: %v", apperr.ErrInvalidArgument, err))
	}

	q, err := req.Query()
	if err != nil {
		metrics.TrendQueryTotal.WithLabelValues("rejected").Inc()
		return respondError(c, err)
	}

	chart, cached := h.cache.Get(c.Context(), q)
	if cached {
		metrics.TrendQueryTotal.WithLabelValues("cached").Inc()
		metrics.TrendQueryDuration.WithLabelValues(string(q.Metric)).Observe(time.Since(startTime).Seconds())
	} else {
		chart, err = h.engine.Chart(c.Context(), q)
		if err != nil {
			return respondError(c, err)
		}
		h.cache.Put(c.Context(), q, chart)
	}

	id := uuid.New().String()
	h.record(c, &models.TrendQueryRecord{
		ID:          id,
		Names:       q.Names,
		Metric:      string(q.Metric),
		StartYear:   q.StartYear,
		EndYear:     q.EndYear,
		SeriesCount: len(chart.Series),
		LatencyMS:   int(time.Since(startTime).Milliseconds()),
		CreatedAt:   time.Now(),
	})

	return c.JSON(fiber.Map{
		"id":     id,
		"cached": cached,
		"chart":  chart,
	})
}

func (h *TrendsHandler) record(c *fiber.Ctx, rec *models.TrendQueryRecord) {
	if h.history == nil {
		return
	}
	if err := h.history.InsertTrendQuery(c.Context(), rec); err != nil {
		metrics.HistoryWriteErrors.WithLabelValues("trend_queries").Inc()
		logger.Warn("Failed to record trend query", zap.String("id", rec.ID), zap.Error(err))
	}
}

func (h *TrendsHandler) GetMetrics(c *fiber.Ctx) error {
	out := make([]fiber.Map, 0, len(trends.Metrics))
	for _, m := range trends.Metrics {
		out = append(out, fiber.Map{"key": m, "label": m.Label()})
	}
	return c.JSON(fiber.Map{"metrics": out})
}

func (h *TrendsHandler) GetHistory(c *fiber.Ctx) error {
	limit, err := historyLimit(c)
	if err != nil {
		return respondError(c, err)
	}
	if h.history == nil {
		return c.JSON(fiber.Map{"history": []interface{}{}})
	}

	records, err := h.history.ListTrendQueries(c.Context(), limit)
	if err != nil {
		return respondError(c, err)
	}

	history := make([]fiber.Map, 0, len(records))
	for _, r := range records {
		history = append(history, fiber.Map{
			"id":           r.ID,
			"names":        r.Names,
			"metric":       r.Metric,
			"start_year":   r.StartYear,
			"end_year":     r.EndYear,
			"series_count": r.SeriesCount,
			"latency_ms":   r.LatencyMS,
			"created_at":   r.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"history": history})
}
