package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/babyname-machine/backend/internal/metrics"
	"github.com/babyname-machine/backend/internal/middleware/validation"
	"github.com/babyname-machine/backend/internal/prediction"
	"github.com/babyname-machine/backend/internal/storage/models"
	"github.com/babyname-machine/backend/pkg/logger"
)

// PredictionRequest mirrors the prediction page widgets and their bounds.
type PredictionRequest struct {
	Name                            string  `json:"name" validate:"max=100"`
	Year                            int     `json:"year" validate:"min=1880,max=2024"`
	IsFamous                        int     `json:"is_famous" validate:"oneof=0 1"`
	GenderBinary                    int     `json:"gender_binary" validate:"oneof=0 1"`
	RollingAverageGenderRatio5Years float64 `json:"rolling_average_gender_ratio_5_years" validate:"min=0,max=1000"`
	VowelCount                      int     `json:"vowel_count" validate:"min=0,max=10"`
	EndsWithSpecifiedLetters        int     `json:"ends_with_specified_letters" validate:"oneof=0 1"`
}

// NewPredictionRequest returns the request preset to the widget defaults.
// Fields omitted from the body keep these values.
func NewPredictionRequest() PredictionRequest {
	return PredictionRequest{
		Name:                            "Olivia",
		Year:                            2020,
		RollingAverageGenderRatio5Years: 0.5,
		VowelCount:                      3,
	}
}

func (r PredictionRequest) Input() prediction.Input {
	return prediction.Input{
		Name:                            r.Name,
		Year:                            r.Year,
		IsFamous:                        r.IsFamous,
		GenderBinary:                    r.GenderBinary,
		RollingAverageGenderRatio5Years: r.RollingAverageGenderRatio5Years,
		VowelCount:                      r.VowelCount,
		EndsWithSpecifiedLetters:        r.EndsWithSpecifiedLetters,
	}
}

type PredictionHandler struct {
	service *prediction.Service
	history PredictionHistory
}

func NewPredictionHandler(service *prediction.Service, history PredictionHistory) *PredictionHandler {
	return &PredictionHandler{
		service: service,
		history: history,
	}
}

func (h *PredictionHandler) HandlePredict(c *fiber.Ctx) error {
	startTime := time.Now()

	req := NewPredictionRequest()
	if err := validation.ParseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	result, err := h.service.Predict(c.Context(), req.Input())
	if err != nil {
		return respondError(c, err)
	}

	id := uuid.New().String()
	h.record(c, &models.PredictionRecord{
		ID:                              id,
		Name:                            req.Name,
		Year:                            req.Year,
		IsFamous:                        req.IsFamous,
		GenderBinary:                    req.GenderBinary,
		RollingAverageGenderRatio5Years: req.RollingAverageGenderRatio5Years,
		VowelCount:                      req.VowelCount,
		EndsWithSpecifiedLetters:        req.EndsWithSpecifiedLetters,
		Label:                           result.Label,
		Probability:                     result.Probability,
		LatencyMS:                       int(time.Since(startTime).Milliseconds()),
		CreatedAt:                       time.Now(),
	})

	return c.JSON(fiber.Map{
		"id":               id,
		"name":             result.Name,
		"label":            result.Label,
		"in_top_100":       result.InTop100,
		"probability":      result.Probability,
		"message":          result.Message,
		"probability_text": prediction.FormatProbability(result.Probability),
	})
}

func (h *PredictionHandler) record(c *fiber.Ctx, rec *models.PredictionRecord) {
	if h.history == nil {
		return
	}
	if err := h.history.InsertPrediction(c.Context(), rec); err != nil {
		metrics.HistoryWriteErrors.WithLabelValues("predictions").Inc()
		logger.Warn("Failed to record prediction", zap.String("id", rec.ID), zap.Error(err))
	}
}

func (h *PredictionHandler) GetHistory(c *fiber.Ctx) error {
	limit, err := historyLimit(c)
	if err != nil {
		return respondError(c, err)
	}
	if h.history == nil {
		return c.JSON(fiber.Map{"history": []interface{}{}})
	}

	records, err := h.history.ListPredictions(c.Context(), limit)
	if err != nil {
		return respondError(c, err)
	}

	history := make([]fiber.Map, 0, len(records))
	for _, r := range records {
		history = append(history, fiber.Map{
			"id":          r.ID,
			"name":        r.Name,
			"year":        r.Year,
			"label":       r.Label,
			"probability": r.Probability,
			"latency_ms":  r.LatencyMS,
			"created_at":  r.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"history": history})
}
