package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/babyname-machine/backend/internal/middleware/validation"
	"github.com/babyname-machine/backend/internal/storage/models"
	"github.com/babyname-machine/backend/pkg/apperr"
	"github.com/babyname-machine/backend/pkg/logger"
)

const maxHistoryLimit = 500

// TrendHistory persists trend queries. *sqlite.Client implements it.
type TrendHistory interface {
	InsertTrendQuery(ctx context.Context, rec *models.TrendQueryRecord) error
	ListTrendQueries(ctx context.Context, limit int) ([]*models.TrendQueryRecord, error)
}

// PredictionHistory persists predictions. *sqlite.Client implements it.
type PredictionHistory interface {
	InsertPrediction(ctx context.Context, rec *models.PredictionRecord) error
	ListPredictions(ctx context.Context, limit int) ([]*models.PredictionRecord, error)
}

func respondError(c *fiber.Ctx, err error) error {
	kind := apperr.Classify(err)

	body := fiber.Map{
		"code":    kind.Code,
		"message": err.Error(),
	}
	var verr *validation.Error
	if errors.As(err, &verr) {
		body["fields"] = verr.Fields
	}

	if kind.Status >= fiber.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("path", c.Path()),
			zap.String("code", kind.Code),
			zap.Error(err),
		)
		if kind == apperr.KindInternal {
			body["message"] = "Internal server error"
		}
	}

	return c.Status(kind.Status).JSON(fiber.Map{"error": body})
}

func historyLimit(c *fiber.Ctx) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxHistoryLimit {
		return 0, fmt.Errorf("%w: limit must be between 1 and %d", apperr.ErrInvalidArgument, maxHistoryLimit)
	}
	return n, nil
}
