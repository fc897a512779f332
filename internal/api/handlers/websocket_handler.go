package handlers

import (
	"context"
	"encoding/json"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/babyname-machine/backend/internal/trends"
	"github.com/babyname-machine/backend/pkg/apperr"
	"github.com/babyname-machine/backend/pkg/logger"
)

type trendMessage struct {
	Type string `json:"type"`
	TrendRequest
}

type WebSocketHandler struct {
	engine *trends.Engine
}

func NewWebSocketHandler(engine *trends.Engine) *WebSocketHandler {
	return &WebSocketHandler{
		engine: engine,
	}
}

func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("WebSocket connection established")

	defer func() {
		c.Close()
		logger.Info("WebSocket connection closed")
	}()

	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Error("Failed to read WebSocket message", zap.Error(err))
			}
			break
		}

		var msg trendMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.sendError(c, apperr.KindInvalidArgument.Code, "malformed message")
			continue
		}
		if msg.Type != "trend" {
			continue
		}

		if err := h.streamSeries(c, &msg.TrendRequest); err != nil {
			logger.Warn("Failed to stream trend series", zap.Error(err))
			kind := apperr.Classify(err)
			message := err.Error()
			if kind == apperr.KindInternal {
				message = "Failed to process trend query"
			}
			h.sendError(c, kind.Code, message)
		}
	}
}

func (h *WebSocketHandler) streamSeries(c *websocket.Conn, req *TrendRequest) error {
	q, err := req.Query()
	if err != nil {
		return err
	}

	count := 0
	err = h.engine.Stream(context.Background(), q, func(s trends.Series) error {
		count++
		return c.WriteJSON(map[string]interface{}{
			"type":   "series",
			"series": s,
		})
	})
	if err != nil {
		return err
	}

	return c.WriteJSON(map[string]interface{}{
		"type":       "complete",
		"metric":     q.Metric,
		"y_label":    q.Metric.Label(),
		"series":     count,
		"start_year": q.StartYear,
		"end_year":   q.EndYear,
	})
}

func (h *WebSocketHandler) sendError(c *websocket.Conn, code, errorMsg string) {
	msg := map[string]interface{}{
		"type":  "error",
		"code":  code,
		"error": errorMsg,
	}

	if err := c.WriteJSON(msg); err != nil {
		logger.Debug("Failed to send WebSocket error", zap.Error(err))
	}
}
