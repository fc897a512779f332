package prediction

import (
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/babyname-machine/backend/internal/metrics"
	"github.com/babyname-machine/backend/pkg/apperr"
	"github.com/babyname-machine/backend/pkg/logger"
)

// Handle lazily deserializes one artifact file and caches the result for the
// life of the process. A failed load is not cached; the next Get tries again.
type Handle[T any] struct {
	name   string
	path   string
	decode func([]byte) (T, error)

	mu     sync.Mutex
	value  T
	loaded bool
}

func NewHandle[T any](name, path string, decode func([]byte) (T, error)) *Handle[T] {
	return &Handle[T]{name: name, path: path, decode: decode}
}

// StaticHandle wraps an already constructed value.
func StaticHandle[T any](name string, value T) *Handle[T] {
	return &Handle[T]{name: name, value: value, loaded: true}
}

func (h *Handle[T]) Name() string {
	return h.name
}

func (h *Handle[T]) Loaded() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loaded
}

func (h *Handle[T]) Get() (T, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.loaded {
		return h.value, nil
	}

	start := time.Now()
	value, err := h.load()
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.ArtifactLoadDuration.WithLabelValues(h.name, status).Observe(time.Since(start).Seconds())

	if err != nil {
		logger.Error("Failed to load model artifact",
			zap.String("artifact", h.name),
			zap.String("path", h.path),
			zap.Error(err),
		)
		var zero T
		return zero, err
	}

	logger.Info("Model artifact loaded",
		zap.String("artifact", h.name),
		zap.String("path", h.path),
		zap.Duration("elapsed", time.Since(start)),
	)

	h.value = value
	h.loaded = true
	return value, nil
}

func (h *Handle[T]) load() (T, error) {
	var zero T

	data, err := os.ReadFile(h.path)
	if err != nil {
		return zero, fmt.Errorf("%w: %s: %w: %v", apperr.ErrArtifactLoad, h.name, apperr.ErrFileAccess, err)
	}

	value, err := h.decode(data)
	if err != nil {
		return zero, fmt.Errorf("%w: %s %s: %v", apperr.ErrArtifactLoad, h.name, h.path, err)
	}
	return value, nil
}

func TransformerHandle(path string) *Handle[Transformer] {
	return NewHandle("transformer", path, func(data []byte) (Transformer, error) {
		ct, err := DecodeColumnTransformer(data)
		if err != nil {
			return nil, err
		}
		return ct, nil
	})
}

func ClassifierHandle(path string) *Handle[Classifier] {
	return NewHandle("classifier", path, func(data []byte) (Classifier, error) {
		lr, err := DecodeLogisticRegression(data)
		if err != nil {
			return nil, err
		}
		return lr, nil
	})
}
