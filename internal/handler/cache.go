package handler

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/capitalize-ai/rent-assistant/pkg/logger"
)

// Invalidator drops cached listings.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// CacheHandler exposes listing cache maintenance.
type CacheHandler struct {
	cache  Invalidator
	logger *logger.Logger
}

// NewCacheHandler creates a new cache handler.
func NewCacheHandler(cache Invalidator, log *logger.Logger) *CacheHandler {
	return &CacheHandler{cache: cache, logger: log}
}

// Invalidate handles DELETE /api/v1/cache
func (h *CacheHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Error("failed to invalidate cache", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to invalidate cache")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
