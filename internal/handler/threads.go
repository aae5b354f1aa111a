// Package handler provides HTTP handlers for the API.
package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/capitalize-ai/rent-assistant/internal/middleware"
	"github.com/capitalize-ai/rent-assistant/internal/model"
	"github.com/capitalize-ai/rent-assistant/internal/service"
	"github.com/capitalize-ai/rent-assistant/pkg/logger"
)

// ThreadHandler handles thread endpoints.
type ThreadHandler struct {
	service *service.ThreadService
	logger  *logger.Logger
}

// NewThreadHandler creates a new thread handler.
func NewThreadHandler(svc *service.ThreadService, log *logger.Logger) *ThreadHandler {
	return &ThreadHandler{
		service: svc,
		logger:  log,
	}
}

// Create handles POST /api/v1/threads
func (h *ThreadHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accountID := middleware.GetAccountID(ctx)
	userID := middleware.GetUserID(ctx)

	var req model.CreateThreadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateTitle(req.Title); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := middleware.ValidateMetadata(req.Metadata); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if parent := req.Metadata[model.MetadataParentID]; parent != "" {
		if _, err := h.service.Get(ctx, accountID, parent); err != nil {
			writeError(w, http.StatusBadRequest, "parent thread not found")
			return
		}
	}

	thread, err := h.service.Create(ctx, accountID, userID, &req)
	if err != nil {
		h.logger.Error("failed to create thread", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create thread")
		return
	}

	writeJSON(w, http.StatusCreated, thread)
}

// List handles GET /api/v1/threads
func (h *ThreadHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := queryInt(r, "limit", 20, 1, 100)
	offset := queryInt(r, "offset", 0, 0, int(^uint(0)>>1))

	resp, err := h.service.List(ctx, middleware.GetAccountID(ctx), limit, offset)
	if err != nil {
		h.logger.Error("failed to list threads", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list threads")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/threads/{id}
func (h *ThreadHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	threadID := chi.URLParam(r, "id")

	if err := middleware.ValidateThreadID(threadID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	thread, err := h.service.Get(ctx, middleware.GetAccountID(ctx), threadID)
	if err != nil {
		writeThreadError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, thread)
}

func writeThreadError(w http.ResponseWriter, log *logger.Logger, err error) {
	if errors.Is(err, service.ErrThreadNotFound) {
		writeError(w, http.StatusNotFound, "thread not found")
		return
	}
	log.Error("thread operation failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}
