package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/capitalize-ai/rent-assistant/internal/middleware"
	"github.com/capitalize-ai/rent-assistant/internal/model"
	"github.com/capitalize-ai/rent-assistant/internal/service"
	"github.com/capitalize-ai/rent-assistant/pkg/logger"
)

// MessageHandler handles message endpoints.
type MessageHandler struct {
	threads *service.ThreadService
	router  *service.Router
	logger  *logger.Logger
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(threads *service.ThreadService, router *service.Router, log *logger.Logger) *MessageHandler {
	return &MessageHandler{
		threads: threads,
		router:  router,
		logger:  log,
	}
}

// List handles GET /api/v1/threads/{id}/messages
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	threadID := chi.URLParam(r, "id")

	if err := middleware.ValidateThreadID(threadID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var afterSequence uint64
	if seq := r.URL.Query().Get("after_sequence"); seq != "" {
		if parsed, err := strconv.ParseUint(seq, 10, 64); err == nil {
			afterSequence = parsed
		}
	}
	limit := queryInt(r, "limit", 50, 1, 100)

	resp, err := h.threads.Messages(ctx, middleware.GetAccountID(ctx), threadID, afterSequence, limit)
	if err != nil {
		writeThreadError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Send handles POST /api/v1/threads/{id}/messages. The message is appended
// and the thread is routed; the response carries the replies posted.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accountID := middleware.GetAccountID(ctx)
	threadID := chi.URLParam(r, "id")

	if err := middleware.ValidateThreadID(threadID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.SendMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateMessageContent(req.Content); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := middleware.ValidateRole(req.Role); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	role := req.Role
	if role == "" {
		role = model.RoleUser
	}

	thread, err := h.threads.Get(ctx, accountID, threadID)
	if err != nil {
		writeThreadError(w, h.logger, err)
		return
	}

	msg, err := h.threads.Append(ctx, accountID, threadID, role, req.Content)
	if err != nil {
		writeThreadError(w, h.logger, err)
		return
	}

	out, err := h.router.Handle(ctx, thread)
	if err != nil {
		h.logger.Error("failed to handle thread",
			zap.String("thread_id", threadID),
			zap.String("correlation_id", middleware.GetCorrelationID(ctx)),
			zap.Error(err),
		)
		writeThreadError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, &model.SendMessageResponse{
		Message: msg,
		Replies: out.Replies,
		Path:    string(out.Path),
	})
}
