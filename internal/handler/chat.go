package handler

import (
	"net/http"
	"strings"

	"github.com/capitalize-ai/rent-assistant/internal/model"
	"github.com/capitalize-ai/rent-assistant/internal/service"
	"github.com/capitalize-ai/rent-assistant/pkg/logger"
)

// ChatHandler answers single messages without a thread.
type ChatHandler struct {
	dispatcher *service.Dispatcher
	logger     *logger.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(d *service.Dispatcher, log *logger.Logger) *ChatHandler {
	return &ChatHandler{dispatcher: d, logger: log}
}

// Chat handles POST /api/v1/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req model.ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply := h.dispatcher.Dispatch(r.Context(), service.Request{
		Message: req.Message,
		History: []model.Message{{Role: model.RoleUser, Content: req.Message}},
	})

	writeJSON(w, http.StatusOK, &model.ChatResponse{Response: reply.Text})
}
