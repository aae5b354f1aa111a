package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/capitalize-ai/rent-assistant/internal/middleware"
	"github.com/capitalize-ai/rent-assistant/internal/service"
	"github.com/capitalize-ai/rent-assistant/pkg/logger"
)

// TenantHandler handles tenant risk and reminder endpoints.
type TenantHandler struct {
	risk   *service.RiskService
	logger *logger.Logger
}

// NewTenantHandler creates a new tenant handler.
func NewTenantHandler(risk *service.RiskService, log *logger.Logger) *TenantHandler {
	return &TenantHandler{risk: risk, logger: log}
}

type reminderRequest struct {
	DueDate string `json:"due_date,omitempty"`
}

// Risk handles GET /api/v1/tenants/{id}/risk
func (h *TenantHandler) Risk(w http.ResponseWriter, r *http.Request) {
	tenantID, err := middleware.ParseTenantID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	a, err := h.risk.Assess(r.Context(), tenantID)
	if err != nil {
		h.logger.Error("failed to assess risk", zap.Int64("tenant_id", tenantID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to assess risk")
		return
	}

	writeJSON(w, http.StatusOK, a)
}

// Remind handles POST /api/v1/tenants/{id}/reminders. The body is optional;
// without a due_date the agreement's due date is used.
func (h *TenantHandler) Remind(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID, err := middleware.ParseTenantID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req reminderRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	var due time.Time
	if req.DueDate != "" {
		due, err = time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "due_date must be YYYY-MM-DD")
			return
		}
	}

	reminder, err := h.risk.Remind(ctx, middleware.GetAccountID(ctx), tenantID, due)
	if errors.Is(err, service.ErrNoDueDate) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("failed to send reminder", zap.Int64("tenant_id", tenantID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to send reminder")
		return
	}

	writeJSON(w, http.StatusAccepted, reminder)
}
