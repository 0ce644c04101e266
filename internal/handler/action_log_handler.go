package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/kindergarten-erp-api/internal/models"
	"github.com/noah-isme/kindergarten-erp-api/internal/query"
	"github.com/noah-isme/kindergarten-erp-api/pkg/response"
)

type actionLogService interface {
	List(ctx context.Context, params query.Params) ([]models.AuditEntry, int, error)
}

// ActionLogHandler exposes the audit trail.
type ActionLogHandler struct {
	logs actionLogService
}

// NewActionLogHandler constructs ActionLogHandler.
func NewActionLogHandler(logs actionLogService) *ActionLogHandler {
	return &ActionLogHandler{logs: logs}
}

// List godoc
// @Summary List action log entries
// @Tags Audit
// @Produce json
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Param sortBy query string false "id, createdAt or action"
// @Param sortOrder query string false "asc or desc"
// @Param userId query int false "Acting user"
// @Param action query string false "Action label"
// @Success 200 {object} response.ListBody
// @Security BearerAuth
// @Router /action-logs [get]
func (h *ActionLogHandler) List(c *gin.Context) {
	entries, total, err := h.logs.List(c.Request.Context(), query.FromContext(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.List(c, entries, total)
}
