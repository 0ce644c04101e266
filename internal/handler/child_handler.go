package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/kindergarten-erp-api/internal/dto"
	"github.com/noah-isme/kindergarten-erp-api/internal/middleware"
	"github.com/noah-isme/kindergarten-erp-api/internal/models"
	"github.com/noah-isme/kindergarten-erp-api/internal/query"
	"github.com/noah-isme/kindergarten-erp-api/pkg/response"
)

type childService interface {
	List(ctx context.Context, params query.Params) ([]models.Child, int, error)
	Get(ctx context.Context, id int64) (*models.Child, error)
	Create(ctx context.Context, body dto.CreateChildBody) (*models.Child, error)
	Update(ctx context.Context, id int64, body dto.UpdateChildBody) (*models.Child, error)
	Delete(ctx context.Context, id int64) error
}

// ChildHandler exposes the children endpoints.
type ChildHandler struct {
	children childService
}

// NewChildHandler constructs ChildHandler.
func NewChildHandler(children childService) *ChildHandler {
	return &ChildHandler{children: children}
}

// List godoc
// @Summary List children
// @Tags Children
// @Produce json
// @Param page query int false "Page (default 1)"
// @Param pageSize query int false "Page size (1-200, default 20)"
// @Param sortBy query string false "id, firstName, lastName, birthDate or createdAt"
// @Param sortOrder query string false "asc or desc"
// @Param status query string false "ACTIVE or ARCHIVED"
// @Param groupId query int false "Group ID"
// @Success 200 {object} response.ListBody
// @Failure 400 {object} response.ErrorBody
// @Security BearerAuth
// @Router /children [get]
func (h *ChildHandler) List(c *gin.Context) {
	children, total, err := h.children.List(c.Request.Context(), query.FromContext(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.List(c, children, total)
}

// Get godoc
// @Summary Get child
// @Tags Children
// @Produce json
// @Param id path int true "Child ID"
// @Success 200 {object} models.Child
// @Failure 404 {object} response.ErrorBody
// @Security BearerAuth
// @Router /children/{id} [get]
func (h *ChildHandler) Get(c *gin.Context) {
	in, ok := payload[dto.GetChildInput](c)
	if !ok {
		return
	}
	child, err := h.children.Get(c.Request.Context(), in.Params.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, child)
}

// Create godoc
// @Summary Create child
// @Tags Children
// @Accept json
// @Produce json
// @Param payload body dto.CreateChildBody true "Child"
// @Success 201 {object} models.Child
// @Failure 400 {object} response.ErrorBody
// @Security BearerAuth
// @Router /children [post]
func (h *ChildHandler) Create(c *gin.Context) {
	in, ok := payload[dto.CreateChildInput](c)
	if !ok {
		return
	}
	child, err := h.children.Create(c.Request.Context(), in.Body)
	if err != nil {
		_ = c.Error(err)
		return
	}
	middleware.SetAuditResource(c, child.ID)
	response.Created(c, child)
}

// Update godoc
// @Summary Update child
// @Description Partial update. groupId and notes accept null.
// @Tags Children
// @Accept json
// @Produce json
// @Param id path int true "Child ID"
// @Param payload body dto.UpdateChildBody true "Fields to change"
// @Success 200 {object} models.Child
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Security BearerAuth
// @Router /children/{id} [put]
func (h *ChildHandler) Update(c *gin.Context) {
	in, ok := payload[dto.UpdateChildInput](c)
	if !ok {
		return
	}
	child, err := h.children.Update(c.Request.Context(), in.Params.ID, in.Body)
	if err != nil {
		_ = c.Error(err)
		return
	}
	middleware.SetAuditResource(c, child.ID)
	response.JSON(c, http.StatusOK, child)
}

// Delete godoc
// @Summary Delete child
// @Tags Children
// @Param id path int true "Child ID"
// @Success 204
// @Security BearerAuth
// @Router /children/{id} [delete]
func (h *ChildHandler) Delete(c *gin.Context) {
	in, ok := payload[dto.DeleteChildInput](c)
	if !ok {
		return
	}
	if err := h.children.Delete(c.Request.Context(), in.Params.ID); err != nil {
		_ = c.Error(err)
		return
	}
	middleware.SetAuditResource(c, in.Params.ID)
	response.NoContent(c)
}
