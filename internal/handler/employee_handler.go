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

type employeeService interface {
	List(ctx context.Context, params query.Params) ([]models.Employee, int, error)
	Get(ctx context.Context, id int64) (*models.Employee, error)
	Create(ctx context.Context, body dto.CreateEmployeeBody) (*models.Employee, error)
	Update(ctx context.Context, id int64, body dto.UpdateEmployeeBody) (*models.Employee, error)
	Delete(ctx context.Context, id int64) error
}

// EmployeeHandler exposes the staff endpoints.
type EmployeeHandler struct {
	employees employeeService
}

// NewEmployeeHandler constructs EmployeeHandler.
func NewEmployeeHandler(employees employeeService) *EmployeeHandler {
	return &EmployeeHandler{employees: employees}
}

// List godoc
// @Summary List employees
// @Tags Employees
// @Produce json
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Param sortBy query string false "id, firstName, lastName, position or hireDate"
// @Param sortOrder query string false "asc or desc"
// @Param status query string false "ACTIVE or DISMISSED"
// @Param position query string false "Position"
// @Success 200 {object} response.ListBody
// @Security BearerAuth
// @Router /employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	employees, total, err := h.employees.List(c.Request.Context(), query.FromContext(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.List(c, employees, total)
}

// Get godoc
// @Summary Get employee
// @Tags Employees
// @Produce json
// @Param id path int true "Employee ID"
// @Success 200 {object} models.Employee
// @Failure 404 {object} response.ErrorBody
// @Security BearerAuth
// @Router /employees/{id} [get]
func (h *EmployeeHandler) Get(c *gin.Context) {
	in, ok := payload[dto.GetEmployeeInput](c)
	if !ok {
		return
	}
	employee, err := h.employees.Get(c.Request.Context(), in.Params.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, employee)
}

// Create godoc
// @Summary Create employee
// @Tags Employees
// @Accept json
// @Produce json
// @Param payload body dto.CreateEmployeeBody true "Employee"
// @Success 201 {object} models.Employee
// @Failure 400 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Security BearerAuth
// @Router /employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	in, ok := payload[dto.CreateEmployeeInput](c)
	if !ok {
		return
	}
	employee, err := h.employees.Create(c.Request.Context(), in.Body)
	if err != nil {
		_ = c.Error(err)
		return
	}
	middleware.SetAuditResource(c, employee.ID)
	response.Created(c, employee)
}

// Update godoc
// @Summary Update employee
// @Tags Employees
// @Accept json
// @Produce json
// @Param id path int true "Employee ID"
// @Param payload body dto.UpdateEmployeeBody true "Fields to change"
// @Success 200 {object} models.Employee
// @Failure 404 {object} response.ErrorBody
// @Security BearerAuth
// @Router /employees/{id} [put]
func (h *EmployeeHandler) Update(c *gin.Context) {
	in, ok := payload[dto.UpdateEmployeeInput](c)
	if !ok {
		return
	}
	employee, err := h.employees.Update(c.Request.Context(), in.Params.ID, in.Body)
	if err != nil {
		_ = c.Error(err)
		return
	}
	middleware.SetAuditResource(c, employee.ID)
	response.JSON(c, http.StatusOK, employee)
}

// Delete godoc
// @Summary Delete employee
// @Tags Employees
// @Param id path int true "Employee ID"
// @Success 204
// @Security BearerAuth
// @Router /employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *gin.Context) {
	in, ok := payload[dto.DeleteEmployeeInput](c)
	if !ok {
		return
	}
	if err := h.employees.Delete(c.Request.Context(), in.Params.ID); err != nil {
		_ = c.Error(err)
		return
	}
	middleware.SetAuditResource(c, in.Params.ID)
	response.NoContent(c)
}
