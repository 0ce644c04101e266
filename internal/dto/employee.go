package dto

import (
	"time"

	"github.com/noah-isme/kindergarten-erp-api/internal/models"
	"github.com/noah-isme/kindergarten-erp-api/internal/query"
	"github.com/noah-isme/kindergarten-erp-api/internal/validation"
	"github.com/noah-isme/kindergarten-erp-api/pkg/patch"
)

// EmployeeListContract declares the sortable and filterable fields of GET /employees.
var EmployeeListContract = query.Contract{
	SortFields:   []string{"id", "firstName", "lastName", "position", "hireDate"},
	DefaultSort:  "id",
	FilterFields: []string{"status", "position"},
}

type CreateEmployeeBody struct {
	FirstName string                `json:"firstName" validate:"required,max=100"`
	LastName  string                `json:"lastName" validate:"required,max=100"`
	Position  string                `json:"position" validate:"required,max=100"`
	Phone     *string               `json:"phone" validate:"omitempty,max=32"`
	Email     *string               `json:"email" validate:"omitempty,email"`
	HireDate  time.Time             `json:"hireDate" validate:"required"`
	Status    models.EmployeeStatus `json:"status" validate:"omitempty,oneof=ACTIVE DISMISSED"`
}

func (b CreateEmployeeBody) Model() *models.Employee {
	status := b.Status
	if status == "" {
		status = models.EmployeeStatusActive
	}
	return &models.Employee{
		FirstName: b.FirstName,
		LastName:  b.LastName,
		Position:  b.Position,
		Phone:     b.Phone,
		Email:     b.Email,
		HireDate:  b.HireDate,
		Status:    status,
	}
}

type UpdateEmployeeBody struct {
	FirstName patch.Field[string]    `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName  patch.Field[string]    `json:"lastName" validate:"omitempty,min=1,max=100"`
	Position  patch.Field[string]    `json:"position" validate:"omitempty,min=1,max=100"`
	Phone     patch.Nullable[string] `json:"phone" validate:"omitempty,max=32"`
	Email     patch.Nullable[string] `json:"email" validate:"omitempty,email"`
	HireDate  patch.Field[time.Time] `json:"hireDate"`
	Status    patch.Field[string]    `json:"status" validate:"omitempty,oneof=ACTIVE DISMISSED"`
}

func (b UpdateEmployeeBody) ApplyTo(employee *models.Employee) bool {
	changed := b.FirstName.Apply(&employee.FirstName)
	changed = b.LastName.Apply(&employee.LastName) || changed
	changed = b.Position.Apply(&employee.Position) || changed
	changed = b.Phone.Apply(&employee.Phone) || changed
	changed = b.Email.Apply(&employee.Email) || changed
	changed = b.HireDate.Apply(&employee.HireDate) || changed

	var status string
	if b.Status.Apply(&status) {
		employee.Status = models.EmployeeStatus(status)
		changed = true
	}
	return changed
}

type EmployeeListQuery struct {
	Status string `json:"status" validate:"omitempty,oneof=ACTIVE DISMISSED"`
}

type (
	ListEmployeesInput  = validation.Input[validation.None, EmployeeListQuery, validation.None]
	GetEmployeeInput    = validation.Input[validation.None, validation.None, validation.IDParams]
	CreateEmployeeInput = validation.Input[CreateEmployeeBody, validation.None, validation.None]
	UpdateEmployeeInput = validation.Input[UpdateEmployeeBody, validation.None, validation.IDParams]
	DeleteEmployeeInput = GetEmployeeInput
)
