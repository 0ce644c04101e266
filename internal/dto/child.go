package dto

import (
	"time"

	"github.com/noah-isme/kindergarten-erp-api/internal/models"
	"github.com/noah-isme/kindergarten-erp-api/internal/query"
	"github.com/noah-isme/kindergarten-erp-api/internal/validation"
	"github.com/noah-isme/kindergarten-erp-api/pkg/patch"
)

// ChildListContract declares the sortable and filterable fields of GET /children.
var ChildListContract = query.Contract{
	SortFields:   []string{"id", "firstName", "lastName", "birthDate", "createdAt"},
	DefaultSort:  "id",
	FilterFields: []string{"status", "groupId"},
}

// CreateChildBody is the payload of POST /children.
type CreateChildBody struct {
	FirstName string             `json:"firstName" validate:"required,max=100"`
	LastName  string             `json:"lastName" validate:"required,max=100"`
	BirthDate time.Time          `json:"birthDate" validate:"required"`
	GroupID   *int64             `json:"groupId" validate:"omitempty,gt=0"`
	Status    models.ChildStatus `json:"status" validate:"omitempty,oneof=ACTIVE ARCHIVED"`
	Notes     *string            `json:"notes" validate:"omitempty,max=2000"`
}

// Model converts the payload into a new child. Status defaults to ACTIVE.
func (b CreateChildBody) Model() *models.Child {
	status := b.Status
	if status == "" {
		status = models.ChildStatusActive
	}
	return &models.Child{
		FirstName: b.FirstName,
		LastName:  b.LastName,
		BirthDate: b.BirthDate,
		GroupID:   b.GroupID,
		Status:    status,
		Notes:     b.Notes,
	}
}

// UpdateChildBody is the partial payload of PUT /children/:id.
type UpdateChildBody struct {
	FirstName patch.Field[string]    `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName  patch.Field[string]    `json:"lastName" validate:"omitempty,min=1,max=100"`
	BirthDate patch.Field[time.Time] `json:"birthDate"`
	GroupID   patch.Nullable[int64]  `json:"groupId" validate:"omitempty,gt=0"`
	Status    patch.Field[string]    `json:"status" validate:"omitempty,oneof=ACTIVE ARCHIVED"`
	Notes     patch.Nullable[string] `json:"notes" validate:"omitempty,max=2000"`
}

// ApplyTo copies the provided fields onto child and reports whether anything changed.
func (b UpdateChildBody) ApplyTo(child *models.Child) bool {
	changed := b.FirstName.Apply(&child.FirstName)
	changed = b.LastName.Apply(&child.LastName) || changed
	changed = b.BirthDate.Apply(&child.BirthDate) || changed
	changed = b.GroupID.Apply(&child.GroupID) || changed
	changed = b.Notes.Apply(&child.Notes) || changed

	var status string
	if b.Status.Apply(&status) {
		child.Status = models.ChildStatus(status)
		changed = true
	}
	return changed
}

// Request contracts for the children routes.
type (
	ListChildrenInput = validation.Input[validation.None, ChildListQuery, validation.None]
	GetChildInput     = validation.Input[validation.None, validation.None, validation.IDParams]
	CreateChildInput  = validation.Input[CreateChildBody, validation.None, validation.None]
	UpdateChildInput  = validation.Input[UpdateChildBody, validation.None, validation.IDParams]
	DeleteChildInput  = GetChildInput
)

// ChildListQuery validates the typed filters of GET /children. Pagination and
// sort are normalised by the list contract instead.
type ChildListQuery struct {
	Status  string `json:"status" validate:"omitempty,oneof=ACTIVE ARCHIVED"`
	GroupID *int64 `json:"groupId" validate:"omitempty,gt=0"`
}
