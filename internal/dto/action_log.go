package dto

import (
	"github.com/noah-isme/kindergarten-erp-api/internal/query"
	"github.com/noah-isme/kindergarten-erp-api/internal/validation"
)

// ActionLogListContract declares the sortable and filterable fields of GET /action-logs.
var ActionLogListContract = query.Contract{
	SortFields:   []string{"id", "createdAt", "action"},
	DefaultSort:  "id",
	FilterFields: []string{"userId", "action"},
}

type ActionLogListQuery struct {
	Action string `json:"action" validate:"omitempty,max=64"`
	UserID *int64 `json:"userId" validate:"omitempty,gt=0"`
}

type ListActionLogsInput = validation.Input[validation.None, ActionLogListQuery, validation.None]
