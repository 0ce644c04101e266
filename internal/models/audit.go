package models

import (
	"encoding/json"
	"time"
)

// Audit action labels declared by mutating routes.
const (
	AuditActionCreateChild    = "CREATE_CHILD"
	AuditActionUpdateChild    = "UPDATE_CHILD"
	AuditActionDeleteChild    = "DELETE_CHILD"
	AuditActionCreateEmployee = "CREATE_EMPLOYEE"
	AuditActionUpdateEmployee = "UPDATE_EMPLOYEE"
	AuditActionDeleteEmployee = "DELETE_EMPLOYEE"
	AuditActionLogin          = "LOGIN"
)

// AuditEntry is one append-only "who did what" record.
type AuditEntry struct {
	ID        int64           `db:"id" json:"id"`
	UserID    int64           `db:"user_id" json:"userId"`
	Action    string          `db:"action" json:"action"`
	Details   json.RawMessage `db:"details" json:"details,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
}
