package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/kindergarten-erp-api/internal/models"
	"github.com/noah-isme/kindergarten-erp-api/internal/query"
)

const auditSelect = "id, user_id, action, details, created_at"

var auditColumns = map[string]string{
	"id":        "id",
	"createdAt": "created_at",
	"action":    "action",
	"userId":    "user_id",
}

// AuditRepository stores the append-only action log.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository constructs an AuditRepository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create appends an entry and fills in the generated id.
func (r *AuditRepository) Create(ctx context.Context, entry *models.AuditEntry) error {
	details := "{}"
	if len(entry.Details) > 0 {
		details = string(entry.Details)
	}

	const stmt = `INSERT INTO action_logs (user_id, action, details, created_at) VALUES ($1, $2, $3::jsonb, $4) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, stmt, entry.UserID, entry.Action, details, entry.CreatedAt).Scan(&entry.ID); err != nil {
		return fmt.Errorf("create action log: %w", err)
	}
	return nil
}

// List returns one page of action log entries.
func (r *AuditRepository) List(ctx context.Context, params query.Params) ([]models.AuditEntry, int, error) {
	q := buildListQuery(auditSelect, "action_logs", auditColumns, params)

	var entries []models.AuditEntry
	if err := r.db.SelectContext(ctx, &entries, q.Select, q.Args...); err != nil {
		return nil, 0, fmt.Errorf("list action logs: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, q.Count, q.Args...); err != nil {
		return nil, 0, fmt.Errorf("count action logs: %w", err)
	}

	return entries, total, nil
}
