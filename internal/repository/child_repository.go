package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/kindergarten-erp-api/internal/models"
	"github.com/noah-isme/kindergarten-erp-api/internal/query"
)

const childSelect = "id, first_name, last_name, birth_date, group_id, status, notes, created_at, updated_at"

// childColumns maps API field names to columns for sorting and filtering.
var childColumns = map[string]string{
	"id":        "id",
	"firstName": "first_name",
	"lastName":  "last_name",
	"birthDate": "birth_date",
	"createdAt": "created_at",
	"status":    "status",
	"groupId":   "group_id",
}

// ChildRepository manages persistence for children.
type ChildRepository struct {
	db *sqlx.DB
}

// NewChildRepository constructs a ChildRepository.
func NewChildRepository(db *sqlx.DB) *ChildRepository {
	return &ChildRepository{db: db}
}

// List returns one page of children and the total matching the filters.
func (r *ChildRepository) List(ctx context.Context, params query.Params) ([]models.Child, int, error) {
	q := buildListQuery(childSelect, "children", childColumns, params)

	var children []models.Child
	if err := r.db.SelectContext(ctx, &children, q.Select, q.Args...); err != nil {
		return nil, 0, fmt.Errorf("list children: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, q.Count, q.Args...); err != nil {
		return nil, 0, fmt.Errorf("count children: %w", err)
	}

	return children, total, nil
}

// FindByID returns a child or sql.ErrNoRows.
func (r *ChildRepository) FindByID(ctx context.Context, id int64) (*models.Child, error) {
	stmt := fmt.Sprintf("SELECT %s FROM children WHERE id = $1", childSelect)
	var child models.Child
	if err := r.db.GetContext(ctx, &child, stmt, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find child: %w", err)
	}
	return &child, nil
}

// Create inserts a child and fills in the generated id.
func (r *ChildRepository) Create(ctx context.Context, child *models.Child) error {
	now := time.Now().UTC()
	child.CreatedAt = now
	child.UpdatedAt = now

	const stmt = `INSERT INTO children (first_name, last_name, birth_date, group_id, status, notes, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := r.db.QueryRowxContext(ctx, stmt,
		child.FirstName, child.LastName, child.BirthDate, child.GroupID, child.Status, child.Notes, child.CreatedAt, child.UpdatedAt,
	).Scan(&child.ID)
	if err != nil {
		return fmt.Errorf("create child: %w", err)
	}
	return nil
}

// Update writes every mutable column. It reports false when no row matched.
func (r *ChildRepository) Update(ctx context.Context, child *models.Child) (bool, error) {
	child.UpdatedAt = time.Now().UTC()
	const stmt = `UPDATE children SET first_name = :first_name, last_name = :last_name, birth_date = :birth_date, group_id = :group_id, status = :status, notes = :notes, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, stmt, child)
	if err != nil {
		return false, fmt.Errorf("update child: %w", err)
	}
	return affected(res)
}

// Delete removes a child. It reports false when the row did not exist.
func (r *ChildRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM children WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete child: %w", err)
	}
	return affected(res)
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
