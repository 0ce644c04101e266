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

const employeeSelect = "id, first_name, last_name, position, phone, email, hire_date, status, created_at, updated_at"

var employeeColumns = map[string]string{
	"id":        "id",
	"firstName": "first_name",
	"lastName":  "last_name",
	"position":  "position",
	"hireDate":  "hire_date",
	"status":    "status",
}

// EmployeeRepository manages persistence for staff records.
type EmployeeRepository struct {
	db *sqlx.DB
}

// NewEmployeeRepository constructs an EmployeeRepository.
func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// List returns one page of employees and the total matching the filters.
func (r *EmployeeRepository) List(ctx context.Context, params query.Params) ([]models.Employee, int, error) {
	q := buildListQuery(employeeSelect, "employees", employeeColumns, params)

	var employees []models.Employee
	if err := r.db.SelectContext(ctx, &employees, q.Select, q.Args...); err != nil {
		return nil, 0, fmt.Errorf("list employees: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, q.Count, q.Args...); err != nil {
		return nil, 0, fmt.Errorf("count employees: %w", err)
	}

	return employees, total, nil
}

// FindByID returns an employee or sql.ErrNoRows.
func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*models.Employee, error) {
	stmt := fmt.Sprintf("SELECT %s FROM employees WHERE id = $1", employeeSelect)
	var employee models.Employee
	if err := r.db.GetContext(ctx, &employee, stmt, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find employee: %w", err)
	}
	return &employee, nil
}

// Create inserts an employee and fills in the generated id.
func (r *EmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	now := time.Now().UTC()
	employee.CreatedAt = now
	employee.UpdatedAt = now

	const stmt = `INSERT INTO employees (first_name, last_name, position, phone, email, hire_date, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := r.db.QueryRowxContext(ctx, stmt,
		employee.FirstName, employee.LastName, employee.Position, employee.Phone, employee.Email,
		employee.HireDate, employee.Status, employee.CreatedAt, employee.UpdatedAt,
	).Scan(&employee.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create employee: %w", ErrDuplicate)
		}
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

// Update writes every mutable column. It reports false when no row matched.
func (r *EmployeeRepository) Update(ctx context.Context, employee *models.Employee) (bool, error) {
	employee.UpdatedAt = time.Now().UTC()
	const stmt = `UPDATE employees SET first_name = :first_name, last_name = :last_name, position = :position, phone = :phone, email = :email, hire_date = :hire_date, status = :status, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, stmt, employee)
	if err != nil {
		if isUniqueViolation(err) {
			return false, fmt.Errorf("update employee: %w", ErrDuplicate)
		}
		return false, fmt.Errorf("update employee: %w", err)
	}
	return affected(res)
}

// Delete removes an employee. It reports false when the row did not exist.
func (r *EmployeeRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete employee: %w", err)
	}
	return affected(res)
}
