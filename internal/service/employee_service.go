package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/kindergarten-erp-api/internal/dto"
	"github.com/noah-isme/kindergarten-erp-api/internal/models"
	"github.com/noah-isme/kindergarten-erp-api/internal/query"
	"github.com/noah-isme/kindergarten-erp-api/internal/repository"
	appErrors "github.com/noah-isme/kindergarten-erp-api/pkg/errors"
)

type employeeRepository interface {
	List(ctx context.Context, params query.Params) ([]models.Employee, int, error)
	FindByID(ctx context.Context, id int64) (*models.Employee, error)
	Create(ctx context.Context, employee *models.Employee) error
	Update(ctx context.Context, employee *models.Employee) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// EmployeeService implements the staff use cases.
type EmployeeService struct {
	repo   employeeRepository
	logger *zap.Logger
}

// NewEmployeeService constructs an EmployeeService.
func NewEmployeeService(repo employeeRepository, logger *zap.Logger) *EmployeeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{repo: repo, logger: logger}
}

func (s *EmployeeService) List(ctx context.Context, params query.Params) ([]models.Employee, int, error) {
	employees, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, internalError(err, "list employees")
	}
	return employees, total, nil
}

func (s *EmployeeService) Get(ctx context.Context, id int64) (*models.Employee, error) {
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Employee not found")
		}
		return nil, internalError(err, "find employee")
	}
	return employee, nil
}

func (s *EmployeeService) Create(ctx context.Context, body dto.CreateEmployeeBody) (*models.Employee, error) {
	employee := body.Model()
	if err := s.repo.Create(ctx, employee); err != nil {
		return nil, s.writeError(err, "create employee")
	}
	return employee, nil
}

func (s *EmployeeService) Update(ctx context.Context, id int64, body dto.UpdateEmployeeBody) (*models.Employee, error) {
	employee, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !body.ApplyTo(employee) {
		return employee, nil
	}

	found, err := s.repo.Update(ctx, employee)
	if err != nil {
		return nil, s.writeError(err, "update employee")
	}
	if !found {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Employee not found")
	}
	return employee, nil
}

// Delete removes an employee. Deleting a missing employee is not an error.
func (s *EmployeeService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return internalError(err, "delete employee")
	}
	return nil
}

func (s *EmployeeService) writeError(err error, op string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "Email already in use")
	}
	return internalError(err, op)
}
