package models

import "time"

// EmployeeStatus tracks the employment state of a staff member.
type EmployeeStatus string

const (
	EmployeeStatusActive    EmployeeStatus = "ACTIVE"
	EmployeeStatusDismissed EmployeeStatus = "DISMISSED"
)

// Employee represents a staff member.
type Employee struct {
	ID        int64          `db:"id" json:"id"`
	FirstName string         `db:"first_name" json:"firstName"`
	LastName  string         `db:"last_name" json:"lastName"`
	Position  string         `db:"position" json:"position"`
	Phone     *string        `db:"phone" json:"phone"`
	Email     *string        `db:"email" json:"email"`
	HireDate  time.Time      `db:"hire_date" json:"hireDate"`
	Status    EmployeeStatus `db:"status" json:"status"`
	CreatedAt time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time      `db:"updated_at" json:"updatedAt"`
}
