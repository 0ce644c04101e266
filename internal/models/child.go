package models

import "time"

// ChildStatus tracks whether a child is currently enrolled.
type ChildStatus string

const (
	ChildStatusActive   ChildStatus = "ACTIVE"
	ChildStatusArchived ChildStatus = "ARCHIVED"
)

// Child represents a kindergarten pupil.
type Child struct {
	ID        int64       `db:"id" json:"id"`
	FirstName string      `db:"first_name" json:"firstName"`
	LastName  string      `db:"last_name" json:"lastName"`
	BirthDate time.Time   `db:"birth_date" json:"birthDate"`
	GroupID   *int64      `db:"group_id" json:"groupId"`
	Status    ChildStatus `db:"status" json:"status"`
	Notes     *string     `db:"notes" json:"notes"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time   `db:"updated_at" json:"updatedAt"`
}
