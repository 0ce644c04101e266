package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kindergarten-erp-api/internal/models"
)

func TestCreateChildBodyDefaultsStatus(t *testing.T) {
	child := CreateChildBody{FirstName: "Ann", LastName: "Lee", BirthDate: time.Now()}.Model()
	assert.Equal(t, models.ChildStatusActive, child.Status)
}

func TestUpdateChildBodyApplyTo(t *testing.T) {
	group := int64(4)
	notes := "allergic to nuts"
	child := &models.Child{ID: 1, FirstName: "Ann", LastName: "Lee", GroupID: &group, Notes: &notes, Status: models.ChildStatusActive}

	var body UpdateChildBody
	require.NoError(t, json.Unmarshal([]byte(`{"lastName":"Kim","groupId":null,"status":"ARCHIVED"}`), &body))

	assert.True(t, body.ApplyTo(child))
	assert.Equal(t, "Ann", child.FirstName)
	assert.Equal(t, "Kim", child.LastName)
	assert.Nil(t, child.GroupID)
	require.NotNil(t, child.Notes)
	assert.Equal(t, "allergic to nuts", *child.Notes)
	assert.Equal(t, models.ChildStatusArchived, child.Status)
}

func TestUpdateChildBodyEmptyIsNoop(t *testing.T) {
	child := &models.Child{FirstName: "Ann"}
	assert.False(t, UpdateChildBody{}.ApplyTo(child))
	assert.Equal(t, "Ann", child.FirstName)
}

func TestUpdateEmployeeBodyApplyTo(t *testing.T) {
	email := "old@example.com"
	employee := &models.Employee{Position: "cook", Email: &email, Status: models.EmployeeStatusActive}

	var body UpdateEmployeeBody
	require.NoError(t, json.Unmarshal([]byte(`{"email":"new@example.com","phone":null,"status":"DISMISSED"}`), &body))

	assert.True(t, body.ApplyTo(employee))
	require.NotNil(t, employee.Email)
	assert.Equal(t, "new@example.com", *employee.Email)
	assert.Nil(t, employee.Phone)
	assert.Equal(t, "cook", employee.Position)
	assert.Equal(t, models.EmployeeStatusDismissed, employee.Status)
}
