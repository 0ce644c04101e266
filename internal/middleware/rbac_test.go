package middleware

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/kindergarten-erp-api/internal/models"
)

func TestRequireRoles(t *testing.T) {
	cases := []struct {
		name      string
		principal *models.Principal
		roles     []models.Role
		want      int
	}{
		{"override role passes any list", &models.Principal{UserID: 1, Role: models.RoleDirector}, []models.Role{models.RoleAccountant}, http.StatusOK},
		{"listed role passes", &models.Principal{UserID: 2, Role: models.RoleTeacher}, []models.Role{models.RoleAdmin, models.RoleTeacher}, http.StatusOK},
		{"unlisted role is forbidden", &models.Principal{UserID: 3, Role: models.RoleTeacher}, []models.Role{models.RoleAdmin}, http.StatusForbidden},
		{"missing principal is unauthorized", nil, []models.Role{models.RoleAdmin}, http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newEngine()
			if tc.principal != nil {
				r.Use(withPrincipal(tc.principal))
			}
			r.GET("/x", RequireRoles(tc.roles...), ok)

			w := serve(r, http.MethodGet, "/x")
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestRequireRolesForbiddenBody(t *testing.T) {
	r := newEngine()
	r.Use(withPrincipal(&models.Principal{UserID: 3, Role: models.RoleZavhoz}))
	r.GET("/x", RequireRoles(models.RoleAdmin), ok)

	w := serve(r, http.MethodGet, "/x")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Forbidden", decodeError(t, w).Message)
}

func TestRequireRolesPanicsOnEmptyList(t *testing.T) {
	assert.Panics(t, func() { RequireRoles() })
	assert.Panics(t, func() { RequireRoles(models.Role("JANITOR")) })
}
