package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/kindergarten-erp-api/internal/models"
	"github.com/noah-isme/kindergarten-erp-api/internal/repository"
	"github.com/noah-isme/kindergarten-erp-api/internal/service"
	"github.com/noah-isme/kindergarten-erp-api/internal/validation"
	"github.com/noah-isme/kindergarten-erp-api/pkg/config"
)

var (
	childColumns = []string{"id", "first_name", "last_name", "birth_date", "group_id", "status", "notes", "created_at", "updated_at"}
	userColumns  = []string{"id", "email", "password_hash", "role", "employee_id", "active", "last_login", "created_at", "updated_at"}
	auditColumns = []string{"id", "user_id", "action", "details", "created_at"}
)

type testServer struct {
	engine *gin.Engine
	mock   sqlmock.Sqlmock
	auth   *service.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	sqlxDB := sqlx.NewDb(db, "sqlmock")

	cfg := &config.Config{
		Env:       config.EnvDevelopment,
		APIPrefix: "/api",
		JWT:       config.JWTConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "kindergarten-erp"},
	}
	metrics := service.NewMetricsService()
	auth := service.NewAuthService(repository.NewUserRepository(sqlxDB), nil, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	audit := service.NewAuditService(repository.NewAuditRepository(sqlxDB), metrics, nil, service.AuditConfig{})

	engine := New(Dependencies{
		Config:    cfg,
		DB:        sqlxDB,
		Validator: validation.New(),
		Metrics:   metrics,
		Auth:      auth,
		Children:  service.NewChildService(repository.NewChildRepository(sqlxDB), nil, nil),
		Employees: service.NewEmployeeService(repository.NewEmployeeRepository(sqlxDB), nil),
		Audit:     audit,
	})

	return &testServer{engine: engine, mock: mock, auth: auth}
}

func (s *testServer) token(t *testing.T, id int64, role models.Role) string {
	t.Helper()
	token, _, err := s.auth.IssueToken(&models.User{ID: id, Role: role})
	require.NoError(t, err)
	return token
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) expectAudit(userID int64, action string) {
	s.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO action_logs")).
		WithArgs(userID, action, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestListChildrenAppliesPageSortAndFilter(t *testing.T) {
	s := newTestServer(t)
	birth := time.Date(2021, 5, 4, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	s.mock.ExpectQuery(regexp.QuoteMeta("FROM children WHERE status = $1 ORDER BY last_name DESC, id ASC LIMIT 10 OFFSET 10")).
		WithArgs("ACTIVE").
		WillReturnRows(sqlmock.NewRows(childColumns).AddRow(21, "Mia", "Zhou", birth, nil, "ACTIVE", nil, now, now))
	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM children WHERE status = $1")).
		WithArgs("ACTIVE").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	w := s.do(http.MethodGet, "/api/children?page=2&pageSize=10&sortBy=lastName&sortOrder=desc&status=ACTIVE&unknown=1",
		s.token(t, 7, models.RoleTeacher), "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, float64(11), body["total"])
	items := body["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "Zhou", items[0].(map[string]interface{})["lastName"])
	assert.NoError(t, s.mock.ExpectationsWereMet())
}

func TestListChildrenRejectsUnknownStatus(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/children?status=GONE", s.token(t, 7, models.RoleTeacher), "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation error", decode(t, w)["message"])
	assert.NoError(t, s.mock.ExpectationsWereMet())
}

func TestListFiltersRejectNonIntegerIDs(t *testing.T) {
	s := newTestServer(t)
	cases := []struct {
		name  string
		path  string
		role  models.Role
		field string
	}{
		{"text group", "/api/children?groupId=abc", models.RoleTeacher, "groupId"},
		{"fractional group", "/api/children?groupId=1.5", models.RoleTeacher, "groupId"},
		{"zero group", "/api/children?groupId=0", models.RoleTeacher, "groupId"},
		{"text user", "/api/action-logs?userId=abc", models.RoleAdmin, "userId"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := s.do(http.MethodGet, tc.path, s.token(t, 7, tc.role), "")

			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			issues := decode(t, w)["issues"].([]interface{})
			require.Len(t, issues, 1)
			assert.Equal(t, []interface{}{"query", tc.field}, issues[0].(map[string]interface{})["path"])
		})
	}
	assert.NoError(t, s.mock.ExpectationsWereMet())
}

func TestListChildrenNumericGroupFilter(t *testing.T) {
	s := newTestServer(t)

	s.mock.ExpectQuery(regexp.QuoteMeta("FROM children WHERE group_id = $1 ORDER BY id ASC LIMIT 20 OFFSET 0")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(childColumns))
	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM children WHERE group_id = $1")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	w := s.do(http.MethodGet, "/api/children?groupId=4", s.token(t, 7, models.RoleTeacher), "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"items":[],"total":0}`, w.Body.String())
	assert.NoError(t, s.mock.ExpectationsWereMet())
}

func TestCreateChildValidationShape(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/children", s.token(t, 3, models.RoleAdmin), `{"firstName":"Ann","birthDate":"2021-02-03"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Validation error", body["message"])
	issues := body["issues"].([]interface{})
	require.Len(t, issues, 1)
	issue := issues[0].(map[string]interface{})
	assert.Equal(t, []interface{}{"body", "lastName"}, issue["path"])
	assert.NotEmpty(t, issue["message"])
	assert.NoError(t, s.mock.ExpectationsWereMet())
}

func TestCreateChildRecordsAudit(t *testing.T) {
	s := newTestServer(t)

	s.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO children")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	s.expectAudit(3, models.AuditActionCreateChild)

	w := s.do(http.MethodPost, "/api/children", s.token(t, 3, models.RoleAdmin),
		`{"firstName":"Ann","lastName":"Lee","birthDate":"2021-02-03","groupId":"4"}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, float64(42), body["id"])
	assert.Equal(t, float64(4), body["groupId"])
	assert.Equal(t, "ACTIVE", body["status"])
	assert.NoError(t, s.mock.ExpectationsWereMet())
}

func TestAuditFailureDoesNotBlockResponse(t *testing.T) {
	s := newTestServer(t)

	s.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO children")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(43))
	s.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO action_logs")).
		WillReturnError(errors.New("relation action_logs does not exist"))

	w := s.do(http.MethodPost, "/api/children", s.token(t, 3, models.RoleAdmin),
		`{"firstName":"Ann","lastName":"Lee","birthDate":"2021-02-03"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NoError(t, s.mock.ExpectationsWereMet())
}

func TestDeleteChildIsIdempotent(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, 3, models.RoleAdmin)

	s.mock.ExpectExec(regexp.QuoteMeta("DELETE FROM children WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.expectAudit(3, models.AuditActionDeleteChild)
	s.mock.ExpectExec(regexp.QuoteMeta("DELETE FROM children WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.expectAudit(3, models.AuditActionDeleteChild)

	first := s.do(http.MethodDelete, "/api/children/5", token, "")
	second := s.do(http.MethodDelete, "/api/children/5", token, "")

	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Equal(t, http.StatusNoContent, second.Code)
	assert.Empty(t, second.Body.String())
	assert.NoError(t, s.mock.ExpectationsWereMet())
}

func TestUpdateMissingChildIsNotFound(t *testing.T) {
	s := newTestServer(t)

	s.mock.ExpectQuery(regexp.QuoteMeta("FROM children WHERE id = $1")).
		WithArgs(int64(77)).
		WillReturnRows(sqlmock.NewRows(childColumns))

	w := s.do(http.MethodPut, "/api/children/77", s.token(t, 3, models.RoleDeputy), `{"notes":null}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Child not found", decode(t, w)["message"])
	assert.NoError(t, s.mock.ExpectationsWereMet())
}

func TestInvalidPathIDIsValidationError(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/children/abc", s.token(t, 3, models.RoleAdmin), "")

	require.Equal(t, http.StatusBadRequest, w.Code)
	issues := decode(t, w)["issues"].([]interface{})
	require.NotEmpty(t, issues)
	assert.Equal(t, []interface{}{"params", "id"}, issues[0].(map[string]interface{})["path"])
}

func TestRoleGate(t *testing.T) {
	s := newTestServer(t)

	t.Run("no token", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/children", "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Unauthorized", decode(t, w)["message"])
	})

	t.Run("garbage token", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/children", "not.a.token", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("teacher cannot read action logs", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/action-logs", s.token(t, 7, models.RoleTeacher), "")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Forbidden", decode(t, w)["message"])
	})

	t.Run("deputy cannot delete employees", func(t *testing.T) {
		w := s.do(http.MethodDelete, "/api/employees/1", s.token(t, 8, models.RoleDeputy), "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("role gate runs before validation", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/children", s.token(t, 7, models.RoleTeacher), `{}`)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	assert.NoError(t, s.mock.ExpectationsWereMet())
}

func TestDirectorOverridesRoleList(t *testing.T) {
	s := newTestServer(t)
	now := time.Now().UTC()

	s.mock.ExpectQuery(regexp.QuoteMeta("FROM action_logs WHERE action = $1 ORDER BY id ASC LIMIT 20 OFFSET 0")).
		WithArgs("LOGIN").
		WillReturnRows(sqlmock.NewRows(auditColumns).AddRow(1, 3, "LOGIN", []byte(`{}`), now))
	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM action_logs WHERE action = $1")).
		WithArgs("LOGIN").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	w := s.do(http.MethodGet, "/api/action-logs?action=LOGIN", s.token(t, 1, models.RoleDirector), "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(1), decode(t, w)["total"])
	assert.NoError(t, s.mock.ExpectationsWereMet())
}

func TestCreateEmployeeDuplicateEmail(t *testing.T) {
	s := newTestServer(t)

	s.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO employees")).
		WillReturnError(&pq.Error{Code: "23505"})

	w := s.do(http.MethodPost, "/api/employees", s.token(t, 3, models.RoleAdmin),
		`{"firstName":"Olga","lastName":"Ivanova","position":"Teacher","email":"olga@example.com","hireDate":"2020-09-01"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email already in use", decode(t, w)["message"])
	assert.NoError(t, s.mock.ExpectationsWereMet())
}

func TestLoginIssuesTokenAndAudits(t *testing.T) {
	s := newTestServer(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now().UTC()

	s.mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE LOWER(email) = LOWER($1)")).
		WithArgs("admin@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(3, "admin@example.com", string(hash), "ADMIN", nil, true, nil, now, now))
	s.mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET last_login")).
		WithArgs(int64(3), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.expectAudit(3, models.AuditActionLogin)

	w := s.do(http.MethodPost, "/api/auth/login", "", `{"email":"admin@example.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token, _ := decode(t, w)["accessToken"].(string)
	require.NotEmpty(t, token)

	me := s.do(http.MethodGet, "/api/auth/me", token, "")
	require.Equal(t, http.StatusOK, me.Code)
	assert.Equal(t, "ADMIN", decode(t, me)["role"])
	assert.NoError(t, s.mock.ExpectationsWereMet())
}

func TestLoginWrongPasswordIsNotAudited(t *testing.T) {
	s := newTestServer(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now().UTC()

	s.mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE LOWER(email) = LOWER($1)")).
		WithArgs("admin@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(3, "admin@example.com", string(hash), "ADMIN", nil, true, nil, now, now))

	w := s.do(http.MethodPost, "/api/auth/login", "", `{"email":"admin@example.com","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", decode(t, w)["message"])
	assert.NoError(t, s.mock.ExpectationsWereMet())
}

func TestOperationalEndpoints(t *testing.T) {
	s := newTestServer(t)

	health := s.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, health.Code)

	ready := s.do(http.MethodGet, "/ready", "", "")
	assert.Equal(t, http.StatusOK, ready.Code)

	metrics := s.do(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), "http_requests_total")

	missing := s.do(http.MethodGet, "/api/nothing-here", "", "")
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, "Not found", decode(t, missing)["message"])
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}
