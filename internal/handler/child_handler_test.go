package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kindergarten-erp-api/internal/dto"
	"github.com/noah-isme/kindergarten-erp-api/internal/models"
	"github.com/noah-isme/kindergarten-erp-api/internal/query"
	"github.com/noah-isme/kindergarten-erp-api/internal/validation"
	appErrors "github.com/noah-isme/kindergarten-erp-api/pkg/errors"
)

type childServiceMock struct {
	listResp   []models.Child
	lastParams query.Params
	getErr     error
	deletedID  int64
}

func (m *childServiceMock) List(_ context.Context, params query.Params) ([]models.Child, int, error) {
	m.lastParams = params
	return m.listResp, len(m.listResp), nil
}

func (m *childServiceMock) Get(_ context.Context, id int64) (*models.Child, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return &models.Child{ID: id, FirstName: "Ann"}, nil
}

func (m *childServiceMock) Create(_ context.Context, body dto.CreateChildBody) (*models.Child, error) {
	child := body.Model()
	child.ID = 10
	return child, nil
}

func (m *childServiceMock) Update(_ context.Context, id int64, body dto.UpdateChildBody) (*models.Child, error) {
	child := &models.Child{ID: id}
	body.ApplyTo(child)
	return child, nil
}

func (m *childServiceMock) Delete(_ context.Context, id int64) error {
	m.deletedID = id
	return nil
}

func TestChildHandlerListEmpty(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &childServiceMock{}
	h := NewChildHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/children", nil)

	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[],"total":0}`, w.Body.String())
	assert.Equal(t, query.DefaultPageSize, svc.lastParams.Pagination.Take)
}

func TestChildHandlerGetUsesValidatedID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewChildHandler(&childServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/children/12", nil)
	c.Set("validated_payload", &dto.GetChildInput{Params: validation.IDParams{ID: 12}})

	h.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	var child models.Child
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &child))
	assert.Equal(t, int64(12), child.ID)
}

func TestChildHandlerGetRecordsServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewChildHandler(&childServiceMock{getErr: appErrors.Clone(appErrors.ErrNotFound, "Child not found")})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/children/3", nil)
	c.Set("validated_payload", &dto.GetChildInput{Params: validation.IDParams{ID: 3}})

	h.Get(c)
	require.Len(t, c.Errors, 1)
	assert.True(t, appErrors.IsStatus(c.Errors.Last().Err, http.StatusNotFound))
}

func TestChildHandlerWithoutPayloadIsInternal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewChildHandler(&childServiceMock{})

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodDelete, "/children/3", nil)

	h.Delete(c)
	require.Len(t, c.Errors, 1)
	assert.Equal(t, "Internal server error", appErrors.FromError(c.Errors.Last().Err).Message)
}

func TestChildHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &childServiceMock{}
	h := NewChildHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/children/3", nil)
	c.Set("validated_payload", &dto.DeleteChildInput{Params: validation.IDParams{ID: 3}})

	h.Delete(c)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, int64(3), svc.deletedID)
	id, ok := c.Get("audit_resource_id")
	require.True(t, ok)
	assert.Equal(t, int64(3), id)
}

