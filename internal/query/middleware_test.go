package query

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareStoresParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	contract := Contract{SortFields: []string{"id", "lastName"}, FilterFields: []string{"status"}}

	var got Params
	r := gin.New()
	r.GET("/children", Middleware(contract), func(c *gin.Context) {
		got = FromContext(c)
		c.Status(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/children?page=2&pageSize=10&sortBy=lastName&sortOrder=desc&status=ACTIVE&debug=1", nil))

	assert.Equal(t, Pagination{Page: 2, PageSize: 10, Skip: 10, Take: 10}, got.Pagination)
	assert.Equal(t, Sort{Field: "lastName", Direction: Desc}, got.Sort)
	assert.Equal(t, Filters{"status": "ACTIVE"}, got.Filters)
}

func TestFromContextDefaults(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	params := FromContext(c)
	assert.Equal(t, DefaultPage, params.Pagination.Page)
	assert.Equal(t, DefaultPageSize, params.Pagination.Take)
	assert.Equal(t, DefaultSortField, params.Sort.Field)
}
