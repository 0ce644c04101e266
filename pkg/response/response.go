package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/kindergarten-erp-api/pkg/errors"
)

// ListBody is the contract returned by every list endpoint.
type ListBody struct {
	Items interface{} `json:"items"`
	Total int         `json:"total"`
}

// ErrorBody is the contract returned for every failed request.
type ErrorBody struct {
	Message string            `json:"message"`
	Issues  []appErrors.Issue `json:"issues,omitempty"`
}

// JSON sends a success response.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, data)
}

// List responds with the items/total list contract. A nil slice is rendered as [].
func List[T any](c *gin.Context, items []T, total int) {
	if items == nil {
		items = []T{}
	}
	JSON(c, http.StatusOK, ListBody{Items: items, Total: total})
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, ErrorBody{Message: appErr.Message, Issues: appErr.Issues})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
	c.Writer.WriteHeaderNow()
}
