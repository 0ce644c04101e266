package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/kindergarten-erp-api/internal/validation"
	appErrors "github.com/noah-isme/kindergarten-erp-api/pkg/errors"
)

// payload returns the contract validated upstream. A missing payload means
// the route was wired without its validation middleware.
func payload[T any](c *gin.Context) (*T, bool) {
	in, ok := validation.Payload[T](c)
	if !ok {
		var zero T
		_ = c.Error(appErrors.Wrap(fmt.Errorf("no validated %T payload on %s", zero, c.FullPath()),
			appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message))
		return nil, false
	}
	return in, true
}
