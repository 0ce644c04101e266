package service

import (
	"fmt"

	appErrors "github.com/noah-isme/kindergarten-erp-api/pkg/errors"
)

// internalError hides err behind the generic 500 while keeping it for logs.
func internalError(err error, op string) error {
	return appErrors.Wrap(fmt.Errorf("%s: %w", op, err), appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
}
