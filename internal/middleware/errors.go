package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/kindergarten-erp-api/pkg/errors"
	"github.com/noah-isme/kindergarten-erp-api/pkg/middleware/requestid"
	"github.com/noah-isme/kindergarten-erp-api/pkg/response"
)

// Errors is the terminal error stage. It renders the last error recorded with
// c.Error and converts panics into a generic 500.
func Errors(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", requestid.Value(c)),
					zap.Stack("stack"),
				)
				if !c.Writer.Written() {
					response.Error(c, appErrors.ErrInternal)
				}
				c.Abort()
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		appErr := appErrors.FromError(err)
		if appErr.Status >= 500 {
			logger.Error("request failed",
				zap.Error(err),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestid.Value(c)),
			)
		}
		if c.Writer.Written() {
			return
		}
		response.Error(c, appErr)
	}
}
