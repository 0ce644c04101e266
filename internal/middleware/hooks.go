package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Hook is a post-commit callback run after a handler succeeded.
type Hook func(c *gin.Context) error

// AfterSuccess runs hooks once the rest of the chain finished with a status
// below 400 and no recorded error. Each hook has its own failure boundary:
// errors and panics are logged and never reach the client.
func AfterSuccess(logger *zap.Logger, hooks ...Hook) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		for _, hook := range hooks {
			runHook(c, logger, hook)
		}
	}
}

func runHook(c *gin.Context, logger *zap.Logger, hook Hook) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Warn("post-commit hook panicked", zap.Any("panic", rec), zap.String("path", c.FullPath()))
		}
	}()
	if err := hook(c); err != nil {
		logger.Warn("post-commit hook failed", zap.Error(err), zap.String("path", c.FullPath()))
	}
}
