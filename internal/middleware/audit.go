package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/kindergarten-erp-api/internal/models"
	"github.com/noah-isme/kindergarten-erp-api/internal/validation"
)

const auditResourceKey = "audit_resource_id"

// AuditRecorder persists audit entries. Implementations handle their own failures.
type AuditRecorder interface {
	Record(ctx context.Context, entry models.AuditEntry)
}

// SetAuditResource publishes the id of the resource a handler created or changed.
func SetAuditResource(c *gin.Context, id int64) {
	c.Set(auditResourceKey, id)
}

// Audit returns a post-commit hook recording action for the current principal.
// Requests without a principal are skipped.
func Audit(recorder AuditRecorder, action string) Hook {
	return func(c *gin.Context) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || recorder == nil {
			return nil
		}

		details := map[string]interface{}{
			"method": c.Request.Method,
			"route":  c.FullPath(),
		}
		if payload, ok := validation.RawPayload(c); ok {
			details["input"] = payload
		}
		if id, ok := c.Get(auditResourceKey); ok {
			details["resourceId"] = id
		}
		raw, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("encode audit details: %w", err)
		}

		recorder.Record(c.Request.Context(), models.AuditEntry{
			UserID:    principal.UserID,
			Action:    action,
			Details:   raw,
			CreatedAt: time.Now().UTC(),
		})
		return nil
	}
}
