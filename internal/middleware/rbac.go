package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/kindergarten-erp-api/internal/models"
	appErrors "github.com/noah-isme/kindergarten-erp-api/pkg/errors"
)

// RequireRoles enforces role-based access control for a route. The override
// role is always allowed; any other principal must hold one of roles.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	if len(roles) == 0 {
		panic("middleware: RequireRoles needs at least one role")
	}
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		if !r.Valid() {
			panic("middleware: unknown role " + string(r))
		}
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			reject(c, appErrors.ErrUnauthorized)
			return
		}

		if principal.Role == models.RoleOverride {
			c.Next()
			return
		}

		if _, ok := allowed[principal.Role]; ok {
			c.Next()
			return
		}

		reject(c, appErrors.ErrForbidden)
	}
}
