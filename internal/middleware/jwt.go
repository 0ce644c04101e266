package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/kindergarten-erp-api/internal/models"
	appErrors "github.com/noah-isme/kindergarten-erp-api/pkg/errors"
	"github.com/noah-isme/kindergarten-erp-api/pkg/logger"
)

// ContextPrincipalKey is the gin context key storing the authenticated principal.
const ContextPrincipalKey = "principal"

// TokenVerifier turns a bearer token into a principal.
type TokenVerifier interface {
	ValidateToken(token string) (*models.Principal, error)
}

// JWT protects routes by requiring a valid access token.
func JWT(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			reject(c, appErrors.ErrUnauthorized)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			reject(c, appErrors.ErrUnauthorized)
			return
		}

		principal, err := verifier.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			reject(c, err)
			return
		}

		c.Set(ContextPrincipalKey, principal)
		c.Set(logger.ContextUserIDKey, principal.UserID)
		c.Next()
	}
}

// PrincipalFromContext returns the principal attached by JWT.
func PrincipalFromContext(c *gin.Context) (*models.Principal, bool) {
	value, exists := c.Get(ContextPrincipalKey)
	if !exists {
		return nil, false
	}
	principal, ok := value.(*models.Principal)
	if !ok || principal == nil {
		return nil, false
	}
	return principal, true
}

func reject(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
