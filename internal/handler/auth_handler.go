package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/kindergarten-erp-api/internal/middleware"
	"github.com/noah-isme/kindergarten-erp-api/internal/models"
	"github.com/noah-isme/kindergarten-erp-api/internal/validation"
	appErrors "github.com/noah-isme/kindergarten-erp-api/pkg/errors"
	"github.com/noah-isme/kindergarten-erp-api/pkg/response"
)

type authService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
}

// LoginInput is bound by the handler itself so the password never reaches
// the shared payload slot read by audit hooks.
type LoginInput = validation.Input[models.LoginRequest, validation.None, validation.None]

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service   authService
	validator *validation.Validator
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService, v *validation.Validator) *AuthHandler {
	return &AuthHandler{service: svc, validator: v}
}

// Login godoc
// @Summary Authenticate user
// @Description Authenticate user by email and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var in LoginInput
	if err := h.validator.Bind(c, &in); err != nil {
		_ = c.Error(err)
		return
	}

	res, err := h.service.Login(c.Request.Context(), in.Body)
	if err != nil {
		_ = c.Error(err)
		return
	}

	principal := res.User
	c.Set(middleware.ContextPrincipalKey, &principal)
	middleware.SetAuditResource(c, principal.UserID)
	response.JSON(c, http.StatusOK, res)
}

// Me godoc
// @Summary Current principal
// @Tags Authentication
// @Produce json
// @Success 200 {object} models.Principal
// @Failure 401 {object} response.ErrorBody
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		_ = c.Error(appErrors.ErrUnauthorized)
		return
	}
	response.JSON(c, http.StatusOK, principal)
}
