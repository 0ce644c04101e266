// Package router assembles the HTTP pipeline and the static endpoint table.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/kindergarten-erp-api/internal/dto"
	"github.com/noah-isme/kindergarten-erp-api/internal/handler"
	"github.com/noah-isme/kindergarten-erp-api/internal/middleware"
	"github.com/noah-isme/kindergarten-erp-api/internal/models"
	"github.com/noah-isme/kindergarten-erp-api/internal/query"
	"github.com/noah-isme/kindergarten-erp-api/internal/service"
	"github.com/noah-isme/kindergarten-erp-api/internal/validation"
	"github.com/noah-isme/kindergarten-erp-api/pkg/config"
	appErrors "github.com/noah-isme/kindergarten-erp-api/pkg/errors"
	"github.com/noah-isme/kindergarten-erp-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/kindergarten-erp-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/kindergarten-erp-api/pkg/middleware/requestid"
)

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	Config    *config.Config
	Logger    *zap.Logger
	DB        handler.Pinger
	Validator *validation.Validator
	Metrics   *service.MetricsService
	Auth      *service.AuthService
	Children  *service.ChildService
	Employees *service.EmployeeService
	Audit     *service.AuditService
}

// endpoint is one row of the route table. roles must be non-empty unless the
// route is public.
type endpoint struct {
	method   string
	path     string
	public   bool
	roles    []models.Role
	validate gin.HandlerFunc
	list     *query.Contract
	audit    string
	handle   gin.HandlerFunc
}

var (
	childReaders    = []models.Role{models.RoleDirector, models.RoleDeputy, models.RoleAdmin, models.RoleTeacher}
	childWriters    = []models.Role{models.RoleDirector, models.RoleDeputy, models.RoleAdmin}
	childDeleters   = []models.Role{models.RoleDirector, models.RoleAdmin}
	employeeReaders = []models.Role{models.RoleDirector, models.RoleDeputy, models.RoleAdmin, models.RoleAccountant}
	employeeWriters = []models.Role{models.RoleDirector, models.RoleAdmin}
	directorOnly    = []models.Role{models.RoleDirector}
	adminOnly       = []models.Role{models.RoleAdmin}
)

// New builds the gin engine with the global pipeline, operational routes and
// the API route table mounted under cfg.APIPrefix.
func New(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.Config{Env: config.EnvDevelopment}
	}
	logr := deps.Logger
	if logr == nil {
		logr = zap.NewNop()
	}
	if deps.Validator == nil {
		deps.Validator = validation.New()
	}

	r := gin.New()
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Errors(logr))

	r.NoRoute(func(c *gin.Context) {
		_ = c.Error(appErrors.ErrNotFound)
	})

	ops := handler.NewMetricsHandler(deps.Metrics, deps.DB, logr)
	r.GET("/health", ops.Health)
	r.GET("/ready", ops.Ready)
	r.GET("/metrics", ops.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	for _, ep := range endpoints(deps) {
		register(api, ep, deps, logr)
	}

	return r
}

func endpoints(deps Dependencies) []endpoint {
	v := deps.Validator
	auth := handler.NewAuthHandler(deps.Auth, v)
	children := handler.NewChildHandler(deps.Children)
	employees := handler.NewEmployeeHandler(deps.Employees)
	logs := handler.NewActionLogHandler(deps.Audit)

	return []endpoint{
		{method: http.MethodPost, path: "/auth/login", public: true, audit: models.AuditActionLogin, handle: auth.Login},
		{method: http.MethodGet, path: "/auth/me", roles: models.AllRoles, handle: auth.Me},

		{method: http.MethodGet, path: "/children", roles: childReaders,
			validate: validation.Middleware[dto.ListChildrenInput](v), list: &dto.ChildListContract, handle: children.List},
		{method: http.MethodGet, path: "/children/:id", roles: childReaders,
			validate: validation.Middleware[dto.GetChildInput](v), handle: children.Get},
		{method: http.MethodPost, path: "/children", roles: childWriters,
			validate: validation.Middleware[dto.CreateChildInput](v), audit: models.AuditActionCreateChild, handle: children.Create},
		{method: http.MethodPut, path: "/children/:id", roles: childWriters,
			validate: validation.Middleware[dto.UpdateChildInput](v), audit: models.AuditActionUpdateChild, handle: children.Update},
		{method: http.MethodDelete, path: "/children/:id", roles: childDeleters,
			validate: validation.Middleware[dto.DeleteChildInput](v), audit: models.AuditActionDeleteChild, handle: children.Delete},

		{method: http.MethodGet, path: "/employees", roles: employeeReaders,
			validate: validation.Middleware[dto.ListEmployeesInput](v), list: &dto.EmployeeListContract, handle: employees.List},
		{method: http.MethodGet, path: "/employees/:id", roles: employeeReaders,
			validate: validation.Middleware[dto.GetEmployeeInput](v), handle: employees.Get},
		{method: http.MethodPost, path: "/employees", roles: employeeWriters,
			validate: validation.Middleware[dto.CreateEmployeeInput](v), audit: models.AuditActionCreateEmployee, handle: employees.Create},
		{method: http.MethodPut, path: "/employees/:id", roles: employeeWriters,
			validate: validation.Middleware[dto.UpdateEmployeeInput](v), audit: models.AuditActionUpdateEmployee, handle: employees.Update},
		{method: http.MethodDelete, path: "/employees/:id", roles: directorOnly,
			validate: validation.Middleware[dto.DeleteEmployeeInput](v), audit: models.AuditActionDeleteEmployee, handle: employees.Delete},

		{method: http.MethodGet, path: "/action-logs", roles: adminOnly,
			validate: validation.Middleware[dto.ListActionLogsInput](v), list: &dto.ActionLogListContract, handle: logs.List},
	}
}

// register mounts ep as JWT -> role gate -> validation -> list params ->
// post-commit hooks -> handler.
func register(group *gin.RouterGroup, ep endpoint, deps Dependencies, logr *zap.Logger) {
	chain := make([]gin.HandlerFunc, 0, 6)
	if !ep.public {
		chain = append(chain, middleware.JWT(deps.Auth), middleware.RequireRoles(ep.roles...))
	}
	if ep.validate != nil {
		chain = append(chain, ep.validate)
	}
	if ep.list != nil {
		chain = append(chain, query.Middleware(*ep.list))
	}
	if ep.audit != "" {
		chain = append(chain, middleware.AfterSuccess(logr, middleware.Audit(deps.Audit, ep.audit)))
	}
	chain = append(chain, ep.handle)
	group.Handle(ep.method, ep.path, chain...)
}
