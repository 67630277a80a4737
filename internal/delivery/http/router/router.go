// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"account/config"
	"account/internal/delivery/http/middleware"
	"account/internal/delivery/http/router/handler"
	"account/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AccountHandler *handler.AccountHandler
	AuthMiddleware *middleware.AuthMiddleware
	Metrics        *metrics.Metrics
	Config         *config.Config
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler *handler.AccountHandler
	authMiddleware *middleware.AuthMiddleware
	metrics        *metrics.Metrics
	basePath       string
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	basePath := params.Config.HTTP.BasePath
	if basePath == "/" {
		basePath = ""
	}

	return &router{
		accountHandler: params.AccountHandler,
		authMiddleware: params.AuthMiddleware,
		metrics:        params.Metrics,
		basePath:       basePath,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(r.metrics.Handler()))

	accountGroup := e.Group(r.basePath)
	{
		accountGroup.POST("/register", r.accountHandler.Register)
		accountGroup.POST("/auth/login", r.accountHandler.Login)
	}

	// Routes below act on the caller's own account and require a valid token.
	authenticate := r.authMiddleware.Authenticate
	{
		accountGroup.GET("/find", r.accountHandler.Find, authenticate)
		accountGroup.PUT("/update", r.accountHandler.Update, authenticate)
		accountGroup.DELETE("/terminate", r.accountHandler.Terminate, authenticate)
	}
}
