// Package router defines how HTTP routes are registered for the web app.
package router

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/powertune/garage/internal/handler"
	"github.com/powertune/garage/internal/middleware"
)

// Handlers groups everything the router needs to wire the application.
type Handlers struct {
	Auth      *handler.AuthHandler
	Dashboard *handler.DashboardHandler
	Customers *handler.CustomerHandler
	Vehicles  *handler.VehicleHandler
}

// Register wires all routes.  Public routes are the health check and the
// login flow (the latter rate-limited per client IP when Redis is
// available).  Everything else sits behind the session gate; destructive
// and administrative operations are additionally admin-gated.
func Register(e *echo.Echo, h Handlers, sessionSecret string, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	e.GET("/", h.Auth.Index)
	e.GET("/login", h.Auth.LoginForm)
	e.POST("/login", h.Auth.Login, middleware.LoginRateLimit(rdb, 10, time.Minute))
	e.GET("/logout", h.Auth.Logout)

	// Authenticated pages.  SessionAuth populates user_id/username/role in
	// the request context before any handler runs.
	auth := e.Group("", middleware.SessionAuth(sessionSecret))
	auth.GET("/dashboard", h.Dashboard.Show)

	auth.GET("/vehicles", h.Vehicles.List)
	auth.GET("/vehicles/add", h.Vehicles.AddForm)
	auth.POST("/vehicles/add", h.Vehicles.Add)
	auth.GET("/vehicles/:id", h.Vehicles.Detail)
	auth.POST("/vehicles/:id", h.Vehicles.AddVisit) // detail-page shortcut for recording a visit
	auth.GET("/vehicles/:id/add_visit", h.Vehicles.AddVisitForm)
	auth.POST("/vehicles/:id/add_visit", h.Vehicles.AddVisit)
	auth.GET("/vehicles/:id/report", h.Vehicles.Report)
	auth.GET("/visit/:id/print", h.Vehicles.PrintVisit)

	auth.GET("/customers", h.Customers.List)
	auth.GET("/customers/add", h.Customers.AddForm)
	auth.POST("/customers/add", h.Customers.Add)
	auth.GET("/customers/edit/:id", h.Customers.EditForm)
	auth.POST("/customers/edit/:id", h.Customers.Edit)

	auth.GET("/change_password", h.Auth.ChangePasswordForm)
	auth.POST("/change_password", h.Auth.ChangePassword)

	// Admin-only operations: vehicle edit/delete, customer delete and user
	// creation.  Non-admin sessions are redirected with a danger notice and
	// no mutation occurs.
	admin := auth.Group("", middleware.RequireAdmin())
	admin.GET("/vehicles/edit/:id", h.Vehicles.EditForm)
	admin.POST("/vehicles/edit/:id", h.Vehicles.Edit)
	admin.POST("/vehicles/delete/:id", h.Vehicles.Delete)
	admin.POST("/customers/delete/:id", h.Customers.Delete)
	admin.GET("/users/add", h.Auth.AddUserForm)
	admin.POST("/users/add", h.Auth.AddUser)
}
