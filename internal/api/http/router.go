package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/supplier-service/internal/api/http/handlers"
	"github.com/spec-kit/supplier-service/internal/auth"
	"github.com/spec-kit/supplier-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Suppliers      *handlers.SuppliersHandler
	Products       *handlers.ProductsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Authentication always precedes the role
// check on admin routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Static("/public", "./public")

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	protected := authGroup.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/me", cfg.Auth.Me)
	protected.Get("/all", auth.RequireRole(domain.RoleAdmin), cfg.Auth.ListAll)
	protected.Put("/profile", cfg.Auth.UpdateProfile)

	users := app.Group("/users", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	users.Post("", cfg.Users.Create)
	users.Put("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Delete)

	suppliers := app.Group("/suppliers", cfg.AuthMiddleware.Handle)
	suppliers.Get("", cfg.Suppliers.List)
	suppliers.Get("/:id", cfg.Suppliers.Get)
	suppliers.Post("", cfg.Suppliers.Create)
	suppliers.Put("/:id", cfg.Suppliers.Update)
	suppliers.Delete("/:id", cfg.Suppliers.Delete)

	products := app.Group("/products", cfg.AuthMiddleware.Handle)
	products.Get("", cfg.Products.List)
	products.Get("/supplier/:supplierId", cfg.Products.ListBySupplier)
	products.Get("/:id", cfg.Products.Get)
	products.Post("", cfg.Products.Create)
	products.Put("/:id", cfg.Products.Update)
	products.Delete("/:id", cfg.Products.Delete)
}
