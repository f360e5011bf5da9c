package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sellhub/pos-backend/api-gateway/config"
	"github.com/sellhub/pos-backend/api-gateway/health"
	"github.com/sellhub/pos-backend/api-gateway/middleware"
	"github.com/sellhub/pos-backend/api-gateway/proxy"
)

// RouteDefinition defines a route mapping
type RouteDefinition struct {
	Prefix       string
	ServiceName  string
	Description  string
	RequireAuth  bool
	RequireAdmin bool
}

// Routes holds all route definitions. Everything proxies to the POS backend
// pool; the gateway decides only who gets through.
var Routes = []RouteDefinition{
	{
		Prefix:      "/auth",
		ServiceName: "pos",
		Description: "Authentication endpoints (login, register)",
	},
	{
		Prefix:      "/api/products",
		ServiceName: "pos",
		Description: "Product catalog and lookup",
		RequireAuth: true,
	},
	{
		Prefix:      "/api/stock",
		ServiceName: "pos",
		Description: "Stock entries and ledger verification",
		RequireAuth: true,
	},
	{
		Prefix:      "/api/invoices",
		ServiceName: "pos",
		Description: "Invoice lifecycle",
		RequireAuth: true,
	},
	{
		Prefix:      "/api/refunds",
		ServiceName: "pos",
		Description: "Refund processing",
		RequireAuth: true,
	},
	{
		Prefix:      "/api/customers",
		ServiceName: "pos",
		Description: "Customer records",
		RequireAuth: true,
	},
	{
		Prefix:      "/api/vendors",
		ServiceName: "pos",
		Description: "Vendor records",
		RequireAuth: true,
	},
	{
		Prefix:      "/api/salesmen",
		ServiceName: "pos",
		Description: "Salesman records",
		RequireAuth: true,
	},
	{
		Prefix:      "/api/expenses",
		ServiceName: "pos",
		Description: "Expense tracking",
		RequireAuth: true,
	},
	{
		Prefix:      "/api/custom-orders",
		ServiceName: "pos",
		Description: "Custom order tracking",
		RequireAuth: true,
	},
	{
		Prefix:      "/api/pos",
		ServiceName: "pos",
		Description: "Counter operations (quick sell, drawer, reports)",
		RequireAuth: true,
	},
	{
		Prefix:      "/api/users",
		ServiceName: "pos",
		Description: "Profile endpoints",
		RequireAuth: true,
	},
	{
		Prefix:       "/api/admin",
		ServiceName:  "pos",
		Description:  "Dashboard, settings, audit logs",
		RequireAuth:  true,
		RequireAdmin: true,
	},
	{
		Prefix:       "/admin",
		ServiceName:  "pos",
		Description:  "User administration",
		RequireAuth:  true,
		RequireAdmin: true,
	},
}

// SetupRoutes configures all routes in the gateway
func SetupRoutes(app *fiber.App, cfg *config.GatewayConfig) {
	reverseProxy := proxy.NewReverseProxy(cfg)
	healthChecker := health.NewHealthChecker(cfg)

	// Background sweep keeps the replica pools in sync with instance health.
	go healthChecker.Watch(context.Background(), reverseProxy.Pools(), 15*time.Second)

	// Gateway quick health check (no downstream checks)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(healthChecker.QuickCheck())
	})

	// Liveness probe
	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "alive",
		})
	})

	// Readiness probe (checks backend instances)
	app.Get("/health/ready", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		healthStatus := healthChecker.CheckAllInstances(ctx)

		statusCode := fiber.StatusOK
		if healthStatus.Status == "unhealthy" {
			statusCode = fiber.StatusServiceUnavailable
		}

		return c.Status(statusCode).JSON(healthStatus)
	})

	// Detailed instance health checks
	app.Get("/health/services", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()

		return c.JSON(healthChecker.CheckAllInstances(ctx))
	})

	// API routes overview
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "POS API Gateway",
			"version": "1.0.0",
			"routes":  Routes,
		})
	})

	for _, route := range Routes {
		registerServiceRoutes(app, route, reverseProxy)
	}
}

// registerServiceRoutes registers all HTTP methods for a service prefix
func registerServiceRoutes(app *fiber.App, route RouteDefinition, proxyHandler *proxy.ReverseProxy) {
	handler := func(c *fiber.Ctx) error {
		return proxyHandler.ProxyRequest(c, route.ServiceName)
	}

	var middlewares []fiber.Handler
	if route.RequireAdmin {
		middlewares = append(middlewares, middleware.AuthMiddleware(), middleware.AdminMiddleware())
	} else if route.RequireAuth {
		middlewares = append(middlewares, middleware.AuthMiddleware())
	}

	group := app.Group(route.Prefix, middlewares...)
	group.All("/*", handler)

	if len(middlewares) > 0 {
		app.All(route.Prefix, append(middlewares, handler)...)
	} else {
		app.All(route.Prefix, handler)
	}
}
