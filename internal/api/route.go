package api

import (
	"time"

	"github.com/Behyna/pawn-services/internal/api/middleware"
	v1 "github.com/Behyna/pawn-services/internal/api/v1"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const prefixV1 = "/api/v1"

type RouteConfig struct {
	Auth        middleware.AuthConfig
	WriteLimit  int
	WriteWindow time.Duration
}

func SetupRoutes(app *fiber.App, handler *v1.Handler, cfg RouteConfig) {
	app.Get("/ping", handler.Pong)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group(prefixV1, middleware.Auth(cfg.Auth))
	write := middleware.RateLimitWrite(cfg.WriteLimit, cfg.WriteWindow)

	api.Post("/transactions", write, handler.CreateTransaction)
	api.Get("/transactions/:id", handler.GetTransaction)
	api.Get("/transactions/:id/balance", handler.GetBalance)
	api.Get("/transactions/:id/payoff", handler.GetPayoff)
	api.Post("/transactions/:id/payments", write, handler.ProcessPayment)
	api.Get("/transactions/:id/payments", handler.ListPayments)
	api.Post("/transactions/:id/extensions", write, handler.ProcessExtension)
	api.Get("/transactions/:id/extensions", handler.ListExtensions)
	api.Put("/transactions/:id/status", write, handler.UpdateStatus)
	api.Put("/transactions/:id/overdue-fee", write, handler.SetOverdueFee)
	api.Post("/transactions/:id/void", write, middleware.RequireAdmin(), handler.VoidTransaction)
	api.Post("/transactions/:id/cancel", write, middleware.RequireAdmin(), handler.CancelTransaction)

	api.Post("/payments/:id/void", write, middleware.RequireAdmin(), handler.VoidPayment)
	api.Post("/extensions/:id/cancel", write, middleware.RequireAdmin(), handler.CancelExtension)
}
