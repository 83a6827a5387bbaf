package routes

import (
	"github.com/gofiber/fiber/v2"

	"agrocycle-be/internal/api/handlers"
	"agrocycle-be/internal/logger"
	"agrocycle-be/internal/middleware"
)

type Config struct {
	App             *fiber.App
	ProduceHandler  handlers.ProduceHandler
	OrderHandler    handlers.OrderHandler
	ExportHandler   handlers.ExportHandler
	ProducerHandler handlers.ProducerHandler
	JWTSecret       string
}

func (c *Config) Setup() {
	c.App.Use(logger.RequestIDMiddleware())
	c.App.Use(middleware.AuthMiddleware(c.JWTSecret))
	c.App.Use(logger.LoggingMiddleware())
	c.App.Use(middleware.RateLimitMiddleware())

	c.Produce()
	c.Orders()
	c.Exports()
	c.Producers()
	c.GuestRoute()
}

func (c *Config) Produce() {
	produce := c.App.Group("/api/v1/produce")
	{
		produce.Get("", c.ProduceHandler.ListProduce)
		produce.Post("", middleware.RequireAuth(), c.ProduceHandler.CreateProduce)
		produce.Patch("/:id/status", middleware.RequireAuth(), c.ProduceHandler.UpdateProduceStatus)
	}
}

func (c *Config) Orders() {
	orders := c.App.Group("/api/v1/orders", middleware.RequireAuth())
	{
		orders.Post("", c.OrderHandler.PlaceOrder)
		orders.Get("", c.OrderHandler.ListOrders)
		orders.Patch("/:id/status", c.OrderHandler.UpdateOrderStatus)
	}
}

func (c *Config) Exports() {
	exports := c.App.Group("/api/v1/exports", middleware.RequireAuth())
	{
		exports.Post("/convert", c.ExportHandler.Convert)
		exports.Post("/:id/retry", c.ExportHandler.Retry)
		exports.Get("", c.ExportHandler.ListExports)
		exports.Patch("/:id/status", c.ExportHandler.UpdateExportStatus)
	}
}

func (c *Config) Producers() {
	producers := c.App.Group("/api/v1/producers")
	{
		producers.Get("/:id/profile", c.ProducerHandler.GetProfile)
		producers.Get("/:id/reviews", c.ProducerHandler.ListReviews)
		producers.Post("/:id/reviews", middleware.RequireAuth(), c.ProducerHandler.LeaveReview)
	}
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Post("/webhook/payment", c.OrderHandler.PaymentWebhook)
}
