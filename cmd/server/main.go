package main

import (
	"database/sql"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"agrocycle-be/internal/api/handlers"
	"agrocycle-be/internal/api/routes"
	"agrocycle-be/internal/config"
	"agrocycle-be/internal/db"
	"agrocycle-be/internal/export"
	"agrocycle-be/internal/impact"
	"agrocycle-be/internal/lifecycle"
	"agrocycle-be/internal/logger"
	"agrocycle-be/internal/metrics"
	"agrocycle-be/internal/order"
	"agrocycle-be/internal/produce"
	"agrocycle-be/internal/review"
)

// Swappable for tests.
var (
	initDBFunc = db.InitDB
	listenFunc = func(app *fiber.App, addr string) error {
		return app.Listen(addr)
	}
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	app := newApp(cfg, database)

	logger.L().Info("server listening", zap.String("port", cfg.AppPort))
	return listenFunc(app, ":"+cfg.AppPort)
}

func newApp(cfg *config.Config, database *sql.DB) *fiber.App {
	validate := validator.New()
	m := metrics.NewSet()

	coeffs := export.DefaultCoefficients()
	if cfg.CoefficientsFile != "" {
		loaded, err := export.LoadCoefficients(cfg.CoefficientsFile)
		if err != nil {
			logger.L().Fatal("failed to load coefficient table",
				zap.String("path", cfg.CoefficientsFile), zap.Error(err))
		}
		coeffs = loaded
	}

	produceRepo := produce.NewRepository(database)
	produceSvc := produce.NewService(produceRepo)

	exportRepo := export.NewRepository(database)
	exportSvc := export.NewService(exportRepo, produceRepo, coeffs)

	impactRepo := impact.NewRepository(database)
	impactSvc := impact.NewService(impactRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, m)

	lifecycleSvc := lifecycle.NewService(produceSvc, exportSvc, impactSvc, m)

	reviewRepo := review.NewRepository(database)
	reviewSvc := review.NewService(reviewRepo, impactRepo)

	app := fiber.New(fiber.Config{
		AppName: "agrocycle-be",
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	routeConfig := routes.Config{
		App:             app,
		ProduceHandler:  handlers.NewProduceHandler(produceSvc, validate),
		OrderHandler:    handlers.NewOrderHandler(orderSvc, validate),
		ExportHandler:   handlers.NewExportHandler(exportSvc, lifecycleSvc, validate),
		ProducerHandler: handlers.NewProducerHandler(impactSvc, reviewSvc, validate),
		JWTSecret:       cfg.JWTSecret,
	}
	routeConfig.Setup()

	return app
}
