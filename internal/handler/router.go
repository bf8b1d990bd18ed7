package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type AppConfig struct {
	// CORSOrigins is a comma separated origin list.
	CORSOrigins string
	// Gatherer backs /metrics; nil leaves the route out.
	Gatherer prometheus.Gatherer
	// DisableRequestLog turns off the access log middleware.
	DisableRequestLog bool
}

func NewApp(cfg AppConfig, ads *AdHandler) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(recover.New())
	if !cfg.DisableRequestLog {
		app.Use(logger.New())
	}
	if cfg.CORSOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowCredentials: true,
			AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
			AllowHeaders:     "*",
		}))
	}

	app.Get("/", Root)
	app.Get("/health", HealthCheck)
	if cfg.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")
	api.Get("/sources", ListSources)
	api.Get("/dashboard", ads.GetDashboardStats)
	api.Get("/ads", ads.ListAds)
	api.Post("/ads", ads.CreateAd)
	api.Post("/ads/rescore", ads.RescoreAds)
	api.Get("/ads/:id", ads.GetAd)
	api.Put("/ads/:id", ads.UpdateAd)
	api.Delete("/ads/:id", ads.DeleteAd)

	return app
}
