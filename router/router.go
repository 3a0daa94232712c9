package router

import (
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"gardencare/pkg/middleware"
)

type Controllers struct {
	Garden interface {
		Create(echo.Context) error
		Get(echo.Context) error
		List(echo.Context) error
	}
	Insight  interface{ Get(echo.Context) error }
	Variety  interface{ List(echo.Context) error }
	Planting interface {
		Create(echo.Context) error
		List(echo.Context) error
		Delete(echo.Context) error
	}
	SeedBatch interface {
		Create(echo.Context) error
		List(echo.Context) error
	}
	Observation interface {
		CreateSoilSample(echo.Context) error
		CreateSensorReading(echo.Context) error
		CreateIrrigation(echo.Context) error
	}
	Task interface {
		List(echo.Context) error
		Create(echo.Context) error
		Complete(echo.Context) error
		Skip(echo.Context) error
		Delete(echo.Context) error
	}
	Flags interface {
		List(echo.Context) error
		Enable(echo.Context) error
		Disable(echo.Context) error
		Reload(echo.Context) error
	}
	Health  interface{ Health(echo.Context) error }
	Metrics echo.HandlerFunc
}

func New(e *echo.Echo, log *zap.Logger, h Controllers) *echo.Echo {
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(log))

	e.GET("/health", h.Health.Health)
	if h.Metrics != nil {
		e.GET("/metrics", h.Metrics)
	}

	e.GET("/varieties", h.Variety.List)

	g := e.Group("/gardens")
	g.POST("", h.Garden.Create)
	g.GET("", h.Garden.List)
	g.GET("/:id", h.Garden.Get)
	g.GET("/:id/insights", h.Insight.Get)

	g.POST("/:id/plantings", h.Planting.Create)
	g.GET("/:id/plantings", h.Planting.List)
	e.DELETE("/plantings/:id", h.Planting.Delete)

	g.POST("/:id/seed-batches", h.SeedBatch.Create)
	g.GET("/:id/seed-batches", h.SeedBatch.List)

	g.POST("/:id/soil-samples", h.Observation.CreateSoilSample)
	g.POST("/:id/sensor-readings", h.Observation.CreateSensorReading)
	g.POST("/:id/irrigations", h.Observation.CreateIrrigation)

	g.GET("/:id/tasks", h.Task.List)
	g.POST("/:id/tasks", h.Task.Create)
	e.POST("/tasks/:id/complete", h.Task.Complete)
	e.POST("/tasks/:id/skip", h.Task.Skip)
	e.DELETE("/tasks/:id", h.Task.Delete)

	admin := e.Group("/admin/flags")
	admin.GET("", h.Flags.List)
	admin.POST("/reload", h.Flags.Reload)
	admin.POST("/:name/enable", h.Flags.Enable)
	admin.POST("/:name/disable", h.Flags.Disable)
	return e
}
