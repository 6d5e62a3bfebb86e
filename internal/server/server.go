// Package server exposes report compilation over HTTP.
package server

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/minhkhoavo/xlsxreport/internal/config"
	"github.com/minhkhoavo/xlsxreport/internal/logger"
)

type App struct {
	Echo *echo.Echo
}

func NewApp() *App {
	return &App{
		Echo: echo.New(),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}

	logger.InitLogging(config.DefaultEnvConfig.LOG_FILE_PATH)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	reportHandler := NewReportHandler()

	a.RegisterMiddlewares()
	a.RegisterRoutes(reportHandler)

	return nil
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(middleware.Logger())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
}

func (a *App) RegisterRoutes(reportHandler *ReportHandler) {
	a.Echo.GET("/healthz", reportHandler.HealthHandler)

	apiGroup := a.Echo.Group("/api/v1")
	apiGroup.POST("/reports", reportHandler.CompileHandler)
	apiGroup.GET("/templates", reportHandler.ListTemplatesHandler)
}

func (a *App) Run() error {
	address := fmt.Sprintf("%s:%d", config.DefaultEnvConfig.SERVER_HOST, config.DefaultEnvConfig.SERVER_PORT)
	return a.Echo.Start(address)
}
