// Package main runs the xlsxreport HTTP service.
package main

import (
	"context"

	"github.com/minhkhoavo/xlsxreport/internal/logger"
	"github.com/minhkhoavo/xlsxreport/internal/server"
)

func main() {
	ctx := context.Background()

	app := server.NewApp()
	if err := app.Initialize(ctx); err != nil {
		panic(err)
	}

	logger.InfoLog(ctx, "Starting report service")
	if err := app.Run(); err != nil {
		logger.ErrorLog(ctx, "Server stopped", err)
	}
}
