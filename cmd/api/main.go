package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/acestudios/print-server/internal/application/service"
	"github.com/acestudios/print-server/internal/config"
	"github.com/acestudios/print-server/internal/presentation/http/handler"
	"github.com/acestudios/print-server/internal/presentation/http/routes"
	"github.com/acestudios/print-server/pkg/printer"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Wire the printing stack
	runner := printer.NewExecRunner()
	resolver := printer.NewPortResolver(runner)
	lister := printer.NewLister(runner)
	dispatcher := printer.NewDispatcher(runner, resolver, printer.DefaultChain())

	// Initialize services
	printerService := service.NewPrinterService(lister)
	receiptService := service.NewReceiptService(dispatcher, cfg)
	labelService := service.NewLabelService(dispatcher, cfg)

	// Initialize handlers
	handlers := &routes.Handlers{
		Printer: handler.NewPrinterHandler(printerService),
		Receipt: handler.NewReceiptHandler(receiptService),
		Label:   handler.NewLabelHandler(labelService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{Cfg: cfg})

	port := cfg.App.Port
	if port == "" {
		port = "3001"
	}

	log.Printf("Starting %s on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)
	log.Printf("Label defaults: %s @ %ddpi", cfg.Labels.Paper, cfg.Labels.DPI)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
