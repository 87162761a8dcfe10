package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/acestudios/print-server/internal/config"
	"github.com/acestudios/print-server/internal/presentation/http/handler"
	"github.com/acestudios/print-server/internal/presentation/http/middleware"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Printer *handler.PrinterHandler
	Receipt *handler.ReceiptHandler
	Label   *handler.LabelHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg *config.Config
}

// Setup creates the Gin router and registers all routes. Paths stay at the
// root so existing POS frontends can point at the server unchanged.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	router.GET("/printers", h.Printer.List)
	router.POST("/generate-zpl", h.Label.Generate)

	// Print endpoints shell out to the OS spooler; rate limit them so a
	// retry loop in a frontend cannot flood it.
	printGroup := router.Group("")
	rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
		BurstSize:         deps.Cfg.RateLimit.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})
	printGroup.Use(rateLimiter.Middleware())

	printGroup.POST("/print-receipt", h.Receipt.Print)
	printGroup.POST("/print-labels", h.Label.Print)

	return router
}
