package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/acestudios/print-server/internal/application/service"
	"github.com/acestudios/print-server/internal/presentation/http/dto/response"
)

// PrinterHandler handles printer discovery HTTP requests.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// List returns the installed printers with language hints and receipt
// profiles, default printer first.
func (h *PrinterHandler) List(c *gin.Context) {
	printers, err := h.printerService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Printers retrieved", gin.H{
		"printers": printers,
		"count":    len(printers),
	})
}
