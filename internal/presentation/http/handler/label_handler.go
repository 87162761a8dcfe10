package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/acestudios/print-server/internal/application/service"
	"github.com/acestudios/print-server/internal/presentation/http/dto/request"
	"github.com/acestudios/print-server/internal/presentation/http/dto/response"
)

// LabelHandler handles ZPL label HTTP requests.
type LabelHandler struct {
	labelService *service.LabelService
}

// NewLabelHandler creates a new label handler.
func NewLabelHandler(labelService *service.LabelService) *LabelHandler {
	return &LabelHandler{labelService: labelService}
}

// Print generates the label batch and dispatches it to the named printer.
func (h *LabelHandler) Print(c *gin.Context) {
	var req request.PrintLabelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	res, err := h.labelService.PrintLabels(c.Request.Context(), req.PrinterName, req.ToOptions())
	if err != nil {
		response.Error(c, err)
		return
	}

	if res.Success {
		response.OK(c, "Labels printed", res)
		return
	}
	response.OK(c, "Label print failed", res)
}

// Generate returns the ZPL markup without printing, for preview and
// debugging against a label viewer.
func (h *LabelHandler) Generate(c *gin.Context) {
	var req request.GenerateZPLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	code, err := h.labelService.GenerateZPL(req.ToOptions())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ZPL generated", gin.H{"zpl": code})
}
