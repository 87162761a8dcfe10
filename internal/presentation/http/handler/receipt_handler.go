package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/acestudios/print-server/internal/application/service"
	"github.com/acestudios/print-server/internal/presentation/http/dto/request"
	"github.com/acestudios/print-server/internal/presentation/http/dto/response"
)

// ReceiptHandler handles receipt print HTTP requests.
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new receipt handler.
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// Print renders the receipt payload and dispatches it to the named printer.
// A dispatch failure is still a 200: the result body carries the failure
// details and the retained temp file path.
func (h *ReceiptHandler) Print(c *gin.Context) {
	var req request.PrintReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	res, err := h.receiptService.PrintReceipt(
		c.Request.Context(),
		req.Printer.Name,
		req.Job.Copies,
		req.Job.Format,
		req.ReceiptData.ToDomain(),
	)
	if err != nil {
		response.Error(c, err)
		return
	}

	if res.Success {
		response.OK(c, "Receipt printed", res)
		return
	}
	response.OK(c, "Receipt print failed", res)
}
