package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/investify-desk/internal/application/service"
	"github.com/sangkips/investify-desk/internal/presentation/http/dto/response"
)

// ReceiptHandler handles the till printer
type ReceiptHandler struct {
	receipts *service.ReceiptService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receipts *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receipts: receipts}
}

// GetStatus returns the printer status
// @Router /pos/printer/status [get]
func (h *ReceiptHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.receipts.Status())
}

// PrintLastSale prints the receipt of the last completed sale. The receipt
// is returned either way so the UI can show it when printing fails.
// @Router /pos/receipt [post]
func (h *ReceiptHandler) PrintLastSale(c *gin.Context) {
	receipt, err := h.receipts.PrintLastSale(requestContext(c), GetUser(c))
	if err != nil {
		response.ErrorWithData(c, err, receipt)
		return
	}
	response.OK(c, "Receipt printed", receipt)
}
