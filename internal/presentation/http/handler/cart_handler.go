package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/investify-desk/internal/application/service"
	"github.com/sangkips/investify-desk/internal/domain/enum"
	"github.com/sangkips/investify-desk/internal/presentation/http/dto/request"
	"github.com/sangkips/investify-desk/internal/presentation/http/dto/response"
	"github.com/sangkips/investify-desk/pkg/apperror"
	"github.com/sangkips/investify-desk/pkg/pagination"
	"github.com/sangkips/investify-desk/pkg/utils"
)

// CartHandler exposes one checkout flow over HTTP. The same handler type
// serves the point of sale and purchasing routes.
type CartHandler struct {
	flow *service.CheckoutFlow
}

// NewCartHandler creates a new cart handler
func NewCartHandler(flow *service.CheckoutFlow) *CartHandler {
	return &CartHandler{flow: flow}
}

func (h *CartHandler) controller() *service.CartController {
	return h.flow.Controller()
}

// respond sends the flow state, or the error together with the state it left behind
func (h *CartHandler) respond(c *gin.Context, message string, err error) {
	if err != nil {
		response.ErrorWithData(c, err, h.flow.State())
		return
	}
	response.OK(c, message, h.flow.State())
}

// GetState returns the cart and dialog state
// @Router /{flow}/state [get]
func (h *CartHandler) GetState(c *gin.Context) {
	response.OK(c, "State retrieved successfully", h.flow.State())
}

// Load fetches the catalog and counterparties
// @Router /{flow}/load [post]
func (h *CartHandler) Load(c *gin.Context) {
	err := h.controller().LoadCatalogAndCounterparties(requestContext(c))
	h.respond(c, "Catalog loaded successfully", err)
}

// SelectCounterparty sets the customer or supplier
// @Router /{flow}/counterparty [put]
func (h *CartHandler) SelectCounterparty(c *gin.Context) {
	var req request.SelectCounterpartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	var raw string
	if req.CounterpartyID != nil {
		raw = *req.CounterpartyID
	}
	counterpartyID, err := utils.ParseOptionalUUID(raw)
	if err != nil {
		response.BadRequest(c, "Invalid counterparty_id")
		return
	}

	err = h.controller().SelectCounterparty(requestContext(c), counterpartyID)
	h.respond(c, "Counterparty updated successfully", err)
}

// ListProducts returns one page of the loaded catalog filtered by ?search=
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Router /{flow}/products [get]
func (h *CartHandler) ListProducts(c *gin.Context) {
	var params pagination.PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}

	products := h.flow.SetSearch(c.Query("search"))
	response.OK(c, "Products retrieved successfully", pagination.Slice(products, params))
}

// OpenSearch opens product search
// @Router /{flow}/search/open [post]
func (h *CartHandler) OpenSearch(c *gin.Context) {
	h.respond(c, "Search opened", h.flow.OpenSearch())
}

// CloseSearch closes product search
// @Router /{flow}/search/close [post]
func (h *CartHandler) CloseSearch(c *gin.Context) {
	h.respond(c, "Search closed", h.flow.CloseSearch())
}

// OpenAddQuantity opens the quantity dialog for a product
// @Router /{flow}/quantity/add [post]
func (h *CartHandler) OpenAddQuantity(c *gin.Context) {
	var req request.OpenAddQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	h.respond(c, "Quantity dialog opened", h.flow.OpenAddQuantity(uuid.MustParse(req.ProductID)))
}

// OpenEditQuantity opens the quantity dialog for a cart line
// @Router /{flow}/quantity/edit [post]
func (h *CartHandler) OpenEditQuantity(c *gin.Context) {
	var req request.OpenEditQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	h.respond(c, "Quantity dialog opened", h.flow.OpenEditQuantity(uuid.MustParse(req.ItemID)))
}

// ConfirmQuantity adds or updates the item with the entered quantity
// @Router /{flow}/quantity/confirm [post]
func (h *CartHandler) ConfirmQuantity(c *gin.Context) {
	var req request.ConfirmQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	err := h.flow.ConfirmQuantity(requestContext(c), req.Input())
	h.respond(c, "Cart updated successfully", err)
}

// CancelQuantity closes the quantity dialog
// @Router /{flow}/quantity/cancel [post]
func (h *CartHandler) CancelQuantity(c *gin.Context) {
	h.respond(c, "Quantity dialog closed", h.flow.CancelQuantity())
}

// RemoveItem asks for confirmation before removing a line
// @Router /{flow}/items/{item_id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	itemID, err := parseUUIDParam(c, "item_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	confirmation, err := h.flow.RequestRemoval(itemID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, "Confirmation required", confirmation)
}

// ResolveConfirmation accepts or declines a pending confirmation
// @Router /{flow}/confirmations/{id} [post]
func (h *CartHandler) ResolveConfirmation(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.ResolveConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	err = h.flow.ResolveConfirmation(requestContext(c), id, *req.Accepted)
	h.respond(c, "Confirmation resolved", err)
}

// OpenCheckout enters checkout review
// @Router /{flow}/checkout/open [post]
func (h *CartHandler) OpenCheckout(c *gin.Context) {
	h.respond(c, "Checkout opened", h.flow.OpenCheckout(requestContext(c)))
}

// ChangePaymentMethod switches the payment method and reloads eligible accounts
// @Router /{flow}/checkout/payment-method [put]
func (h *CartHandler) ChangePaymentMethod(c *gin.Context) {
	var req request.PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	err := h.flow.ChangePaymentMethod(requestContext(c), enum.PaymentMethod(req.PaymentMethod))
	h.respond(c, "Payment method updated", err)
}

// SelectAccount picks the bill account
// @Router /{flow}/checkout/account [put]
func (h *CartHandler) SelectAccount(c *gin.Context) {
	var req request.SelectAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	h.respond(c, "Bill account selected", h.flow.SelectAccount(uuid.MustParse(req.BillAccountID)))
}

// ConfirmCheckout completes the cart
// @Router /{flow}/checkout/confirm [post]
func (h *CartHandler) ConfirmCheckout(c *gin.Context) {
	_, err := h.flow.ConfirmCheckout(requestContext(c))
	if err != nil {
		response.ErrorWithData(c, err, h.flow.State())
		return
	}
	state := h.flow.State()
	response.OK(c, state.SuccessMessage, state)
}

// CancelCheckout leaves checkout review
// @Router /{flow}/checkout/cancel [post]
func (h *CartHandler) CancelCheckout(c *gin.Context) {
	h.respond(c, "Checkout cancelled", h.flow.CancelCheckout())
}

// ListBillAccounts lists the accounts eligible for ?payment_method=
// @Router /{flow}/bill-accounts [get]
func (h *CartHandler) ListBillAccounts(c *gin.Context) {
	method := c.Query("payment_method")
	if method == "" {
		response.Error(c, apperror.NewValidationError("payment_method", "payment_method is required"))
		return
	}

	accounts, err := h.controller().GetEligibleBillAccounts(requestContext(c), enum.PaymentMethod(method))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Bill accounts retrieved successfully", accounts)
}

// Reload fetches the cart again from the server
// @Router /{flow}/reload [post]
func (h *CartHandler) Reload(c *gin.Context) {
	h.respond(c, "Cart reloaded", h.controller().ReloadCart(requestContext(c)))
}

// Reset discards the local cart
// @Router /{flow}/reset [post]
func (h *CartHandler) Reset(c *gin.Context) {
	h.respond(c, "Cart reset", h.flow.Reset())
}
