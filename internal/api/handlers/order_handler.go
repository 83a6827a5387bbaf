package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"agrocycle-be/internal/api/presenters"
	"agrocycle-be/internal/middleware"
	"agrocycle-be/internal/order"
)

const (
	MessageSuccessPlaceOrder  = "order placed"
	MessageFailedPlaceOrder   = "failed to place order"
	MessageSuccessListOrders  = "orders fetched"
	MessageFailedListOrders   = "failed to fetch orders"
	MessageSuccessOrderStatus = "order status updated"
	MessageFailedOrderStatus  = "failed to update order status"
	MessageSuccessMarkPaid    = "order marked as paid"
	MessageFailedMarkPaid     = "failed to mark order as paid"
)

type (
	OrderLineRequest struct {
		ProduceID string  `json:"produce_id" validate:"required"`
		Quantity  float64 `json:"quantity" validate:"required,gt=0"`
	}

	PlaceOrderRequest struct {
		ProducerID string             `json:"producer_id" validate:"required"`
		Items      []OrderLineRequest `json:"items" validate:"required,min=1,dive"`
	}

	UpdateOrderStatusRequest struct {
		Status string `json:"status" validate:"required"`
	}

	PaymentWebhookRequest struct {
		OrderID string `json:"order_id" validate:"required"`
		Status  string `json:"transaction_status" validate:"required"`
	}

	OrderHandler interface {
		PlaceOrder(c *fiber.Ctx) error
		ListOrders(c *fiber.Ctx) error
		UpdateOrderStatus(c *fiber.Ctx) error
		PaymentWebhook(c *fiber.Ctx) error
	}

	orderHandler struct {
		orderService order.Service
		validator    *validator.Validate
	}
)

func NewOrderHandler(orderService order.Service, validator *validator.Validate) OrderHandler {
	return &orderHandler{
		orderService: orderService,
		validator:    validator,
	}
}

func (h *orderHandler) PlaceOrder(c *fiber.Ctx) error {
	customerID, _ := middleware.UserIDFrom(c.UserContext())
	req := new(PlaceOrderRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, MessageFailedPlaceOrder, err)
	}

	items := make([]order.NewLineItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, order.NewLineItem{
			ProduceID: it.ProduceID,
			Quantity:  it.Quantity,
		})
	}

	placed, err := h.orderService.PlaceOrder(c.UserContext(), customerID, req.ProducerID, items)
	if err != nil {
		return presenters.DomainErrorResponse(c, MessageFailedPlaceOrder, err)
	}

	return presenters.SuccessResponse(c, presenters.NewOrderView(placed), fiber.StatusCreated, MessageSuccessPlaceOrder)
}

// ListOrders returns the caller's own orders. Farmers see orders placed
// against their produce, everyone else sees orders they placed.
func (h *orderHandler) ListOrders(c *fiber.Ctx) error {
	userID, _ := middleware.UserIDFrom(c.UserContext())

	var (
		orders []*order.Order
		err    error
	)
	if middleware.RoleFrom(c.UserContext()) == middleware.RoleFarmer {
		orders, err = h.orderService.ListByProducer(c.UserContext(), userID)
	} else {
		orders, err = h.orderService.ListByCustomer(c.UserContext(), userID)
	}
	if err != nil {
		return presenters.DomainErrorResponse(c, MessageFailedListOrders, err)
	}

	return presenters.SuccessResponse(c, presenters.NewOrderViews(orders), fiber.StatusOK, MessageSuccessListOrders)
}

func (h *orderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	req := new(UpdateOrderStatusRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, MessageFailedOrderStatus, err)
	}

	if err := h.orderService.UpdateStatus(c.UserContext(), orderID, order.Status(req.Status)); err != nil {
		return presenters.DomainErrorResponse(c, MessageFailedOrderStatus, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, MessageSuccessOrderStatus)
}

// PaymentWebhook is called by the payment collaborator. Settlement is
// idempotent so gateway redeliveries are safe.
func (h *orderHandler) PaymentWebhook(c *fiber.Ctx) error {
	req := new(PaymentWebhookRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, MessageFailedMarkPaid, err)
	}

	if req.Status != "settlement" && req.Status != "capture" {
		return presenters.SuccessResponse(c, nil, fiber.StatusOK, "ignored")
	}

	if err := h.orderService.MarkPaid(c.UserContext(), req.OrderID); err != nil {
		return presenters.DomainErrorResponse(c, MessageFailedMarkPaid, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, MessageSuccessMarkPaid)
}
