package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/service"
	"go-pos-ws/pkg/validator"
)

// PosHandler serves the register: the session cart and checkout.
type PosHandler struct {
	orderService service.OrderService
}

func NewPosHandler(orderService service.OrderService) *PosHandler {
	return &PosHandler{orderService: orderService}
}

func sessionID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

// GetCart returns the session's current lines and subtotal
// GET /api/v1/cart
func (h *PosHandler) GetCart(c *fiber.Ctx) error {
	sid := sessionID(c)
	return c.JSON(fiber.Map{
		"items":    h.orderService.CartLines(sid),
		"subtotal": h.orderService.CartSubtotal(sid),
	})
}

// AddItemRequest represents the add-to-cart request body
type AddItemRequest struct {
	ProductID string `json:"product_id"`
}

// AddItem merges one unit of a product into the cart
// POST /api/v1/cart/items
func (h *PosHandler) AddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.ProductID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "product_id is required"})
	}

	if err := h.orderService.AddToCart(sessionID(c), req.ProductID); err != nil {
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"items": h.orderService.CartLines(sessionID(c))})
}

// AdjustQuantityRequest represents the quantity delta request body
type AdjustQuantityRequest struct {
	Delta int `json:"delta"`
}

// AdjustQuantity applies a quantity delta to one line, flooring at 1
// PATCH /api/v1/cart/items/:id
func (h *PosHandler) AdjustQuantity(c *fiber.Ctx) error {
	var req AdjustQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	h.orderService.AdjustCartQuantity(sessionID(c), c.Params("id"), req.Delta)
	return c.JSON(fiber.Map{"items": h.orderService.CartLines(sessionID(c))})
}

// RemoveItem deletes a line regardless of quantity
// DELETE /api/v1/cart/items/:id
func (h *PosHandler) RemoveItem(c *fiber.Ctx) error {
	h.orderService.RemoveFromCart(sessionID(c), c.Params("id"))
	return c.JSON(fiber.Map{"items": h.orderService.CartLines(sessionID(c))})
}

// ClearCart empties the session cart
// DELETE /api/v1/cart
func (h *PosHandler) ClearCart(c *fiber.Ctx) error {
	h.orderService.ClearCart(sessionID(c))
	return c.JSON(fiber.Map{"message": "Cart cleared"})
}

// CheckoutRequest represents the checkout request body
type CheckoutRequest struct {
	Discount      decimal.Decimal `json:"discount"`
	PaymentMethod string          `json:"payment_method" validate:"required,payment_method"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
}

// Checkout commits the cart into an order
// POST /api/v1/checkout
func (h *PosHandler) Checkout(c *fiber.Ctx) error {
	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed on field " + errs[0].FailedField})
	}

	sellerName, _ := c.Locals("user_name").(string)

	order, err := h.orderService.Checkout(sessionID(c), &service.CheckoutRequest{
		Discount:      req.Discount,
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
		AmountPaid:    req.AmountPaid,
		SellerName:    sellerName,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart),
			errors.Is(err, service.ErrNegativeDiscount),
			errors.Is(err, service.ErrBadPayment),
			errors.Is(err, service.ErrInsufficientCash):
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(500).JSON(fiber.Map{"error": "Checkout failed"})
		}
	}

	return c.Status(201).JSON(order)
}
