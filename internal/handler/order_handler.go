package handler

import (
	"errors"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"go-pos-ws/internal/service"
)

// OrderHandler serves the committed order set: the kitchen board, the
// reports screen and the admin transitions.
type OrderHandler struct {
	orderService  service.OrderService
	reportService service.ReportService
}

func NewOrderHandler(orderService service.OrderService, reportService service.ReportService) *OrderHandler {
	return &OrderHandler{orderService: orderService, reportService: reportService}
}

// GetOrders returns the effective order set, oldest first
// GET /api/v1/orders
func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	return c.JSON(h.orderService.Orders())
}

// GetStatus returns the sync indicator flags
// GET /api/v1/status
func (h *OrderHandler) GetStatus(c *fiber.Ctx) error {
	return c.JSON(h.orderService.Status())
}

// Cancel voids a completed order
// POST /api/v1/orders/:id/cancel
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	actor, _ := c.Locals("user_name").(string)

	order, err := h.orderService.Cancel(c.Params("id"), actor)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrAlreadyCancelled):
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(500).JSON(fiber.Map{"error": "Cancel failed"})
		}
	}
	return c.JSON(order)
}

// MarkDone flags an order as prepared; on cancelled orders this acknowledges
// the cancellation alert
// POST /api/v1/orders/:id/done
func (h *OrderHandler) MarkDone(c *fiber.Ctx) error {
	order, err := h.orderService.MarkKitchenDone(c.Params("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrKitchenDone):
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(500).JSON(fiber.Map{"error": "Update failed"})
		}
	}
	return c.JSON(order)
}

// ReturnToPrep reverses a mistaken done flag
// POST /api/v1/orders/:id/return
func (h *OrderHandler) ReturnToPrep(c *fiber.Ctx) error {
	order, err := h.orderService.ReturnToPreparation(c.Params("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrKitchenPending):
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(500).JSON(fiber.Map{"error": "Update failed"})
		}
	}
	return c.JSON(order)
}

// ResetRequest represents the daily reset request body
type ResetRequest struct {
	Secret string `json:"secret"`
}

// Reset wipes the day: local view, snapshot, counter, plus a best-effort
// remote wipe. Guarded by the admin secret on top of the admin role.
// POST /api/v1/system/reset
func (h *OrderHandler) Reset(c *fiber.Ctx) error {
	var req ResetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	secret := os.Getenv("ADMIN_SECRET")
	if secret == "" {
		secret = "0"
	}
	if req.Secret != secret {
		return c.Status(403).JSON(fiber.Map{"error": "Wrong administrative secret"})
	}

	actor, _ := c.Locals("user_name").(string)
	h.orderService.ResetDay(actor)

	return c.JSON(fiber.Map{"message": "System reset, numbering restarts at 1"})
}

// DailyReport aggregates one day of sales
// GET /api/v1/reports/daily?date=YYYY-MM-DD (default today)
func (h *OrderHandler) DailyReport(c *fiber.Ctx) error {
	day := time.Now()
	if q := c.Query("date"); q != "" {
		parsed, err := time.ParseInLocation("2006-01-02", q, time.Local)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid date, use YYYY-MM-DD"})
		}
		day = parsed
	}

	return c.JSON(h.reportService.DailySummary(day))
}
