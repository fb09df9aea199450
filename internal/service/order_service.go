package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"go-pos-ws/internal/cart"
	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"
	"go-pos-ws/internal/store"
	"go-pos-ws/internal/ws"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrNegativeDiscount = errors.New("discount cannot be negative")
	ErrBadPayment       = errors.New("unknown payment method")
	ErrInsufficientCash = errors.New("amount tendered does not cover the total")
	ErrProductNotFound  = errors.New("product not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrAlreadyCancelled = errors.New("order is already cancelled")
	ErrKitchenDone      = errors.New("order is already marked done")
	ErrKitchenPending   = errors.New("order is not marked done")
)

// CheckoutRequest carries the committed sale parameters. The cart itself
// lives in the session registry and is looked up by session id.
type CheckoutRequest struct {
	Discount      decimal.Decimal
	PaymentMethod model.PaymentMethod
	AmountPaid    decimal.Decimal
	SellerName    string
}

// SyncStatus is the connectivity indicator exposed to clients.
type SyncStatus struct {
	Connected bool `json:"connected"`
	Syncing   bool `json:"syncing"`
}

// OrderService drives the order lifecycle: cart accumulation, checkout,
// status and kitchen transitions, and the daily reset. Every transition
// applies to the local view first; the reconciler ships it remote afterwards
// and remote failures never roll a transition back.
type OrderService interface {
	CartLines(sessionID string) []model.OrderItem
	AddToCart(sessionID, productID string) error
	AdjustCartQuantity(sessionID, productID string, delta int)
	RemoveFromCart(sessionID, productID string)
	ClearCart(sessionID string)
	CartSubtotal(sessionID string) decimal.Decimal

	Checkout(sessionID string, req *CheckoutRequest) (*model.Order, error)
	Cancel(orderID, actorName string) (*model.Order, error)
	MarkKitchenDone(orderID string) (*model.Order, error)
	ReturnToPreparation(orderID string) (*model.Order, error)
	ResetDay(actorName string)

	Orders() []model.Order
	Status() SyncStatus
}

type orderService struct {
	carts       *cart.Registry
	productRepo repository.ProductRepository
	rec         *store.Reconciler
	hub         *ws.Hub
}

func NewOrderService(carts *cart.Registry, productRepo repository.ProductRepository, rec *store.Reconciler, hub *ws.Hub) OrderService {
	return &orderService{
		carts:       carts,
		productRepo: productRepo,
		rec:         rec,
		hub:         hub,
	}
}

func (s *orderService) CartLines(sessionID string) []model.OrderItem {
	return s.carts.Get(sessionID).Lines()
}

func (s *orderService) AddToCart(sessionID, productID string) error {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		return ErrProductNotFound
	}
	s.carts.Get(sessionID).AddItem(*product)
	return nil
}

func (s *orderService) AdjustCartQuantity(sessionID, productID string, delta int) {
	s.carts.Get(sessionID).AdjustQuantity(productID, delta)
}

func (s *orderService) RemoveFromCart(sessionID, productID string) {
	s.carts.Get(sessionID).RemoveItem(productID)
}

func (s *orderService) ClearCart(sessionID string) {
	s.carts.Get(sessionID).Clear()
}

func (s *orderService) CartSubtotal(sessionID string) decimal.Decimal {
	return s.carts.Get(sessionID).Subtotal()
}

func (s *orderService) Checkout(sessionID string, req *CheckoutRequest) (*model.Order, error) {
	c := s.carts.Get(sessionID)
	lines := c.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	if req.Discount.IsNegative() {
		return nil, ErrNegativeDiscount
	}
	if !model.ValidPaymentMethod(req.PaymentMethod) {
		return nil, ErrBadPayment
	}

	subtotal := c.Subtotal()
	total := subtotal.Sub(req.Discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	order := model.Order{
		ID:            uuid.NewString(),
		Timestamp:     time.Now().UnixMilli(),
		Items:         lines,
		Subtotal:      subtotal,
		Discount:      req.Discount,
		Total:         total,
		PaymentMethod: req.PaymentMethod,
		SellerName:    req.SellerName,
		Status:        model.StatusCompleted,
		KitchenStatus: model.KitchenPending,
	}

	if req.PaymentMethod == model.PayCash {
		if req.AmountPaid.LessThan(total) {
			return nil, ErrInsufficientCash
		}
		order.AmountPaid = req.AmountPaid
		order.Change = req.AmountPaid.Sub(total)
	}

	order.OrderNumber = s.rec.ClaimOrderNumber(time.Now())

	// Local view first, remote write queued behind it.
	s.rec.ApplyOrder(order)
	c.Clear()

	go s.hub.Publish("order_created", map[string]interface{}{
		"order":   order,
		"message": fmt.Sprintf("%s rang up order #%s", req.SellerName, order.OrderNumber),
	})

	return &order, nil
}

func (s *orderService) Cancel(orderID, actorName string) (*model.Order, error) {
	order, ok := s.rec.Get(orderID)
	if !ok {
		return nil, ErrOrderNotFound
	}
	if order.Status == model.StatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	s.rec.SetStatus(orderID, model.StatusCancelled)
	order.Status = model.StatusCancelled

	go s.hub.Publish("order_cancelled", map[string]interface{}{
		"order_id":     orderID,
		"order_number": order.OrderNumber,
		"message":      fmt.Sprintf("%s cancelled order #%s", actorName, order.OrderNumber),
	})

	return &order, nil
}

func (s *orderService) MarkKitchenDone(orderID string) (*model.Order, error) {
	order, ok := s.rec.Get(orderID)
	if !ok {
		return nil, ErrOrderNotFound
	}
	// Cancelled orders pass through here too: marking them done is how the
	// kitchen acknowledges the cancellation alert.
	if order.KitchenStatus == model.KitchenDone {
		return nil, ErrKitchenDone
	}

	s.rec.SetKitchenStatus(orderID, model.KitchenDone)
	order.KitchenStatus = model.KitchenDone

	go s.hub.Publish("kitchen_update", map[string]interface{}{
		"order_id":       orderID,
		"order_number":   order.OrderNumber,
		"kitchen_status": model.KitchenDone,
	})

	return &order, nil
}

func (s *orderService) ReturnToPreparation(orderID string) (*model.Order, error) {
	order, ok := s.rec.Get(orderID)
	if !ok {
		return nil, ErrOrderNotFound
	}
	if order.KitchenStatus != model.KitchenDone {
		return nil, ErrKitchenPending
	}

	s.rec.SetKitchenStatus(orderID, model.KitchenPending)
	order.KitchenStatus = model.KitchenPending

	go s.hub.Publish("kitchen_update", map[string]interface{}{
		"order_id":       orderID,
		"order_number":   order.OrderNumber,
		"kitchen_status": model.KitchenPending,
	})

	return &order, nil
}

// ResetDay wipes the local order set and rewinds numbering to 1. The remote
// wipe is queued best-effort; if it fails the next refresh pulls the old rows
// back, which is the documented limitation of the reset.
func (s *orderService) ResetDay(actorName string) {
	s.rec.ResetAll()

	go s.hub.Publish("system_reset", map[string]interface{}{
		"message": fmt.Sprintf("%s reset the daily system", actorName),
	})
}

func (s *orderService) Orders() []model.Order {
	return s.rec.Orders()
}

func (s *orderService) Status() SyncStatus {
	return SyncStatus{
		Connected: s.rec.Connected(),
		Syncing:   s.rec.Syncing(),
	}
}
