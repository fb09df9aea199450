package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-pos-ws/internal/cart"
	"go-pos-ws/internal/model"
	"go-pos-ws/internal/store"
)

// nullRemote accepts every write and always fetches empty.
type nullRemote struct {
	mu      sync.Mutex
	created []model.Order
}

func (n *nullRemote) FetchAll(ctx context.Context) ([]model.Order, error) { return nil, nil }

func (n *nullRemote) Create(ctx context.Context, o *model.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, *o)
	return nil
}

func (n *nullRemote) UpdateStatus(ctx context.Context, id string, s model.OrderStatus) error {
	return nil
}

func (n *nullRemote) UpdateKitchenStatus(ctx context.Context, id string, k model.KitchenStatus) error {
	return nil
}

func (n *nullRemote) DeleteAll(ctx context.Context) error { return nil }

// memProductRepo is an in-memory ProductRepository.
type memProductRepo struct {
	mu       sync.Mutex
	products map[string]model.Product
}

func newMemProductRepo(products ...model.Product) *memProductRepo {
	m := &memProductRepo{products: make(map[string]model.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *memProductRepo) FindAll() ([]model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

func (m *memProductRepo) FindByID(id string) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return &p, nil
}

func (m *memProductRepo) Create(p *model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = *p
	return nil
}

func (m *memProductRepo) Update(p *model.Product) error { return m.Create(p) }

func (m *memProductRepo) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.products, id)
	return nil
}

func (m *memProductRepo) SeedDefaults() error { return nil }

func testProduct(id string, price float64) model.Product {
	return model.Product{ID: id, Name: "Item " + id, Price: decimal.NewFromFloat(price), Category: "Test"}
}

func newTestOrderService(t *testing.T, products ...model.Product) (OrderService, *memProductRepo) {
	t.Helper()
	repo := newMemProductRepo(products...)
	rec := store.New(&nullRemote{}, store.NewSnapshot(t.TempDir()), nil, time.Minute)
	svc := NewOrderService(cart.NewRegistry(), repo, rec, nil)
	return svc, repo
}

const session = "till-1"

func TestCheckoutCashEndToEnd(t *testing.T) {
	svc, _ := newTestOrderService(t, testProduct("1", 18.00))

	require.NoError(t, svc.AddToCart(session, "1"))

	order, err := svc.Checkout(session, &CheckoutRequest{
		Discount:      decimal.Zero,
		PaymentMethod: model.PayCash,
		AmountPaid:    decimal.NewFromFloat(20.00),
		SellerName:    "Cashier 1",
	})
	require.NoError(t, err)

	assert.True(t, order.Subtotal.Equal(decimal.NewFromFloat(18.00)), "subtotal = %s", order.Subtotal)
	assert.True(t, order.Total.Equal(decimal.NewFromFloat(18.00)), "total = %s", order.Total)
	assert.True(t, order.AmountPaid.Equal(decimal.NewFromFloat(20.00)))
	assert.True(t, order.Change.Equal(decimal.NewFromFloat(2.00)), "change = %s", order.Change)
	assert.Equal(t, model.StatusCompleted, order.Status)
	assert.Equal(t, model.KitchenPending, order.KitchenStatus)
	assert.Equal(t, "1", order.OrderNumber)
	assert.Equal(t, "Cashier 1", order.SellerName)

	// Checkout clears the cart.
	assert.Empty(t, svc.CartLines(session))
}

func TestCheckoutValidation(t *testing.T) {
	svc, _ := newTestOrderService(t, testProduct("1", 18.00))

	t.Run("empty cart", func(t *testing.T) {
		_, err := svc.Checkout(session, &CheckoutRequest{PaymentMethod: model.PayPix})
		assert.ErrorIs(t, err, ErrEmptyCart)
	})

	t.Run("negative discount", func(t *testing.T) {
		require.NoError(t, svc.AddToCart(session, "1"))
		_, err := svc.Checkout(session, &CheckoutRequest{
			Discount:      decimal.NewFromFloat(-1),
			PaymentMethod: model.PayPix,
		})
		assert.ErrorIs(t, err, ErrNegativeDiscount)
	})

	t.Run("unknown payment method", func(t *testing.T) {
		_, err := svc.Checkout(session, &CheckoutRequest{PaymentMethod: "barter"})
		assert.ErrorIs(t, err, ErrBadPayment)
	})

	t.Run("insufficient cash leaves no partial order", func(t *testing.T) {
		_, err := svc.Checkout(session, &CheckoutRequest{
			PaymentMethod: model.PayCash,
			AmountPaid:    decimal.NewFromFloat(10.00),
		})
		assert.ErrorIs(t, err, ErrInsufficientCash)
		assert.Empty(t, svc.Orders())
		// Cart survives a rejected checkout.
		assert.NotEmpty(t, svc.CartLines(session))
	})
}

func TestDiscountFloorsTotalAtZero(t *testing.T) {
	svc, _ := newTestOrderService(t, testProduct("5", 3.00))
	require.NoError(t, svc.AddToCart(session, "5"))

	order, err := svc.Checkout(session, &CheckoutRequest{
		Discount:      decimal.NewFromFloat(10.00),
		PaymentMethod: model.PayPix,
	})
	require.NoError(t, err)
	assert.True(t, order.Total.IsZero(), "total = %s", order.Total)
}

func TestOrderNumbersAreSequentialAndResetRestartsAtOne(t *testing.T) {
	svc, _ := newTestOrderService(t, testProduct("1", 18.00))

	checkout := func() *model.Order {
		require.NoError(t, svc.AddToCart(session, "1"))
		order, err := svc.Checkout(session, &CheckoutRequest{PaymentMethod: model.PayDebit})
		require.NoError(t, err)
		return order
	}

	assert.Equal(t, "1", checkout().OrderNumber)
	assert.Equal(t, "2", checkout().OrderNumber)

	svc.ResetDay("Manager")
	assert.Empty(t, svc.Orders())

	assert.Equal(t, "1", checkout().OrderNumber)
}

func TestTotalIsFrozenAgainstProductEdits(t *testing.T) {
	svc, repo := newTestOrderService(t, testProduct("1", 18.00))

	require.NoError(t, svc.AddToCart(session, "1"))
	_, err := svc.Checkout(session, &CheckoutRequest{PaymentMethod: model.PayCredit})
	require.NoError(t, err)

	// Price hike after the sale.
	hiked := testProduct("1", 99.00)
	require.NoError(t, repo.Update(&hiked))

	got := svc.Orders()
	require.Len(t, got, 1)
	assert.True(t, got[0].Total.Equal(decimal.NewFromFloat(18.00)))
	assert.True(t, got[0].Items[0].Price.Equal(decimal.NewFromFloat(18.00)))
}

func TestCancelIsOneWayAndSingleShot(t *testing.T) {
	svc, _ := newTestOrderService(t, testProduct("1", 18.00))

	require.NoError(t, svc.AddToCart(session, "1"))
	order, err := svc.Checkout(session, &CheckoutRequest{PaymentMethod: model.PayPix})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(order.ID, "Manager")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)
	// Cancellation leaves the kitchen axis alone.
	assert.Equal(t, model.KitchenPending, cancelled.KitchenStatus)

	_, err = svc.Cancel(order.ID, "Manager")
	assert.ErrorIs(t, err, ErrAlreadyCancelled)

	_, err = svc.Cancel("missing", "Manager")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestKitchenTransitionsAreReversible(t *testing.T) {
	svc, _ := newTestOrderService(t, testProduct("1", 18.00))

	require.NoError(t, svc.AddToCart(session, "1"))
	order, err := svc.Checkout(session, &CheckoutRequest{PaymentMethod: model.PayPix})
	require.NoError(t, err)
	before := svc.Orders()[0]

	done, err := svc.MarkKitchenDone(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.KitchenDone, done.KitchenStatus)

	_, err = svc.MarkKitchenDone(order.ID)
	assert.ErrorIs(t, err, ErrKitchenDone)

	back, err := svc.ReturnToPreparation(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.KitchenPending, back.KitchenStatus)

	_, err = svc.ReturnToPreparation(order.ID)
	assert.ErrorIs(t, err, ErrKitchenPending)

	// Round trip mutates nothing but the kitchen axis.
	after := svc.Orders()[0]
	assert.Equal(t, before, after)
}

func TestCancelledOrderCanBeAcknowledgedByKitchen(t *testing.T) {
	svc, _ := newTestOrderService(t, testProduct("1", 18.00))

	require.NoError(t, svc.AddToCart(session, "1"))
	order, err := svc.Checkout(session, &CheckoutRequest{PaymentMethod: model.PayPix})
	require.NoError(t, err)

	_, err = svc.Cancel(order.ID, "Manager")
	require.NoError(t, err)

	acked, err := svc.MarkKitchenDone(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, acked.Status)
	assert.Equal(t, model.KitchenDone, acked.KitchenStatus)
}

func TestAddToCartUnknownProduct(t *testing.T) {
	svc, _ := newTestOrderService(t)
	assert.ErrorIs(t, svc.AddToCart(session, "missing"), ErrProductNotFound)
}
