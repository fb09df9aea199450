package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"go-pos-ws/internal/model"
)

// Cart accumulates line items for one session until checkout. Lines merge by
// product id; quantities never drop below 1 through AdjustQuantity (removal is
// explicit).
type Cart struct {
	mu    sync.Mutex
	lines []model.OrderItem
}

func New() *Cart {
	return &Cart{}
}

// AddItem merges the product into the cart: an existing line gains one unit,
// otherwise a new line with quantity 1 is appended.
func (c *Cart) AddItem(p model.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ID == p.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, model.OrderItem{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Category: p.Category,
		ImageURL: p.ImageURL,
		Quantity: 1,
	})
}

// AdjustQuantity applies a delta to a line's quantity, flooring at 1. Removing
// a line goes through RemoveItem. Unknown product ids are ignored.
func (c *Cart) AdjustQuantity(productID string, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ID == productID {
			q := c.lines[i].Quantity + delta
			if q < 1 {
				q = 1
			}
			c.lines[i].Quantity = q
			return
		}
	}
}

// RemoveItem deletes the line entirely, regardless of quantity.
func (c *Cart) RemoveItem(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart. Used after checkout or on explicit user action.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Subtotal sums price * quantity over all lines.
func (c *Cart) Subtotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

// Lines returns a copy of the current lines, in insertion order.
func (c *Cart) Lines() []model.OrderItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.OrderItem, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Registry hands each session its own cart. Carts are never shared between
// sessions; logout or checkout drops them.
type Registry struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewRegistry() *Registry {
	return &Registry{carts: make(map[string]*Cart)}
}

// Get returns the cart for a session, creating it on first use.
func (r *Registry) Get(sessionID string) *Cart {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[sessionID]
	if !ok {
		c = New()
		r.carts[sessionID] = c
	}
	return c
}

// Drop discards a session's cart.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, sessionID)
}
