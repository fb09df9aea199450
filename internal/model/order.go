package model

import (
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

type KitchenStatus string

const (
	KitchenPending KitchenStatus = "pending"
	KitchenDone    KitchenStatus = "done"
)

type PaymentMethod string

const (
	PayCredit PaymentMethod = "credit"
	PayDebit  PaymentMethod = "debit"
	PayCash   PaymentMethod = "cash"
	PayPix    PaymentMethod = "pix"
)

// ValidPaymentMethod reports whether m is one of the four accepted methods.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PayCredit, PayDebit, PayCash, PayPix:
		return true
	}
	return false
}

// OrderItem is a cart line frozen at sale time. Price and name are snapshots;
// later product edits never touch committed orders.
type OrderItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	ImageURL string          `json:"image_url"`
	Quantity int             `json:"quantity"`
}

// Order is a committed sale. Status and KitchenStatus are independent axes:
// a cancelled order still carries its kitchen state so staff can acknowledge
// the cancellation instead of it vanishing from the board.
type Order struct {
	ID            string          `gorm:"type:varchar(64);primaryKey" json:"id"`
	OrderNumber   string          `gorm:"type:varchar(10);not null;index" json:"order_number"`
	Timestamp     int64           `gorm:"not null;index" json:"timestamp"` // epoch ms
	Items         []OrderItem     `gorm:"type:jsonb;serializer:json" json:"items"`
	Subtotal      decimal.Decimal `gorm:"type:numeric(12,2)" json:"subtotal"`
	Discount      decimal.Decimal `gorm:"type:numeric(12,2)" json:"discount"`
	Total         decimal.Decimal `gorm:"type:numeric(12,2)" json:"total"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(10);not null" json:"payment_method"`
	AmountPaid    decimal.Decimal `gorm:"type:numeric(12,2)" json:"amount_paid,omitempty"`
	Change        decimal.Decimal `gorm:"type:numeric(12,2)" json:"change,omitempty"`
	SellerName    string          `gorm:"type:varchar(255)" json:"seller_name,omitempty"`
	Status        OrderStatus     `gorm:"type:varchar(10);not null" json:"status"`
	KitchenStatus KitchenStatus   `gorm:"type:varchar(10);not null" json:"kitchen_status"`
}

// TableName keeps the table name the clients already subscribe to.
func (Order) TableName() string { return "transactions" }
