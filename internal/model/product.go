package model

import "github.com/shopspring/decimal"

// Product is seeded reference data for the menu grid. Orders snapshot the
// fields they need, so editing a product never rewrites history.
type Product struct {
	ID       string          `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name     string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Price    decimal.Decimal `gorm:"type:numeric(12,2)" json:"price"`
	Category string          `gorm:"type:varchar(100)" json:"category"`
	ImageURL string          `gorm:"type:text" json:"image_url"`
}

func (Product) TableName() string { return "products" }

// DefaultProducts is the event menu seeded on first boot.
var DefaultProducts = []Product{
	{ID: "1", Name: "Combo (Classic Basket + Soda)", Price: decimal.NewFromFloat(18.00), Category: "Combos", ImageURL: "/img/combo.png"},
	{ID: "2", Name: "Classic Basket 150g + Sauce", Price: decimal.NewFromFloat(15.00), Category: "Baskets", ImageURL: "/img/classic.png"},
	{ID: "3", Name: "Junior Basket 100g", Price: decimal.NewFromFloat(10.00), Category: "Baskets", ImageURL: "/img/junior.png"},
	{ID: "4", Name: "Soda Can 350ml", Price: decimal.NewFromFloat(5.00), Category: "Drinks", ImageURL: "/img/soda.png"},
	{ID: "5", Name: "Mineral Water 500ml", Price: decimal.NewFromFloat(3.00), Category: "Drinks", ImageURL: "/img/water.png"},
}
