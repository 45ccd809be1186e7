package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"order_id"`
	// Omitting Order field from JSON to avoid recursive nesting
	Order *Order `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	// DishID is nullable: deleting a dish keeps historical items alive
	// with the price they were sold at.
	DishID   *uint `gorm:"index" json:"dish_id"`
	Dish     *Dish `gorm:"foreignKey:DishID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"dish,omitempty"`
	Quantity int   `gorm:"not null" json:"quantity"`
	// Price is snapshotted from the dish when the item is created and is
	// never recomputed from the catalog afterwards.
	Price     Amount    `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (i *OrderItem) TotalPrice() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
