package models

import "time"

// OrderItem is a single purchased line. UnitPriceCents is captured at checkout
// time so later catalog price changes never rewrite order history.
type OrderItem struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID        int64     `gorm:"column:order_id;not null"`
	ProductID      int64     `gorm:"column:product_id;not null"`
	Qty            int       `gorm:"column:qty;not null"`
	UnitPriceCents int64     `gorm:"column:unit_price_cents;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
