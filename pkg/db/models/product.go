package models

import "time"

// Product is a catalog listing. Stock is the only field mutated after seeding,
// and only by checkout.
type Product struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string    `gorm:"column:name;not null;uniqueIndex"`
	PriceCents  int64     `gorm:"column:price_cents;not null"`
	Category    string    `gorm:"column:category;not null"`
	Image       string    `gorm:"column:image"`
	Description string    `gorm:"column:description"`
	Stock       int       `gorm:"column:stock;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
