package models

import (
	"time"

	"github.com/greenmarket/greenmarket-backend/pkg/enums"
)

// Order is the persisted record of a completed purchase transaction.
type Order struct {
	ID            int64             `gorm:"column:id;primaryKey;autoIncrement"`
	TotalCents    int64             `gorm:"column:total_cents;not null"`
	PaymentMethod string            `gorm:"column:payment_method;not null"`
	Status        enums.OrderStatus `gorm:"column:status;not null;default:pending"`
	Items         []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
