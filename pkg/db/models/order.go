package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/casamichael/shopping-backend/pkg/enums"
)

// Order is a placed sale. The creation timestamp is immutable; status is
// the only field mutated after creation.
type Order struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index:idx_orders_user"`
	User      *User             `gorm:"foreignKey:UserID"`
	Date      time.Time         `gorm:"column:date;not null"`
	Remarks   *string           `gorm:"column:remarks;size:500"`
	Status    enums.OrderStatus `gorm:"column:status;size:20;not null"`
	Lines     []OrderLine       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderLine records one product within an order. The product is held by
// reference, not snapshot: line value is always quantity times the
// product's current price.
type OrderLine struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"column:order_id;type:uuid;not null"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Product   *Product  `gorm:"foreignKey:ProductID"`
	Quantity  float64   `gorm:"column:quantity;type:numeric(18,2);not null"`
	Remarks   *string   `gorm:"column:remarks;size:500"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// Value derives the line total from the product's current price.
func (l OrderLine) Value() float64 {
	if l.Product == nil {
		return 0
	}
	return l.Quantity * l.Product.Price
}
