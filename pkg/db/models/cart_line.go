package models

import (
	"time"

	"github.com/google/uuid"
)

// CartLine is a pending product selection for one user. Lines are staged
// until checkout converts them into an order, or the user removes them.
type CartLine struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:idx_cart_lines_user"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Product   *Product  `gorm:"foreignKey:ProductID"`
	Quantity  float64   `gorm:"column:quantity;type:numeric(18,2);not null"`
	Remarks   *string   `gorm:"column:remarks;size:500"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
