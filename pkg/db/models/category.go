package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups catalog products. Products attach through ProductCategory.
type Category struct {
	ID                uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	Name              string            `gorm:"column:name;size:50;not null;uniqueIndex:uq_categories_name"`
	ProductCategories []ProductCategory `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
