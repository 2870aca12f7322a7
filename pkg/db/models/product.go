package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a sellable catalog entry. Stock is a quantity that only the
// order workflow mutates at sale time; the admin surface edits it directly.
type Product struct {
	ID                uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	Name              string            `gorm:"column:name;size:50;not null;uniqueIndex:uq_products_name"`
	Description       string            `gorm:"column:description;size:500;not null"`
	Price             float64           `gorm:"column:price;type:numeric(18,2);not null"`
	Stock             float64           `gorm:"column:stock;type:numeric(18,2);not null"`
	Images            []ProductImage    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	ProductCategories []ProductCategory `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductImage references a blob-storage object by its generated id.
type ProductImage struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	BlobID    uuid.UUID `gorm:"column:blob_id;type:uuid;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// ProductCategory joins products and categories.
type ProductCategory struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:uq_product_categories"`
	CategoryID uuid.UUID `gorm:"column:category_id;type:uuid;not null;uniqueIndex:uq_product_categories"`
	Category   *Category `gorm:"foreignKey:CategoryID"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
