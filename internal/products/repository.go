package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casamichael/shopping-backend/pkg/db/models"
)

// Repository wires together product persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindDetailByID loads the product with images and category assignments.
func (r *Repository) FindDetailByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Images").
		Preload("ProductCategories").
		Preload("ProductCategories.Category").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListAll returns the full product set for the admin index.
func (r *Repository) ListAll(ctx context.Context) ([]models.Product, error) {
	var list []models.Product
	err := r.db.WithContext(ctx).
		Preload("Images").
		Preload("ProductCategories").
		Preload("ProductCategories.Category").
		Order("name ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// Update saves the product's scalar columns.
func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"name":        product.Name,
			"description": product.Description,
			"price":       product.Price,
			"stock":       product.Stock,
		}).Error
}

// Delete removes the product; images and category joins cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// AdjustStock shifts the stock column by delta. Negative delta spends
// stock at placement; positive delta restores it at cancellation.
func (r *Repository) AdjustStock(ctx context.Context, id uuid.UUID, delta float64) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", delta)).Error
}

// AddImage attaches a stored blob to the product.
func (r *Repository) AddImage(ctx context.Context, image *models.ProductImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

// FindImage loads one product image row.
func (r *Repository) FindImage(ctx context.Context, id uuid.UUID) (*models.ProductImage, error) {
	var image models.ProductImage
	if err := r.db.WithContext(ctx).First(&image, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

// DeleteImage removes one product image row.
func (r *Repository) DeleteImage(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.ProductImage{}, "id = ?", id).Error
}

// AddCategory joins the product to a category.
func (r *Repository) AddCategory(ctx context.Context, join *models.ProductCategory) error {
	return r.db.WithContext(ctx).Create(join).Error
}

// FindCategoryJoin loads one product/category join row.
func (r *Repository) FindCategoryJoin(ctx context.Context, id uuid.UUID) (*models.ProductCategory, error) {
	var join models.ProductCategory
	if err := r.db.WithContext(ctx).First(&join, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &join, nil
}

// DeleteCategoryJoin removes one product/category join row.
func (r *Repository) DeleteCategoryJoin(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.ProductCategory{}, "id = ?", id).Error
}
