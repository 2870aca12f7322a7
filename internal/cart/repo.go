package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casamichael/shopping-backend/pkg/db/models"
)

// Repository persists per-user cart lines.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a cart repository bound to the provided DB.
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

// Create inserts a new cart line.
func (r *Repository) Create(ctx context.Context, line *models.CartLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

// FindByID loads one cart line with its product.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CartLine, error) {
	var line models.CartLine
	if err := r.db.WithContext(ctx).Preload("Product").First(&line, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

// ListByUser returns a user's cart lines with products and images, oldest
// first so checkout visits them in the order they were added.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Images").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// Update saves the mutable columns of a line.
func (r *Repository) Update(ctx context.Context, line *models.CartLine) error {
	return r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("id = ?", line.ID).
		Updates(map[string]any{
			"quantity": line.Quantity,
			"remarks":  line.Remarks,
		}).Error
}

// Delete removes one cart line.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CartLine{}, "id = ?", id).Error
}

// DeleteByUser clears every line a user has staged.
func (r *Repository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CartLine{}, "user_id = ?", userID).Error
}
