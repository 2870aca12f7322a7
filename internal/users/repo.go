package users

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casamichael/shopping-backend/pkg/db/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("City").
		First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail matches case-insensitively; emails are stored lowercased
// but lookups normalize anyway.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("City").
		First(&user, "LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) ListAll(ctx context.Context) ([]models.User, error) {
	var list []models.User
	err := r.db.WithContext(ctx).
		Preload("City").
		Order("last_name ASC, first_name ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateProfile saves the user's editable profile columns.
func (r *Repository) UpdateProfile(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"document":      user.Document,
			"first_name":    user.FirstName,
			"last_name":     user.LastName,
			"address":       user.Address,
			"phone_number":  user.PhoneNumber,
			"city_id":       user.CityID,
			"image_blob_id": user.ImageBlobID,
		}).Error
}

func (r *Repository) UpdatePasswordHash(ctx context.Context, userID uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("password_hash", hash).Error
}

func (r *Repository) MarkEmailConfirmed(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("email_confirmed", true).Error
}

func (r *Repository) CreateToken(ctx context.Context, token *models.UserToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *Repository) FindToken(ctx context.Context, id uuid.UUID) (*models.UserToken, error) {
	var token models.UserToken
	if err := r.db.WithContext(ctx).First(&token, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// ConsumeToken stamps the token used. Already-used tokens are left alone
// so the caller can distinguish replay.
func (r *Repository) ConsumeToken(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.UserToken{}).
		Where("id = ? AND used_at IS NULL", id).
		Update("used_at", at).Error
}
