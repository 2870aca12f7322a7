package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/casamichael/shopping-backend/pkg/enums"
)

// User is a storefront customer or administrator.
type User struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Email          string         `gorm:"column:email;size:255;not null;uniqueIndex:uq_users_email"`
	PasswordHash   string         `gorm:"column:password_hash;not null"`
	Document       string         `gorm:"column:document;size:20;not null"`
	FirstName      string         `gorm:"column:first_name;size:50;not null"`
	LastName       string         `gorm:"column:last_name;size:50;not null"`
	Address        string         `gorm:"column:address;size:200;not null"`
	PhoneNumber    string         `gorm:"column:phone_number;size:20;not null"`
	CityID         *uuid.UUID     `gorm:"column:city_id;type:uuid"`
	City           *City          `gorm:"foreignKey:CityID"`
	ImageBlobID    *uuid.UUID     `gorm:"column:image_blob_id;type:uuid"`
	UserType       enums.UserType `gorm:"column:user_type;size:10;not null"`
	EmailConfirmed bool           `gorm:"column:email_confirmed;not null;default:false"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// FullName is the display name used across order and admin reads.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UserToken backs email confirmation and password recovery links.
type UserToken struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:idx_user_tokens_user"`
	Purpose   string    `gorm:"column:purpose;size:20;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	UsedAt    *time.Time `gorm:"column:used_at"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
