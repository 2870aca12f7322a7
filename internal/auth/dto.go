package auth

import (
	"github.com/google/uuid"

	"github.com/casamichael/shopping-backend/pkg/db/models"
)

// RegisterRequest creates a new customer account.
type RegisterRequest struct {
	Email       string     `json:"email" validate:"required,email,max=255"`
	Password    string     `json:"password" validate:"required,min=8,max=72"`
	Document    string     `json:"document" validate:"required,max=20"`
	FirstName   string     `json:"first_name" validate:"required,max=50"`
	LastName    string     `json:"last_name" validate:"required,max=50"`
	Address     string     `json:"address" validate:"required,max=200"`
	PhoneNumber string     `json:"phone_number" validate:"required,max=20"`
	CityID      *uuid.UUID `json:"city_id" validate:"omitempty"`
}

// AdminCreateUserRequest creates an account from the back office; unlike
// self-registration the caller picks the role.
type AdminCreateUserRequest struct {
	Email       string     `json:"email" validate:"required,email,max=255"`
	Password    string     `json:"password" validate:"required,min=8,max=72"`
	Document    string     `json:"document" validate:"required,max=20"`
	FirstName   string     `json:"first_name" validate:"required,max=50"`
	LastName    string     `json:"last_name" validate:"required,max=50"`
	Address     string     `json:"address" validate:"required,max=200"`
	PhoneNumber string     `json:"phone_number" validate:"required,max=20"`
	CityID      *uuid.UUID `json:"city_id" validate:"omitempty"`
	UserType    string     `json:"user_type" validate:"required,oneof=admin user"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UpdateProfileRequest replaces the editable profile fields.
type UpdateProfileRequest struct {
	Document    string     `json:"document" validate:"required,max=20"`
	FirstName   string     `json:"first_name" validate:"required,max=50"`
	LastName    string     `json:"last_name" validate:"required,max=50"`
	Address     string     `json:"address" validate:"required,max=200"`
	PhoneNumber string     `json:"phone_number" validate:"required,max=20"`
	CityID      *uuid.UUID `json:"city_id" validate:"omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

type RecoverPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       uuid.UUID `json:"token" validate:"required"`
	NewPassword string    `json:"new_password" validate:"required,min=8,max=72"`
}

type ConfirmEmailRequest struct {
	Token uuid.UUID `json:"token" validate:"required"`
}

// TokenPairDTO is the login and refresh response.
type TokenPairDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ProfileDTO is the account as returned to its owner or an admin.
type ProfileDTO struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	Document       string     `json:"document"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	FullName       string     `json:"full_name"`
	Address        string     `json:"address"`
	PhoneNumber    string     `json:"phone_number"`
	CityID         *uuid.UUID `json:"city_id,omitempty"`
	CityName       string     `json:"city_name,omitempty"`
	PhotoURL       string     `json:"photo_url,omitempty"`
	UserType       string     `json:"user_type"`
	EmailConfirmed bool       `json:"email_confirmed"`
}

func (s *service) toProfile(user models.User) ProfileDTO {
	dto := ProfileDTO{
		ID:             user.ID,
		Email:          user.Email,
		Document:       user.Document,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		FullName:       user.FullName(),
		Address:        user.Address,
		PhoneNumber:    user.PhoneNumber,
		CityID:         user.CityID,
		UserType:       user.UserType.String(),
		EmailConfirmed: user.EmailConfirmed,
	}
	if user.City != nil {
		dto.CityName = user.City.Name
	}
	if user.ImageBlobID != nil {
		dto.PhotoURL = s.blobs.URL(s.gcsCfg.UsersPrefix, *user.ImageBlobID)
	}
	return dto
}
