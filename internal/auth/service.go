package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casamichael/shopping-backend/internal/users"
	pkgauth "github.com/casamichael/shopping-backend/pkg/auth"
	"github.com/casamichael/shopping-backend/pkg/auth/session"
	"github.com/casamichael/shopping-backend/pkg/config"
	"github.com/casamichael/shopping-backend/pkg/db"
	"github.com/casamichael/shopping-backend/pkg/db/models"
	"github.com/casamichael/shopping-backend/pkg/enums"
	pkgerrors "github.com/casamichael/shopping-backend/pkg/errors"
	"github.com/casamichael/shopping-backend/pkg/mailer"
	"github.com/casamichael/shopping-backend/pkg/security"
)

const (
	tokenPurposeConfirmEmail  = "email_confirm"
	tokenPurposePasswordReset = "password_reset"

	confirmTokenTTL = 48 * time.Hour
	resetTokenTTL   = 2 * time.Hour
)

// BlobStore is the slice of object storage used for profile photos.
type BlobStore interface {
	Upload(ctx context.Context, prefix, contentType string, content io.Reader) (uuid.UUID, error)
	Delete(ctx context.Context, prefix string, blobID uuid.UUID) error
	URL(prefix string, blobID uuid.UUID) string
}

// Service handles account lifecycle and sessions: registration with email
// confirmation, login issuing a JWT plus refresh session, profile and
// password management, and password recovery by mailed token.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*ProfileDTO, error)
	ConfirmEmail(ctx context.Context, tokenID uuid.UUID) error
	Login(ctx context.Context, req LoginRequest) (*TokenPairDTO, error)
	Refresh(ctx context.Context, claims *pkgauth.AccessTokenClaims, refreshToken string) (*TokenPairDTO, error)
	Logout(ctx context.Context, accessID string) error

	Profile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*ProfileDTO, error)
	UploadPhoto(ctx context.Context, userID uuid.UUID, contentType string, content io.Reader) (*ProfileDTO, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error

	RecoverPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, tokenID uuid.UUID, newPassword string) error

	ListUsers(ctx context.Context) ([]ProfileDTO, error)
	AdminCreateUser(ctx context.Context, req AdminCreateUserRequest) (*ProfileDTO, error)
}

type cityFinder interface {
	FindCity(ctx context.Context, id uuid.UUID) (*models.City, error)
}

type service struct {
	repo     *users.Repository
	sessions *session.Manager
	cities   cityFinder
	mail     mailer.Sender
	blobs    BlobStore
	jwtCfg   config.JWTConfig
	passCfg  config.PasswordConfig
	gcsCfg   config.GCSConfig
	mailCfg  config.MailConfig
}

func NewService(
	repo *users.Repository,
	sessions *session.Manager,
	cities cityFinder,
	mail mailer.Sender,
	blobs BlobStore,
	jwtCfg config.JWTConfig,
	passCfg config.PasswordConfig,
	gcsCfg config.GCSConfig,
	mailCfg config.MailConfig,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	if cities == nil {
		return nil, fmt.Errorf("city finder required")
	}
	if mail == nil {
		return nil, fmt.Errorf("mail sender required")
	}
	if blobs == nil {
		return nil, fmt.Errorf("blob store required")
	}
	return &service{
		repo:     repo,
		sessions: sessions,
		cities:   cities,
		mail:     mail,
		blobs:    blobs,
		jwtCfg:   jwtCfg,
		passCfg:  passCfg,
		gcsCfg:   gcsCfg,
		mailCfg:  mailCfg,
	}, nil
}

// Register creates an unconfirmed account and mails the confirmation
// link. Login is refused until the link is followed.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*ProfileDTO, error) {
	if req.CityID != nil {
		if _, err := s.cities.FindCity(ctx, *req.CityID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "city not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading city")
		}
	}

	hash, err := security.HashPassword(req.Password, s.passCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Document:     req.Document,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Address:      req.Address,
		PhoneNumber:  req.PhoneNumber,
		CityID:       req.CityID,
		UserType:     enums.UserTypeUser,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an account with that email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating account")
	}

	if err := s.issueToken(ctx, user, tokenPurposeConfirmEmail); err != nil {
		return nil, err
	}

	return s.Profile(ctx, user.ID)
}

// ConfirmEmail redeems a confirmation token. Expired or already-used
// tokens are rejected without touching the account.
func (s *service) ConfirmEmail(ctx context.Context, tokenID uuid.UUID) error {
	token, err := s.redeemToken(ctx, tokenID, tokenPurposeConfirmEmail)
	if err != nil {
		return err
	}
	if err := s.repo.MarkEmailConfirmed(ctx, token.UserID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "confirming email")
	}
	return nil
}

// Login checks credentials and issues an access token plus a refresh
// session. Bad email and bad password report identically.
func (s *service) Login(ctx context.Context, req LoginRequest) (*TokenPairDTO, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading account")
	}

	ok, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}
	if !user.EmailConfirmed {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "email address not confirmed")
	}

	return s.issueSession(ctx, user)
}

// Refresh rotates the refresh session tied to the caller's access token
// and mints a fresh pair.
func (s *service) Refresh(ctx context.Context, claims *pkgauth.AccessTokenClaims, refreshToken string) (*TokenPairDTO, error) {
	if claims == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing access token")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rotating session")
	}

	access, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID:   claims.UserID,
		UserType: claims.UserType,
		JTI:      newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	return &TokenPairDTO{AccessToken: access, RefreshToken: newRefresh}, nil
}

// Logout revokes the refresh session for the given access id.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoking session")
	}
	return nil
}

func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := s.toProfile(*user)
	return &dto, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*ProfileDTO, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.CityID != nil {
		if _, err := s.cities.FindCity(ctx, *req.CityID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "city not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading city")
		}
	}

	user.Document = req.Document
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Address = req.Address
	user.PhoneNumber = req.PhoneNumber
	user.CityID = req.CityID

	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating profile")
	}
	return s.Profile(ctx, userID)
}

// UploadPhoto replaces the profile photo; the previous blob is removed
// best effort after the row points at the new one.
func (s *service) UploadPhoto(ctx context.Context, userID uuid.UUID, contentType string, content io.Reader) (*ProfileDTO, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	blobID, err := s.blobs.Upload(ctx, s.gcsCfg.UsersPrefix, contentType, content)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "uploading photo")
	}

	previous := user.ImageBlobID
	user.ImageBlobID = &blobID
	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		_ = s.blobs.Delete(ctx, s.gcsCfg.UsersPrefix, blobID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving photo")
	}
	if previous != nil {
		_ = s.blobs.Delete(ctx, s.gcsCfg.UsersPrefix, *previous)
	}

	return s.Profile(ctx, userID)
}

func (s *service) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := security.VerifyPassword(req.CurrentPassword, user.PasswordHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "current password is incorrect")
	}

	hash, err := security.HashPassword(req.NewPassword, s.passCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}
	if err := s.repo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "changing password")
	}
	return nil
}

// RecoverPassword mails a reset link. Unknown emails are swallowed so
// the endpoint does not reveal which addresses exist.
func (s *service) RecoverPassword(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading account")
	}
	return s.issueToken(ctx, user, tokenPurposePasswordReset)
}

func (s *service) ResetPassword(ctx context.Context, tokenID uuid.UUID, newPassword string) error {
	token, err := s.redeemToken(ctx, tokenID, tokenPurposePasswordReset)
	if err != nil {
		return err
	}

	hash, err := security.HashPassword(newPassword, s.passCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}
	if err := s.repo.UpdatePasswordHash(ctx, token.UserID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resetting password")
	}
	return nil
}

func (s *service) ListUsers(ctx context.Context) ([]ProfileDTO, error) {
	list, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing users")
	}
	out := make([]ProfileDTO, 0, len(list))
	for _, user := range list {
		out = append(out, s.toProfile(user))
	}
	return out, nil
}

// AdminCreateUser provisions an account with the requested role. The
// new user still confirms their address by mailed link before they can
// log in.
func (s *service) AdminCreateUser(ctx context.Context, req AdminCreateUserRequest) (*ProfileDTO, error) {
	userType, err := enums.ParseUserType(req.UserType)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user type must be admin or user")
	}

	if req.CityID != nil {
		if _, err := s.cities.FindCity(ctx, *req.CityID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "city not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading city")
		}
	}

	hash, err := security.HashPassword(req.Password, s.passCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Document:     req.Document,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Address:      req.Address,
		PhoneNumber:  req.PhoneNumber,
		CityID:       req.CityID,
		UserType:     userType,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an account with that email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating account")
	}

	if err := s.issueToken(ctx, user, tokenPurposeConfirmEmail); err != nil {
		return nil, err
	}

	return s.Profile(ctx, user.ID)
}

func (s *service) issueSession(ctx context.Context, user *models.User) (*TokenPairDTO, error) {
	accessID := session.NewAccessID()
	refresh, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating session")
	}

	access, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID:   user.ID,
		UserType: user.UserType,
		JTI:      accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	return &TokenPairDTO{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *service) issueToken(ctx context.Context, user *models.User, purpose string) error {
	ttl := confirmTokenTTL
	if purpose == tokenPurposePasswordReset {
		ttl = resetTokenTTL
	}

	token := &models.UserToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Purpose:   purpose,
		ExpiresAt: time.Now().UTC().Add(ttl),
	}
	if err := s.repo.CreateToken(ctx, token); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating token")
	}

	subject, body := s.composeMail(user, purpose, token.ID)
	if err := s.mail.Send(ctx, user.Email, subject, body); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sending email")
	}
	return nil
}

func (s *service) composeMail(user *models.User, purpose string, tokenID uuid.UUID) (string, string) {
	switch purpose {
	case tokenPurposePasswordReset:
		link := fmt.Sprintf("%s/reset-password?token=%s", s.mailCfg.FrontendBase, tokenID)
		return "Reset your password", fmt.Sprintf(
			"<p>Hello %s,</p><p>Follow <a href=%q>this link</a> to choose a new password. The link expires in %d hours.</p>",
			user.FirstName, link, int(resetTokenTTL.Hours()),
		)
	default:
		link := fmt.Sprintf("%s/confirm-email?token=%s", s.mailCfg.FrontendBase, tokenID)
		return "Confirm your email", fmt.Sprintf(
			"<p>Hello %s,</p><p>Follow <a href=%q>this link</a> to activate your account.</p>",
			user.FirstName, link,
		)
	}
}

func (s *service) redeemToken(ctx context.Context, tokenID uuid.UUID, purpose string) (*models.UserToken, error) {
	token, err := s.repo.FindToken(ctx, tokenID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "token not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading token")
	}
	if token.Purpose != purpose {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "token not valid for this operation")
	}
	if token.UsedAt != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "token already used")
	}
	if time.Now().UTC().After(token.ExpiresAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "token expired")
	}
	if err := s.repo.ConsumeToken(ctx, tokenID, time.Now().UTC()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "consuming token")
	}
	return token, nil
}

func (s *service) loadUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}
	return user, nil
}
