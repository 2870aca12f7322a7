package auth

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/casamichael/shopping-backend/internal/users"
	"github.com/casamichael/shopping-backend/pkg/config"
	"github.com/casamichael/shopping-backend/pkg/db/models"
	"github.com/casamichael/shopping-backend/pkg/enums"
	pkgerrors "github.com/casamichael/shopping-backend/pkg/errors"
	"github.com/casamichael/shopping-backend/pkg/migrate"
	"github.com/casamichael/shopping-backend/pkg/security"
)

type stubCityFinder struct {
	db *gorm.DB
}

func (f stubCityFinder) FindCity(ctx context.Context, id uuid.UUID) (*models.City, error) {
	var city models.City
	if err := f.db.WithContext(ctx).First(&city, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &city, nil
}

type recordingSender struct {
	to      []string
	subject []string
}

func (s *recordingSender) Send(_ context.Context, to, subject, _ string) error {
	s.to = append(s.to, to)
	s.subject = append(s.subject, subject)
	return nil
}

type noopBlobStore struct{}

func (noopBlobStore) Upload(_ context.Context, _ string, _ string, _ io.Reader) (uuid.UUID, error) {
	return uuid.New(), nil
}

func (noopBlobStore) Delete(_ context.Context, _ string, _ uuid.UUID) error { return nil }

func (noopBlobStore) URL(_ string, blobID uuid.UUID) string { return "https://cdn.test/" + blobID.String() }

func setupAccountTest(t *testing.T) (*gorm.DB, *service, *recordingSender) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(migrate.AllModels()...))

	mail := &recordingSender{}
	svc := &service{
		repo:    users.NewRepository(conn),
		cities:  stubCityFinder{db: conn},
		mail:    mail,
		blobs:   noopBlobStore{},
		passCfg: config.PasswordConfig{ArgonMemoryKB: 32768, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32},
		mailCfg: config.MailConfig{FrontendBase: "https://shop.test"},
	}
	return conn, svc, mail
}

func adminCreateRequest(email, userType string) AdminCreateUserRequest {
	return AdminCreateUserRequest{
		Email:       email,
		Password:    "Sup3rSecret!",
		Document:    "1020",
		FirstName:   "Raven",
		LastName:    "Reyes",
		Address:     "Calle Luna Calle Sol",
		PhoneNumber: "3002217720",
		UserType:    userType,
	}
}

func TestAdminCreateUserWithAdminRole(t *testing.T) {
	conn, svc, mail := setupAccountTest(t)

	profile, err := svc.AdminCreateUser(context.Background(), adminCreateRequest("Raven@Shop.Test", "admin"))
	require.NoError(t, err)

	assert.Equal(t, "raven@shop.test", profile.Email)
	assert.Equal(t, enums.UserTypeAdmin.String(), profile.UserType)
	assert.False(t, profile.EmailConfirmed)

	var stored models.User
	require.NoError(t, conn.First(&stored, "email = ?", "raven@shop.test").Error)
	assert.Equal(t, enums.UserTypeAdmin, stored.UserType)

	ok, err := security.VerifyPassword("Sup3rSecret!", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	require.Len(t, mail.to, 1)
	assert.Equal(t, "raven@shop.test", mail.to[0])
	assert.Equal(t, "Confirm your email", mail.subject[0])
}

func TestAdminCreateUserRejectsUnknownRole(t *testing.T) {
	_, svc, mail := setupAccountTest(t)

	_, err := svc.AdminCreateUser(context.Background(), adminCreateRequest("raven@shop.test", "root"))
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
	assert.Empty(t, mail.to)
}

func TestAdminCreateUserDuplicateEmailConflicts(t *testing.T) {
	_, svc, _ := setupAccountTest(t)

	_, err := svc.AdminCreateUser(context.Background(), adminCreateRequest("raven@shop.test", "user"))
	require.NoError(t, err)

	_, err = svc.AdminCreateUser(context.Background(), adminCreateRequest("raven@shop.test", "admin"))
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeConflict))
}

func TestAdminCreateUserUnknownCity(t *testing.T) {
	_, svc, _ := setupAccountTest(t)

	req := adminCreateRequest("raven@shop.test", "user")
	missing := uuid.New()
	req.CityID = &missing

	_, err := svc.AdminCreateUser(context.Background(), req)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}
