package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/casamichael/shopping-backend/pkg/db/models"
	"github.com/casamichael/shopping-backend/pkg/enums"
	"github.com/casamichael/shopping-backend/pkg/migrate"
)

func setupUsersTest(t *testing.T) *Repository {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(migrate.AllModels()...))
	return NewRepository(conn)
}

func createUser(t *testing.T, repo *Repository, email string) models.User {
	t.Helper()

	user := models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		UserType:     enums.UserTypeUser,
	}
	require.NoError(t, repo.Create(context.Background(), &user))
	return user
}

func TestFindByEmailIsCaseInsensitive(t *testing.T) {
	repo := setupUsersTest(t)
	created := createUser(t, repo, "ada@shopping.local")

	found, err := repo.FindByEmail(context.Background(), "  ADA@Shopping.Local ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestMarkEmailConfirmed(t *testing.T) {
	repo := setupUsersTest(t)
	created := createUser(t, repo, "bob@shopping.local")
	assert.False(t, created.EmailConfirmed)

	require.NoError(t, repo.MarkEmailConfirmed(context.Background(), created.ID))

	found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, found.EmailConfirmed)
}

func TestConsumeTokenOnlyOnce(t *testing.T) {
	repo := setupUsersTest(t)
	user := createUser(t, repo, "carol@shopping.local")

	token := models.UserToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Purpose:   "email_confirm",
		ExpiresAt: time.Now().UTC().Add(48 * time.Hour),
	}
	require.NoError(t, repo.CreateToken(context.Background(), &token))

	firstUse := time.Now().UTC()
	require.NoError(t, repo.ConsumeToken(context.Background(), token.ID, firstUse))

	consumed, err := repo.FindToken(context.Background(), token.ID)
	require.NoError(t, err)
	require.NotNil(t, consumed.UsedAt)

	// a replay does not move the used_at stamp
	require.NoError(t, repo.ConsumeToken(context.Background(), token.ID, firstUse.Add(time.Hour)))
	again, err := repo.FindToken(context.Background(), token.ID)
	require.NoError(t, err)
	require.NotNil(t, again.UsedAt)
	assert.WithinDuration(t, *consumed.UsedAt, *again.UsedAt, time.Second)
}

func TestUpdatePasswordHash(t *testing.T) {
	repo := setupUsersTest(t)
	user := createUser(t, repo, "dave@shopping.local")

	require.NoError(t, repo.UpdatePasswordHash(context.Background(), user.ID, "new-hash"))

	found, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", found.PasswordHash)
}
