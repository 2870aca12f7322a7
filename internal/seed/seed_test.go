package seed

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/casamichael/shopping-backend/pkg/config"
	"github.com/casamichael/shopping-backend/pkg/db/models"
	"github.com/casamichael/shopping-backend/pkg/enums"
	"github.com/casamichael/shopping-backend/pkg/logger"
	"github.com/casamichael/shopping-backend/pkg/migrate"
	"github.com/casamichael/shopping-backend/pkg/security"
)

func setupSeeder(t *testing.T) (*gorm.DB, *Seeder) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(migrate.AllModels()...))

	logg := logger.New(logger.Options{ServiceName: "seed-test", Output: io.Discard})
	passCfg := config.PasswordConfig{ArgonMemoryKB: 32768, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32}

	seeder, err := New(conn, passCfg, logg)
	require.NoError(t, err)
	return conn, seeder
}

func TestRunPopulatesEmptyDatabase(t *testing.T) {
	conn, seeder := setupSeeder(t)

	require.NoError(t, seeder.Run(context.Background()))

	var countries, categories, users, productCount int64
	require.NoError(t, conn.Model(&models.Country{}).Count(&countries).Error)
	require.NoError(t, conn.Model(&models.Category{}).Count(&categories).Error)
	require.NoError(t, conn.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, conn.Model(&models.Product{}).Count(&productCount).Error)

	assert.EqualValues(t, 2, countries)
	assert.EqualValues(t, 10, categories)
	assert.EqualValues(t, 2, users)
	assert.EqualValues(t, 6, productCount)
}

func TestRunSeedsConfirmedAdminAccount(t *testing.T) {
	conn, seeder := setupSeeder(t)

	require.NoError(t, seeder.Run(context.Background()))

	var admin models.User
	require.NoError(t, conn.First(&admin, "email = ?", "admin@shopping.local").Error)
	assert.Equal(t, enums.UserTypeAdmin, admin.UserType)
	assert.True(t, admin.EmailConfirmed)

	ok, err := security.VerifyPassword("Admin123!", admin.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRunIsIdempotent(t *testing.T) {
	conn, seeder := setupSeeder(t)

	require.NoError(t, seeder.Run(context.Background()))
	require.NoError(t, seeder.Run(context.Background()))

	var users, productCount int64
	require.NoError(t, conn.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, conn.Model(&models.Product{}).Count(&productCount).Error)
	assert.EqualValues(t, 2, users)
	assert.EqualValues(t, 6, productCount)
}
