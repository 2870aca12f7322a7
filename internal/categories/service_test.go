package categories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/casamichael/shopping-backend/pkg/db/models"
	pkgerrors "github.com/casamichael/shopping-backend/pkg/errors"
	"github.com/casamichael/shopping-backend/pkg/migrate"
)

func setupCategoriesTest(t *testing.T) (*gorm.DB, Service) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(migrate.AllModels()...))

	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)
	return conn, svc
}

func TestCreateAndListCategories(t *testing.T) {
	_, svc := setupCategoriesTest(t)

	created, err := svc.Create(context.Background(), UpsertRequest{Name: "Shoes"})
	require.NoError(t, err)
	assert.Equal(t, "Shoes", created.Name)

	_, err = svc.Create(context.Background(), UpsertRequest{Name: "Books"})
	require.NoError(t, err)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestDuplicateCategoryNameConflicts(t *testing.T) {
	_, svc := setupCategoriesTest(t)

	_, err := svc.Create(context.Background(), UpsertRequest{Name: "Shoes"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), UpsertRequest{Name: "Shoes"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestRenameCategory(t *testing.T) {
	_, svc := setupCategoriesTest(t)

	created, err := svc.Create(context.Background(), UpsertRequest{Name: "Tecnology"})
	require.NoError(t, err)

	renamed, err := svc.Update(context.Background(), created.ID, UpsertRequest{Name: "Technology"})
	require.NoError(t, err)
	assert.Equal(t, "Technology", renamed.Name)
}

func TestCategoryProductCount(t *testing.T) {
	conn, svc := setupCategoriesTest(t)

	created, err := svc.Create(context.Background(), UpsertRequest{Name: "Gamer"})
	require.NoError(t, err)

	product := models.Product{ID: uuid.New(), Name: "Console", Price: 500, Stock: 2}
	require.NoError(t, conn.Create(&product).Error)
	join := models.ProductCategory{ID: uuid.New(), ProductID: product.ID, CategoryID: created.ID}
	require.NoError(t, conn.Create(&join).Error)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ProductCount)
}

func TestDeleteCategoryKeepsProducts(t *testing.T) {
	conn, svc := setupCategoriesTest(t)

	created, err := svc.Create(context.Background(), UpsertRequest{Name: "Pets"})
	require.NoError(t, err)

	product := models.Product{ID: uuid.New(), Name: "Leash", Price: 12, Stock: 9}
	require.NoError(t, conn.Create(&product).Error)
	join := models.ProductCategory{ID: uuid.New(), ProductID: product.ID, CategoryID: created.ID}
	require.NoError(t, conn.Create(&join).Error)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	_, err = svc.Get(context.Background(), created.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	var count int64
	require.NoError(t, conn.Model(&models.Product{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
