package products

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/casamichael/shopping-backend/pkg/config"
	"github.com/casamichael/shopping-backend/pkg/db/models"
	pkgerrors "github.com/casamichael/shopping-backend/pkg/errors"
	"github.com/casamichael/shopping-backend/pkg/migrate"
)

type memoryBlobStore struct {
	blobs map[uuid.UUID]string
}

func newMemoryBlobStore() *memoryBlobStore {
	return &memoryBlobStore{blobs: make(map[uuid.UUID]string)}
}

func (m *memoryBlobStore) Upload(ctx context.Context, prefix, contentType string, content io.Reader) (uuid.UUID, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return uuid.Nil, err
	}
	blobID := uuid.New()
	m.blobs[blobID] = string(data)
	return blobID, nil
}

func (m *memoryBlobStore) Delete(ctx context.Context, prefix string, blobID uuid.UUID) error {
	delete(m.blobs, blobID)
	return nil
}

func (m *memoryBlobStore) URL(prefix string, blobID uuid.UUID) string {
	return fmt.Sprintf("https://cdn.test/%s/%s", prefix, blobID)
}

type categoryRepo struct {
	db *gorm.DB
}

func (r categoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func setupProductsTest(t *testing.T) (*gorm.DB, Service, *memoryBlobStore) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(migrate.AllModels()...))

	blobs := newMemoryBlobStore()
	svc, err := NewService(NewRepository(conn), categoryRepo{db: conn}, blobs, config.GCSConfig{ProductsPrefix: "products"})
	require.NoError(t, err)
	return conn, svc, blobs
}

func TestCreateAndGetProduct(t *testing.T) {
	_, svc, _ := setupProductsTest(t)

	created, err := svc.Create(context.Background(), CreateRequest{
		Name:        "Adidas Barracuda",
		Description: "Classic runner",
		Price:       270000,
		Stock:       12,
	})
	require.NoError(t, err)
	assert.Equal(t, "Adidas Barracuda", created.Name)
	assert.Equal(t, 12.0, created.Stock)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestDuplicateProductNameConflicts(t *testing.T) {
	_, svc, _ := setupProductsTest(t)

	_, err := svc.Create(context.Background(), CreateRequest{Name: "IPad", Price: 700, Stock: 5})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateRequest{Name: "IPad", Price: 800, Stock: 1})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestUpdateProductFields(t *testing.T) {
	_, svc, _ := setupProductsTest(t)

	created, err := svc.Create(context.Background(), CreateRequest{Name: "AirPods", Price: 150, Stock: 3})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, UpdateRequest{
		Name:  "AirPods Pro",
		Price: 250,
		Stock: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, "AirPods Pro", updated.Name)
	assert.Equal(t, 250.0, updated.Price)
	assert.Equal(t, 7.0, updated.Stock)
}

func TestAddImageStoresBlobAndRow(t *testing.T) {
	_, svc, blobs := setupProductsTest(t)

	created, err := svc.Create(context.Background(), CreateRequest{Name: "IPhone 13", Price: 900, Stock: 4})
	require.NoError(t, err)

	image, err := svc.AddImage(context.Background(), created.ID, "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Len(t, blobs.blobs, 1)
	assert.Contains(t, image.URL, "https://cdn.test/products/")

	detail, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, detail.Images, 1)
	assert.Equal(t, image.ID, detail.Images[0].ID)
}

func TestRemoveImageDeletesBlob(t *testing.T) {
	_, svc, blobs := setupProductsTest(t)

	created, err := svc.Create(context.Background(), CreateRequest{Name: "Buso Adidas", Price: 90, Stock: 6})
	require.NoError(t, err)
	image, err := svc.AddImage(context.Background(), created.ID, "image/jpeg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)

	require.NoError(t, svc.RemoveImage(context.Background(), image.ID))
	assert.Empty(t, blobs.blobs)
}

func TestDeleteProductCleansUpBlobs(t *testing.T) {
	_, svc, blobs := setupProductsTest(t)

	created, err := svc.Create(context.Background(), CreateRequest{Name: "Superstar", Price: 120, Stock: 9})
	require.NoError(t, err)
	_, err = svc.AddImage(context.Background(), created.ID, "image/png", strings.NewReader("a"))
	require.NoError(t, err)
	_, err = svc.AddImage(context.Background(), created.ID, "image/png", strings.NewReader("b"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.Empty(t, blobs.blobs)

	_, err = svc.Get(context.Background(), created.ID)
	require.Error(t, err)
}

func TestCategoryMembership(t *testing.T) {
	conn, svc, _ := setupProductsTest(t)

	category := models.Category{ID: uuid.New(), Name: "Technology"}
	require.NoError(t, conn.Create(&category).Error)

	created, err := svc.Create(context.Background(), CreateRequest{Name: "Tablet", Price: 400, Stock: 3})
	require.NoError(t, err)

	detail, err := svc.AddCategory(context.Background(), created.ID, category.ID)
	require.NoError(t, err)
	require.Len(t, detail.Categories, 1)
	assert.Equal(t, "Technology", detail.Categories[0].Name)

	_, err = svc.AddCategory(context.Background(), created.ID, category.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	require.NoError(t, svc.RemoveCategory(context.Background(), detail.Categories[0].JoinID))

	after, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Empty(t, after.Categories)
}

func TestAddCategoryUnknownCategory(t *testing.T) {
	_, svc, _ := setupProductsTest(t)

	created, err := svc.Create(context.Background(), CreateRequest{Name: "Keyboard", Price: 80, Stock: 10})
	require.NoError(t, err)

	_, err = svc.AddCategory(context.Background(), created.ID, uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
