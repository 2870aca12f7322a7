package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/casamichael/shopping-backend/pkg/config"
	"github.com/casamichael/shopping-backend/pkg/db/models"
	"github.com/casamichael/shopping-backend/pkg/migrate"
	"github.com/casamichael/shopping-backend/pkg/pagination"
)

type stubResolver struct{}

func (stubResolver) URL(prefix string, blobID uuid.UUID) string {
	return fmt.Sprintf("https://cdn.test/%s/%s", prefix, blobID)
}

func setupCatalogTest(t *testing.T) (*gorm.DB, Service) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(migrate.AllModels()...))

	svc, err := NewService(
		NewRepository(conn),
		stubResolver{},
		config.CatalogConfig{PageSize: 4},
		config.GCSConfig{NoImagePlaceURL: "https://cdn.test/no-image.png"},
	)
	require.NoError(t, err)
	return conn, svc
}

func seedCatalogProduct(t *testing.T, conn *gorm.DB, name string, price, stock float64) models.Product {
	t.Helper()

	product := models.Product{ID: uuid.New(), Name: name, Price: price, Stock: stock}
	require.NoError(t, conn.Create(&product).Error)
	return product
}

func attachCategory(t *testing.T, conn *gorm.DB, product models.Product, name string) {
	t.Helper()

	category := models.Category{ID: uuid.New(), Name: name}
	require.NoError(t, conn.Create(&category).Error)
	join := models.ProductCategory{ID: uuid.New(), ProductID: product.ID, CategoryID: category.ID}
	require.NoError(t, conn.Create(&join).Error)
}

func browseNames(t *testing.T, svc Service, q Query) []string {
	t.Helper()

	page, err := svc.Browse(context.Background(), q)
	require.NoError(t, err)
	names := make([]string, 0, len(page.Items))
	for _, item := range page.Items {
		names = append(names, item.Name)
	}
	return names
}

func TestBrowseHidesOutOfStockProducts(t *testing.T) {
	conn, svc := setupCatalogTest(t)
	seedCatalogProduct(t, conn, "Visible", 10, 3)
	seedCatalogProduct(t, conn, "Gone", 10, 0)

	names := browseNames(t, svc, Query{Sort: SortNameAsc})
	assert.Equal(t, []string{"Visible"}, names)
}

func TestBrowseSearchMatchesNameCaseInsensitively(t *testing.T) {
	conn, svc := setupCatalogTest(t)
	seedCatalogProduct(t, conn, "Adidas Superstar", 80, 5)
	seedCatalogProduct(t, conn, "IPhone 13", 900, 5)

	names := browseNames(t, svc, Query{Search: "adidas", Sort: SortNameAsc})
	assert.Equal(t, []string{"Adidas Superstar"}, names)
}

func TestBrowseSearchMatchesCategoryName(t *testing.T) {
	conn, svc := setupCatalogTest(t)
	shoe := seedCatalogProduct(t, conn, "Barracuda", 120, 5)
	attachCategory(t, conn, shoe, "Shoes")
	seedCatalogProduct(t, conn, "IPad", 700, 5)

	names := browseNames(t, svc, Query{Search: "SHOE", Sort: SortNameAsc})
	assert.Equal(t, []string{"Barracuda"}, names)
}

func TestBrowseSortOrders(t *testing.T) {
	conn, svc := setupCatalogTest(t)
	seedCatalogProduct(t, conn, "Bravo", 30, 5)
	seedCatalogProduct(t, conn, "Alpha", 20, 5)
	seedCatalogProduct(t, conn, "Charlie", 10, 5)

	assert.Equal(t, []string{"Alpha", "Bravo", "Charlie"}, browseNames(t, svc, Query{Sort: SortNameAsc}))
	assert.Equal(t, []string{"Charlie", "Bravo", "Alpha"}, browseNames(t, svc, Query{Sort: SortNameDesc}))
	assert.Equal(t, []string{"Charlie", "Alpha", "Bravo"}, browseNames(t, svc, Query{Sort: SortPriceAsc}))
	assert.Equal(t, []string{"Bravo", "Alpha", "Charlie"}, browseNames(t, svc, Query{Sort: SortPriceDesc}))
}

func TestBrowsePaginatesAtFourPerPage(t *testing.T) {
	conn, svc := setupCatalogTest(t)
	for i := 0; i < 6; i++ {
		seedCatalogProduct(t, conn, fmt.Sprintf("Product %d", i), 10, 5)
	}

	first, err := svc.Browse(context.Background(), Query{Sort: SortNameAsc})
	require.NoError(t, err)
	assert.Len(t, first.Items, 4)
	assert.Equal(t, int64(6), first.Meta.TotalCount)
	assert.Equal(t, 2, first.Meta.TotalPages)
	assert.True(t, first.Meta.HasNext)
	assert.False(t, first.Meta.HasPrevious)

	second, err := svc.Browse(context.Background(), Query{Sort: SortNameAsc, Page: pagination.Params{Page: 2}})
	require.NoError(t, err)
	assert.Len(t, second.Items, 2)
	assert.True(t, second.Meta.HasPrevious)
	assert.False(t, second.Meta.HasNext)
}

func TestGetProductIncludesOutOfStock(t *testing.T) {
	conn, svc := setupCatalogTest(t)
	product := seedCatalogProduct(t, conn, "Vintage Jersey", 60, 0)

	detail, err := svc.GetProduct(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Vintage Jersey", detail.Name)
	assert.Zero(t, detail.Stock)
}

func TestDetailFallsBackToPlaceholderImage(t *testing.T) {
	conn, svc := setupCatalogTest(t)
	product := seedCatalogProduct(t, conn, "Plain", 15, 2)

	detail, err := svc.GetProduct(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/no-image.png", detail.MainImageURL)
}

func TestParseSortDefaultsToNameAscending(t *testing.T) {
	assert.Equal(t, SortNameAsc, ParseSort(""))
	assert.Equal(t, SortNameAsc, ParseSort("sideways"))
	assert.Equal(t, SortPriceDesc, ParseSort(" PRICE_DESC "))
}
