package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/casamichael/shopping-backend/internal/cart"
	"github.com/casamichael/shopping-backend/internal/products"
	"github.com/casamichael/shopping-backend/pkg/db"
	"github.com/casamichael/shopping-backend/pkg/db/models"
	"github.com/casamichael/shopping-backend/pkg/enums"
	pkgerrors "github.com/casamichael/shopping-backend/pkg/errors"
	"github.com/casamichael/shopping-backend/pkg/migrate"
)

func setupOrdersDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(migrate.AllModels()...))
	return conn
}

func newOrdersService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(
		NewRepository(conn),
		cart.NewRepository(conn),
		products.NewRepository(conn),
		db.FromGorm(conn),
	)
	require.NoError(t, err)
	return svc
}

func createTestUser(t *testing.T, conn *gorm.DB) models.User {
	t.Helper()

	user := models.User{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Document:     "1010",
		FirstName:    "Test",
		LastName:     "Shopper",
		Address:      "Somewhere 1",
		PhoneNumber:  "5551234",
		UserType:     enums.UserTypeUser,
	}
	require.NoError(t, conn.Create(&user).Error)
	return user
}

func createTestProduct(t *testing.T, conn *gorm.DB, name string, price, stock float64) models.Product {
	t.Helper()

	product := models.Product{
		ID:    uuid.New(),
		Name:  name,
		Price: price,
		Stock: stock,
	}
	require.NoError(t, conn.Create(&product).Error)
	return product
}

func addCartLine(t *testing.T, conn *gorm.DB, userID, productID uuid.UUID, qty float64) models.CartLine {
	t.Helper()

	line := models.CartLine{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  qty,
	}
	require.NoError(t, conn.Create(&line).Error)
	return line
}

func productStock(t *testing.T, conn *gorm.DB, id uuid.UUID) float64 {
	t.Helper()

	var product models.Product
	require.NoError(t, conn.First(&product, "id = ?", id).Error)
	return product.Stock
}

func cartCount(t *testing.T, conn *gorm.DB, userID uuid.UUID) int64 {
	t.Helper()

	var count int64
	require.NoError(t, conn.Model(&models.CartLine{}).Where("user_id = ?", userID).Count(&count).Error)
	return count
}

func errorReason(t *testing.T, err error) string {
	t.Helper()

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	reason, _ := details["reason"].(string)
	return reason
}

func TestPlaceOrderCreatesOrderAndSettlesInventory(t *testing.T) {
	conn := setupOrdersDB(t)
	svc := newOrdersService(t, conn)
	user := createTestUser(t, conn)
	shoes := createTestProduct(t, conn, "Sneakers", 120, 10)
	buds := createTestProduct(t, conn, "Earbuds", 80, 5)
	addCartLine(t, conn, user.ID, shoes.ID, 3)
	addCartLine(t, conn, user.ID, buds.ID, 2)

	remarks := "leave at the door"
	order, err := svc.PlaceOrder(context.Background(), user.ID, &remarks)
	require.NoError(t, err)

	assert.Equal(t, enums.OrderStatusNew.String(), order.Status)
	assert.Equal(t, 2, order.LineCount)
	assert.Equal(t, 5.0, order.ItemCount)
	assert.Equal(t, 3*120+2*80.0, order.Value)
	require.NotNil(t, order.Remarks)
	assert.Equal(t, remarks, *order.Remarks)

	assert.Equal(t, 7.0, productStock(t, conn, shoes.ID))
	assert.Equal(t, 3.0, productStock(t, conn, buds.ID))
	assert.Zero(t, cartCount(t, conn, user.ID))
}

func TestPlaceOrderInsufficientStockLeavesEverythingUntouched(t *testing.T) {
	conn := setupOrdersDB(t)
	svc := newOrdersService(t, conn)
	user := createTestUser(t, conn)
	scarce := createTestProduct(t, conn, "Limited Edition", 500, 2)
	addCartLine(t, conn, user.ID, scarce.ID, 5)

	_, err := svc.PlaceOrder(context.Background(), user.ID, nil)
	require.Error(t, err)
	assert.Equal(t, ReasonInsufficientStock, errorReason(t, err))

	assert.Equal(t, 2.0, productStock(t, conn, scarce.ID))
	assert.Equal(t, int64(1), cartCount(t, conn, user.ID))

	var orderCount int64
	require.NoError(t, conn.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)
}

func TestPlaceOrderAllowsExactStock(t *testing.T) {
	conn := setupOrdersDB(t)
	svc := newOrdersService(t, conn)
	user := createTestUser(t, conn)
	widget := createTestProduct(t, conn, "Widget", 10, 10)
	addCartLine(t, conn, user.ID, widget.ID, 3)
	addCartLine(t, conn, user.ID, widget.ID, 7)

	order, err := svc.PlaceOrder(context.Background(), user.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, order.LineCount)
	assert.Equal(t, 0.0, productStock(t, conn, widget.ID))
}

func TestPlaceOrderFirstFailingLineAborts(t *testing.T) {
	conn := setupOrdersDB(t)
	svc := newOrdersService(t, conn)
	user := createTestUser(t, conn)
	plenty := createTestProduct(t, conn, "Abundant", 10, 100)
	scarce := createTestProduct(t, conn, "Scarce", 10, 1)
	addCartLine(t, conn, user.ID, scarce.ID, 2)
	addCartLine(t, conn, user.ID, plenty.ID, 1)

	_, err := svc.PlaceOrder(context.Background(), user.ID, nil)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Contains(t, typed.Message(), "Scarce")
	assert.Equal(t, 100.0, productStock(t, conn, plenty.ID))
}

func TestPlaceOrderDeletedProductReportsUnavailable(t *testing.T) {
	conn := setupOrdersDB(t)
	svc := newOrdersService(t, conn)
	user := createTestUser(t, conn)
	ghost := createTestProduct(t, conn, "Ghost", 10, 10)
	addCartLine(t, conn, user.ID, ghost.ID, 1)
	require.NoError(t, conn.Delete(&models.Product{}, "id = ?", ghost.ID).Error)

	_, err := svc.PlaceOrder(context.Background(), user.ID, nil)
	require.Error(t, err)
	assert.Equal(t, ReasonProductUnavailable, errorReason(t, err))
}

func TestPlaceOrderEmptyCartRejected(t *testing.T) {
	conn := setupOrdersDB(t)
	svc := newOrdersService(t, conn)
	user := createTestUser(t, conn)

	_, err := svc.PlaceOrder(context.Background(), user.ID, nil)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func placeTestOrder(t *testing.T, conn *gorm.DB, svc Service) (*OrderDTO, models.Product) {
	t.Helper()

	user := createTestUser(t, conn)
	product := createTestProduct(t, conn, uuid.NewString(), 50, 10)
	addCartLine(t, conn, user.ID, product.ID, 4)

	order, err := svc.PlaceOrder(context.Background(), user.ID, nil)
	require.NoError(t, err)
	return order, product
}

func TestOrderLifecycleHappyPath(t *testing.T) {
	conn := setupOrdersDB(t)
	svc := newOrdersService(t, conn)
	order, _ := placeTestOrder(t, conn, svc)

	processed, err := svc.MarkProcessed(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusProcessed.String(), processed.Status)

	shipped, err := svc.MarkShipped(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped.String(), shipped.Status)

	confirmed, err := svc.MarkConfirmed(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed.String(), confirmed.Status)
}

func TestOutOfSequenceTransitionLeavesOrderUnchanged(t *testing.T) {
	conn := setupOrdersDB(t)
	svc := newOrdersService(t, conn)
	order, _ := placeTestOrder(t, conn, svc)

	_, err := svc.MarkShipped(context.Background(), order.ID)
	require.Error(t, err)
	assert.Equal(t, ReasonInvalidTransition, errorReason(t, err))

	current, err := svc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusNew.String(), current.Status)
}

func TestConfirmRequiresShipped(t *testing.T) {
	conn := setupOrdersDB(t)
	svc := newOrdersService(t, conn)
	order, _ := placeTestOrder(t, conn, svc)

	_, err := svc.MarkProcessed(context.Background(), order.ID)
	require.NoError(t, err)

	_, err = svc.MarkConfirmed(context.Background(), order.ID)
	require.Error(t, err)

	current, err := svc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusProcessed.String(), current.Status)
}

func TestCancelRestoresStock(t *testing.T) {
	conn := setupOrdersDB(t)
	svc := newOrdersService(t, conn)
	order, product := placeTestOrder(t, conn, svc)
	require.Equal(t, 6.0, productStock(t, conn, product.ID))

	cancelled, err := svc.Cancel(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled.String(), cancelled.Status)
	assert.Equal(t, 10.0, productStock(t, conn, product.ID))
}

func TestCancelSkipsDeletedProducts(t *testing.T) {
	conn := setupOrdersDB(t)
	svc := newOrdersService(t, conn)
	user := createTestUser(t, conn)
	keep := createTestProduct(t, conn, "Keep", 10, 10)
	gone := createTestProduct(t, conn, "Gone", 10, 10)
	addCartLine(t, conn, user.ID, keep.ID, 2)
	addCartLine(t, conn, user.ID, gone.ID, 3)

	order, err := svc.PlaceOrder(context.Background(), user.ID, nil)
	require.NoError(t, err)

	require.NoError(t, conn.Delete(&models.Product{}, "id = ?", gone.ID).Error)

	cancelled, err := svc.Cancel(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled.String(), cancelled.Status)
	assert.Equal(t, 10.0, productStock(t, conn, keep.ID))
}

func TestCancelTwiceReportsAlreadyCancelled(t *testing.T) {
	conn := setupOrdersDB(t)
	svc := newOrdersService(t, conn)
	order, product := placeTestOrder(t, conn, svc)

	_, err := svc.Cancel(context.Background(), order.ID)
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), order.ID)
	require.Error(t, err)
	assert.Equal(t, ReasonAlreadyCancelled, errorReason(t, err))

	// stock restored exactly once
	assert.Equal(t, 10.0, productStock(t, conn, product.ID))
}

func TestConfirmedOrderRemainsCancellable(t *testing.T) {
	conn := setupOrdersDB(t)
	svc := newOrdersService(t, conn)
	order, product := placeTestOrder(t, conn, svc)

	for _, step := range []func(context.Context, uuid.UUID) (*OrderDTO, error){
		svc.MarkProcessed, svc.MarkShipped, svc.MarkConfirmed,
	} {
		_, err := step(context.Background(), order.ID)
		require.NoError(t, err)
	}

	cancelled, err := svc.Cancel(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled.String(), cancelled.Status)
	assert.Equal(t, 10.0, productStock(t, conn, product.ID))
}

func TestLineValueFollowsCurrentPrice(t *testing.T) {
	conn := setupOrdersDB(t)
	svc := newOrdersService(t, conn)
	user := createTestUser(t, conn)
	product := createTestProduct(t, conn, "Repriced", 100, 10)
	addCartLine(t, conn, user.ID, product.ID, 2)

	order, err := svc.PlaceOrder(context.Background(), user.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 200.0, order.Value)

	require.NoError(t, conn.Model(&models.Product{}).Where("id = ?", product.ID).Update("price", 150).Error)

	reread, err := svc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, 300.0, reread.Value)
}

func TestGetForUserHidesOtherUsersOrders(t *testing.T) {
	conn := setupOrdersDB(t)
	svc := newOrdersService(t, conn)
	order, _ := placeTestOrder(t, conn, svc)
	stranger := createTestUser(t, conn)

	_, err := svc.GetForUser(context.Background(), order.ID, stranger.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
