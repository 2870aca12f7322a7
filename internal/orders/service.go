package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casamichael/shopping-backend/internal/cart"
	"github.com/casamichael/shopping-backend/internal/products"
	"github.com/casamichael/shopping-backend/pkg/db/models"
	"github.com/casamichael/shopping-backend/pkg/enums"
	pkgerrors "github.com/casamichael/shopping-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service converts carts into durable orders and drives the order
// lifecycle: new -> processed -> shipped -> confirmed, with cancellation
// (and stock restitution) available from any non-cancelled status.
type Service interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, remarks *string) (*OrderDTO, error)
	MarkProcessed(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	MarkShipped(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	MarkConfirmed(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	Cancel(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	Get(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	GetForUser(ctx context.Context, orderID, userID uuid.UUID) (*OrderDTO, error)
	ListAll(ctx context.Context) ([]OrderDTO, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
}

type service struct {
	repo        *Repository
	cartRepo    *cart.Repository
	productRepo *products.Repository
	tx          txRunner
}

// NewService builds the order workflow service with its collaborators.
func NewService(repo *Repository, cartRepo *cart.Repository, productRepo *products.Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:        repo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		tx:          tx,
	}, nil
}

// PlaceOrder turns the user's staged cart lines into an order. Inventory is
// checked line by line in the order the lines were added; the first failing
// line aborts the whole placement and nothing is written. On success the
// order, the stock decrements, and the cart cleanup commit as one unit.
//
// Not idempotent: a second call with a re-staged cart creates a second
// order. Clearing the cart inside the same transaction is what prevents a
// double submit from the same staging.
func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID, remarks *string) (*OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	lines, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	if err := s.checkInventory(ctx, lines); err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:      uuid.New(),
		UserID:  userID,
		Date:    time.Now().UTC(),
		Remarks: remarks,
		Status:  enums.OrderStatusNew,
	}
	for _, line := range lines {
		order.Lines = append(order.Lines, models.OrderLine{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Remarks:   line.Remarks,
		})
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)

		if err := repo.Create(ctx, order); err != nil {
			return fmt.Errorf("creating order: %w", err)
		}
		for _, line := range lines {
			if err := productRepo.AdjustStock(ctx, line.ProductID, -line.Quantity); err != nil {
				return fmt.Errorf("decrementing stock for product %s: %w", line.ProductID, err)
			}
		}
		if err := cartRepo.DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("clearing cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "placing order")
	}

	return s.Get(ctx, order.ID)
}

// checkInventory walks the cart lines in order and reports the first
// failure. No settlement occurs here; a concurrent placement can still
// spend the same stock between this check and the decrement.
func (s *service) checkInventory(ctx context.Context, lines []models.CartLine) error {
	for _, line := range lines {
		product, err := s.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errProductUnavailable(staleLineName(line))
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
		}
		if product.Stock < line.Quantity {
			return errInsufficientStock(product.Name)
		}
	}
	return nil
}

// staleLineName falls back to the product id when the preloaded product
// row is gone, which is exactly the case ProductUnavailable reports.
func staleLineName(line models.CartLine) string {
	if line.Product != nil {
		return line.Product.Name
	}
	return line.ProductID.String()
}

// requiredStatus maps each forward transition target to the only status
// it may be entered from.
var requiredStatus = map[enums.OrderStatus]enums.OrderStatus{
	enums.OrderStatusProcessed: enums.OrderStatusNew,
	enums.OrderStatusShipped:   enums.OrderStatusProcessed,
	enums.OrderStatusConfirmed: enums.OrderStatusShipped,
}

func (s *service) MarkProcessed(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	return s.advance(ctx, orderID, enums.OrderStatusProcessed)
}

func (s *service) MarkShipped(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	return s.advance(ctx, orderID, enums.OrderStatusShipped)
}

func (s *service) MarkConfirmed(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	return s.advance(ctx, orderID, enums.OrderStatusConfirmed)
}

// advance performs one forward step. The guard runs before any write; a
// wrong-state attempt reports the violation and leaves the order as is.
func (s *service) advance(ctx context.Context, orderID uuid.UUID, target enums.OrderStatus) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	required := requiredStatus[target]
	if order.Status != required {
		return nil, errInvalidTransition(order.Status.String(), required.String(), target.String())
	}

	if err := s.repo.UpdateStatus(ctx, orderID, target); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order status")
	}

	return s.Get(ctx, orderID)
}

// Cancel restores stock for every line whose product still exists, then
// marks the order cancelled; restitutions and the status change commit as
// one unit. Lines whose product has been deleted are skipped, not fatal.
// The only cancellation guard is on already-cancelled orders.
func (s *service) Cancel(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == enums.OrderStatusCancelled {
		return nil, errAlreadyCancelled()
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		for _, line := range order.Lines {
			if _, err := productRepo.FindByID(ctx, line.ProductID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return fmt.Errorf("loading product %s: %w", line.ProductID, err)
			}
			if err := productRepo.AdjustStock(ctx, line.ProductID, line.Quantity); err != nil {
				return fmt.Errorf("restoring stock for product %s: %w", line.ProductID, err)
			}
		}

		return repo.UpdateStatus(ctx, orderID, enums.OrderStatusCancelled)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancelling order")
	}

	return s.Get(ctx, orderID)
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	dto := toOrderDTO(*order)
	return &dto, nil
}

// GetForUser restricts reads to the order's owner.
func (s *service) GetForUser(ctx context.Context, orderID, userID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, errOrderNotFound()
	}
	dto := toOrderDTO(*order)
	return &dto, nil
}

func (s *service) ListAll(ctx context.Context) ([]OrderDTO, error) {
	orders, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return toOrderDTOs(orders), nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return toOrderDTOs(orders), nil
}

func (s *service) loadOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errOrderNotFound()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return order, nil
}
