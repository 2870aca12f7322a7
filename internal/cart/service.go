package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casamichael/shopping-backend/internal/products"
	pkgerrors "github.com/casamichael/shopping-backend/pkg/errors"
	"github.com/casamichael/shopping-backend/pkg/db/models"
)

// Service stages products into per-user cart lines ahead of checkout.
// Quantities are adjusted in place and never drop below one; removing a
// line is an explicit operation.
type Service interface {
	Add(ctx context.Context, userID uuid.UUID, req AddLineRequest) (*LineDTO, error)
	List(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	Increment(ctx context.Context, userID, lineID uuid.UUID) (*LineDTO, error)
	Decrement(ctx context.Context, userID, lineID uuid.UUID) (*LineDTO, error)
	UpdateLine(ctx context.Context, userID, lineID uuid.UUID, req UpdateLineRequest) (*LineDTO, error)
	Remove(ctx context.Context, userID, lineID uuid.UUID) error
}

type service struct {
	repo        *Repository
	productRepo *products.Repository
}

func NewService(repo *Repository, productRepo *products.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo, productRepo: productRepo}, nil
}

// Add stages a product for the user. Quantity defaults to one when the
// request omits it.
func (s *service) Add(ctx context.Context, userID uuid.UUID, req AddLineRequest) (*LineDTO, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	line := &models.CartLine{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: product.ID,
		Quantity:  quantity,
		Remarks:   req.Remarks,
	}
	if err := s.repo.Create(ctx, line); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adding cart line")
	}
	line.Product = product

	dto := toLineDTO(*line)
	return &dto, nil
}

// List returns the user's staged lines with per-line and cart totals.
func (s *service) List(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	lines, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing cart")
	}

	cart := &CartDTO{Lines: make([]LineDTO, 0, len(lines))}
	for _, line := range lines {
		dto := toLineDTO(line)
		cart.Lines = append(cart.Lines, dto)
		cart.ItemCount += line.Quantity
		cart.Value += dto.Value
	}
	cart.LineCount = len(cart.Lines)
	return cart, nil
}

// Increment raises the line quantity by one.
func (s *service) Increment(ctx context.Context, userID, lineID uuid.UUID) (*LineDTO, error) {
	return s.shift(ctx, userID, lineID, 1)
}

// Decrement lowers the line quantity by one, flooring at one. A decrement
// at quantity one is a no-op, not a removal.
func (s *service) Decrement(ctx context.Context, userID, lineID uuid.UUID) (*LineDTO, error) {
	return s.shift(ctx, userID, lineID, -1)
}

func (s *service) shift(ctx context.Context, userID, lineID uuid.UUID, delta float64) (*LineDTO, error) {
	line, err := s.loadOwnedLine(ctx, userID, lineID)
	if err != nil {
		return nil, err
	}

	next := line.Quantity + delta
	if next < 1 {
		next = 1
	}
	if next != line.Quantity {
		line.Quantity = next
		if err := s.repo.Update(ctx, line); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating cart line")
		}
	}

	dto := toLineDTO(*line)
	return &dto, nil
}

// UpdateLine sets quantity and remarks directly.
func (s *service) UpdateLine(ctx context.Context, userID, lineID uuid.UUID, req UpdateLineRequest) (*LineDTO, error) {
	line, err := s.loadOwnedLine(ctx, userID, lineID)
	if err != nil {
		return nil, err
	}

	if req.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	line.Quantity = req.Quantity
	line.Remarks = req.Remarks

	if err := s.repo.Update(ctx, line); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating cart line")
	}

	dto := toLineDTO(*line)
	return &dto, nil
}

// Remove deletes the line outright.
func (s *service) Remove(ctx context.Context, userID, lineID uuid.UUID) error {
	if _, err := s.loadOwnedLine(ctx, userID, lineID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, lineID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing cart line")
	}
	return nil
}

func (s *service) loadOwnedLine(ctx context.Context, userID, lineID uuid.UUID) (*models.CartLine, error) {
	line, err := s.repo.FindByID(ctx, lineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart line")
	}
	if line.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	return line, nil
}
