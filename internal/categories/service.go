package categories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casamichael/shopping-backend/pkg/db"
	"github.com/casamichael/shopping-backend/pkg/db/models"
	pkgerrors "github.com/casamichael/shopping-backend/pkg/errors"
)

// Service is the admin surface for product categories.
type Service interface {
	Create(ctx context.Context, req UpsertRequest) (*DTO, error)
	Get(ctx context.Context, id uuid.UUID) (*DTO, error)
	List(ctx context.Context) ([]DTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpsertRequest) (*DTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UpsertRequest covers both create and rename.
type UpsertRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// DTO is one category with its product assignment count.
type DTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ProductCount int64     `json:"product_count"`
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, req UpsertRequest) (*DTO, error) {
	category := &models.Category{ID: uuid.New(), Name: req.Name}
	if err := s.repo.Create(ctx, category); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a category with that name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating category")
	}
	return &DTO{ID: category.ID, Name: category.Name}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*DTO, error) {
	category, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toDTO(ctx, *category)
}

func (s *service) List(ctx context.Context) ([]DTO, error) {
	list, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing categories")
	}
	out := make([]DTO, 0, len(list))
	for _, category := range list {
		dto, err := s.toDTO(ctx, category)
		if err != nil {
			return nil, err
		}
		out = append(out, *dto)
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpsertRequest) (*DTO, error) {
	category, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = req.Name
	if err := s.repo.Update(ctx, category); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a category with that name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating category")
	}
	return s.toDTO(ctx, *category)
}

// Delete removes the category; its product assignments cascade away
// while the products themselves are untouched.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting category")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading category")
	}
	return category, nil
}

func (s *service) toDTO(ctx context.Context, category models.Category) (*DTO, error) {
	count, err := s.repo.ProductCount(ctx, category.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting category products")
	}
	return &DTO{ID: category.ID, Name: category.Name, ProductCount: count}, nil
}
