package products

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/casamichael/shopping-backend/pkg/config"
	"github.com/casamichael/shopping-backend/pkg/db"
	"github.com/casamichael/shopping-backend/pkg/db/models"
	pkgerrors "github.com/casamichael/shopping-backend/pkg/errors"
)

// BlobStore is the slice of object storage the product service needs.
type BlobStore interface {
	Upload(ctx context.Context, prefix, contentType string, content io.Reader) (uuid.UUID, error)
	Delete(ctx context.Context, prefix string, blobID uuid.UUID) error
	URL(prefix string, blobID uuid.UUID) string
}

// CategoryFinder checks that a category exists before joining it.
type CategoryFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

// Service is the admin surface for the product table: CRUD plus image
// blobs and category membership.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*DetailDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*DetailDTO, error)
	List(ctx context.Context) ([]SummaryDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*DetailDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error

	AddImage(ctx context.Context, productID uuid.UUID, contentType string, content io.Reader) (*ImageDTO, error)
	RemoveImage(ctx context.Context, imageID uuid.UUID) error

	AddCategory(ctx context.Context, productID, categoryID uuid.UUID) (*DetailDTO, error)
	RemoveCategory(ctx context.Context, joinID uuid.UUID) error
}

type service struct {
	repo       *Repository
	categories CategoryFinder
	blobs      BlobStore
	gcsConf    config.GCSConfig
}

func NewService(repo *Repository, categories CategoryFinder, blobs BlobStore, gcsCfg config.GCSConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category finder required")
	}
	if blobs == nil {
		return nil, fmt.Errorf("blob store required")
	}
	return &service{repo: repo, categories: categories, blobs: blobs, gcsConf: gcsCfg}, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*DetailDTO, error) {
	product := &models.Product{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a product with that name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}
	return s.Get(ctx, product.ID)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*DetailDTO, error) {
	product, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	dto := s.toDetail(*product)
	return &dto, nil
}

func (s *service) List(ctx context.Context) ([]SummaryDTO, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	out := make([]SummaryDTO, 0, len(items))
	for _, product := range items {
		out = append(out, s.toSummary(product))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*DetailDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.Stock = req.Stock

	if err := s.repo.Update(ctx, product); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a product with that name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
	}
	return s.Get(ctx, id)
}

// Delete removes the product row, then best-effort deletes its blobs.
// Blob failures are aggregated and reported but the row removal stands.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting product")
	}

	var blobErr error
	for _, image := range product.Images {
		blobErr = multierr.Append(blobErr, s.blobs.Delete(ctx, s.gcsConf.ProductsPrefix, image.BlobID))
	}
	if blobErr != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, blobErr, "deleting product images")
	}
	return nil
}

func (s *service) AddImage(ctx context.Context, productID uuid.UUID, contentType string, content io.Reader) (*ImageDTO, error) {
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	blobID, err := s.blobs.Upload(ctx, s.gcsConf.ProductsPrefix, contentType, content)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "uploading image")
	}

	image := &models.ProductImage{
		ID:        uuid.New(),
		ProductID: productID,
		BlobID:    blobID,
	}
	if err := s.repo.AddImage(ctx, image); err != nil {
		// drop the orphaned blob; the row never landed
		_ = s.blobs.Delete(ctx, s.gcsConf.ProductsPrefix, blobID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving image")
	}

	return &ImageDTO{
		ID:  image.ID,
		URL: s.blobs.URL(s.gcsConf.ProductsPrefix, blobID),
	}, nil
}

func (s *service) RemoveImage(ctx context.Context, imageID uuid.UUID) error {
	image, err := s.repo.FindImage(ctx, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "image not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading image")
	}

	if err := s.repo.DeleteImage(ctx, imageID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting image")
	}
	if err := s.blobs.Delete(ctx, s.gcsConf.ProductsPrefix, image.BlobID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting image blob")
	}
	return nil
}

func (s *service) AddCategory(ctx context.Context, productID, categoryID uuid.UUID) (*DetailDTO, error) {
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading category")
	}

	join := &models.ProductCategory{
		ID:         uuid.New(),
		ProductID:  productID,
		CategoryID: categoryID,
	}
	if err := s.repo.AddCategory(ctx, join); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already belongs to that category")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "joining category")
	}
	return s.Get(ctx, productID)
}

func (s *service) RemoveCategory(ctx context.Context, joinID uuid.UUID) error {
	if _, err := s.repo.FindCategoryJoin(ctx, joinID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category assignment not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading category assignment")
	}
	if err := s.repo.DeleteCategoryJoin(ctx, joinID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing category assignment")
	}
	return nil
}
