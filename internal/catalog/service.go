package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casamichael/shopping-backend/pkg/config"
	pkgerrors "github.com/casamichael/shopping-backend/pkg/errors"
	"github.com/casamichael/shopping-backend/pkg/pagination"
)

// BlobURLResolver turns a stored blob id into a public URL.
type BlobURLResolver interface {
	URL(prefix string, blobID uuid.UUID) string
}

// Service serves the public storefront: paginated browsing over in-stock
// products and individual product detail.
type Service interface {
	Browse(ctx context.Context, q Query) (*PageDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDetailDTO, error)
}

type service struct {
	repo    *Repository
	blobs   BlobURLResolver
	catalog config.CatalogConfig
	gcsConf config.GCSConfig
}

func NewService(repo *Repository, blobs BlobURLResolver, catalogCfg config.CatalogConfig, gcsCfg config.GCSConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if blobs == nil {
		return nil, fmt.Errorf("blob resolver required")
	}
	return &service{repo: repo, blobs: blobs, catalog: catalogCfg, gcsConf: gcsCfg}, nil
}

// Browse returns one storefront page.
func (s *service) Browse(ctx context.Context, q Query) (*PageDTO, error) {
	q.Page = pagination.Normalize(q.Page, s.catalog.PageSize)

	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "browsing catalog")
	}

	page := &PageDTO{
		Items: make([]ProductCardDTO, 0, len(items)),
		Meta:  pagination.NewMeta(q.Page, total),
	}
	for _, product := range items {
		page.Items = append(page.Items, s.toCard(product))
	}
	return page, nil
}

// GetProduct returns the public detail for one product.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDetailDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	dto := s.toDetail(*product)
	return &dto, nil
}

// mainImageURL picks the first image or the placeholder.
func (s *service) mainImageURL(images []imageRef) string {
	if len(images) == 0 {
		return s.gcsConf.NoImagePlaceURL
	}
	return images[0].URL
}
