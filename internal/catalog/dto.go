package catalog

import (
	"github.com/google/uuid"

	"github.com/casamichael/shopping-backend/pkg/db/models"
	"github.com/casamichael/shopping-backend/pkg/pagination"
)

// ProductCardDTO is the storefront list entry.
type ProductCardDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Price        float64   `json:"price"`
	Stock        float64   `json:"stock"`
	MainImageURL string    `json:"main_image_url"`
	Categories   []string  `json:"categories"`
}

// ProductDetailDTO is the full public view of a product.
type ProductDetailDTO struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	Price        float64    `json:"price"`
	Stock        float64    `json:"stock"`
	MainImageURL string     `json:"main_image_url"`
	Images       []ImageDTO `json:"images"`
	Categories   []string   `json:"categories"`
}

// ImageDTO is one stored product image.
type ImageDTO struct {
	ID  uuid.UUID `json:"id"`
	URL string    `json:"url"`
}

// PageDTO is one page of storefront results.
type PageDTO struct {
	Items []ProductCardDTO `json:"items"`
	Meta  pagination.Meta  `json:"meta"`
}

type imageRef struct {
	ID  uuid.UUID
	URL string
}

func (s *service) imageRefs(product models.Product) []imageRef {
	refs := make([]imageRef, 0, len(product.Images))
	for _, img := range product.Images {
		refs = append(refs, imageRef{
			ID:  img.ID,
			URL: s.blobs.URL(s.gcsConf.ProductsPrefix, img.BlobID),
		})
	}
	return refs
}

func categoryNames(product models.Product) []string {
	names := make([]string, 0, len(product.ProductCategories))
	for _, join := range product.ProductCategories {
		if join.Category != nil {
			names = append(names, join.Category.Name)
		}
	}
	return names
}

func (s *service) toCard(product models.Product) ProductCardDTO {
	refs := s.imageRefs(product)
	return ProductCardDTO{
		ID:           product.ID,
		Name:         product.Name,
		Description:  product.Description,
		Price:        product.Price,
		Stock:        product.Stock,
		MainImageURL: s.mainImageURL(refs),
		Categories:   categoryNames(product),
	}
}

func (s *service) toDetail(product models.Product) ProductDetailDTO {
	refs := s.imageRefs(product)
	images := make([]ImageDTO, 0, len(refs))
	for _, ref := range refs {
		images = append(images, ImageDTO{ID: ref.ID, URL: ref.URL})
	}
	return ProductDetailDTO{
		ID:           product.ID,
		Name:         product.Name,
		Description:  product.Description,
		Price:        product.Price,
		Stock:        product.Stock,
		MainImageURL: s.mainImageURL(refs),
		Images:       images,
		Categories:   categoryNames(product),
	}
}
