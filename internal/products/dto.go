package products

import (
	"github.com/google/uuid"

	"github.com/casamichael/shopping-backend/pkg/db/models"
)

// CreateRequest is the admin payload for a new product.
type CreateRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Stock       float64 `json:"stock" validate:"gte=0"`
}

// UpdateRequest replaces the product's scalar fields.
type UpdateRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Stock       float64 `json:"stock" validate:"gte=0"`
}

// AddCategoryRequest joins the product to one category.
type AddCategoryRequest struct {
	CategoryID uuid.UUID `json:"category_id" validate:"required"`
}

// SummaryDTO is the admin list entry.
type SummaryDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Price        float64   `json:"price"`
	Stock        float64   `json:"stock"`
	MainImageURL string    `json:"main_image_url"`
	ImageCount   int       `json:"image_count"`
}

// DetailDTO is the full admin view.
type DetailDTO struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Price       float64       `json:"price"`
	Stock       float64       `json:"stock"`
	Images      []ImageDTO    `json:"images"`
	Categories  []CategoryDTO `json:"categories"`
}

// ImageDTO is one stored image with its public URL.
type ImageDTO struct {
	ID  uuid.UUID `json:"id"`
	URL string    `json:"url"`
}

// CategoryDTO is one category assignment; the join id is what admin
// removal operates on.
type CategoryDTO struct {
	JoinID     uuid.UUID `json:"join_id"`
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
}

func (s *service) toSummary(product models.Product) SummaryDTO {
	dto := SummaryDTO{
		ID:           product.ID,
		Name:         product.Name,
		Price:        product.Price,
		Stock:        product.Stock,
		MainImageURL: s.gcsConf.NoImagePlaceURL,
		ImageCount:   len(product.Images),
	}
	if len(product.Images) > 0 {
		dto.MainImageURL = s.blobs.URL(s.gcsConf.ProductsPrefix, product.Images[0].BlobID)
	}
	return dto
}

func (s *service) toDetail(product models.Product) DetailDTO {
	dto := DetailDTO{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		Images:      make([]ImageDTO, 0, len(product.Images)),
		Categories:  make([]CategoryDTO, 0, len(product.ProductCategories)),
	}
	for _, image := range product.Images {
		dto.Images = append(dto.Images, ImageDTO{
			ID:  image.ID,
			URL: s.blobs.URL(s.gcsConf.ProductsPrefix, image.BlobID),
		})
	}
	for _, join := range product.ProductCategories {
		cat := CategoryDTO{JoinID: join.ID, CategoryID: join.CategoryID}
		if join.Category != nil {
			cat.Name = join.Category.Name
		}
		dto.Categories = append(dto.Categories, cat)
	}
	return dto
}
