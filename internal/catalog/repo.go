package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casamichael/shopping-backend/pkg/db/models"
	"github.com/casamichael/shopping-backend/pkg/pagination"
)

// Sort names the supported catalog orderings.
type Sort string

const (
	SortNameAsc   Sort = "name_asc"
	SortNameDesc  Sort = "name_desc"
	SortPriceAsc  Sort = "price_asc"
	SortPriceDesc Sort = "price_desc"
)

// ParseSort maps a query value to an ordering, defaulting to name
// ascending for anything unrecognized.
func ParseSort(raw string) Sort {
	switch Sort(strings.ToLower(strings.TrimSpace(raw))) {
	case SortNameDesc:
		return SortNameDesc
	case SortPriceAsc:
		return SortPriceAsc
	case SortPriceDesc:
		return SortPriceDesc
	default:
		return SortNameAsc
	}
}

func (s Sort) orderClause() string {
	switch s {
	case SortNameDesc:
		return "products.name DESC"
	case SortPriceAsc:
		return "products.price ASC, products.name ASC"
	case SortPriceDesc:
		return "products.price DESC, products.name ASC"
	default:
		return "products.name ASC"
	}
}

// Query captures one catalog page request.
type Query struct {
	Search string
	Sort   Sort
	Page   pagination.Params
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns the storefront page: only in-stock products, filtered by a
// case-insensitive substring match against the product name or any of its
// category names, ordered and paginated.
func (r *Repository) List(ctx context.Context, q Query) ([]models.Product, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("products.stock > 0")

	if search := strings.TrimSpace(q.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		base = base.Where(
			"LOWER(products.name) LIKE ? OR EXISTS ("+
				"SELECT 1 FROM product_categories pc "+
				"JOIN categories c ON c.id = pc.category_id "+
				"WHERE pc.product_id = products.id AND LOWER(c.name) LIKE ?)",
			pattern, pattern,
		)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []models.Product
	err := base.
		Preload("Images").
		Preload("ProductCategories.Category").
		Order(q.Sort.orderClause()).
		Limit(q.Page.PageSize).
		Offset(q.Page.Offset()).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// FindByID loads one product with images and categories for the public
// detail view. Out-of-stock products are still viewable by id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Images").
		Preload("ProductCategories.Category").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}
