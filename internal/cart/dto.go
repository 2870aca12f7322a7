package cart

import (
	"github.com/google/uuid"

	"github.com/casamichael/shopping-backend/pkg/db/models"
)

// AddLineRequest stages a product. A zero or omitted quantity means one.
type AddLineRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  float64   `json:"quantity" validate:"omitempty,gt=0"`
	Remarks   *string   `json:"remarks" validate:"omitempty,max=500"`
}

// UpdateLineRequest replaces a line's quantity and remarks.
type UpdateLineRequest struct {
	Quantity float64 `json:"quantity" validate:"required,gte=1"`
	Remarks  *string `json:"remarks" validate:"omitempty,max=500"`
}

// LineDTO is one staged line with its derived value.
type LineDTO struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	UnitPrice   float64   `json:"unit_price"`
	Quantity    float64   `json:"quantity"`
	Remarks     *string   `json:"remarks,omitempty"`
	Value       float64   `json:"value"`
}

// CartDTO is the full cart with totals.
type CartDTO struct {
	Lines     []LineDTO `json:"lines"`
	LineCount int       `json:"line_count"`
	ItemCount float64   `json:"item_count"`
	Value     float64   `json:"value"`
}

func toLineDTO(line models.CartLine) LineDTO {
	dto := LineDTO{
		ID:        line.ID,
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
		Remarks:   line.Remarks,
	}
	if line.Product != nil {
		dto.ProductName = line.Product.Name
		dto.UnitPrice = line.Product.Price
		dto.Value = line.Quantity * line.Product.Price
	}
	return dto
}
