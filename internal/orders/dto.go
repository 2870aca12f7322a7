package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/casamichael/shopping-backend/pkg/db/models"
)

// OrderDTO is the wire shape for a single order. Line and item counts and
// the total value are derived at read time from current product prices.
type OrderDTO struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"user_id"`
	UserName  string         `json:"user_name,omitempty"`
	Date      time.Time      `json:"date"`
	Status    string         `json:"status"`
	Remarks   *string        `json:"remarks,omitempty"`
	Lines     []OrderLineDTO `json:"lines"`
	LineCount int            `json:"line_count"`
	ItemCount float64        `json:"item_count"`
	Value     float64        `json:"value"`
}

// OrderLineDTO mirrors one order line. Value is quantity times the
// product's current price; lines whose product has been deleted report
// a zero value and keep the product id for traceability.
type OrderLineDTO struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	UnitPrice   float64   `json:"unit_price"`
	Quantity    float64   `json:"quantity"`
	Remarks     *string   `json:"remarks,omitempty"`
	Value       float64   `json:"value"`
}

// PlaceOrderRequest carries the optional remarks attached at checkout.
type PlaceOrderRequest struct {
	Remarks *string `json:"remarks" validate:"omitempty,max=500"`
}

func toOrderDTO(order models.Order) OrderDTO {
	dto := OrderDTO{
		ID:      order.ID,
		UserID:  order.UserID,
		Date:    order.Date,
		Status:  order.Status.String(),
		Remarks: order.Remarks,
		Lines:   make([]OrderLineDTO, 0, len(order.Lines)),
	}
	if order.User != nil {
		dto.UserName = order.User.FullName()
	}
	for _, line := range order.Lines {
		lineDTO := toOrderLineDTO(line)
		dto.Lines = append(dto.Lines, lineDTO)
		dto.ItemCount += line.Quantity
		dto.Value += lineDTO.Value
	}
	dto.LineCount = len(dto.Lines)
	return dto
}

func toOrderLineDTO(line models.OrderLine) OrderLineDTO {
	dto := OrderLineDTO{
		ID:        line.ID,
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
		Remarks:   line.Remarks,
		Value:     line.Value(),
	}
	if line.Product != nil {
		dto.ProductName = line.Product.Name
		dto.UnitPrice = line.Product.Price
	}
	return dto
}

func toOrderDTOs(orders []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(orders))
	for _, order := range orders {
		out = append(out, toOrderDTO(order))
	}
	return out
}
