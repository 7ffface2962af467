package request

import (
	"github.com/Alturino/lairai/pkg/response"
)

// OrderItem is the write shape of an order line. The price is never sent:
// the backend prices items at write time.
type OrderItem struct {
	Note       string `json:"note,omitempty" validate:"max=255"`
	MenuItemID int64  `json:"menu_item_id" validate:"required,gt=0"`
	Quantity   int    `json:"quantity" validate:"required,gte=1"`
}

type CreateOrder struct {
	Items   []OrderItem `json:"items" validate:"required,gt=0,dive"`
	TableID int64       `json:"table_id" validate:"required,gt=0"`
}

type UpdateOrderItems struct {
	Items []OrderItem `json:"items" validate:"required,gt=0,dive"`
}

type UpdateOrderStatus struct {
	Status response.OrderStatus `json:"status" validate:"required,oneof=pending completed cancelled"`
}

type FindOrders struct {
	Status response.OrderStatus `validate:"omitempty,oneof=pending completed cancelled"`
	Search string
}
