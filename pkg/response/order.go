package response

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type OrderItem struct {
	Note             *string         `json:"note"`
	MenuItem         *MenuItem       `json:"menu_item,omitempty"`
	PriceAtOrderTime decimal.Decimal `json:"price_at_order_time"`
	ID               int64           `json:"id"`
	OrderID          int64           `json:"order_id"`
	MenuItemID       int64           `json:"menu_item_id"`
	Quantity         int             `json:"quantity"`
}

// Name falls back to an empty string when the backend did not embed the menu item.
func (i OrderItem) Name() string {
	if i.MenuItem == nil {
		return ""
	}
	return i.MenuItem.Name
}

func (i OrderItem) NoteText() string {
	if i.Note == nil {
		return ""
	}
	return *i.Note
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.PriceAtOrderTime.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Order struct {
	CheckIn     time.Time       `json:"check_in"`
	CheckOut    *time.Time      `json:"check_out"`
	Table       *Table          `json:"table,omitempty"`
	Status      OrderStatus     `json:"status"`
	Items       []OrderItem     `json:"items,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ID          int64           `json:"id"`
	TableID     int64           `json:"table_id"`
}

// Total is the backend total when present, otherwise the sum of item lines
// at their order-time prices.
func (o Order) Total() decimal.Decimal {
	if !o.TotalAmount.IsZero() || len(o.Items) == 0 {
		return o.TotalAmount
	}
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// ActiveOrder is the payload of the active-order endpoint. Order is nil when
// the table has no pending order.
type ActiveOrder struct {
	Order *Order      `json:"order"`
	Items []OrderItem `json:"items"`
}
