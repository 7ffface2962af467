package response

import (
	"time"

	"github.com/shopspring/decimal"
)

type MenuItemType string

const (
	MenuItemTypeFood  MenuItemType = "food"
	MenuItemTypeDrink MenuItemType = "drink"
)

type MenuItem struct {
	CreatedAt time.Time       `json:"created_at"`
	Category  *string         `json:"category"`
	Name      string          `json:"name"`
	Type      MenuItemType    `json:"type"`
	Price     decimal.Decimal `json:"price"`
	ID        int64           `json:"id"`
}

// MenuItemsByCategory is keyed by category name.
type MenuItemsByCategory map[string][]MenuItem

// MenuCategory is one category of a grouped menu, in display order.
type MenuCategory struct {
	Name  string     `json:"name"`
	Items []MenuItem `json:"items"`
}
