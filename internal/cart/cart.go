// Package cart holds the working set of lines of an order being built or
// edited. A Cart is a value: every mutation returns a new Cart and leaves the
// receiver untouched, so a caller can keep the previous state around (for
// example while a submission is in flight).
//
// Invariants kept by every operation:
//   - menu item ids are unique across lines, quantities accumulate instead
//   - every line has quantity >= 1, a line reaching 0 is removed
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/Alturino/lairai/pkg/request"
	"github.com/Alturino/lairai/pkg/response"
)

// LineItem is one cart line. Name and UnitPrice are a snapshot taken when the
// line was created and do not follow later catalog changes.
type LineItem struct {
	Name       string          `json:"name"`
	Note       string          `json:"note"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	MenuItemID int64           `json:"menu_item_id"`
	Quantity   int             `json:"quantity"`
}

func (l LineItem) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Cart struct {
	items []LineItem
}

func New() Cart {
	return Cart{}
}

// FromOrderItems hydrates a cart from persisted order lines, using the price
// charged at order time as the working unit price. Lines with a non-positive
// quantity are dropped and repeated menu items are merged.
func FromOrderItems(items []response.OrderItem) Cart {
	c := Cart{items: make([]LineItem, 0, len(items))}
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		if i := c.index(item.MenuItemID); i >= 0 {
			c.items[i].Quantity += item.Quantity
			continue
		}
		c.items = append(c.items, LineItem{
			MenuItemID: item.MenuItemID,
			Name:       item.Name(),
			UnitPrice:  item.PriceAtOrderTime,
			Quantity:   item.Quantity,
			Note:       item.NoteText(),
		})
	}
	return c
}

func (c Cart) index(menuItemID int64) int {
	for i, item := range c.items {
		if item.MenuItemID == menuItemID {
			return i
		}
	}
	return -1
}

func (c Cart) clone() Cart {
	items := make([]LineItem, len(c.items))
	copy(items, c.items)
	return Cart{items: items}
}

// Add increments the line of the catalog item or appends a new line with
// quantity 1 priced at the item's current price.
func (c Cart) Add(item response.MenuItem) Cart {
	next := c.clone()
	if i := next.index(item.ID); i >= 0 {
		next.items[i].Quantity++
		return next
	}
	next.items = append(next.items, LineItem{
		MenuItemID: item.ID,
		Name:       item.Name,
		UnitPrice:  item.Price,
		Quantity:   1,
	})
	return next
}

// ChangeQuantity applies delta to the matching line and drops the line when
// the result is not positive. Unknown ids are ignored.
func (c Cart) ChangeQuantity(menuItemID int64, delta int) Cart {
	i := c.index(menuItemID)
	if i < 0 {
		return c
	}
	next := c.clone()
	quantity := next.items[i].Quantity + delta
	if quantity <= 0 {
		next.items = append(next.items[:i], next.items[i+1:]...)
		return next
	}
	next.items[i].Quantity = quantity
	return next
}

func (c Cart) SetNote(menuItemID int64, note string) Cart {
	i := c.index(menuItemID)
	if i < 0 {
		return c
	}
	next := c.clone()
	next.items[i].Note = note
	return next
}

func (c Cart) Remove(menuItemID int64) Cart {
	i := c.index(menuItemID)
	if i < 0 {
		return c
	}
	next := c.clone()
	next.items = append(next.items[:i], next.items[i+1:]...)
	return next
}

// Items returns a copy of the lines in insertion order.
func (c Cart) Items() []LineItem {
	items := make([]LineItem, len(c.items))
	copy(items, c.items)
	return items
}

func (c Cart) Find(menuItemID int64) (LineItem, bool) {
	i := c.index(menuItemID)
	if i < 0 {
		return LineItem{}, false
	}
	return c.items[i], true
}

func (c Cart) Len() int {
	return len(c.items)
}

func (c Cart) IsEmpty() bool {
	return len(c.items) == 0
}

func (c Cart) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Total())
	}
	return total
}

func (c Cart) TotalItemCount() int {
	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

// OrderItems is the write shape sent to the backend. Prices are left out.
func (c Cart) OrderItems() []request.OrderItem {
	items := make([]request.OrderItem, 0, len(c.items))
	for _, item := range c.items {
		items = append(items, request.OrderItem{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
			Note:       item.Note,
		})
	}
	return items
}
