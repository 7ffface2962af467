package store

import (
	"fmt"
	"strings"
)

// Key names a cached resource. Segments are joined with ':' and invalidation
// matches whole leading segments, so Orders() also drops OrderByID(1) and
// TableActiveOrder(2).
type Key string

func key(segments ...interface{}) Key {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		parts = append(parts, fmt.Sprint(s))
	}
	return Key(strings.Join(parts, ":"))
}

func (k Key) String() string {
	return string(k)
}

// Covers reports whether invalidating k must drop other.
func (k Key) Covers(other Key) bool {
	return other == k || strings.HasPrefix(string(other), string(k)+":")
}

func Tables() Key          { return key("tables") }
func AvailableTables() Key { return key("tables", "available") }
func MenuItems() Key       { return key("menu-items") }

func MenuItemsOfType(itemType string) Key {
	if itemType == "" {
		return key("menu-items", "all")
	}
	return key("menu-items", itemType)
}

func MenuItemsByCategory() Key { return key("menu-items", "by-category") }
func Orders() Key              { return key("orders") }

func OrdersWithStatus(status string) Key {
	if status == "" {
		return key("orders", "all")
	}
	return key("orders", status)
}

func OrderByID(id int64) Key             { return key("orders", id) }
func TableActiveOrder(tableID int64) Key { return key("orders", "table", tableID) }
func Payments() Key                      { return key("payments") }
func AllPayments() Key                   { return key("payments", "all") }
func Revenue() Key                       { return key("payments", "revenue") }

func RevenueBetween(startDate, endDate string) Key {
	return key("payments", "revenue", startDate, endDate)
}
