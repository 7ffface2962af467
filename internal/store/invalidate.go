package store

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Alturino/lairai/internal/log"
)

func invalidate(c context.Context, s Store, hook string, keys ...Key) error {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	zerolog.Ctx(c).Debug().
		Str(log.KeyTag, "store "+hook).
		Strs(log.KeyCacheKeys, names).
		Msg("invalidating cache")
	return s.Invalidate(c, keys...)
}

func OrderCreated(c context.Context, s Store, tableID int64) error {
	return invalidate(c, s, "OrderCreated", Orders(), Tables(), TableActiveOrder(tableID))
}

func OrderItemsUpdated(c context.Context, s Store, orderID int64, tableID int64) error {
	return invalidate(c, s, "OrderItemsUpdated", OrderByID(orderID), Orders(), TableActiveOrder(tableID))
}

func OrderStatusUpdated(c context.Context, s Store) error {
	return invalidate(c, s, "OrderStatusUpdated", Orders(), Tables())
}

func TableStatusUpdated(c context.Context, s Store) error {
	return invalidate(c, s, "TableStatusUpdated", Tables())
}

func PaymentCreated(c context.Context, s Store) error {
	return invalidate(c, s, "PaymentCreated", Payments(), Orders(), Tables(), Revenue())
}
