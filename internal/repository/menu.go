package repository

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Alturino/lairai/internal/otel"
	"github.com/Alturino/lairai/internal/store"
	"github.com/Alturino/lairai/pkg/response"
)

func (r *Repository) MenuItems(c context.Context, itemType response.MenuItemType) ([]response.MenuItem, error) {
	c, span := otel.Tracer.Start(c, "Repository MenuItems")
	defer span.End()

	query := url.Values{}
	if itemType != "" {
		query.Set("type", string(itemType))
	}
	items, err := get[[]response.MenuItem](c, r, store.MenuItemsOfType(string(itemType)), "/menu-items", query)
	if err != nil {
		err = fmt.Errorf("failed finding menu items with error=%w", err)
		otel.RecordError(err, span)
		return nil, err
	}
	return items, nil
}

func (r *Repository) MenuItemsByCategory(c context.Context) (response.MenuItemsByCategory, error) {
	c, span := otel.Tracer.Start(c, "Repository MenuItemsByCategory")
	defer span.End()

	grouped, err := get[response.MenuItemsByCategory](
		c,
		r,
		store.MenuItemsByCategory(),
		"/menu-items/grouped/by-category",
		nil,
	)
	if err != nil {
		err = fmt.Errorf("failed finding menu items by category with error=%w", err)
		otel.RecordError(err, span)
		return nil, err
	}
	return grouped, nil
}
