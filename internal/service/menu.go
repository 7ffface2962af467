package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	inErrors "github.com/Alturino/lairai/internal/errors"
	"github.com/Alturino/lairai/internal/log"
	"github.com/Alturino/lairai/internal/otel"
	"github.com/Alturino/lairai/internal/repository"
	"github.com/Alturino/lairai/pkg/response"
)

type MenuService struct {
	repo *repository.Repository
}

func NewMenuService(repo *repository.Repository) *MenuService {
	return &MenuService{repo: repo}
}

// Grouped returns the menu by category in Vietnamese collation order. With a
// search term only items whose name contains it are kept and categories left
// empty are dropped.
func (s MenuService) Grouped(c context.Context, search string) ([]response.MenuCategory, error) {
	c, span := otel.Tracer.Start(c, "MenuService Grouped")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "MenuService Grouped").
		Str(log.KeyProcess, "finding menu items by category").
		Logger()

	logger.Info().Msg("finding menu items by category")
	grouped, err := s.repo.MenuItemsByCategory(c)
	if err != nil {
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Int(log.KeyMenuItems, len(grouped)).Msg("found menu items by category")

	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	collate.New(language.Vietnamese).SortStrings(names)

	needle := fold(strings.TrimSpace(search))
	categories := make([]response.MenuCategory, 0, len(names))
	for _, name := range names {
		items := make([]response.MenuItem, 0, len(grouped[name]))
		for _, item := range grouped[name] {
			if needle == "" || strings.Contains(fold(item.Name), needle) {
				items = append(items, item)
			}
		}
		if len(items) == 0 {
			continue
		}
		categories = append(categories, response.MenuCategory{Name: name, Items: items})
	}
	return categories, nil
}

// Find looks a catalog item up by id.
func (s MenuService) Find(c context.Context, menuItemID int64) (response.MenuItem, error) {
	c, span := otel.Tracer.Start(c, "MenuService Find")
	defer span.End()

	items, err := s.repo.MenuItems(c, "")
	if err != nil {
		otel.RecordError(err, span)
		return response.MenuItem{}, err
	}
	for _, item := range items {
		if item.ID == menuItemID {
			return item, nil
		}
	}
	err = fmt.Errorf("failed finding menuItemId=%d with error=%w", menuItemID, inErrors.ErrMenuItemNotFound)
	otel.RecordError(err, span)
	return response.MenuItem{}, err
}

func fold(s string) string {
	return cases.Fold().String(s)
}
