package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Alturino/lairai/internal/backend"
	"github.com/Alturino/lairai/internal/backend/backendtest"
	"github.com/Alturino/lairai/internal/config"
	"github.com/Alturino/lairai/internal/repository"
	"github.com/Alturino/lairai/internal/store"
	"github.com/Alturino/lairai/pkg/response"
)

func strPtr(s string) *string {
	return &s
}

var menu = []response.MenuItem{
	{ID: 1, Name: "Phở bò", Price: decimal.NewFromInt(50000), Type: response.MenuItemTypeFood, Category: strPtr("Món chính")},
	{ID: 2, Name: "Trà đá", Price: decimal.NewFromInt(5000), Type: response.MenuItemTypeDrink, Category: strPtr("Đồ uống")},
	{ID: 3, Name: "Bia Sài Gòn", Price: decimal.NewFromInt(20000), Type: response.MenuItemTypeDrink, Category: strPtr("Bia")},
	{ID: 4, Name: "Cơm tấm", Price: decimal.NewFromInt(45000), Type: response.MenuItemTypeFood, Category: strPtr("Món chính")},
}

func setup(t *testing.T) (*backendtest.Server, *repository.Repository) {
	t.Helper()
	server := backendtest.New()
	t.Cleanup(server.Close)
	for _, item := range menu {
		server.AddMenuItem(item)
	}
	client := backend.NewClient(config.Backend{BaseURL: server.BaseURL(), Timeout: 5 * time.Second})
	return server, repository.New(client, store.NewMemoryStore(time.Minute))
}
