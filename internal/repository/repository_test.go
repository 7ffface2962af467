package repository

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/lairai/internal/backend"
	"github.com/Alturino/lairai/internal/backend/backendtest"
	"github.com/Alturino/lairai/internal/config"
	inErrors "github.com/Alturino/lairai/internal/errors"
	"github.com/Alturino/lairai/internal/store"
	"github.com/Alturino/lairai/pkg/request"
	"github.com/Alturino/lairai/pkg/response"
)

func newRepository(t *testing.T) (*Repository, *backendtest.Server) {
	t.Helper()
	server := backendtest.New()
	t.Cleanup(server.Close)
	client := backend.NewClient(config.Backend{BaseURL: server.BaseURL(), Timeout: 5 * time.Second})
	return New(client, store.NewMemoryStore(time.Minute)), server
}

func TestRepositoryReadsAreCached(t *testing.T) {
	repo, server := newRepository(t)
	server.AddTable("Bàn 1", response.TableStatusAvailable)
	c := context.Background()

	first, err := repo.Tables(c)
	require.NoError(t, err)
	second, err := repo.Tables(c)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, server.RequestsTo("GET /tables"), 1)
}

func TestRepositoryCreateOrderInvalidatesOrdersAndTables(t *testing.T) {
	repo, server := newRepository(t)
	tableID := server.AddTable("Bàn 1", response.TableStatusAvailable)
	server.AddMenuItem(response.MenuItem{ID: 1, Name: "Phở bò", Price: decimal.NewFromInt(50000)})
	c := context.Background()

	orders, err := repo.Orders(c, "")
	require.NoError(t, err)
	require.Empty(t, orders)
	tables, err := repo.Tables(c)
	require.NoError(t, err)
	require.Equal(t, response.TableStatusAvailable, tables[0].Status)

	created, err := repo.CreateOrder(c, request.CreateOrder{
		TableID: tableID,
		Items:   []request.OrderItem{{MenuItemID: 1, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100000).Equal(created.TotalAmount))

	orders, err = repo.Orders(c, "")
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	tables, err = repo.Tables(c)
	require.NoError(t, err)
	assert.Equal(t, response.TableStatusOccupied, tables[0].Status)
	assert.Len(t, server.RequestsTo("GET /orders"), 2)
}

func TestRepositoryActiveOrder(t *testing.T) {
	tests := []struct {
		name          string
		seed          func(s *backendtest.Server, tableID int64)
		expectedFound bool
		expectedErr   bool
	}{
		{
			name: "given pending order should be found",
			seed: func(s *backendtest.Server, tableID int64) {
				s.AddOrder(tableID, response.OrderStatusPending, response.OrderItem{
					MenuItemID:       1,
					Quantity:         1,
					PriceAtOrderTime: decimal.NewFromInt(50000),
				})
			},
			expectedFound: true,
		},
		{
			name: "given only completed orders should be absent",
			seed: func(s *backendtest.Server, tableID int64) {
				s.AddOrder(tableID, response.OrderStatusCompleted)
			},
		},
		{
			name: "given not found response should be absent",
			seed: func(s *backendtest.Server, tableID int64) {
				s.Fail("GET /orders/table/{tableId}/active", http.StatusNotFound, "No active order", 1)
			},
		},
		{
			name: "given server error should fail",
			seed: func(s *backendtest.Server, tableID int64) {
				s.Fail("GET /orders/table/{tableId}/active", http.StatusInternalServerError, "boom", 1)
			},
			expectedErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			repo, server := newRepository(t)
			tableID := server.AddTable("Bàn 1", response.TableStatusAvailable)
			test.seed(server, tableID)

			active, found, err := repo.ActiveOrder(context.Background(), tableID)
			if test.expectedErr {
				require.Error(t, err)
				assert.Equal(t, "boom", err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expectedFound, found)
			if found {
				assert.Len(t, active.Items, 1)
			}
		})
	}
}

func TestRepositoryActiveOrderIsAlwaysFetchedFresh(t *testing.T) {
	repo, server := newRepository(t)
	tableID := server.AddTable("Bàn 1", response.TableStatusAvailable)
	c := context.Background()

	for i := 0; i < 3; i++ {
		_, _, err := repo.ActiveOrder(c, tableID)
		require.NoError(t, err)
	}
	assert.Len(t, server.RequestsTo("GET /orders/table/{tableId}/active"), 3)
}

func TestRepositoryOrderNotFound(t *testing.T) {
	repo, _ := newRepository(t)

	_, err := repo.Order(context.Background(), 404)

	require.Error(t, err)
	assert.True(t, errors.Is(err, inErrors.ErrOrderNotFound))
}

func TestRepositoryCreatePaymentInvalidatesRevenue(t *testing.T) {
	repo, server := newRepository(t)
	tableID := server.AddTable("Bàn 1", response.TableStatusOccupied)
	orderID := server.AddOrder(tableID, response.OrderStatusPending, response.OrderItem{
		MenuItemID:       1,
		Quantity:         2,
		PriceAtOrderTime: decimal.NewFromInt(30000),
	})
	c := context.Background()
	today := server.Now().Format("2006-01-02")
	revenue := request.Revenue{StartDate: today, EndDate: today}

	before, err := repo.Revenue(c, revenue)
	require.NoError(t, err)
	assert.Equal(t, 0, before.TotalOrders)

	_, err = repo.CreatePayment(c, request.CreatePayment{OrderID: orderID, PaymentMethod: response.PaymentMethodCash})
	require.NoError(t, err)

	after, err := repo.Revenue(c, revenue)
	require.NoError(t, err)
	assert.Equal(t, 1, after.TotalOrders)
	assert.True(t, decimal.NewFromInt(60000).Equal(after.TotalRevenue))
}

func TestRepositoryRejectsInvalidRequests(t *testing.T) {
	repo, server := newRepository(t)
	c := context.Background()

	_, err := repo.CreateOrder(c, request.CreateOrder{TableID: 1})
	assert.Error(t, err)
	_, err = repo.Revenue(c, request.Revenue{StartDate: "19/10/2024"})
	assert.Error(t, err)
	_, err = repo.UpdateTableStatus(c, 1, request.UpdateTableStatus{Status: "broken"})
	assert.Error(t, err)

	assert.Empty(t, server.Requests())
}
