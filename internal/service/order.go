package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Alturino/lairai/internal/log"
	"github.com/Alturino/lairai/internal/otel"
	"github.com/Alturino/lairai/internal/repository"
	"github.com/Alturino/lairai/pkg/request"
	"github.com/Alturino/lairai/pkg/response"
)

type OrderCounts struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}

type OrderService struct {
	repo *repository.Repository
}

func NewOrderService(repo *repository.Repository) *OrderService {
	return &OrderService{repo: repo}
}

// List returns orders joined with their table. Search matches the table name
// or "bàn {id}", case-insensitively.
func (s OrderService) List(c context.Context, param request.FindOrders) ([]response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService List")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService List").
		Str("status", string(param.Status)).
		Str("search", param.Search).
		Logger()

	if err := request.Validate(c, param); err != nil {
		err = fmt.Errorf("failed validating order filter with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	logger = logger.With().Str(log.KeyProcess, "finding orders").Logger()
	logger.Info().Msg("finding orders")
	orders, err := s.repo.Orders(c, param.Status)
	if err != nil {
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Int(log.KeyOrders, len(orders)).Msg("found orders")

	logger = logger.With().Str(log.KeyProcess, "joining tables").Logger()
	logger.Info().Msg("joining tables")
	tables, err := s.repo.Tables(c)
	if err != nil {
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	orders = joinTables(orders, tables)
	logger.Info().Msg("joined tables")

	needle := fold(strings.TrimSpace(param.Search))
	if needle == "" {
		return orders, nil
	}
	filtered := make([]response.Order, 0, len(orders))
	for _, order := range orders {
		if matchesTable(order, needle) {
			filtered = append(filtered, order)
		}
	}
	return filtered, nil
}

// Get returns one order joined with its table.
func (s OrderService) Get(c context.Context, orderID int64) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService Get")
	defer span.End()

	order, err := s.repo.Order(c, orderID)
	if err != nil {
		otel.RecordError(err, span)
		return response.Order{}, err
	}
	tables, err := s.repo.Tables(c)
	if err != nil {
		otel.RecordError(err, span)
		return response.Order{}, err
	}
	return joinTables([]response.Order{order}, tables)[0], nil
}

func CountOrders(orders []response.Order) OrderCounts {
	counts := OrderCounts{Total: len(orders)}
	for _, order := range orders {
		switch order.Status {
		case response.OrderStatusPending:
			counts.Pending++
		case response.OrderStatusCompleted:
			counts.Completed++
		case response.OrderStatusCancelled:
			counts.Cancelled++
		}
	}
	return counts
}

func joinTables(orders []response.Order, tables []response.Table) []response.Order {
	byID := make(map[int64]response.Table, len(tables))
	for _, table := range tables {
		byID[table.ID] = table
	}
	joined := make([]response.Order, len(orders))
	for i, order := range orders {
		if table, ok := byID[order.TableID]; ok && order.Table == nil {
			table := table
			order.Table = &table
		}
		joined[i] = order
	}
	return joined
}

func matchesTable(order response.Order, needle string) bool {
	if strings.Contains(fold(fmt.Sprintf("bàn %d", order.TableID)), needle) {
		return true
	}
	return order.Table != nil && strings.Contains(fold(order.Table.Name), needle)
}
