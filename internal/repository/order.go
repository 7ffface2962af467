package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	inErrors "github.com/Alturino/lairai/internal/errors"
	"github.com/Alturino/lairai/internal/log"
	"github.com/Alturino/lairai/internal/otel"
	"github.com/Alturino/lairai/internal/store"
	"github.com/Alturino/lairai/pkg/request"
	"github.com/Alturino/lairai/pkg/response"
)

func (r *Repository) Orders(c context.Context, status response.OrderStatus) ([]response.Order, error) {
	c, span := otel.Tracer.Start(c, "Repository Orders")
	defer span.End()

	query := url.Values{}
	if status != "" {
		query.Set("status", string(status))
	}
	orders, err := get[[]response.Order](c, r, store.OrdersWithStatus(string(status)), "/orders", query)
	if err != nil {
		err = fmt.Errorf("failed finding orders with error=%w", err)
		otel.RecordError(err, span)
		return nil, err
	}
	return orders, nil
}

func (r *Repository) Order(c context.Context, orderID int64) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "Repository Order")
	defer span.End()

	order, err := get[response.Order](c, r, store.OrderByID(orderID), fmt.Sprintf("/orders/%d", orderID), nil)
	if err != nil {
		if inErrors.IsNotFound(err) {
			err = fmt.Errorf("failed finding orderId=%d with error=%w", orderID, inErrors.ErrOrderNotFound)
		} else {
			err = fmt.Errorf("failed finding orderId=%d with error=%w", orderID, err)
		}
		otel.RecordError(err, span)
		return response.Order{}, err
	}
	return order, nil
}

// ActiveOrder always asks the backend for the pending order of a table and
// refreshes the cache with the answer. A null payload or a 404 means the
// table has no active order.
func (r *Repository) ActiveOrder(c context.Context, tableID int64) (response.ActiveOrder, bool, error) {
	c, span := otel.Tracer.Start(c, "Repository ActiveOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Repository ActiveOrder").
		Int64(log.KeyTableID, tableID).
		Logger()

	active := response.ActiveOrder{}
	err := r.client.Do(c, http.MethodGet, fmt.Sprintf("/orders/table/%d/active", tableID), nil, nil, &active)
	if err != nil && !inErrors.IsNotFound(err) {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.ActiveOrder{}, false, err
	}
	if err != nil {
		active = response.ActiveOrder{}
	}
	if active.Order != nil && len(active.Items) == 0 {
		active.Items = active.Order.Items
	}

	if err = r.cache.Set(c, store.TableActiveOrder(tableID), active); err != nil {
		err = fmt.Errorf("failed caching active order with error=%w", err)
		otel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
	}

	found := active.Order != nil
	logger.Debug().Bool("found", found).Msg("fetched active order")
	return active, found, nil
}

func (r *Repository) CreateOrder(c context.Context, param request.CreateOrder) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "Repository CreateOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Repository CreateOrder").
		Int64(log.KeyTableID, param.TableID).
		Int(log.KeyCartItemsCount, len(param.Items)).
		Logger()

	if err := request.Validate(c, param); err != nil {
		err = fmt.Errorf("failed validating create order request with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}

	order := response.Order{}
	if err := r.client.Do(c, http.MethodPost, "/orders", nil, param, &order); err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	tableID := order.TableID
	if tableID == 0 {
		tableID = param.TableID
	}
	afterWrite(c, span, func() error { return store.OrderCreated(c, r.cache, tableID) })
	logger.Info().Int64(log.KeyOrderID, order.ID).Msg("created order")

	return order, nil
}

func (r *Repository) UpdateOrderItems(
	c context.Context,
	orderID int64,
	param request.UpdateOrderItems,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "Repository UpdateOrderItems")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Repository UpdateOrderItems").
		Int64(log.KeyOrderID, orderID).
		Int(log.KeyCartItemsCount, len(param.Items)).
		Logger()

	if err := request.Validate(c, param); err != nil {
		err = fmt.Errorf("failed validating update order items request with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}

	order := response.Order{}
	err := r.client.Do(c, http.MethodPut, fmt.Sprintf("/orders/%d/items", orderID), nil, param, &order)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	afterWrite(c, span, func() error { return store.OrderItemsUpdated(c, r.cache, orderID, order.TableID) })
	logger.Info().Msg("updated order items")

	return order, nil
}

func (r *Repository) UpdateOrderStatus(
	c context.Context,
	orderID int64,
	param request.UpdateOrderStatus,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "Repository UpdateOrderStatus")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Repository UpdateOrderStatus").
		Int64(log.KeyOrderID, orderID).
		Str("status", string(param.Status)).
		Logger()

	if err := request.Validate(c, param); err != nil {
		err = fmt.Errorf("failed validating order status with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}

	order := response.Order{}
	err := r.client.Do(c, http.MethodPatch, fmt.Sprintf("/orders/%d/status", orderID), nil, param, &order)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	afterWrite(c, span, func() error { return store.OrderStatusUpdated(c, r.cache) })
	logger.Info().Msg("updated order status")

	return order, nil
}
