package controller

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inHttp "github.com/Alturino/lairai/internal/http"
	"github.com/Alturino/lairai/internal/log"
	"github.com/Alturino/lairai/internal/otel"
	"github.com/Alturino/lairai/internal/service"
	"github.com/Alturino/lairai/pkg/request"
	"github.com/Alturino/lairai/pkg/response"
)

type OrderController struct {
	orders     *service.OrderService
	settlement *service.SettlementService
}

func AttachOrderController(
	router *mux.Router,
	orders *service.OrderService,
	settlement *service.SettlementService,
) {
	controller := OrderController{orders: orders, settlement: settlement}

	sub := router.PathPrefix("/orders").Subrouter()
	sub.HandleFunc("", controller.FindOrders).Methods(http.MethodGet)
	sub.HandleFunc("/{orderId}/receipt", controller.FindReceipt).Methods(http.MethodGet)
}

func (s *OrderController) FindOrders(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController FindOrders")
	defer span.End()

	param := request.FindOrders{
		Status: response.OrderStatus(r.URL.Query().Get("status")),
		Search: r.URL.Query().Get("search"),
	}
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController FindOrders").
		Str(log.KeyProcess, "finding orders").
		Logger()

	logger.Info().Msg("finding orders")
	c = logger.WithContext(c)
	orders, err := s.orders.List(c, param)
	if err != nil {
		failed(c, w, span, logger, err)
		return
	}
	logger.Info().Int(log.KeyOrders, len(orders)).Msg("found orders")

	inHttp.WriteSuccess(c, w, http.StatusOK, "found orders", map[string]interface{}{
		"orders": orders,
		"counts": service.CountOrders(orders),
	})
}

func (s *OrderController) FindReceipt(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController FindReceipt")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController FindReceipt").
		Logger()

	orderID, err := pathID(r, "orderId")
	if err != nil {
		badRequest(c, w, span, logger, err)
		return
	}
	logger = logger.With().Int64(log.KeyOrderID, orderID).Str(log.KeyProcess, "rendering receipt").Logger()

	logger.Info().Msg("rendering receipt")
	c = logger.WithContext(c)
	bill, err := s.settlement.Receipt(c, orderID)
	if err != nil {
		failed(c, w, span, logger, err)
		return
	}
	logger.Info().Msg("rendered receipt")

	w.Header().Set(inHttp.KEY_HEADER_CONTENT_TYPE, inHttp.VALUE_HEADER_TEXT_PLAIN_UTF8)
	w.WriteHeader(http.StatusOK)
	if _, err = w.Write([]byte(bill)); err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}
}
