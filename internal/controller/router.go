package controller

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/Alturino/lairai/internal/constants"
	"github.com/Alturino/lairai/internal/middleware"
	"github.com/Alturino/lairai/internal/service"
	"github.com/Alturino/lairai/internal/session"
)

type Services struct {
	Tables     *service.TableService
	Menu       *service.MenuService
	Orders     *service.OrderService
	Payments   *service.PaymentService
	Dashboard  *service.DashboardService
	Settlement *service.SettlementService
	Sessions   *session.Manager
}

// NewRouter wires every gateway route with tracing, request logging and panic
// recovery, plus the prometheus /metrics endpoint.
func NewRouter(logger zerolog.Logger, services Services) *mux.Router {
	router := mux.NewRouter()
	router.Use(
		otelmux.Middleware(constants.APP_GATEWAY),
		middleware.Logging(logger),
		middleware.RecoverPanic,
	)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	AttachTableController(router, services.Tables)
	AttachSessionController(router, services.Sessions, services.Menu)
	AttachMenuController(router, services.Menu)
	AttachOrderController(router, services.Orders, services.Settlement)
	AttachPaymentController(router, services.Payments)
	AttachDashboardController(router, services.Dashboard)

	return router
}
