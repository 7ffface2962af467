package controller

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inHttp "github.com/Alturino/lairai/internal/http"
	"github.com/Alturino/lairai/internal/log"
	"github.com/Alturino/lairai/internal/otel"
	"github.com/Alturino/lairai/internal/service"
	"github.com/Alturino/lairai/pkg/request"
)

type PaymentController struct {
	service *service.PaymentService
	now     func() time.Time
}

func AttachPaymentController(router *mux.Router, service *service.PaymentService) {
	controller := PaymentController{service: service, now: time.Now}

	sub := router.PathPrefix("/payments").Subrouter()
	sub.HandleFunc("", controller.FindPayments).Methods(http.MethodGet)
	sub.HandleFunc("", controller.CreatePayment).Methods(http.MethodPost)
	sub.HandleFunc("/today", controller.FindTodayPayments).Methods(http.MethodGet)
	sub.HandleFunc("/revenue", controller.FindRevenue).Methods(http.MethodGet)
}

func (s *PaymentController) FindPayments(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "PaymentController FindPayments")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "PaymentController FindPayments").
		Str(log.KeyProcess, "finding payments").
		Logger()

	logger.Info().Msg("finding payments")
	c = logger.WithContext(c)
	payments, err := s.service.List(c)
	if err != nil {
		failed(c, w, span, logger, err)
		return
	}
	logger.Info().Int(log.KeyPayments, len(payments)).Msg("found payments")

	inHttp.WriteSuccess(c, w, http.StatusOK, "found payments", map[string]interface{}{"payments": payments})
}

func (s *PaymentController) FindTodayPayments(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "PaymentController FindTodayPayments")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "PaymentController FindTodayPayments").
		Str(log.KeyProcess, "finding today payments").
		Logger()

	logger.Info().Msg("finding today payments")
	c = logger.WithContext(c)
	summary, err := s.service.Today(c, s.now())
	if err != nil {
		failed(c, w, span, logger, err)
		return
	}
	logger.Info().Msg("found today payments")

	inHttp.WriteSuccess(c, w, http.StatusOK, "found today payments", map[string]interface{}{"today": summary})
}

func (s *PaymentController) FindRevenue(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "PaymentController FindRevenue")
	defer span.End()

	param := request.Revenue{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "PaymentController FindRevenue").
		Str(log.KeyStartDate, param.StartDate).
		Str(log.KeyEndDate, param.EndDate).
		Str(log.KeyProcess, "finding revenue").
		Logger()

	logger.Info().Msg("finding revenue")
	c = logger.WithContext(c)
	report, err := s.service.Revenue(c, param)
	if err != nil {
		failed(c, w, span, logger, err)
		return
	}
	logger.Info().Msg("found revenue")

	inHttp.WriteSuccess(c, w, http.StatusOK, "found revenue", map[string]interface{}{"revenue": report})
}

func (s *PaymentController) CreatePayment(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "PaymentController CreatePayment")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "PaymentController CreatePayment").
		Logger()

	param := request.CreatePayment{}
	if err := decodeBody(r, &param); err != nil {
		badRequest(c, w, span, logger, err)
		return
	}
	logger = logger.With().Int64(log.KeyOrderID, param.OrderID).Str(log.KeyProcess, "completing payment").Logger()

	logger.Info().Msg("completing payment")
	c = logger.WithContext(c)
	payment, err := s.service.Complete(c, param.OrderID, param.Amount, param.PaymentMethod)
	if err != nil {
		failed(c, w, span, logger, err)
		return
	}
	logger.Info().Int64(log.KeyPaymentID, payment.ID).Msg("completed payment")

	inHttp.WriteSuccess(c, w, http.StatusCreated, "completed payment", map[string]interface{}{"payment": payment})
}
