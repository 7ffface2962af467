package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/Alturino/lairai/internal/log"
	"github.com/Alturino/lairai/internal/otel"
	"github.com/Alturino/lairai/internal/store"
	"github.com/Alturino/lairai/pkg/request"
	"github.com/Alturino/lairai/pkg/response"
)

func (r *Repository) Payments(c context.Context) ([]response.Payment, error) {
	c, span := otel.Tracer.Start(c, "Repository Payments")
	defer span.End()

	payments, err := get[[]response.Payment](c, r, store.AllPayments(), "/payments", nil)
	if err != nil {
		err = fmt.Errorf("failed finding payments with error=%w", err)
		otel.RecordError(err, span)
		return nil, err
	}
	return payments, nil
}

func (r *Repository) Revenue(c context.Context, param request.Revenue) (response.RevenueReport, error) {
	c, span := otel.Tracer.Start(c, "Repository Revenue")
	defer span.End()

	if err := request.Validate(c, param); err != nil {
		err = fmt.Errorf("failed validating revenue range with error=%w", err)
		otel.RecordError(err, span)
		return response.RevenueReport{}, err
	}

	query := url.Values{}
	if param.StartDate != "" {
		query.Set("start_date", param.StartDate)
	}
	if param.EndDate != "" {
		query.Set("end_date", param.EndDate)
	}
	report, err := get[response.RevenueReport](
		c,
		r,
		store.RevenueBetween(param.StartDate, param.EndDate),
		"/payments/revenue",
		query,
	)
	if err != nil {
		err = fmt.Errorf("failed finding revenue with error=%w", err)
		otel.RecordError(err, span)
		return response.RevenueReport{}, err
	}
	return report, nil
}

func (r *Repository) CreatePayment(c context.Context, param request.CreatePayment) (response.Payment, error) {
	c, span := otel.Tracer.Start(c, "Repository CreatePayment")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Repository CreatePayment").
		Int64(log.KeyOrderID, param.OrderID).
		Str("paymentMethod", string(param.PaymentMethod)).
		Logger()

	if err := request.Validate(c, param); err != nil {
		err = fmt.Errorf("failed validating payment request with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Payment{}, err
	}

	payment := response.Payment{}
	if err := r.client.Do(c, http.MethodPost, "/payments", nil, param, &payment); err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Payment{}, err
	}
	afterWrite(c, span, func() error { return store.PaymentCreated(c, r.cache) })
	logger.Info().Int64(log.KeyPaymentID, payment.ID).Msg("created payment")

	return payment, nil
}
