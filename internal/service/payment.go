package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	inErrors "github.com/Alturino/lairai/internal/errors"
	"github.com/Alturino/lairai/internal/log"
	"github.com/Alturino/lairai/internal/otel"
	"github.com/Alturino/lairai/internal/repository"
	"github.com/Alturino/lairai/pkg/request"
	"github.com/Alturino/lairai/pkg/response"
)

// TodaySummary is the payments of one local day with their revenue.
type TodaySummary struct {
	Date     string                 `json:"date"`
	Payments []response.Payment     `json:"payments"`
	Revenue  response.RevenueReport `json:"revenue"`
}

type PaymentService struct {
	repo     *repository.Repository
	location *time.Location
}

// NewPaymentService reports days in location.
func NewPaymentService(repo *repository.Repository, location *time.Location) *PaymentService {
	if location == nil {
		location = time.UTC
	}
	return &PaymentService{repo: repo, location: location}
}

func (s PaymentService) List(c context.Context) ([]response.Payment, error) {
	c, span := otel.Tracer.Start(c, "PaymentService List")
	defer span.End()

	payments, err := s.repo.Payments(c)
	if err != nil {
		otel.RecordError(err, span)
		return nil, err
	}
	return payments, nil
}

func (s PaymentService) Today(c context.Context, now time.Time) (TodaySummary, error) {
	c, span := otel.Tracer.Start(c, "PaymentService Today")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "PaymentService Today").
		Logger()

	today := now.In(s.location).Format(time.DateOnly)
	logger = logger.With().Str(log.KeyStartDate, today).Str(log.KeyProcess, "finding payments").Logger()
	logger.Info().Msg("finding payments")
	payments, err := s.repo.Payments(c)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return TodaySummary{}, err
	}
	todays := make([]response.Payment, 0, len(payments))
	for _, payment := range payments {
		if payment.PaidAt.In(s.location).Format(time.DateOnly) == today {
			todays = append(todays, payment)
		}
	}
	logger.Info().Int(log.KeyPayments, len(todays)).Msg("found payments")

	revenue, err := s.Revenue(c, request.Revenue{StartDate: today, EndDate: today})
	if err != nil {
		otel.RecordError(err, span)
		return TodaySummary{}, err
	}

	return TodaySummary{Date: today, Payments: todays, Revenue: revenue}, nil
}

func (s PaymentService) Revenue(c context.Context, param request.Revenue) (response.RevenueReport, error) {
	c, span := otel.Tracer.Start(c, "PaymentService Revenue")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "PaymentService Revenue").
		Str(log.KeyStartDate, param.StartDate).
		Str(log.KeyEndDate, param.EndDate).
		Logger()

	if param.StartDate != "" && param.EndDate != "" && param.StartDate > param.EndDate {
		err := fmt.Errorf(
			"failed finding revenue between %s and %s with error=%w",
			param.StartDate,
			param.EndDate,
			inErrors.ErrInvalidDateRange,
		)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.RevenueReport{}, err
	}

	report, err := s.repo.Revenue(c, param)
	if err != nil {
		logger.Error().Err(err).Msg(err.Error())
		return response.RevenueReport{}, err
	}
	logger.Info().Str(log.KeyRevenue, report.TotalRevenue.String()).Msg("found revenue")
	return report, nil
}

// Complete pays a pending order. A nil amount pays the order total and an
// empty method means cash.
func (s PaymentService) Complete(
	c context.Context,
	orderID int64,
	amount *decimal.Decimal,
	method response.PaymentMethod,
) (response.Payment, error) {
	c, span := otel.Tracer.Start(c, "PaymentService Complete")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "PaymentService Complete").
		Int64(log.KeyOrderID, orderID).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding order").Logger()
	logger.Info().Msg("finding order")
	order, err := s.repo.Order(c, orderID)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Payment{}, err
	}
	if order.Status != response.OrderStatusPending {
		err = fmt.Errorf("failed completing orderId=%d with error=%w", orderID, inErrors.ErrOrderNotPending)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Payment{}, err
	}
	logger.Info().Msg("found order")

	if method == "" {
		method = response.PaymentMethodCash
	}
	if amount == nil {
		total := order.Total()
		amount = &total
	}

	logger = logger.With().Str(log.KeyProcess, "creating payment").Logger()
	logger.Info().Msg("creating payment")
	payment, err := s.repo.CreatePayment(c, request.CreatePayment{
		OrderID:       orderID,
		Amount:        amount,
		PaymentMethod: method,
	})
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Payment{}, err
	}
	logger.Info().Int64(log.KeyPaymentID, payment.ID).Msg("created payment")

	return payment, nil
}
