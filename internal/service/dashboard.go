package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Alturino/lairai/internal/log"
	"github.com/Alturino/lairai/internal/otel"
	"github.com/Alturino/lairai/internal/repository"
	"github.com/Alturino/lairai/pkg/request"
	"github.com/Alturino/lairai/pkg/response"
)

const recentOrdersLimit = 5

type DashboardService struct {
	repo     *repository.Repository
	payments *PaymentService
}

func NewDashboardService(repo *repository.Repository, payments *PaymentService) *DashboardService {
	return &DashboardService{repo: repo, payments: payments}
}

func (s DashboardService) Stats(c context.Context, now time.Time) (response.DashboardStats, error) {
	c, span := otel.Tracer.Start(c, "DashboardService Stats")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "DashboardService Stats").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding tables").Logger()
	logger.Info().Msg("finding tables")
	tables, err := s.repo.Tables(c)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.DashboardStats{}, err
	}
	logger.Info().Msg("found tables")

	logger = logger.With().Str(log.KeyProcess, "finding pending orders").Logger()
	logger.Info().Msg("finding pending orders")
	pending, err := s.repo.Orders(c, response.OrderStatusPending)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.DashboardStats{}, err
	}
	logger.Info().Msg("found pending orders")

	today := now.In(s.payments.location).Format(time.DateOnly)
	revenue, err := s.payments.Revenue(c, request.Revenue{StartDate: today, EndDate: today})
	if err != nil {
		otel.RecordError(err, span)
		return response.DashboardStats{}, err
	}

	counts := CountTables(tables)
	recent := joinTables(pending, tables)
	if len(recent) > recentOrdersLimit {
		recent = recent[:recentOrdersLimit]
	}
	return response.DashboardStats{
		TotalTables:     counts.Total,
		AvailableTables: counts.Available,
		OccupiedTables:  counts.Occupied,
		ActiveOrders:    len(pending),
		TodayRevenue:    revenue.TotalRevenue,
		TodayOrders:     revenue.TotalOrders,
		RecentOrders:    recent,
	}, nil
}
