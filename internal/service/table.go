package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Alturino/lairai/internal/log"
	"github.com/Alturino/lairai/internal/otel"
	"github.com/Alturino/lairai/internal/repository"
	"github.com/Alturino/lairai/pkg/request"
	"github.com/Alturino/lairai/pkg/response"
)

type TableCounts struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Occupied  int `json:"occupied"`
}

type TableService struct {
	repo *repository.Repository
}

func NewTableService(repo *repository.Repository) *TableService {
	return &TableService{repo: repo}
}

func (s TableService) List(c context.Context, param request.FindTables) ([]response.Table, error) {
	c, span := otel.Tracer.Start(c, "TableService List")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "TableService List").
		Str("status", string(param.Status)).
		Logger()

	if err := request.Validate(c, param); err != nil {
		err = fmt.Errorf("failed validating table filter with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	logger = logger.With().Str(log.KeyProcess, "finding tables").Logger()
	logger.Info().Msg("finding tables")
	var (
		tables []response.Table
		err    error
	)
	if param.Status == response.TableStatusAvailable {
		tables, err = s.repo.AvailableTables(c)
	} else {
		tables, err = s.repo.Tables(c)
	}
	if err != nil {
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	filtered := make([]response.Table, 0, len(tables))
	for _, table := range tables {
		if param.Status == "" || table.Status == param.Status {
			filtered = append(filtered, table)
		}
	}
	logger.Info().Int(log.KeyTables, len(filtered)).Msg("found tables")

	return filtered, nil
}

func (s TableService) UpdateStatus(
	c context.Context,
	tableID int64,
	param request.UpdateTableStatus,
) (response.Table, error) {
	c, span := otel.Tracer.Start(c, "TableService UpdateStatus")
	defer span.End()

	table, err := s.repo.UpdateTableStatus(c, tableID, param)
	if err != nil {
		otel.RecordError(err, span)
		return response.Table{}, err
	}
	return table, nil
}

func CountTables(tables []response.Table) TableCounts {
	counts := TableCounts{Total: len(tables)}
	for _, table := range tables {
		switch table.Status {
		case response.TableStatusAvailable:
			counts.Available++
		case response.TableStatusOccupied:
			counts.Occupied++
		}
	}
	return counts
}
