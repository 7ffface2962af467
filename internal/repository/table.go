package repository

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Alturino/lairai/internal/log"
	"github.com/Alturino/lairai/internal/otel"
	"github.com/Alturino/lairai/internal/store"
	"github.com/Alturino/lairai/pkg/request"
	"github.com/Alturino/lairai/pkg/response"
)

func (r *Repository) Tables(c context.Context) ([]response.Table, error) {
	c, span := otel.Tracer.Start(c, "Repository Tables")
	defer span.End()

	tables, err := get[[]response.Table](c, r, store.Tables(), "/tables", nil)
	if err != nil {
		err = fmt.Errorf("failed finding tables with error=%w", err)
		otel.RecordError(err, span)
		return nil, err
	}
	return tables, nil
}

func (r *Repository) AvailableTables(c context.Context) ([]response.Table, error) {
	c, span := otel.Tracer.Start(c, "Repository AvailableTables")
	defer span.End()

	tables, err := get[[]response.Table](c, r, store.AvailableTables(), "/tables/available", nil)
	if err != nil {
		err = fmt.Errorf("failed finding available tables with error=%w", err)
		otel.RecordError(err, span)
		return nil, err
	}
	return tables, nil
}

func (r *Repository) UpdateTableStatus(
	c context.Context,
	tableID int64,
	param request.UpdateTableStatus,
) (response.Table, error) {
	c, span := otel.Tracer.Start(c, "Repository UpdateTableStatus")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Repository UpdateTableStatus").
		Int64(log.KeyTableID, tableID).
		Logger()

	if err := request.Validate(c, param); err != nil {
		err = fmt.Errorf("failed validating table status with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Table{}, err
	}

	table := response.Table{}
	err := r.client.Do(c, http.MethodPatch, fmt.Sprintf("/tables/%d/status", tableID), nil, param, &table)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Table{}, err
	}
	afterWrite(c, span, func() error { return store.TableStatusUpdated(c, r.cache) })
	logger.Info().Msg("updated table status")

	return table, nil
}
