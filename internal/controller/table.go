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

type TableController struct {
	service *service.TableService
}

func AttachTableController(router *mux.Router, service *service.TableService) {
	controller := TableController{service: service}

	tables := router.PathPrefix("/tables").Subrouter()
	tables.HandleFunc("", controller.FindTables).Methods(http.MethodGet)
	tables.HandleFunc("/{tableId}/status", controller.UpdateTableStatus).Methods(http.MethodPatch)
}

func (s *TableController) FindTables(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "TableController FindTables")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "TableController FindTables").
		Str(log.KeyProcess, "finding tables").
		Logger()

	logger.Info().Msg("finding tables")
	c = logger.WithContext(c)
	param := request.FindTables{Status: response.TableStatus(r.URL.Query().Get("status"))}
	tables, err := s.service.List(c, param)
	if err != nil {
		failed(c, w, span, logger, err)
		return
	}
	logger.Info().Int(log.KeyTables, len(tables)).Msg("found tables")

	inHttp.WriteSuccess(c, w, http.StatusOK, "found tables", map[string]interface{}{
		"tables": tables,
		"counts": service.CountTables(tables),
	})
}

func (s *TableController) UpdateTableStatus(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "TableController UpdateTableStatus")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "TableController UpdateTableStatus").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating request").Logger()
	logger.Info().Msg("validating request")
	tableID, err := pathID(r, "tableId")
	if err != nil {
		badRequest(c, w, span, logger, err)
		return
	}
	param := request.UpdateTableStatus{}
	if err = decodeBody(r, &param); err != nil {
		badRequest(c, w, span, logger, err)
		return
	}
	logger = logger.With().Int64(log.KeyTableID, tableID).Logger()
	logger.Info().Msg("validated request")

	logger = logger.With().Str(log.KeyProcess, "updating table status").Logger()
	logger.Info().Msg("updating table status")
	c = logger.WithContext(c)
	table, err := s.service.UpdateStatus(c, tableID, param)
	if err != nil {
		failed(c, w, span, logger, err)
		return
	}
	logger.Info().Msg("updated table status")

	inHttp.WriteSuccess(c, w, http.StatusOK, "updated table status", map[string]interface{}{"table": table})
}
