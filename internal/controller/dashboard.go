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
)

type DashboardController struct {
	service *service.DashboardService
	now     func() time.Time
}

func AttachDashboardController(router *mux.Router, service *service.DashboardService) {
	controller := DashboardController{service: service, now: time.Now}
	router.HandleFunc("/dashboard", controller.FindStats).Methods(http.MethodGet)
}

func (s *DashboardController) FindStats(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "DashboardController FindStats")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "DashboardController FindStats").
		Str(log.KeyProcess, "finding dashboard stats").
		Logger()

	logger.Info().Msg("finding dashboard stats")
	c = logger.WithContext(c)
	stats, err := s.service.Stats(c, s.now())
	if err != nil {
		failed(c, w, span, logger, err)
		return
	}
	logger.Info().Msg("found dashboard stats")

	inHttp.WriteSuccess(c, w, http.StatusOK, "found dashboard stats", map[string]interface{}{"stats": stats})
}
