package controller

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inHttp "github.com/Alturino/lairai/internal/http"
	"github.com/Alturino/lairai/internal/log"
	"github.com/Alturino/lairai/internal/otel"
	"github.com/Alturino/lairai/internal/service"
)

type MenuController struct {
	service *service.MenuService
}

func AttachMenuController(router *mux.Router, service *service.MenuService) {
	controller := MenuController{service: service}
	router.HandleFunc("/menu-items", controller.FindMenu).Methods(http.MethodGet)
}

func (s *MenuController) FindMenu(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "MenuController FindMenu")
	defer span.End()

	search := r.URL.Query().Get("search")
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "MenuController FindMenu").
		Str("search", search).
		Str(log.KeyProcess, "finding menu").
		Logger()

	logger.Info().Msg("finding menu")
	c = logger.WithContext(c)
	categories, err := s.service.Grouped(c, search)
	if err != nil {
		failed(c, w, span, logger, err)
		return
	}
	logger.Info().Msg("found menu")

	inHttp.WriteSuccess(c, w, http.StatusOK, "found menu", map[string]interface{}{"categories": categories})
}
