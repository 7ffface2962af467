package controller

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inHttp "github.com/Alturino/lairai/internal/http"
	"github.com/Alturino/lairai/internal/log"
	"github.com/Alturino/lairai/internal/otel"
	"github.com/Alturino/lairai/internal/service"
	"github.com/Alturino/lairai/internal/session"
	"github.com/Alturino/lairai/pkg/request"
)

type SessionController struct {
	manager *session.Manager
	menu    *service.MenuService
}

func AttachSessionController(router *mux.Router, manager *session.Manager, menu *service.MenuService) {
	controller := SessionController{manager: manager, menu: menu}

	sessions := router.PathPrefix("/tables/{tableId}/session").Subrouter()
	sessions.HandleFunc("", controller.OpenSession).Methods(http.MethodPost)
	sessions.HandleFunc("", controller.ViewSession).Methods(http.MethodGet)
	sessions.HandleFunc("", controller.CancelSession).Methods(http.MethodDelete)
	sessions.HandleFunc("/retry", controller.RetrySession).Methods(http.MethodPost)
	sessions.HandleFunc("/submit", controller.SubmitSession).Methods(http.MethodPost)
	sessions.HandleFunc("/items", controller.AddItem).Methods(http.MethodPost)
	sessions.HandleFunc("/items/{menuItemId}", controller.ChangeQuantity).Methods(http.MethodPatch)
	sessions.HandleFunc("/items/{menuItemId}", controller.RemoveItem).Methods(http.MethodDelete)
	sessions.HandleFunc("/items/{menuItemId}/note", controller.SetNote).Methods(http.MethodPut)
}

func (s *SessionController) OpenSession(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "SessionController OpenSession")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "SessionController OpenSession").
		Logger()

	tableID, err := pathID(r, "tableId")
	if err != nil {
		badRequest(c, w, span, logger, err)
		return
	}
	logger = logger.With().Int64(log.KeyTableID, tableID).Str(log.KeyProcess, "opening session").Logger()

	logger.Info().Msg("opening session")
	c = logger.WithContext(c)
	_, view, err := s.manager.Open(c, tableID)
	if err != nil {
		failed(c, w, span, logger, err)
		return
	}
	logger.Info().Str(log.KeySessionState, string(view.Mode)).Msg("opened session")

	inHttp.WriteSuccess(c, w, http.StatusCreated, "opened session", map[string]interface{}{"session": view})
}

// handle resolves the open session of the request's table and runs fn on it.
func (s *SessionController) handle(
	w http.ResponseWriter,
	r *http.Request,
	tag string,
	message string,
	fn func(c context.Context, ss *session.Session) (interface{}, error),
) {
	c, span := otel.Tracer.Start(r.Context(), "SessionController "+tag)
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "SessionController "+tag).
		Logger()

	tableID, err := pathID(r, "tableId")
	if err != nil {
		badRequest(c, w, span, logger, err)
		return
	}
	logger = logger.With().Int64(log.KeyTableID, tableID).Logger()

	ss, err := s.manager.Get(tableID)
	if err != nil {
		failed(c, w, span, logger, err)
		return
	}

	c = logger.WithContext(c)
	data, err := fn(c, ss)
	if err != nil {
		failed(c, w, span, logger, err)
		return
	}
	logger.Info().Msg(message)

	inHttp.WriteSuccess(c, w, http.StatusOK, message, map[string]interface{}{"session": data})
}

func (s *SessionController) ViewSession(w http.ResponseWriter, r *http.Request) {
	s.handle(w, r, "ViewSession", "found session", func(c context.Context, ss *session.Session) (interface{}, error) {
		return ss.View(), nil
	})
}

func (s *SessionController) RetrySession(w http.ResponseWriter, r *http.Request) {
	s.handle(w, r, "RetrySession", "reloaded session", func(c context.Context, ss *session.Session) (interface{}, error) {
		return ss.Retry(c)
	})
}

func (s *SessionController) CancelSession(w http.ResponseWriter, r *http.Request) {
	s.handle(w, r, "CancelSession", "cancelled session", func(c context.Context, ss *session.Session) (interface{}, error) {
		if err := ss.Cancel(c); err != nil {
			return nil, err
		}
		return ss.View(), nil
	})
}

func (s *SessionController) SubmitSession(w http.ResponseWriter, r *http.Request) {
	s.handle(w, r, "SubmitSession", "submitted session", func(c context.Context, ss *session.Session) (interface{}, error) {
		result, err := ss.Submit(c)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"result": result, "view": ss.View()}, nil
	})
}

func (s *SessionController) AddItem(w http.ResponseWriter, r *http.Request) {
	param := request.AddCartItem{}
	decodeErr := decodeBody(r, &param)
	s.handle(w, r, "AddItem", "added item", func(c context.Context, ss *session.Session) (interface{}, error) {
		if decodeErr != nil {
			return nil, decodeErr
		}
		if err := request.Validate(c, param); err != nil {
			return nil, err
		}
		item, err := s.menu.Find(c, param.MenuItemID)
		if err != nil {
			return nil, err
		}
		return ss.Add(c, item)
	})
}

func (s *SessionController) ChangeQuantity(w http.ResponseWriter, r *http.Request) {
	param := request.ChangeQuantity{}
	decodeErr := decodeBody(r, &param)
	menuItemID, idErr := pathID(r, "menuItemId")
	s.handle(w, r, "ChangeQuantity", "changed quantity", func(c context.Context, ss *session.Session) (interface{}, error) {
		if idErr != nil {
			return nil, idErr
		}
		if decodeErr != nil {
			return nil, decodeErr
		}
		if err := request.Validate(c, param); err != nil {
			return nil, err
		}
		return ss.ChangeQuantity(c, menuItemID, param.Delta)
	})
}

func (s *SessionController) SetNote(w http.ResponseWriter, r *http.Request) {
	param := request.SetNote{}
	decodeErr := decodeBody(r, &param)
	menuItemID, idErr := pathID(r, "menuItemId")
	s.handle(w, r, "SetNote", "set note", func(c context.Context, ss *session.Session) (interface{}, error) {
		if idErr != nil {
			return nil, idErr
		}
		if decodeErr != nil {
			return nil, decodeErr
		}
		if err := request.Validate(c, param); err != nil {
			return nil, err
		}
		return ss.SetNote(c, menuItemID, param.Note)
	})
}

func (s *SessionController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	menuItemID, idErr := pathID(r, "menuItemId")
	s.handle(w, r, "RemoveItem", "removed item", func(c context.Context, ss *session.Session) (interface{}, error) {
		if idErr != nil {
			return nil, idErr
		}
		return ss.Remove(c, menuItemID)
	})
}
