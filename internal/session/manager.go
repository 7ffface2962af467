package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	inErrors "github.com/Alturino/lairai/internal/errors"
	"github.com/Alturino/lairai/internal/log"
	"github.com/Alturino/lairai/internal/otel"
)

// Manager keeps at most one open session per table. Sessions leave the
// manager when they are submitted or cancelled.
type Manager struct {
	gateway  Gateway
	sessions map[int64]*Session
	mu       sync.Mutex
}

func NewManager(gateway Gateway) *Manager {
	return &Manager{gateway: gateway, sessions: map[int64]*Session{}}
}

// Open registers and hydrates a session for tableID. The session is returned
// even when hydration fails so that the caller can retry it.
func (m *Manager) Open(c context.Context, tableID int64) (*Session, View, error) {
	c, span := otel.Tracer.Start(c, "Manager Open")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Manager Open").
		Int64(log.KeyTableID, tableID).
		Logger()

	m.mu.Lock()
	if _, ok := m.sessions[tableID]; ok {
		m.mu.Unlock()
		err := fmt.Errorf("failed opening session for tableId=%d with error=%w", tableID, inErrors.ErrSessionAlreadyOpen)
		otel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
		return nil, View{}, err
	}
	s := New(tableID, m.gateway)
	s.onClose = func() { m.release(tableID, s) }
	m.sessions[tableID] = s
	sessionsOpen.Inc()
	m.mu.Unlock()
	logger.Info().Msg("opened session")

	view, err := s.Open(c)
	if err != nil {
		otel.RecordError(err, span)
		return s, view, err
	}
	return s, view, nil
}

// Get returns the open session of tableID.
func (m *Manager) Get(tableID int64) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[tableID]
	if !ok {
		return nil, fmt.Errorf("failed finding session for tableId=%d with error=%w", tableID, inErrors.ErrSessionNotOpen)
	}
	return s, nil
}

// Len is the number of open sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) release(tableID int64, s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if current, ok := m.sessions[tableID]; ok && current == s {
		delete(m.sessions, tableID)
		sessionsOpen.Dec()
	}
}
