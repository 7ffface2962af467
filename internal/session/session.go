// Package session implements the order-entry session of one table: the cart
// being built, its one-time hydration from the table's active order and its
// submission as either an item replacement or a new order.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Alturino/lairai/internal/cart"
	inErrors "github.com/Alturino/lairai/internal/errors"
	"github.com/Alturino/lairai/internal/log"
	"github.com/Alturino/lairai/internal/otel"
	"github.com/Alturino/lairai/pkg/request"
	"github.com/Alturino/lairai/pkg/response"
)

// Gateway is the part of the backend a session talks to. It is satisfied by
// *repository.Repository.
type Gateway interface {
	ActiveOrder(c context.Context, tableID int64) (response.ActiveOrder, bool, error)
	CreateOrder(c context.Context, param request.CreateOrder) (response.Order, error)
	UpdateOrderItems(c context.Context, orderID int64, param request.UpdateOrderItems) (response.Order, error)
}

type Outcome string

const (
	OutcomeSkipped Outcome = "skipped"
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeFailed  Outcome = "failed"
)

type Result struct {
	Order   *response.Order `json:"order,omitempty"`
	Outcome Outcome         `json:"outcome"`
}

// View is a read-only projection of a session for the presentation layer.
type View struct {
	Mode           Mode            `json:"mode"`
	Error          string          `json:"error,omitempty"`
	Notice         string          `json:"notice,omitempty"`
	Items          []cart.LineItem `json:"items"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	TableID        int64           `json:"table_id"`
	OrderID        int64           `json:"order_id,omitempty"`
	TotalItemCount int             `json:"total_item_count"`
	Pending        bool            `json:"pending"`
}

type Session struct {
	gateway Gateway
	state   State
	onClose func()
	notice  string
	cart    cart.Cart
	tableID int64
	mu      sync.Mutex
	pending bool

	// generation changes on every open, retry and close. A hydration only
	// applies its result while the generation it started with is current.
	generation uint64
}

func New(tableID int64, gateway Gateway) *Session {
	return &Session{tableID: tableID, gateway: gateway, state: Closed{}, cart: cart.New()}
}

func (s *Session) TableID() int64 {
	return s.tableID
}

// Open hydrates the cart from the table's active order. A failed load leaves
// the session open in LoadFailed, from where Retry reloads it.
func (s *Session) Open(c context.Context) (View, error) {
	s.mu.Lock()
	if _, ok := s.state.(Closed); !ok {
		s.mu.Unlock()
		return View{}, fmt.Errorf("failed opening tableId=%d with error=%w", s.tableID, inErrors.ErrSessionAlreadyOpen)
	}
	s.cart = cart.New()
	s.notice = ""
	s.state = Hydrating{TableID: s.tableID}
	s.generation++
	generation := s.generation
	s.mu.Unlock()

	return s.hydrate(c, generation)
}

// Retry reruns hydration after a failed load. In any other open state it
// returns the current view.
func (s *Session) Retry(c context.Context) (View, error) {
	s.mu.Lock()
	switch s.state.(type) {
	case LoadFailed:
		s.state = Hydrating{TableID: s.tableID}
		s.generation++
		generation := s.generation
		s.mu.Unlock()
		return s.hydrate(c, generation)
	case Closed:
		s.mu.Unlock()
		return View{}, fmt.Errorf("failed retrying tableId=%d with error=%w", s.tableID, inErrors.ErrSessionNotOpen)
	default:
		defer s.mu.Unlock()
		return s.view(), nil
	}
}

func (s *Session) hydrate(c context.Context, generation uint64) (View, error) {
	c, span := otel.Tracer.Start(c, "Session hydrate")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Session hydrate").
		Int64(log.KeyTableID, s.tableID).
		Str(log.KeyProcess, "fetching active order").
		Logger()

	logger.Info().Msg("fetching active order")
	active, found, err := s.gateway.ActiveOrder(c, s.tableID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != generation {
		logger.Info().Str(log.KeySessionState, string(s.state.Mode())).Msg("hydration superseded, discarding result")
		return s.view(), nil
	}
	if err != nil {
		s.state = LoadFailed{TableID: s.tableID, Err: err}
		err = fmt.Errorf(
			"failed hydrating tableId=%d with error=%w",
			s.tableID,
			errors.Join(inErrors.ErrHydrationFailed, err),
		)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return s.view(), err
	}

	if !found {
		s.cart = cart.New()
		s.state = Creating{TableID: s.tableID}
		logger.Info().Str(log.KeySessionState, string(ModeCreating)).Msg("no active order, creating")
		return s.view(), nil
	}

	items := active.Items
	if len(items) == 0 {
		items = active.Order.Items
	}
	s.cart = cart.FromOrderItems(items)
	s.state = Editing{TableID: s.tableID, Order: *active.Order}
	logger.Info().
		Str(log.KeySessionState, string(ModeEditing)).
		Int64(log.KeyOrderID, active.Order.ID).
		Int(log.KeyCartItemsCount, s.cart.Len()).
		Msg("hydrated cart from active order")
	return s.view(), nil
}

// mutate applies fn to the cart when the session accepts edits.
func (s *Session) mutate(c context.Context, tag string, fn func(cart.Cart) cart.Cart) (View, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Session "+tag).
		Int64(log.KeyTableID, s.tableID).
		Logger()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkEditable(); err != nil {
		err = fmt.Errorf("failed %s with error=%w", tag, err)
		logger.Warn().Err(err).Msg(err.Error())
		return s.view(), err
	}
	s.cart = fn(s.cart)
	logger.Debug().Int(log.KeyCartItemsCount, s.cart.Len()).Msg("updated cart")
	return s.view(), nil
}

func (s *Session) checkEditable() error {
	switch st := s.state.(type) {
	case Closed:
		return inErrors.ErrSessionNotOpen
	case LoadFailed:
		return errors.Join(inErrors.ErrHydrationFailed, st.Err)
	case Hydrating:
		return inErrors.ErrSessionLoading
	}
	if s.pending {
		return inErrors.ErrSubmissionPending
	}
	return nil
}

func (s *Session) Add(c context.Context, item response.MenuItem) (View, error) {
	return s.mutate(c, "Add", func(ct cart.Cart) cart.Cart { return ct.Add(item) })
}

func (s *Session) ChangeQuantity(c context.Context, menuItemID int64, delta int) (View, error) {
	return s.mutate(c, "ChangeQuantity", func(ct cart.Cart) cart.Cart { return ct.ChangeQuantity(menuItemID, delta) })
}

func (s *Session) SetNote(c context.Context, menuItemID int64, note string) (View, error) {
	return s.mutate(c, "SetNote", func(ct cart.Cart) cart.Cart { return ct.SetNote(menuItemID, note) })
}

func (s *Session) Remove(c context.Context, menuItemID int64) (View, error) {
	return s.mutate(c, "Remove", func(ct cart.Cart) cart.Cart { return ct.Remove(menuItemID) })
}

// Submit sends the cart to the backend. An empty cart is skipped without a
// request. On success the session closes; on failure cart and state are kept
// and the backend message is recorded as the session notice.
func (s *Session) Submit(c context.Context) (Result, error) {
	c, span := otel.Tracer.Start(c, "Session Submit")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Session Submit").
		Int64(log.KeyTableID, s.tableID).
		Logger()

	s.mu.Lock()
	if err := s.checkEditable(); err != nil {
		s.mu.Unlock()
		err = fmt.Errorf("failed submitting tableId=%d with error=%w", s.tableID, err)
		otel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
		return Result{}, err
	}
	state := s.state
	snapshot := s.cart
	if snapshot.IsEmpty() {
		s.mu.Unlock()
		submissionsTotal.WithLabelValues(string(state.Mode()), string(OutcomeSkipped)).Inc()
		logger.Info().Msg("cart is empty, skipping submission")
		return Result{Outcome: OutcomeSkipped}, nil
	}
	s.pending = true
	s.notice = ""
	s.mu.Unlock()

	logger = logger.With().
		Str(log.KeySessionState, string(state.Mode())).
		Int(log.KeyCartItemsCount, snapshot.Len()).
		Str(log.KeyCartTotalAmount, snapshot.TotalAmount().String()).
		Logger()

	var (
		order   response.Order
		err     error
		outcome Outcome
	)
	items := snapshot.OrderItems()
	switch st := state.(type) {
	case Editing:
		logger = logger.With().Int64(log.KeyOrderID, st.Order.ID).Str(log.KeyProcess, "updating order items").Logger()
		logger.Info().Msg("updating order items")
		order, err = s.gateway.UpdateOrderItems(c, st.Order.ID, request.UpdateOrderItems{Items: items})
		outcome = OutcomeUpdated
	case Creating:
		logger = logger.With().Str(log.KeyProcess, "creating order").Logger()
		logger.Info().Msg("creating order")
		order, err = s.gateway.CreateOrder(c, request.CreateOrder{TableID: s.tableID, Items: items})
		outcome = OutcomeCreated
	}

	s.mu.Lock()
	s.pending = false
	if err != nil {
		s.notice = noticeFromError(err)
		s.mu.Unlock()
		submissionsTotal.WithLabelValues(string(state.Mode()), string(OutcomeFailed)).Inc()
		err = fmt.Errorf("failed submitting tableId=%d with error=%w", s.tableID, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Result{}, err
	}
	s.close()
	onClose := s.onClose
	s.mu.Unlock()
	if onClose != nil {
		onClose()
	}

	submissionsTotal.WithLabelValues(string(state.Mode()), string(outcome)).Inc()
	logger.Info().Int64(log.KeyOrderID, order.ID).Str("outcome", string(outcome)).Msg("submitted cart")
	return Result{Outcome: outcome, Order: &order}, nil
}

// Cancel closes the session and discards the cart. It is rejected while a
// submission is in flight.
func (s *Session) Cancel(c context.Context) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Session Cancel").
		Int64(log.KeyTableID, s.tableID).
		Logger()

	s.mu.Lock()
	if _, ok := s.state.(Closed); ok {
		s.mu.Unlock()
		return fmt.Errorf("failed cancelling tableId=%d with error=%w", s.tableID, inErrors.ErrSessionNotOpen)
	}
	if s.pending {
		s.mu.Unlock()
		err := fmt.Errorf("failed cancelling tableId=%d with error=%w", s.tableID, inErrors.ErrSubmissionPending)
		logger.Warn().Err(err).Msg(err.Error())
		return err
	}
	s.close()
	onClose := s.onClose
	s.mu.Unlock()
	if onClose != nil {
		onClose()
	}

	logger.Info().Msg("cancelled session")
	return nil
}

// close must be called with mu held.
func (s *Session) close() {
	s.generation++
	s.state = Closed{}
	s.cart = cart.New()
	s.notice = ""
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Cart() cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart
}

func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

func (s *Session) view() View {
	v := View{
		Mode:           s.state.Mode(),
		TableID:        s.tableID,
		Items:          s.cart.Items(),
		TotalAmount:    s.cart.TotalAmount(),
		TotalItemCount: s.cart.TotalItemCount(),
		Pending:        s.pending,
		Notice:         s.notice,
	}
	switch st := s.state.(type) {
	case Editing:
		v.OrderID = st.Order.ID
	case LoadFailed:
		v.Error = st.Err.Error()
	}
	return v
}

func noticeFromError(err error) string {
	var apiErr *inErrors.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return inErrors.DefaultAPIMessage
}
