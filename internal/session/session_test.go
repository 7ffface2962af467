package session

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/lairai/internal/cart"
	inErrors "github.com/Alturino/lairai/internal/errors"
	"github.com/Alturino/lairai/pkg/request"
	"github.com/Alturino/lairai/pkg/response"
)

var (
	phoBo = response.MenuItem{ID: 1, Name: "Phở bò", Price: decimal.NewFromInt(50000)}
	traDa = response.MenuItem{ID: 2, Name: "Trà đá", Price: decimal.NewFromInt(5000)}
)

var cmpDecimal = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func activeOrder(orderID int64, items ...response.OrderItem) response.ActiveOrder {
	order := response.Order{ID: orderID, TableID: 5, Status: response.OrderStatusPending, Items: items}
	return response.ActiveOrder{Order: &order, Items: items}
}

func openSession(t *testing.T, g *fakeGateway) *Session {
	t.Helper()
	s := New(5, g)
	_, err := s.Open(context.Background())
	require.NoError(t, err)
	return s
}

func TestSessionHydration(t *testing.T) {
	note := "ít đường"
	tests := []struct {
		name          string
		gateway       *fakeGateway
		expectedMode  Mode
		expectedItems []cart.LineItem
		expectedErr   error
	}{
		{
			name: "given active order should hydrate cart with order time prices",
			gateway: &fakeGateway{
				found: true,
				active: activeOrder(42, response.OrderItem{
					MenuItemID:       7,
					Quantity:         2,
					PriceAtOrderTime: decimal.NewFromInt(50000),
					Note:             &note,
					MenuItem:         &response.MenuItem{ID: 7, Name: "Cà phê đen", Price: decimal.NewFromInt(55000)},
				}),
			},
			expectedMode: ModeEditing,
			expectedItems: []cart.LineItem{
				{MenuItemID: 7, Name: "Cà phê đen", Quantity: 2, UnitPrice: decimal.NewFromInt(50000), Note: "ít đường"},
			},
		},
		{
			name:          "given no active order should start an empty cart in create mode",
			gateway:       &fakeGateway{},
			expectedMode:  ModeCreating,
			expectedItems: []cart.LineItem{},
		},
		{
			name:          "given fetch failure should not fall through to create mode",
			gateway:       &fakeGateway{activeErr: &inErrors.APIError{StatusCode: http.StatusInternalServerError, Message: "boom"}},
			expectedMode:  ModeLoadFailed,
			expectedItems: []cart.LineItem{},
			expectedErr:   inErrors.ErrHydrationFailed,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := New(5, test.gateway)

			view, err := s.Open(context.Background())

			if test.expectedErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, test.expectedErr))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, test.expectedMode, view.Mode)
			if diff := cmp.Diff(test.expectedItems, view.Items, cmpDecimal); diff != "" {
				t.Errorf("hydrated cart mismatch (-expected +actual):\n%s", diff)
			}
		})
	}
}

func TestSessionEditingStateCarriesOrder(t *testing.T) {
	s := openSession(t, &fakeGateway{found: true, active: activeOrder(42)})

	state, ok := s.State().(Editing)
	require.True(t, ok)
	assert.Equal(t, int64(42), state.Order.ID)
	assert.Equal(t, int64(42), s.View().OrderID)
}

func TestSessionRetryAfterLoadFailure(t *testing.T) {
	g := &fakeGateway{activeErr: errors.New("connection refused")}
	s := New(5, g)

	view, err := s.Open(context.Background())
	require.Error(t, err)
	assert.Equal(t, ModeLoadFailed, view.Mode)
	assert.Equal(t, "connection refused", view.Error)

	_, err = s.Add(context.Background(), phoBo)
	assert.True(t, errors.Is(err, inErrors.ErrHydrationFailed))

	g.activeErr = nil
	view, err = s.Retry(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ModeCreating, view.Mode)
	assert.Equal(t, 2, g.activeCalls)
}

func TestSessionSubmit(t *testing.T) {
	tests := []struct {
		name            string
		gateway         *fakeGateway
		expectedOutcome Outcome
		expectedCreate  []request.CreateOrder
		expectedUpdate  []request.UpdateOrderItems
	}{
		{
			name:            "given create mode should post new order with table id",
			gateway:         &fakeGateway{},
			expectedOutcome: OutcomeCreated,
			expectedCreate: []request.CreateOrder{{
				TableID: 5,
				Items: []request.OrderItem{
					{MenuItemID: 1, Quantity: 2, Note: "không hành"},
					{MenuItemID: 2, Quantity: 1},
				},
			}},
		},
		{
			name:            "given editing mode should replace items of active order",
			gateway:         &fakeGateway{found: true, active: activeOrder(42)},
			expectedOutcome: OutcomeUpdated,
			expectedUpdate: []request.UpdateOrderItems{{
				Items: []request.OrderItem{
					{MenuItemID: 1, Quantity: 2, Note: "không hành"},
					{MenuItemID: 2, Quantity: 1},
				},
			}},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := context.Background()
			s := openSession(t, test.gateway)
			_, err := s.Add(c, phoBo)
			require.NoError(t, err)
			_, err = s.Add(c, phoBo)
			require.NoError(t, err)
			_, err = s.Add(c, traDa)
			require.NoError(t, err)
			_, err = s.SetNote(c, phoBo.ID, "không hành")
			require.NoError(t, err)

			result, err := s.Submit(c)

			require.NoError(t, err)
			assert.Equal(t, test.expectedOutcome, result.Outcome)
			require.NotNil(t, result.Order)
			assert.Equal(t, test.expectedCreate, test.gateway.created)
			assert.Equal(t, test.expectedUpdate, test.gateway.updated)
			assert.Equal(t, ModeClosed, s.View().Mode)
			assert.True(t, s.Cart().IsEmpty())
		})
	}
}

func TestSessionSubmitEmptyCartIsSkipped(t *testing.T) {
	g := &fakeGateway{found: true, active: activeOrder(42)}
	s := openSession(t, g)

	result, err := s.Submit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, result.Outcome)
	assert.Nil(t, result.Order)
	assert.Equal(t, 0, g.requests())
	assert.Equal(t, ModeEditing, s.View().Mode)
}

func TestSessionSubmitFailurePreservesCart(t *testing.T) {
	g := &fakeGateway{submitErr: &inErrors.APIError{StatusCode: http.StatusBadRequest, Message: "Menu item 9 not found"}}
	s := openSession(t, g)
	c := context.Background()
	_, err := s.Add(c, phoBo)
	require.NoError(t, err)
	_, err = s.ChangeQuantity(c, phoBo.ID, 2)
	require.NoError(t, err)
	before := s.Cart().Items()

	_, err = s.Submit(c)

	require.Error(t, err)
	var apiErr *inErrors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Menu item 9 not found", apiErr.Message)

	view := s.View()
	assert.Equal(t, ModeCreating, view.Mode)
	assert.Equal(t, "Menu item 9 not found", view.Notice)
	assert.False(t, view.Pending)
	if diff := cmp.Diff(before, view.Items, cmpDecimal); diff != "" {
		t.Errorf("cart changed after failed submit (-expected +actual):\n%s", diff)
	}

	g.submitErr = nil
	result, err := s.Submit(c)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, result.Outcome)
	assert.Len(t, g.created, 2)
}

func TestSessionRejectsChangesWhileSubmitting(t *testing.T) {
	g := &fakeGateway{block: make(chan struct{}), started: make(chan struct{})}
	s := openSession(t, g)
	c := context.Background()
	_, err := s.Add(c, phoBo)
	require.NoError(t, err)

	done := make(chan error)
	go func() {
		_, err := s.Submit(c)
		done <- err
	}()
	<-g.started

	assert.True(t, s.Pending())
	_, err = s.Submit(c)
	assert.True(t, errors.Is(err, inErrors.ErrSubmissionPending))
	_, err = s.Add(c, traDa)
	assert.True(t, errors.Is(err, inErrors.ErrSubmissionPending))
	err = s.Cancel(c)
	assert.True(t, errors.Is(err, inErrors.ErrSubmissionPending))

	close(g.block)
	require.NoError(t, <-done)
	assert.False(t, s.Pending())
	assert.Len(t, g.created, 1)
	assert.Equal(t, []request.OrderItem{{MenuItemID: 1, Quantity: 1}}, g.created[0].Items)
}

func TestSessionCancel(t *testing.T) {
	g := &fakeGateway{}
	s := openSession(t, g)
	c := context.Background()
	_, err := s.Add(c, phoBo)
	require.NoError(t, err)

	require.NoError(t, s.Cancel(c))

	assert.Equal(t, ModeClosed, s.View().Mode)
	assert.True(t, s.Cart().IsEmpty())
	assert.Equal(t, 0, g.requests())
	assert.True(t, errors.Is(s.Cancel(c), inErrors.ErrSessionNotOpen))
	_, err = s.Add(c, phoBo)
	assert.True(t, errors.Is(err, inErrors.ErrSessionNotOpen))
}

func TestSessionOpenTwice(t *testing.T) {
	s := openSession(t, &fakeGateway{})

	_, err := s.Open(context.Background())

	assert.True(t, errors.Is(err, inErrors.ErrSessionAlreadyOpen))
}

func TestSessionCancelDuringHydrationDiscardsResult(t *testing.T) {
	g := &fakeGateway{hydrations: make(chan chan activeReply)}
	s := New(5, g)
	c := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := s.Open(c)
		done <- err
	}()
	reply := <-g.hydrations

	_, err := s.Add(c, phoBo)
	assert.True(t, errors.Is(err, inErrors.ErrSessionLoading))
	_, err = s.Submit(c)
	assert.True(t, errors.Is(err, inErrors.ErrSessionLoading))
	require.NoError(t, s.Cancel(c))

	reply <- activeReply{active: activeOrder(11, response.OrderItem{MenuItemID: 1, Quantity: 2}), found: true}
	require.NoError(t, <-done)

	assert.Equal(t, ModeClosed, s.View().Mode)
	assert.True(t, s.Cart().IsEmpty())
}

func TestSessionReopenIgnoresHydrationOfPreviousOpen(t *testing.T) {
	g := &fakeGateway{hydrations: make(chan chan activeReply)}
	s := New(5, g)
	c := context.Background()

	first := make(chan error, 1)
	go func() {
		_, err := s.Open(c)
		first <- err
	}()
	firstReply := <-g.hydrations
	require.NoError(t, s.Cancel(c))

	second := make(chan error, 1)
	go func() {
		_, err := s.Open(c)
		second <- err
	}()
	secondReply := <-g.hydrations

	firstReply <- activeReply{active: activeOrder(11, response.OrderItem{MenuItemID: 1, Quantity: 2}), found: true}
	require.NoError(t, <-first)
	assert.Equal(t, ModeHydrating, s.View().Mode)

	secondReply <- activeReply{}
	require.NoError(t, <-second)

	assert.Equal(t, ModeCreating, s.View().Mode)
	_, editing := s.State().(Editing)
	assert.False(t, editing)
	assert.True(t, s.Cart().IsEmpty())
}
