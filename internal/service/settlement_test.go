package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/lairai/internal/config"
	inErrors "github.com/Alturino/lairai/internal/errors"
	"github.com/Alturino/lairai/internal/format"
	"github.com/Alturino/lairai/pkg/response"
)

type recorder struct {
	steps  []string
	answer bool
}

func (r *recorder) Print(c context.Context, receipt string) error {
	r.steps = append(r.steps, "print")
	return nil
}

func (r *recorder) Confirm(c context.Context, prompt string) (bool, error) {
	r.steps = append(r.steps, "confirm:"+prompt)
	return r.answer, nil
}

func newSettlement(t *testing.T) (*SettlementService, func() (int64, int64), func() []response.Payment) {
	t.Helper()
	server, repo := setup(t)
	f, err := format.New(config.Locale{})
	require.NoError(t, err)
	s := NewSettlementService(
		NewOrderService(repo),
		NewPaymentService(repo, time.UTC),
		f,
		config.Restaurant{Name: "LAI RAI QUÁN"},
	)
	seed := func() (int64, int64) {
		tableID := server.AddTable("VIP 1", response.TableStatusAvailable)
		orderID := server.AddOrder(tableID, response.OrderStatusPending, response.OrderItem{
			MenuItemID:       1,
			Quantity:         2,
			PriceAtOrderTime: decimal.NewFromInt(50000),
		})
		return tableID, orderID
	}
	return s, seed, server.Payments
}

func TestSettlementServiceSettle(t *testing.T) {
	tests := []struct {
		name             string
		answer           bool
		expectedErr      error
		expectedPayments int
	}{
		{name: "given confirmation should print then pay", answer: true, expectedPayments: 1},
		{name: "given declined confirmation should not pay", answer: false, expectedErr: inErrors.ErrPaymentNotConfirmed},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s, seed, payments := newSettlement(t)
			_, orderID := seed()
			r := &recorder{answer: test.answer}

			payment, err := s.Settle(context.Background(), orderID, r, r)

			assert.Equal(t, []string{"print", "confirm:Xác nhận hoàn tất thanh toán cho VIP 1?"}, r.steps)
			assert.Len(t, payments(), test.expectedPayments)
			if test.expectedErr != nil {
				assert.True(t, errors.Is(err, test.expectedErr))
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.NewFromInt(100000).Equal(payment.Amount))
			assert.Equal(t, response.PaymentMethodCash, payment.PaymentMethod)
		})
	}
}

func TestSettlementServiceRejectsClosedOrders(t *testing.T) {
	s, seed, _ := newSettlement(t)
	_, orderID := seed()
	r := &recorder{answer: true}
	_, err := s.Settle(context.Background(), orderID, r, r)
	require.NoError(t, err)

	r.steps = nil
	_, err = s.Settle(context.Background(), orderID, r, r)

	assert.True(t, errors.Is(err, inErrors.ErrOrderNotPending))
	assert.Empty(t, r.steps)
}

func TestSettlementServiceReceipt(t *testing.T) {
	s, seed, _ := newSettlement(t)
	_, orderID := seed()

	bill, err := s.Receipt(context.Background(), orderID)

	require.NoError(t, err)
	assert.Contains(t, bill, "LAI RAI QUÁN")
	assert.Contains(t, bill, "VIP 1")
	assert.Contains(t, bill, "Phở bò")
	assert.Contains(t, bill, "100.000 ₫")
}

func TestPromptConfirmer(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "given y", input: "y\n", expected: true},
		{name: "given yes uppercase", input: "YES\n", expected: true},
		{name: "given có", input: "có\n", expected: true},
		{name: "given n", input: "n\n", expected: false},
		{name: "given empty input", input: "", expected: false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			out := &strings.Builder{}
			confirmer := PromptConfirmer{In: strings.NewReader(test.input), Out: out}

			confirmed, err := confirmer.Confirm(context.Background(), "Xác nhận?")

			require.NoError(t, err)
			assert.Equal(t, test.expected, confirmed)
			assert.Equal(t, "Xác nhận? [y/N] ", out.String())
		})
	}
}

func TestWriterPrinter(t *testing.T) {
	out := &strings.Builder{}
	require.NoError(t, WriterPrinter{W: out}.Print(context.Background(), "bill"))
	assert.Equal(t, "bill", out.String())
}
