package receipt

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/lairai/internal/config"
	"github.com/Alturino/lairai/internal/format"
	"github.com/Alturino/lairai/pkg/response"
)

var restaurant = config.Restaurant{
	Name:    "LAI RAI QUÁN",
	Address: "1156 Lý Thái Tổ, Nhơn Trạch, Đồng Nai",
	Phone:   "0933 002 168",
}

func TestRender(t *testing.T) {
	f, err := format.New(config.Locale{TimeZone: "Asia/Ho_Chi_Minh"})
	require.NoError(t, err)
	note := "ít đường"
	checkOut := time.Date(2024, time.October, 19, 13, 45, 0, 0, time.UTC)
	order := response.Order{
		ID:          42,
		TableID:     3,
		Status:      response.OrderStatusCompleted,
		CheckIn:     time.Date(2024, time.October, 19, 12, 0, 0, 0, time.UTC),
		CheckOut:    &checkOut,
		TotalAmount: decimal.NewFromInt(125000),
		Items: []response.OrderItem{
			{
				MenuItemID:       7,
				Quantity:         2,
				PriceAtOrderTime: decimal.NewFromInt(50000),
				Note:             &note,
				MenuItem:         &response.MenuItem{ID: 7, Name: "Cà phê đen"},
			},
			{MenuItemID: 9, Quantity: 1, PriceAtOrderTime: decimal.NewFromInt(25000)},
		},
	}

	b := &strings.Builder{}
	err = Render(b, order, restaurant, f, checkOut)
	require.NoError(t, err)
	out := b.String()

	for _, expected := range []string{
		"LAI RAI QUÁN",
		"ĐT: 0933 002 168",
		"#42",
		"Bàn 3",
		"19/10/2024, 19:00",
		"19/10/2024, 20:45",
		"Cà phê đen",
		"(ít đường)",
		"Món #9",
		"50.000 ₫",
		"100.000 ₫",
		"125.000 ₫",
		"TỔNG CỘNG:",
		"Cảm ơn quý khách!",
	} {
		assert.Contains(t, out, expected)
	}
}

func TestRenderWithoutCheckOut(t *testing.T) {
	f, err := format.New(config.Locale{})
	require.NoError(t, err)

	b := &strings.Builder{}
	err = Render(b, response.Order{ID: 1, TableID: 1, Table: &response.Table{Name: "VIP"}}, restaurant, f, time.Now())
	require.NoError(t, err)

	assert.NotContains(t, b.String(), "Giờ ra:")
	assert.Contains(t, b.String(), "VIP")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("printer offline") }

func TestRenderWriteFailure(t *testing.T) {
	f, err := format.New(config.Locale{})
	require.NoError(t, err)

	err = Render(failingWriter{}, response.Order{ID: 1}, restaurant, f, time.Now())

	assert.ErrorContains(t, err, "printer offline")
}
