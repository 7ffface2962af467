// Package format renders money, dates and status labels for display in the
// restaurant's locale.
package format

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Alturino/lairai/internal/config"
	"github.com/Alturino/lairai/pkg/response"
)

const (
	layoutDate     = "02/01/2006"
	layoutDateTime = "02/01/2006, 15:04"
	layoutTime     = "15:04"

	symbolVND = "₫"
)

type Formatter struct {
	location *time.Location
	printer  *message.Printer
}

// New builds a Vietnamese formatter that shows times in cfg.TimeZone. An empty
// time zone means UTC.
func New(cfg config.Locale) (*Formatter, error) {
	location := time.UTC
	if cfg.TimeZone != "" {
		loc, err := time.LoadLocation(cfg.TimeZone)
		if err != nil {
			return nil, fmt.Errorf("failed loading timezone=%s with error=%w", cfg.TimeZone, err)
		}
		location = loc
	}
	return &Formatter{
		location: location,
		printer:  message.NewPrinter(language.Vietnamese),
	}, nil
}

func (f *Formatter) Location() *time.Location {
	return f.location
}

// Currency formats an amount in whole dong with dot grouping, e.g. "50.000 ₫".
func (f *Formatter) Currency(amount decimal.Decimal) string {
	return f.printer.Sprintf("%d %s", amount.Round(0).IntPart(), symbolVND)
}

func (f *Formatter) Date(t time.Time) string {
	return t.In(f.location).Format(layoutDate)
}

func (f *Formatter) DateTime(t time.Time) string {
	return t.In(f.location).Format(layoutDateTime)
}

func (f *Formatter) Time(t time.Time) string {
	return t.In(f.location).Format(layoutTime)
}

// Day returns the yyyy-mm-dd date of t in the formatter's time zone.
func (f *Formatter) Day(t time.Time) string {
	return t.In(f.location).Format("2006-01-02")
}

func OrderStatusText(status response.OrderStatus) string {
	switch status {
	case response.OrderStatusPending:
		return "Đang phục vụ"
	case response.OrderStatusCompleted:
		return "Hoàn thành"
	case response.OrderStatusCancelled:
		return "Đã hủy"
	default:
		return string(status)
	}
}

func TableStatusText(status response.TableStatus) string {
	if status == response.TableStatusAvailable {
		return "Trống"
	}
	return "Có khách"
}

func PaymentMethodText(method response.PaymentMethod) string {
	switch method {
	case response.PaymentMethodCash:
		return "Tiền mặt"
	case response.PaymentMethodCard:
		return "Thẻ"
	default:
		return "Chuyển khoản"
	}
}

// TableName is the table's name or "Bàn {id}" when the order was not joined
// with its table.
func TableName(order response.Order) string {
	if order.Table != nil && order.Table.Name != "" {
		return order.Table.Name
	}
	return fmt.Sprintf("Bàn %d", order.TableID)
}
