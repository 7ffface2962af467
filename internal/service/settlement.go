package service

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Alturino/lairai/internal/config"
	inErrors "github.com/Alturino/lairai/internal/errors"
	"github.com/Alturino/lairai/internal/format"
	"github.com/Alturino/lairai/internal/log"
	"github.com/Alturino/lairai/internal/otel"
	"github.com/Alturino/lairai/internal/receipt"
	"github.com/Alturino/lairai/pkg/response"
)

// Printer prints a rendered receipt and returns once printing has finished.
type Printer interface {
	Print(c context.Context, receipt string) error
}

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(c context.Context, prompt string) (bool, error)
}

type SettlementService struct {
	orders     *OrderService
	payments   *PaymentService
	formatter  *format.Formatter
	now        func() time.Time
	restaurant config.Restaurant
}

func NewSettlementService(
	orders *OrderService,
	payments *PaymentService,
	formatter *format.Formatter,
	restaurant config.Restaurant,
) *SettlementService {
	return &SettlementService{
		orders:     orders,
		payments:   payments,
		formatter:  formatter,
		restaurant: restaurant,
		now:        time.Now,
	}
}

// Receipt renders the bill of an order.
func (s SettlementService) Receipt(c context.Context, orderID int64) (string, error) {
	c, span := otel.Tracer.Start(c, "SettlementService Receipt")
	defer span.End()

	order, err := s.orders.Get(c, orderID)
	if err != nil {
		otel.RecordError(err, span)
		return "", err
	}
	return s.render(order)
}

func (s SettlementService) render(order response.Order) (string, error) {
	b := &strings.Builder{}
	if err := receipt.Render(b, order, s.restaurant, s.formatter, s.now()); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Settle prints the receipt of a pending order, then asks for confirmation
// and only then records a cash payment of the order total. Printing always
// finishes before the question is asked.
func (s SettlementService) Settle(
	c context.Context,
	orderID int64,
	printer Printer,
	confirmer Confirmer,
) (response.Payment, error) {
	c, span := otel.Tracer.Start(c, "SettlementService Settle")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "SettlementService Settle").
		Int64(log.KeyOrderID, orderID).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding order").Logger()
	logger.Info().Msg("finding order")
	order, err := s.orders.Get(c, orderID)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Payment{}, err
	}
	if order.Status != response.OrderStatusPending {
		err = fmt.Errorf("failed settling orderId=%d with error=%w", orderID, inErrors.ErrOrderNotPending)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Payment{}, err
	}
	logger.Info().Msg("found order")

	logger = logger.With().Str(log.KeyProcess, "printing receipt").Logger()
	logger.Info().Msg("printing receipt")
	bill, err := s.render(order)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Payment{}, err
	}
	if err = printer.Print(c, bill); err != nil {
		err = fmt.Errorf("failed printing receipt with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Payment{}, err
	}
	logger.Info().Msg("printed receipt")

	logger = logger.With().Str(log.KeyProcess, "confirming payment").Logger()
	logger.Info().Msg("confirming payment")
	confirmed, err := confirmer.Confirm(
		c,
		fmt.Sprintf("Xác nhận hoàn tất thanh toán cho %s?", format.TableName(order)),
	)
	if err != nil {
		err = fmt.Errorf("failed confirming payment with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Payment{}, err
	}
	if !confirmed {
		err = fmt.Errorf("failed settling orderId=%d with error=%w", orderID, inErrors.ErrPaymentNotConfirmed)
		logger.Info().Msg(err.Error())
		return response.Payment{}, err
	}
	logger.Info().Msg("confirmed payment")

	total := order.Total()
	return s.payments.Complete(c, orderID, &total, response.PaymentMethodCash)
}

// WriterPrinter prints receipts to an io.Writer such as stdout or a device
// file.
type WriterPrinter struct {
	W io.Writer
}

func (p WriterPrinter) Print(c context.Context, receipt string) error {
	_, err := io.WriteString(p.W, receipt)
	return err
}

// PromptConfirmer writes the prompt to Out and reads a y/N answer from In.
type PromptConfirmer struct {
	In  io.Reader
	Out io.Writer
}

func (p PromptConfirmer) Confirm(c context.Context, prompt string) (bool, error) {
	if _, err := fmt.Fprintf(p.Out, "%s [y/N] ", prompt); err != nil {
		return false, err
	}
	answer, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "c", "có":
		return true, nil
	default:
		return false, nil
	}
}
