package request

import (
	"github.com/shopspring/decimal"

	"github.com/Alturino/lairai/pkg/response"
)

type CreatePayment struct {
	Amount        *decimal.Decimal       `json:"amount,omitempty"`
	PaymentMethod response.PaymentMethod `json:"payment_method" validate:"required,oneof=cash card transfer"`
	OrderID       int64                  `json:"order_id" validate:"required,gt=0"`
}

// Revenue dates are formatted yyyy-mm-dd; empty means unbounded.
type Revenue struct {
	StartDate string `validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `validate:"omitempty,datetime=2006-01-02"`
}
