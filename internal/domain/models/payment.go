package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentKind string

const (
	// PaymentCustomer is money received from a client (encaissement).
	PaymentCustomer PaymentKind = "customer"
	// PaymentSupplier is money paid to a supplier (décaissement).
	PaymentSupplier PaymentKind = "supplier"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentCancelled PaymentStatus = "cancelled"
)

type Installment string

const (
	InstallmentDeposit Installment = "deposit"
	InstallmentBalance Installment = "balance"
)

type PaymentMethod string

const (
	MethodCard     PaymentMethod = "card"
	MethodTransfer PaymentMethod = "transfer"
	MethodCheque   PaymentMethod = "cheque"
	MethodCash     PaymentMethod = "cash"
	MethodOther    PaymentMethod = "other"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCard, MethodTransfer, MethodCheque, MethodCash, MethodOther:
		return true
	}
	return false
}

// Payment links either to a reservation (customer) or to a purchase (supplier).
// Zero ids mean "not set".
type Payment struct {
	ID            int64           `json:"id"`
	Number        string          `json:"number"`
	Date          time.Time       `json:"date"`
	Kind          PaymentKind     `json:"kind"`
	ReservationID int64           `json:"reservation_id,omitempty"`
	ClientID      int64           `json:"client_id,omitempty"`
	Installment   Installment     `json:"installment,omitempty"`
	SupplierID    int64           `json:"supplier_id,omitempty"`
	PurchaseID    int64           `json:"purchase_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Method        PaymentMethod   `json:"method"`
	BankReference string          `json:"bank_reference,omitempty"`
	Status        PaymentStatus   `json:"status"`
}

// CashDirection maps the payment kind onto the cash register.
func (p Payment) CashDirection() CashDirection {
	if p.Kind == PaymentSupplier {
		return CashOut
	}
	return CashIn
}
