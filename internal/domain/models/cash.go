package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CashDirection string

const (
	CashIn  CashDirection = "in"
	CashOut CashDirection = "out"
)

func (d CashDirection) Valid() bool { return d == CashIn || d == CashOut }

type CashStatus string

const (
	CashPending   CashStatus = "pending"
	CashValidated CashStatus = "validated"
	CashCancelled CashStatus = "cancelled"
)

func (s CashStatus) Valid() bool {
	return s == CashPending || s == CashValidated || s == CashCancelled
}

// CashEntry is one movement of the cash register. BalanceBefore/After are
// stored and rewritten whenever an earlier entry changes.
type CashEntry struct {
	ID            int64           `json:"id"`
	Number        string          `json:"number"`
	Date          time.Time       `json:"date"`
	Direction     CashDirection   `json:"direction"`
	PaymentID     int64           `json:"payment_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Method        PaymentMethod   `json:"method"`
	Description   string          `json:"description,omitempty"`
	Status        CashStatus      `json:"status"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
}

// Signed is the entry's contribution to the running balance.
func (e CashEntry) Signed() decimal.Decimal {
	if e.Status != CashValidated {
		return decimal.Zero
	}
	if e.Direction == CashOut {
		return e.Amount.Neg()
	}
	return e.Amount
}
