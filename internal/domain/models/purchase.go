package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PurchaseStatus string

const (
	PurchaseQuote     PurchaseStatus = "quote"
	PurchaseOrder     PurchaseStatus = "order"
	PurchasePaid      PurchaseStatus = "paid"
	PurchaseCancelled PurchaseStatus = "cancelled"
)

// DefaultVATRate is the percentage applied to new purchases.
var DefaultVATRate = decimal.NewFromInt(19)

type Purchase struct {
	ID            int64           `json:"id"`
	Number        string          `json:"number"`
	Date          time.Time       `json:"date"`
	TripID        int64           `json:"trip_id"`
	Status        PurchaseStatus  `json:"status"`
	SupplierID    int64           `json:"supplier_id,omitempty"`
	SupplierName  string          `json:"supplier_name"`
	SupplierKind  SupplierKind    `json:"supplier_kind,omitempty"`
	Contact       string          `json:"contact"`
	Phone         string          `json:"phone"`
	Email         string          `json:"email"`
	Active        bool            `json:"active"`
	VATRate       decimal.Decimal `json:"vat_rate"`
	UntaxedAmount decimal.Decimal `json:"untaxed_amount"`
	VATAmount     decimal.Decimal `json:"vat_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Lines         []PurchaseLine  `json:"lines,omitempty"`
}

type PurchaseLine struct {
	ID          int64           `json:"id"`
	PurchaseID  int64           `json:"purchase_id"`
	Service     string          `json:"service"`
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}
