package calc

import (
	"backoffice/internal/domain/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

func LineTotal(l models.PurchaseLine) decimal.Decimal {
	return Round2(l.Quantity.Mul(l.UnitPrice))
}

// PurchaseTotals returns untaxed, VAT and total-with-tax amounts for the lines
// at the given VAT percentage.
func PurchaseTotals(lines []models.PurchaseLine, vatRate decimal.Decimal) (untaxed, vat, total decimal.Decimal) {
	untaxed = decimal.Zero
	for _, l := range lines {
		untaxed = untaxed.Add(LineTotal(l))
	}
	vat = Round2(untaxed.Mul(vatRate).Div(hundred))
	total = untaxed.Add(vat)
	return untaxed, vat, total
}

// Remaining is what is still owed on an amount after payments.
func Remaining(total, paid decimal.Decimal) decimal.Decimal {
	return Round2(total.Sub(paid))
}
