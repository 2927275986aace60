package calc

import (
	"sort"
	"time"

	"backoffice/internal/domain/models"

	"github.com/shopspring/decimal"
)

// Day truncates t to its calendar day; ledger ordering ignores the time of day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Precedes reports whether a comes before b in ledger order (day, then id).
func Precedes(a, b models.CashEntry) bool {
	da, db := Day(a.Date), Day(b.Date)
	if !da.Equal(db) {
		return da.Before(db)
	}
	return a.ID < b.ID
}

// SortLedger orders entries in place by (day ascending, id ascending).
func SortLedger(entries []models.CashEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return Precedes(entries[i], entries[j])
	})
}

// OpeningBalance sums the signed contribution of entries; non-validated
// entries contribute nothing.
func OpeningBalance(entries []models.CashEntry) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Signed())
	}
	return sum
}

// RunningBalances fills BalanceBefore/BalanceAfter on entries, which must
// already be in ledger order, starting from opening. It returns the closing
// balance, i.e. the balance after the last validated entry.
func RunningBalances(opening decimal.Decimal, entries []models.CashEntry) decimal.Decimal {
	running := opening
	for i := range entries {
		entries[i].BalanceBefore = running
		running = running.Add(entries[i].Signed())
		entries[i].BalanceAfter = running
	}
	return running
}

// CurrentBalance is the balance after the chronologically last validated entry.
func CurrentBalance(entries []models.CashEntry) decimal.Decimal {
	sorted := make([]models.CashEntry, len(entries))
	copy(sorted, entries)
	SortLedger(sorted)
	return RunningBalances(decimal.Zero, sorted)
}

// LedgerTotals summarises a slice of entries for reports.
type LedgerTotals struct {
	Inflow  decimal.Decimal `json:"inflow"`
	Outflow decimal.Decimal `json:"outflow"`
	Net     decimal.Decimal `json:"net"`
	Entries int             `json:"entries"`
}

func Totals(entries []models.CashEntry) LedgerTotals {
	t := LedgerTotals{Inflow: decimal.Zero, Outflow: decimal.Zero, Net: decimal.Zero}
	for _, e := range entries {
		t.Entries++
		if e.Status != models.CashValidated {
			continue
		}
		if e.Direction == models.CashOut {
			t.Outflow = t.Outflow.Add(e.Amount)
		} else {
			t.Inflow = t.Inflow.Add(e.Amount)
		}
	}
	t.Net = t.Inflow.Sub(t.Outflow)
	return t
}
