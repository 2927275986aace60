package services

import (
	"context"
	"fmt"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/domain/calc"
	"backoffice/internal/domain/models"
	"backoffice/internal/metrics"
	"backoffice/internal/sequence"
	"backoffice/internal/utils"

	"github.com/shopspring/decimal"
)

// CashService keeps the cash register. Every write recomputes the stored
// running balances from the earliest ledger position it touched.
type CashService struct {
	Store     UnitOfWork
	RequestID string
	Now       func() time.Time
}

type CashEntryInput struct {
	Date        time.Time            `json:"date"`
	Direction   models.CashDirection `json:"direction"`
	PaymentID   int64                `json:"payment_id"`
	Amount      decimal.Decimal      `json:"amount"`
	Method      models.PaymentMethod `json:"method"`
	Description string               `json:"description"`
	Status      models.CashStatus    `json:"status"`
}

// CashEntryUpdate carries the editable fields; nil means unchanged.
type CashEntryUpdate struct {
	Date        *time.Time            `json:"date"`
	Direction   *models.CashDirection `json:"direction"`
	Amount      *decimal.Decimal      `json:"amount"`
	Method      *models.PaymentMethod `json:"method"`
	Description *string               `json:"description"`
}

// CashReport is a ledger extract with the balances around it.
type CashReport struct {
	From    time.Time          `json:"from"`
	To      time.Time          `json:"to"`
	Opening decimal.Decimal    `json:"opening"`
	Closing decimal.Decimal    `json:"closing"`
	Totals  calc.LedgerTotals  `json:"totals"`
	Entries []models.CashEntry `json:"entries"`
}

func validateCashEntry(e models.CashEntry) error {
	if !e.Amount.IsPositive() {
		return domain.ValidationError{Field: "amount", Msg: "amount must be greater than zero"}
	}
	if !e.Direction.Valid() {
		return domain.ValidationError{Field: "direction", Msg: "direction must be in or out"}
	}
	if !e.Method.Valid() {
		return domain.ValidationError{Field: "method", Msg: "unknown payment method " + string(e.Method)}
	}
	if !e.Status.Valid() {
		return domain.ValidationError{Field: "status", Msg: "unknown status " + string(e.Status)}
	}
	return nil
}

// createCashEntry numbers and stores e, then rewrites balances from its
// position. On return e carries its stored balances.
func createCashEntry(ctx context.Context, tx Tx, e *models.CashEntry) error {
	e.Date = calc.Day(e.Date)
	e.Amount = calc.Round2(e.Amount)
	if err := validateCashEntry(*e); err != nil {
		return err
	}
	number, err := sequence.NextNumber(ctx, tx.Seq, sequence.CashEntry, e.Date)
	if err != nil {
		return err
	}
	e.Number = number
	if err := tx.Cash.Create(ctx, e); err != nil {
		return err
	}
	if _, err := recomputeLedgerFrom(ctx, tx, e.Date, e.ID); err != nil {
		return err
	}
	stored, err := tx.Cash.Get(ctx, e.ID)
	if err != nil {
		return err
	}
	*e = stored
	if e.Status == models.CashValidated {
		metrics.ObserveCash(string(e.Direction), e.Amount)
	}
	return nil
}

// cancelCashEntry marks e cancelled and rewrites balances from its position.
func cancelCashEntry(ctx context.Context, tx Tx, e *models.CashEntry) error {
	if e.Status == models.CashCancelled {
		return domain.UserError{Action: "cancel", Msg: fmt.Sprintf("cash entry %s is already cancelled", e.Number)}
	}
	e.Status = models.CashCancelled
	if err := tx.Cash.Update(ctx, *e); err != nil {
		return err
	}
	if _, err := recomputeLedgerFrom(ctx, tx, e.Date, e.ID); err != nil {
		return err
	}
	stored, err := tx.Cash.Get(ctx, e.ID)
	if err != nil {
		return err
	}
	*e = stored
	return nil
}

// CreateEntry records a cash movement. When PaymentID is set the payment must
// be paid; amount, method and direction come from it and the date defaults to
// its date.
func (s CashService) CreateEntry(ctx context.Context, in CashEntryInput) (models.CashEntry, error) {
	e := models.CashEntry{
		Date:        in.Date,
		Direction:   in.Direction,
		PaymentID:   in.PaymentID,
		Amount:      in.Amount,
		Method:      in.Method,
		Description: utils.TrimOrEmpty(in.Description),
		Status:      in.Status,
	}
	if e.Status == "" {
		e.Status = models.CashValidated
	}
	if e.Method == "" {
		e.Method = models.MethodCash
	}

	err := s.Store.Do(ctx, func(tx Tx) error {
		if e.PaymentID > 0 {
			p, err := tx.Payments.GetForUpdate(ctx, e.PaymentID)
			if err != nil {
				return err
			}
			if p.Status != models.PaymentPaid {
				return domain.UserError{Action: "create_cash_entry", Msg: fmt.Sprintf("payment %s is %s, only paid payments move cash", p.Number, p.Status)}
			}
			e.Amount = p.Amount
			e.Method = p.Method
			e.Direction = p.CashDirection()
			if e.Date.IsZero() {
				e.Date = p.Date
			}
			if e.Description == "" {
				e.Description = "Payment " + p.Number
			}
		}
		if e.Date.IsZero() {
			e.Date = clock(s.Now)
		}
		return createCashEntry(ctx, tx, &e)
	})
	if err != nil {
		return models.CashEntry{}, err
	}
	utils.LogEvent(s.RequestID, "cash", "create", fmt.Sprintf("cash entry %s %s %s", e.Number, e.Direction, utils.FormatMoney(e.Amount)))
	return e, nil
}

func (s CashService) Get(ctx context.Context, id int64) (models.CashEntry, error) {
	var e models.CashEntry
	err := s.Store.Do(ctx, func(tx Tx) (err error) {
		e, err = tx.Cash.Get(ctx, id)
		return err
	})
	return e, err
}

// ValidateEntry moves a pending entry into the balance.
func (s CashService) ValidateEntry(ctx context.Context, id int64) (ActionResult, error) {
	var e models.CashEntry
	err := s.Store.Do(ctx, func(tx Tx) error {
		var err error
		e, err = tx.Cash.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if e.Status != models.CashPending {
			return domain.UserError{Action: "validate", Msg: fmt.Sprintf("cash entry %s is %s, only pending entries can be validated", e.Number, e.Status)}
		}
		e.Status = models.CashValidated
		if err := tx.Cash.Update(ctx, e); err != nil {
			return err
		}
		if _, err := recomputeLedgerFrom(ctx, tx, e.Date, e.ID); err != nil {
			return err
		}
		e, err = tx.Cash.Get(ctx, id)
		return err
	})
	if err != nil {
		return ActionResult{}, err
	}
	metrics.ObserveCash(string(e.Direction), e.Amount)
	utils.LogEvent(s.RequestID, "cash", "validate", "cash entry validated: "+e.Number)
	return succeeded("Cash entry validated", fmt.Sprintf("Entry %s is now part of the balance (%s).", e.Number, utils.FormatMoney(e.BalanceAfter)), e), nil
}

func (s CashService) CancelEntry(ctx context.Context, id int64) (ActionResult, error) {
	var e models.CashEntry
	err := s.Store.Do(ctx, func(tx Tx) error {
		var err error
		e, err = tx.Cash.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		return cancelCashEntry(ctx, tx, &e)
	})
	if err != nil {
		return ActionResult{}, err
	}
	utils.LogEvent(s.RequestID, "cash", "cancel", "cash entry cancelled: "+e.Number)
	return succeeded("Cash entry cancelled", fmt.Sprintf("Entry %s no longer counts in the balance.", e.Number), e), nil
}

// UpdateEntry edits a non-cancelled entry. Entries generated by a payment
// mirror it, so their amount, direction and method are fixed.
func (s CashService) UpdateEntry(ctx context.Context, id int64, in CashEntryUpdate) (models.CashEntry, error) {
	var e models.CashEntry
	err := s.Store.Do(ctx, func(tx Tx) error {
		current, err := tx.Cash.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current.Status == models.CashCancelled {
			return domain.UserError{Action: "update", Msg: fmt.Sprintf("cash entry %s is cancelled", current.Number)}
		}
		if current.PaymentID > 0 && (in.Amount != nil || in.Direction != nil || in.Method != nil) {
			return domain.ValidationError{Field: "payment_id", Msg: "amount, direction and method follow the linked payment"}
		}

		e = current
		if in.Date != nil {
			e.Date = calc.Day(*in.Date)
		}
		if in.Direction != nil {
			e.Direction = *in.Direction
		}
		if in.Amount != nil {
			e.Amount = calc.Round2(*in.Amount)
		}
		if in.Method != nil {
			e.Method = *in.Method
		}
		if in.Description != nil {
			e.Description = utils.TrimOrEmpty(*in.Description)
		}
		if err := validateCashEntry(e); err != nil {
			return err
		}
		if err := tx.Cash.Update(ctx, e); err != nil {
			return err
		}

		from := calc.Day(current.Date)
		if e.Date.Before(from) {
			from = e.Date
		}
		if _, err := recomputeLedgerFrom(ctx, tx, from, e.ID); err != nil {
			return err
		}
		e, err = tx.Cash.Get(ctx, id)
		return err
	})
	if err != nil {
		return models.CashEntry{}, err
	}
	utils.LogEvent(s.RequestID, "cash", "update", "cash entry updated: "+e.Number)
	return e, nil
}

// ListEntries returns entries in ledger order with their stored balances.
func (s CashService) ListEntries(ctx context.Context, rng domain.DateRange) ([]models.CashEntry, error) {
	var out []models.CashEntry
	err := s.Store.Do(ctx, func(tx Tx) (err error) {
		out, err = tx.Cash.List(ctx, rng)
		return err
	})
	return out, err
}

func (s CashService) CurrentBalance(ctx context.Context) (decimal.Decimal, error) {
	var bal decimal.Decimal
	err := s.Store.Do(ctx, func(tx Tx) (err error) {
		bal, err = tx.Cash.LastBalance(ctx)
		return err
	})
	return bal, err
}

// Recompute rebuilds every stored balance and returns how many changed.
func (s CashService) Recompute(ctx context.Context) (int, error) {
	var n int
	err := s.Store.Do(ctx, func(tx Tx) (err error) {
		n, err = recomputeLedgerFrom(ctx, tx, ledgerOrigin, 0)
		return err
	})
	if err != nil {
		return 0, err
	}
	utils.LogEvent(s.RequestID, "cash", "recompute", fmt.Sprintf("ledger rebuilt, %d entries rewritten", n))
	return n, nil
}

// Report extracts the ledger over rng with its opening and closing balances.
func (s CashService) Report(ctx context.Context, rng domain.DateRange) (CashReport, error) {
	rep := CashReport{From: rng.From, To: rng.To}
	err := s.Store.Do(ctx, func(tx Tx) error {
		var err error
		if !rng.From.IsZero() {
			if rep.Opening, err = tx.Cash.OpeningBalance(ctx, calc.Day(rng.From), 0); err != nil {
				return err
			}
		}
		rep.Entries, err = tx.Cash.List(ctx, rng)
		return err
	})
	if err != nil {
		return CashReport{}, err
	}
	rep.Totals = calc.Totals(rep.Entries)
	rep.Closing = rep.Opening.Add(rep.Totals.Net)
	return rep, nil
}
