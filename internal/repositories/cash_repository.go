package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	intdb "backoffice/internal/db"
	"backoffice/internal/domain"
	"backoffice/internal/domain/models"

	"github.com/shopspring/decimal"
)

// CashRepository stores the cash register. Every ordered read uses
// (entry_date, id), matching idx_cash_entries_order.
type CashRepository struct {
	DB intdb.DBTX
}

const cashColumns = `id, number, entry_date, direction, COALESCE(payment_id,0), amount, method,
	description, status, balance_before, balance_after`

func scanCashEntry(row scanner) (models.CashEntry, error) {
	var e models.CashEntry
	err := row.Scan(
		&e.ID,
		&e.Number,
		&e.Date,
		&e.Direction,
		&e.PaymentID,
		&e.Amount,
		&e.Method,
		&e.Description,
		&e.Status,
		&e.BalanceBefore,
		&e.BalanceAfter,
	)
	return e, err
}

func (r CashRepository) Create(ctx context.Context, e *models.CashEntry) error {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO cash_entries (number, entry_date, direction, payment_id, amount, method, description,
		                          status, balance_before, balance_after)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Number, e.Date, e.Direction, intdb.NullIfZero(e.PaymentID), e.Amount, e.Method, e.Description,
		e.Status, e.BalanceBefore, e.BalanceAfter,
	)
	if err != nil {
		if intdb.IsDuplicate(err) && e.PaymentID != 0 {
			return domain.ConflictError{Resource: "cash entry", Msg: fmt.Sprintf("payment %d already has a cash entry", e.PaymentID), Err: err}
		}
		return fmt.Errorf("insert cash entry: %w", err)
	}
	e.ID, err = res.LastInsertId()
	return err
}

func (r CashRepository) Get(ctx context.Context, id int64) (models.CashEntry, error) {
	return r.get(ctx, id, "")
}

func (r CashRepository) GetForUpdate(ctx context.Context, id int64) (models.CashEntry, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r CashRepository) get(ctx context.Context, id int64, lock string) (models.CashEntry, error) {
	e, err := scanCashEntry(r.DB.QueryRowContext(ctx, `SELECT `+cashColumns+` FROM cash_entries WHERE id=?`+lock, id))
	if err != nil {
		return models.CashEntry{}, notFound(err, "cash entry", id)
	}
	return e, nil
}

func (r CashRepository) GetByPayment(ctx context.Context, paymentID int64) (models.CashEntry, error) {
	e, err := scanCashEntry(r.DB.QueryRowContext(ctx, `SELECT `+cashColumns+` FROM cash_entries WHERE payment_id=?`, paymentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.CashEntry{}, domain.NotFoundError{Resource: "cash entry for payment", ID: paymentID, Err: err}
		}
		return models.CashEntry{}, err
	}
	return e, nil
}

func (r CashRepository) Update(ctx context.Context, e models.CashEntry) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE cash_entries
		SET entry_date=?, direction=?, amount=?, method=?, description=?, status=?
		WHERE id=?`,
		e.Date, e.Direction, e.Amount, e.Method, e.Description, e.Status, e.ID,
	)
	if err != nil {
		return fmt.Errorf("update cash entry: %w", err)
	}
	return expectOne(res, "cash entry", e.ID)
}

// List returns entries in ledger order, optionally bounded by date.
func (r CashRepository) List(ctx context.Context, rng domain.DateRange) ([]models.CashEntry, error) {
	var w where
	if !rng.From.IsZero() {
		w.add("entry_date >= ?", rng.From)
	}
	if !rng.To.IsZero() {
		w.add("entry_date <= ?", rng.To)
	}
	rows, err := r.DB.QueryContext(ctx, `SELECT `+cashColumns+` FROM cash_entries`+w.String()+` ORDER BY entry_date, id`, w.args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCashEntry)
}

// ListFrom returns the entry at (day, id) and every entry after it, in ledger
// order, locking them for the balance rewrite.
func (r CashRepository) ListFrom(ctx context.Context, day time.Time, id int64) ([]models.CashEntry, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+cashColumns+` FROM cash_entries
		WHERE entry_date > ? OR (entry_date = ? AND id >= ?)
		ORDER BY entry_date, id FOR UPDATE`, day, day, id)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCashEntry)
}

// OpeningBalance is the signed sum of validated entries strictly before
// (day, id).
func (r CashRepository) OpeningBalance(ctx context.Context, day time.Time, id int64) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.DB.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(CASE WHEN direction=? THEN -amount ELSE amount END),0)
		FROM cash_entries
		WHERE status=? AND (entry_date < ? OR (entry_date = ? AND id < ?))`,
		models.CashOut, models.CashValidated, day, day, id,
	).Scan(&sum)
	return sum, err
}

func (r CashRepository) UpdateBalances(ctx context.Context, id int64, before, after decimal.Decimal) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE cash_entries SET balance_before=?, balance_after=? WHERE id=?`, before, after, id)
	return err
}

// LastBalance is the stored balance after the last entry in ledger order.
func (r CashRepository) LastBalance(ctx context.Context) (decimal.Decimal, error) {
	var bal decimal.Decimal
	err := r.DB.QueryRowContext(ctx, `SELECT balance_after FROM cash_entries ORDER BY entry_date DESC, id DESC LIMIT 1`).Scan(&bal)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, nil
	}
	return bal, err
}
