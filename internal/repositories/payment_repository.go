package repositories

import (
	"context"
	"fmt"

	intdb "backoffice/internal/db"
	"backoffice/internal/domain"
	"backoffice/internal/domain/models"

	"github.com/shopspring/decimal"
)

type PaymentRepository struct {
	DB intdb.DBTX
}

const paymentColumns = `id, number, payment_date, kind,
	COALESCE(reservation_id,0), COALESCE(client_id,0), COALESCE(installment,''),
	COALESCE(supplier_id,0), COALESCE(purchase_id,0),
	amount, method, COALESCE(bank_reference,''), status`

func scanPayment(row scanner) (models.Payment, error) {
	var p models.Payment
	err := row.Scan(
		&p.ID,
		&p.Number,
		&p.Date,
		&p.Kind,
		&p.ReservationID,
		&p.ClientID,
		&p.Installment,
		&p.SupplierID,
		&p.PurchaseID,
		&p.Amount,
		&p.Method,
		&p.BankReference,
		&p.Status,
	)
	return p, err
}

func (r PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO payments (number, payment_date, kind, reservation_id, client_id, installment,
		                      supplier_id, purchase_id, amount, method, bank_reference, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Number, p.Date, p.Kind, intdb.NullIfZero(p.ReservationID), intdb.NullIfZero(p.ClientID),
		intdb.NullIfEmpty(string(p.Installment)), intdb.NullIfZero(p.SupplierID), intdb.NullIfZero(p.PurchaseID),
		p.Amount, p.Method, intdb.NullIfEmpty(p.BankReference), p.Status,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	p.ID, err = res.LastInsertId()
	return err
}

func (r PaymentRepository) Get(ctx context.Context, id int64) (models.Payment, error) {
	return r.get(ctx, id, "")
}

func (r PaymentRepository) GetForUpdate(ctx context.Context, id int64) (models.Payment, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r PaymentRepository) get(ctx context.Context, id int64, lock string) (models.Payment, error) {
	p, err := scanPayment(r.DB.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id=?`+lock, id))
	if err != nil {
		return models.Payment{}, notFound(err, "payment", id)
	}
	return p, nil
}

func (r PaymentRepository) List(ctx context.Context, f domain.ListFilter) ([]models.Payment, error) {
	var w where
	if f.Kind != "" {
		w.add("kind=?", f.Kind)
	}
	if f.Status != "" {
		w.add("status=?", f.Status)
	}
	if f.ClientID > 0 {
		w.add("client_id=?", f.ClientID)
	}
	if f.Search != "" {
		w.add("number LIKE ?", likePattern(f.Search))
	}
	if !f.Range.From.IsZero() {
		w.add("payment_date >= ?", f.Range.From)
	}
	if !f.Range.To.IsZero() {
		w.add("payment_date <= ?", f.Range.To)
	}
	cond, args := page(w, f.Pagination)
	rows, err := r.DB.QueryContext(ctx, `SELECT `+paymentColumns+` FROM payments`+cond+
		` ORDER BY payment_date DESC, id DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanPayment)
}

func (r PaymentRepository) ListByReservation(ctx context.Context, reservationID int64) ([]models.Payment, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE reservation_id=? ORDER BY payment_date, id`, reservationID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanPayment)
}

func (r PaymentRepository) UpdateStatus(ctx context.Context, id int64, status models.PaymentStatus) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE payments SET status=? WHERE id=?`, status, id)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	return expectOne(res, "payment", id)
}

// PaidForReservation sums paid customer payments of a reservation, leaving
// out excludeID.
func (r PaymentRepository) PaidForReservation(ctx context.Context, reservationID, excludeID int64) (decimal.Decimal, error) {
	return r.paidSum(ctx, "reservation_id", reservationID, excludeID)
}

// PaidForPurchase sums paid supplier payments of a purchase, leaving out
// excludeID.
func (r PaymentRepository) PaidForPurchase(ctx context.Context, purchaseID, excludeID int64) (decimal.Decimal, error) {
	return r.paidSum(ctx, "purchase_id", purchaseID, excludeID)
}

func (r PaymentRepository) paidSum(ctx context.Context, column string, id, excludeID int64) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.DB.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount),0) FROM payments
		WHERE `+column+`=? AND status=? AND id<>?`,
		id, models.PaymentPaid, excludeID,
	).Scan(&sum)
	return sum, err
}
