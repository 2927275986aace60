package repositories

import (
	"context"
	"fmt"

	intdb "backoffice/internal/db"
	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
)

type PurchaseRepository struct {
	DB intdb.DBTX
}

const purchaseColumns = `id, number, purchase_date, trip_id, status, COALESCE(supplier_id,0),
	supplier_name, supplier_kind, contact, phone, email, active,
	vat_rate, untaxed_amount, vat_amount, total_amount, amount_paid`

func scanPurchase(row scanner) (models.Purchase, error) {
	var p models.Purchase
	err := row.Scan(
		&p.ID,
		&p.Number,
		&p.Date,
		&p.TripID,
		&p.Status,
		&p.SupplierID,
		&p.SupplierName,
		&p.SupplierKind,
		&p.Contact,
		&p.Phone,
		&p.Email,
		&p.Active,
		&p.VATRate,
		&p.UntaxedAmount,
		&p.VATAmount,
		&p.TotalAmount,
		&p.AmountPaid,
	)
	return p, err
}

func (r PurchaseRepository) Create(ctx context.Context, p *models.Purchase) error {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO purchases (number, purchase_date, trip_id, status, supplier_id, supplier_name, supplier_kind,
		                       contact, phone, email, active, vat_rate, untaxed_amount, vat_amount, total_amount, amount_paid)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Number, p.Date, p.TripID, p.Status, intdb.NullIfZero(p.SupplierID), p.SupplierName, p.SupplierKind,
		p.Contact, p.Phone, p.Email, p.Active, p.VATRate, p.UntaxedAmount, p.VATAmount, p.TotalAmount, p.AmountPaid,
	)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	p.ID, err = res.LastInsertId()
	return err
}

func (r PurchaseRepository) Get(ctx context.Context, id int64) (models.Purchase, error) {
	return r.get(ctx, id, "")
}

func (r PurchaseRepository) GetForUpdate(ctx context.Context, id int64) (models.Purchase, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r PurchaseRepository) get(ctx context.Context, id int64, lock string) (models.Purchase, error) {
	p, err := scanPurchase(r.DB.QueryRowContext(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id=?`+lock, id))
	if err != nil {
		return models.Purchase{}, notFound(err, "purchase", id)
	}
	return p, nil
}

func (r PurchaseRepository) List(ctx context.Context, f domain.ListFilter) ([]models.Purchase, error) {
	var w where
	if f.TripID > 0 {
		w.add("trip_id=?", f.TripID)
	}
	if f.Status != "" {
		w.add("status=?", f.Status)
	}
	if f.Search != "" {
		like := likePattern(f.Search)
		w.add("(number LIKE ? OR supplier_name LIKE ?)", like, like)
	}
	if !f.Range.From.IsZero() {
		w.add("purchase_date >= ?", f.Range.From)
	}
	if !f.Range.To.IsZero() {
		w.add("purchase_date <= ?", f.Range.To)
	}
	cond, args := page(w, f.Pagination)
	rows, err := r.DB.QueryContext(ctx, `SELECT `+purchaseColumns+` FROM purchases`+cond+
		` ORDER BY purchase_date DESC, id DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanPurchase)
}

func (r PurchaseRepository) Update(ctx context.Context, p models.Purchase) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE purchases
		SET purchase_date=?, trip_id=?, status=?, supplier_id=?, supplier_name=?, supplier_kind=?,
		    contact=?, phone=?, email=?, active=?, vat_rate=?, untaxed_amount=?, vat_amount=?,
		    total_amount=?, amount_paid=?
		WHERE id=?`,
		p.Date, p.TripID, p.Status, intdb.NullIfZero(p.SupplierID), p.SupplierName, p.SupplierKind,
		p.Contact, p.Phone, p.Email, p.Active, p.VATRate, p.UntaxedAmount, p.VATAmount,
		p.TotalAmount, p.AmountPaid, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update purchase: %w", err)
	}
	return expectOne(res, "purchase", p.ID)
}

func (r PurchaseRepository) Lines(ctx context.Context, purchaseID int64) ([]models.PurchaseLine, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, purchase_id, service, description, quantity, unit_price, total
		FROM purchase_lines WHERE purchase_id=? ORDER BY id`, purchaseID)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(s scanner) (models.PurchaseLine, error) {
		var l models.PurchaseLine
		err := s.Scan(&l.ID, &l.PurchaseID, &l.Service, &l.Description, &l.Quantity, &l.UnitPrice, &l.Total)
		return l, err
	})
}

func (r PurchaseRepository) AddLine(ctx context.Context, l *models.PurchaseLine) error {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO purchase_lines (purchase_id, service, description, quantity, unit_price, total)
		VALUES (?, ?, ?, ?, ?, ?)`,
		l.PurchaseID, l.Service, l.Description, l.Quantity, l.UnitPrice, l.Total)
	if err != nil {
		return fmt.Errorf("insert purchase line: %w", err)
	}
	l.ID, err = res.LastInsertId()
	return err
}

func (r PurchaseRepository) RemoveLine(ctx context.Context, purchaseID, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM purchase_lines WHERE id=? AND purchase_id=?`, id, purchaseID)
	if err != nil {
		return err
	}
	return expectOne(res, "purchase line", id)
}
