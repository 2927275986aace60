package repositories

import (
	"context"
	"fmt"

	intdb "backoffice/internal/db"
	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
)

type SupplierRepository struct {
	DB intdb.DBTX
}

const supplierColumns = `id, name, kind, contact, phone, email`

func scanSupplier(row scanner) (models.Supplier, error) {
	var s models.Supplier
	err := row.Scan(&s.ID, &s.Name, &s.Kind, &s.Contact, &s.Phone, &s.Email)
	return s, err
}

func (r SupplierRepository) Create(ctx context.Context, s *models.Supplier) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO suppliers (name, kind, contact, phone, email) VALUES (?, ?, ?, ?, ?)`,
		s.Name, s.Kind, s.Contact, s.Phone, s.Email,
	)
	if err != nil {
		return fmt.Errorf("insert supplier: %w", err)
	}
	s.ID, err = res.LastInsertId()
	return err
}

func (r SupplierRepository) Get(ctx context.Context, id int64) (models.Supplier, error) {
	s, err := scanSupplier(r.DB.QueryRowContext(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id=?`, id))
	if err != nil {
		return models.Supplier{}, notFound(err, "supplier", id)
	}
	return s, nil
}

func (r SupplierRepository) List(ctx context.Context, f domain.ListFilter) ([]models.Supplier, error) {
	var w where
	if f.Search != "" {
		w.add("name LIKE ?", likePattern(f.Search))
	}
	if f.Kind != "" {
		w.add("kind=?", f.Kind)
	}
	cond, args := page(w, f.Pagination)
	rows, err := r.DB.QueryContext(ctx, `SELECT `+supplierColumns+` FROM suppliers`+cond+` ORDER BY name, id LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Supplier{}
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r SupplierRepository) Update(ctx context.Context, s models.Supplier) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE suppliers SET name=?, kind=?, contact=?, phone=?, email=? WHERE id=?`,
		s.Name, s.Kind, s.Contact, s.Phone, s.Email, s.ID,
	)
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	return expectOne(res, "supplier", s.ID)
}

func (r SupplierRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM suppliers WHERE id=?`, id)
	if err != nil {
		return deleteErr(err, "supplier")
	}
	return expectOne(res, "supplier", id)
}
