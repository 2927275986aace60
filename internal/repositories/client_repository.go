package repositories

import (
	"context"
	"fmt"

	intdb "backoffice/internal/db"
	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
)

type ClientRepository struct {
	DB intdb.DBTX
}

const clientColumns = `id, first_name, last_name, full_name, sex, nationality,
	COALESCE(email,''), phone, address,
	COALESCE(id_card_number,''), COALESCE(passport_number,''), COALESCE(bank_account,'')`

func scanClient(row scanner) (models.Client, error) {
	var c models.Client
	err := row.Scan(
		&c.ID,
		&c.FirstName,
		&c.LastName,
		&c.FullName,
		&c.Sex,
		&c.Nationality,
		&c.Email,
		&c.Phone,
		&c.Address,
		&c.IDCardNumber,
		&c.PassportNumber,
		&c.BankAccount,
	)
	return c, err
}

func (r ClientRepository) Create(ctx context.Context, c *models.Client) error {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO clients (first_name, last_name, full_name, sex, nationality, email, phone, address,
		                     id_card_number, passport_number, bank_account)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.FirstName, c.LastName, c.FullName, c.Sex, c.Nationality, intdb.NullIfEmpty(c.Email), c.Phone, c.Address,
		intdb.NullIfEmpty(c.IDCardNumber), intdb.NullIfEmpty(c.PassportNumber), intdb.NullIfEmpty(c.BankAccount),
	)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	c.ID, err = res.LastInsertId()
	return err
}

func (r ClientRepository) Get(ctx context.Context, id int64) (models.Client, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE id=?`, id)
	c, err := scanClient(row)
	if err != nil {
		return models.Client{}, notFound(err, "client", id)
	}
	return c, nil
}

// List searches by full name, email or phone when f.Search is set.
func (r ClientRepository) List(ctx context.Context, f domain.ListFilter) ([]models.Client, error) {
	var w where
	if f.Search != "" {
		like := likePattern(f.Search)
		w.add("(full_name LIKE ? OR email LIKE ? OR phone LIKE ?)", like, like, like)
	}
	cond, args := page(w, f.Pagination)
	rows, err := r.DB.QueryContext(ctx, `SELECT `+clientColumns+` FROM clients`+cond+` ORDER BY full_name, id LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r ClientRepository) Update(ctx context.Context, c models.Client) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE clients
		SET first_name=?, last_name=?, full_name=?, sex=?, nationality=?, email=?, phone=?, address=?,
		    id_card_number=?, passport_number=?, bank_account=?
		WHERE id=?`,
		c.FirstName, c.LastName, c.FullName, c.Sex, c.Nationality, intdb.NullIfEmpty(c.Email), c.Phone, c.Address,
		intdb.NullIfEmpty(c.IDCardNumber), intdb.NullIfEmpty(c.PassportNumber), intdb.NullIfEmpty(c.BankAccount),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return expectOne(res, "client", c.ID)
}

func (r ClientRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM clients WHERE id=?`, id)
	if err != nil {
		return deleteErr(err, "client")
	}
	return expectOne(res, "client", id)
}
