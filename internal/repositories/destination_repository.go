package repositories

import (
	"context"
	"fmt"

	intdb "backoffice/internal/db"
	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
)

type DestinationRepository struct {
	DB intdb.DBTX
}

const destinationColumns = `id, name, kind, city, country, address`

func scanDestination(row scanner) (models.Destination, error) {
	var d models.Destination
	err := row.Scan(&d.ID, &d.Name, &d.Kind, &d.City, &d.Country, &d.Address)
	return d, err
}

func (r DestinationRepository) Create(ctx context.Context, d *models.Destination) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO destinations (name, kind, city, country, address) VALUES (?, ?, ?, ?, ?)`,
		d.Name, d.Kind, d.City, d.Country, d.Address,
	)
	if err != nil {
		return fmt.Errorf("insert destination: %w", err)
	}
	d.ID, err = res.LastInsertId()
	return err
}

func (r DestinationRepository) Get(ctx context.Context, id int64) (models.Destination, error) {
	d, err := scanDestination(r.DB.QueryRowContext(ctx, `SELECT `+destinationColumns+` FROM destinations WHERE id=?`, id))
	if err != nil {
		return models.Destination{}, notFound(err, "destination", id)
	}
	return d, nil
}

func (r DestinationRepository) List(ctx context.Context, f domain.ListFilter) ([]models.Destination, error) {
	var w where
	if f.Search != "" {
		like := likePattern(f.Search)
		w.add("(name LIKE ? OR city LIKE ? OR country LIKE ?)", like, like, like)
	}
	if f.Kind != "" {
		w.add("kind=?", f.Kind)
	}
	cond, args := page(w, f.Pagination)
	rows, err := r.DB.QueryContext(ctx, `SELECT `+destinationColumns+` FROM destinations`+cond+` ORDER BY name, id LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Destination{}
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r DestinationRepository) Update(ctx context.Context, d models.Destination) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE destinations SET name=?, kind=?, city=?, country=?, address=? WHERE id=?`,
		d.Name, d.Kind, d.City, d.Country, d.Address, d.ID,
	)
	if err != nil {
		return fmt.Errorf("update destination: %w", err)
	}
	return expectOne(res, "destination", d.ID)
}

func (r DestinationRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM destinations WHERE id=?`, id)
	if err != nil {
		return deleteErr(err, "destination")
	}
	return expectOne(res, "destination", id)
}
