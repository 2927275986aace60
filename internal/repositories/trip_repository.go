package repositories

import (
	"context"
	"database/sql"
	"fmt"

	intdb "backoffice/internal/db"
	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
)

// TripRepository stores trips and their offerings (meals, guides, equipment,
// transport legs, hotel stays, program days).
type TripRepository struct {
	DB intdb.DBTX
}

const tripColumns = `id, title, COALESCE(destination_id,0), departure_city, start_date, end_date,
	adult_price, child_price, capacity, reserved, available`

func scanTrip(row scanner) (models.Trip, error) {
	var t models.Trip
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.DestinationID,
		&t.DepartureCity,
		&t.StartDate,
		&t.EndDate,
		&t.AdultPrice,
		&t.ChildPrice,
		&t.Capacity,
		&t.Reserved,
		&t.Available,
	)
	return t, err
}

func (r TripRepository) Create(ctx context.Context, t *models.Trip) error {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO trips (title, destination_id, departure_city, start_date, end_date,
		                   adult_price, child_price, capacity, reserved, available)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Title, intdb.NullIfZero(t.DestinationID), t.DepartureCity, t.StartDate, t.EndDate,
		t.AdultPrice, t.ChildPrice, t.Capacity, t.Reserved, t.Available,
	)
	if err != nil {
		return fmt.Errorf("insert trip: %w", err)
	}
	t.ID, err = res.LastInsertId()
	return err
}

func (r TripRepository) Get(ctx context.Context, id int64) (models.Trip, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate locks the trip row until the transaction ends; capacity checks
// on the same trip serialize on it.
func (r TripRepository) GetForUpdate(ctx context.Context, id int64) (models.Trip, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r TripRepository) get(ctx context.Context, id int64, lock string) (models.Trip, error) {
	t, err := scanTrip(r.DB.QueryRowContext(ctx, `SELECT `+tripColumns+` FROM trips WHERE id=?`+lock, id))
	if err != nil {
		return models.Trip{}, notFound(err, "trip", id)
	}
	return t, nil
}

func (r TripRepository) List(ctx context.Context, f domain.ListFilter) ([]models.Trip, error) {
	var w where
	if f.Search != "" {
		like := likePattern(f.Search)
		w.add("(title LIKE ? OR departure_city LIKE ?)", like, like)
	}
	if !f.Range.From.IsZero() {
		w.add("end_date >= ?", f.Range.From)
	}
	if !f.Range.To.IsZero() {
		w.add("start_date <= ?", f.Range.To)
	}
	cond, args := page(w, f.Pagination)
	rows, err := r.DB.QueryContext(ctx, `SELECT `+tripColumns+` FROM trips`+cond+` ORDER BY start_date DESC, id DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r TripRepository) Update(ctx context.Context, t models.Trip) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE trips
		SET title=?, destination_id=?, departure_city=?, start_date=?, end_date=?,
		    adult_price=?, child_price=?, capacity=?, reserved=?, available=?
		WHERE id=?`,
		t.Title, intdb.NullIfZero(t.DestinationID), t.DepartureCity, t.StartDate, t.EndDate,
		t.AdultPrice, t.ChildPrice, t.Capacity, t.Reserved, t.Available, t.ID,
	)
	if err != nil {
		return fmt.Errorf("update trip: %w", err)
	}
	return expectOne(res, "trip", t.ID)
}

func (r TripRepository) UpdateSeats(ctx context.Context, id int64, reserved, available int) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE trips SET reserved=?, available=? WHERE id=?`, reserved, available, id)
	if err != nil {
		return fmt.Errorf("update trip seats: %w", err)
	}
	return expectOne(res, "trip", id)
}

func (r TripRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM trips WHERE id=?`, id)
	if err != nil {
		return deleteErr(err, "trip")
	}
	return expectOne(res, "trip", id)
}

// Offerings loads the priced sub-records of a trip.
func (r TripRepository) Offerings(ctx context.Context, tripID int64) (models.TripOfferings, error) {
	var (
		out models.TripOfferings
		err error
	)
	if out.Meals, err = r.Meals(ctx, tripID); err != nil {
		return out, err
	}
	if out.Guides, err = r.Guides(ctx, tripID); err != nil {
		return out, err
	}
	if out.Equipment, err = r.Equipment(ctx, tripID); err != nil {
		return out, err
	}
	return out, nil
}

func (r TripRepository) Meals(ctx context.Context, tripID int64) ([]models.Meal, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, trip_id, day, COALESCE(destination_id,0), meal_type, restaurant, price
		FROM trip_meals WHERE trip_id=? ORDER BY day, id`, tripID)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(s scanner) (models.Meal, error) {
		var m models.Meal
		err := s.Scan(&m.ID, &m.TripID, &m.Day, &m.DestinationID, &m.MealType, &m.Restaurant, &m.Price)
		return m, err
	})
}

func (r TripRepository) Guides(ctx context.Context, tripID int64) ([]models.Guide, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, trip_id, name, phone, email, language, price
		FROM trip_guides WHERE trip_id=? ORDER BY id`, tripID)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(s scanner) (models.Guide, error) {
		var g models.Guide
		err := s.Scan(&g.ID, &g.TripID, &g.Name, &g.Phone, &g.Email, &g.Language, &g.Price)
		return g, err
	})
}

func (r TripRepository) Equipment(ctx context.Context, tripID int64) ([]models.Equipment, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, trip_id, name, quantity, price
		FROM trip_equipment WHERE trip_id=? ORDER BY id`, tripID)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(s scanner) (models.Equipment, error) {
		var e models.Equipment
		err := s.Scan(&e.ID, &e.TripID, &e.Name, &e.Quantity, &e.Price)
		return e, err
	})
}

func (r TripRepository) Transports(ctx context.Context, tripID int64) ([]models.Transport, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, trip_id, day, COALESCE(destination_id,0), kind, price
		FROM trip_transports WHERE trip_id=? ORDER BY day, id`, tripID)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(s scanner) (models.Transport, error) {
		var t models.Transport
		err := s.Scan(&t.ID, &t.TripID, &t.Day, &t.DestinationID, &t.Kind, &t.Price)
		return t, err
	})
}

func (r TripRepository) Hotels(ctx context.Context, tripID int64) ([]models.Hotel, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, trip_id, COALESCE(destination_id,0), name, phone, address, email, check_in, check_out, price, nights
		FROM trip_hotels WHERE trip_id=? ORDER BY check_in, id`, tripID)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(s scanner) (models.Hotel, error) {
		var (
			h                 models.Hotel
			checkIn, checkOut sql.NullTime
		)
		err := s.Scan(&h.ID, &h.TripID, &h.DestinationID, &h.Name, &h.Phone, &h.Address, &h.Email, &checkIn, &checkOut, &h.Price, &h.Nights)
		h.CheckIn = intdb.TimeOrZero(checkIn)
		h.CheckOut = intdb.TimeOrZero(checkOut)
		return h, err
	})
}

func (r TripRepository) Program(ctx context.Context, tripID int64) ([]models.ProgramDay, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, trip_id, day, COALESCE(destination_id,0), description
		FROM trip_program WHERE trip_id=? ORDER BY day, id`, tripID)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(s scanner) (models.ProgramDay, error) {
		var p models.ProgramDay
		err := s.Scan(&p.ID, &p.TripID, &p.Day, &p.DestinationID, &p.Description)
		return p, err
	})
}

func (r TripRepository) AddMeal(ctx context.Context, m *models.Meal) error {
	return r.insert(ctx, &m.ID,
		`INSERT INTO trip_meals (trip_id, day, destination_id, meal_type, restaurant, price) VALUES (?, ?, ?, ?, ?, ?)`,
		m.TripID, m.Day, intdb.NullIfZero(m.DestinationID), m.MealType, m.Restaurant, m.Price)
}

func (r TripRepository) AddGuide(ctx context.Context, g *models.Guide) error {
	return r.insert(ctx, &g.ID,
		`INSERT INTO trip_guides (trip_id, name, phone, email, language, price) VALUES (?, ?, ?, ?, ?, ?)`,
		g.TripID, g.Name, g.Phone, g.Email, g.Language, g.Price)
}

func (r TripRepository) AddEquipment(ctx context.Context, e *models.Equipment) error {
	return r.insert(ctx, &e.ID,
		`INSERT INTO trip_equipment (trip_id, name, quantity, price) VALUES (?, ?, ?, ?)`,
		e.TripID, e.Name, e.Quantity, e.Price)
}

func (r TripRepository) AddTransport(ctx context.Context, t *models.Transport) error {
	return r.insert(ctx, &t.ID,
		`INSERT INTO trip_transports (trip_id, day, destination_id, kind, price) VALUES (?, ?, ?, ?, ?)`,
		t.TripID, t.Day, intdb.NullIfZero(t.DestinationID), t.Kind, t.Price)
}

func (r TripRepository) AddHotel(ctx context.Context, h *models.Hotel) error {
	return r.insert(ctx, &h.ID, `
		INSERT INTO trip_hotels (trip_id, destination_id, name, phone, address, email, check_in, check_out, price, nights)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.TripID, intdb.NullIfZero(h.DestinationID), h.Name, h.Phone, h.Address, h.Email,
		intdb.NullTime(h.CheckIn), intdb.NullTime(h.CheckOut), h.Price, h.Nights)
}

func (r TripRepository) AddProgramDay(ctx context.Context, p *models.ProgramDay) error {
	return r.insert(ctx, &p.ID,
		`INSERT INTO trip_program (trip_id, day, destination_id, description) VALUES (?, ?, ?, ?)`,
		p.TripID, p.Day, intdb.NullIfZero(p.DestinationID), p.Description)
}

var offeringTables = map[models.OfferingKind]string{
	models.OfferingMeals:      "trip_meals",
	models.OfferingGuides:     "trip_guides",
	models.OfferingEquipment:  "trip_equipment",
	models.OfferingTransports: "trip_transports",
	models.OfferingHotels:     "trip_hotels",
	models.OfferingProgram:    "trip_program",
}

// RemoveOffering deletes one sub-record, scoped to its trip.
func (r TripRepository) RemoveOffering(ctx context.Context, kind models.OfferingKind, tripID, id int64) error {
	table, ok := offeringTables[kind]
	if !ok {
		return domain.ValidationError{Field: "kind", Msg: fmt.Sprintf("unknown offering %q", kind)}
	}
	res, err := r.DB.ExecContext(ctx, `DELETE FROM `+table+` WHERE id=? AND trip_id=?`, id, tripID)
	if err != nil {
		return err
	}
	return expectOne(res, string(kind), id)
}

func (r TripRepository) insert(ctx context.Context, id *int64, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	*id, err = res.LastInsertId()
	return err
}

func collect[T any](rows *sql.Rows, scan func(scanner) (T, error)) ([]T, error) {
	defer rows.Close()
	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
