package repositories

import (
	"context"
	"fmt"

	intdb "backoffice/internal/db"
	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
)

type ReservationRepository struct {
	DB intdb.DBTX
}

const reservationColumns = `id, number, reservation_date, status, COALESCE(trip_id,0), client_id,
	adults, children, total_travelers,
	transport_price, lodging_price, catering_price, guide_price, equipment_price, room_supplement,
	total, amount_paid, amount_due, email_confirmed`

func scanReservation(row scanner) (models.Reservation, error) {
	var r models.Reservation
	err := row.Scan(
		&r.ID,
		&r.Number,
		&r.Date,
		&r.Status,
		&r.TripID,
		&r.ClientID,
		&r.Adults,
		&r.Children,
		&r.TotalTravelers,
		&r.TransportPrice,
		&r.LodgingPrice,
		&r.CateringPrice,
		&r.GuidePrice,
		&r.EquipmentPrice,
		&r.RoomSupplement,
		&r.Total,
		&r.AmountPaid,
		&r.AmountDue,
		&r.EmailConfirmed,
	)
	return r, err
}

func (r ReservationRepository) Create(ctx context.Context, res *models.Reservation) error {
	out, err := r.DB.ExecContext(ctx, `
		INSERT INTO reservations (number, reservation_date, status, trip_id, client_id,
		                          adults, children, total_travelers,
		                          transport_price, lodging_price, catering_price, guide_price, equipment_price,
		                          room_supplement, total, amount_paid, amount_due, email_confirmed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.Number, res.Date, res.Status, intdb.NullIfZero(res.TripID), res.ClientID,
		res.Adults, res.Children, res.TotalTravelers,
		res.TransportPrice, res.LodgingPrice, res.CateringPrice, res.GuidePrice, res.EquipmentPrice,
		res.RoomSupplement, res.Total, res.AmountPaid, res.AmountDue, res.EmailConfirmed,
	)
	if err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	res.ID, err = out.LastInsertId()
	return err
}

func (r ReservationRepository) Get(ctx context.Context, id int64) (models.Reservation, error) {
	return r.get(ctx, id, "")
}

func (r ReservationRepository) GetForUpdate(ctx context.Context, id int64) (models.Reservation, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r ReservationRepository) get(ctx context.Context, id int64, lock string) (models.Reservation, error) {
	res, err := scanReservation(r.DB.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id=?`+lock, id))
	if err != nil {
		return models.Reservation{}, notFound(err, "reservation", id)
	}
	return res, nil
}

func (r ReservationRepository) List(ctx context.Context, f domain.ListFilter) ([]models.Reservation, error) {
	var w where
	if f.TripID > 0 {
		w.add("trip_id=?", f.TripID)
	}
	if f.ClientID > 0 {
		w.add("client_id=?", f.ClientID)
	}
	if f.Status != "" {
		w.add("status=?", f.Status)
	}
	if f.Search != "" {
		w.add("number LIKE ?", likePattern(f.Search))
	}
	if !f.Range.From.IsZero() {
		w.add("reservation_date >= ?", f.Range.From)
	}
	if !f.Range.To.IsZero() {
		w.add("reservation_date <= ?", f.Range.To)
	}
	cond, args := page(w, f.Pagination)
	rows, err := r.DB.QueryContext(ctx, `SELECT `+reservationColumns+` FROM reservations`+cond+
		` ORDER BY reservation_date DESC, id DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanReservation)
}

// ListOpenByTrip returns pending and confirmed reservations of a trip, the
// ones whose pricing follows the trip.
func (r ReservationRepository) ListOpenByTrip(ctx context.Context, tripID int64) ([]models.Reservation, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+reservationColumns+` FROM reservations
		WHERE trip_id=? AND status IN (?, ?) ORDER BY id`,
		tripID, models.ReservationPending, models.ReservationConfirmed)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanReservation)
}

func (r ReservationRepository) Update(ctx context.Context, res models.Reservation) error {
	out, err := r.DB.ExecContext(ctx, `
		UPDATE reservations
		SET reservation_date=?, status=?, trip_id=?, client_id=?,
		    adults=?, children=?, total_travelers=?,
		    transport_price=?, lodging_price=?, catering_price=?, guide_price=?, equipment_price=?,
		    room_supplement=?, total=?, amount_paid=?, amount_due=?, email_confirmed=?
		WHERE id=?`,
		res.Date, res.Status, intdb.NullIfZero(res.TripID), res.ClientID,
		res.Adults, res.Children, res.TotalTravelers,
		res.TransportPrice, res.LodgingPrice, res.CateringPrice, res.GuidePrice, res.EquipmentPrice,
		res.RoomSupplement, res.Total, res.AmountPaid, res.AmountDue, res.EmailConfirmed,
		res.ID,
	)
	if err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}
	return expectOne(out, "reservation", res.ID)
}

func (r ReservationRepository) SetEmailConfirmed(ctx context.Context, id int64, confirmed bool) error {
	out, err := r.DB.ExecContext(ctx, `UPDATE reservations SET email_confirmed=? WHERE id=?`, confirmed, id)
	if err != nil {
		return err
	}
	return expectOne(out, "reservation", id)
}

// ConfirmedTravelers sums travelers of the trip's confirmed reservations,
// leaving out excludeID.
func (r ReservationRepository) ConfirmedTravelers(ctx context.Context, tripID, excludeID int64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(total_travelers),0)
		FROM reservations
		WHERE trip_id=? AND status=? AND id<>?`,
		tripID, models.ReservationConfirmed, excludeID,
	).Scan(&n)
	return n, err
}

func (r ReservationRepository) Travelers(ctx context.Context, reservationID int64) ([]models.Traveler, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, reservation_id, name, kind, age
		FROM travelers WHERE reservation_id=? ORDER BY id`, reservationID)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(s scanner) (models.Traveler, error) {
		var t models.Traveler
		err := s.Scan(&t.ID, &t.ReservationID, &t.Name, &t.Kind, &t.Age)
		return t, err
	})
}

func (r ReservationRepository) AddTraveler(ctx context.Context, t *models.Traveler) error {
	out, err := r.DB.ExecContext(ctx,
		`INSERT INTO travelers (reservation_id, name, kind, age) VALUES (?, ?, ?, ?)`,
		t.ReservationID, t.Name, t.Kind, t.Age)
	if err != nil {
		return fmt.Errorf("insert traveler: %w", err)
	}
	t.ID, err = out.LastInsertId()
	return err
}

func (r ReservationRepository) RemoveTraveler(ctx context.Context, reservationID, id int64) error {
	out, err := r.DB.ExecContext(ctx, `DELETE FROM travelers WHERE id=? AND reservation_id=?`, id, reservationID)
	if err != nil {
		return err
	}
	return expectOne(out, "traveler", id)
}

func (r ReservationRepository) Rooms(ctx context.Context, reservationID int64) ([]models.RoomAssignment, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, reservation_id, room_type, rooms, nights, nightly_price, total
		FROM reservation_rooms WHERE reservation_id=? ORDER BY id`, reservationID)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(s scanner) (models.RoomAssignment, error) {
		var a models.RoomAssignment
		err := s.Scan(&a.ID, &a.ReservationID, &a.RoomType, &a.Rooms, &a.Nights, &a.NightlyPrice, &a.Total)
		return a, err
	})
}

func (r ReservationRepository) AddRoom(ctx context.Context, a *models.RoomAssignment) error {
	out, err := r.DB.ExecContext(ctx, `
		INSERT INTO reservation_rooms (reservation_id, room_type, rooms, nights, nightly_price, total)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.ReservationID, a.RoomType, a.Rooms, a.Nights, a.NightlyPrice, a.Total)
	if err != nil {
		return fmt.Errorf("insert room: %w", err)
	}
	a.ID, err = out.LastInsertId()
	return err
}

func (r ReservationRepository) RemoveRoom(ctx context.Context, reservationID, id int64) error {
	out, err := r.DB.ExecContext(ctx, `DELETE FROM reservation_rooms WHERE id=? AND reservation_id=?`, id, reservationID)
	if err != nil {
		return err
	}
	return expectOne(out, "room", id)
}
