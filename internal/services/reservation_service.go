package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/domain/calc"
	"backoffice/internal/domain/models"
	"backoffice/internal/metrics"
	"backoffice/internal/notify"
	"backoffice/internal/sequence"
	"backoffice/internal/utils"

	"github.com/shopspring/decimal"
)

// ReservationService drives the reservation lifecycle. Every mutation
// reprices the reservation and, while it is confirmed, re-syncs the trip's
// stored seat counts.
type ReservationService struct {
	Store     UnitOfWork
	Mailer    notify.Mailer
	Templates *notify.Templates
	Agency    string
	RequestID string
	Now       func() time.Time
}

type TravelerInput struct {
	Name string              `json:"name"`
	Kind models.TravelerKind `json:"kind"`
	Age  int                 `json:"age"`
}

type RoomInput struct {
	RoomType     models.RoomType `json:"room_type"`
	Rooms        int             `json:"rooms"`
	Nights       int             `json:"nights"`
	NightlyPrice decimal.Decimal `json:"nightly_price"`
}

type ReservationInput struct {
	ClientID   int64           `json:"client_id"`
	TripID     int64           `json:"trip_id"`
	Date       time.Time       `json:"date"`
	Supplement decimal.Decimal `json:"room_supplement"`
	Travelers  []TravelerInput `json:"travelers"`
	Rooms      []RoomInput     `json:"rooms"`
}

func (in TravelerInput) traveler(reservationID int64) (models.Traveler, error) {
	t := models.Traveler{
		ReservationID: reservationID,
		Name:          utils.NormalizeSpace(in.Name),
		Kind:          in.Kind,
		Age:           in.Age,
	}
	if t.Name == "" {
		return t, domain.ValidationError{Field: "name", Msg: "traveler name is required"}
	}
	if t.Kind == "" {
		t.Kind = models.TravelerAdult
	}
	if t.Kind != models.TravelerAdult && t.Kind != models.TravelerChild {
		return t, domain.ValidationError{Field: "kind", Msg: "traveler must be adult or child"}
	}
	if t.Age < 0 {
		return t, domain.ValidationError{Field: "age", Msg: "age cannot be negative"}
	}
	return t, nil
}

func (in RoomInput) room(reservationID int64) (models.RoomAssignment, error) {
	a := models.RoomAssignment{
		ReservationID: reservationID,
		RoomType:      in.RoomType,
		Rooms:         in.Rooms,
		Nights:        in.Nights,
		NightlyPrice:  calc.Round2(in.NightlyPrice),
	}
	if a.RoomType == "" {
		a.RoomType = models.RoomDouble
	}
	if !a.RoomType.Valid() {
		return a, domain.ValidationError{Field: "room_type", Msg: "unknown room type " + string(a.RoomType)}
	}
	if a.Rooms < 1 {
		return a, domain.ValidationError{Field: "rooms", Msg: "at least one room"}
	}
	if a.Nights < 1 {
		return a, domain.ValidationError{Field: "nights", Msg: "at least one night"}
	}
	if a.NightlyPrice.IsNegative() {
		return a, domain.ValidationError{Field: "nightly_price", Msg: "price cannot be negative"}
	}
	a.Total = calc.RoomTotal(a)
	return a, nil
}

func checkBookingDate(date time.Time, trip models.Trip) error {
	if calc.Day(date).After(calc.Day(trip.StartDate)) {
		return domain.ValidationError{
			Field: "date",
			Msg:   fmt.Sprintf("reservation date %s is after the trip start %s", utils.FormatDate(date), utils.FormatDate(trip.StartDate)),
		}
	}
	return nil
}

func (s ReservationService) detail(ctx context.Context, tx Tx, r models.Reservation) (models.ReservationDetail, error) {
	d := models.ReservationDetail{Reservation: r}
	var err error
	if d.Travelers, err = tx.Reservations.Travelers(ctx, r.ID); err != nil {
		return d, err
	}
	d.Rooms, err = tx.Reservations.Rooms(ctx, r.ID)
	return d, err
}

// Create opens a pending reservation with its initial lines. No seats are
// taken until it is confirmed.
func (s ReservationService) Create(ctx context.Context, in ReservationInput) (models.ReservationDetail, error) {
	if in.ClientID <= 0 {
		return models.ReservationDetail{}, domain.ValidationError{Field: "client_id", Msg: "client is required"}
	}
	if in.Supplement.IsNegative() {
		return models.ReservationDetail{}, domain.ValidationError{Field: "room_supplement", Msg: "supplement cannot be negative"}
	}
	date := in.Date
	if date.IsZero() {
		date = clock(s.Now)
	}

	var out models.ReservationDetail
	err := s.Store.Do(ctx, func(tx Tx) error {
		if _, err := tx.Clients.Get(ctx, in.ClientID); err != nil {
			return err
		}
		if in.TripID > 0 {
			trip, err := tx.Trips.Get(ctx, in.TripID)
			if err != nil {
				return err
			}
			if err := checkBookingDate(date, trip); err != nil {
				return err
			}
		}

		number, err := sequence.NextNumber(ctx, tx.Seq, sequence.Reservation, date)
		if err != nil {
			return err
		}
		r := models.Reservation{
			Number:         number,
			Date:           calc.Day(date),
			Status:         models.ReservationPending,
			TripID:         in.TripID,
			ClientID:       in.ClientID,
			RoomSupplement: calc.Round2(in.Supplement),
		}
		if err := tx.Reservations.Create(ctx, &r); err != nil {
			return err
		}
		for _, ti := range in.Travelers {
			t, err := ti.traveler(r.ID)
			if err != nil {
				return err
			}
			if err := tx.Reservations.AddTraveler(ctx, &t); err != nil {
				return err
			}
		}
		for _, ri := range in.Rooms {
			a, err := ri.room(r.ID)
			if err != nil {
				return err
			}
			if err := tx.Reservations.AddRoom(ctx, &a); err != nil {
				return err
			}
		}
		if err := repriceReservation(ctx, tx, &r); err != nil {
			return err
		}
		out, err = s.detail(ctx, tx, r)
		return err
	})
	if err != nil {
		return models.ReservationDetail{}, err
	}
	utils.LogEvent(s.RequestID, "reservations", "create", fmt.Sprintf("reservation %s created, total %s", out.Number, utils.FormatMoney(out.Total)))
	return out, nil
}

func (s ReservationService) Get(ctx context.Context, id int64) (models.ReservationDetail, error) {
	var out models.ReservationDetail
	err := s.Store.Do(ctx, func(tx Tx) error {
		r, err := tx.Reservations.Get(ctx, id)
		if err != nil {
			return err
		}
		out, err = s.detail(ctx, tx, r)
		return err
	})
	return out, err
}

func (s ReservationService) List(ctx context.Context, f domain.ListFilter) ([]models.Reservation, error) {
	var out []models.Reservation
	err := s.Store.Do(ctx, func(tx Tx) (err error) {
		out, err = tx.Reservations.List(ctx, f)
		return err
	})
	return out, err
}

// mutate locks an open reservation, runs change, reprices and re-syncs the
// trip seats when the reservation holds seats.
func (s ReservationService) mutate(ctx context.Context, id int64, action string, change func(tx Tx, r *models.Reservation) error) (models.ReservationDetail, error) {
	var out models.ReservationDetail
	err := s.Store.Do(ctx, func(tx Tx) error {
		r, err := tx.Reservations.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !r.Status.Open() {
			return domain.UserError{Action: action, Msg: fmt.Sprintf("reservation %s is %s", r.Number, r.Status)}
		}
		if err := change(tx, &r); err != nil {
			return err
		}
		if err := repriceReservation(ctx, tx, &r); err != nil {
			return err
		}
		if r.Status == models.ReservationConfirmed {
			if err := syncTripSeats(ctx, tx, r.TripID); err != nil {
				return err
			}
		}
		out, err = s.detail(ctx, tx, r)
		return err
	})
	if err != nil {
		return models.ReservationDetail{}, err
	}
	utils.LogEvent(s.RequestID, "reservations", action, fmt.Sprintf("reservation %s: %s, total %s", out.Number, action, utils.FormatMoney(out.Total)))
	return out, nil
}

// AddTraveler appends a traveler. A confirmed reservation must still fit in
// the trip capacity with the extra head.
func (s ReservationService) AddTraveler(ctx context.Context, id int64, in TravelerInput) (models.ReservationDetail, error) {
	t, err := in.traveler(id)
	if err != nil {
		return models.ReservationDetail{}, err
	}
	return s.mutate(ctx, id, "add_traveler", func(tx Tx, r *models.Reservation) error {
		if r.Status == models.ReservationConfirmed && r.TripID > 0 {
			trip, err := tx.Trips.GetForUpdate(ctx, r.TripID)
			if err != nil {
				return err
			}
			others, err := tx.Reservations.ConfirmedTravelers(ctx, r.TripID, r.ID)
			if err != nil {
				return err
			}
			current, err := tx.Reservations.Travelers(ctx, r.ID)
			if err != nil {
				return err
			}
			if err := calc.CheckCapacity(trip.Capacity, others, len(current)+1); err != nil {
				return err
			}
		}
		return tx.Reservations.AddTraveler(ctx, &t)
	})
}

// RemoveTraveler drops a traveler; the last one of a confirmed reservation stays.
func (s ReservationService) RemoveTraveler(ctx context.Context, id, travelerID int64) (models.ReservationDetail, error) {
	return s.mutate(ctx, id, "remove_traveler", func(tx Tx, r *models.Reservation) error {
		if r.Status == models.ReservationConfirmed {
			current, err := tx.Reservations.Travelers(ctx, r.ID)
			if err != nil {
				return err
			}
			if len(current) <= 1 {
				return domain.UserError{Action: "remove_traveler", Msg: "a confirmed reservation keeps at least one traveler, cancel it instead"}
			}
		}
		return tx.Reservations.RemoveTraveler(ctx, r.ID, travelerID)
	})
}

func (s ReservationService) AddRoom(ctx context.Context, id int64, in RoomInput) (models.ReservationDetail, error) {
	a, err := in.room(id)
	if err != nil {
		return models.ReservationDetail{}, err
	}
	return s.mutate(ctx, id, "add_room", func(tx Tx, r *models.Reservation) error {
		return tx.Reservations.AddRoom(ctx, &a)
	})
}

func (s ReservationService) RemoveRoom(ctx context.Context, id, roomID int64) (models.ReservationDetail, error) {
	return s.mutate(ctx, id, "remove_room", func(tx Tx, r *models.Reservation) error {
		return tx.Reservations.RemoveRoom(ctx, r.ID, roomID)
	})
}

func (s ReservationService) SetSupplement(ctx context.Context, id int64, amount decimal.Decimal) (models.ReservationDetail, error) {
	if amount.IsNegative() {
		return models.ReservationDetail{}, domain.ValidationError{Field: "room_supplement", Msg: "supplement cannot be negative"}
	}
	return s.mutate(ctx, id, "set_supplement", func(tx Tx, r *models.Reservation) error {
		r.RoomSupplement = calc.Round2(amount)
		return nil
	})
}

// ChangeTrip moves a pending reservation to another trip.
func (s ReservationService) ChangeTrip(ctx context.Context, id, tripID int64) (models.ReservationDetail, error) {
	return s.mutate(ctx, id, "change_trip", func(tx Tx, r *models.Reservation) error {
		if r.Status != models.ReservationPending {
			return domain.UserError{Action: "change_trip", Msg: "only pending reservations can change trip"}
		}
		if tripID > 0 {
			trip, err := tx.Trips.Get(ctx, tripID)
			if err != nil {
				return err
			}
			if err := checkBookingDate(r.Date, trip); err != nil {
				return err
			}
		}
		r.TripID = tripID
		return nil
	})
}

// Confirm takes seats on the trip. It needs at least one traveler and enough
// capacity left once the other confirmed reservations are counted; the trip
// row stays locked until commit so concurrent confirmations serialize.
func (s ReservationService) Confirm(ctx context.Context, id int64) (res ActionResult, err error) {
	defer func() { metrics.ReservationActions.WithLabelValues("confirm", metrics.Outcome(err)).Inc() }()

	var (
		r      models.Reservation
		trip   models.Trip
		client models.Client
	)
	err = s.Store.Do(ctx, func(tx Tx) error {
		var err error
		r, err = tx.Reservations.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if r.Status != models.ReservationPending {
			return domain.UserError{Action: "confirm", Msg: fmt.Sprintf("reservation %s is %s, only pending reservations can be confirmed", r.Number, r.Status)}
		}
		if r.TripID <= 0 {
			return domain.UserError{Action: "confirm", Msg: "choose a trip before confirming"}
		}
		travelers, err := tx.Reservations.Travelers(ctx, r.ID)
		if err != nil {
			return err
		}
		if len(travelers) == 0 {
			return domain.UserError{Action: "confirm", Msg: "add at least one traveler before confirming"}
		}

		trip, err = tx.Trips.GetForUpdate(ctx, r.TripID)
		if err != nil {
			return err
		}
		others, err := tx.Reservations.ConfirmedTravelers(ctx, r.TripID, r.ID)
		if err != nil {
			return err
		}
		if err := calc.CheckCapacity(trip.Capacity, others, len(travelers)); err != nil {
			return err
		}

		r.Status = models.ReservationConfirmed
		if err := repriceReservation(ctx, tx, &r); err != nil {
			return err
		}
		if err := syncTripSeats(ctx, tx, r.TripID); err != nil {
			return err
		}
		client, err = tx.Clients.Get(ctx, r.ClientID)
		return err
	})
	if err != nil {
		return ActionResult{}, err
	}
	utils.LogEvent(s.RequestID, "reservations", "confirm", fmt.Sprintf("reservation %s confirmed, %d travelers on trip %d", r.Number, r.TotalTravelers, r.TripID))

	message := fmt.Sprintf("Reservation %s is confirmed.", r.Number)
	mailErr := sendMail(ctx, s.Mailer, s.Templates, notify.ReservationConfirmation, client.Email, s.reservationMail(r, trip, client))
	if mailErr == nil {
		mailErr = s.Store.Do(ctx, func(tx Tx) error {
			return tx.Reservations.SetEmailConfirmed(ctx, r.ID, true)
		})
	}
	switch {
	case mailErr == nil:
		r.EmailConfirmed = true
		message += " A confirmation email was sent to " + client.Email + "."
	case errors.Is(mailErr, errNoRecipient):
		message += " No confirmation email was sent: the client has no email address."
	default:
		utils.LogWarn(s.RequestID, "reservations", "confirm", "confirmation email failed: "+mailErr.Error())
		message += " The confirmation email could not be sent."
	}
	return succeeded("Reservation confirmed", message, r), nil
}

// Cancel releases the seats of a pending or confirmed reservation.
func (s ReservationService) Cancel(ctx context.Context, id int64) (res ActionResult, err error) {
	defer func() { metrics.ReservationActions.WithLabelValues("cancel", metrics.Outcome(err)).Inc() }()

	var (
		r      models.Reservation
		trip   models.Trip
		client models.Client
	)
	err = s.Store.Do(ctx, func(tx Tx) error {
		var err error
		r, err = tx.Reservations.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		switch r.Status {
		case models.ReservationCompleted:
			return domain.UserError{Action: "cancel", Msg: fmt.Sprintf("reservation %s is completed and cannot be cancelled", r.Number)}
		case models.ReservationCancelled:
			return domain.UserError{Action: "cancel", Msg: fmt.Sprintf("reservation %s is already cancelled", r.Number)}
		}
		held := r.Status == models.ReservationConfirmed

		r.Status = models.ReservationCancelled
		if err := tx.Reservations.Update(ctx, r); err != nil {
			return err
		}
		if held {
			if err := syncTripSeats(ctx, tx, r.TripID); err != nil {
				return err
			}
		}
		if r.TripID > 0 {
			if trip, err = tx.Trips.Get(ctx, r.TripID); err != nil {
				return err
			}
		}
		client, err = tx.Clients.Get(ctx, r.ClientID)
		return err
	})
	if err != nil {
		return ActionResult{}, err
	}
	utils.LogEvent(s.RequestID, "reservations", "cancel", "reservation cancelled: "+r.Number)

	if mailErr := sendMail(ctx, s.Mailer, s.Templates, notify.ReservationCancellation, client.Email, s.reservationMail(r, trip, client)); mailErr != nil && !errors.Is(mailErr, errNoRecipient) {
		utils.LogWarn(s.RequestID, "reservations", "cancel", "cancellation email failed: "+mailErr.Error())
	}
	return succeeded("Reservation cancelled", fmt.Sprintf("Reservation %s is cancelled.", r.Number), r), nil
}

// Complete closes a confirmed reservation once the trip is done. Only
// confirmed reservations hold seats, so the trip count drops with it.
func (s ReservationService) Complete(ctx context.Context, id int64) (res ActionResult, err error) {
	defer func() { metrics.ReservationActions.WithLabelValues("complete", metrics.Outcome(err)).Inc() }()

	var r models.Reservation
	err = s.Store.Do(ctx, func(tx Tx) error {
		var err error
		r, err = tx.Reservations.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if r.Status != models.ReservationConfirmed {
			return domain.UserError{Action: "complete", Msg: fmt.Sprintf("reservation %s is %s, only confirmed reservations can be completed", r.Number, r.Status)}
		}
		r.Status = models.ReservationCompleted
		if err := tx.Reservations.Update(ctx, r); err != nil {
			return err
		}
		return syncTripSeats(ctx, tx, r.TripID)
	})
	if err != nil {
		return ActionResult{}, err
	}
	utils.LogEvent(s.RequestID, "reservations", "complete", "reservation completed: "+r.Number)
	return succeeded("Reservation completed", fmt.Sprintf("Reservation %s is completed.", r.Number), r), nil
}

// Recompute reprices a reservation from its current trip, lines and
// payments. Closed reservations only get their amounts refreshed.
func (s ReservationService) Recompute(ctx context.Context, id int64) (models.ReservationDetail, error) {
	var out models.ReservationDetail
	err := s.Store.Do(ctx, func(tx Tx) error {
		r, err := tx.Reservations.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if r.Status.Open() {
			err = repriceReservation(ctx, tx, &r)
		} else {
			err = refreshReservationAmounts(ctx, tx, &r)
		}
		if err != nil {
			return err
		}
		out, err = s.detail(ctx, tx, r)
		return err
	})
	return out, err
}

func (s ReservationService) reservationMail(r models.Reservation, trip models.Trip, client models.Client) notify.ReservationMail {
	return notify.ReservationMail{
		Agency:     s.Agency,
		ClientName: client.FullName,
		Number:     r.Number,
		TripTitle:  trip.Title,
		StartDate:  utils.FormatDate(trip.StartDate),
		EndDate:    utils.FormatDate(trip.EndDate),
		Travelers:  r.TotalTravelers,
		Total:      utils.FormatMoney(r.Total),
		AmountDue:  utils.FormatMoney(r.AmountDue),
	}
}
