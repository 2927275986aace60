package services

import (
	"context"
	"fmt"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/domain/calc"
	"backoffice/internal/domain/models"
	"backoffice/internal/utils"

	"github.com/shopspring/decimal"
)

// TripService owns trips and their offerings. Price changes reprice the
// open reservations of the trip in the same transaction.
type TripService struct {
	Store     UnitOfWork
	RequestID string
	Now       func() time.Time
}

type TripInput struct {
	Title         string          `json:"title"`
	DestinationID int64           `json:"destination_id"`
	DepartureCity string          `json:"departure_city"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	AdultPrice    decimal.Decimal `json:"adult_price"`
	ChildPrice    decimal.Decimal `json:"child_price"`
	Capacity      int             `json:"capacity"`
}

func (in TripInput) validate() error {
	if utils.NormalizeSpace(in.Title) == "" {
		return domain.ValidationError{Field: "title", Msg: "title is required"}
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return domain.ValidationError{Field: "start_date", Msg: "start and end dates are required"}
	}
	if calc.Day(in.EndDate).Before(calc.Day(in.StartDate)) {
		return domain.ValidationError{Field: "end_date", Msg: "end date cannot be before start date"}
	}
	if in.AdultPrice.IsNegative() {
		return domain.ValidationError{Field: "adult_price", Msg: "price cannot be negative"}
	}
	if in.ChildPrice.IsNegative() {
		return domain.ValidationError{Field: "child_price", Msg: "price cannot be negative"}
	}
	if in.Capacity < 1 {
		return domain.ValidationError{Field: "capacity", Msg: "capacity must be at least 1"}
	}
	return nil
}

func (in TripInput) apply(t *models.Trip) {
	t.Title = utils.NormalizeSpace(in.Title)
	t.DestinationID = in.DestinationID
	t.DepartureCity = utils.NormalizeSpace(in.DepartureCity)
	t.StartDate = calc.Day(in.StartDate)
	t.EndDate = calc.Day(in.EndDate)
	t.AdultPrice = calc.Round2(in.AdultPrice)
	t.ChildPrice = calc.Round2(in.ChildPrice)
	t.Capacity = in.Capacity
}

func (s TripService) withStatus(t models.Trip) models.Trip {
	t.Status = calc.TripStatus(t.StartDate, t.EndDate, clock(s.Now))
	return t
}

func (s TripService) Create(ctx context.Context, in TripInput) (models.Trip, error) {
	if in.Capacity == 0 {
		in.Capacity = 1
	}
	if err := in.validate(); err != nil {
		return models.Trip{}, err
	}
	var t models.Trip
	in.apply(&t)
	t.Reserved, t.Available = calc.Seats(t.Capacity, 0)

	err := s.Store.Do(ctx, func(tx Tx) error {
		if t.DestinationID > 0 {
			if _, err := tx.Destinations.Get(ctx, t.DestinationID); err != nil {
				return err
			}
		}
		return tx.Trips.Create(ctx, &t)
	})
	if err != nil {
		return models.Trip{}, err
	}
	utils.LogEvent(s.RequestID, "trips", "create", fmt.Sprintf("trip %d created: %s", t.ID, t.Title))
	return s.withStatus(t), nil
}

func (s TripService) Get(ctx context.Context, id int64) (models.TripDetail, error) {
	var d models.TripDetail
	err := s.Store.Do(ctx, func(tx Tx) error {
		t, err := tx.Trips.Get(ctx, id)
		if err != nil {
			return err
		}
		d.Trip = s.withStatus(t)
		if d.TripOfferings, err = tx.Trips.Offerings(ctx, id); err != nil {
			return err
		}
		if d.Transports, err = tx.Trips.Transports(ctx, id); err != nil {
			return err
		}
		if d.Hotels, err = tx.Trips.Hotels(ctx, id); err != nil {
			return err
		}
		d.Program, err = tx.Trips.Program(ctx, id)
		return err
	})
	return d, err
}

// List filters on the derived status after loading, since it is not stored.
func (s TripService) List(ctx context.Context, f domain.ListFilter) ([]models.Trip, error) {
	var trips []models.Trip
	err := s.Store.Do(ctx, func(tx Tx) (err error) {
		trips, err = tx.Trips.List(ctx, f)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]models.Trip, 0, len(trips))
	for _, t := range trips {
		t = s.withStatus(t)
		if f.Status != "" && string(t.Status) != f.Status {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// Update rewrites the trip header. Capacity cannot drop below the seats
// already reserved; a price change reprices every open reservation.
func (s TripService) Update(ctx context.Context, id int64, in TripInput) (models.Trip, error) {
	if err := in.validate(); err != nil {
		return models.Trip{}, err
	}
	var t models.Trip
	repriced := 0
	err := s.Store.Do(ctx, func(tx Tx) error {
		current, err := tx.Trips.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if in.Capacity < current.Reserved {
			return domain.ValidationError{
				Field: "capacity",
				Msg:   fmt.Sprintf("capacity %d is below the %d seats already reserved", in.Capacity, current.Reserved),
			}
		}
		if in.DestinationID > 0 && in.DestinationID != current.DestinationID {
			if _, err := tx.Destinations.Get(ctx, in.DestinationID); err != nil {
				return err
			}
		}

		t = current
		in.apply(&t)
		t.Reserved, t.Available = calc.Seats(t.Capacity, current.Reserved)
		if err := tx.Trips.Update(ctx, t); err != nil {
			return err
		}

		if t.AdultPrice.Equal(current.AdultPrice) && t.ChildPrice.Equal(current.ChildPrice) {
			return nil
		}
		repriced, err = repriceTripReservations(ctx, tx, id)
		return err
	})
	if err != nil {
		return models.Trip{}, err
	}
	utils.LogEvent(s.RequestID, "trips", "update", fmt.Sprintf("trip %d updated, %d reservations repriced", id, repriced))
	return s.withStatus(t), nil
}

func (s TripService) Delete(ctx context.Context, id int64) error {
	err := s.Store.Do(ctx, func(tx Tx) error {
		return tx.Trips.Delete(ctx, id)
	})
	if err == nil {
		utils.LogEvent(s.RequestID, "trips", "delete", fmt.Sprintf("trip %d deleted", id))
	}
	return err
}

// addOffering locks the trip, runs add and reprices open reservations when
// the offering kind feeds pricing.
func (s TripService) addOffering(ctx context.Context, tripID int64, kind models.OfferingKind, add func(tx Tx) error) error {
	err := s.Store.Do(ctx, func(tx Tx) error {
		if _, err := tx.Trips.GetForUpdate(ctx, tripID); err != nil {
			return err
		}
		if err := add(tx); err != nil {
			return err
		}
		if !kind.Priced() {
			return nil
		}
		_, err := repriceTripReservations(ctx, tx, tripID)
		return err
	})
	if err == nil {
		utils.LogEvent(s.RequestID, "trips", "add_"+string(kind), fmt.Sprintf("trip %d: %s added", tripID, kind))
	}
	return err
}

func nonNegative(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return domain.ValidationError{Field: field, Msg: "cannot be negative"}
	}
	return nil
}

func (s TripService) AddMeal(ctx context.Context, tripID int64, m models.Meal) (models.Meal, error) {
	if m.MealType == "" {
		m.MealType = models.MealLunch
	}
	if !m.MealType.Valid() {
		return models.Meal{}, domain.ValidationError{Field: "meal_type", Msg: "unknown meal type " + string(m.MealType)}
	}
	if err := nonNegative("price", m.Price); err != nil {
		return models.Meal{}, err
	}
	m.TripID = tripID
	m.Price = calc.Round2(m.Price)
	err := s.addOffering(ctx, tripID, models.OfferingMeals, func(tx Tx) error {
		return tx.Trips.AddMeal(ctx, &m)
	})
	return m, err
}

func (s TripService) AddGuide(ctx context.Context, tripID int64, g models.Guide) (models.Guide, error) {
	g.Name = utils.NormalizeSpace(g.Name)
	if g.Name == "" {
		return models.Guide{}, domain.ValidationError{Field: "name", Msg: "guide name is required"}
	}
	if g.Email != "" && !utils.LooksLikeEmail(g.Email) {
		return models.Guide{}, domain.ValidationError{Field: "email", Msg: "email must contain @"}
	}
	if err := nonNegative("price", g.Price); err != nil {
		return models.Guide{}, err
	}
	g.TripID = tripID
	g.Price = calc.Round2(g.Price)
	err := s.addOffering(ctx, tripID, models.OfferingGuides, func(tx Tx) error {
		return tx.Trips.AddGuide(ctx, &g)
	})
	return g, err
}

func (s TripService) AddEquipment(ctx context.Context, tripID int64, e models.Equipment) (models.Equipment, error) {
	e.Name = utils.NormalizeSpace(e.Name)
	if e.Name == "" {
		return models.Equipment{}, domain.ValidationError{Field: "name", Msg: "equipment name is required"}
	}
	if e.Quantity < 0 {
		return models.Equipment{}, domain.ValidationError{Field: "quantity", Msg: "cannot be negative"}
	}
	if err := nonNegative("price", e.Price); err != nil {
		return models.Equipment{}, err
	}
	e.TripID = tripID
	e.Price = calc.Round2(e.Price)
	err := s.addOffering(ctx, tripID, models.OfferingEquipment, func(tx Tx) error {
		return tx.Trips.AddEquipment(ctx, &e)
	})
	return e, err
}

func (s TripService) AddTransport(ctx context.Context, tripID int64, t models.Transport) (models.Transport, error) {
	if t.Kind == "" {
		t.Kind = models.TransportBus
	}
	if !t.Kind.Valid() {
		return models.Transport{}, domain.ValidationError{Field: "kind", Msg: "unknown transport kind " + string(t.Kind)}
	}
	if err := nonNegative("price", t.Price); err != nil {
		return models.Transport{}, err
	}
	t.TripID = tripID
	t.Price = calc.Round2(t.Price)
	err := s.addOffering(ctx, tripID, models.OfferingTransports, func(tx Tx) error {
		return tx.Trips.AddTransport(ctx, &t)
	})
	return t, err
}

func (s TripService) AddHotel(ctx context.Context, tripID int64, h models.Hotel) (models.Hotel, error) {
	h.Name = utils.NormalizeSpace(h.Name)
	if h.Name == "" {
		return models.Hotel{}, domain.ValidationError{Field: "name", Msg: "hotel name is required"}
	}
	if err := nonNegative("price", h.Price); err != nil {
		return models.Hotel{}, err
	}
	h.TripID = tripID
	h.Price = calc.Round2(h.Price)
	h.Nights = calc.HotelNights(h.CheckIn, h.CheckOut)
	err := s.addOffering(ctx, tripID, models.OfferingHotels, func(tx Tx) error {
		return tx.Trips.AddHotel(ctx, &h)
	})
	return h, err
}

func (s TripService) AddProgramDay(ctx context.Context, tripID int64, p models.ProgramDay) (models.ProgramDay, error) {
	if p.Day < 1 {
		return models.ProgramDay{}, domain.ValidationError{Field: "day", Msg: "day starts at 1"}
	}
	p.TripID = tripID
	err := s.addOffering(ctx, tripID, models.OfferingProgram, func(tx Tx) error {
		return tx.Trips.AddProgramDay(ctx, &p)
	})
	return p, err
}

func (s TripService) RemoveOffering(ctx context.Context, tripID int64, kind models.OfferingKind, id int64) error {
	err := s.Store.Do(ctx, func(tx Tx) error {
		if _, err := tx.Trips.GetForUpdate(ctx, tripID); err != nil {
			return err
		}
		if err := tx.Trips.RemoveOffering(ctx, kind, tripID, id); err != nil {
			return err
		}
		if !kind.Priced() {
			return nil
		}
		_, err := repriceTripReservations(ctx, tx, tripID)
		return err
	})
	if err == nil {
		utils.LogEvent(s.RequestID, "trips", "remove_"+string(kind), fmt.Sprintf("trip %d: %s %d removed", tripID, kind, id))
	}
	return err
}
