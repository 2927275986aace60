package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TripStatus string

const (
	TripPlanned    TripStatus = "planned"
	TripInProgress TripStatus = "in_progress"
	TripFinished   TripStatus = "finished"
)

// Trip is a packaged journey sold per traveler. Reserved and Available are
// stored on every reservation confirm/cancel.
type Trip struct {
	ID            int64           `json:"id"`
	Title         string          `json:"title"`
	DestinationID int64           `json:"destination_id"`
	DepartureCity string          `json:"departure_city"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	AdultPrice    decimal.Decimal `json:"adult_price"`
	ChildPrice    decimal.Decimal `json:"child_price"`
	Capacity      int             `json:"capacity"`
	Reserved      int             `json:"reserved"`
	Available     int             `json:"available"`
	Status        TripStatus      `json:"status"`
}

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

func (m MealType) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

// Meal is a catering offering, priced per traveler.
type Meal struct {
	ID            int64           `json:"id"`
	TripID        int64           `json:"trip_id"`
	Day           int             `json:"day"`
	DestinationID int64           `json:"destination_id"`
	MealType      MealType        `json:"meal_type"`
	Restaurant    string          `json:"restaurant"`
	Price         decimal.Decimal `json:"price"`
}

// Guide is priced as a flat fee for the whole group.
type Guide struct {
	ID       int64           `json:"id"`
	TripID   int64           `json:"trip_id"`
	Name     string          `json:"name"`
	Phone    string          `json:"phone"`
	Email    string          `json:"email"`
	Language string          `json:"language"`
	Price    decimal.Decimal `json:"price"`
}

// Equipment is priced per traveler; Quantity is informative stock only.
type Equipment struct {
	ID       int64           `json:"id"`
	TripID   int64           `json:"trip_id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type TransportKind string

const (
	TransportPlane TransportKind = "plane"
	TransportTrain TransportKind = "train"
	TransportBus   TransportKind = "bus"
	TransportCar   TransportKind = "car"
	TransportBoat  TransportKind = "boat"
	TransportOther TransportKind = "other"
)

func (k TransportKind) Valid() bool {
	switch k {
	case TransportPlane, TransportTrain, TransportBus, TransportCar, TransportBoat, TransportOther:
		return true
	}
	return false
}

type Transport struct {
	ID            int64           `json:"id"`
	TripID        int64           `json:"trip_id"`
	Day           int             `json:"day"`
	DestinationID int64           `json:"destination_id"`
	Kind          TransportKind   `json:"kind"`
	Price         decimal.Decimal `json:"price"`
}

type Hotel struct {
	ID            int64           `json:"id"`
	TripID        int64           `json:"trip_id"`
	DestinationID int64           `json:"destination_id"`
	Name          string          `json:"name"`
	Phone         string          `json:"phone"`
	Address       string          `json:"address"`
	Email         string          `json:"email"`
	CheckIn       time.Time       `json:"check_in"`
	CheckOut      time.Time       `json:"check_out"`
	Price         decimal.Decimal `json:"price"`
	Nights        int             `json:"nights"`
}

type ProgramDay struct {
	ID            int64  `json:"id"`
	TripID        int64  `json:"trip_id"`
	Day           int    `json:"day"`
	DestinationID int64  `json:"destination_id"`
	Description   string `json:"description"`
}

// TripOfferings are the priced sub-records a reservation total depends on.
type TripOfferings struct {
	Meals     []Meal      `json:"meals"`
	Guides    []Guide     `json:"guides"`
	Equipment []Equipment `json:"equipment"`
}

// TripDetail is a trip with every sub-record, as shown on the trip form.
type TripDetail struct {
	Trip
	TripOfferings
	Transports []Transport  `json:"transports"`
	Hotels     []Hotel      `json:"hotels"`
	Program    []ProgramDay `json:"program"`
}

// OfferingKind names one family of trip sub-records.
type OfferingKind string

const (
	OfferingMeals      OfferingKind = "meals"
	OfferingGuides     OfferingKind = "guides"
	OfferingEquipment  OfferingKind = "equipment"
	OfferingTransports OfferingKind = "transports"
	OfferingHotels     OfferingKind = "hotels"
	OfferingProgram    OfferingKind = "program"
)

// Priced reports whether the offering feeds reservation pricing.
func (k OfferingKind) Priced() bool {
	return k == OfferingMeals || k == OfferingGuides || k == OfferingEquipment
}
