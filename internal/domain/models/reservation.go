package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
)

// Open reports whether the reservation still follows its trip's pricing.
func (s ReservationStatus) Open() bool {
	return s == ReservationPending || s == ReservationConfirmed
}

// Reservation stores its derived pricing; every field after ClientID is
// recomputed and written back on each mutating action.
type Reservation struct {
	ID             int64             `json:"id"`
	Number         string            `json:"number"`
	Date           time.Time         `json:"date"`
	Status         ReservationStatus `json:"status"`
	TripID         int64             `json:"trip_id"`
	ClientID       int64             `json:"client_id"`
	Adults         int               `json:"adults"`
	Children       int               `json:"children"`
	TotalTravelers int               `json:"total_travelers"`
	TransportPrice decimal.Decimal   `json:"transport_price"`
	LodgingPrice   decimal.Decimal   `json:"lodging_price"`
	CateringPrice  decimal.Decimal   `json:"catering_price"`
	GuidePrice     decimal.Decimal   `json:"guide_price"`
	EquipmentPrice decimal.Decimal   `json:"equipment_price"`
	RoomSupplement decimal.Decimal   `json:"room_supplement"`
	Total          decimal.Decimal   `json:"total"`
	AmountPaid     decimal.Decimal   `json:"amount_paid"`
	AmountDue      decimal.Decimal   `json:"amount_due"`
	EmailConfirmed bool              `json:"email_confirmed"`
}

type TravelerKind string

const (
	TravelerAdult TravelerKind = "adult"
	TravelerChild TravelerKind = "child"
)

type Traveler struct {
	ID            int64        `json:"id"`
	ReservationID int64        `json:"reservation_id"`
	Name          string       `json:"name"`
	Kind          TravelerKind `json:"kind"`
	Age           int          `json:"age"`
}

type RoomType string

const (
	RoomSingle RoomType = "single"
	RoomDouble RoomType = "double"
	RoomTriple RoomType = "triple"
	RoomSuite  RoomType = "suite"
)

func (r RoomType) Valid() bool {
	switch r {
	case RoomSingle, RoomDouble, RoomTriple, RoomSuite:
		return true
	}
	return false
}

type RoomAssignment struct {
	ID            int64           `json:"id"`
	ReservationID int64           `json:"reservation_id"`
	RoomType      RoomType        `json:"room_type"`
	Rooms         int             `json:"rooms"`
	Nights        int             `json:"nights"`
	NightlyPrice  decimal.Decimal `json:"nightly_price"`
	Total         decimal.Decimal `json:"total"`
}

// ReservationDetail bundles a reservation with its lines.
type ReservationDetail struct {
	Reservation
	Travelers []Traveler       `json:"travelers"`
	Rooms     []RoomAssignment `json:"rooms"`
}
