package calc

import (
	"fmt"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
)

// CheckCapacity fails when the travelers already on other confirmed
// reservations plus the requested headcount exceed the trip capacity.
func CheckCapacity(capacity, reservedByOthers, requested int) error {
	if requested < 0 || reservedByOthers < 0 {
		return domain.ValidationError{Field: "travelers", Msg: "headcount cannot be negative"}
	}
	if reservedByOthers+requested > capacity {
		available := capacity - reservedByOthers
		if available < 0 {
			available = 0
		}
		return domain.ValidationError{
			Field: "capacity",
			Msg:   fmt.Sprintf("not enough seats: %d requested, %d available out of %d", requested, available, capacity),
		}
	}
	return nil
}

// ReservedSeats counts travelers of confirmed reservations.
func ReservedSeats(reservations []models.Reservation) int {
	total := 0
	for _, r := range reservations {
		if r.Status == models.ReservationConfirmed {
			total += r.TotalTravelers
		}
	}
	return total
}

// Seats returns the stored (reserved, available) pair for a trip.
func Seats(capacity, reserved int) (int, int) {
	return reserved, capacity - reserved
}

// TripStatus derives the trip phase from its dates relative to today.
func TripStatus(start, end, today time.Time) models.TripStatus {
	if start.IsZero() || end.IsZero() {
		return models.TripPlanned
	}
	t := Day(today)
	switch {
	case t.Before(Day(start)):
		return models.TripPlanned
	case t.After(Day(end)):
		return models.TripFinished
	default:
		return models.TripInProgress
	}
}

// HotelNights is the whole number of nights between check-in and check-out,
// never negative.
func HotelNights(checkIn, checkOut time.Time) int {
	if checkIn.IsZero() || checkOut.IsZero() {
		return 0
	}
	n := int(Day(checkOut).Sub(Day(checkIn)).Hours() / 24)
	if n < 0 {
		return 0
	}
	return n
}
