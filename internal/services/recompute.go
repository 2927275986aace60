package services

import (
	"context"
	"fmt"
	"time"

	"backoffice/internal/domain/calc"
	"backoffice/internal/domain/models"
	"backoffice/internal/metrics"
)

// ledgerOrigin sorts before every real entry date; recomputing from it
// rebuilds the whole ledger.
var ledgerOrigin = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

// repriceReservation recomputes the pricing breakdown and the amounts paid
// and due of r from its current lines, trip and payments, then stores it.
func repriceReservation(ctx context.Context, tx Tx, r *models.Reservation) error {
	in := calc.PricingInput{Supplement: r.RoomSupplement}
	if r.TripID > 0 {
		trip, err := tx.Trips.Get(ctx, r.TripID)
		if err != nil {
			return err
		}
		offerings, err := tx.Trips.Offerings(ctx, r.TripID)
		if err != nil {
			return err
		}
		in.HasTrip = true
		in.Trip = trip
		in.Offerings = offerings
	}

	travelers, err := tx.Reservations.Travelers(ctx, r.ID)
	if err != nil {
		return err
	}
	rooms, err := tx.Reservations.Rooms(ctx, r.ID)
	if err != nil {
		return err
	}
	in.Travelers = travelers
	in.Rooms = rooms

	calc.PriceReservation(in).Apply(r)
	return refreshReservationAmounts(ctx, tx, r)
}

// refreshReservationAmounts stores amount_paid/amount_due without touching
// the pricing components.
func refreshReservationAmounts(ctx context.Context, tx Tx, r *models.Reservation) error {
	paid, err := tx.Payments.PaidForReservation(ctx, r.ID, 0)
	if err != nil {
		return err
	}
	r.AmountPaid = paid
	r.AmountDue = calc.AmountDue(r.Total, paid)
	return tx.Reservations.Update(ctx, *r)
}

// repriceTripReservations reprices every pending and confirmed reservation of
// a trip after its prices or priced offerings changed.
func repriceTripReservations(ctx context.Context, tx Tx, tripID int64) (int, error) {
	open, err := tx.Reservations.ListOpenByTrip(ctx, tripID)
	if err != nil {
		return 0, err
	}
	for i := range open {
		if err := repriceReservation(ctx, tx, &open[i]); err != nil {
			return 0, fmt.Errorf("reprice reservation %d: %w", open[i].ID, err)
		}
	}
	return len(open), nil
}

// syncTripSeats stores reserved/available seats from confirmed reservations.
func syncTripSeats(ctx context.Context, tx Tx, tripID int64) error {
	if tripID <= 0 {
		return nil
	}
	trip, err := tx.Trips.GetForUpdate(ctx, tripID)
	if err != nil {
		return err
	}
	confirmed, err := tx.Reservations.ConfirmedTravelers(ctx, tripID, 0)
	if err != nil {
		return err
	}
	reserved, available := calc.Seats(trip.Capacity, confirmed)
	return tx.Trips.UpdateSeats(ctx, tripID, reserved, available)
}

// recomputeLedgerFrom rewrites the stored balances of every entry at or after
// the (day, id) position. Entries before it are left untouched; their sum is
// the opening balance. It returns the number of rows rewritten.
func recomputeLedgerFrom(ctx context.Context, tx Tx, day time.Time, id int64) (int, error) {
	day = calc.Day(day)
	opening, err := tx.Cash.OpeningBalance(ctx, day, id)
	if err != nil {
		return 0, err
	}
	entries, err := tx.Cash.ListFrom(ctx, day, id)
	if err != nil {
		return 0, err
	}

	stored := make([]models.CashEntry, len(entries))
	copy(stored, entries)
	calc.RunningBalances(opening, entries)

	changed := 0
	for i, e := range entries {
		if e.BalanceBefore.Equal(stored[i].BalanceBefore) && e.BalanceAfter.Equal(stored[i].BalanceAfter) {
			continue
		}
		if err := tx.Cash.UpdateBalances(ctx, e.ID, e.BalanceBefore, e.BalanceAfter); err != nil {
			return changed, err
		}
		changed++
	}
	metrics.LedgerRecomputedEntries.Add(float64(changed))
	return changed, nil
}

// refreshPurchasePaid stores the sum of paid supplier payments on a purchase.
func refreshPurchasePaid(ctx context.Context, tx Tx, purchaseID int64) error {
	if purchaseID <= 0 {
		return nil
	}
	p, err := tx.Purchases.GetForUpdate(ctx, purchaseID)
	if err != nil {
		return err
	}
	paid, err := tx.Payments.PaidForPurchase(ctx, purchaseID, 0)
	if err != nil {
		return err
	}
	if paid.Equal(p.AmountPaid) {
		return nil
	}
	p.AmountPaid = paid
	return tx.Purchases.Update(ctx, p)
}
