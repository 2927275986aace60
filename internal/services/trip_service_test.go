package services

import (
	"context"
	"testing"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tripInput(t models.Trip) TripInput {
	return TripInput{
		Title:         t.Title,
		DestinationID: t.DestinationID,
		DepartureCity: t.DepartureCity,
		StartDate:     t.StartDate,
		EndDate:       t.EndDate,
		AdultPrice:    t.AdultPrice,
		ChildPrice:    t.ChildPrice,
		Capacity:      t.Capacity,
	}
}

func TestTripValidation(t *testing.T) {
	svc := TripService{Store: newMemStore(), Now: fixedNow}
	base := TripInput{Title: "Djerba", StartDate: today, EndDate: today.AddDate(0, 0, 3), Capacity: 10}

	backwards := base
	backwards.EndDate = today.AddDate(0, 0, -1)
	negative := base
	negative.AdultPrice = dec("-1")
	untitled := base
	untitled.Title = " "
	undated := base
	undated.StartDate = time.Time{}

	for name, in := range map[string]TripInput{"end before start": backwards, "negative price": negative, "no title": untitled, "no dates": undated} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), in)
			assert.True(t, domain.IsValidation(err), "got %v", err)
		})
	}

	_, err := svc.Create(context.Background(), TripInput{Title: "Tozeur", StartDate: today, EndDate: today, DestinationID: 42})
	assert.True(t, domain.IsNotFound(err))
}

func TestTripStatusIsDerivedFromDates(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := TripService{Store: store, Now: fixedNow}

	past, err := svc.Create(ctx, TripInput{Title: "Past", StartDate: today.AddDate(0, 0, -10), EndDate: today.AddDate(0, 0, -5)})
	require.NoError(t, err)
	current, err := svc.Create(ctx, TripInput{Title: "Now", StartDate: today.AddDate(0, 0, -1), EndDate: today.AddDate(0, 0, 1)})
	require.NoError(t, err)
	future := seedTrip(t, store, 10, "100", "50")

	assert.Equal(t, models.TripFinished, past.Status)
	assert.Equal(t, models.TripInProgress, current.Status)
	assert.Equal(t, models.TripPlanned, future.Status)
	assert.Equal(t, 1, past.Capacity)

	planned, err := svc.List(ctx, domain.ListFilter{Status: string(models.TripPlanned)})
	require.NoError(t, err)
	require.Len(t, planned, 1)
	assert.Equal(t, future.ID, planned[0].ID)
}

func TestTripCapacityCannotDropBelowReserved(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	client := seedClient(t, store, "")
	trip := seedTrip(t, store, 10, "100", "50")
	res := newReservations(store, nil)
	r := mustReservation(t, res, ReservationInput{ClientID: client.ID, TripID: trip.ID, Travelers: someTravelers(6)})
	_, err := res.Confirm(ctx, r.ID)
	require.NoError(t, err)

	svc := TripService{Store: store, Now: fixedNow}
	in := tripInput(trip)
	in.Capacity = 5
	_, err = svc.Update(ctx, trip.ID, in)
	assert.True(t, domain.IsValidation(err))

	in.Capacity = 6
	updated, err := svc.Update(ctx, trip.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 6, updated.Reserved)
	assert.Equal(t, 0, updated.Available)
}

func TestTripOfferingsRepriceReservations(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	client := seedClient(t, store, "")
	trip := seedTrip(t, store, 10, "100", "50")
	r := mustReservation(t, newReservations(store, nil), ReservationInput{ClientID: client.ID, TripID: trip.ID, Travelers: someTravelers(2)})

	svc := TripService{Store: store, Now: fixedNow}
	g, err := svc.AddGuide(ctx, trip.ID, models.Guide{Name: "Karim", Price: dec("120")})
	require.NoError(t, err)
	assert.True(t, store.snapshot().reservations[r.ID].Total.Equal(dec("320")))

	_, err = svc.AddHotel(ctx, trip.ID, models.Hotel{Name: "Dar Tozeur", CheckIn: today, CheckOut: today.AddDate(0, 0, 2)})
	require.NoError(t, err)
	_, err = svc.AddProgramDay(ctx, trip.ID, models.ProgramDay{Day: 0})
	assert.True(t, domain.IsValidation(err))

	require.NoError(t, svc.RemoveOffering(ctx, trip.ID, models.OfferingGuides, g.ID))
	assert.True(t, store.snapshot().reservations[r.ID].Total.Equal(dec("200")))

	d, err := svc.Get(ctx, trip.ID)
	require.NoError(t, err)
	assert.Empty(t, d.Guides)
	require.Len(t, d.Hotels, 1)
	assert.Equal(t, 2, d.Hotels[0].Nights)
}
