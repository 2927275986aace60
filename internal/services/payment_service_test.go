package services

import (
	"context"
	"testing"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPayments(store *memStore, mailer notify.Mailer) PaymentService {
	return PaymentService{
		Store:     store,
		Mailer:    mailer,
		Templates: notify.DefaultTemplates(),
		Agency:    "Atlas Voyages",
		RequestID: "test",
		Now:       fixedNow,
	}
}

// confirmedReservation books 10 adults at 100 on a fresh trip, 1000 in total.
func confirmedReservation(t *testing.T, store *memStore, email string) models.ReservationDetail {
	t.Helper()
	client := seedClient(t, store, email)
	trip := seedTrip(t, store, 20, "100", "50")
	svc := newReservations(store, nil)
	r := mustReservation(t, svc, ReservationInput{ClientID: client.ID, TripID: trip.ID, Travelers: someTravelers(10)})
	_, err := svc.Confirm(context.Background(), r.ID)
	require.NoError(t, err)
	require.True(t, r.Total.Equal(dec("1000")))
	return r
}

func cashEntries(store *memStore) []models.CashEntry {
	return sortedValues(store.snapshot().cash, nil)
}

func TestPaymentRejectsAmountAboveDue(t *testing.T) {
	store := newMemStore()
	r := confirmedReservation(t, store, "")

	_, err := newPayments(store, nil).Create(context.Background(), PaymentInput{
		ReservationID: r.ID,
		Amount:        dec("1500"),
		Status:        models.PaymentPaid,
	})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Empty(t, store.snapshot().payments)
	assert.Empty(t, cashEntries(store))
}

func TestPaidPaymentBooksOneCashEntry(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	r := confirmedReservation(t, store, "amel@example.com")
	mailer := &recordingMailer{}

	p, err := newPayments(store, mailer).Create(ctx, PaymentInput{
		ReservationID: r.ID,
		Amount:        dec("400"),
		Method:        models.MethodCard,
		Status:        models.PaymentPaid,
	})
	require.NoError(t, err)
	assert.Equal(t, "PAYC/2026/00001", p.Number)
	assert.Equal(t, models.InstallmentDeposit, p.Installment)
	assert.Equal(t, r.ClientID, p.ClientID)

	entries := cashEntries(store)
	require.Len(t, entries, 1)
	assert.Equal(t, p.ID, entries[0].PaymentID)
	assert.Equal(t, models.CashIn, entries[0].Direction)
	assert.Equal(t, models.MethodCard, entries[0].Method)
	assertBalances(t, entries[0], "0", "400")

	stored := store.snapshot().reservations[r.ID]
	assert.True(t, stored.AmountPaid.Equal(dec("400")))
	assert.True(t, stored.AmountDue.Equal(dec("600")))

	require.Len(t, mailer.Sent, 1)
	assert.Equal(t, notify.PaymentReceipt, mailer.Sent[0].Template)
	assert.Equal(t, "amel@example.com", mailer.Sent[0].To)
}

func TestPendingPaymentSettlesOnMarkPaid(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	r := confirmedReservation(t, store, "")
	svc := newPayments(store, nil)

	deposit, err := svc.Create(ctx, PaymentInput{ReservationID: r.ID, Amount: dec("400"), Status: models.PaymentPaid})
	require.NoError(t, err)
	balance, err := svc.Create(ctx, PaymentInput{ReservationID: r.ID, Amount: dec("600"), Installment: models.InstallmentBalance})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, balance.Status)
	assert.Len(t, cashEntries(store), 1)

	res, err := svc.MarkPaid(ctx, balance.ID)
	require.NoError(t, err)
	assert.True(t, res.Success)

	entries := cashEntries(store)
	require.Len(t, entries, 2)
	assertBalances(t, entries[1], "400", "1000")
	assert.True(t, store.snapshot().reservations[r.ID].AmountDue.IsZero())

	_, err = svc.MarkPaid(ctx, balance.ID)
	assert.True(t, domain.IsUser(err))
	assert.Len(t, cashEntries(store), 2)

	_, err = svc.MarkPaid(ctx, deposit.ID)
	assert.True(t, domain.IsUser(err))
}

func TestMarkPaidRechecksCeiling(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	r := confirmedReservation(t, store, "")
	svc := newPayments(store, nil)

	a, err := svc.Create(ctx, PaymentInput{ReservationID: r.ID, Amount: dec("700")})
	require.NoError(t, err)
	b, err := svc.Create(ctx, PaymentInput{ReservationID: r.ID, Amount: dec("700")})
	require.NoError(t, err)

	_, err = svc.MarkPaid(ctx, a.ID)
	require.NoError(t, err)
	_, err = svc.MarkPaid(ctx, b.ID)
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, models.PaymentPending, store.snapshot().payments[b.ID].Status)
}

func TestCancelPaidPaymentCancelsCashEntry(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	r := confirmedReservation(t, store, "")
	svc := newPayments(store, nil)

	first, err := svc.Create(ctx, PaymentInput{ReservationID: r.ID, Amount: dec("400"), Status: models.PaymentPaid})
	require.NoError(t, err)
	_, err = svc.Create(ctx, PaymentInput{ReservationID: r.ID, Amount: dec("600"), Status: models.PaymentPaid})
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, first.ID)
	require.NoError(t, err)

	entries := cashEntries(store)
	require.Len(t, entries, 2)
	assert.Equal(t, models.CashCancelled, entries[0].Status)
	assertBalances(t, entries[0], "0", "0")
	assertBalances(t, entries[1], "0", "600")

	stored := store.snapshot().reservations[r.ID]
	assert.True(t, stored.AmountPaid.Equal(dec("600")))
	assert.True(t, stored.AmountDue.Equal(dec("400")))

	_, err = svc.Cancel(ctx, first.ID)
	assert.True(t, domain.IsUser(err))
}

func TestPaymentOnCancelledReservationIsRefused(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	r := confirmedReservation(t, store, "")
	_, err := newReservations(store, nil).Cancel(ctx, r.ID)
	require.NoError(t, err)

	_, err = newPayments(store, nil).Create(ctx, PaymentInput{ReservationID: r.ID, Amount: dec("10")})
	assert.True(t, domain.IsUser(err))
}

func TestPaymentInputValidation(t *testing.T) {
	ctx := context.Background()
	svc := newPayments(newMemStore(), nil)

	cases := map[string]PaymentInput{
		"no amount":          {ReservationID: 1},
		"no reservation":     {Amount: dec("10")},
		"supplier, no order": {Kind: models.PaymentSupplier, Amount: dec("10")},
		"unknown kind":       {Kind: "refund", Amount: dec("10"), ReservationID: 1},
		"bad method":         {ReservationID: 1, Amount: dec("10"), Method: "barter"},
		"created cancelled":  {ReservationID: 1, Amount: dec("10"), Status: models.PaymentCancelled},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(ctx, in)
			assert.True(t, domain.IsValidation(err), "got %v", err)
		})
	}
}

func TestSupplierPaymentMovesCashOut(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	trip := seedTrip(t, store, 10, "100", "50")
	supplier, err := SupplierService{Store: store}.Create(ctx, models.Supplier{Name: "Sahara Bus", Kind: models.SupplierTransport})
	require.NoError(t, err)

	purchases := PurchaseService{Store: store, Now: fixedNow}
	pu, err := purchases.Create(ctx, PurchaseInput{
		TripID:     trip.ID,
		SupplierID: supplier.ID,
		Lines:      []PurchaseLineInput{{Service: "Coach", Quantity: dec("1"), UnitPrice: dec("350")}},
	})
	require.NoError(t, err)
	_, err = purchases.ValidateQuote(ctx, pu.ID)
	require.NoError(t, err)

	svc := newPayments(store, &recordingMailer{})
	_, err = svc.Create(ctx, PaymentInput{Kind: models.PaymentSupplier, PurchaseID: pu.ID, Amount: dec("500"), Status: models.PaymentPaid})
	assert.True(t, domain.IsValidation(err))

	p, err := svc.Create(ctx, PaymentInput{Kind: models.PaymentSupplier, PurchaseID: pu.ID, Amount: dec("416.50"), Status: models.PaymentPaid})
	require.NoError(t, err)
	assert.Equal(t, "PAYF/2026/00001", p.Number)
	assert.Equal(t, supplier.ID, p.SupplierID)
	assert.Empty(t, p.Installment)

	entries := cashEntries(store)
	require.Len(t, entries, 1)
	assert.Equal(t, models.CashOut, entries[0].Direction)
	assertBalances(t, entries[0], "0", "-416.5")
	assert.True(t, store.snapshot().purchases[pu.ID].AmountPaid.Equal(dec("416.50")))
}
