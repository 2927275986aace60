package services

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
)

func TestDocsServiceGenerate(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	r := confirmedReservation(t, store, "")
	p, err := newPayments(store, nil).Create(ctx, PaymentInput{ReservationID: r.ID, Amount: dec("250"), Status: models.PaymentPaid})
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}

	svc := DocsService{Store: store, Agency: "Atlas Voyages", Now: fixedNow}

	voucher, name, err := svc.ReservationVoucher(ctx, r.ID)
	if err != nil {
		t.Fatalf("ReservationVoucher returned error: %v", err)
	}
	if !bytes.HasPrefix(voucher, []byte("%PDF")) || !strings.HasPrefix(name, "VOUCHER_") {
		t.Fatalf("unexpected voucher %q (%d bytes)", name, len(voucher))
	}

	receipt, name, err := svc.PaymentReceipt(ctx, p.ID)
	if err != nil {
		t.Fatalf("PaymentReceipt returned error: %v", err)
	}
	if !bytes.HasPrefix(receipt, []byte("%PDF")) || !strings.HasPrefix(name, "RECEIPT_") {
		t.Fatalf("unexpected receipt %q (%d bytes)", name, len(receipt))
	}

	report, name, err := svc.CashReport(ctx, domain.DateRange{From: today, To: today})
	if err != nil {
		t.Fatalf("CashReport returned error: %v", err)
	}
	if !bytes.HasPrefix(report, []byte("%PDF")) || !strings.HasSuffix(name, ".pdf") {
		t.Fatalf("unexpected cash report %q (%d bytes)", name, len(report))
	}
}

func TestDocsServiceRefusesUnpaidAndCancelled(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	r := confirmedReservation(t, store, "")
	p, err := newPayments(store, nil).Create(ctx, PaymentInput{ReservationID: r.ID, Amount: dec("250")})
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}
	svc := DocsService{Store: store, Now: fixedNow}

	if _, _, err := svc.PaymentReceipt(ctx, p.ID); !domain.IsUser(err) {
		t.Fatalf("receipt for pending payment: got %v, want user error", err)
	}

	if _, err := newReservations(store, nil).Cancel(ctx, r.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, _, err := svc.ReservationVoucher(ctx, r.ID); !domain.IsUser(err) {
		t.Fatalf("voucher for cancelled reservation: got %v, want user error", err)
	}
	if _, _, err := svc.ReservationVoucher(ctx, 999); !domain.IsNotFound(err) {
		t.Fatalf("voucher for unknown reservation: got %v, want not found", err)
	}
}
