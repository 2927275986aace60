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

// PaymentService records customer and supplier payments. A payment reaching
// paid gets exactly one validated cash entry; cancelling it cancels the entry.
type PaymentService struct {
	Store     UnitOfWork
	Mailer    notify.Mailer
	Templates *notify.Templates
	Agency    string
	RequestID string
	Now       func() time.Time
}

type PaymentInput struct {
	Kind          models.PaymentKind   `json:"kind"`
	Date          time.Time            `json:"date"`
	ReservationID int64                `json:"reservation_id"`
	Installment   models.Installment   `json:"installment"`
	PurchaseID    int64                `json:"purchase_id"`
	Amount        decimal.Decimal      `json:"amount"`
	Method        models.PaymentMethod `json:"method"`
	BankReference string               `json:"bank_reference"`
	Status        models.PaymentStatus `json:"status"`
}

func (in PaymentInput) payment() (models.Payment, error) {
	p := models.Payment{
		Kind:          in.Kind,
		Date:          in.Date,
		ReservationID: in.ReservationID,
		Installment:   in.Installment,
		PurchaseID:    in.PurchaseID,
		Amount:        calc.Round2(in.Amount),
		Method:        in.Method,
		BankReference: utils.TrimOrEmpty(in.BankReference),
		Status:        in.Status,
	}
	if p.Kind == "" {
		p.Kind = models.PaymentCustomer
	}
	if p.Method == "" {
		p.Method = models.MethodCash
	}
	if p.Status == "" {
		p.Status = models.PaymentPending
	}

	if !p.Amount.IsPositive() {
		return p, domain.ValidationError{Field: "amount", Msg: "amount must be greater than zero"}
	}
	if !p.Method.Valid() {
		return p, domain.ValidationError{Field: "method", Msg: "unknown payment method " + string(p.Method)}
	}
	if p.Status != models.PaymentPending && p.Status != models.PaymentPaid {
		return p, domain.ValidationError{Field: "status", Msg: "a new payment is pending or paid"}
	}
	switch p.Kind {
	case models.PaymentCustomer:
		if p.ReservationID <= 0 {
			return p, domain.ValidationError{Field: "reservation_id", Msg: "customer payments need a reservation"}
		}
		p.PurchaseID = 0
		if p.Installment == "" {
			p.Installment = models.InstallmentDeposit
		}
		if p.Installment != models.InstallmentDeposit && p.Installment != models.InstallmentBalance {
			return p, domain.ValidationError{Field: "installment", Msg: "installment must be deposit or balance"}
		}
	case models.PaymentSupplier:
		if p.PurchaseID <= 0 {
			return p, domain.ValidationError{Field: "purchase_id", Msg: "supplier payments need a purchase"}
		}
		p.ReservationID = 0
		p.Installment = ""
	default:
		return p, domain.ValidationError{Field: "kind", Msg: "kind must be customer or supplier"}
	}
	return p, nil
}

// checkCeiling rejects a payment larger than what is still owed on its
// reservation or purchase, not counting the payment itself.
func checkCeiling(ctx context.Context, tx Tx, p models.Payment) error {
	var (
		owed decimal.Decimal
		what string
	)
	switch p.Kind {
	case models.PaymentSupplier:
		pu, err := tx.Purchases.GetForUpdate(ctx, p.PurchaseID)
		if err != nil {
			return err
		}
		paid, err := tx.Payments.PaidForPurchase(ctx, pu.ID, p.ID)
		if err != nil {
			return err
		}
		owed = calc.Remaining(pu.TotalAmount, paid)
		what = "purchase " + pu.Number
	default:
		r, err := tx.Reservations.GetForUpdate(ctx, p.ReservationID)
		if err != nil {
			return err
		}
		paid, err := tx.Payments.PaidForReservation(ctx, r.ID, p.ID)
		if err != nil {
			return err
		}
		owed = calc.AmountDue(r.Total, paid)
		what = "reservation " + r.Number
	}
	if p.Amount.GreaterThan(owed) {
		return domain.ValidationError{
			Field: "amount",
			Msg:   fmt.Sprintf("payment of %s exceeds the %s still due on %s", utils.FormatMoney(p.Amount), utils.FormatMoney(owed), what),
		}
	}
	return nil
}

// refreshPaymentTarget stores the paid amounts on the reservation or the
// purchase a payment belongs to.
func refreshPaymentTarget(ctx context.Context, tx Tx, p models.Payment) error {
	if p.Kind == models.PaymentSupplier {
		return refreshPurchasePaid(ctx, tx, p.PurchaseID)
	}
	r, err := tx.Reservations.GetForUpdate(ctx, p.ReservationID)
	if err != nil {
		return err
	}
	return refreshReservationAmounts(ctx, tx, &r)
}

// settle books the cash entry of a payment that just became paid.
func settle(ctx context.Context, tx Tx, p models.Payment) (models.CashEntry, error) {
	e := models.CashEntry{
		Date:        p.Date,
		Direction:   p.CashDirection(),
		PaymentID:   p.ID,
		Amount:      p.Amount,
		Method:      p.Method,
		Description: "Payment " + p.Number,
		Status:      models.CashValidated,
	}
	if err := createCashEntry(ctx, tx, &e); err != nil {
		return models.CashEntry{}, err
	}
	return e, refreshPaymentTarget(ctx, tx, p)
}

func (s PaymentService) Create(ctx context.Context, in PaymentInput) (models.Payment, error) {
	p, err := in.payment()
	if err != nil {
		return models.Payment{}, err
	}
	if p.Date.IsZero() {
		p.Date = clock(s.Now)
	}
	p.Date = calc.Day(p.Date)

	err = s.Store.Do(ctx, func(tx Tx) error {
		code := sequence.CustomerPayment
		switch p.Kind {
		case models.PaymentSupplier:
			code = sequence.SupplierPayment
			pu, err := tx.Purchases.Get(ctx, p.PurchaseID)
			if err != nil {
				return err
			}
			if pu.Status == models.PurchaseCancelled {
				return domain.UserError{Action: "pay", Msg: fmt.Sprintf("purchase %s is cancelled", pu.Number)}
			}
			p.SupplierID = pu.SupplierID
		default:
			r, err := tx.Reservations.Get(ctx, p.ReservationID)
			if err != nil {
				return err
			}
			if r.Status == models.ReservationCancelled {
				return domain.UserError{Action: "pay", Msg: fmt.Sprintf("reservation %s is cancelled", r.Number)}
			}
			p.ClientID = r.ClientID
		}
		if err := checkCeiling(ctx, tx, p); err != nil {
			return err
		}

		number, err := sequence.NextNumber(ctx, tx.Seq, code, p.Date)
		if err != nil {
			return err
		}
		p.Number = number
		if err := tx.Payments.Create(ctx, &p); err != nil {
			return err
		}
		if p.Status == models.PaymentPaid {
			_, err = settle(ctx, tx, p)
		}
		return err
	})
	if err != nil {
		return models.Payment{}, err
	}
	metrics.PaymentsTotal.WithLabelValues(string(p.Kind), string(p.Status)).Inc()
	utils.LogEvent(s.RequestID, "payments", "create", fmt.Sprintf("payment %s %s %s (%s)", p.Number, p.Kind, utils.FormatMoney(p.Amount), p.Status))
	if p.Status == models.PaymentPaid {
		s.sendReceipt(ctx, p.ID)
	}
	return p, nil
}

func (s PaymentService) Get(ctx context.Context, id int64) (models.Payment, error) {
	var p models.Payment
	err := s.Store.Do(ctx, func(tx Tx) (err error) {
		p, err = tx.Payments.Get(ctx, id)
		return err
	})
	return p, err
}

func (s PaymentService) List(ctx context.Context, f domain.ListFilter) ([]models.Payment, error) {
	var out []models.Payment
	err := s.Store.Do(ctx, func(tx Tx) (err error) {
		out, err = tx.Payments.List(ctx, f)
		return err
	})
	return out, err
}

// MarkPaid settles a pending payment.
func (s PaymentService) MarkPaid(ctx context.Context, id int64) (ActionResult, error) {
	var (
		p     models.Payment
		entry models.CashEntry
	)
	err := s.Store.Do(ctx, func(tx Tx) error {
		var err error
		p, err = tx.Payments.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p.Status != models.PaymentPending {
			return domain.UserError{Action: "mark_paid", Msg: fmt.Sprintf("payment %s is %s, only pending payments can be marked paid", p.Number, p.Status)}
		}
		if err := checkCeiling(ctx, tx, p); err != nil {
			return err
		}
		p.Status = models.PaymentPaid
		if err := tx.Payments.UpdateStatus(ctx, p.ID, p.Status); err != nil {
			return err
		}
		entry, err = settle(ctx, tx, p)
		return err
	})
	if err != nil {
		return ActionResult{}, err
	}
	metrics.PaymentsTotal.WithLabelValues(string(p.Kind), string(p.Status)).Inc()
	utils.LogEvent(s.RequestID, "payments", "mark_paid", fmt.Sprintf("payment %s paid, cash entry %s", p.Number, entry.Number))
	s.sendReceipt(ctx, p.ID)
	return succeeded("Payment recorded", fmt.Sprintf("Payment %s is paid. Cash entry %s was booked.", p.Number, entry.Number), p), nil
}

// Cancel voids a pending or paid payment and its cash entry.
func (s PaymentService) Cancel(ctx context.Context, id int64) (ActionResult, error) {
	var p models.Payment
	err := s.Store.Do(ctx, func(tx Tx) error {
		var err error
		p, err = tx.Payments.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p.Status == models.PaymentCancelled {
			return domain.UserError{Action: "cancel", Msg: fmt.Sprintf("payment %s is already cancelled", p.Number)}
		}
		wasPaid := p.Status == models.PaymentPaid
		p.Status = models.PaymentCancelled
		if err := tx.Payments.UpdateStatus(ctx, p.ID, p.Status); err != nil {
			return err
		}
		if !wasPaid {
			return nil
		}

		e, err := tx.Cash.GetByPayment(ctx, p.ID)
		switch {
		case domain.IsNotFound(err):
		case err != nil:
			return err
		case e.Status != models.CashCancelled:
			if err := cancelCashEntry(ctx, tx, &e); err != nil {
				return err
			}
		}
		return refreshPaymentTarget(ctx, tx, p)
	})
	if err != nil {
		return ActionResult{}, err
	}
	metrics.PaymentsTotal.WithLabelValues(string(p.Kind), string(p.Status)).Inc()
	utils.LogEvent(s.RequestID, "payments", "cancel", "payment cancelled: "+p.Number)
	return succeeded("Payment cancelled", fmt.Sprintf("Payment %s is cancelled.", p.Number), p), nil
}

// sendReceipt mails a customer payment receipt. Failures are logged only.
func (s PaymentService) sendReceipt(ctx context.Context, id int64) {
	var (
		p      models.Payment
		r      models.Reservation
		client models.Client
	)
	err := s.Store.Do(ctx, func(tx Tx) error {
		var err error
		if p, err = tx.Payments.Get(ctx, id); err != nil {
			return err
		}
		if p.Kind != models.PaymentCustomer {
			return nil
		}
		if r, err = tx.Reservations.Get(ctx, p.ReservationID); err != nil {
			return err
		}
		client, err = tx.Clients.Get(ctx, p.ClientID)
		return err
	})
	if err != nil || p.Kind != models.PaymentCustomer {
		if err != nil {
			utils.LogWarn(s.RequestID, "payments", "receipt", "load receipt data: "+err.Error())
		}
		return
	}

	data := notify.PaymentMail{
		Agency:            s.Agency,
		ClientName:        client.FullName,
		Number:            p.Number,
		Date:              utils.FormatDate(p.Date),
		Amount:            utils.FormatMoney(p.Amount),
		Method:            string(p.Method),
		ReservationNumber: r.Number,
		AmountDue:         utils.FormatMoney(r.AmountDue),
	}
	if err := sendMail(ctx, s.Mailer, s.Templates, notify.PaymentReceipt, client.Email, data); err != nil && !errors.Is(err, errNoRecipient) {
		utils.LogWarn(s.RequestID, "payments", "receipt", "receipt email failed: "+err.Error())
	}
}
