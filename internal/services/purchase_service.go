package services

import (
	"context"
	"fmt"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/domain/calc"
	"backoffice/internal/domain/models"
	"backoffice/internal/sequence"
	"backoffice/internal/utils"

	"github.com/shopspring/decimal"
)

// PurchaseService handles supplier quotes and orders attached to a trip.
type PurchaseService struct {
	Store     UnitOfWork
	RequestID string
	Now       func() time.Time
}

type PurchaseLineInput struct {
	Service     string          `json:"service"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type PurchaseInput struct {
	TripID     int64               `json:"trip_id"`
	SupplierID int64               `json:"supplier_id"`
	Date       time.Time           `json:"date"`
	VATRate    *decimal.Decimal    `json:"vat_rate"`
	Lines      []PurchaseLineInput `json:"lines"`
}

// PurchaseUpdate edits the header of a quote; nil means unchanged.
type PurchaseUpdate struct {
	SupplierID *int64           `json:"supplier_id"`
	Date       *time.Time       `json:"date"`
	VATRate    *decimal.Decimal `json:"vat_rate"`
	Active     *bool            `json:"active"`
}

func (in PurchaseLineInput) line(purchaseID int64) (models.PurchaseLine, error) {
	l := models.PurchaseLine{
		PurchaseID:  purchaseID,
		Service:     utils.NormalizeSpace(in.Service),
		Description: utils.TrimOrEmpty(in.Description),
		Quantity:    in.Quantity,
		UnitPrice:   calc.Round2(in.UnitPrice),
	}
	if l.Quantity.IsZero() {
		l.Quantity = decimal.NewFromInt(1)
	}
	if l.Service == "" {
		return l, domain.ValidationError{Field: "service", Msg: "service is required"}
	}
	if !l.Quantity.IsPositive() {
		return l, domain.ValidationError{Field: "quantity", Msg: "quantity must be greater than zero"}
	}
	if l.UnitPrice.IsNegative() {
		return l, domain.ValidationError{Field: "unit_price", Msg: "price cannot be negative"}
	}
	l.Total = calc.LineTotal(l)
	return l, nil
}

func validVATRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return domain.ValidationError{Field: "vat_rate", Msg: "VAT rate must be between 0 and 100"}
	}
	return nil
}

// applySupplier copies the supplier snapshot onto the purchase.
func applySupplier(ctx context.Context, tx Tx, p *models.Purchase, supplierID int64) error {
	p.SupplierID = supplierID
	if supplierID <= 0 {
		p.SupplierName, p.SupplierKind, p.Contact, p.Phone, p.Email = "", "", "", "", ""
		return nil
	}
	sp, err := tx.Suppliers.Get(ctx, supplierID)
	if err != nil {
		return err
	}
	p.SupplierName = sp.Name
	p.SupplierKind = sp.Kind
	p.Contact = sp.Contact
	p.Phone = sp.Phone
	p.Email = sp.Email
	return nil
}

// retotal recomputes the purchase amounts from its stored lines and saves it.
func retotal(ctx context.Context, tx Tx, p *models.Purchase) error {
	lines, err := tx.Purchases.Lines(ctx, p.ID)
	if err != nil {
		return err
	}
	p.UntaxedAmount, p.VATAmount, p.TotalAmount = calc.PurchaseTotals(lines, p.VATRate)
	if err := tx.Purchases.Update(ctx, *p); err != nil {
		return err
	}
	p.Lines = lines
	return nil
}

func (s PurchaseService) Create(ctx context.Context, in PurchaseInput) (models.Purchase, error) {
	if in.TripID <= 0 {
		return models.Purchase{}, domain.ValidationError{Field: "trip_id", Msg: "a purchase belongs to a trip"}
	}
	rate := models.DefaultVATRate
	if in.VATRate != nil {
		rate = *in.VATRate
	}
	if err := validVATRate(rate); err != nil {
		return models.Purchase{}, err
	}
	date := in.Date
	if date.IsZero() {
		date = clock(s.Now)
	}

	p := models.Purchase{
		Date:          calc.Day(date),
		TripID:        in.TripID,
		Status:        models.PurchaseQuote,
		Active:        true,
		VATRate:       rate,
		UntaxedAmount: decimal.Zero,
		VATAmount:     decimal.Zero,
		TotalAmount:   decimal.Zero,
		AmountPaid:    decimal.Zero,
	}
	err := s.Store.Do(ctx, func(tx Tx) error {
		if _, err := tx.Trips.Get(ctx, in.TripID); err != nil {
			return err
		}
		if err := applySupplier(ctx, tx, &p, in.SupplierID); err != nil {
			return err
		}
		number, err := sequence.NextNumber(ctx, tx.Seq, sequence.Purchase, p.Date)
		if err != nil {
			return err
		}
		p.Number = number
		if err := tx.Purchases.Create(ctx, &p); err != nil {
			return err
		}
		for _, li := range in.Lines {
			l, err := li.line(p.ID)
			if err != nil {
				return err
			}
			if err := tx.Purchases.AddLine(ctx, &l); err != nil {
				return err
			}
		}
		return retotal(ctx, tx, &p)
	})
	if err != nil {
		return models.Purchase{}, err
	}
	utils.LogEvent(s.RequestID, "purchases", "create", fmt.Sprintf("purchase %s created, total %s", p.Number, utils.FormatMoney(p.TotalAmount)))
	return p, nil
}

func (s PurchaseService) Get(ctx context.Context, id int64) (models.Purchase, error) {
	var p models.Purchase
	err := s.Store.Do(ctx, func(tx Tx) error {
		var err error
		if p, err = tx.Purchases.Get(ctx, id); err != nil {
			return err
		}
		p.Lines, err = tx.Purchases.Lines(ctx, id)
		return err
	})
	return p, err
}

func (s PurchaseService) List(ctx context.Context, f domain.ListFilter) ([]models.Purchase, error) {
	var out []models.Purchase
	err := s.Store.Do(ctx, func(tx Tx) (err error) {
		out, err = tx.Purchases.List(ctx, f)
		return err
	})
	return out, err
}

// editQuote locks a purchase that must still be a quote, runs change and
// recomputes its totals.
func (s PurchaseService) editQuote(ctx context.Context, id int64, action string, change func(tx Tx, p *models.Purchase) error) (models.Purchase, error) {
	var p models.Purchase
	err := s.Store.Do(ctx, func(tx Tx) error {
		var err error
		p, err = tx.Purchases.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p.Status != models.PurchaseQuote {
			return domain.UserError{Action: action, Msg: fmt.Sprintf("purchase %s is %s, only quotes can be edited", p.Number, p.Status)}
		}
		if err := change(tx, &p); err != nil {
			return err
		}
		return retotal(ctx, tx, &p)
	})
	if err != nil {
		return models.Purchase{}, err
	}
	utils.LogEvent(s.RequestID, "purchases", action, fmt.Sprintf("purchase %s: %s, total %s", p.Number, action, utils.FormatMoney(p.TotalAmount)))
	return p, nil
}

func (s PurchaseService) Update(ctx context.Context, id int64, in PurchaseUpdate) (models.Purchase, error) {
	if in.VATRate != nil {
		if err := validVATRate(*in.VATRate); err != nil {
			return models.Purchase{}, err
		}
	}
	return s.editQuote(ctx, id, "update", func(tx Tx, p *models.Purchase) error {
		if in.SupplierID != nil {
			if err := applySupplier(ctx, tx, p, *in.SupplierID); err != nil {
				return err
			}
		}
		if in.Date != nil {
			p.Date = calc.Day(*in.Date)
		}
		if in.VATRate != nil {
			p.VATRate = *in.VATRate
		}
		if in.Active != nil {
			p.Active = *in.Active
		}
		return nil
	})
}

func (s PurchaseService) AddLine(ctx context.Context, id int64, in PurchaseLineInput) (models.Purchase, error) {
	l, err := in.line(id)
	if err != nil {
		return models.Purchase{}, err
	}
	return s.editQuote(ctx, id, "add_line", func(tx Tx, p *models.Purchase) error {
		return tx.Purchases.AddLine(ctx, &l)
	})
}

func (s PurchaseService) RemoveLine(ctx context.Context, id, lineID int64) (models.Purchase, error) {
	return s.editQuote(ctx, id, "remove_line", func(tx Tx, p *models.Purchase) error {
		return tx.Purchases.RemoveLine(ctx, p.ID, lineID)
	})
}

// transition moves a purchase between states after check accepts it.
func (s PurchaseService) transition(ctx context.Context, id int64, action string, to models.PurchaseStatus, check func(tx Tx, p models.Purchase) error) (models.Purchase, error) {
	var p models.Purchase
	err := s.Store.Do(ctx, func(tx Tx) error {
		var err error
		p, err = tx.Purchases.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := check(tx, p); err != nil {
			return err
		}
		p.Status = to
		return tx.Purchases.Update(ctx, p)
	})
	if err != nil {
		return models.Purchase{}, err
	}
	utils.LogEvent(s.RequestID, "purchases", action, fmt.Sprintf("purchase %s is now %s", p.Number, p.Status))
	return p, nil
}

// ValidateQuote turns a quote with at least one line into an order.
func (s PurchaseService) ValidateQuote(ctx context.Context, id int64) (ActionResult, error) {
	p, err := s.transition(ctx, id, "validate_quote", models.PurchaseOrder, func(tx Tx, p models.Purchase) error {
		if p.Status != models.PurchaseQuote {
			return domain.UserError{Action: "validate_quote", Msg: fmt.Sprintf("purchase %s is %s, only quotes can be validated", p.Number, p.Status)}
		}
		lines, err := tx.Purchases.Lines(ctx, p.ID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return domain.UserError{Action: "validate_quote", Msg: "add at least one line before validating the quote"}
		}
		return nil
	})
	if err != nil {
		return ActionResult{}, err
	}
	return succeeded("Quote validated", fmt.Sprintf("Purchase %s is now an order of %s.", p.Number, utils.FormatMoney(p.TotalAmount)), p), nil
}

func (s PurchaseService) MarkPaid(ctx context.Context, id int64) (ActionResult, error) {
	p, err := s.transition(ctx, id, "mark_paid", models.PurchasePaid, func(_ Tx, p models.Purchase) error {
		if p.Status != models.PurchaseOrder {
			return domain.UserError{Action: "mark_paid", Msg: fmt.Sprintf("purchase %s is %s, only orders can be marked paid", p.Number, p.Status)}
		}
		return nil
	})
	if err != nil {
		return ActionResult{}, err
	}
	return succeeded("Purchase paid", fmt.Sprintf("Purchase %s is marked paid.", p.Number), p), nil
}

func (s PurchaseService) Cancel(ctx context.Context, id int64) (ActionResult, error) {
	p, err := s.transition(ctx, id, "cancel", models.PurchaseCancelled, func(_ Tx, p models.Purchase) error {
		if p.Status != models.PurchaseQuote && p.Status != models.PurchaseOrder {
			return domain.UserError{Action: "cancel", Msg: fmt.Sprintf("purchase %s is %s and cannot be cancelled", p.Number, p.Status)}
		}
		return nil
	})
	if err != nil {
		return ActionResult{}, err
	}
	return succeeded("Purchase cancelled", fmt.Sprintf("Purchase %s is cancelled.", p.Number), p), nil
}
