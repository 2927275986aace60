package calc

import (
	"backoffice/internal/domain/models"

	"github.com/shopspring/decimal"
)

// Round2 rounds to cents, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// PricingInput is everything a reservation total depends on. HasTrip is false
// when the reservation is not linked to a trip yet.
type PricingInput struct {
	HasTrip    bool
	Trip       models.Trip
	Offerings  models.TripOfferings
	Travelers  []models.Traveler
	Rooms      []models.RoomAssignment
	Supplement decimal.Decimal
}

type Breakdown struct {
	Adults     int             `json:"adults"`
	Children   int             `json:"children"`
	Travelers  int             `json:"travelers"`
	Transport  decimal.Decimal `json:"transport"`
	Lodging    decimal.Decimal `json:"lodging"`
	Catering   decimal.Decimal `json:"catering"`
	Guide      decimal.Decimal `json:"guide"`
	Equipment  decimal.Decimal `json:"equipment"`
	Supplement decimal.Decimal `json:"supplement"`
	Total      decimal.Decimal `json:"total"`
}

// RoomTotal is rooms × nights × nightly price.
func RoomTotal(r models.RoomAssignment) decimal.Decimal {
	return Round2(r.NightlyPrice.Mul(decimal.NewFromInt(int64(r.Rooms) * int64(r.Nights))))
}

// CountTravelers splits travelers into adults and children.
func CountTravelers(travelers []models.Traveler) (adults, children int) {
	for _, t := range travelers {
		if t.Kind == models.TravelerChild {
			children++
		} else {
			adults++
		}
	}
	return adults, children
}

// PriceReservation computes the five components and the total. Lodging only
// depends on the rooms; every trip-based component is zero without a trip, and
// the per-head and group components are zero when nobody travels.
func PriceReservation(in PricingInput) Breakdown {
	b := Breakdown{
		Transport:  decimal.Zero,
		Lodging:    decimal.Zero,
		Catering:   decimal.Zero,
		Guide:      decimal.Zero,
		Equipment:  decimal.Zero,
		Supplement: Round2(in.Supplement),
	}
	b.Adults, b.Children = CountTravelers(in.Travelers)
	b.Travelers = b.Adults + b.Children

	for _, r := range in.Rooms {
		b.Lodging = b.Lodging.Add(RoomTotal(r))
	}

	if in.HasTrip && b.Travelers > 0 {
		heads := decimal.NewFromInt(int64(b.Travelers))

		b.Transport = in.Trip.AdultPrice.Mul(decimal.NewFromInt(int64(b.Adults))).
			Add(in.Trip.ChildPrice.Mul(decimal.NewFromInt(int64(b.Children))))

		for _, m := range in.Offerings.Meals {
			b.Catering = b.Catering.Add(m.Price.Mul(heads))
		}
		// Guides are a flat fee for the group.
		for _, g := range in.Offerings.Guides {
			b.Guide = b.Guide.Add(g.Price)
		}
		for _, e := range in.Offerings.Equipment {
			b.Equipment = b.Equipment.Add(e.Price.Mul(heads))
		}
	}

	b.Transport = Round2(b.Transport)
	b.Lodging = Round2(b.Lodging)
	b.Catering = Round2(b.Catering)
	b.Guide = Round2(b.Guide)
	b.Equipment = Round2(b.Equipment)
	b.Total = b.Transport.Add(b.Lodging).Add(b.Catering).Add(b.Guide).Add(b.Equipment).Add(b.Supplement)
	return b
}

// Apply copies the breakdown onto the stored reservation fields.
func (b Breakdown) Apply(r *models.Reservation) {
	r.Adults = b.Adults
	r.Children = b.Children
	r.TotalTravelers = b.Travelers
	r.TransportPrice = b.Transport
	r.LodgingPrice = b.Lodging
	r.CateringPrice = b.Catering
	r.GuidePrice = b.Guide
	r.EquipmentPrice = b.Equipment
	r.RoomSupplement = b.Supplement
	r.Total = b.Total
}

// PaidAmount sums payments with status paid.
func PaidAmount(payments []models.Payment) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		if p.Status == models.PaymentPaid {
			sum = sum.Add(p.Amount)
		}
	}
	return sum
}

// AmountDue is total minus what has been paid. It can go negative when a
// reservation total drops below payments already received.
func AmountDue(total, paid decimal.Decimal) decimal.Decimal {
	return Round2(total.Sub(paid))
}
