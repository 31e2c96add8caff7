// Package pricing computes the aggregate display total for a visit series.
package pricing

import "github.com/example/visit-scheduler/internal/visit"

// Breakdown itemizes the aggregate total shown to the operator.
type Breakdown struct {
	InstancesTotal float64
	AddonsPerVisit float64
	VisitCount     int
	Subtotal       float64
	DiscountAmount float64
	Total          float64
}

// Total computes the aggregate series price.
//
// The top-level addon selection is multiplied by the visit count for
// display. Each persisted per-instance price already embeds that
// instance's own addon total, so once individual visits are customized the
// two addon figures may diverge; this total is then an approximation and
// the persisted per-instance price remains the source of truth.
//
// The result is clamped at zero: no discount configuration can produce a
// negative total.
func Total(instances []visit.Instance, recurring bool, tmpl visit.Template, selectedAddonIDs []string, addonPrices map[string]float64, discount visit.Discount) Breakdown {
	b := Breakdown{VisitCount: 1}

	if recurring {
		b.VisitCount = len(instances)
		for _, in := range instances {
			b.InstancesTotal += in.Price
		}
	} else {
		b.InstancesTotal = tmpl.Price
	}

	for _, id := range selectedAddonIDs {
		b.AddonsPerVisit += addonPrices[id]
	}

	b.Subtotal = b.InstancesTotal + b.AddonsPerVisit*float64(b.VisitCount)
	b.DiscountAmount = discountAmount(b.Subtotal, discount)

	b.Total = b.Subtotal - b.DiscountAmount
	if b.Total < 0 {
		b.Total = 0
	}
	return b
}

func discountAmount(subtotal float64, discount visit.Discount) float64 {
	switch discount.Kind {
	case visit.DiscountFixed:
		return discount.Value
	case visit.DiscountPercent:
		return subtotal * discount.Value / 100
	default:
		return 0
	}
}
