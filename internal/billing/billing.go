// Package billing derives the billable totals of a service visit from its
// line items.  The computation is pure arithmetic over in-memory records;
// no rounding is applied, formatting to a currency string is left to the
// render layer.
package billing

import "github.com/powertune/garage/internal/repository"

// Totals breaks down what a visit costs.
type Totals struct {
	Parts       float64 // sum of quantity x unit price over all items
	ItemsLabour float64 // sum of per-item labour charges
	VisitLabour float64 // the visit's own flat labour charge
	Grand       float64 // Parts + ItemsLabour + VisitLabour
}

// Compute aggregates a visit and its items into Totals.  A nil or empty
// item slice yields a grand total equal to the visit's flat labour.
func Compute(visit *repository.ServiceVisit, items []*repository.ServiceItem) Totals {
	t := Totals{}
	if visit != nil {
		t.VisitLabour = visit.Labour
	}
	for _, it := range items {
		t.Parts += float64(it.Quantity) * it.Price
		t.ItemsLabour += it.Labour
	}
	t.Grand = t.Parts + t.ItemsLabour + t.VisitLabour
	return t
}
