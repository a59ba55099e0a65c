package handler

// visit_form.go turns the add-visit form's parallel field lists into
// structured item records before the ledger is called, so the repository
// contract stays independent of the form encoding.

import (
	"strconv"
	"strings"

	"github.com/powertune/garage/internal/repository"
)

// parseMoney parses a price or labour field, defaulting to 0 when blank or
// unparseable.
func parseMoney(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// parseQuantity parses a quantity field, defaulting to 1 when blank,
// unparseable or below one.
func parseQuantity(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// at returns the i-th element of a form list or "" when the list is
// shorter.  Browsers submit equal-length lists, but nothing depends on it.
func at(list []string, i int) string {
	if i < len(list) {
		return list[i]
	}
	return ""
}

// assembleItems walks the parallel form lists pairwise and builds the item
// records for a new visit.  Entries with a blank item name are silently
// skipped.
func assembleItems(names, partNumbers, quantities, prices, labours []string) []*repository.ServiceItem {
	var items []*repository.ServiceItem
	for i := range names {
		name := strings.TrimSpace(names[i])
		if name == "" {
			continue
		}
		items = append(items, &repository.ServiceItem{
			ItemName:   name,
			PartNumber: strings.TrimSpace(at(partNumbers, i)),
			Quantity:   parseQuantity(at(quantities, i)),
			Price:      parseMoney(at(prices, i)),
			Labour:     parseMoney(at(labours, i)),
		})
	}
	return items
}
