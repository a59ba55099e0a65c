package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/powertune/garage/internal/repository"
)

func TestCompute(t *testing.T) {
	t.Run("oil filter scenario", func(t *testing.T) {
		visit := &repository.ServiceVisit{Labour: 500}
		items := []*repository.ServiceItem{
			{ItemName: "Oil Filter", Quantity: 1, Price: 1200, Labour: 300},
		}
		got := Compute(visit, items)
		assert.Equal(t, 1200.0, got.Parts)
		assert.Equal(t, 300.0, got.ItemsLabour)
		assert.Equal(t, 500.0, got.VisitLabour)
		assert.Equal(t, 2000.0, got.Grand)
	})

	t.Run("multiple items with quantities", func(t *testing.T) {
		visit := &repository.ServiceVisit{Labour: 1000}
		items := []*repository.ServiceItem{
			{ItemName: "ATF Fluid", Quantity: 5, Price: 850, Labour: 1000},
			{ItemName: "Gearbox Gasket", Quantity: 1, Price: 1800, Labour: 500},
		}
		got := Compute(visit, items)
		assert.Equal(t, 5*850.0+1800.0, got.Parts)
		assert.Equal(t, 1500.0, got.ItemsLabour)
		assert.Equal(t, got.Parts+got.ItemsLabour+1000.0, got.Grand)
	})

	t.Run("no items", func(t *testing.T) {
		visit := &repository.ServiceVisit{Labour: 750}
		got := Compute(visit, nil)
		assert.Zero(t, got.Parts)
		assert.Zero(t, got.ItemsLabour)
		assert.Equal(t, 750.0, got.Grand)
	})

	t.Run("nil visit", func(t *testing.T) {
		got := Compute(nil, []*repository.ServiceItem{{Quantity: 2, Price: 10}})
		assert.Equal(t, 20.0, got.Parts)
		assert.Equal(t, 20.0, got.Grand)
	})

	t.Run("zero-price labour-only item", func(t *testing.T) {
		visit := &repository.ServiceVisit{}
		items := []*repository.ServiceItem{
			{ItemName: "ECU Coding", Quantity: 1, Price: 0, Labour: 3500},
		}
		got := Compute(visit, items)
		assert.Zero(t, got.Parts)
		assert.Equal(t, 3500.0, got.Grand)
	})
}
