package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/powertune/garage/internal/repository"
)

func testVehicle() *repository.Vehicle {
	return &repository.Vehicle{
		ID:    7,
		Name:  "Toyota",
		Model: "Hilux",
		Plate: "KAA123A",
	}
}

func docText(d Document) string {
	var b strings.Builder
	for _, l := range d.Lines {
		b.WriteString(l.Text)
		b.WriteString("\n")
	}
	return b.String()
}

func TestBuildVehicleBlock(t *testing.T) {
	doc := Build(testVehicle(), nil, nil, "")
	text := docText(doc)
	assert.Contains(t, text, "Vehicle: Toyota (KAA123A)")
	assert.Contains(t, text, "Model: Hilux")
	assert.Contains(t, text, "VIN: -") // unset VIN renders as a dash
}

func TestBuildCustomerBlockOmittedWithoutCustomer(t *testing.T) {
	doc := Build(testVehicle(), nil, nil, "")
	assert.NotContains(t, docText(doc), "Customer Details:")

	withCustomer := Build(testVehicle(), &repository.Customer{
		Name: "Jane Smith", Phone: "0712000000", Email: "jane@demo.com",
	}, nil, "")
	text := docText(withCustomer)
	assert.Contains(t, text, "Customer Details:")
	assert.Contains(t, text, "Name: Jane Smith")
	assert.Contains(t, text, "Phone: 0712000000")
}

func TestBuildEmptyHistory(t *testing.T) {
	doc := Build(testVehicle(), nil, nil, "")
	assert.Contains(t, docText(doc), "No visits found.")
}

func TestBuildVisitEntries(t *testing.T) {
	visit := &repository.ServiceVisit{
		ID:            3,
		Date:          time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC),
		VisitCategory: "Service Engine",
		Notes:         "Routine service.",
		Labour:        500,
	}
	items := []*repository.ServiceItem{
		{ItemName: "Oil Filter", PartNumber: "OF-789", Quantity: 1, Price: 1200, Labour: 300},
	}
	doc := Build(testVehicle(), nil, []Visit{{Visit: visit, Items: items}}, "")
	text := docText(doc)
	assert.NotContains(t, text, "No visits found.")
	assert.Contains(t, text, "1. Date: 2025-06-14 | Category: Service Engine")
	assert.Contains(t, text, "Notes: Routine service.")
	assert.Contains(t, text, "Oil Filter (OF-789) x1 @ 1200.00 | labour 300.00")
	assert.Contains(t, text, "Parts: 1200.00 | Items labour: 300.00 | Visit labour: 500.00 | Grand total: 2000.00")
}

func TestBuildLegacyHistoryShownWhenSet(t *testing.T) {
	v := testVehicle()
	v.History = "Replaced clutch in 2023"
	text := docText(Build(v, nil, nil, ""))
	assert.Contains(t, text, "Previous Notes:")
	assert.Contains(t, text, "Replaced clutch in 2023")
}

func TestRenderPDFProducesDocument(t *testing.T) {
	// Enough visits to force at least one page break.
	visits := make([]Visit, 0, 40)
	for i := 0; i < 40; i++ {
		visits = append(visits, Visit{
			Visit: &repository.ServiceVisit{
				Date:          time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
				VisitCategory: "Diagnosis",
				Labour:        100,
			},
			Items: []*repository.ServiceItem{
				{ItemName: "OBD Scan", Quantity: 1, Price: 2000, Labour: 500},
			},
		})
	}
	doc := Build(testVehicle(), nil, visits, "")
	var buf bytes.Buffer
	require.NoError(t, RenderPDF(&buf, doc))
	out := buf.Bytes()
	require.True(t, bytes.HasPrefix(out, []byte("%PDF")), "output should be a PDF document")
	// Two pages minimum: one /Pages tree plus a /Page object per page.
	assert.GreaterOrEqual(t, bytes.Count(out, []byte("/Page")), 3)
}
