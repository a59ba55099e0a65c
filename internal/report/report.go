// Package report assembles printable service reports.  The content of a
// report is built as a flat list of styled lines, independent of the
// output medium; pdf.go walks that list with a page cursor.  Keeping the
// assembly separate from the drawing makes the content rules testable
// without parsing PDF bytes.
package report

import (
	"fmt"
	"time"

	"github.com/powertune/garage/internal/billing"
	"github.com/powertune/garage/internal/repository"
)

// Organization header shown on every report.
const (
	OrgName    = "POWERTUNE AUTO GARAGE"
	OrgContact = "Nairobi, Kenya | Tel: 0712 345678 | Email: info@powertune.co.ke"
)

// Style selects the font treatment of a line.
type Style int

const (
	StyleTitle   Style = iota // report title
	StyleHeading              // section heading, bold
	StyleBody                 // regular text
	StyleBold                 // emphasized body text
)

// Line is one row of report content.
type Line struct {
	Text   string
	Style  Style
	Indent int // indentation level: 0, 1 or 2
}

// Document is a fully assembled report ready for rendering.
type Document struct {
	LogoPath    string // drawn only if the file exists; empty means none
	Lines       []Line
	GeneratedAt time.Time
}

// Visit pairs a service visit with its line items for report assembly.
type Visit struct {
	Visit *repository.ServiceVisit
	Items []*repository.ServiceItem
}

// Build assembles the report for a vehicle's visit history.  customer may
// be nil, in which case the customer block is omitted entirely.  Passing a
// single-element visits slice produces the single-visit report.
func Build(v *repository.Vehicle, customer *repository.Customer, visits []Visit, logoPath string) Document {
	doc := Document{LogoPath: logoPath, GeneratedAt: time.Now().UTC()}

	doc.add(StyleTitle, 0, "Vehicle Service Report")
	doc.add(StyleBody, 0, fmt.Sprintf("Vehicle: %s (%s)", v.Name, v.Plate))
	doc.add(StyleBody, 0, "Model: "+v.Model)
	doc.add(StyleBody, 0, "VIN: "+orDash(v.VinNumber))

	if customer != nil {
		doc.add(StyleHeading, 0, "Customer Details:")
		doc.add(StyleBody, 1, "Name: "+customer.Name)
		doc.add(StyleBody, 1, "Phone: "+customer.Phone)
		doc.add(StyleBody, 1, "Email: "+customer.Email)
	}

	if v.History != "" {
		doc.add(StyleHeading, 0, "Previous Notes:")
		doc.add(StyleBody, 1, v.History)
	}

	doc.add(StyleHeading, 0, "Visit & Service History:")
	if len(visits) == 0 {
		doc.add(StyleBody, 0, "No visits found.")
		return doc
	}
	for idx, entry := range visits {
		sv := entry.Visit
		doc.add(StyleBold, 1, fmt.Sprintf("%d. Date: %s | Category: %s",
			idx+1, sv.Date.Format("2006-01-02"), orDash(sv.VisitCategory)))
		if sv.Notes != "" {
			doc.add(StyleBody, 2, "Notes: "+sv.Notes)
		}
		for _, it := range entry.Items {
			doc.add(StyleBody, 2, fmt.Sprintf("%s (%s) x%d @ %.2f | labour %.2f",
				it.ItemName, orDash(it.PartNumber), it.Quantity, it.Price, it.Labour))
		}
		t := billing.Compute(sv, entry.Items)
		doc.add(StyleBold, 2, fmt.Sprintf("Parts: %.2f | Items labour: %.2f | Visit labour: %.2f | Grand total: %.2f",
			t.Parts, t.ItemsLabour, t.VisitLabour, t.Grand))
	}
	return doc
}

func (d *Document) add(s Style, indent int, text string) {
	d.Lines = append(d.Lines, Line{Text: text, Style: s, Indent: indent})
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
