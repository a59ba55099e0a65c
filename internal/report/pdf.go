package report

// pdf.go renders an assembled Document onto US-Letter pages.  The drawing
// uses an explicit vertical cursor; when it passes the near-bottom
// threshold a new page begins and the cursor resets to the top margin.

import (
	"io"
	"os"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageWidth  = 612.0 // US Letter in points
	pageHeight = 792.0
	topMargin  = 40.0
	bottomGap  = 60.0 // start a new page once the cursor passes pageHeight-bottomGap
	leftMargin = 40.0
	indentStep = 20.0
)

// RenderPDF writes the document as a PDF to w.
func RenderPDF(w io.Writer, doc Document) error {
	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	footer := "Generated by Powertune Garage System - " + doc.GeneratedAt.Format("2006-01-02 15:04")
	pdf.SetFooterFunc(func() {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.Text(leftMargin, pageHeight-30, footer)
	})

	pdf.AddPage()
	y := topMargin

	// Organization header block, with the logo when the file is present.
	if doc.LogoPath != "" {
		if _, err := os.Stat(doc.LogoPath); err == nil {
			pdf.ImageOptions(doc.LogoPath, leftMargin, y-10, 100, 50, false,
				gofpdf.ImageOptions{ReadDpi: true}, 0, "")
		}
	}
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Text(160, y+20, OrgName)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(160, y+38, OrgContact)
	y += 70

	for _, line := range doc.Lines {
		if y > pageHeight-bottomGap {
			pdf.AddPage()
			y = topMargin
		}
		var advance float64
		switch line.Style {
		case StyleTitle:
			pdf.SetFont("Helvetica", "B", 15)
			advance = 20
		case StyleHeading:
			pdf.SetFont("Helvetica", "B", 13)
			advance = 18
		case StyleBold:
			pdf.SetFont("Helvetica", "B", 11)
			advance = 14
		default:
			pdf.SetFont("Helvetica", "", 11)
			advance = 14
		}
		pdf.Text(leftMargin+float64(line.Indent)*indentStep, y, line.Text)
		y += advance
	}

	return pdf.Output(w)
}
