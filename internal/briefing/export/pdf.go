// Package export renders the admin print view of a briefing as PDF: the three
// project-one scripts, one block per challenge episode and the icon table.
package export

import (
	_ "embed"
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/motion-studio/briefing-backend/internal/briefing/domain"
	"github.com/motion-studio/briefing-backend/internal/briefing/form"
)

const fontFamily = "DejaVu"

var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	fontRegular []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	fontBold []byte
)

type field struct {
	label, value string
}

// WritePDF writes the print view of rec for client to w
func WritePDF(w io.Writer, client string, rec domain.ClientRecord) error {
	return newDocument(client, rec).Output(w)
}

// newDocument lays out the print view. Text is drawn with an embedded UTF-8
// font so Persian and other non-Latin answers keep their code points; glyphs
// are not shaped or joined.
func newDocument(client string, rec domain.ClientRecord) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.AddUTF8FontFromBytes(fontFamily, "", fontRegular)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", fontBold)
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AliasNbPages("{nb}")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-14)
		pdf.SetFont(fontFamily, "", 8)
		pdf.CellFormat(0, 6, "Page "+strconv.Itoa(pdf.PageNo())+" of {nb}", "", 0, "C", false, 0, "")
	})

	progress := form.Compute(&rec)

	pdf.AddPage()
	drawTitle(pdf, client, progress)

	p1 := rec.ProjectOne
	drawHeading(pdf, fmt.Sprintf("Project 1: Motion graphics scripts (%d%%)", progress.P1))
	drawSubheading(pdf, "1. Why us")
	drawFields(pdf, []field{
		{"Duration", p1.WhyUs.Duration},
		{"Style and tempo", p1.WhyUs.Style},
		{"Main advantages", p1.WhyUs.Advantages},
		{"Visual factors", p1.WhyUs.VisualFactors},
		{"Pain points", p1.WhyUs.PainPoints},
		{"Visual symbols", p1.WhyUs.VisualSymbols},
		{"Core message", p1.WhyUs.CoreMessage},
		{"Call to action", p1.WhyUs.CTA},
		{"Visual imagery", p1.WhyUs.VisualImagery},
	})
	drawSubheading(pdf, "2. What we do")
	drawFields(pdf, []field{
		{"Duration", p1.WhatWeDo.Duration},
		{"Structure", p1.WhatWeDo.Structure},
		{"Core message", p1.WhatWeDo.CoreMessage},
		{"Environment", p1.WhatWeDo.Environment},
		{"Equipment", p1.WhatWeDo.Equipment},
		{"Services", p1.WhatWeDo.ServicesList},
		{"Workflow", p1.WhatWeDo.Workflow},
		{"Final output", p1.WhatWeDo.FinalOutput},
		{"CTA", p1.WhatWeDo.CTA},
		{"Visual imagery", p1.WhatWeDo.VisualImagery},
	})
	drawSubheading(pdf, "3. Exclusive capabilities")
	drawFields(pdf, []field{
		{"Duration", p1.Exclusive.Duration},
		{"Mood", p1.Exclusive.Mood},
		{"Allow comparisons", yesNo(p1.Exclusive.AllowComparisons)},
		{"Unique capabilities", p1.Exclusive.UniqueCapabilities},
		{"Secret sauce", p1.Exclusive.SecretSauce},
		{"Comparison scenario", p1.Exclusive.ComparisonScenario},
		{"Abstract imagery", p1.Exclusive.AbstractImagery},
		{"Technical terms", p1.Exclusive.TechnicalTerms},
		{"Core message", p1.Exclusive.CoreMessage},
		{"CTA", p1.Exclusive.CTA},
		{"Visual imagery", p1.Exclusive.VisualImagery},
	})

	drawHeading(pdf, fmt.Sprintf("Project 2: Challenges series (%d%%)", progress.P2))
	if len(rec.ProjectTwo) == 0 {
		drawEmpty(pdf, "No episodes yet")
	}
	for i, row := range rec.ProjectTwo {
		name := row.Name
		if name == "" {
			name = "Untitled"
		}
		drawSubheading(pdf, fmt.Sprintf("Episode %d: %s", i+1, name))
		drawFields(pdf, []field{
			{"Problem", row.Problem},
			{"Urgency", row.Urgency},
			{"Visual problem", row.VisualProblem},
			{"Bridge sentence", row.BridgeSentence},
			{"Bridge visual", row.BridgeVisual},
			{"Rejected ideas", row.RejectedIdeas},
			{"Strategy", row.Strategy},
			{"Execution", row.Execution},
			{"Result", row.Result},
			{"Slogan / CTA", row.Slogan + " / " + row.CTA},
		})
	}

	drawHeading(pdf, fmt.Sprintf("Project 3: Icon loops (%d%%)", progress.P3))
	drawIconTable(pdf, rec.ProjectThree)

	return pdf
}

func drawTitle(pdf *fpdf.Fpdf, client string, p form.Progress) {
	pageW, _ := pdf.GetPageSize()
	marginL, _, marginR, _ := pdf.GetMargins()
	contentW := pageW - marginL - marginR

	pdf.SetFillColor(30, 30, 30)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont(fontFamily, "B", 13)
	pdf.CellFormat(contentW, 10, "Project briefing: "+client, "", 1, "L", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont(fontFamily, "", 9)
	pdf.CellFormat(contentW, 7, fmt.Sprintf("Completion  P1 %d%%   P2 %d%%   P3 %d%%", p.P1, p.P2, p.P3), "", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func drawHeading(pdf *fpdf.Fpdf, text string) {
	pdf.Ln(3)
	pdf.SetFont(fontFamily, "B", 12)
	pdf.SetTextColor(60, 50, 140)
	pdf.CellFormat(0, 8, text, "B", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(1)
}

func drawSubheading(pdf *fpdf.Fpdf, text string) {
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont(fontFamily, "B", 9)
	pdf.CellFormat(0, 6, text, "", 1, "L", true, 0, "")
}

func drawFields(pdf *fpdf.Fpdf, fields []field) {
	pageW, _ := pdf.GetPageSize()
	marginL, _, marginR, _ := pdf.GetMargins()
	labelW := 42.0
	valueW := pageW - marginL - marginR - labelW

	for _, f := range fields {
		value := f.value
		if value == "" {
			value = "-"
		}
		pdf.SetFont(fontFamily, "B", 8.5)
		pdf.CellFormat(labelW, 5.5, f.label, "", 0, "L", false, 0, "")
		pdf.SetFont(fontFamily, "", 8.5)
		pdf.MultiCell(valueW, 5.5, value, "", "L", false)
	}
	pdf.Ln(2)
}

func drawIconTable(pdf *fpdf.Fpdf, rows []domain.IconRow) {
	if len(rows) == 0 {
		drawEmpty(pdf, "No icons yet")
		return
	}
	pageW, _ := pdf.GetPageSize()
	marginL, _, marginR, _ := pdf.GetMargins()
	contentW := pageW - marginL - marginR
	widths := []float64{10, contentW * 0.25, contentW * 0.35, 22}
	widths = append(widths, contentW-widths[0]-widths[1]-widths[2]-widths[3])

	pdf.SetFillColor(30, 30, 30)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont(fontFamily, "B", 8.5)
	for i, h := range []string{"#", "Title", "Elements", "Motion", "Link"} {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(0, 0, 0)

	pdf.SetFont(fontFamily, "", 8.5)
	for i, row := range rows {
		fill := i%2 == 1
		pdf.SetFillColor(248, 248, 248)
		cells := []string{strconv.Itoa(i + 1), row.Title, row.Elements, row.ActionType, row.Link}
		for j, c := range cells {
			pdf.CellFormat(widths[j], 6.5, truncate(pdf, c, widths[j]-2), "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}
}

func drawEmpty(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont(fontFamily, "", 9)
	pdf.CellFormat(0, 6, text, "", 1, "L", false, 0, "")
}

// truncate shortens s with an ellipsis so it fits in width mm
func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
