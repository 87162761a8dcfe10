package receipt

import (
	"math"

	"github.com/jung-kurt/gofpdf"
)

const fontFamily = "Helvetica"

// Font size bounds for the receipt sections, in points.
const (
	headMax  = 16.0
	headMin  = 11.0
	bodyMax  = 10.5
	bodyMin  = 7.6
	totalMax = 12.0
	totalMin = 7.5

	fitStep   = 0.1
	rowStep   = 0.2
	valueMinW = 7.0
)

// mm converts millimetres to points.
func mm(n float64) float64 {
	return n * 72.0 / 25.4
}

// Geometry describes the printable page in points.
type Geometry struct {
	PageW  float64
	Left   float64
	Right  float64
	Top    float64
	Bottom float64
}

// DefaultGeometry is the 80mm roll profile: 72mm printable width with 2.5mm
// side margins, 4mm top and 5mm bottom.
func DefaultGeometry() Geometry {
	return Geometry{
		PageW:  mm(72),
		Left:   mm(2.5),
		Right:  mm(2.5),
		Top:    mm(4),
		Bottom: mm(5),
	}
}

// ContentW is the width available between the side margins.
func (g Geometry) ContentW() float64 {
	return g.PageW - g.Left - g.Right
}

// pdfMeasurer measures via the document's live font metrics for one style.
type pdfMeasurer struct {
	pdf   *gofpdf.Fpdf
	style string
}

func (m pdfMeasurer) TextWidth(text string, size float64) float64 {
	m.pdf.SetFont(fontFamily, m.style, size)
	return m.pdf.GetStringWidth(text)
}

// fitOpts configures a single fitted text block.
type fitOpts struct {
	max   float64
	min   float64
	align Align
	bold  bool
}

func styleOf(bold bool) string {
	if bold {
		return "B"
	}
	return ""
}

// drawFit fits text into [x, x+width], draws it and returns the final size.
// The baseline is placed one font-size below y so y remains a top coordinate.
func drawFit(pdf *gofpdf.Fpdf, text string, x, y, width float64, o fitOpts) float64 {
	style := styleOf(o.bold)
	m := pdfMeasurer{pdf: pdf, style: style}
	size, tw := FitText(m, text, o.max, o.min, fitStep, width)
	origin := AlignOrigin(x, width, tw, o.align)
	pdf.SetFont(fontFamily, style, size)
	pdf.Text(origin, y+size, text)
	return size
}

// rowLR draws a left label and right-aligned value on one line and returns
// the consumed height. The label shrinks to fit 40% of the line width; the
// value keeps the full size unless it exceeds 70% of the line, in which case
// it shrinks towards a 7pt floor. The sides shrink independently and the row
// advances by the line height of the smaller final size.
func rowLR(pdf *gofpdf.Fpdf, g Geometry, label, value string, y float64, max, min float64, bold bool) float64 {
	style := styleOf(bold)
	m := pdfMeasurer{pdf: pdf, style: style}
	w := g.ContentW()
	labelW := w * 0.40

	sizeL := max
	for sizeL > min && m.TextWidth(label, sizeL) > labelW {
		sizeL -= rowStep
	}
	pdf.SetFont(fontFamily, style, sizeL)
	pdf.Text(g.Left, y+sizeL, label)

	sizeR := max
	if m.TextWidth(value, sizeR) > w*0.7 {
		for sizeR > valueMinW && m.TextWidth(value, sizeR) > w*0.7 {
			sizeR -= rowStep
		}
	}
	vw := m.TextWidth(value, sizeR)
	origin := AlignOrigin(g.Left, w, vw, AlignRight)
	pdf.SetFont(fontFamily, style, sizeR)
	pdf.Text(origin, y+sizeR, value)

	return lineHeight(math.Min(sizeL, sizeR))
}

// rowIQR draws the item/qty/rate columns and returns the consumed height.
// Header rows use wider name and qty columns than data rows; the row height
// follows the smallest cell so dense rows stay compact.
func rowIQR(pdf *gofpdf.Fpdf, g Geometry, item, qty, rate string, y float64, header bool) float64 {
	w := g.ContentW()
	max, min := bodyMax, bodyMin
	itemW, qtyW := w*0.50, w*0.16
	bold := false
	if header {
		max, min = totalMax, totalMin
		itemW, qtyW = w*0.48, w*0.18
		bold = true
	}
	rateW := w - itemW - qtyW

	o := fitOpts{max: max, min: min, bold: bold}

	o.align = AlignLeft
	s1 := drawFit(pdf, item, g.Left, y, itemW, o)
	o.align = AlignCenter
	s2 := drawFit(pdf, qty, g.Left+itemW, y, qtyW, o)
	o.align = AlignRight
	s3 := drawFit(pdf, rate, g.Left+itemW+qtyW, y, rateW, o)

	return lineHeight(math.Min(s1, math.Min(s2, s3)))
}

// hr draws a full-width horizontal rule and returns the consumed height.
func hr(pdf *gofpdf.Fpdf, g Geometry, y float64, dotted bool) float64 {
	yy := y + 1
	if dotted {
		pdf.SetDashPattern([]float64{1, 2}, 0)
	} else {
		pdf.SetDashPattern([]float64{}, 0)
	}
	pdf.SetLineWidth(1)
	pdf.Line(g.Left, yy, g.Left+g.ContentW(), yy)
	pdf.SetDashPattern([]float64{}, 0)
	return (yy + 3) - y
}
