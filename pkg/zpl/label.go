// Package zpl generates ZPL II markup for thermal product labels. Generation
// is pure text assembly: no device I/O, no timestamps, so identical inputs
// produce byte-identical output.
package zpl

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Paper identifies a supported label stock preset.
type Paper string

const (
	Paper3x2Inch Paper = "3x2inch"
	Paper50x30mm Paper = "50x30mm"
	Paper60x40mm Paper = "60x40mm"
)

// Supported printhead densities.
const (
	DPI203 = 203
	DPI300 = 300
)

const datePlaceholder = "__/__/____"

// LabelItem is one product label payload. Optional fields render as blanks
// or placeholders rather than being omitted, keeping the layout stable.
type LabelItem struct {
	ID             string   `json:"id"`
	Name           string   `json:"name" binding:"required"`
	Barcode        string   `json:"barcode" binding:"required"`
	NetWeight      string   `json:"netWeight"`
	Price          *float64 `json:"price"`
	PackageDateISO string   `json:"packageDateISO"`
	ExpiryDateISO  string   `json:"expiryDateISO"`
}

// Options selects stock, density and repetition for a label batch.
type Options struct {
	Items         []LabelItem
	Paper         Paper
	DPI           int
	Copies        int
	HumanReadable bool
}

func (o Options) normalized() Options {
	if o.Paper == "" {
		o.Paper = Paper3x2Inch
	}
	if o.DPI == 0 {
		o.DPI = DPI203
	}
	if o.Copies < 1 {
		o.Copies = 1
	}
	return o
}

// ValidPaper reports whether p names a supported stock preset.
func ValidPaper(p Paper) bool {
	switch p {
	case Paper3x2Inch, Paper50x30mm, Paper60x40mm:
		return true
	}
	return false
}

// ValidDPI reports whether d is a supported printhead density.
func ValidDPI(d int) bool {
	return d == DPI203 || d == DPI300
}

func mmToDots(mm float64, dpi int) int {
	return int(math.Round(mm / 25.4 * float64(dpi)))
}

func inchToDots(in float64, dpi int) int {
	return int(math.Round(in * float64(dpi)))
}

// Dimensions returns label width and height in dots for a preset at a DPI.
func Dimensions(p Paper, dpi int) (w, h int) {
	switch p {
	case Paper50x30mm:
		return mmToDots(50, dpi), mmToDots(30, dpi)
	case Paper60x40mm:
		return mmToDots(60, dpi), mmToDots(40, dpi)
	default:
		return inchToDots(3, dpi), inchToDots(2, dpi)
	}
}

// layout holds the DPI-tuned metrics. ZPL has no font measurement, so sizes
// and offsets come from fixed tables instead of a fit loop.
type layout struct {
	fontLarge, fontMedium, fontSmall int
	marginX, marginY                 int
	lineHeight, lineSpacing          int
	barcodeHeight, barcodeBarWidth   int
}

func layoutFor(dpi int) layout {
	if dpi >= DPI300 {
		return layout{
			fontLarge: 35, fontMedium: 26, fontSmall: 20,
			marginX: 15, marginY: 10,
			lineHeight: 30, lineSpacing: 8,
			barcodeHeight: 80, barcodeBarWidth: 3,
		}
	}
	return layout{
		fontLarge: 28, fontMedium: 22, fontSmall: 18,
		marginX: 10, marginY: 8,
		lineHeight: 24, lineSpacing: 6,
		barcodeHeight: 60, barcodeBarWidth: 2,
	}
}

// Escape neutralizes the ZPL control characters in field data.
func Escape(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`^`, `\^`,
		`~`, `\~`,
		"`", "\\`",
	)
	return r.Replace(s)
}

// FormatDate renders an ISO date as DD/MM/YYYY, or the blank placeholder
// when the value is absent or unparseable.
func FormatDate(iso string) string {
	if iso == "" {
		return datePlaceholder
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, iso); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return datePlaceholder
}

// Generate produces the concatenated ^XA..^XZ blocks for every item times
// the copy count.
func Generate(o Options) (string, error) {
	o = o.normalized()
	if !ValidPaper(o.Paper) {
		return "", fmt.Errorf("zpl: unsupported paper preset %q", o.Paper)
	}
	if !ValidDPI(o.DPI) {
		return "", fmt.Errorf("zpl: unsupported dpi %d", o.DPI)
	}

	w, h := Dimensions(o.Paper, o.DPI)
	var b strings.Builder
	for _, it := range o.Items {
		block := labelBlock(it, w, h, o.DPI, o.HumanReadable)
		for c := 0; c < o.Copies; c++ {
			b.WriteString(block)
		}
	}
	return b.String(), nil
}

func labelBlock(it LabelItem, w, h, dpi int, humanReadable bool) string {
	l := layoutFor(dpi)
	contentWidth := w - 2*l.marginX
	startX := l.marginX

	name := Escape(strings.ToUpper(strings.TrimSpace(it.Name)))
	code := Escape(strings.TrimSpace(it.Barcode))

	var priceText string
	if it.Price != nil {
		priceText = fmt.Sprintf("RS %d", int(math.Round(*it.Price)))
	}
	// A short name leaves room for the price on the title line; otherwise
	// the price drops to the meta line next to the weight.
	priceOnTitle := priceText != "" && len(name) < 20

	var b strings.Builder
	wln := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	wln("^XA")
	wln("^PW%d", w)
	wln("^LL%d", h)
	wln("^LH0,0")
	wln("^CI28")
	wln("^FWN")

	titleY := l.marginY
	wln("^CF0,%d", l.fontLarge)
	wln("^FO%d,%d^FB%d,2,0,C,0^FD%s^FS", startX, titleY, contentWidth, name)
	if priceOnTitle {
		wln("^CF0,%d", l.fontMedium)
		wln("^FO%d,%d^FB%d,1,0,R,0^FD%s^FS", startX, titleY, contentWidth, priceText)
	}

	metaY := titleY + l.lineHeight + l.lineSpacing
	wln("^CF0,%d", l.fontSmall)
	if it.NetWeight != "" {
		wln("^FO%d,%d^FD%s^FS", startX, metaY, Escape("Net: "+it.NetWeight))
	}
	if priceText != "" && !priceOnTitle {
		wln("^FO%d,%d^FB%d,1,0,R,0^FD%s^FS", startX, metaY, contentWidth, priceText)
	}

	datesY := metaY + l.lineHeight + 2*l.lineSpacing
	wln("^CF0,%d", l.fontSmall)
	wln("^FO%d,%d^FDPKG: %s^FS", startX, datesY, FormatDate(it.PackageDateISO))
	wln("^FO%d,%d^FB%d,1,0,R,0^FDEXP: %s^FS", startX, datesY, contentWidth, FormatDate(it.ExpiryDateISO))

	// Extra spacing before the barcode keeps it clear of the dates row.
	barcodeY := datesY + l.lineHeight + 3*l.lineSpacing
	maxBarcodeWidth := contentWidth * 92 / 100
	barcodeX := (w - maxBarcodeWidth) / 2
	hri := "N"
	if humanReadable {
		hri = "Y"
	}
	wln("^BY%d", l.barcodeBarWidth)
	wln("^FO%d,%d^BCN,%d,%s,N,N", barcodeX, barcodeY, l.barcodeHeight, hri)
	wln("^FD%s^FS", code)

	wln("^XZ")
	return b.String()
}
