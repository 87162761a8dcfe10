// Package receipt renders thermal POS receipts as PDF documents sized for an
// 80mm roll. Text blocks shrink to fit their columns instead of truncating,
// and the page height is trimmed to the rendered content.
package receipt

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/acestudios/print-server/pkg/money"
)

const (
	defaultStoreName    = "MANPASAND GENERAL STORE"
	defaultTagline      = "Quality - Service - Value"
	defaultAddress      = "Karachi, Pakistan"
	defaultCustomerType = "Walk-in"
	defaultPayment      = "CASH"
	defaultThankYou     = "Thank you for shopping with us!"
	defaultCurrency     = "PKR"

	dateLayout = "02/01/2006 3:04:05 PM"
)

// Item is one sold line on the receipt.
type Item struct {
	Name     string
	Quantity float64
	Price    float64
	Unit     string
}

// Data is a fully-populated receipt payload. Store identity fields are
// optional and fall back to the configured store defaults.
type Data struct {
	TransactionID string
	Timestamp     time.Time

	StoreName string
	Tagline   string
	Address   string
	STRN      string

	Cashier      string
	CustomerType string

	Items      []Item
	Subtotal   float64
	Discount   float64
	TaxPercent float64
	Total      *float64

	PaymentMethod string
	AmountPaid    *float64
	ChangeAmount  float64

	Promo           string
	ThankYouMessage string
	FooterMessage   string
	QRPayload       string
}

// Options configures rendering concerns that come from server config rather
// than the payload.
type Options struct {
	Currency string
	LogoPath string
}

func (d Data) withDefaults() Data {
	if d.StoreName == "" {
		d.StoreName = defaultStoreName
	}
	if d.Tagline == "" {
		d.Tagline = defaultTagline
	}
	if d.Address == "" {
		d.Address = defaultAddress
	}
	if d.CustomerType == "" {
		d.CustomerType = defaultCustomerType
	}
	if d.PaymentMethod == "" {
		d.PaymentMethod = defaultPayment
	}
	if d.ThankYouMessage == "" {
		d.ThankYouMessage = defaultThankYou
	}
	if d.Timestamp.IsZero() {
		d.Timestamp = time.Now()
	}
	return d
}

func (o Options) withDefaults() Options {
	if o.Currency == "" {
		o.Currency = defaultCurrency
	}
	return o
}

// Totals derives the money block. Tax applies to the discounted subtotal. A
// caller-supplied total (e.g. carrying a rounding adjustment) wins; the
// derived grand total never goes negative.
func (d Data) Totals() (subtotal, discount, tax, total float64) {
	subtotal = d.Subtotal
	if subtotal == 0 {
		for _, it := range d.Items {
			subtotal += it.Price * it.Quantity
		}
	}
	discount = d.Discount
	tax = (subtotal - discount) * d.TaxPercent / 100
	if d.Total != nil {
		total = *d.Total
	} else {
		total = math.Max(0, subtotal-discount+tax)
	}
	return subtotal, discount, tax, total
}

// line is one label/value row of the totals or payment block.
type line struct {
	Label string
	Value string
	Bold  bool
}

// totalLines applies the visibility rules for the money block: the discount
// row only appears for a positive discount and the tax row only when the
// computed tax is positive.
func totalLines(d Data, cur string) []line {
	subtotal, discount, tax, total := d.Totals()
	rows := []line{{Label: "Subtotal", Value: cur + " " + money.Format(subtotal)}}
	if discount > 0 {
		rows = append(rows, line{Label: "Discount", Value: "- " + cur + " " + money.Format(discount)})
	}
	if tax > 0 {
		rows = append(rows, line{
			Label: fmt.Sprintf("Tax (%s%%)", money.FormatQuantity(d.TaxPercent)),
			Value: cur + " " + money.Format(tax),
		})
	}
	return append(rows, line{Label: "Grand Total", Value: cur + " " + money.Format(total), Bold: true})
}

// paymentLines shows the method always, the paid amount when supplied and the
// change only when positive.
func paymentLines(d Data, cur string) []line {
	rows := []line{{Label: "Payment", Value: strings.ToUpper(d.PaymentMethod)}}
	if d.AmountPaid != nil {
		rows = append(rows, line{Label: "Paid", Value: cur + " " + money.Format(*d.AmountPaid)})
	}
	if d.ChangeAmount > 0 {
		rows = append(rows, line{Label: "Change", Value: cur + " " + money.Format(d.ChangeAmount)})
	}
	return rows
}

// itemCells renders one item into its table cells. The rate cell is the line
// amount, quantity times unit price.
func itemCells(it Item) (name, qty, rate string) {
	qty = money.FormatQuantity(it.Quantity)
	if it.Unit != "" {
		qty += " " + it.Unit
	}
	return it.Name, qty, money.Format(it.Price * it.Quantity)
}

type logoImage struct {
	data      []byte
	imageType string
	w, h      float64
}

func loadLogo(path string) (*logoImage, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read logo: %w", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode logo %s: %w", path, err)
	}
	var imageType string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		imageType = "PNG"
	case ".jpg", ".jpeg":
		imageType = "JPG"
	default:
		return nil, fmt.Errorf("unsupported logo format: %s", path)
	}
	return &logoImage{data: b, imageType: imageType, w: float64(cfg.Width), h: float64(cfg.Height)}, nil
}

// fitBox scales (w, h) to fit inside (maxW, maxH) preserving aspect ratio.
func fitBox(w, h, maxW, maxH float64) (float64, float64) {
	s := math.Min(maxW/w, maxH/h)
	return w * s, h * s
}

// Build renders the receipt to PDF bytes. The barcode encodes on a background
// goroutine while layout proceeds; any encode, logo or drawing failure aborts
// the whole document. Rendering runs twice: a measure pass on an oversized
// page determines the content height, then the final page is created at
// exactly that height (a page cannot be resized once created).
func Build(data Data, opts Options) ([]byte, error) {
	data = data.withDefaults()
	opts = opts.withDefaults()
	if data.TransactionID == "" {
		return nil, fmt.Errorf("receipt: missing transaction id")
	}

	future := encodeBarcodeAsync(data.TransactionID)

	var qrPNG []byte
	if data.QRPayload != "" {
		var err error
		qrPNG, err = encodeQRPNG(data.QRPayload)
		if err != nil {
			return nil, err
		}
	}

	logo, err := loadLogo(opts.LogoPath)
	if err != nil {
		return nil, err
	}

	g := DefaultGeometry()

	measure := newDoc(g, mm(3000))
	height, err := render(measure, g, data, opts, future, qrPNG, logo)
	if err != nil {
		return nil, err
	}
	if measure.Err() {
		return nil, measure.Error()
	}

	final := newDoc(g, height)
	if _, err := render(final, g, data, opts, future, qrPNG, logo); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := final.Output(&buf); err != nil {
		return nil, fmt.Errorf("receipt: write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func newDoc(g Geometry, pageH float64) *gofpdf.Fpdf {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: g.PageW, Ht: pageH},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(g.Left, g.Top, g.Right)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetDrawColor(0, 0, 0)
	pdf.AddPage()
	return pdf
}

// render draws the full receipt with a single downward cursor and returns the
// trimmed page height: final y plus the bottom margin plus 16pt of feed room.
func render(pdf *gofpdf.Fpdf, g Geometry, data Data, opts Options, future *barcodeFuture, qrPNG []byte, logo *logoImage) (float64, error) {
	w := g.ContentW()
	y := g.Top

	if logo != nil {
		boxW, boxH := mm(30), mm(14)
		lw, lh := fitBox(logo.w, logo.h, boxW, boxH)
		imgOpt := gofpdf.ImageOptions{ImageType: logo.imageType}
		pdf.RegisterImageOptionsReader("logo", imgOpt, bytes.NewReader(logo.data))
		pdf.ImageOptions("logo", g.Left+(w-lw)/2, y+(boxH-lh)/2, lw, lh, false, imgOpt, 0, "")
		y += boxH + mm(3)
	}

	size := drawFit(pdf, strings.ToUpper(data.StoreName), g.Left, y, w,
		fitOpts{max: headMax, min: headMin, align: AlignCenter, bold: true})
	y += lineHeight(size)

	for _, sub := range []string{data.Tagline, data.Address, data.STRN} {
		if sub == "" {
			continue
		}
		size = drawFit(pdf, sub, g.Left, y, w,
			fitOpts{max: bodyMax - 1, min: bodyMin, align: AlignCenter})
		y += lineHeight(size) - 2
	}
	y += 2

	y += hr(pdf, g, y, true)

	y += rowLR(pdf, g, "Receipt #", data.TransactionID, y, bodyMax, bodyMin, false)
	y += rowLR(pdf, g, "Date", data.Timestamp.Format(dateLayout), y, bodyMax, bodyMin, false)
	y += rowLR(pdf, g, "Cashier "+data.Cashier, data.CustomerType, y, bodyMax, bodyMin, false)

	y += hr(pdf, g, y, true)
	y += rowIQR(pdf, g, "ITEM", "QTY", "RATE", y, true)
	y += hr(pdf, g, y, false)

	for _, it := range data.Items {
		name, qty, rate := itemCells(it)
		y += rowIQR(pdf, g, name, qty, rate, y, false)
	}

	y += hr(pdf, g, y, true)
	for _, row := range totalLines(data, opts.Currency) {
		max, min := bodyMax, bodyMin
		if row.Bold {
			max, min = totalMax, totalMin
		}
		y += rowLR(pdf, g, row.Label, row.Value, y, max, min, row.Bold)
	}
	y += hr(pdf, g, y, true)

	for _, row := range paymentLines(data, opts.Currency) {
		y += rowLR(pdf, g, row.Label, row.Value, y, bodyMax, bodyMin, false)
	}
	y += hr(pdf, g, y, true)

	if data.Promo != "" {
		size = drawFit(pdf, data.Promo, g.Left, y, w,
			fitOpts{max: bodyMax - 1, min: bodyMin, align: AlignCenter})
		y += lineHeight(size)
		y += hr(pdf, g, y, true)
	}

	barPNG, err := future.await()
	if err != nil {
		return 0, err
	}
	barW, barH := mm(48), mm(14)
	y += 2
	imgOpt := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("barcode", imgOpt, bytes.NewReader(barPNG))
	pdf.ImageOptions("barcode", g.Left+(w-barW)/2, y, barW, barH, false, imgOpt, 0, "")
	y += barH + 6

	size = drawFit(pdf, data.TransactionID, g.Left, y, w,
		fitOpts{max: 9.8, min: 8.0, align: AlignCenter})
	y += lineHeight(size)

	if qrPNG != nil {
		qrSize := mm(24)
		y += 2
		qrOpt := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("qr", qrOpt, bytes.NewReader(qrPNG))
		pdf.ImageOptions("qr", g.Left+(w-qrSize)/2, y, qrSize, qrSize, false, qrOpt, 0, "")
		y += qrSize + 4
	}

	size = drawFit(pdf, data.ThankYouMessage, g.Left, y, w,
		fitOpts{max: 10.6, min: 8.6, align: AlignCenter, bold: true})
	y += lineHeight(size)

	if data.FooterMessage != "" {
		size = drawFit(pdf, data.FooterMessage, g.Left, y, w,
			fitOpts{max: 9.8, min: 8.0, align: AlignCenter})
		y += lineHeight(size)
	}

	return y + g.Bottom + 16, nil
}
