package request

import (
	"time"

	"github.com/acestudios/print-server/pkg/receipt"
	"github.com/acestudios/print-server/pkg/zpl"
)

// PrinterTarget names the OS printer a job goes to.
type PrinterTarget struct {
	Name string `json:"name" binding:"required"`
}

// PrintJob carries job-level options for a receipt print.
type PrintJob struct {
	Copies int    `json:"copies"`
	Format string `json:"format" binding:"omitempty,oneof=pdf escpos"`
}

// ReceiptItem is one sold line in the receipt payload.
type ReceiptItem struct {
	Name     string  `json:"name" binding:"required"`
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
	Price    float64 `json:"price"`
	Unit     string  `json:"unit"`
}

// ReceiptPayload mirrors the POS backend's receipt document. The server
// renders it as-is; when total is absent it derives from
// subtotal/discount/taxPercent.
type ReceiptPayload struct {
	TransactionID string        `json:"transactionId" binding:"required"`
	Timestamp     string        `json:"timestamp"`
	StoreName     string        `json:"storeName"`
	Tagline       string        `json:"tagline"`
	Address       string        `json:"address"`
	STRN          string        `json:"strn"`
	Cashier       string        `json:"cashier"`
	CustomerType  string        `json:"customerType"`
	Items         []ReceiptItem `json:"items"`
	Subtotal      float64       `json:"subtotal"`
	Discount      float64       `json:"discount"`
	TaxPercent    float64       `json:"taxPercent"`
	Total         *float64      `json:"total"`
	PaymentMethod string        `json:"paymentMethod"`
	AmountPaid    *float64      `json:"amountPaid"`
	ChangeAmount  float64       `json:"changeAmount"`
	Promo         string        `json:"promo"`
	ThankYou      string        `json:"thankYouMessage"`
	Footer        string        `json:"footerMessage"`
	QRPayload     string        `json:"qrPayload"`
}

// PrintReceiptRequest is the request body for POST /print-receipt.
type PrintReceiptRequest struct {
	Printer     PrinterTarget  `json:"printer" binding:"required"`
	Job         PrintJob       `json:"job"`
	ReceiptData ReceiptPayload `json:"receiptData" binding:"required"`
}

// ToDomain converts the wire payload into the renderer's data type. An
// unparseable timestamp is left zero so rendering falls back to "now".
func (p ReceiptPayload) ToDomain() receipt.Data {
	d := receipt.Data{
		TransactionID:   p.TransactionID,
		StoreName:       p.StoreName,
		Tagline:         p.Tagline,
		Address:         p.Address,
		STRN:            p.STRN,
		Cashier:         p.Cashier,
		CustomerType:    p.CustomerType,
		Subtotal:        p.Subtotal,
		Discount:        p.Discount,
		TaxPercent:      p.TaxPercent,
		Total:           p.Total,
		PaymentMethod:   p.PaymentMethod,
		AmountPaid:      p.AmountPaid,
		ChangeAmount:    p.ChangeAmount,
		Promo:           p.Promo,
		ThankYouMessage: p.ThankYou,
		FooterMessage:   p.Footer,
		QRPayload:       p.QRPayload,
	}
	if t, err := time.Parse(time.RFC3339, p.Timestamp); err == nil {
		d.Timestamp = t
	}
	for _, it := range p.Items {
		d.Items = append(d.Items, receipt.Item{
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
			Unit:     it.Unit,
		})
	}
	return d
}

// PrintLabelsRequest is the request body for POST /print-labels.
type PrintLabelsRequest struct {
	PrinterName   string          `json:"printerName" binding:"required"`
	Items         []zpl.LabelItem `json:"items" binding:"required,min=1,dive"`
	PaperSize     string          `json:"paperSize" binding:"omitempty,oneof=3x2inch 50x30mm 60x40mm"`
	DPI           int             `json:"dpi" binding:"omitempty,oneof=203 300"`
	Copies        int             `json:"copies" binding:"omitempty,min=1"`
	HumanReadable *bool           `json:"humanReadable"`
}

// GenerateZPLRequest is the request body for POST /generate-zpl. Same shape
// as a label print minus the printer.
type GenerateZPLRequest struct {
	Items         []zpl.LabelItem `json:"items" binding:"required,min=1,dive"`
	PaperSize     string          `json:"paperSize" binding:"omitempty,oneof=3x2inch 50x30mm 60x40mm"`
	DPI           int             `json:"dpi" binding:"omitempty,oneof=203 300"`
	Copies        int             `json:"copies" binding:"omitempty,min=1"`
	HumanReadable *bool           `json:"humanReadable"`
}

// ToOptions assembles the generator options. The human-readable line under
// the barcode defaults to on.
func (r GenerateZPLRequest) ToOptions() zpl.Options {
	return labelOptions(r.Items, r.PaperSize, r.DPI, r.Copies, r.HumanReadable)
}

// ToOptions assembles the generator options for a label print.
func (r PrintLabelsRequest) ToOptions() zpl.Options {
	return labelOptions(r.Items, r.PaperSize, r.DPI, r.Copies, r.HumanReadable)
}

func labelOptions(items []zpl.LabelItem, paper string, dpi, copies int, humanReadable *bool) zpl.Options {
	hr := true
	if humanReadable != nil {
		hr = *humanReadable
	}
	return zpl.Options{
		Items:         items,
		Paper:         zpl.Paper(paper),
		DPI:           dpi,
		Copies:        copies,
		HumanReadable: hr,
	}
}
