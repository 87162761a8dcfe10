package service

import (
	"context"
	"strings"

	"github.com/acestudios/print-server/internal/config"
	"github.com/acestudios/print-server/pkg/apperror"
	"github.com/acestudios/print-server/pkg/escpos"
	"github.com/acestudios/print-server/pkg/money"
	"github.com/acestudios/print-server/pkg/printer"
	"github.com/acestudios/print-server/pkg/receipt"
)

// dispatcher is the slice of printer.Dispatcher the services need.
type dispatcher interface {
	Dispatch(ctx context.Context, printerName string, payload []byte, prefix, ext string) (*printer.Result, error)
}

// ReceiptService renders receipts and sends them to a printer.
type ReceiptService struct {
	dispatcher dispatcher
	cfg        *config.Config
}

func NewReceiptService(d dispatcher, cfg *config.Config) *ReceiptService {
	return &ReceiptService{dispatcher: d, cfg: cfg}
}

// PrintReceiptResult reports how far a multi-copy job got. Copies counts the
// receipts actually delivered; on a mid-run failure the earlier copies stand.
type PrintReceiptResult struct {
	Success  bool   `json:"success"`
	Printer  string `json:"printer"`
	Copies   int    `json:"copies"`
	Message  string `json:"message,omitempty"`
	TempFile string `json:"tempFile,omitempty"`
}

// PrintReceipt renders the payload once and dispatches it copy by copy. Each
// copy is an independent dispatch; the first failure stops the run and
// reports the retained temp file.
func (s *ReceiptService) PrintReceipt(ctx context.Context, printerName string, copies int, format string, data receipt.Data) (*PrintReceiptResult, error) {
	if printerName == "" {
		return nil, apperror.NewBadRequestError("printer name is required")
	}
	if copies < 1 {
		copies = 1
	}

	var (
		payload []byte
		ext     string
		err     error
	)
	switch format {
	case "escpos":
		payload = s.formatESCPOS(data)
		ext = "bin"
	case "", "pdf":
		payload, err = receipt.Build(data, receipt.Options{
			Currency: s.cfg.Receipt.Currency,
			LogoPath: s.cfg.Receipt.LogoPath,
		})
		if err != nil {
			return nil, err
		}
		ext = "pdf"
	default:
		return nil, apperror.NewBadRequestError("unsupported receipt format: " + format)
	}

	for i := 0; i < copies; i++ {
		res, err := s.dispatcher.Dispatch(ctx, printerName, payload, "receipt", ext)
		if err != nil {
			return nil, err
		}
		if !res.Success {
			return &PrintReceiptResult{
				Printer:  printerName,
				Copies:   i,
				Message:  res.Message,
				TempFile: res.TempFile,
			}, nil
		}
	}
	return &PrintReceiptResult{Success: true, Printer: printerName, Copies: copies}, nil
}

// formatESCPOS renders the receipt as an ESC/POS byte stream with the same
// business rules as the PDF path: discount only when positive, tax only when
// positive, payment method uppercased.
func (s *ReceiptService) formatESCPOS(data receipt.Data) []byte {
	cur := s.cfg.Receipt.Currency
	subtotal, discount, tax, total := data.Totals()

	doc := escpos.NewDocument(48)
	doc.SetAlign(escpos.AlignCenter).
		SetBold(true).SetFontSize(escpos.FontDouble).
		Text(strings.ToUpper(nonEmpty(data.StoreName, "MANPASAND GENERAL STORE"))).
		SetFontSize(escpos.FontNormal).SetBold(false).
		Text(nonEmpty(data.Tagline, "Quality - Service - Value")).
		Text(nonEmpty(data.Address, "Karachi, Pakistan"))
	if data.STRN != "" {
		doc.Text(data.STRN)
	}

	doc.SetAlign(escpos.AlignLeft).Separator('-')
	doc.KeyValue("Receipt #", data.TransactionID)
	if !data.Timestamp.IsZero() {
		doc.KeyValue("Date", data.Timestamp.Format("02/01/2006 3:04:05 PM"))
	}
	doc.KeyValue("Cashier "+data.Cashier, nonEmpty(data.CustomerType, "Walk-in"))

	doc.Separator('-')
	doc.SetBold(true).Row3("ITEM", "QTY", "RATE").SetBold(false)
	doc.Separator('-')
	for _, it := range data.Items {
		qty := money.FormatQuantity(it.Quantity)
		if it.Unit != "" {
			qty += " " + it.Unit
		}
		doc.Row3(it.Name, qty, money.Format(it.Price*it.Quantity))
	}

	doc.Separator('-')
	doc.KeyValue("Subtotal", cur+" "+money.Format(subtotal))
	if discount > 0 {
		doc.KeyValue("Discount", "- "+cur+" "+money.Format(discount))
	}
	if tax > 0 {
		doc.KeyValue("Tax", cur+" "+money.Format(tax))
	}
	doc.SetBold(true).KeyValue("Grand Total", cur+" "+money.Format(total)).SetBold(false)

	doc.Separator('-')
	doc.KeyValue("Payment", strings.ToUpper(nonEmpty(data.PaymentMethod, "CASH")))
	if data.AmountPaid != nil {
		doc.KeyValue("Paid", cur+" "+money.Format(*data.AmountPaid))
	}
	if data.ChangeAmount > 0 {
		doc.KeyValue("Change", cur+" "+money.Format(data.ChangeAmount))
	}

	doc.SetAlign(escpos.AlignCenter).LineFeed()
	if data.Promo != "" {
		doc.Text(data.Promo)
	}
	doc.SetBold(true).Text(nonEmpty(data.ThankYouMessage, "Thank you for shopping with us!")).SetBold(false)
	if data.FooterMessage != "" {
		doc.Text(data.FooterMessage)
	}
	doc.FeedLines(4).Cut()
	return doc.Bytes()
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
