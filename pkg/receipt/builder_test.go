package receipt

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func sampleData() Data {
	return Data{
		TransactionID: "TXN-20250831-0001",
		Timestamp:     time.Date(2025, 8, 31, 18, 30, 0, 0, time.UTC),
		Cashier:       "Ali",
		Items: []Item{
			{Name: "Milk", Quantity: 3, Price: 120},
			{Name: "Bread", Quantity: 1, Price: 640},
		},
		Subtotal:      1000,
		TaxPercent:    5,
		PaymentMethod: "cash",
	}
}

func TestTotalsDerivation(t *testing.T) {
	d := sampleData()
	subtotal, discount, tax, total := d.Totals()
	if subtotal != 1000 || discount != 0 {
		t.Fatalf("subtotal/discount = %v/%v, want 1000/0", subtotal, discount)
	}
	if tax != 50 {
		t.Fatalf("tax = %v, want 50", tax)
	}
	if total != 1050 {
		t.Fatalf("total = %v, want 1050", total)
	}
}

func TestTotalsPreferSuppliedTotal(t *testing.T) {
	d := sampleData()
	supplied := 1049.0 // rounding adjustment from the POS backend
	d.Total = &supplied
	_, _, tax, total := d.Totals()
	if tax != 50 {
		t.Fatalf("tax = %v, want 50 (still derived)", tax)
	}
	if total != 1049 {
		t.Fatalf("total = %v, want supplied 1049", total)
	}
	rows := totalLines(d, "PKR")
	if got := rows[len(rows)-1].Value; got != "PKR 1,049.00" {
		t.Fatalf("grand total = %q, want PKR 1,049.00", got)
	}
}

func TestTotalsNeverNegative(t *testing.T) {
	d := Data{Subtotal: 100, Discount: 500}
	_, _, _, total := d.Totals()
	if total != 0 {
		t.Fatalf("total = %v, want clamp to 0", total)
	}
}

func TestTotalLinesHideZeroDiscountAndTax(t *testing.T) {
	d := sampleData()
	d.TaxPercent = 0
	labels := lineLabels(totalLines(d, "PKR"))
	if contains(labels, "Discount") {
		t.Fatalf("zero discount must not render a Discount row: %v", labels)
	}
	for _, l := range labels {
		if strings.HasPrefix(l, "Tax") {
			t.Fatalf("zero tax must not render a Tax row: %v", labels)
		}
	}
	if labels[len(labels)-1] != "Grand Total" {
		t.Fatalf("Grand Total must close the block: %v", labels)
	}
}

func TestTotalLinesShowDiscountAndTax(t *testing.T) {
	d := sampleData()
	d.Discount = 100
	rows := totalLines(d, "PKR")
	labels := lineLabels(rows)
	if !contains(labels, "Discount") {
		t.Fatalf("positive discount missing: %v", labels)
	}
	if !contains(labels, "Tax (5%)") {
		t.Fatalf("tax row missing or mislabeled: %v", labels)
	}
	// tax = (1000-100)*5% = 45, total = 945
	if rows[len(rows)-1].Value != "PKR 945.00" {
		t.Fatalf("grand total = %q, want PKR 945.00", rows[len(rows)-1].Value)
	}
	for _, r := range rows {
		if r.Label == "Discount" && r.Value != "- PKR 100.00" {
			t.Fatalf("discount value = %q, want - PKR 100.00", r.Value)
		}
	}
}

func TestPaymentLines(t *testing.T) {
	d := sampleData()
	paid := 1100.0
	d.AmountPaid = &paid
	d.ChangeAmount = 50
	rows := paymentLines(d, "PKR")
	if rows[0].Value != "CASH" {
		t.Fatalf("payment method not uppercased: %q", rows[0].Value)
	}
	if !contains(lineLabels(rows), "Change") {
		t.Fatalf("positive change missing: %v", rows)
	}

	d.ChangeAmount = 0
	rows = paymentLines(d, "PKR")
	if contains(lineLabels(rows), "Change") {
		t.Fatalf("zero change must not render: %v", rows)
	}
}

func TestItemCellsRate(t *testing.T) {
	name, qty, rate := itemCells(Item{Name: "Milk", Quantity: 3, Price: 120})
	if name != "Milk" || qty != "3" {
		t.Fatalf("cells = %q/%q", name, qty)
	}
	if rate != "360.00" {
		t.Fatalf("rate = %q, want 360.00 (quantity x price)", rate)
	}
}

func TestBuildProducesPDF(t *testing.T) {
	out, err := Build(sampleData(), Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output is not a PDF (got %q...)", out[:8])
	}
}

func TestBuildEmptyItems(t *testing.T) {
	d := sampleData()
	d.Items = nil
	d.Subtotal = 0
	out, err := Build(d, Options{})
	if err != nil {
		t.Fatalf("Build with no items: %v", err)
	}
	if len(out) == 0 {
		t.Fatalf("empty document")
	}
}

func TestBuildWithQR(t *testing.T) {
	d := sampleData()
	d.QRPayload = "https://example.com/r/TXN-20250831-0001"
	if _, err := Build(d, Options{}); err != nil {
		t.Fatalf("Build with qr: %v", err)
	}
}

func TestBuildRequiresTransactionID(t *testing.T) {
	d := sampleData()
	d.TransactionID = ""
	if _, err := Build(d, Options{}); err == nil {
		t.Fatalf("expected error for missing transaction id")
	}
}

func lineLabels(rows []line) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Label
	}
	return out
}

func contains(ss []string, want string) bool {
	for _, s := range ss {
		if s == want {
			return true
		}
	}
	return false
}
