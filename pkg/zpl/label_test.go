package zpl

import (
	"strings"
	"testing"
)

func sampleItem() LabelItem {
	price := 450.0
	return LabelItem{
		ID:             "p-1",
		Name:           "Red Chilli",
		Barcode:        "8964000112345",
		NetWeight:      "200g",
		Price:          &price,
		PackageDateISO: "2025-08-30",
		ExpiryDateISO:  "2026-02-28",
	}
}

func TestGenerateIdempotent(t *testing.T) {
	o := Options{Items: []LabelItem{sampleItem()}, Paper: Paper50x30mm, DPI: DPI203, Copies: 2}
	a, err := Generate(o)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := Generate(o)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if a != b {
		t.Fatalf("identical inputs produced different output")
	}
}

func TestGenerateCopies(t *testing.T) {
	o := Options{Items: []LabelItem{sampleItem(), sampleItem()}, Copies: 3}
	out, err := Generate(o)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := strings.Count(out, "^XA"); got != 6 {
		t.Fatalf("block count = %d, want items x copies = 6", got)
	}
	if got := strings.Count(out, "^XZ"); got != 6 {
		t.Fatalf("unbalanced blocks: %d ^XZ", got)
	}
}

func TestGenerateDates(t *testing.T) {
	it := sampleItem()
	out, err := Generate(Options{Items: []LabelItem{it}})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(out, "PKG: 30/08/2025") {
		t.Fatalf("package date not rendered DD/MM/YYYY:\n%s", out)
	}
	if !strings.Contains(out, "EXP: 28/02/2026") {
		t.Fatalf("expiry date not rendered DD/MM/YYYY:\n%s", out)
	}

	it.PackageDateISO = ""
	it.ExpiryDateISO = "not-a-date"
	out, err = Generate(Options{Items: []LabelItem{it}})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if strings.Count(out, "__/__/____") != 2 {
		t.Fatalf("missing dates must render the blank placeholder:\n%s", out)
	}
}

func TestPricePlacement(t *testing.T) {
	short := sampleItem()
	short.Name = "Chilli" // under 20 chars, price shares the title line
	out, err := Generate(Options{Items: []LabelItem{short}})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	titleIdx := strings.Index(out, "^FDCHILLI^FS")
	priceIdx := strings.Index(out, "^FDRS 450^FS")
	metaIdx := strings.Index(out, "^FDNet: 200g^FS")
	if titleIdx < 0 || priceIdx < 0 || metaIdx < 0 {
		t.Fatalf("expected fields missing:\n%s", out)
	}
	if priceIdx > metaIdx {
		t.Fatalf("short name must keep price on the title line:\n%s", out)
	}

	long := sampleItem()
	long.Name = "Premium Extra Hot Red Chilli Powder"
	out, err = Generate(Options{Items: []LabelItem{long}})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	priceIdx = strings.Index(out, "^FDRS 450^FS")
	metaIdx = strings.Index(out, "^FDNet: 200g^FS")
	if priceIdx < metaIdx {
		t.Fatalf("long name must push price to the meta line:\n%s", out)
	}
}

func TestEscape(t *testing.T) {
	if got := Escape(`A^B~C\D`); got != `A\^B\~C\\D` {
		t.Fatalf("Escape = %q", got)
	}
}

func TestDimensions(t *testing.T) {
	if w, h := Dimensions(Paper3x2Inch, DPI203); w != 609 || h != 406 {
		t.Fatalf("3x2inch@203 = %dx%d, want 609x406", w, h)
	}
	if w, h := Dimensions(Paper50x30mm, DPI203); w != 400 || h != 240 {
		t.Fatalf("50x30mm@203 = %dx%d, want 400x240", w, h)
	}
	if w, h := Dimensions(Paper60x40mm, DPI300); w != 709 || h != 472 {
		t.Fatalf("60x40mm@300 = %dx%d, want 709x472", w, h)
	}
}

func TestGenerateRejectsBadOptions(t *testing.T) {
	if _, err := Generate(Options{Paper: "a4"}); err == nil {
		t.Fatalf("expected error for unknown paper preset")
	}
	if _, err := Generate(Options{DPI: 600}); err == nil {
		t.Fatalf("expected error for unsupported dpi")
	}
}

func TestBarcodeClearOfDates(t *testing.T) {
	l := layoutFor(DPI203)
	metaY := l.marginY + l.lineHeight + l.lineSpacing
	datesY := metaY + l.lineHeight + 2*l.lineSpacing
	barcodeY := datesY + l.lineHeight + 3*l.lineSpacing
	if barcodeY <= datesY+l.lineHeight {
		t.Fatalf("barcode at %d overlaps dates row ending %d", barcodeY, datesY+l.lineHeight)
	}
}
