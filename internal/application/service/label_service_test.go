package service

import (
	"context"
	"strings"
	"testing"

	"github.com/acestudios/print-server/pkg/zpl"
)

func labelOptions() zpl.Options {
	return zpl.Options{
		Items: []zpl.LabelItem{{Name: "Chilli", Barcode: "123456789"}},
	}
}

func TestGenerateZPLUsesConfigDefaults(t *testing.T) {
	svc := NewLabelService(&fakeDispatcher{failFrom: -1}, testConfig())
	code, err := svc.GenerateZPL(labelOptions())
	if err != nil {
		t.Fatalf("GenerateZPL: %v", err)
	}
	// 3x2inch at 203dpi is 609 dots wide.
	if !strings.Contains(code, "^PW609") {
		t.Fatalf("config paper default not applied:\n%s", code)
	}
}

func TestGenerateZPLRequiresItems(t *testing.T) {
	svc := NewLabelService(&fakeDispatcher{failFrom: -1}, testConfig())
	if _, err := svc.GenerateZPL(zpl.Options{}); err == nil {
		t.Fatalf("expected error for empty item list")
	}
}

func TestPrintLabels(t *testing.T) {
	d := &fakeDispatcher{failFrom: -1}
	svc := NewLabelService(d, testConfig())

	o := labelOptions()
	o.Copies = 2
	res, err := svc.PrintLabels(context.Background(), "Zebra ZD220", o)
	if err != nil {
		t.Fatalf("PrintLabels: %v", err)
	}
	if !res.Success || res.Labels != 2 {
		t.Fatalf("result = %+v", res)
	}
	if d.calls != 1 {
		t.Fatalf("label batch must dispatch as one payload, got %d calls", d.calls)
	}
	if d.exts[0] != "zpl" {
		t.Fatalf("ext = %q, want zpl", d.exts[0])
	}
	if res.ZPLPreview == "" || len(res.ZPLPreview) > 1000 {
		t.Fatalf("preview missing or unbounded: %d bytes", len(res.ZPLPreview))
	}
}

func TestPrintLabelsFailureSurfacesTempFile(t *testing.T) {
	d := &fakeDispatcher{failFrom: 0}
	svc := NewLabelService(d, testConfig())

	res, err := svc.PrintLabels(context.Background(), "Zebra", labelOptions())
	if err != nil {
		t.Fatalf("PrintLabels: %v", err)
	}
	if res.Success {
		t.Fatalf("expected failure")
	}
	if res.TempFile == "" {
		t.Fatalf("retained temp file not surfaced: %+v", res)
	}
}

func TestPrintLabelsRequiresPrinter(t *testing.T) {
	svc := NewLabelService(&fakeDispatcher{failFrom: -1}, testConfig())
	if _, err := svc.PrintLabels(context.Background(), "", labelOptions()); err == nil {
		t.Fatalf("expected error for missing printer name")
	}
}
