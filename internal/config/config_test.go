package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.App.Port != "3001" {
		t.Fatalf("default port = %q, want 3001", cfg.App.Port)
	}
	if cfg.Receipt.Currency != "PKR" {
		t.Fatalf("default currency = %q, want PKR", cfg.Receipt.Currency)
	}
	if cfg.Labels.Paper != "3x2inch" || cfg.Labels.DPI != 203 {
		t.Fatalf("label defaults = %q/%d", cfg.Labels.Paper, cfg.Labels.DPI)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LABEL_PAPER", "50x30mm")
	t.Setenv("LABEL_DPI", "300")
	t.Setenv("RECEIPT_CURRENCY", "USD")
	cfg := Load()
	if cfg.Labels.Paper != "50x30mm" || cfg.Labels.DPI != 300 {
		t.Fatalf("env override failed: %q/%d", cfg.Labels.Paper, cfg.Labels.DPI)
	}
	if cfg.Receipt.Currency != "USD" {
		t.Fatalf("currency override failed: %q", cfg.Receipt.Currency)
	}
}

func TestValidateRejectsBadPreset(t *testing.T) {
	cfg := Load()
	cfg.Labels.Paper = "a4"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unknown paper preset")
	}
	cfg = Load()
	cfg.Labels.DPI = 600
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unsupported dpi")
	}
	cfg = Load()
	cfg.Receipt.Currency = ""
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for empty currency")
	}
}
