package common

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	if cfg.Database.Path != "invoices.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.OCR.Tesseract != "tesseract" || cfg.OCR.Language != "eng" || cfg.OCR.PSM != 6 {
		t.Errorf("OCR defaults = %+v", cfg.OCR)
	}
	if cfg.Batch.Workers != 4 || cfg.Batch.ProcessTimeout != 2*time.Minute {
		t.Errorf("Batch defaults = %+v", cfg.Batch)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("INVOICE_DB", "/data/inv.db")
	t.Setenv("TESSERACT_PSM", "4")
	t.Setenv("OCR_ENHANCE", "false")
	t.Setenv("BATCH_PROCESS_TIMEOUT", "30s")

	cfg := LoadConfig()
	if cfg.Database.Path != "/data/inv.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.OCR.PSM != 4 {
		t.Errorf("PSM = %d", cfg.OCR.PSM)
	}
	if cfg.OCR.Enhance {
		t.Error("Enhance should be disabled")
	}
	if cfg.Batch.ProcessTimeout != 30*time.Second {
		t.Errorf("ProcessTimeout = %v", cfg.Batch.ProcessTimeout)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := LoadConfig()
	cfg.Batch.Workers = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero workers")
	}
}
