package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATA_PATH", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.RiskSKU != "SKU-19" {
		t.Errorf("RiskSKU = %s, want SKU-19", cfg.RiskSKU)
	}
	if cfg.ERPKind != "DYNAMICS" {
		t.Errorf("ERPKind = %s, want DYNAMICS", cfg.ERPKind)
	}
	if cfg.DefaultMarginPct != 22.0 {
		t.Errorf("DefaultMarginPct = %v, want 22.0", cfg.DefaultMarginPct)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATA_PATH", t.TempDir())
	t.Setenv("RISK_SKU", "SKU-07")
	t.Setenv("ERP_KIND", "SAP")
	t.Setenv("DEFAULT_MARGIN_PCT", "30.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.RiskSKU != "SKU-07" || cfg.ERPKind != "SAP" || cfg.DefaultMarginPct != 30.5 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestGetEnvFloatInvalidFallsBack(t *testing.T) {
	t.Setenv("DEFAULT_MARGIN_PCT", "not a number")
	if got := getEnvFloat("DEFAULT_MARGIN_PCT", 22.0); got != 22.0 {
		t.Errorf("getEnvFloat = %v, want fallback 22.0", got)
	}
}
