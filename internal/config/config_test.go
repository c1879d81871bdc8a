package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Analysis.GaugeLengthMM != 80.0 {
		t.Errorf("Expected default gauge length 80, got %g", cfg.Analysis.GaugeLengthMM)
	}
	if cfg.Analysis.SmoothWindow != 11 {
		t.Errorf("Expected default smooth window 11, got %d", cfg.Analysis.SmoothWindow)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Server.Port)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default configuration must validate: %v", err)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("ECC_GAUGE_LENGTH_MM", "100")
	t.Setenv("ECC_SMOOTH_WINDOW", "7")
	t.Setenv("ECC_CRACK_TOLERANCE", "0.1")
	t.Setenv("PORT", "9090")

	cfg := Load()
	if cfg.Analysis.GaugeLengthMM != 100.0 {
		t.Errorf("Expected overridden gauge length 100, got %g", cfg.Analysis.GaugeLengthMM)
	}
	if cfg.Analysis.SmoothWindow != 7 {
		t.Errorf("Expected overridden window 7, got %d", cfg.Analysis.SmoothWindow)
	}
	if cfg.Analysis.CrackTolerance != 0.1 {
		t.Errorf("Expected overridden tolerance 0.1, got %g", cfg.Analysis.CrackTolerance)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("Expected overridden port 9090, got %s", cfg.Server.Port)
	}
}

func TestLoad_MalformedEnvFallsBack(t *testing.T) {
	t.Setenv("ECC_SMOOTH_WINDOW", "not-a-number")
	t.Setenv("ECC_GAUGE_LENGTH_MM", "")

	cfg := Load()
	if cfg.Analysis.SmoothWindow != 11 {
		t.Errorf("Malformed int should fall back to default, got %d", cfg.Analysis.SmoothWindow)
	}
	if cfg.Analysis.GaugeLengthMM != 80.0 {
		t.Errorf("Empty float should fall back to default, got %g", cfg.Analysis.GaugeLengthMM)
	}
}

func TestLoad_InvalidOverrideCaughtByValidate(t *testing.T) {
	t.Setenv("ECC_SMOOTH_WINDOW", "10")

	cfg := Load()
	if err := cfg.Validate(); err == nil {
		t.Error("Even smoothing window must fail validation")
	}
}
