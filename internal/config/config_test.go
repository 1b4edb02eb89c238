package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestEmptyAnalysisDefaults(t *testing.T) {
	cfg := EmptyAnalysis()
	if got := cfg.GetDefaultEpsilonMeters(); got != 50 {
		t.Errorf("GetDefaultEpsilonMeters = %g, want 50", got)
	}
	if got := cfg.GetDefaultMinPoints(); got != 10 {
		t.Errorf("GetDefaultMinPoints = %d, want 10", got)
	}
	if got := cfg.GetDefaultYear(); got != 0 {
		t.Errorf("GetDefaultYear = %d, want 0 (current year)", got)
	}
}

func TestLoadPartialConfig(t *testing.T) {
	path := writeConfig(t, "analysis.json", `{"default_epsilon_meters": 75.5, "default_year": 2025}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.GetDefaultEpsilonMeters(); got != 75.5 {
		t.Errorf("GetDefaultEpsilonMeters = %g, want 75.5", got)
	}
	// Omitted field keeps the built-in default.
	if got := cfg.GetDefaultMinPoints(); got != 10 {
		t.Errorf("GetDefaultMinPoints = %d, want 10", got)
	}
	if got := cfg.GetDefaultYear(); got != 2025 {
		t.Errorf("GetDefaultYear = %d, want 2025", got)
	}
}

func TestLoadRejectsNonJSONExtension(t *testing.T) {
	path := writeConfig(t, "analysis.yaml", `{}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected extension error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected stat error")
	}
}

func TestValidate(t *testing.T) {
	bad := -1.0
	cfg := &Analysis{DefaultEpsilonMeters: &bad}
	if err := cfg.Validate(); err == nil {
		t.Error("negative epsilon should not validate")
	}

	zero := 0
	cfg = &Analysis{DefaultMinPoints: &zero}
	if err := cfg.Validate(); err == nil {
		t.Error("zero min points should not validate")
	}

	year := 1800
	cfg = &Analysis{DefaultYear: &year}
	if err := cfg.Validate(); err == nil {
		t.Error("implausible year should not validate")
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	path := writeConfig(t, "analysis.json", `{"default_min_points": 0}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}
