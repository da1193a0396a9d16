package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	configContent := `log:
  level: debug
  development: true

color:
  disabled: true

read:
  max_file_size_kb: 64
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "debug")
	}
	if !cfg.Log.Development {
		t.Error("Log.Development = false, want true")
	}
	if !cfg.Color.Disabled {
		t.Error("Color.Disabled = false, want true")
	}
	if cfg.Read.MaxFileSizeKB != 64 {
		t.Errorf("Read.MaxFileSizeKB = %d, want 64", cfg.Read.MaxFileSizeKB)
	}
	if !cfg.Debug() {
		t.Error("Debug() = false, want true")
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "minimal.yaml")

	if err := os.WriteFile(configPath, []byte("color:\n  disabled: false\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want default %q", cfg.Log.Level, "info")
	}
	if cfg.Read.MaxFileSizeKB != defaultMaxFileSizeKB {
		t.Errorf("Read.MaxFileSizeKB = %d, want default %d", cfg.Read.MaxFileSizeKB, defaultMaxFileSizeKB)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("Load() error = nil, want error for missing file")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Read.MaxFileSizeKB != defaultMaxFileSizeKB {
		t.Errorf("Default().Read.MaxFileSizeKB = %d, want %d", cfg.Read.MaxFileSizeKB, defaultMaxFileSizeKB)
	}
	if cfg.Debug() {
		t.Error("Default().Debug() = true, want false")
	}
}
