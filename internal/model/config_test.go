package model

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should yield defaults, got error: %v", err)
	}
	if cfg.Display.PageSize != 20 {
		t.Errorf("default page size = %d, want 20", cfg.Display.PageSize)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("default log level = %q, want info", cfg.Log.Level)
	}
}

func TestLoadConfigPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "display:\n  page_size: 50\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	if cfg.Display.PageSize != 50 {
		t.Errorf("page size = %d, want 50", cfg.Display.PageSize)
	}
	// Unset keys still resolve to defaults.
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q, want info", cfg.Log.Level)
	}
}

func TestLoadConfigRejectsInvalidPageSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("display:\n  page_size: -5\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	if cfg.Display.PageSize != 20 {
		t.Errorf("page size = %d, want fallback 20", cfg.Display.PageSize)
	}
}

func TestSaveAndReloadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	in := &AppConfig{
		DatabasePath: "/tmp/custom.db",
		Display:      DisplayConfig{Theme: "default", PageSize: 30},
		Log:          LogConfig{Level: "debug", File: "/tmp/app.log"},
	}
	if err := SaveConfig(path, in); err != nil {
		t.Fatalf("saving config: %v", err)
	}

	out, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("reloading config: %v", err)
	}
	if out.DatabasePath != in.DatabasePath {
		t.Errorf("database path = %q, want %q", out.DatabasePath, in.DatabasePath)
	}
	if out.Display.PageSize != 30 {
		t.Errorf("page size = %d, want 30", out.Display.PageSize)
	}
	if out.Log.Level != "debug" || out.Log.File != "/tmp/app.log" {
		t.Errorf("log config = %+v", out.Log)
	}
}
