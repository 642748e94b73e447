package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"riscv64emu/bus"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Execution.DRAMSize != bus.DefaultDRAMSize {
		t.Errorf("DRAMSize = %d, want %d", cfg.Execution.DRAMSize, bus.DefaultDRAMSize)
	}
	if cfg.Execution.MaxCycles != 0 {
		t.Errorf("MaxCycles = %d, want 0 (unbounded)", cfg.Execution.MaxCycles)
	}
	if cfg.Execution.ResetPC != fmt.Sprintf("0x%x", bus.Base) {
		t.Errorf("ResetPC = %s, want 0x%x", cfg.Execution.ResetPC, bus.Base)
	}
	if cfg.Debugger.HistorySize != 1000 {
		t.Errorf("HistorySize = %d, want 1000", cfg.Debugger.HistorySize)
	}
	if cfg.API.Port != 8080 {
		t.Errorf("API.Port = %d, want 8080", cfg.API.Port)
	}
	if cfg.API.Enabled {
		t.Error("API.Enabled should default to false")
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()
	if path == "" {
		t.Fatal("GetConfigPath returned empty string")
	}
	if filepath.Base(path) != "config.toml" {
		t.Errorf("expected path to end with config.toml, got %s", path)
	}
}

func TestGetLogPath(t *testing.T) {
	path := GetLogPath()
	if path == "" {
		t.Fatal("GetLogPath returned empty string")
	}
	if runtime.GOOS == "darwin" || runtime.GOOS == "linux" {
		if filepath.Base(path) != "logs" {
			t.Errorf("expected path to end with logs, got %s", path)
		}
	}
}

func TestSaveAndLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "test_config.toml")

	cfg := DefaultConfig()
	cfg.Execution.MaxCycles = 5_000_000
	cfg.Trace.EnableInstructions = true
	cfg.Debugger.HistorySize = 500
	cfg.API.Port = 9090

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.Execution.MaxCycles != 5_000_000 {
		t.Errorf("MaxCycles = %d, want 5000000", loaded.Execution.MaxCycles)
	}
	if !loaded.Trace.EnableInstructions {
		t.Error("expected EnableInstructions=true")
	}
	if loaded.Debugger.HistorySize != 500 {
		t.Errorf("HistorySize = %d, want 500", loaded.Debugger.HistorySize)
	}
	if loaded.API.Port != 9090 {
		t.Errorf("API.Port = %d, want 9090", loaded.API.Port)
	}
}

func TestEntryPC(t *testing.T) {
	cfg := DefaultConfig()
	pc, err := cfg.EntryPC()
	if err != nil {
		t.Fatalf("EntryPC failed: %v", err)
	}
	if pc != bus.Base {
		t.Errorf("EntryPC = 0x%x, want bus.Base 0x%x", pc, bus.Base)
	}

	cfg.Execution.ResetPC = "0x80001000"
	pc, err = cfg.EntryPC()
	if err != nil {
		t.Fatalf("EntryPC failed: %v", err)
	}
	if pc != 0x80001000 {
		t.Errorf("EntryPC = 0x%x, want 0x80001000", pc)
	}

	cfg.Execution.Entry = "2147488768" // decimal, overrides ResetPC
	pc, err = cfg.EntryPC()
	if err != nil {
		t.Fatalf("EntryPC failed: %v", err)
	}
	if pc != 2147488768 {
		t.Errorf("EntryPC = %d, want 2147488768 (Entry overrides ResetPC)", pc)
	}

	cfg.Execution.Entry = "not-an-address"
	if _, err := cfg.EntryPC(); err == nil {
		t.Error("expected error for invalid entry address")
	}
}

func TestLoadNonExistentReturnsDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nonexistent.toml")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom should not error on a missing file: %v", err)
	}
	if cfg.Execution.MaxCycles != 0 {
		t.Error("expected default config when file doesn't exist")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.toml")
	invalid := "[execution]\nmax_cycles = \"not a number\"\n"
	if err := os.WriteFile(configPath, []byte(invalid), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	if _, err := LoadFrom(configPath); err == nil {
		t.Error("expected error loading invalid TOML")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "subdir1", "subdir2", "config.toml")

	if err := DefaultConfig().SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}
}
