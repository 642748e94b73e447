// Package config loads the interpreter's TOML configuration, layering
// file defaults under command-line flag overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/BurntSushi/toml"

	"riscv64emu/bus"
)

// Config is the interpreter's on-disk configuration.
type Config struct {
	Execution struct {
		DRAMSize  int    `toml:"dram_size"`
		MaxCycles uint64 `toml:"max_cycles"` // 0 = unbounded
		ResetPC   string `toml:"reset_pc"`
		Entry     string `toml:"entry"` // overrides ResetPC when non-empty
	} `toml:"execution"`

	Trace struct {
		EnableInstructions bool   `toml:"enable_instructions"`
		EnableRegisters    bool   `toml:"enable_registers"`
		OutputFile         string `toml:"output_file"`
	} `toml:"trace"`

	Debugger struct {
		HistorySize  int  `toml:"history_size"`
		StartAttached bool `toml:"start_attached"`
	} `toml:"debugger"`

	API struct {
		Enabled bool `toml:"enabled"`
		Port    int  `toml:"port"`
	} `toml:"api"`
}

// DefaultConfig mirrors the core's own reset values: a 128 MiB DRAM
// window starting at the bus base, no cycle cap.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.DRAMSize = bus.DefaultDRAMSize
	cfg.Execution.MaxCycles = 0
	cfg.Execution.ResetPC = fmt.Sprintf("0x%x", bus.Base)
	cfg.Execution.Entry = ""

	cfg.Trace.EnableInstructions = false
	cfg.Trace.EnableRegisters = false
	cfg.Trace.OutputFile = "trace.log"

	cfg.Debugger.HistorySize = 1000
	cfg.Debugger.StartAttached = false

	cfg.API.Enabled = false
	cfg.API.Port = 8080

	return cfg
}

// GetConfigPath returns the platform-specific config file path,
// creating its directory if needed.
func GetConfigPath() string {
	return platformPath("config.toml", func(base string) string {
		return filepath.Join(base, "rv64emu")
	})
}

// GetLogPath returns the platform-specific log directory.
func GetLogPath() string {
	return platformPath("logs", func(base string) string {
		return filepath.Join(base, "rv64emu", "logs")
	})
}

func platformPath(fallback string, dirFor func(base string) string) string {
	var dir string

	switch runtime.GOOS {
	case "windows":
		base := os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		dir = dirFor(base)
	case "darwin", "linux":
		home, err := os.UserHomeDir()
		if err != nil {
			return fallback
		}
		dir = dirFor(filepath.Join(home, ".config"))
	default:
		return fallback
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fallback
	}
	if fallback == "config.toml" {
		return filepath.Join(dir, "config.toml")
	}
	return dir
}

// EntryPC resolves the reset program counter: Entry overrides ResetPC
// when non-empty, and an empty ResetPC falls back to the bus's own
// default base address. Both fields accept "0x"-prefixed hex or plain
// decimal.
func (c *Config) EntryPC() (uint64, error) {
	raw := c.Execution.ResetPC
	if c.Execution.Entry != "" {
		raw = c.Execution.Entry
	}
	if raw == "" {
		return bus.Base, nil
	}

	s := raw
	base := 10
	if len(s) > 2 && (s[0:2] == "0x" || s[0:2] == "0X") {
		s = s[2:]
		base = 16
	}
	pc, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid entry address %q: %w", raw, err)
	}
	return pc, nil
}

// Load reads configuration from the default path, falling back to
// defaults if the file does not exist.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom reads configuration from path, overlaying it onto defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- caller-supplied config path
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
