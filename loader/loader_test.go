package loader_test

import (
	"os"
	"path/filepath"
	"testing"

	"riscv64emu/bus"
	"riscv64emu/cpu"
	"riscv64emu/loader"
)

func TestLoadBytesBlitsAndResetsPC(t *testing.T) {
	b := bus.NewDefault()
	m := cpu.New(b)
	m.PC = 0xdeadbeef

	code := []byte{0x13, 0x00, 0x00, 0x00} // HaltWord, little-endian
	if err := loader.LoadBytes(m, code); err != nil {
		t.Fatalf("LoadBytes failed: %v", err)
	}
	if m.PC != bus.Base {
		t.Errorf("PC = 0x%x, want bus.Base", m.PC)
	}

	word, err := m.Bus.Load32(bus.Base)
	if err != nil {
		t.Fatalf("Load32 failed: %v", err)
	}
	if word != cpu.HaltWord {
		t.Errorf("word at base = 0x%08x, want HaltWord", word)
	}
}

func TestLoadBytesRejectsOversizedImage(t *testing.T) {
	b := bus.New(16)
	m := cpu.New(b)

	if err := loader.LoadBytes(m, make([]byte, 32)); err == nil {
		t.Fatal("expected an error for an image larger than the DRAM window")
	}
}

func TestLoadFileReadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "program.bin")
	if err := os.WriteFile(path, []byte{0x13, 0x00, 0x00, 0x00}, 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	b := bus.NewDefault()
	m := cpu.New(b)
	if err := loader.LoadFile(m, path); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if m.PC != bus.Base {
		t.Errorf("PC = 0x%x, want bus.Base", m.PC)
	}
}
