// Package loader places a raw flat binary image into a machine's DRAM.
// There is no object format to parse here: the input file is RV64
// machine code already, blitted verbatim at the bus base.
package loader

import (
	"fmt"
	"os"

	"riscv64emu/bus"
	"riscv64emu/cpu"
)

// LoadFile reads path and blits its contents into m's bus starting at
// bus.Base, then resets PC to the bus base ready for execution.
func LoadFile(m *cpu.CPU, path string) error {
	code, err := os.ReadFile(path) // #nosec G304 -- caller-supplied program path
	if err != nil {
		return fmt.Errorf("read program file %s: %w", path, err)
	}
	return LoadBytes(m, code)
}

// LoadBytes blits code into m's bus starting at bus.Base and resets PC.
func LoadBytes(m *cpu.CPU, code []byte) error {
	if len(code) > m.Bus.Size() {
		return fmt.Errorf("program is %d bytes, exceeds %d-byte DRAM window", len(code), m.Bus.Size())
	}
	m.Bus.LoadCode(code)
	m.PC = bus.Base
	return nil
}
