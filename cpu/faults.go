package cpu

import "fmt"

// IllegalInstruction reports an opcode, or a (funct3, funct7) combination
// within it, that the decoder does not recognize, including a
// shift-immediate with reserved bits set.
type IllegalInstruction struct {
	PC    uint64
	Instr uint32
}

func (e *IllegalInstruction) Error() string {
	return fmt.Sprintf("illegal instruction 0x%08x at PC=0x%016x", e.Instr, e.PC)
}

// FetchFault reports a fetch whose bytes lie outside DRAM. Carries the
// same information as a bus.AccessFault but is raised from the fetch
// stage so callers can tell it apart from a load/store fault mid-execute.
type FetchFault struct {
	PC  uint64
	Err error
}

func (e *FetchFault) Error() string {
	return fmt.Sprintf("fetch failed at PC=0x%016x: %v", e.PC, e.Err)
}

func (e *FetchFault) Unwrap() error { return e.Err }
