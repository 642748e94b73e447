package cpu

// Opcode values (bits [6:0] of the instruction word).
const (
	OpLoad    = 0x03
	OpImm     = 0x13
	OpAUIPC   = 0x17
	OpImm32   = 0x1B
	OpStore   = 0x23
	OpReg     = 0x33
	OpLUI     = 0x37
	OpReg32   = 0x3B
	OpBranch  = 0x63
	OpJALR    = 0x67
	OpJAL     = 0x6F
)

// HaltWord is the canonical NOP ("ADDI x0, x0, 0") used as the stop
// sentinel for this interpreter. It is not part of the RISC-V ISA's
// own semantics.
const HaltWord uint32 = 0x0000_0013

// Instruction is a decoded instruction word with its fixed fields
// already extracted. Immediates are decoded lazily by the execute
// handlers via the Imm* helpers in immediates.go, since which format applies
// depends on the opcode.
type Instruction struct {
	Raw    uint32
	Addr   uint64
	Opcode uint32
	Funct3 uint32
	Funct7 uint32
	Rd     int
	Rs1    int
	Rs2    int
}

// Decode extracts the fixed bit fields common to every RV64 instruction
// format. It does not validate the opcode; that happens in execute,
// where an unrecognized (opcode, funct3, funct7) triple faults.
func Decode(word uint32, addr uint64) Instruction {
	return Instruction{
		Raw:    word,
		Addr:   addr,
		Opcode: word & 0x7F,
		Funct3: (word >> 12) & 0x7,
		Funct7: (word >> 25) & 0x7F,
		Rd:     int((word >> 7) & 0x1F),
		Rs1:    int((word >> 15) & 0x1F),
		Rs2:    int((word >> 20) & 0x1F),
	}
}
