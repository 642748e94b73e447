// Package disasm renders RV64IM instruction words as RISC-V assembler
// text. It deliberately shares the immediate formulas and opcode
// constants with package cpu (see immediates.go) so the two never drift
// apart on what a given word's immediates mean. The fixed register and
// funct fields are extracted here directly.
package disasm

import (
	"fmt"

	"riscv64emu/cpu"
)

// UnknownEncoding is returned for any opcode or funct3/funct7
// combination the disassembler does not recognize. Unknown encodings
// fail loudly rather than printing a placeholder.
type UnknownEncoding struct {
	Word uint32
}

func (e *UnknownEncoding) Error() string {
	return fmt.Sprintf("cannot disassemble instruction 0x%08x", e.Word)
}

func reg(i int) string {
	return cpu.ABINames[i]
}

// Disassemble returns the RISC-V assembler text for a single 32-bit
// instruction word. The halt sentinel is annotated as such. No PC is
// needed: none of this ISA subset's mnemonics need it to render their
// operands as text -- branch/JAL offsets are printed as signed deltas,
// not absolute targets.
func Disassemble(word uint32) (string, error) {
	if word == cpu.HaltWord {
		return "addi zero, zero, 0  ; halt", nil
	}

	opcode := word & 0x7F
	funct3 := (word >> 12) & 0x7
	funct7 := (word >> 25) & 0x7F
	rd := int((word >> 7) & 0x1F)
	rs1 := int((word >> 15) & 0x1F)
	rs2 := int((word >> 20) & 0x1F)

	switch opcode {
	case cpu.OpLoad:
		return disasmLoad(word, funct3, rd, rs1)
	case cpu.OpImm:
		return disasmOpImm(word, funct3, funct7, rd, rs1)
	case cpu.OpAUIPC:
		return fmt.Sprintf("auipc %s, 0x%x", reg(rd), uint32(cpu.ImmU(word))>>12), nil
	case cpu.OpImm32:
		return disasmOpImm32(word, funct3, funct7, rd, rs1)
	case cpu.OpStore:
		return disasmStore(word, funct3, rs1, rs2)
	case cpu.OpReg:
		return disasmOpReg(funct3, funct7, rd, rs1, rs2)
	case cpu.OpLUI:
		return fmt.Sprintf("lui %s, 0x%x", reg(rd), uint32(cpu.ImmU(word))>>12), nil
	case cpu.OpReg32:
		return disasmOpReg32(funct3, funct7, rd, rs1, rs2)
	case cpu.OpBranch:
		return disasmBranch(word, funct3, rs1, rs2)
	case cpu.OpJALR:
		return fmt.Sprintf("jalr %s, %d(%s)", reg(rd), cpu.ImmI(word), reg(rs1)), nil
	case cpu.OpJAL:
		return fmt.Sprintf("jal %s, %d", reg(rd), cpu.ImmJ(word)), nil
	default:
		return "", &UnknownEncoding{Word: word}
	}
}

func disasmLoad(word uint32, funct3 uint32, rd, rs1 int) (string, error) {
	imm := cpu.ImmI(word)
	names := map[uint32]string{0x0: "lb", 0x1: "lh", 0x2: "lw", 0x3: "ld", 0x4: "lbu", 0x5: "lhu", 0x6: "lwu"}
	mnem, ok := names[funct3]
	if !ok {
		return "", &UnknownEncoding{Word: word}
	}
	return fmt.Sprintf("%s %s, %d(%s)", mnem, reg(rd), imm, reg(rs1)), nil
}

func disasmStore(word uint32, funct3 uint32, rs1, rs2 int) (string, error) {
	imm := cpu.ImmS(word)
	names := map[uint32]string{0x0: "sb", 0x1: "sh", 0x2: "sw", 0x3: "sd"}
	mnem, ok := names[funct3]
	if !ok {
		return "", &UnknownEncoding{Word: word}
	}
	return fmt.Sprintf("%s %s, %d(%s)", mnem, reg(rs2), imm, reg(rs1)), nil
}

func disasmOpImm(word uint32, funct3, funct7 uint32, rd, rs1 int) (string, error) {
	imm := cpu.ImmI(word)
	shamt := (word >> 20) & 0x3F
	funct6 := (word >> 26) & 0x3F
	switch funct3 {
	case 0x0:
		return fmt.Sprintf("addi %s, %s, %d", reg(rd), reg(rs1), imm), nil
	case 0x1:
		return fmt.Sprintf("slli %s, %s, %d", reg(rd), reg(rs1), shamt), nil
	case 0x2:
		return fmt.Sprintf("slti %s, %s, %d", reg(rd), reg(rs1), imm), nil
	case 0x3:
		return fmt.Sprintf("sltiu %s, %s, %d", reg(rd), reg(rs1), imm), nil
	case 0x4:
		return fmt.Sprintf("xori %s, %s, %d", reg(rd), reg(rs1), imm), nil
	case 0x5:
		switch funct6 {
		case 0x00:
			return fmt.Sprintf("srli %s, %s, %d", reg(rd), reg(rs1), shamt), nil
		case 0x10:
			return fmt.Sprintf("srai %s, %s, %d", reg(rd), reg(rs1), shamt), nil
		}
		return "", &UnknownEncoding{Word: word}
	case 0x6:
		return fmt.Sprintf("ori %s, %s, %d", reg(rd), reg(rs1), imm), nil
	case 0x7:
		return fmt.Sprintf("andi %s, %s, %d", reg(rd), reg(rs1), imm), nil
	default:
		return "", &UnknownEncoding{Word: word}
	}
}

func disasmOpImm32(word uint32, funct3, funct7 uint32, rd, rs1 int) (string, error) {
	imm := cpu.ImmI(word)
	shamt := (word >> 20) & 0x1F
	funct6 := (word >> 26) & 0x3F
	switch funct3 {
	case 0x0:
		return fmt.Sprintf("addiw %s, %s, %d", reg(rd), reg(rs1), imm), nil
	case 0x1:
		return fmt.Sprintf("slliw %s, %s, %d", reg(rd), reg(rs1), shamt), nil
	case 0x5:
		switch funct6 {
		case 0x00:
			return fmt.Sprintf("srliw %s, %s, %d", reg(rd), reg(rs1), shamt), nil
		case 0x10:
			return fmt.Sprintf("sraiw %s, %s, %d", reg(rd), reg(rs1), shamt), nil
		}
		return "", &UnknownEncoding{Word: word}
	default:
		return "", &UnknownEncoding{Word: word}
	}
}

func disasmOpReg(funct3, funct7 uint32, rd, rs1, rs2 int) (string, error) {
	if funct7 == 0x01 {
		names := map[uint32]string{0x0: "mul", 0x1: "mulh", 0x2: "mulhsu", 0x3: "mulhu", 0x4: "div", 0x5: "divu", 0x6: "rem", 0x7: "remu"}
		mnem, ok := names[funct3]
		if !ok {
			return "", &UnknownEncoding{}
		}
		return fmt.Sprintf("%s %s, %s, %s", mnem, reg(rd), reg(rs1), reg(rs2)), nil
	}
	if funct7 != 0x00 && funct7 != 0x20 {
		return "", &UnknownEncoding{}
	}
	switch funct3 {
	case 0x0:
		if funct7 == 0x20 {
			return fmt.Sprintf("sub %s, %s, %s", reg(rd), reg(rs1), reg(rs2)), nil
		}
		return fmt.Sprintf("add %s, %s, %s", reg(rd), reg(rs1), reg(rs2)), nil
	case 0x1:
		return fmt.Sprintf("sll %s, %s, %s", reg(rd), reg(rs1), reg(rs2)), nil
	case 0x2:
		return fmt.Sprintf("slt %s, %s, %s", reg(rd), reg(rs1), reg(rs2)), nil
	case 0x3:
		return fmt.Sprintf("sltu %s, %s, %s", reg(rd), reg(rs1), reg(rs2)), nil
	case 0x4:
		return fmt.Sprintf("xor %s, %s, %s", reg(rd), reg(rs1), reg(rs2)), nil
	case 0x5:
		if funct7 == 0x20 {
			return fmt.Sprintf("sra %s, %s, %s", reg(rd), reg(rs1), reg(rs2)), nil
		}
		return fmt.Sprintf("srl %s, %s, %s", reg(rd), reg(rs1), reg(rs2)), nil
	case 0x6:
		return fmt.Sprintf("or %s, %s, %s", reg(rd), reg(rs1), reg(rs2)), nil
	case 0x7:
		return fmt.Sprintf("and %s, %s, %s", reg(rd), reg(rs1), reg(rs2)), nil
	}
	return "", &UnknownEncoding{}
}

func disasmOpReg32(funct3, funct7 uint32, rd, rs1, rs2 int) (string, error) {
	if funct7 == 0x01 {
		names := map[uint32]string{0x0: "mulw", 0x4: "divw", 0x5: "divuw", 0x6: "remw", 0x7: "remuw"}
		mnem, ok := names[funct3]
		if !ok {
			return "", &UnknownEncoding{}
		}
		return fmt.Sprintf("%s %s, %s, %s", mnem, reg(rd), reg(rs1), reg(rs2)), nil
	}
	switch funct3 {
	case 0x0:
		if funct7 == 0x20 {
			return fmt.Sprintf("subw %s, %s, %s", reg(rd), reg(rs1), reg(rs2)), nil
		}
		return fmt.Sprintf("addw %s, %s, %s", reg(rd), reg(rs1), reg(rs2)), nil
	case 0x1:
		return fmt.Sprintf("sllw %s, %s, %s", reg(rd), reg(rs1), reg(rs2)), nil
	case 0x5:
		if funct7 == 0x20 {
			return fmt.Sprintf("sraw %s, %s, %s", reg(rd), reg(rs1), reg(rs2)), nil
		}
		return fmt.Sprintf("srlw %s, %s, %s", reg(rd), reg(rs1), reg(rs2)), nil
	}
	return "", &UnknownEncoding{}
}

func disasmBranch(word uint32, funct3 uint32, rs1, rs2 int) (string, error) {
	offset := cpu.ImmB(word)
	names := map[uint32]string{0x0: "beq", 0x1: "bne", 0x4: "blt", 0x5: "bge", 0x6: "bltu", 0x7: "bgeu"}
	mnem, ok := names[funct3]
	if !ok {
		return "", &UnknownEncoding{Word: word}
	}
	return fmt.Sprintf("%s %s, %s, %d", mnem, reg(rs1), reg(rs2), offset), nil
}
