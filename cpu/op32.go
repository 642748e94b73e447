package cpu

// execOpReg32 implements opcode 0x3B: the *W register-register ops.
// Every result is computed on 32-bit operands and sign-extended to 64
// bits, regardless of signedness.
func (c *CPU) execOpReg32(inst Instruction) error {
	rs1 := uint32(c.Regs.Read(inst.Rs1))
	rs2 := uint32(c.Regs.Read(inst.Rs2))

	var result32 int32
	switch inst.Funct7 {
	case 0x00, 0x20:
		switch inst.Funct3 {
		case 0x0: // ADDW / SUBW
			if inst.Funct7 == 0x20 {
				result32 = int32(rs1 - rs2)
			} else {
				result32 = int32(rs1 + rs2)
			}
		case 0x1: // SLLW
			if inst.Funct7 != 0 {
				return &IllegalInstruction{PC: inst.Addr, Instr: inst.Raw}
			}
			result32 = int32(rs1 << (rs2 & 0x1F))
		case 0x5: // SRLW / SRAW
			if inst.Funct7 == 0x20 {
				result32 = int32(rs1) >> (rs2 & 0x1F)
			} else {
				result32 = int32(rs1 >> (rs2 & 0x1F))
			}
		default:
			return &IllegalInstruction{PC: inst.Addr, Instr: inst.Raw}
		}
	case 0x01:
		v, ok := mulDiv32(inst.Funct3, rs1, rs2)
		if !ok {
			return &IllegalInstruction{PC: inst.Addr, Instr: inst.Raw}
		}
		result32 = v
	default:
		return &IllegalInstruction{PC: inst.Addr, Instr: inst.Raw}
	}

	c.Regs.Write(inst.Rd, uint64(int64(result32)))
	return nil
}

// mulDiv32 implements the M-extension *W ops: 32-bit operands, 32-bit
// result, sign-extended by the caller. Division-by-zero and signed
// overflow follow the same rules as the 64-bit forms, computed here at
// 32-bit width before sign-extension.
func mulDiv32(funct3 uint32, rs1, rs2 uint32) (int32, bool) {
	switch funct3 {
	case 0x0: // MULW
		return int32(rs1 * rs2), true
	case 0x4: // DIVW
		if rs2 == 0 {
			return -1, true
		}
		n, d := int32(rs1), int32(rs2)
		if n == minInt32 && d == -1 {
			return minInt32, true
		}
		return n / d, true
	case 0x5: // DIVUW
		if rs2 == 0 {
			return -1, true // all-ones
		}
		return int32(rs1 / rs2), true
	case 0x6: // REMW
		if rs2 == 0 {
			return int32(rs1), true
		}
		n, d := int32(rs1), int32(rs2)
		if n == minInt32 && d == -1 {
			return 0, true
		}
		return n % d, true
	case 0x7: // REMUW
		if rs2 == 0 {
			return int32(rs1), true
		}
		return int32(rs1 % rs2), true
	default:
		return 0, false
	}
}

const minInt32 = -1 << 31
