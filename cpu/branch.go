package cpu

// execBranch implements opcode 0x63 (BEQ/BNE/BLT/BGE/BLTU/BGEU). The
// branch target is PC-relative; PC has already advanced past this
// instruction by the time execute runs, so the base is (PC-4).
func (c *CPU) execBranch(inst Instruction) error {
	rs1 := c.Regs.Read(inst.Rs1)
	rs2 := c.Regs.Read(inst.Rs2)

	var taken bool
	switch inst.Funct3 {
	case 0x0: // BEQ
		taken = rs1 == rs2
	case 0x1: // BNE
		taken = rs1 != rs2
	case 0x4: // BLT
		taken = int64(rs1) < int64(rs2)
	case 0x5: // BGE
		taken = int64(rs1) >= int64(rs2)
	case 0x6: // BLTU
		taken = rs1 < rs2
	case 0x7: // BGEU
		taken = rs1 >= rs2
	default:
		return &IllegalInstruction{PC: inst.Addr, Instr: inst.Raw}
	}

	if taken {
		c.PC = inst.Addr + uint64(ImmB(inst.Raw))
	}
	return nil
}

// execJALR implements opcode 0x67: rd = PC (the address of the
// following instruction, i.e. the already-advanced PC), then
// PC = (x[rs1] + I-imm) & ~1.
func (c *CPU) execJALR(inst Instruction) error {
	target := (c.Regs.Read(inst.Rs1) + uint64(ImmI(inst.Raw))) &^ 1
	c.Regs.Write(inst.Rd, c.PC)
	c.PC = target
	return nil
}

// execJAL implements opcode 0x6F: rd = PC (address of the following
// instruction), then PC = (PC-4) + J-imm.
func (c *CPU) execJAL(inst Instruction) error {
	c.Regs.Write(inst.Rd, c.PC)
	c.PC = inst.Addr + uint64(ImmJ(inst.Raw))
	return nil
}
