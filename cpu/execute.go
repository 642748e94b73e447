package cpu

// execute dispatches a decoded instruction to the handler for its
// opcode. An opcode value outside the table, or a (funct3, funct7)
// combination not enumerated for it, is an illegal instruction.
func (c *CPU) execute(inst Instruction) error {
	switch inst.Opcode {
	case OpLoad:
		return c.execLoad(inst)
	case OpImm:
		return c.execOpImm(inst)
	case OpAUIPC:
		return c.execAUIPC(inst)
	case OpImm32:
		return c.execOpImm32(inst)
	case OpStore:
		return c.execStore(inst)
	case OpReg:
		return c.execOpReg(inst)
	case OpLUI:
		return c.execLUI(inst)
	case OpReg32:
		return c.execOpReg32(inst)
	case OpBranch:
		return c.execBranch(inst)
	case OpJALR:
		return c.execJALR(inst)
	case OpJAL:
		return c.execJAL(inst)
	default:
		return &IllegalInstruction{PC: inst.Addr, Instr: inst.Raw}
	}
}
