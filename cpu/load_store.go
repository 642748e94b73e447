package cpu

// execLoad implements opcode 0x03 (LB/LH/LW/LD/LBU/LHU/LWU).
func (c *CPU) execLoad(inst Instruction) error {
	addr := c.Regs.Read(inst.Rs1) + uint64(ImmI(inst.Raw))

	var value uint64
	switch inst.Funct3 {
	case 0x0: // LB
		b, err := c.Bus.Load8(addr)
		if err != nil {
			return err
		}
		value = uint64(int64(int8(b)))
	case 0x1: // LH
		h, err := c.Bus.Load16(addr)
		if err != nil {
			return err
		}
		value = uint64(int64(int16(h)))
	case 0x2: // LW
		w, err := c.Bus.Load32(addr)
		if err != nil {
			return err
		}
		value = uint64(int64(int32(w)))
	case 0x3: // LD
		d, err := c.Bus.Load64(addr)
		if err != nil {
			return err
		}
		value = d
	case 0x4: // LBU
		b, err := c.Bus.Load8(addr)
		if err != nil {
			return err
		}
		value = uint64(b)
	case 0x5: // LHU
		h, err := c.Bus.Load16(addr)
		if err != nil {
			return err
		}
		value = uint64(h)
	case 0x6: // LWU
		w, err := c.Bus.Load32(addr)
		if err != nil {
			return err
		}
		value = uint64(w)
	default:
		return &IllegalInstruction{PC: inst.Addr, Instr: inst.Raw}
	}

	c.Regs.Write(inst.Rd, value)
	return nil
}

// execStore implements opcode 0x23 (SB/SH/SW/SD).
func (c *CPU) execStore(inst Instruction) error {
	addr := c.Regs.Read(inst.Rs1) + uint64(ImmS(inst.Raw))
	value := c.Regs.Read(inst.Rs2)

	switch inst.Funct3 {
	case 0x0: // SB
		return c.Bus.Store8(addr, uint8(value))
	case 0x1: // SH
		return c.Bus.Store16(addr, uint16(value))
	case 0x2: // SW
		return c.Bus.Store32(addr, uint32(value))
	case 0x3: // SD
		return c.Bus.Store64(addr, value)
	default:
		return &IllegalInstruction{PC: inst.Addr, Instr: inst.Raw}
	}
}
