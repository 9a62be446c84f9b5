package cpu

// pushStack writes a 16-bit value to the stack, high byte first. SP is
// committed only once both writes have succeeded.
func (c *CPU) pushStack(bus Bus, value uint16) error {
	sp := c.Read16(RegSP)
	if err := bus.Write(sp-1, uint8(value>>8)); err != nil {
		return err
	}
	if err := bus.Write(sp-2, uint8(value&0xFF)); err != nil {
		return err
	}
	c.Write16(RegSP, sp-2)
	return nil
}

// popStack reads a 16-bit value from the stack, low byte first. SP is
// committed only once both reads have succeeded.
func (c *CPU) popStack(bus Bus) (uint16, error) {
	sp := c.Read16(RegSP)
	lo, err := bus.Read(sp)
	if err != nil {
		return 0, err
	}
	hi, err := bus.Read(sp + 1)
	if err != nil {
		return 0, err
	}
	c.Write16(RegSP, sp+2)
	return uint16(lo) | uint16(hi)<<8, nil
}

// relativeTarget applies a signed 8-bit displacement to the address of
// the following instruction. A target outside the 16-bit address space
// is an execution fault, not a wraparound.
func relativeTarget(next uint16, offset uint8) (uint16, error) {
	target := int32(next) + int32(int8(offset))
	if target < 0 || target > 0xFFFF {
		return 0, execErr(KindJr, "relative target 0x%X outside address space", target)
	}
	return uint16(target), nil
}
