package cpu

import (
	"github.com/dromeda/go-sm83/pkg/utils"
)

// execute dispatches one decoded instruction. next is the address of
// the following instruction (the cursor already advanced past the
// instruction bytes during decode); ordinary arms commit it to PC on
// success, control-flow arms overwrite it. Every arm declares its
// fixed cycle cost up front; conditional forms consume the extra cost
// only when the branch is taken. Memory accesses are ordered before
// register mutation so that a fault leaves no partial state behind.
func (c *CPU) execute(instr Instruction, bus Bus, next uint16) (Outcome, error) {
	switch instr.Kind {
	case KindNop:
		c.tick(4)

	case KindHalt:
		c.tick(4)
		c.PC = next
		return OutcomeHalted, nil

	case KindLdRegReg:
		c.tick(4)
		c.Write8(instr.Dst, c.Read8(instr.Src))

	case KindLdRegImm:
		c.tick(8)
		c.Write8(instr.Dst, instr.Imm8)

	case KindLdRegMem: // LD (addr), r
		c.tick(storeCycles(instr.Addr))
		addr, adjust, err := c.resolveAddress(instr)
		if err != nil {
			return OutcomeFault, err
		}
		if err := bus.Write(addr, c.Read8(instr.Src)); err != nil {
			return OutcomeFault, err
		}
		c.adjustHL(adjust)

	case KindLdMemReg: // LD r, (addr)
		c.tick(storeCycles(instr.Addr))
		value, adjust, err := c.readMem(instr, bus)
		if err != nil {
			return OutcomeFault, err
		}
		c.Write8(instr.Dst, value)
		c.adjustHL(adjust)

	case KindLdMemImm: // LD (HL), d8
		c.tick(12)
		addr, adjust, err := c.resolveAddress(instr)
		if err != nil {
			return OutcomeFault, err
		}
		if err := bus.Write(addr, instr.Imm8); err != nil {
			return OutcomeFault, err
		}
		c.adjustHL(adjust)

	case KindLdWRegImm:
		c.tick(12)
		if err := wideOperand(instr.Kind, instr.Dst); err != nil {
			return OutcomeFault, err
		}
		c.Write16(instr.Dst, instr.Imm16)

	case KindAddRegReg:
		c.tick(4)
		c.Write8(instr.Dst, c.add8(c.Read8(instr.Dst), c.Read8(instr.Src), false))
	case KindAddRegImm:
		c.tick(8)
		c.Write8(instr.Dst, c.add8(c.Read8(instr.Dst), instr.Imm8, false))
	case KindAddRegMem:
		c.tick(8)
		value, adjust, err := c.readMem(instr, bus)
		if err != nil {
			return OutcomeFault, err
		}
		c.Write8(instr.Dst, c.add8(c.Read8(instr.Dst), value, false))
		c.adjustHL(adjust)

	case KindAddWRegWReg:
		c.tick(8)
		if err := wideOperand(instr.Kind, instr.Src, instr.Dst); err != nil {
			return OutcomeFault, err
		}
		c.Write16(instr.Dst, c.add16(c.Read16(instr.Dst), c.Read16(instr.Src)))

	case KindAdcRegReg:
		c.tick(4)
		c.Write8(instr.Dst, c.add8(c.Read8(instr.Dst), c.Read8(instr.Src), true))
	case KindAdcRegImm:
		c.tick(8)
		c.Write8(instr.Dst, c.add8(c.Read8(instr.Dst), instr.Imm8, true))
	case KindAdcRegMem:
		c.tick(8)
		value, adjust, err := c.readMem(instr, bus)
		if err != nil {
			return OutcomeFault, err
		}
		c.Write8(instr.Dst, c.add8(c.Read8(instr.Dst), value, true))
		c.adjustHL(adjust)

	case KindSubReg:
		c.tick(4)
		c.Write8(RegA, c.sub8(c.Read8(RegA), c.Read8(instr.Src), false))
	case KindSubImm:
		c.tick(8)
		c.Write8(RegA, c.sub8(c.Read8(RegA), instr.Imm8, false))
	case KindSubMem:
		c.tick(8)
		value, adjust, err := c.readMem(instr, bus)
		if err != nil {
			return OutcomeFault, err
		}
		c.Write8(RegA, c.sub8(c.Read8(RegA), value, false))
		c.adjustHL(adjust)

	case KindSbcReg:
		c.tick(4)
		c.Write8(RegA, c.sub8(c.Read8(RegA), c.Read8(instr.Src), true))
	case KindSbcImm:
		c.tick(8)
		c.Write8(RegA, c.sub8(c.Read8(RegA), instr.Imm8, true))
	case KindSbcMem:
		c.tick(8)
		value, adjust, err := c.readMem(instr, bus)
		if err != nil {
			return OutcomeFault, err
		}
		c.Write8(RegA, c.sub8(c.Read8(RegA), value, true))
		c.adjustHL(adjust)

	case KindAndReg:
		c.tick(4)
		c.Write8(RegA, c.and8(c.Read8(RegA), c.Read8(instr.Src)))
	case KindAndImm:
		c.tick(8)
		c.Write8(RegA, c.and8(c.Read8(RegA), instr.Imm8))
	case KindAndMem:
		c.tick(8)
		value, adjust, err := c.readMem(instr, bus)
		if err != nil {
			return OutcomeFault, err
		}
		c.Write8(RegA, c.and8(c.Read8(RegA), value))
		c.adjustHL(adjust)

	case KindXorReg:
		c.tick(4)
		c.Write8(RegA, c.xor8(c.Read8(RegA), c.Read8(instr.Src)))
	case KindXorImm:
		c.tick(8)
		c.Write8(RegA, c.xor8(c.Read8(RegA), instr.Imm8))
	case KindXorMem:
		c.tick(8)
		value, adjust, err := c.readMem(instr, bus)
		if err != nil {
			return OutcomeFault, err
		}
		c.Write8(RegA, c.xor8(c.Read8(RegA), value))
		c.adjustHL(adjust)

	case KindOrReg:
		c.tick(4)
		c.Write8(RegA, c.or8(c.Read8(RegA), c.Read8(instr.Src)))
	case KindOrImm:
		c.tick(8)
		c.Write8(RegA, c.or8(c.Read8(RegA), instr.Imm8))
	case KindOrMem:
		c.tick(8)
		value, adjust, err := c.readMem(instr, bus)
		if err != nil {
			return OutcomeFault, err
		}
		c.Write8(RegA, c.or8(c.Read8(RegA), value))
		c.adjustHL(adjust)

	case KindCpReg:
		c.tick(4)
		c.compare(c.Read8(RegA), c.Read8(instr.Src))
	case KindCpImm:
		c.tick(8)
		c.compare(c.Read8(RegA), instr.Imm8)
	case KindCpMem:
		c.tick(8)
		value, adjust, err := c.readMem(instr, bus)
		if err != nil {
			return OutcomeFault, err
		}
		c.compare(c.Read8(RegA), value)
		c.adjustHL(adjust)

	case KindIncReg:
		c.tick(4)
		c.Write8(instr.Dst, c.increment(c.Read8(instr.Dst)))
	case KindDecReg:
		c.tick(4)
		c.Write8(instr.Dst, c.decrement(c.Read8(instr.Dst)))

	case KindIncMem, KindDecMem:
		c.tick(12)
		addr, adjust, err := c.resolveAddress(instr)
		if err != nil {
			return OutcomeFault, err
		}
		value, err := bus.Read(addr)
		if err != nil {
			return OutcomeFault, err
		}
		flags := c.Read8(RegF)
		if instr.Kind == KindIncMem {
			value = c.increment(value)
		} else {
			value = c.decrement(value)
		}
		if err := bus.Write(addr, value); err != nil {
			c.Write8(RegF, flags)
			return OutcomeFault, err
		}
		c.adjustHL(adjust)

	case KindIncWReg:
		// wide increments touch no flags
		c.tick(8)
		if err := wideOperand(instr.Kind, instr.Dst); err != nil {
			return OutcomeFault, err
		}
		c.Write16(instr.Dst, c.Read16(instr.Dst)+1)

	case KindDecWReg:
		// wide decrements saturate at zero and touch no flags
		c.tick(8)
		if err := wideOperand(instr.Kind, instr.Dst); err != nil {
			return OutcomeFault, err
		}
		if value := c.Read16(instr.Dst); value > 0 {
			c.Write16(instr.Dst, value-1)
		}

	case KindRlcA:
		c.tick(4)
		c.Write8(RegA, c.rotateLeftCircular(c.Read8(RegA)))
	case KindRrcA:
		c.tick(4)
		c.Write8(RegA, c.rotateRightCircular(c.Read8(RegA)))
	case KindRlA:
		c.tick(4)
		c.Write8(RegA, c.rotateLeft(c.Read8(RegA)))
	case KindRrA:
		c.tick(4)
		c.Write8(RegA, c.rotateRight(c.Read8(RegA)))

	case KindPush:
		c.tick(16)
		if err := wideOperand(instr.Kind, instr.Src); err != nil {
			return OutcomeFault, err
		}
		if err := c.pushStack(bus, c.Read16(instr.Src)); err != nil {
			return OutcomeFault, err
		}
	case KindPop:
		c.tick(12)
		if err := wideOperand(instr.Kind, instr.Dst); err != nil {
			return OutcomeFault, err
		}
		value, err := c.popStack(bus)
		if err != nil {
			return OutcomeFault, err
		}
		c.Write16(instr.Dst, value)
		if instr.Dst == RegAF {
			// the low nibble of F always reads as zero
			c.Write8(RegF, c.Read8(RegF)&0xF0)
		}

	case KindJp:
		c.tick(16)
		next = instr.Imm16
	case KindJpCond:
		c.tick(12)
		if c.conditionMet(instr.Cond) {
			c.tick(4)
			next = instr.Imm16
		}
	case KindJpHL:
		c.tick(4)
		next = c.Read16(RegHL)

	case KindJr:
		c.tick(12)
		target, err := relativeTarget(next, instr.Imm8)
		if err != nil {
			return OutcomeFault, err
		}
		next = target
	case KindJrCond:
		c.tick(8)
		if c.conditionMet(instr.Cond) {
			c.tick(4)
			target, err := relativeTarget(next, instr.Imm8)
			if err != nil {
				return OutcomeFault, err
			}
			next = target
		}

	case KindCall:
		c.tick(24)
		if err := c.pushStack(bus, next); err != nil {
			return OutcomeFault, err
		}
		next = instr.Imm16
	case KindCallCond:
		c.tick(12)
		if c.conditionMet(instr.Cond) {
			c.tick(12)
			if err := c.pushStack(bus, next); err != nil {
				return OutcomeFault, err
			}
			next = instr.Imm16
		}

	case KindRet:
		c.tick(16)
		target, err := c.popStack(bus)
		if err != nil {
			return OutcomeFault, err
		}
		next = target
	case KindRetCond:
		c.tick(8)
		if c.conditionMet(instr.Cond) {
			c.tick(12)
			target, err := c.popStack(bus)
			if err != nil {
				return OutcomeFault, err
			}
			next = target
		}

	case KindRst:
		c.tick(16)
		if err := c.pushStack(bus, next); err != nil {
			return OutcomeFault, err
		}
		next = instr.Imm16

	case KindRlc, KindRrc, KindRl, KindRr, KindSla, KindSra, KindSwap, KindSrl:
		return c.executeShift(instr, bus, next)

	case KindBit:
		if instr.Addr == AddrHL {
			c.tick(12)
			value, _, err := c.readMem(instr, bus)
			if err != nil {
				return OutcomeFault, err
			}
			c.testBit(value, instr.Bit)
		} else {
			c.tick(8)
			c.testBit(c.Read8(instr.Src), instr.Bit)
		}

	case KindRes, KindSet:
		mutate := func(v uint8) uint8 { return utils.Reset(v, instr.Bit) }
		if instr.Kind == KindSet {
			mutate = func(v uint8) uint8 { return utils.Set(v, instr.Bit) }
		}
		if instr.Addr == AddrHL {
			c.tick(16)
			addr := c.Read16(RegHL)
			value, err := bus.Read(addr)
			if err != nil {
				return OutcomeFault, err
			}
			if err := bus.Write(addr, mutate(value)); err != nil {
				return OutcomeFault, err
			}
		} else {
			c.tick(8)
			c.Write8(instr.Src, mutate(c.Read8(instr.Src)))
		}

	default:
		return OutcomeFault, execErr(instr.Kind, "unimplemented instruction form")
	}

	c.PC = next
	return OutcomeContinue, nil
}

// executeShift applies one of the extended rotate/shift/swap operations
// to either a register or the byte behind (HL).
func (c *CPU) executeShift(instr Instruction, bus Bus, next uint16) (Outcome, error) {
	var op func(uint8) uint8
	switch instr.Kind {
	case KindRlc:
		op = c.rotateLeftCircular
	case KindRrc:
		op = c.rotateRightCircular
	case KindRl:
		op = c.rotateLeft
	case KindRr:
		op = c.rotateRight
	case KindSla:
		op = c.shiftLeftArithmetic
	case KindSra:
		op = c.shiftRightArithmetic
	case KindSwap:
		op = c.swap
	case KindSrl:
		op = c.shiftRightLogical
	}

	if instr.Addr == AddrHL {
		c.tick(16)
		addr := c.Read16(RegHL)
		value, err := bus.Read(addr)
		if err != nil {
			return OutcomeFault, err
		}
		flags := c.Read8(RegF)
		if err := bus.Write(addr, op(value)); err != nil {
			c.Write8(RegF, flags)
			return OutcomeFault, err
		}
	} else {
		c.tick(8)
		c.Write8(instr.Src, op(c.Read8(instr.Src)))
	}

	c.PC = next
	return OutcomeContinue, nil
}

// resolveAddress turns an addressing mode into a concrete address plus
// the post-access adjustment the HL+/HL- modes apply.
func (c *CPU) resolveAddress(instr Instruction) (uint16, int, error) {
	switch instr.Addr {
	case AddrHL:
		return c.Read16(RegHL), 0, nil
	case AddrHLInc:
		return c.Read16(RegHL), 1, nil
	case AddrHLDec:
		return c.Read16(RegHL), -1, nil
	case AddrBC:
		return c.Read16(RegBC), 0, nil
	case AddrDE:
		return c.Read16(RegDE), 0, nil
	case AddrImm:
		return instr.Imm16, 0, nil
	}
	return 0, 0, execErr(instr.Kind, "invalid addressing mode")
}

// readMem resolves the instruction's addressing mode and reads one byte
// through the bus. The HL adjustment is returned, not applied; the
// caller applies it once the whole access has succeeded.
func (c *CPU) readMem(instr Instruction, bus Bus) (uint8, int, error) {
	addr, adjust, err := c.resolveAddress(instr)
	if err != nil {
		return 0, 0, err
	}
	value, err := bus.Read(addr)
	if err != nil {
		return 0, 0, err
	}
	return value, adjust, nil
}

func (c *CPU) adjustHL(delta int) {
	switch delta {
	case 1:
		c.Write16(RegHL, c.Read16(RegHL)+1)
	case -1:
		c.Write16(RegHL, c.Read16(RegHL)-1)
	}
}

// wideOperand rejects registers that are not pair heads or SP before
// they reach the wide accessors, so a malformed table surfaces as an
// execution fault instead of a panic.
func wideOperand(kind Kind, regs ...Register) error {
	for _, reg := range regs {
		if !validWide(reg) {
			return execErr(kind, "register %s is not a wide operand", reg)
		}
	}
	return nil
}

// storeCycles is the cost of the one-byte load/store forms, which
// depends on how the address is produced.
func storeCycles(addr RegAddr) uint8 {
	if addr == AddrImm {
		return 16
	}
	return 8
}
