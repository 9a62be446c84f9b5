package cpu

// fetchFunc reads one byte of the instruction stream. The fetcher owns
// the error taxonomy of a failed fetch: decoding over a byte slice
// reports truncation as a DecodeError, fetching through the bus
// propagates the collaborator's memory fault untouched.
type fetchFunc func(addr uint16) (uint8, error)

// Decode decodes a single instruction from program starting at *pc and
// advances *pc by exactly the number of bytes consumed: one for the
// opcode, one more on the extended-space path, plus one per 8-bit and
// two per little-endian 16-bit immediate. The cursor is not advanced
// past a failed fetch.
func Decode(program []byte, pc *uint16) (Instruction, error) {
	return decode(func(addr uint16) (uint8, error) {
		if int(addr) >= len(program) {
			return 0, &DecodeError{Reason: "instruction stream ends mid-instruction"}
		}
		return program[addr], nil
	}, pc)
}

type decoder struct {
	fetch fetchFunc
	pc    *uint16
}

func (d *decoder) next() (uint8, error) {
	v, err := d.fetch(*d.pc)
	if err != nil {
		return 0, err
	}
	*d.pc++
	return v, nil
}

// imm16 reads a little-endian 16-bit immediate, low byte first.
func (d *decoder) imm16() (uint16, error) {
	lo, err := d.next()
	if err != nil {
		return 0, err
	}
	hi, err := d.next()
	if err != nil {
		return 0, err
	}
	return uint16(lo) | uint16(hi)<<8, nil
}

func decode(fetch fetchFunc, pc *uint16) (Instruction, error) {
	d := &decoder{fetch: fetch, pc: pc}

	opcode, err := d.next()
	if err != nil {
		return Instruction{}, err
	}

	kind := kindTable[opcode]
	switch kind {
	case KindNone:
		return Instruction{}, decodeErr(opcode, false, "unassigned opcode")
	case KindPrefix:
		return d.decodeExtended()
	}
	return d.decodeOperands(opcode, kind)
}

// decodeOperands resolves the operand table entries into a concrete
// instruction for the base opcode space, reading trailing immediate
// bytes as the kind requires.
func (d *decoder) decodeOperands(opcode uint8, kind Kind) (Instruction, error) {
	instr := Instruction{Kind: kind}
	var err error

	switch kind {
	case KindNop, KindHalt, KindRlcA, KindRrcA, KindRlA, KindRrA,
		KindJpHL, KindRet:
		// no operands

	case KindLdRegReg, KindAddRegReg, KindAdcRegReg, KindAddWRegWReg:
		if instr.Src, err = srcReg(opcode); err != nil {
			return Instruction{}, err
		}
		instr.Dst, err = dstReg(opcode)

	case KindLdRegImm, KindAddRegImm, KindAdcRegImm:
		if instr.Dst, err = dstReg(opcode); err != nil {
			return Instruction{}, err
		}
		instr.Imm8, err = d.next()

	case KindSubImm, KindSbcImm, KindAndImm, KindXorImm, KindOrImm, KindCpImm:
		instr.Imm8, err = d.next()

	case KindLdMemImm:
		if instr.Addr, err = dstAddr(opcode); err != nil {
			return Instruction{}, err
		}
		instr.Imm8, err = d.next()

	case KindSubReg, KindSbcReg, KindAndReg, KindXorReg, KindOrReg, KindCpReg:
		instr.Src, err = srcReg(opcode)

	case KindSubMem, KindSbcMem, KindAndMem, KindXorMem, KindOrMem, KindCpMem:
		instr.Addr, err = srcAddr(opcode)

	case KindAddRegMem, KindAdcRegMem:
		if instr.Addr, err = srcAddr(opcode); err != nil {
			return Instruction{}, err
		}
		instr.Dst, err = dstReg(opcode)

	case KindIncReg, KindDecReg, KindIncWReg, KindDecWReg, KindPop:
		instr.Dst, err = dstReg(opcode)

	case KindIncMem, KindDecMem:
		instr.Addr, err = dstAddr(opcode)

	case KindPush:
		instr.Src, err = srcReg(opcode)

	case KindLdWRegImm:
		if instr.Dst, err = dstReg(opcode); err != nil {
			return Instruction{}, err
		}
		instr.Imm16, err = d.imm16()

	case KindLdRegMem: // LD (addr), r
		if instr.Src, err = srcReg(opcode); err != nil {
			return Instruction{}, err
		}
		if instr.Addr, err = dstAddr(opcode); err != nil {
			return Instruction{}, err
		}
		if instr.Addr == AddrImm {
			instr.Imm16, err = d.imm16()
		}

	case KindLdMemReg: // LD r, (addr)
		if instr.Addr, err = srcAddr(opcode); err != nil {
			return Instruction{}, err
		}
		if instr.Dst, err = dstReg(opcode); err != nil {
			return Instruction{}, err
		}
		if instr.Addr == AddrImm {
			instr.Imm16, err = d.imm16()
		}

	case KindJp, KindCall:
		instr.Imm16, err = d.imm16()

	case KindJpCond, KindCallCond:
		if instr.Cond, err = srcCond(opcode); err != nil {
			return Instruction{}, err
		}
		instr.Imm16, err = d.imm16()

	case KindJr:
		instr.Imm8, err = d.next()

	case KindJrCond:
		if instr.Cond, err = srcCond(opcode); err != nil {
			return Instruction{}, err
		}
		instr.Imm8, err = d.next()

	case KindRetCond:
		instr.Cond, err = srcCond(opcode)

	case KindRst:
		instr.Imm16 = uint16(opcode & 0x38)

	default:
		return Instruction{}, decodeErr(opcode, false, "kind %s has no decode rule", kind)
	}

	if err != nil {
		return Instruction{}, err
	}
	return instr, nil
}

// decodeExtended consumes the byte following the 0xCB escape and
// resolves it against the extended tables. The operand is either a
// register or the (HL) memory mode; BIT/RES/SET additionally carry the
// bit index encoded in the opcode.
func (d *decoder) decodeExtended() (Instruction, error) {
	opcode, err := d.next()
	if err != nil {
		return Instruction{}, err
	}

	instr := Instruction{Kind: kindCBTable[opcode]}
	if instr.Kind == KindNone {
		return Instruction{}, decodeErr(opcode, true, "unassigned opcode")
	}

	code := srcCBTable[opcode]
	switch {
	case code == 0:
		return Instruction{}, decodeErr(opcode, true, "malformed table: zero operand")
	case code == uint8(AddrHL):
		instr.Addr = AddrHL
	case code >= uint8(RegA) && code <= uint8(RegSP):
		instr.Src = Register(code)
	default:
		return Instruction{}, decodeErr(opcode, true, "malformed table: operand %d", code)
	}

	if opcode >= 0x40 {
		instr.Bit = opcode >> 3 & 0x07
	}
	return instr, nil
}

// srcReg resolves the source table entry as a register; a zero entry
// where a register is expected means the table is malformed or the
// opcode unassigned.
func srcReg(opcode uint8) (Register, error) {
	return operandReg(opcode, srcTable[opcode])
}

func dstReg(opcode uint8) (Register, error) {
	return operandReg(opcode, dstTable[opcode])
}

func operandReg(opcode, code uint8) (Register, error) {
	if code < uint8(RegA) || code > uint8(RegSP) {
		return RegInvalid, decodeErr(opcode, false, "operand %d is not a register", code)
	}
	return Register(code), nil
}

func srcAddr(opcode uint8) (RegAddr, error) {
	return operandAddr(opcode, srcTable[opcode])
}

func dstAddr(opcode uint8) (RegAddr, error) {
	return operandAddr(opcode, dstTable[opcode])
}

func operandAddr(opcode, code uint8) (RegAddr, error) {
	if code < uint8(AddrHL) || code > uint8(AddrImm) {
		return AddrInvalid, decodeErr(opcode, false, "operand %d is not an addressing mode", code)
	}
	return RegAddr(code), nil
}

func srcCond(opcode uint8) (Condition, error) {
	code := srcTable[opcode]
	if code < uint8(CondNotZero) || code > uint8(CondCarry) {
		return CondNone, decodeErr(opcode, false, "operand %d is not a condition", code)
	}
	return Condition(code), nil
}
