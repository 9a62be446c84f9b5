package cpu

import "fmt"

// The decoder is table-driven: three flat 256-entry arrays map a raw
// opcode byte to its instruction kind and to the encodings of its
// source and destination operands. An operand entry of 0 means "no
// operand encoded here"; the decoder reinterprets non-zero entries as a
// Register (1-9), a RegAddr (10-15) or a Condition (1-4) depending on
// the kind being decoded. Unassigned opcodes keep KindNone and decode
// to a fault.
var (
	kindTable [256]Kind
	srcTable  [256]uint8
	dstTable  [256]uint8
)

// operandCodes is the periodic operand pattern shared by the regular
// table blocks: B, C, D, E, H, L, (HL), A.
var operandCodes = [8]uint8{
	uint8(RegB), uint8(RegC), uint8(RegD), uint8(RegE),
	uint8(RegH), uint8(RegL), uint8(AddrHL), uint8(RegA),
}

// define assigns one base-space opcode. Assigning the same opcode twice
// means the table construction itself is broken.
func define(opcode uint8, kind Kind, src, dst uint8) {
	if kindTable[opcode] != KindNone {
		panic(fmt.Sprintf("cpu: opcode 0x%02X defined twice", opcode))
	}
	kindTable[opcode] = kind
	srcTable[opcode] = src
	dstTable[opcode] = dst
}

func init() {
	defineLoadInstructions()
	defineArithmeticInstructions()
	defineControlFlowInstructions()
	defineExtendedInstructions()
}

func defineLoadInstructions() {
	// 0x40 - 0x7F: LD r, r' with the (HL) column/row as memory forms
	// and HALT punched out of the middle at 0x76.
	for d := uint8(0); d < 8; d++ {
		for s := uint8(0); s < 8; s++ {
			opcode := 0x40 + d*8 + s
			switch {
			case opcode == 0x76:
				define(opcode, KindHalt, 0, 0)
			case d == 6: // LD (HL), r
				define(opcode, KindLdRegMem, operandCodes[s], uint8(AddrHL))
			case s == 6: // LD r, (HL)
				define(opcode, KindLdMemReg, uint8(AddrHL), operandCodes[d])
			default:
				define(opcode, KindLdRegReg, operandCodes[s], operandCodes[d])
			}
		}
	}

	// 0x06, 0x0E ... 0x3E: LD r, d8 (0x36 targets memory through HL)
	for i := uint8(0); i < 8; i++ {
		opcode := 0x06 + i*8
		if i == 6 {
			define(opcode, KindLdMemImm, 0, uint8(AddrHL))
		} else {
			define(opcode, KindLdRegImm, 0, operandCodes[i])
		}
	}

	// indirect accumulator loads and stores, including the
	// post-increment/decrement HL modes
	indirect := [4]uint8{uint8(AddrBC), uint8(AddrDE), uint8(AddrHLInc), uint8(AddrHLDec)}
	for i := uint8(0); i < 4; i++ {
		define(0x02+i*16, KindLdRegMem, uint8(RegA), indirect[i]) // LD (rr), A
		define(0x0A+i*16, KindLdMemReg, indirect[i], uint8(RegA)) // LD A, (rr)
	}

	// LD (a16), A / LD A, (a16)
	define(0xEA, KindLdRegMem, uint8(RegA), uint8(AddrImm))
	define(0xFA, KindLdMemReg, uint8(AddrImm), uint8(RegA))
}

func defineArithmeticInstructions() {
	// 0x80 - 0xBF: one row of eight operands per ALU operation
	rows := [8]struct{ reg, mem Kind }{
		{KindAddRegReg, KindAddRegMem},
		{KindAdcRegReg, KindAdcRegMem},
		{KindSubReg, KindSubMem},
		{KindSbcReg, KindSbcMem},
		{KindAndReg, KindAndMem},
		{KindXorReg, KindXorMem},
		{KindOrReg, KindOrMem},
		{KindCpReg, KindCpMem},
	}
	for r := uint8(0); r < 8; r++ {
		for s := uint8(0); s < 8; s++ {
			opcode := 0x80 + r*8 + s
			// the two-operand add forms carry A as an explicit
			// destination; the rest imply the accumulator
			var dst uint8
			if r < 2 {
				dst = uint8(RegA)
			}
			if s == 6 {
				define(opcode, rows[r].mem, uint8(AddrHL), dst)
			} else {
				define(opcode, rows[r].reg, operandCodes[s], dst)
			}
		}
	}

	// d8 immediate forms of the same eight operations
	define(0xC6, KindAddRegImm, 0, uint8(RegA))
	define(0xCE, KindAdcRegImm, 0, uint8(RegA))
	define(0xD6, KindSubImm, 0, 0)
	define(0xDE, KindSbcImm, 0, 0)
	define(0xE6, KindAndImm, 0, 0)
	define(0xEE, KindXorImm, 0, 0)
	define(0xF6, KindOrImm, 0, 0)
	define(0xFE, KindCpImm, 0, 0)

	// INC r / DEC r (with the (HL) memory forms at 0x34/0x35)
	for i := uint8(0); i < 8; i++ {
		if i == 6 {
			define(0x04+i*8, KindIncMem, 0, uint8(AddrHL))
			define(0x05+i*8, KindDecMem, 0, uint8(AddrHL))
			continue
		}
		define(0x04+i*8, KindIncReg, 0, operandCodes[i])
		define(0x05+i*8, KindDecReg, 0, operandCodes[i])
	}

	// wide-register column: LD rr,d16 / INC rr / DEC rr / ADD HL,rr
	wide := [4]uint8{uint8(RegB), uint8(RegD), uint8(RegH), uint8(RegSP)}
	for i := uint8(0); i < 4; i++ {
		define(0x01+i*16, KindLdWRegImm, 0, wide[i])
		define(0x03+i*16, KindIncWReg, 0, wide[i])
		define(0x0B+i*16, KindDecWReg, 0, wide[i])
		define(0x09+i*16, KindAddWRegWReg, wide[i], uint8(RegH))
	}

	// accumulator rotates
	define(0x07, KindRlcA, 0, 0)
	define(0x0F, KindRrcA, 0, 0)
	define(0x17, KindRlA, 0, 0)
	define(0x1F, KindRrA, 0, 0)
}

func defineControlFlowInstructions() {
	define(0x00, KindNop, 0, 0)
	define(0xCB, KindPrefix, 0, 0)

	// the condition column NZ, Z, NC, C repeats across the conditional
	// jump, call and return rows
	conds := [4]uint8{
		uint8(CondNotZero), uint8(CondZero), uint8(CondNotCarry), uint8(CondCarry),
	}

	define(0x18, KindJr, 0, 0)
	define(0xC3, KindJp, 0, 0)
	define(0xC9, KindRet, 0, 0)
	define(0xCD, KindCall, 0, 0)
	define(0xE9, KindJpHL, 0, 0)
	for i := uint8(0); i < 4; i++ {
		define(0x20+i*8, KindJrCond, conds[i], 0)
		define(0xC0+i*8, KindRetCond, conds[i], 0)
		define(0xC2+i*8, KindJpCond, conds[i], 0)
		define(0xC4+i*8, KindCallCond, conds[i], 0)
	}

	// RST: the target address is encoded in the opcode itself
	for i := uint8(0); i < 8; i++ {
		define(0xC7+i*8, KindRst, 0, 0)
	}

	// PUSH/POP work on the pairs BC, DE, HL, AF
	stack := [4]uint8{uint8(RegB), uint8(RegD), uint8(RegH), uint8(RegA)}
	for i := uint8(0); i < 4; i++ {
		define(0xC1+i*16, KindPop, 0, stack[i])
		define(0xC5+i*16, KindPush, stack[i], 0)
	}
}
