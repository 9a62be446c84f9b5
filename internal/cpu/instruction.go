package cpu

// Kind tags the shape of a decoded instruction and drives both operand
// resolution in the decoder and dispatch in the execution engine.
type Kind uint8

const (
	// KindNone marks an unassigned opcode; decoding one is a fault.
	KindNone Kind = iota

	KindNop
	KindHalt

	// loads
	KindLdRegReg  // LD r, r'
	KindLdRegImm  // LD r, d8
	KindLdRegMem  // LD (addr), r
	KindLdMemReg  // LD r, (addr)
	KindLdMemImm  // LD (HL), d8
	KindLdWRegImm // LD rr, d16

	// 8-bit and 16-bit arithmetic
	KindAddRegReg
	KindAddRegImm
	KindAddRegMem
	KindAddWRegWReg
	KindAdcRegReg
	KindAdcRegImm
	KindAdcRegMem
	KindSubReg
	KindSubImm
	KindSubMem
	KindSbcReg
	KindSbcImm
	KindSbcMem
	KindAndReg
	KindAndImm
	KindAndMem
	KindXorReg
	KindXorImm
	KindXorMem
	KindOrReg
	KindOrImm
	KindOrMem
	KindCpReg
	KindCpImm
	KindCpMem
	KindIncReg
	KindIncWReg
	KindIncMem
	KindDecReg
	KindDecWReg
	KindDecMem

	// accumulator rotates
	KindRlcA
	KindRrcA
	KindRlA
	KindRrA

	// stack
	KindPush
	KindPop

	// control flow
	KindJp
	KindJpCond
	KindJpHL
	KindJr
	KindJrCond
	KindCall
	KindCallCond
	KindRet
	KindRetCond
	KindRst

	// KindPrefix escapes into the extended opcode space; it never
	// appears in a decoded instruction.
	KindPrefix

	// extended space; each resolves to a register or a memory operand
	KindRlc
	KindRrc
	KindRl
	KindRr
	KindSla
	KindSra
	KindSwap
	KindSrl
	KindBit
	KindRes
	KindSet

	kindCount
)

var kindNames = [kindCount]string{
	KindNone: "<unassigned>",

	KindNop:  "NOP",
	KindHalt: "HALT",

	KindLdRegReg:  "LD r,r", KindLdRegImm: "LD r,d8",
	KindLdRegMem:  "LD (addr),r", KindLdMemReg: "LD r,(addr)",
	KindLdMemImm:  "LD (HL),d8", KindLdWRegImm: "LD rr,d16",

	KindAddRegReg: "ADD r", KindAddRegImm: "ADD d8", KindAddRegMem: "ADD (addr)",
	KindAddWRegWReg: "ADD rr,rr",
	KindAdcRegReg: "ADC r", KindAdcRegImm: "ADC d8", KindAdcRegMem: "ADC (addr)",
	KindSubReg: "SUB r", KindSubImm: "SUB d8", KindSubMem: "SUB (addr)",
	KindSbcReg: "SBC r", KindSbcImm: "SBC d8", KindSbcMem: "SBC (addr)",
	KindAndReg: "AND r", KindAndImm: "AND d8", KindAndMem: "AND (addr)",
	KindXorReg: "XOR r", KindXorImm: "XOR d8", KindXorMem: "XOR (addr)",
	KindOrReg: "OR r", KindOrImm: "OR d8", KindOrMem: "OR (addr)",
	KindCpReg: "CP r", KindCpImm: "CP d8", KindCpMem: "CP (addr)",
	KindIncReg: "INC r", KindIncWReg: "INC rr", KindIncMem: "INC (addr)",
	KindDecReg: "DEC r", KindDecWReg: "DEC rr", KindDecMem: "DEC (addr)",

	KindRlcA: "RLCA", KindRrcA: "RRCA", KindRlA: "RLA", KindRrA: "RRA",

	KindPush: "PUSH", KindPop: "POP",

	KindJp: "JP", KindJpCond: "JP cc", KindJpHL: "JP HL",
	KindJr: "JR", KindJrCond: "JR cc",
	KindCall: "CALL", KindCallCond: "CALL cc",
	KindRet: "RET", KindRetCond: "RET cc",
	KindRst: "RST",

	KindPrefix: "<prefix>",

	KindRlc: "RLC", KindRrc: "RRC", KindRl: "RL", KindRr: "RR",
	KindSla: "SLA", KindSra: "SRA", KindSwap: "SWAP", KindSrl: "SRL",
	KindBit: "BIT", KindRes: "RES", KindSet: "SET",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Instruction is one fully-resolved instruction: the kind tag plus the
// operands that kind needs. Fields a kind does not use stay at their
// zero (invalid/none) values.
type Instruction struct {
	Kind Kind

	Src  Register // source register, when encoded
	Dst  Register // destination register, when encoded
	Addr RegAddr  // memory addressing mode, when encoded

	Imm8  uint8  // 8-bit immediate operand
	Imm16 uint16 // 16-bit immediate operand, or the RST target
	Cond  Condition
	Bit   uint8 // bit index for BIT/RES/SET
}
