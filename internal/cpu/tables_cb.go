package cpu

// The extended opcode space behind the 0xCB escape byte is completely
// regular: the low three bits select the operand from the periodic
// B,C,D,E,H,L,(HL),A pattern and the upper bits select the operation
// (and, for BIT/RES/SET, the bit index). The parallel kind/operand
// tables are generated from that structure; every one of the 256
// entries is assigned.
var (
	kindCBTable [256]Kind
	srcCBTable  [256]uint8
)

func defineExtendedInstructions() {
	shiftRows := [8]Kind{
		KindRlc, KindRrc, KindRl, KindRr,
		KindSla, KindSra, KindSwap, KindSrl,
	}
	for r := uint8(0); r < 8; r++ {
		for s := uint8(0); s < 8; s++ {
			opcode := r*8 + s
			kindCBTable[opcode] = shiftRows[r]
			srcCBTable[opcode] = operandCodes[s]
		}
	}

	bitRows := [3]Kind{KindBit, KindRes, KindSet}
	for r, kind := range bitRows {
		base := 0x40 + uint8(r)*0x40
		for bit := uint8(0); bit < 8; bit++ {
			for s := uint8(0); s < 8; s++ {
				opcode := base + bit*8 + s
				kindCBTable[opcode] = kind
				srcCBTable[opcode] = operandCodes[s]
			}
		}
	}
}
