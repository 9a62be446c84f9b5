package cpu

import "fmt"

// Register names an 8-bit register slot. The zero value is the Invalid
// sentinel used by the opcode tables to mark "no operand here".
type Register uint8

const (
	RegInvalid Register = iota
	RegA
	RegF
	RegB
	RegC
	RegD
	RegE
	RegH
	RegL
	// RegSP names the stack pointer. It occupies the last two slots of
	// the register block so that it can be addressed as a wide register
	// by the same accessors as the pairs.
	RegSP
)

// Pair heads. Reading one of these wide yields the 16-bit value formed
// by the head slot (low byte) and the slot after it (high byte). AF is
// only ever pushed and popped as a pair, never used as an accumulator.
const (
	RegAF = RegA
	RegBC = RegB
	RegDE = RegD
	RegHL = RegH
)

var registerNames = [...]string{"<invalid>", "A", "F", "B", "C", "D", "E", "H", "L", "SP"}

func (r Register) String() string {
	if int(r) >= len(registerNames) {
		return fmt.Sprintf("Register(%d)", uint8(r))
	}
	return registerNames[r]
}

// RegAddr names a register-derived (or immediate) memory addressing
// mode. Values continue the Register numbering so that both share the
// operand encoding space of the opcode tables.
type RegAddr uint8

const (
	AddrInvalid RegAddr = 0
	AddrHL      RegAddr = iota + 9 // (HL)
	AddrHLInc                      // (HL+), HL incremented after the access
	AddrHLDec                      // (HL-), HL decremented after the access
	AddrBC                         // (BC)
	AddrDE                         // (DE)
	AddrImm                        // (a16), address from a 16-bit immediate
)

var regAddrNames = map[RegAddr]string{
	AddrInvalid: "<invalid>",
	AddrHL:      "(HL)",
	AddrHLInc:   "(HL+)",
	AddrHLDec:   "(HL-)",
	AddrBC:      "(BC)",
	AddrDE:      "(DE)",
	AddrImm:     "(a16)",
}

func (a RegAddr) String() string {
	if s, ok := regAddrNames[a]; ok {
		return s
	}
	return fmt.Sprintf("RegAddr(%d)", uint8(a))
}

// Registers is the architectural register block. The eight 8-bit
// registers and the 16-bit stack pointer share one backing array, in
// storage order A F B C D E H L SPlo SPhi, so a wide access over a pair
// head reads the head slot as the low byte and its neighbour as the
// high byte. There is no separate 16-bit state to fall out of sync.
type Registers struct {
	data [10]uint8
}

// Read8 reads an 8-bit register. Reading the Invalid sentinel is a
// contract violation.
func (r *Registers) Read8(reg Register) uint8 {
	if reg == RegInvalid || reg > RegSP {
		panic(fmt.Sprintf("cpu: read of invalid register %s", reg))
	}
	return r.data[reg-1]
}

// Write8 writes an 8-bit register. Writing the Invalid sentinel is a
// contract violation.
func (r *Registers) Write8(reg Register, value uint8) {
	if reg == RegInvalid || reg > RegSP {
		panic(fmt.Sprintf("cpu: write of invalid register %s", reg))
	}
	r.data[reg-1] = value
}

// Read16 reads a wide register: the pair heads A, B, D, H or the stack
// pointer. Any other register is a contract violation.
func (r *Registers) Read16(reg Register) uint16 {
	if !validWide(reg) {
		panic(fmt.Sprintf("cpu: wide read of register %s", reg))
	}
	return uint16(r.data[reg-1]) | uint16(r.data[reg])<<8
}

// Write16 writes a wide register, low byte to the head slot.
func (r *Registers) Write16(reg Register, value uint16) {
	if !validWide(reg) {
		panic(fmt.Sprintf("cpu: wide write of register %s", reg))
	}
	r.data[reg-1] = uint8(value)
	r.data[reg] = uint8(value >> 8)
}

func validWide(reg Register) bool {
	switch reg {
	case RegA, RegB, RegD, RegH, RegSP:
		return true
	}
	return false
}

// Reset zeroes the register block.
func (r *Registers) Reset() {
	r.data = [10]uint8{}
}
