package cpu

import (
	"github.com/dromeda/go-sm83/internal/types"
	"github.com/dromeda/go-sm83/pkg/utils"
)

// add8 adds two bytes, optionally chaining the incoming carry flag.
//
//	ADD A, n / ADC A, n
//	n = d8, B, C, D, E, H, L, (HL), A
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Set if carry from bit 3.
//	C - Set if carry from bit 7.
func (c *CPU) add8(a, b uint8, withCarry bool) uint8 {
	var carryIn uint8
	if withCarry && c.isFlagSet(FlagCarry) {
		carryIn = 1
	}
	sum := uint16(a) + uint16(b) + uint16(carryIn)
	sumHalf := a&0x0F + b&0x0F + carryIn
	c.setFlags(uint8(sum) == 0, false, sumHalf > 0x0F, sum > 0xFF)
	return uint8(sum)
}

// add16 adds two 16-bit words.
//
//	ADD HL, rr
//	rr = BC, DE, HL, SP
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Set if carry from bit 11.
//	C - Set if carry from bit 15.
func (c *CPU) add16(a, b uint16) uint16 {
	sum := uint32(a) + uint32(b)
	c.setFlags(uint16(sum) == 0, false, a&0x0FFF+b&0x0FFF > 0x0FFF, sum > 0xFFFF)
	return uint16(sum)
}

// sub8 subtracts b (and optionally the incoming carry) from a. The
// borrow is computed through a real 4-bit chain, not from the
// subtrahend alone.
//
//	SUB n / SBC A, n
//	n = d8, B, C, D, E, H, L, (HL), A
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Set.
//	H - Set if borrow from bit 4.
//	C - Set if borrow.
func (c *CPU) sub8(a, b uint8, withCarry bool) uint8 {
	var carryIn int16
	if withCarry && c.isFlagSet(FlagCarry) {
		carryIn = 1
	}
	diff := int16(a) - int16(b) - carryIn
	diffHalf := int16(a&0x0F) - int16(b&0x0F) - carryIn
	c.setFlags(uint8(diff) == 0, true, diffHalf < 0, diff < 0)
	return uint8(diff)
}

// and8 performs a bitwise AND of a and b.
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Set.
//	C - Reset.
func (c *CPU) and8(a, b uint8) uint8 {
	result := a & b
	c.setFlags(result == 0, false, true, false)
	return result
}

// or8 performs a bitwise OR of a and b.
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Reset.
//	C - Reset.
func (c *CPU) or8(a, b uint8) uint8 {
	result := a | b
	c.setFlags(result == 0, false, false, false)
	return result
}

// xor8 performs a bitwise XOR of a and b.
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Reset.
//	C - Reset.
func (c *CPU) xor8(a, b uint8) uint8 {
	result := a ^ b
	c.setFlags(result == 0, false, false, false)
	return result
}

// compare subtracts b from a for flags only; the result is discarded.
//
//	CP n
//	n = d8, B, C, D, E, H, L, (HL), A
func (c *CPU) compare(a, b uint8) {
	c.setFlags(a == b, true, b&0x0F > a&0x0F, b > a)
}

// increment adds one to n, leaving the carry flag untouched.
//
//	INC n
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Set if carry from bit 3.
//	C - Not affected.
func (c *CPU) increment(n uint8) uint8 {
	incremented := n + 1
	c.setFlags(incremented == 0, false, n&0x0F == 0x0F, c.isFlagSet(FlagCarry))
	return incremented
}

// decrement subtracts one from n, leaving the carry flag untouched.
//
//	DEC n
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Set.
//	H - Set if borrow from bit 4.
//	C - Not affected.
func (c *CPU) decrement(n uint8) uint8 {
	decremented := n - 1
	c.setFlags(decremented == 0, true, n&0x0F == 0, c.isFlagSet(FlagCarry))
	return decremented
}

// rotateLeftCircular rotates n left by 1 bit. The most significant bit
// is copied to both the carry flag and the least significant bit.
//
//	RLC n
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Reset.
//	C - Contains old bit 7 data.
func (c *CPU) rotateLeftCircular(n uint8) uint8 {
	carry := n & types.Bit7
	computed := n<<1 | carry>>7
	c.setFlags(computed == 0, false, false, carry == types.Bit7)
	return computed
}

// rotateRightCircular rotates n right by 1 bit. The least significant
// bit is copied to both the carry flag and the most significant bit.
//
//	RRC n
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Reset.
//	C - Contains old bit 0 data.
func (c *CPU) rotateRightCircular(n uint8) uint8 {
	carry := n & types.Bit0
	computed := n>>1 | carry<<7
	c.setFlags(computed == 0, false, false, carry == types.Bit0)
	return computed
}

// rotateLeft rotates n left by 1 bit through the carry flag: the carry
// flag is shifted into the least significant bit and the most
// significant bit becomes the new carry.
//
//	RL n
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Reset.
//	C - Contains old bit 7 data.
func (c *CPU) rotateLeft(n uint8) uint8 {
	computed := n << 1
	if c.isFlagSet(FlagCarry) {
		computed |= types.Bit0
	}
	c.setFlags(computed == 0, false, false, n&types.Bit7 == types.Bit7)
	return computed
}

// rotateRight rotates n right by 1 bit through the carry flag: the
// carry flag is shifted into the most significant bit and the least
// significant bit becomes the new carry.
//
//	RR n
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Reset.
//	C - Contains old bit 0 data.
func (c *CPU) rotateRight(n uint8) uint8 {
	computed := n >> 1
	if c.isFlagSet(FlagCarry) {
		computed |= types.Bit7
	}
	c.setFlags(computed == 0, false, false, n&types.Bit0 == types.Bit0)
	return computed
}

// shiftLeftArithmetic shifts n left by one bit, filling bit 0 with
// zero.
//
//	SLA n
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Reset.
//	C - Contains old bit 7 data.
func (c *CPU) shiftLeftArithmetic(n uint8) uint8 {
	computed := n << 1
	c.setFlags(computed == 0, false, false, n&types.Bit7 == types.Bit7)
	return computed
}

// shiftRightArithmetic shifts n right by one bit, preserving the sign
// bit.
//
//	SRA n
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Reset.
//	C - Contains old bit 0 data.
func (c *CPU) shiftRightArithmetic(n uint8) uint8 {
	computed := n>>1 | n&types.Bit7
	c.setFlags(computed == 0, false, false, n&types.Bit0 == types.Bit0)
	return computed
}

// shiftRightLogical shifts n right by one bit, filling bit 7 with zero.
//
//	SRL n
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Reset.
//	C - Contains old bit 0 data.
func (c *CPU) shiftRightLogical(n uint8) uint8 {
	computed := n >> 1
	c.setFlags(computed == 0, false, false, n&types.Bit0 == types.Bit0)
	return computed
}

// swap exchanges the upper and lower nibbles of n.
//
//	SWAP n
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Reset.
//	C - Reset.
func (c *CPU) swap(n uint8) uint8 {
	computed := n<<4 | n>>4
	c.setFlags(computed == 0, false, false, false)
	return computed
}

// testBit tests the bit at the given position in n. Only Z and H
// change; N and C keep their pre-existing values.
//
//	BIT b, n
//	b = 0-7
//
// Flags affected:
//
//	Z - Set if bit b of n is 0.
//	N - Not affected.
//	H - Set.
//	C - Not affected.
func (c *CPU) testBit(n uint8, bit uint8) {
	c.setFlags(!utils.Test(n, bit), c.isFlagSet(FlagSubtract), true, c.isFlagSet(FlagCarry))
}
