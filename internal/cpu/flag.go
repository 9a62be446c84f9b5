package cpu

type Flag = uint8

const (
	FlagZero      Flag = 7
	FlagSubtract  Flag = 6
	FlagHalfCarry Flag = 5
	FlagCarry     Flag = 4
)

// isFlagSet returns true if the given flag is set.
func (c *CPU) isFlagSet(flag Flag) bool {
	return c.Read8(RegF)&(1<<flag) != 0
}

// setFlags overwrites the whole flag register. The lower nibble of F is
// always zero.
func (c *CPU) setFlags(z, n, h, carry bool) {
	var f uint8
	if z {
		f |= 1 << FlagZero
	}
	if n {
		f |= 1 << FlagSubtract
	}
	if h {
		f |= 1 << FlagHalfCarry
	}
	if carry {
		f |= 1 << FlagCarry
	}
	c.Write8(RegF, f)
}

// Condition selects which flag state a conditional branch tests. The
// encoding is deliberately a table value rather than a raw flag mask:
// the conventional meaning of NZ/NC ("flag clear") cannot be expressed
// as required-set bits alone.
type Condition uint8

const (
	CondNone Condition = iota
	CondNotZero
	CondZero
	CondNotCarry
	CondCarry
)

var conditionNames = [...]string{"", "NZ", "Z", "NC", "C"}

func (cond Condition) String() string {
	if int(cond) < len(conditionNames) {
		return conditionNames[cond]
	}
	return "?"
}

// conditionMet reports whether a conditional branch is taken under the
// current flag byte.
func (c *CPU) conditionMet(cond Condition) bool {
	switch cond {
	case CondNotZero:
		return !c.isFlagSet(FlagZero)
	case CondZero:
		return c.isFlagSet(FlagZero)
	case CondNotCarry:
		return !c.isFlagSet(FlagCarry)
	case CondCarry:
		return c.isFlagSet(FlagCarry)
	}
	return false
}
