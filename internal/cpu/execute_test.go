package cpu

import (
	"errors"
	"testing"

	"github.com/dromeda/go-sm83/internal/memory"
	"github.com/dromeda/go-sm83/internal/scheduler"
)

func newTestCPU(program ...byte) (*CPU, *memory.Bus) {
	bus := memory.New()
	bus.Load(0, program)
	return New(), bus
}

func step(t *testing.T, c *CPU, bus *memory.Bus) {
	t.Helper()
	outcome, err := c.Step(bus)
	if err != nil {
		t.Fatalf("step at 0x%04X: %v", c.PC, err)
	}
	if outcome != OutcomeContinue {
		t.Fatalf("step at 0x%04X: outcome %s", c.PC, outcome)
	}
}

func TestExecute_Loads(t *testing.T) {
	// 0x06 - LD B,d8
	c, bus := newTestCPU(0x06, 0x2A)
	step(t, c, bus)
	if got := c.Read8(RegB); got != 0x2A {
		t.Errorf("expected B=0x2A, got 0x%02X", got)
	}
	if c.PC != 2 {
		t.Errorf("expected PC=2, got %d", c.PC)
	}

	// 0x50 - LD D,B
	c, bus = newTestCPU(0x50)
	c.Write8(RegB, 0x77)
	step(t, c, bus)
	if got := c.Read8(RegD); got != 0x77 {
		t.Errorf("expected D=0x77, got 0x%02X", got)
	}

	// 0x02 - LD (BC),A
	c, bus = newTestCPU(0x02)
	c.Write8(RegA, 0x42)
	c.Write16(RegBC, 0x1234)
	step(t, c, bus)
	if got, _ := bus.Read(0x1234); got != 0x42 {
		t.Errorf("expected 0x42 at 0x1234, got 0x%02X", got)
	}

	// 0xEA - LD (a16),A
	c, bus = newTestCPU(0xEA, 0x00, 0x80)
	c.Write8(RegA, 0x99)
	step(t, c, bus)
	if got, _ := bus.Read(0x8000); got != 0x99 {
		t.Errorf("expected 0x99 at 0x8000, got 0x%02X", got)
	}
	if c.PC != 3 {
		t.Errorf("expected PC=3, got %d", c.PC)
	}

	// 0x36 - LD (HL),d8
	c, bus = newTestCPU(0x36, 0x5A)
	c.Write16(RegHL, 0x2000)
	step(t, c, bus)
	if got, _ := bus.Read(0x2000); got != 0x5A {
		t.Errorf("expected 0x5A at 0x2000, got 0x%02X", got)
	}

	// 0x11 - LD DE,d16
	c, bus = newTestCPU(0x11, 0xCD, 0xAB)
	step(t, c, bus)
	if got := c.Read16(RegDE); got != 0xABCD {
		t.Errorf("expected DE=0xABCD, got 0x%04X", got)
	}
}

func TestExecute_PostIncrementDecrement(t *testing.T) {
	// 0x22 - LD (HL+),A bumps HL after the store
	c, bus := newTestCPU(0x22)
	c.Write8(RegA, 0x11)
	c.Write16(RegHL, 0x3000)
	step(t, c, bus)
	if got, _ := bus.Read(0x3000); got != 0x11 {
		t.Errorf("expected 0x11 at 0x3000, got 0x%02X", got)
	}
	if got := c.Read16(RegHL); got != 0x3001 {
		t.Errorf("expected HL=0x3001, got 0x%04X", got)
	}

	// 0x3A - LD A,(HL-) loads then decrements
	c, bus = newTestCPU(0x3A)
	bus.Set(0x3000, 0x77)
	c.Write16(RegHL, 0x3000)
	step(t, c, bus)
	if got := c.Read8(RegA); got != 0x77 {
		t.Errorf("expected A=0x77, got 0x%02X", got)
	}
	if got := c.Read16(RegHL); got != 0x2FFF {
		t.Errorf("expected HL=0x2FFF, got 0x%04X", got)
	}
}

func TestExecute_Arithmetic(t *testing.T) {
	// 0x80 - ADD A,B
	c, bus := newTestCPU(0x80)
	c.Write8(RegA, 0x3A)
	c.Write8(RegB, 0xC6)
	step(t, c, bus)
	if got := c.Read8(RegA); got != 0x00 {
		t.Errorf("expected A=0x00, got 0x%02X", got)
	}
	if !c.isFlagSet(FlagZero) || !c.isFlagSet(FlagCarry) || !c.isFlagSet(FlagHalfCarry) {
		t.Errorf("expected Z, H and C after 0x3A + 0xC6")
	}

	// 0x96 - SUB (HL)
	c, bus = newTestCPU(0x96)
	c.Write8(RegA, 0x10)
	c.Write16(RegHL, 0x4000)
	bus.Set(0x4000, 0x20)
	step(t, c, bus)
	if got := c.Read8(RegA); got != 0xF0 {
		t.Errorf("expected A=0xF0, got 0x%02X", got)
	}
	if !c.isFlagSet(FlagCarry) || !c.isFlagSet(FlagSubtract) {
		t.Errorf("expected N and C on borrow")
	}

	// 0xFE - CP d8 leaves A alone
	c, bus = newTestCPU(0xFE, 0x42)
	c.Write8(RegA, 0x42)
	step(t, c, bus)
	if got := c.Read8(RegA); got != 0x42 {
		t.Errorf("expected A untouched, got 0x%02X", got)
	}
	if !c.isFlagSet(FlagZero) {
		t.Errorf("expected Z after an equal compare")
	}

	// 0x09 - ADD HL,BC
	c, bus = newTestCPU(0x09)
	c.Write16(RegHL, 0x0FFF)
	c.Write16(RegBC, 0x0001)
	step(t, c, bus)
	if got := c.Read16(RegHL); got != 0x1000 {
		t.Errorf("expected HL=0x1000, got 0x%04X", got)
	}
	if !c.isFlagSet(FlagHalfCarry) {
		t.Errorf("expected H on carry out of bit 11")
	}
}

func TestExecute_IncDec(t *testing.T) {
	// 0x3C - INC A from 0xFF wraps, preserves C
	c, bus := newTestCPU(0x3C)
	c.Write8(RegA, 0xFF)
	c.setFlags(false, false, false, true)
	step(t, c, bus)
	if got := c.Read8(RegA); got != 0x00 {
		t.Errorf("expected A=0x00, got 0x%02X", got)
	}
	if !c.isFlagSet(FlagZero) || !c.isFlagSet(FlagHalfCarry) || !c.isFlagSet(FlagCarry) {
		t.Errorf("expected Z, H and the preserved C")
	}

	// 0x35 - DEC (HL)
	c, bus = newTestCPU(0x35)
	c.Write16(RegHL, 0x5000)
	bus.Set(0x5000, 0x01)
	step(t, c, bus)
	if got, _ := bus.Read(0x5000); got != 0x00 {
		t.Errorf("expected 0x00 at 0x5000, got 0x%02X", got)
	}
	if !c.isFlagSet(FlagZero) || !c.isFlagSet(FlagSubtract) {
		t.Errorf("expected Z and N")
	}

	// 0x03 - INC BC, no flags
	c, bus = newTestCPU(0x03)
	c.Write16(RegBC, 0x00FF)
	c.setFlags(true, true, true, true)
	step(t, c, bus)
	if got := c.Read16(RegBC); got != 0x0100 {
		t.Errorf("expected BC=0x0100, got 0x%04X", got)
	}
	if c.Read8(RegF) != 0xF0 {
		t.Errorf("wide increment must not touch flags, F=0x%02X", c.Read8(RegF))
	}

	// 0x0B - DEC BC saturates at zero
	c, bus = newTestCPU(0x0B)
	c.setFlags(true, false, false, true)
	step(t, c, bus)
	if got := c.Read16(RegBC); got != 0 {
		t.Errorf("expected BC to stay 0, got 0x%04X", got)
	}
	if !c.isFlagSet(FlagZero) || !c.isFlagSet(FlagCarry) {
		t.Errorf("wide decrement must not touch flags")
	}
}

func TestExecute_Extended(t *testing.T) {
	// CB 0xDE - SET 3,(HL)
	c, bus := newTestCPU(0xCB, 0xDE)
	c.Write16(RegHL, 0x6000)
	step(t, c, bus)
	if got, _ := bus.Read(0x6000); got != 0x08 {
		t.Errorf("expected 0x08 at 0x6000, got 0x%02X", got)
	}
	if c.PC != 2 {
		t.Errorf("expected PC=2, got %d", c.PC)
	}

	// CB 0x80 - RES 0,B
	c, bus = newTestCPU(0xCB, 0x80)
	c.Write8(RegB, 0xFF)
	step(t, c, bus)
	if got := c.Read8(RegB); got != 0xFE {
		t.Errorf("expected B=0xFE, got 0x%02X", got)
	}

	// CB 0x40 - BIT 0,B preserves N and C
	c, bus = newTestCPU(0xCB, 0x40)
	c.setFlags(false, true, false, true)
	step(t, c, bus)
	if !c.isFlagSet(FlagZero) || !c.isFlagSet(FlagSubtract) || !c.isFlagSet(FlagCarry) {
		t.Errorf("BIT must set Z for a clear bit and keep N and C, F=0x%02X", c.Read8(RegF))
	}

	// CB 0x37 - SWAP A
	c, bus = newTestCPU(0xCB, 0x37)
	c.Write8(RegA, 0xAB)
	step(t, c, bus)
	if got := c.Read8(RegA); got != 0xBA {
		t.Errorf("expected A=0xBA, got 0x%02X", got)
	}

	// CB 0x16 - RL (HL)
	c, bus = newTestCPU(0xCB, 0x16)
	c.Write16(RegHL, 0x6000)
	bus.Set(0x6000, 0x80)
	step(t, c, bus)
	if got, _ := bus.Read(0x6000); got != 0x00 {
		t.Errorf("expected 0x00 at 0x6000, got 0x%02X", got)
	}
	if !c.isFlagSet(FlagCarry) || !c.isFlagSet(FlagZero) {
		t.Errorf("expected C and Z from RL of 0x80")
	}
}

func TestExecute_Halt(t *testing.T) {
	c, bus := newTestCPU(0x76)
	outcome, err := c.Step(bus)
	if err != nil {
		t.Fatalf("halt: %v", err)
	}
	if outcome != OutcomeHalted {
		t.Errorf("expected %s, got %s", OutcomeHalted, outcome)
	}
	if c.PC != 1 {
		t.Errorf("expected PC=1 past the HALT, got %d", c.PC)
	}
}

func TestExecute_DecodeFault(t *testing.T) {
	c, bus := newTestCPU(0xD3)
	c.Write8(RegA, 0x42)
	outcome, err := c.Step(bus)
	if outcome != OutcomeFault {
		t.Fatalf("expected %s, got %s", OutcomeFault, outcome)
	}
	var derr *DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("expected a DecodeError, got %v", err)
	}
	if c.PC != 0 || c.Read8(RegA) != 0x42 {
		t.Errorf("a faulting step must leave the state untouched")
	}
}

func TestExecute_MemoryFault(t *testing.T) {
	// a narrow bus turns high addresses into memory faults
	bus := memory.New(memory.WithSize(0x100))
	bus.Load(0, []byte{0xFA, 0x00, 0x80}) // LD A,(0x8000)
	c := New()
	c.Write8(RegA, 0x42)

	outcome, err := c.Step(bus)
	if outcome != OutcomeFault {
		t.Fatalf("expected %s, got %s", OutcomeFault, outcome)
	}
	var aerr *memory.AddressError
	if !errors.As(err, &aerr) {
		t.Fatalf("expected an AddressError, got %v", err)
	}
	if aerr.Addr != 0x8000 {
		t.Errorf("fault names 0x%04X, want 0x8000", aerr.Addr)
	}
	if c.PC != 0 || c.Read8(RegA) != 0x42 {
		t.Errorf("a faulting step must leave the state untouched")
	}

	// the HL bump of a post-decrement load stays out on a fault too
	bus = memory.New(memory.WithSize(0x100))
	bus.Load(0, []byte{0x3A}) // LD A,(HL-)
	c = New()
	c.Write16(RegHL, 0x8000)
	if outcome, _ := c.Step(bus); outcome != OutcomeFault {
		t.Fatalf("expected a fault reading through 0x8000")
	}
	if got := c.Read16(RegHL); got != 0x8000 {
		t.Errorf("expected HL untouched at 0x8000, got 0x%04X", got)
	}
}

func TestExecute_InvalidWideOperand(t *testing.T) {
	// only a malformed table can produce a non-head wide operand; it
	// surfaces as an execution fault, not a panic
	c, bus := newTestCPU()
	outcome, err := c.execute(Instruction{Kind: KindPush, Src: RegC}, bus, 1)
	if outcome != OutcomeFault {
		t.Fatalf("expected %s, got %s", OutcomeFault, outcome)
	}
	var eerr *ExecutionError
	if !errors.As(err, &eerr) {
		t.Fatalf("expected an ExecutionError, got %v", err)
	}
	if c.PC != 0 {
		t.Errorf("expected PC untouched, got 0x%04X", c.PC)
	}
}

func TestExecute_Cycles(t *testing.T) {
	clock := scheduler.NewClock()
	c := New(WithTicker(clock.Tick))
	bus := memory.New()
	bus.Load(0, []byte{
		0x00,       // NOP            4
		0x06, 0x2A, // LD B,d8        8
		0x80,       // ADD A,B        4
		0xCB, 0x37, // SWAP A         8
		0xCB, 0x46, // BIT 0,(HL)    12
		0x34,       // INC (HL)      12
	})

	for i := 0; i < 6; i++ {
		step(t, c, bus)
	}
	if got := clock.Cycles(); got != 48 {
		t.Errorf("expected 48 cycles, got %d", got)
	}
}
