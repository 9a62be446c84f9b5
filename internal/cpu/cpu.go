// Package cpu implements the decode/execute core of a Game-Boy-class
// 8-bit CPU: the register file, the table-driven two-tier instruction
// decoder, the ALU with its flag semantics, and the execution engine
// that applies one decoded instruction per step to the architectural
// state. Memory is an external collaborator reached only through the
// Bus interface.
package cpu

import (
	"github.com/dromeda/go-sm83/pkg/log"
)

// Bus is the memory collaborator. Reads and writes may fail when the
// address is outside the collaborator's addressable range; the core
// surfaces such failures as memory faults and never assumes flat,
// unintercepted storage behind the interface.
type Bus interface {
	Read(address uint16) (uint8, error)
	Write(address uint16, value uint8) error
}

// Ticker consumes the fixed cycle cost an instruction declares. A
// caller may wire it to a deterministic clock, to a sleeping pacer, or
// leave it at the default no-op.
type Ticker func(cycles uint8)

// Outcome is the result of a single instruction step.
type Outcome uint8

const (
	// OutcomeContinue means the instruction completed and the next one
	// can be fetched.
	OutcomeContinue Outcome = iota
	// OutcomeHalted means a HALT was executed.
	OutcomeHalted
	// OutcomeFault means the step was aborted by a decode, execution
	// or memory fault; the accompanying error carries the reason.
	OutcomeFault
)

func (o Outcome) String() string {
	switch o {
	case OutcomeContinue:
		return "continue"
	case OutcomeHalted:
		return "halted"
	case OutcomeFault:
		return "fault"
	}
	return "Outcome(?)"
}

// CPU owns the architectural state of one emulated core: the register
// block and the program counter. It must not be shared between logical
// threads of control; one Step call fully decodes and executes exactly
// one instruction before returning.
type CPU struct {
	Registers

	// PC is the program counter; it points at the next instruction.
	PC uint16

	tick Ticker
	log  log.Logger
}

// Opt is a function that modifies a CPU instance.
type Opt func(c *CPU)

// WithTicker wires the cycle-cost consumption hook.
func WithTicker(t Ticker) Opt {
	return func(c *CPU) {
		c.tick = t
	}
}

// WithLogger replaces the default null logger.
func WithLogger(l log.Logger) Opt {
	return func(c *CPU) {
		c.log = l
	}
}

// New creates a CPU with zeroed registers. The cycle hook defaults to
// a no-op and logging to the null logger.
func New(opts ...Opt) *CPU {
	c := &CPU{
		tick: func(uint8) {},
		log:  log.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reset zeroes the register block and the program counter.
func (c *CPU) Reset() {
	c.Registers.Reset()
	c.PC = 0
}

// Step decodes and executes the instruction at PC, fetching through
// bus. Faults abort the step atomically: a fault surfaced after partial
// decode or a failed memory access leaves the registers and PC exactly
// as they were when Step was called.
func (c *CPU) Step(bus Bus) (Outcome, error) {
	pc := c.PC
	instr, err := decode(bus.Read, &pc)
	if err != nil {
		c.log.Debugf("step aborted at 0x%04X: %v", c.PC, err)
		return OutcomeFault, err
	}

	outcome, err := c.execute(instr, bus, pc)
	if err != nil {
		c.log.Debugf("step aborted at 0x%04X: %v", c.PC, err)
		return OutcomeFault, err
	}
	return outcome, nil
}
