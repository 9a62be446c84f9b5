// Package scheduler provides a deterministic cycle clock. The CPU core
// declares the cost of every instruction through a tick hook; wiring the
// hook to a Clock turns those declarations into a monotonic cycle count
// that other subsystems can schedule against.
package scheduler

type Clock struct {
	cycles uint64
}

func NewClock() *Clock {
	return &Clock{}
}

// Tick advances the clock by the given number of cycles.
func (c *Clock) Tick(cycles uint8) {
	c.cycles += uint64(cycles)
}

// Cycles returns the number of cycles consumed since the last reset.
func (c *Clock) Cycles() uint64 {
	return c.cycles
}

func (c *Clock) Reset() {
	c.cycles = 0
}
