// Package memory provides the bus the CPU core fetches and executes
// against: flat byte-addressable storage with optional per-range
// handlers that can observe, replace or block individual accesses, the
// way memory-mapped peripherals intercept a region of the address
// space.
package memory

import (
	"fmt"

	"github.com/dromeda/go-sm83/pkg/log"
)

// DefaultSize is the full 16-bit address space.
const DefaultSize = 0x10000

// AddressError reports an access outside the bus's addressable range.
type AddressError struct {
	Addr uint16
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("memory: address 0x%04X out of range", e.Addr)
}

// ReadOp is a handler's verdict on an intercepted read.
type ReadOp struct {
	replace bool
	value   uint8
}

// ReadPassThrough lets the read return the backing byte.
func ReadPassThrough() ReadOp { return ReadOp{} }

// ReadReplace substitutes value for the backing byte.
func ReadReplace(value uint8) ReadOp { return ReadOp{replace: true, value: value} }

type writeMode uint8

const (
	writePass writeMode = iota
	writeReplace
	writeBlock
)

// WriteOp is a handler's verdict on an intercepted write.
type WriteOp struct {
	mode  writeMode
	value uint8
}

// WritePassThrough stores the written byte unchanged.
func WritePassThrough() WriteOp { return WriteOp{} }

// WriteReplace stores value instead of the written byte.
func WriteReplace(value uint8) WriteOp { return WriteOp{mode: writeReplace, value: value} }

// WriteBlock discards the write; the backing byte keeps its value.
func WriteBlock() WriteOp { return WriteOp{mode: writeBlock} }

// Handler intercepts accesses to the inclusive address range
// [Start, End]. A nil hook leaves that direction uninterposed.
type Handler struct {
	Start, End uint16

	OnRead  func(addr uint16, value uint8) ReadOp
	OnWrite func(addr uint16, value uint8) WriteOp
}

// Bus is flat storage behind the CPU's memory interface. The zero-value
// Bus is not usable; construct one with New.
type Bus struct {
	data     []uint8
	handlers []Handler
	log      log.Logger
}

// Opt is a function that modifies a Bus instance.
type Opt func(b *Bus)

// WithSize limits the addressable range to size bytes. Accesses at or
// beyond it fail with an AddressError.
func WithSize(size int) Opt {
	return func(b *Bus) {
		b.data = make([]uint8, size)
	}
}

// WithLogger replaces the default null logger.
func WithLogger(l log.Logger) Opt {
	return func(b *Bus) {
		b.log = l
	}
}

// New creates a zero-filled bus covering the full 16-bit address space
// unless WithSize narrows it.
func New(opts ...Opt) *Bus {
	b := &Bus{
		data: make([]uint8, DefaultSize),
		log:  log.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddHandler registers a handler for the inclusive range [start, end].
// Later registrations win when ranges overlap.
func (b *Bus) AddHandler(start, end uint16, h Handler) {
	h.Start, h.End = start, end
	b.handlers = append(b.handlers, h)
}

func (b *Bus) readHandler(addr uint16) *Handler {
	for i := len(b.handlers) - 1; i >= 0; i-- {
		h := &b.handlers[i]
		if addr >= h.Start && addr <= h.End && h.OnRead != nil {
			return h
		}
	}
	return nil
}

func (b *Bus) writeHandler(addr uint16) *Handler {
	for i := len(b.handlers) - 1; i >= 0; i-- {
		h := &b.handlers[i]
		if addr >= h.Start && addr <= h.End && h.OnWrite != nil {
			return h
		}
	}
	return nil
}

// Read returns the byte at addr, subject to handler interposition.
func (b *Bus) Read(addr uint16) (uint8, error) {
	if int(addr) >= len(b.data) {
		return 0, &AddressError{Addr: addr}
	}
	value := b.data[addr]
	if h := b.readHandler(addr); h != nil {
		if op := h.OnRead(addr, value); op.replace {
			return op.value, nil
		}
	}
	return value, nil
}

// Write stores value at addr, subject to handler interposition.
func (b *Bus) Write(addr uint16, value uint8) error {
	if int(addr) >= len(b.data) {
		return &AddressError{Addr: addr}
	}
	if h := b.writeHandler(addr); h != nil {
		switch op := h.OnWrite(addr, value); op.mode {
		case writeBlock:
			b.log.Debugf("blocked write of 0x%02X to 0x%04X", value, addr)
			return nil
		case writeReplace:
			value = op.value
		}
	}
	b.data[addr] = value
	return nil
}

// Load copies data into the backing store starting at addr, bypassing
// handlers. It panics if the copy would run past the end of storage.
func (b *Bus) Load(addr uint16, data []byte) {
	if int(addr)+len(data) > len(b.data) {
		panic(fmt.Sprintf("memory: load of %d bytes at 0x%04X overflows storage", len(data), addr))
	}
	copy(b.data[addr:], data)
}

// Set stores one byte directly, bypassing handlers.
func (b *Bus) Set(addr uint16, value uint8) {
	b.data[addr] = value
}

// Size returns the addressable range in bytes.
func (b *Bus) Size() int {
	return len(b.data)
}
