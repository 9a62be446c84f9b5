package memory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_ReadWrite(t *testing.T) {
	bus := New()
	require.NoError(t, bus.Write(0x1234, 0x42))

	value, err := bus.Read(0x1234)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x42), value)

	// unwritten storage reads as zero
	value, err = bus.Read(0xFFFF)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), value)
}

func TestBus_OutOfRange(t *testing.T) {
	bus := New(WithSize(0x100))
	assert.Equal(t, 0x100, bus.Size())

	_, err := bus.Read(0x100)
	var aerr *AddressError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, uint16(0x100), aerr.Addr)

	err = bus.Write(0x8000, 0x01)
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, uint16(0x8000), aerr.Addr)
}

func TestBus_Load(t *testing.T) {
	bus := New()
	bus.Load(0x10, []byte{1, 2, 3})
	for i, want := range []uint8{1, 2, 3} {
		value, err := bus.Read(uint16(0x10 + i))
		require.NoError(t, err)
		assert.Equal(t, want, value)
	}

	assert.Panics(t, func() {
		small := New(WithSize(4))
		small.Load(2, []byte{1, 2, 3})
	})
}

func TestBus_ReadHandler(t *testing.T) {
	bus := New()
	bus.Set(0x2000, 0x11)
	bus.AddHandler(0x2000, 0x2FFF, Handler{
		OnRead: func(addr uint16, value uint8) ReadOp {
			if addr == 0x2000 {
				return ReadReplace(0xEE)
			}
			return ReadPassThrough()
		},
	})

	value, err := bus.Read(0x2000)
	require.NoError(t, err)
	assert.Equal(t, uint8(0xEE), value, "handler replaces the backing byte")

	bus.Set(0x2001, 0x22)
	value, err = bus.Read(0x2001)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x22), value, "pass-through reads the backing byte")

	value, err = bus.Read(0x3000)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), value, "outside the range the handler never runs")
}

func TestBus_WriteHandler(t *testing.T) {
	bus := New()
	bus.Set(0x4000, 0x55)
	bus.AddHandler(0x4000, 0x4FFF, Handler{
		OnWrite: func(addr uint16, value uint8) WriteOp {
			switch {
			case addr == 0x4000:
				return WriteBlock()
			case value == 0xFF:
				return WriteReplace(0x7F)
			}
			return WritePassThrough()
		},
	})

	// blocked: the backing byte keeps its value
	require.NoError(t, bus.Write(0x4000, 0x99))
	value, _ := bus.Read(0x4000)
	assert.Equal(t, uint8(0x55), value)

	// replaced
	require.NoError(t, bus.Write(0x4001, 0xFF))
	value, _ = bus.Read(0x4001)
	assert.Equal(t, uint8(0x7F), value)

	// passed through
	require.NoError(t, bus.Write(0x4002, 0x12))
	value, _ = bus.Read(0x4002)
	assert.Equal(t, uint8(0x12), value)
}

func TestBus_OverlappingHandlers(t *testing.T) {
	bus := New()
	bus.AddHandler(0x0000, 0xFFFF, Handler{
		OnRead: func(uint16, uint8) ReadOp { return ReadReplace(0x01) },
	})
	bus.AddHandler(0x1000, 0x1FFF, Handler{
		OnRead: func(uint16, uint8) ReadOp { return ReadReplace(0x02) },
	})

	value, err := bus.Read(0x1000)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x02), value, "the later registration wins")

	value, err = bus.Read(0x0500)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x01), value)
}

func TestAddressError_Message(t *testing.T) {
	err := error(&AddressError{Addr: 0xBEEF})
	assert.Equal(t, "memory: address 0xBEEF out of range", err.Error())
	assert.True(t, errors.As(err, new(*AddressError)))
}
