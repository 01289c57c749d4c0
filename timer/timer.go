// Package timer implements the system's free-running 16-bit divider and
// the DIV/TIMA/TMA/TAC register file built on top of it, including the
// falling-edge detection quirk that governs when TIMA actually increments.
package timer

import (
	"github.com/tholian-dev/dmgcore/addr"
	"github.com/tholian-dev/dmgcore/bit"
)

// tacBitPosition maps TAC's clock-select bits to the divider bit watched
// for a falling edge.
var tacBitPosition = [4]uint8{9, 3, 5, 7}

// Timer owns the internal divider counter and the TIMA overflow-then-reload
// delay: TIMA reads 0x00 for one M-cycle after it overflows, and the timer
// interrupt and TMA reload both land one M-cycle later still.
type Timer struct {
	counter      uint16
	lastEdgeHigh bool
	overflowTCycles int
	pendingInterrupt bool

	div, tima, tma, tac byte

	requestInterrupt func()
}

func New(requestInterrupt func()) *Timer {
	return &Timer{requestInterrupt: requestInterrupt}
}

// SetSeed primes the divider to a known value, used by boot-ROM skip to
// match the hardware's post-boot DIV value.
func (t *Timer) SetSeed(seed uint16) {
	t.counter = seed
	t.lastEdgeHigh = false
	t.overflowTCycles = 0
	t.pendingInterrupt = false
	t.div = byte(t.counter >> 8)
}

// Tick advances the divider (and TIMA, when enabled) by tCycles T-cycles.
func (t *Timer) Tick(tCycles int) {
	if t.pendingInterrupt {
		t.requestInterrupt()
		t.pendingInterrupt = false
	}

	if t.overflowTCycles > 0 {
		t.overflowTCycles -= tCycles
		if t.overflowTCycles <= 0 {
			t.tima = t.tma
			t.requestInterrupt()
			t.overflowTCycles = 0
		}
	}

	for i := 0; i < tCycles; i++ {
		t.counter++
		t.div = byte(t.counter >> 8)
		t.stepTIMA()
	}
}

func (t *Timer) stepTIMA() {
	if t.overflowTCycles > 0 {
		return
	}
	enabled := t.tac&0x04 != 0
	if !enabled {
		t.lastEdgeHigh = false
		return
	}

	bitPos := tacBitPosition[t.tac&0x03]
	edgeHigh := bit.IsSet16(bitPos, t.counter)
	if t.lastEdgeHigh && !edgeHigh {
		if t.tima == 0xFF {
			t.tima = 0x00
			t.overflowTCycles = 4
		} else {
			t.tima++
		}
	}
	t.lastEdgeHigh = edgeHigh
}

func (t *Timer) Read(address uint16) byte {
	switch address {
	case addr.DIV:
		return t.div
	case addr.TIMA:
		return t.tima
	case addr.TMA:
		return t.tma
	case addr.TAC:
		return t.tac | 0xF8
	default:
		return 0xFF
	}
}

// Write handles the DIV-reset quirk: any write to DIV, regardless of
// value, resets the whole internal counter to zero. Since that can
// itself cross a watched bit from 1 to 0, it can spuriously increment
// TIMA, which is reproduced here by routing it through stepTIMA via a
// synthetic one-cycle tick rather than clearing the edge state blind.
func (t *Timer) Write(address uint16, value byte) {
	switch address {
	case addr.DIV:
		t.counter = 0
		t.div = 0
		t.stepTIMA()
	case addr.TIMA:
		// A write landing inside the overflow-to-reload delay window
		// cancels the scheduled TMA reload and interrupt outright, rather
		// than being dropped or merely overwritten on the next Tick.
		t.tima = value
		t.overflowTCycles = 0
		t.pendingInterrupt = false
	case addr.TMA:
		t.tma = value
	case addr.TAC:
		t.tac = value & 0x07
	}
}

// Snapshot is the plain-data form of Timer state used by save states.
type Snapshot struct {
	Counter          uint16
	LastEdgeHigh     bool
	OverflowTCycles  int32
	PendingInterrupt bool
	DIV, TIMA, TMA, TAC byte
}

func (t *Timer) Export() Snapshot {
	return Snapshot{
		Counter:          t.counter,
		LastEdgeHigh:     t.lastEdgeHigh,
		OverflowTCycles:  int32(t.overflowTCycles),
		PendingInterrupt: t.pendingInterrupt,
		DIV:              t.div,
		TIMA:             t.tima,
		TMA:              t.tma,
		TAC:              t.tac,
	}
}

func (t *Timer) Import(s Snapshot) {
	t.counter = s.Counter
	t.lastEdgeHigh = s.LastEdgeHigh
	t.overflowTCycles = int(s.OverflowTCycles)
	t.pendingInterrupt = s.PendingInterrupt
	t.div, t.tima, t.tma, t.tac = s.DIV, s.TIMA, s.TMA, s.TAC
}
