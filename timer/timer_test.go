package timer

import (
	"testing"

	"github.com/tholian-dev/dmgcore/addr"
)

func newTestTimer() (*Timer, *int) {
	fired := 0
	return New(func() { fired++ }), &fired
}

func TestTIMAIncrementsOnFallingEdge(t *testing.T) {
	tm, _ := newTestTimer()
	tm.Write(addr.TAC, 0x05) // enabled, bit 3 (clock/16)

	// bit 3 of the counter toggles every 8 T-cycles (a 16 T-cycle period);
	// ticking 32 T-cycles covers two full periods, so a falling edge occurs.
	tm.Tick(32)

	if tm.Read(addr.TIMA) == 0 {
		t.Fatalf("expected TIMA to have incremented at least once, stayed at 0")
	}
}

func TestTIMADisabledNeverIncrements(t *testing.T) {
	tm, _ := newTestTimer()
	tm.Write(addr.TAC, 0x01) // clock select set but enable bit (0x04) clear
	tm.Tick(10_000)
	if tm.Read(addr.TIMA) != 0 {
		t.Fatalf("TIMA incremented while timer disabled: %d", tm.Read(addr.TIMA))
	}
}

func TestTIMAOverflowDelaysReloadAndInterrupt(t *testing.T) {
	tm, fired := newTestTimer()
	tm.Write(addr.TAC, 0x04) // enabled, bit 9 (clock/1024)
	tm.Write(addr.TMA, 0x42)

	// force TIMA to the edge of overflow via direct register access
	// (simulating many prior increments) then drive exactly one more edge.
	for i := 0; i < 255; i++ {
		tm.counter = 0
		tm.tima = byte(i)
	}
	tm.tima = 0xFF
	tm.counter = 0
	tm.lastEdgeHigh = true // pretend we're already past the watched bit's rising edge

	tm.Tick(1024) // cross bit 9 from high to low

	if tm.Read(addr.TIMA) != 0 {
		t.Fatalf("TIMA should read 0x00 during the overflow delay window, got %#02x", tm.Read(addr.TIMA))
	}
	if *fired != 0 {
		t.Fatalf("interrupt should not fire until the delay elapses")
	}

	tm.Tick(4) // the 4 T-cycle delay

	if tm.Read(addr.TIMA) != 0x42 {
		t.Fatalf("TIMA should reload from TMA after the delay, got %#02x", tm.Read(addr.TIMA))
	}
	if *fired != 1 {
		t.Fatalf("expected exactly one timer interrupt, got %d", *fired)
	}
}

func TestTIMAWriteDuringOverflowWindowCancelsReload(t *testing.T) {
	tm, fired := newTestTimer()
	tm.Write(addr.TAC, 0x04) // enabled, bit 9 (clock/1024)
	tm.Write(addr.TMA, 0x42)

	tm.tima = 0xFF
	tm.counter = 0
	tm.lastEdgeHigh = true

	tm.Tick(1024) // cross bit 9 from high to low, entering the overflow delay

	if tm.overflowTCycles == 0 {
		t.Fatalf("precondition: expected the overflow delay window to be active")
	}

	tm.Write(addr.TIMA, 0x17) // a write inside the window cancels the reload

	if tm.overflowTCycles != 0 {
		t.Fatalf("writing TIMA during the overflow window should cancel the pending reload")
	}
	if tm.Read(addr.TIMA) != 0x17 {
		t.Fatalf("TIMA should hold the written value, got %#02x", tm.Read(addr.TIMA))
	}

	tm.Tick(4) // past where the reload/interrupt would have landed

	if tm.Read(addr.TIMA) != 0x17 {
		t.Fatalf("TIMA should not have reloaded from TMA, got %#02x", tm.Read(addr.TIMA))
	}
	if *fired != 0 {
		t.Fatalf("the interrupt scheduled by the overflow should have been cancelled, fired=%d", *fired)
	}
}

func TestDIVWriteResetsCounterAndDIVRegister(t *testing.T) {
	tm, _ := newTestTimer()
	tm.Tick(5000)
	if tm.Read(addr.DIV) == 0 {
		t.Fatalf("DIV should have advanced after 5000 T-cycles")
	}
	tm.Write(addr.DIV, 0xFF) // any value write resets DIV
	if tm.Read(addr.DIV) != 0 {
		t.Fatalf("writing DIV should reset it to 0, got %#02x", tm.Read(addr.DIV))
	}
}

func TestSetSeedPrimesDivider(t *testing.T) {
	tm, _ := newTestTimer()
	tm.SetSeed(0xABCC)
	if tm.Read(addr.DIV) != 0xAB {
		t.Fatalf("DIV after SetSeed(0xABCC) = %#02x, want 0xAB", tm.Read(addr.DIV))
	}
}
