package dmgcore

import "testing"

// buildTestROM constructs a minimal, header-valid 32KB ROM image (NoMBC)
// for System-level tests, which don't need working game code, only a
// valid header and a PC origin that loops forever to keep the CPU from
// running off into undefined memory.
func buildTestROM() []byte {
	data := make([]byte, 0x8000)
	copy(data[0x134:0x134+16], []byte("TESTROM"))
	data[0x147] = 0x00 // NoMBC
	data[0x148] = 0x00 // 32KB ROM
	data[0x149] = 0x00 // no RAM

	var sum byte
	for a := 0x134; a <= 0x14C; a++ {
		sum = sum - data[a] - 1
	}
	data[0x14D] = sum

	// At the post-boot entry point (0x0100): a NOP, then a JR -2 that jumps
	// back to itself forever, so RunFor/Step never runs off into zeroed
	// memory.
	data[0x0100] = 0x00 // NOP
	data[0x0101] = 0x18 // JR -2
	data[0x0102] = 0xFE
	return data
}

func TestNewPowersOnWithoutBootROM(t *testing.T) {
	sys, err := New(buildTestROM(), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if sys.CartridgeTitle() != "TESTROM" {
		t.Fatalf("CartridgeTitle() = %q, want TESTROM", sys.CartridgeTitle())
	}
}

func TestNewWithoutBootROMReachesPostBootFingerprint(t *testing.T) {
	sys, err := New(buildTestROM(), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !sys.AtPostBootFingerprint() {
		t.Fatalf("expected AtPostBootFingerprint() to be true immediately after powering on without a boot ROM")
	}
}

func TestClockCountMonotonic(t *testing.T) {
	sys, err := New(buildTestROM(), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	prev := sys.ClockCount()
	for i := 0; i < 100; i++ {
		sys.Step()
		next := sys.ClockCount()
		if next <= prev {
			t.Fatalf("clock_count did not strictly increase: prev=%d next=%d", prev, next)
		}
		prev = next
	}
}

func TestWRAMWriteThenReadRoundTrips(t *testing.T) {
	sys, err := New(buildTestROM(), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	sys.bus.Write(0xC000, 0x7E)
	if got := sys.bus.Read(0xC000); got != 0x7E {
		t.Fatalf("WRAM read = %#02x, want 0x7E", got)
	}
}

func TestEchoRAMMirrorsWRAM(t *testing.T) {
	sys, err := New(buildTestROM(), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	sys.bus.Write(0xC010, 0x99)
	if got := sys.bus.Read(0xE010); got != 0x99 {
		t.Fatalf("echo RAM read at 0xE010 = %#02x, want 0x99 mirrored from 0xC010", got)
	}
	sys.bus.Write(0xE020, 0x5A)
	if got := sys.bus.Read(0xC020); got != 0x5A {
		t.Fatalf("write through echo RAM should be visible at 0xC020, got %#02x", got)
	}
}

func TestSetJoypadRaisesInterruptOnPress(t *testing.T) {
	sys, err := New(buildTestROM(), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	sys.bus.writeNoTick(0xFF00, 0x20) // select direction keys
	sys.SetJoypad(0xFF)               // nothing pressed yet, establishes baseline
	sys.SetJoypad(0xFF &^ 0x01)       // press Right
	// IE is not involved in raising IF; check the flag register directly
	// rather than PendingInterrupts, which also gates on IE.
	if sys.bus.ic.flags&0x10 == 0 {
		t.Fatalf("expected joypad interrupt bit set in IF")
	}
}
