package dmgcore

import "testing"

func TestSaveStateLoadStateRoundTrip(t *testing.T) {
	sys, err := New(buildTestROM(), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	sys.bus.Write(0xC000, 0x42)
	for i := 0; i < 50; i++ {
		sys.Step()
	}
	wantClock := sys.ClockCount()
	wantPC := sys.cpu.PC()

	blob, err := sys.SaveState()
	if err != nil {
		t.Fatalf("SaveState() error = %v", err)
	}

	// mutate state, then restore it
	sys.bus.Write(0xC000, 0x00)
	for i := 0; i < 10; i++ {
		sys.Step()
	}

	if err := sys.LoadState(blob); err != nil {
		t.Fatalf("LoadState() error = %v", err)
	}

	if sys.ClockCount() != wantClock {
		t.Fatalf("clock_count after LoadState = %d, want %d", sys.ClockCount(), wantClock)
	}
	if sys.cpu.PC() != wantPC {
		t.Fatalf("PC after LoadState = %#04x, want %#04x", sys.cpu.PC(), wantPC)
	}
	if got := sys.bus.Read(0xC000); got != 0x42 {
		t.Fatalf("WRAM after LoadState = %#02x, want 0x42", got)
	}
}

func TestLoadStateRejectsBadMagic(t *testing.T) {
	sys, err := New(buildTestROM(), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	err = sys.LoadState([]byte("not a save state at all"))
	if err == nil {
		t.Fatalf("expected an error loading a bad blob")
	}
	lse, ok := err.(*LoadStateError)
	if !ok {
		t.Fatalf("expected *LoadStateError, got %T", err)
	}
	if lse != errBadMagic {
		t.Fatalf("expected errBadMagic, got %v", lse)
	}
}

func TestLoadStateRejectsUnsupportedVersion(t *testing.T) {
	sys, err := New(buildTestROM(), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	blob, err := sys.SaveState()
	if err != nil {
		t.Fatalf("SaveState() error = %v", err)
	}
	blob[len(saveStateMagic)] = 99 // corrupt the version byte
	if err := sys.LoadState(blob); err != errUnsupportedVersion {
		t.Fatalf("expected errUnsupportedVersion, got %v", err)
	}
}
