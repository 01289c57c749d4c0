package serial

import "testing"

func TestTransferCompletesAfterEightShiftTicks(t *testing.T) {
	p := NewPort()
	var got byte
	var gotCount int
	p.OnByteOut(func(b byte) {
		got = b
		gotCount++
	})

	p.Write(0xFF01, 0xAA, 0)
	p.Write(0xFF02, 0x81, 0) // start bit + internal clock

	for clk := uint64(0); clk < 8*512; clk += 4 {
		p.Tick(clk)
	}

	if gotCount != 1 {
		t.Fatalf("expected exactly one completed transfer, got %d", gotCount)
	}
	if got != 0xAA {
		t.Fatalf("OnByteOut got %#02x, want 0xAA", got)
	}
	if p.Read(0xFF01) != 0xFF {
		t.Fatalf("SB should read 0xFF after transfer completes, got %#02x", p.Read(0xFF01))
	}
	if p.sc&0x80 != 0 {
		t.Fatalf("SC start bit should clear after transfer completes")
	}
}

func TestNoTransferWithoutStartBit(t *testing.T) {
	p := NewPort()
	fired := false
	p.OnByteOut(func(byte) { fired = true })

	p.Write(0xFF02, 0x01, 0) // internal clock selected but bit 7 not set
	for clk := uint64(0); clk < 8*512; clk += 4 {
		p.Tick(clk)
	}
	if fired {
		t.Fatalf("transfer should not start without the start bit set")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	p := NewPort()
	p.Write(0xFF01, 0x55, 0)
	p.Write(0xFF02, 0x81, 100)

	snap := p.Export()

	restored := NewPort()
	restored.Import(snap)

	if restored.Read(0xFF01) != p.Read(0xFF01) {
		t.Fatalf("SB did not round trip through Export/Import")
	}
	if restored.sc != p.sc || restored.transferStartedAt != p.transferStartedAt {
		t.Fatalf("internal state did not round trip through Export/Import")
	}
}
