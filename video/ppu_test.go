package video

import (
	"testing"

	"github.com/tholian-dev/dmgcore/addr"
)

func newTestPPU() (*PPU, *[]uint8) {
	var fired []uint8
	p := New(func(bit uint8) { fired = append(fired, bit) })
	return p, &fired
}

func TestDMACopiesExactly160BytesOverOneHundredSixtyMCycles(t *testing.T) {
	p, _ := newTestPPU()
	source := make([]byte, 0x100)
	for i := range source {
		source[i] = byte(i)
	}
	p.StartDMA(0xC0) // source base 0xC000

	copyFn := func(src uint16) byte { return source[src-0xC000] }
	for i := 0; i < 160; i++ {
		if !p.DMAActive() {
			t.Fatalf("DMA ended early, after %d of 160 M-cycles", i)
		}
		p.StepDMA(copyFn)
	}
	if p.DMAActive() {
		t.Fatalf("DMA should have completed after exactly 160 M-cycles")
	}
	for i := 0; i < 0xA0; i++ {
		if p.OAM[i] != byte(i) {
			t.Fatalf("OAM[%d] = %#02x, want %#02x", i, p.OAM[i], byte(i))
		}
	}
}

func TestLYCMatchAtWraparoundToLineZero(t *testing.T) {
	p, fired := newTestPPU()
	p.WriteRegister(addr.LYC, 0x00)
	p.WriteRegister(addr.STAT, 0x40) // enable LYC=LY interrupt source

	// run one full frame's worth of dots: the PPU powers on in HBlank of
	// line 0 (204 dots), so LY wraps from 153 back to 0 after 69972 dots
	// and is still on line 0 after 70224.
	for i := 0; i < 70224; i++ {
		p.Tick(1)
	}

	found := false
	for _, b := range *fired {
		if b == 1 { // STAT
			found = true
		}
	}
	if !found {
		t.Fatalf("expected at least one STAT interrupt from the LYC=0 wraparound match")
	}
	if p.ReadRegister(addr.STAT)&0x04 == 0 {
		t.Fatalf("STAT coincidence flag should be set once LY wraps back to match LYC=0")
	}
}

func TestSTATBlockingDoesNotRetriggerWhileLineStaysHigh(t *testing.T) {
	p, fired := newTestPPU()
	p.WriteRegister(addr.STAT, 0x08) // enable HBlank STAT source only

	for i := 0; i < scanlineDots*3; i++ {
		p.Tick(1)
	}

	count := 0
	for _, b := range *fired {
		if b == 1 {
			count++
		}
	}
	// the STAT line should only pulse once per HBlank entry (edge-triggered),
	// not once per dot spent in HBlank.
	if count == 0 {
		t.Fatalf("expected at least one HBlank STAT interrupt")
	}
	if count > 4 {
		t.Fatalf("STAT interrupt fired %d times over 3 scanlines, blocking quirk not respected", count)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	p, _ := newTestPPU()
	p.VRAM[0x100] = 0x77
	p.OAM[4] = 0x55
	p.WriteRegister(addr.SCX, 0x12)

	snap := p.Export()
	restored, _ := newTestPPU()
	restored.Import(snap)

	if restored.VRAM[0x100] != 0x77 || restored.OAM[4] != 0x55 || restored.ReadRegister(addr.SCX) != 0x12 {
		t.Fatalf("PPU state did not round trip through Export/Import")
	}
}
