package audio

import (
	"testing"

	"github.com/tholian-dev/dmgcore/addr"
)

func newTestAPU() *APU {
	a := New(44100)
	a.Write(addr.NR52, 0x80) // power on
	return a
}

func TestChannel1TriggerEnablesWithDAC(t *testing.T) {
	a := newTestAPU()
	a.Write(addr.NR10, 0x00) // no sweep
	a.Write(addr.NR12, 0xF0) // volume 15, DAC on
	a.Write(addr.NR13, 0x00)
	a.Write(addr.NR14, 0x80) // trigger, no length enable
	if !a.ch1.enabled {
		t.Fatalf("channel 1 should be enabled after a trigger with the DAC on")
	}
}

func TestChannel1TriggerWithoutDACStaysDisabled(t *testing.T) {
	a := newTestAPU()
	a.Write(addr.NR12, 0x00) // volume 0, envelope not increasing: DAC off
	a.Write(addr.NR14, 0x80)
	if a.ch1.enabled {
		t.Fatalf("channel 1 should stay disabled when the DAC is off, regardless of trigger")
	}
}

func TestChannel1SweepOverflowDisablesChannelAtTrigger(t *testing.T) {
	a := newTestAPU()
	a.Write(addr.NR12, 0xF0)      // DAC on
	a.Write(addr.NR10, 0x11)      // sweep period 1, increasing, shift 1
	a.Write(addr.NR13, 0xFF)      // frequency low byte
	a.Write(addr.NR14, 0x87) // trigger bit + frequency high bits (0x7FF)

	if a.ch1.enabled {
		t.Fatalf("channel 1 should be disabled immediately: frequency 0x7FF with shift 1 overflows 11 bits on trigger")
	}
}

func TestPowerOffResetsChannels(t *testing.T) {
	a := newTestAPU()
	a.Write(addr.NR12, 0xF0)
	a.Write(addr.NR14, 0x80)
	if !a.ch1.enabled {
		t.Fatalf("precondition: channel 1 should be enabled before power-off")
	}
	a.Write(addr.NR52, 0x00) // power off
	if a.ch1.enabled {
		t.Fatalf("powering off the APU should silence every channel")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	a := newTestAPU()
	a.Write(addr.NR12, 0xF0)
	a.Write(addr.NR14, 0x80)
	a.Write(addr.NR50, 0x77)

	snap := a.Export()
	restored := New(44100)
	restored.Import(snap)

	if restored.ch1.enabled != a.ch1.enabled || restored.nr50 != a.nr50 {
		t.Fatalf("APU state did not round trip through Export/Import")
	}
}
