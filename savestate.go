package dmgcore

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/tholian-dev/dmgcore/audio"
	"github.com/tholian-dev/dmgcore/cpu"
	"github.com/tholian-dev/dmgcore/memory"
	"github.com/tholian-dev/dmgcore/serial"
	"github.com/tholian-dev/dmgcore/timer"
	"github.com/tholian-dev/dmgcore/video"
)

const (
	saveStateMagic   = "GBRS"
	saveStateVersion = 1
)

// LoadStateError describes why a save-state blob could not be restored.
type LoadStateError struct {
	Reason string
}

func (e *LoadStateError) Error() string { return "dmgcore: load state: " + e.Reason }

var (
	errBadMagic           = &LoadStateError{Reason: "bad magic"}
	errUnsupportedVersion = &LoadStateError{Reason: "unsupported version"}
	errCorrupt            = &LoadStateError{Reason: "corrupt payload"}
)

// saveStatePayload mirrors the field order of the component the core was
// modeled on: CPU, cartridge RAM, WRAM, HRAM, clock_count, timer, sound,
// PPU, joypad, serial registers/shift state, interrupt flag/enable, DMA
// (folded into the PPU snapshot), then boot-ROM-active.
type saveStatePayload struct {
	CPU           cpu.Snapshot
	CartRAM       []byte
	WRAM          [0x2000]byte
	HRAM          [0x7F]byte
	ClockCount    uint64
	Timer         timer.Snapshot
	Sound         audio.Snapshot
	PPU           video.Snapshot
	Joypad        memory.JoypadSnapshot
	Serial        serial.Snapshot
	InterruptFlag byte
	InterruptEnable byte
	BootROMActive bool
}

// SaveState serializes the full machine state, suitable for writing to
// disk and restoring later with LoadState on a System for the same ROM.
func (s *System) SaveState() ([]byte, error) {
	p := saveStatePayload{
		CPU:             s.cpu.Export(),
		CartRAM:         s.bus.mbc.RAM(),
		WRAM:            s.bus.wram,
		HRAM:            s.bus.hram,
		ClockCount:      s.bus.clockCount,
		Timer:           s.bus.timer.Export(),
		Sound:           s.bus.apu.Export(),
		PPU:             s.bus.ppu.Export(),
		Joypad:          s.bus.joypad.Export(),
		Serial:          s.bus.serial.Export(),
		InterruptFlag:   s.bus.ic.flags,
		InterruptEnable: s.bus.ic.enable,
		BootROMActive:   s.bus.bootROMActive,
	}

	var body bytes.Buffer
	if err := gob.NewEncoder(&body).Encode(&p); err != nil {
		return nil, fmt.Errorf("dmgcore: encode state: %w", err)
	}

	var out bytes.Buffer
	out.WriteString(saveStateMagic)
	out.WriteByte(saveStateVersion)
	out.Write(body.Bytes())
	return out.Bytes(), nil
}

// LoadState restores machine state previously produced by SaveState. The
// System must already be constructed from the same ROM; LoadState only
// restores runtime state, not the cartridge image itself.
func (s *System) LoadState(data []byte) error {
	if len(data) < len(saveStateMagic)+1 {
		return errCorrupt
	}
	if string(data[:len(saveStateMagic)]) != saveStateMagic {
		return errBadMagic
	}
	version := data[len(saveStateMagic)]
	if version != saveStateVersion {
		return errUnsupportedVersion
	}

	var p saveStatePayload
	body := data[len(saveStateMagic)+1:]
	if err := gob.NewDecoder(bytes.NewReader(body)).Decode(&p); err != nil {
		return &LoadStateError{Reason: errCorrupt.Reason + ": " + err.Error()}
	}

	s.cpu.Import(p.CPU)
	s.bus.mbc.LoadRAM(p.CartRAM)
	s.bus.wram = p.WRAM
	s.bus.hram = p.HRAM
	s.bus.clockCount = p.ClockCount
	s.bus.timer.Import(p.Timer)
	s.bus.apu.Import(p.Sound)
	s.bus.ppu.Import(p.PPU)
	s.bus.joypad.Import(p.Joypad)
	s.bus.serial.Import(p.Serial)
	s.bus.ic.flags = p.InterruptFlag
	s.bus.ic.enable = p.InterruptEnable
	s.bus.bootROMActive = p.BootROMActive
	return nil
}
