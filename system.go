package dmgcore

import (
	"fmt"

	"github.com/tholian-dev/dmgcore/cpu"
	"github.com/tholian-dev/dmgcore/memory"
	"github.com/tholian-dev/dmgcore/video"
)

// System is the top-level handle a host program drives: load a ROM, power
// it on, run it for a span of cycles or frames, and pull out the
// framebuffer, audio samples and battery RAM in between.
type System struct {
	cpu *cpu.CPU
	bus *Bus
	cart *memory.Cartridge

	onVBlankFn func()
	onSerialFn func(byte)
}

// New builds a System from a parsed ROM image. Pass nil for bootROM to
// power on directly at the documented post-boot register state instead
// of executing a boot ROM image.
func New(romData []byte, bootROM []byte) (*System, error) {
	cart, err := memory.NewCartridgeWithData(romData)
	if cart == nil {
		return nil, err
	}
	if err != nil {
		if _, ok := err.(*memory.HeaderError); !ok {
			return nil, err
		}
		// A header error is non-fatal and not returned: real hardware
		// does not verify the checksum, so a ROM with a bad one still
		// runs, and an unsupported cartridge type byte falls back to NoMBC.
	}

	bus := newBus()
	bus.cart = cart
	bus.mbc = cart.NewMBC()

	c := cpu.New(bus)
	s := &System{cpu: c, bus: bus, cart: cart}

	bus.onVBlank = func() {
		if s.onVBlankFn != nil {
			s.onVBlankFn()
		}
	}
	bus.serial.OnByteOut(func(v byte) {
		if s.onSerialFn != nil {
			s.onSerialFn(v)
		}
	})

	if len(bootROM) > 0 {
		if len(bootROM) != 256 {
			return nil, fmt.Errorf("dmgcore: boot ROM must be exactly 256 bytes, got %d", len(bootROM))
		}
		bus.bootROM = bootROM
		bus.bootROMActive = true
		c.PowerOnReset()
	} else {
		bus.bootROMActive = false
		c.PowerOnDMG()
		s.skipBootROM()
	}

	return s, nil
}

// OnVBlank registers a callback fired once per frame, right after the PPU
// transitions into VBlank.
func (s *System) OnVBlank(fn func()) { s.onVBlankFn = fn }

// OnSerialByte registers a callback fired every time a byte finishes
// shifting out of the serial port, for link-cable/test-ROM capture.
func (s *System) OnSerialByte(fn func(byte)) { s.onSerialFn = fn }

// Step runs exactly one CPU instruction (or idle/interrupt-dispatch step)
// and returns the number of T-cycles it consumed.
func (s *System) Step() int {
	before := s.bus.clockCount
	s.cpu.Step()
	return int(s.bus.clockCount - before)
}

// RunFor runs whole instructions until at least tCycles T-cycles have
// elapsed, and returns the actual number consumed (always >= tCycles,
// since instructions are not divisible).
func (s *System) RunFor(tCycles int) int {
	consumed := 0
	for consumed < tCycles {
		consumed += s.Step()
	}
	return consumed
}

// RunUntilVBlank runs whole instructions until a VBlank edge occurs,
// which is the usual pacing unit for a host renderer.
func (s *System) RunUntilVBlank() {
	fired := false
	prev := s.onVBlankFn
	s.onVBlankFn = func() {
		fired = true
		if prev != nil {
			prev()
		}
	}
	defer func() { s.onVBlankFn = prev }()
	for !fired {
		s.Step()
	}
}

func (s *System) Framebuffer() *[video.Width * video.Height]byte { return s.bus.ppu.Frame().Bytes() }

// DrainAudio returns and clears the signed 16-bit stereo-interleaved
// samples generated since the last call.
func (s *System) DrainAudio() []int16 { return s.bus.apu.Drain() }

// SetJoypad updates the physical button state; bits follow memory.JoypadBit.
func (s *System) SetJoypad(bits byte) {
	if s.bus.joypad.SetState(bits) {
		s.bus.ic.requestBit(4)
	}
}

// BatteryRAM returns the cartridge's battery-backed RAM contents for the
// host to persist, or nil if this cartridge has none.
func (s *System) BatteryRAM() []byte { return s.bus.mbc.RAM() }

// LoadBatteryRAM restores previously persisted battery RAM.
func (s *System) LoadBatteryRAM(data []byte) { s.bus.mbc.LoadRAM(data) }

// ClockCount returns the number of T-cycles elapsed since power-on.
func (s *System) ClockCount() uint64 { return s.bus.clockCount }

func (s *System) CartridgeTitle() string { return s.cart.Title() }
