// Package dmgcore implements a cycle-accurate emulation core for an 8-bit
// handheld console: CPU, PPU, APU, timer, serial port, joypad, and
// cartridge bank controllers wired together behind a shared bus and a
// single clock_count, with no goroutines or channels on the hot path.
package dmgcore

import (
	"github.com/tholian-dev/dmgcore/addr"
	"github.com/tholian-dev/dmgcore/audio"
	"github.com/tholian-dev/dmgcore/memory"
	"github.com/tholian-dev/dmgcore/serial"
	"github.com/tholian-dev/dmgcore/timer"
	"github.com/tholian-dev/dmgcore/video"
)

// Bus is the single memory-mapped address space every component reads and
// writes through, and the keeper of clock_count: every Read/Write call
// advances it by exactly one M-cycle, ticking the PPU/APU/timer/serial in
// lockstep so no component can observe a partial cycle.
type Bus struct {
	cart *memory.Cartridge
	mbc  memory.MBC

	wram [0x2000]byte
	hram [0x7F]byte

	ppu    *video.PPU
	apu    *audio.APU
	timer  *timer.Timer
	serial *serial.Port
	joypad *memory.Joypad
	ic     interruptController

	bootROM       []byte
	bootROMActive bool

	clockCount uint64

	onVBlank func()
}

func newBus() *Bus {
	b := &Bus{
		joypad: memory.NewJoypad(),
		serial: serial.NewPort(),
	}
	b.apu = audio.New(timing4MHzSampleRate)
	b.ppu = video.New(b.ic.requestBit)
	b.timer = timer.New(func() { b.ic.requestBit(2) })
	return b
}

const timing4MHzSampleRate = 44100

func (b *Bus) Read(address uint16) byte {
	v := b.readNoTick(address)
	b.tickComponents(4)
	return v
}

func (b *Bus) Write(address uint16, value byte) {
	b.writeNoTick(address, value)
	b.tickComponents(4)
}

// Tick advances every ticked component by tCycles without performing a
// bus access; the CPU calls this for idle cycles (internal delays,
// conditional branch padding).
func (b *Bus) Tick(tCycles int) {
	b.tickComponents(tCycles)
}

func (b *Bus) tickComponents(tCycles int) {
	b.clockCount += uint64(tCycles)
	b.ppu.Tick(tCycles)
	b.timer.Tick(tCycles)
	if b.ppu.TakeVBlank() && b.onVBlank != nil {
		b.onVBlank()
	}
	mCycles := tCycles / 4
	for i := 0; i < mCycles; i++ {
		b.apu.Tick(b.clockCount)
		if b.serial.Tick(b.clockCount) {
			b.ic.requestBit(3)
		}
		if b.ppu.DMAActive() {
			b.ppu.StepDMA(b.readDMAByte)
		}
	}
}

// readDMAByte is the callback the PPU uses to pull source bytes for OAM
// DMA: it must reach ROM/WRAM/etc, which the PPU cannot see directly, but
// it must NOT retick the bus (DMA's own 160 M-cycles already account for
// these reads).
func (b *Bus) readDMAByte(src uint16) byte {
	return b.readRaw(src)
}

func (b *Bus) PendingInterrupts() byte { return b.ic.pending() }
func (b *Bus) ClearInterrupt(index uint8) { b.ic.clearBit(index) }

// RequestInterrupt lets host-facing code (joypad input) raise an
// interrupt the way internal components do via ic.requestBit.
func (b *Bus) RequestInterrupt(source addr.Interrupt) {
	b.ic.request(source)
}

func (b *Bus) readNoTick(address uint16) byte {
	if b.ppu.DMAActive() && (address < 0xFF80 || address > 0xFFFE) {
		return 0xFF
	}
	return b.readRaw(address)
}

// readRaw performs the address decode with no DMA gating, for the DMA
// engine's own source reads (which must succeed even while a transfer
// is in flight) as well as for the gated CPU-facing path above.
func (b *Bus) readRaw(address uint16) byte {
	switch {
	case address <= 0x00FF && b.bootROMActive:
		return b.bootROM[address]
	case address <= 0x7FFF:
		return b.mbc.Read(address)
	case address <= 0x9FFF:
		return b.ppu.ReadVRAM(address - 0x8000)
	case address <= 0xBFFF:
		return b.mbc.Read(address)
	case address <= 0xDFFF:
		return b.wram[address-0xC000]
	case address <= 0xFDFF:
		return b.wram[address-0xE000]
	case address <= 0xFE9F:
		return b.ppu.ReadOAM(address - 0xFE00)
	case address <= 0xFEFF:
		return 0xFF
	case address == addr.P1:
		return b.joypad.Read()
	case address == addr.SB, address == addr.SC:
		return b.serial.Read(address)
	case address == addr.DIV, address == addr.TIMA, address == addr.TMA, address == addr.TAC:
		return b.timer.Read(address)
	case address == addr.IF:
		return b.ic.readIF()
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		return b.apu.Read(address)
	case address >= addr.LCDC && address <= addr.WX:
		if address == addr.DMA {
			return 0xFF
		}
		return b.ppu.ReadRegister(address)
	case address == addr.BootROMDisable:
		return 0xFF
	case address >= 0xFF80 && address <= 0xFFFE:
		return b.hram[address-0xFF80]
	case address == addr.IE:
		return b.ic.readIE()
	default:
		return 0xFF
	}
}

func (b *Bus) writeNoTick(address uint16, value byte) {
	if b.ppu.DMAActive() && (address < 0xFF80 || address > 0xFFFE) {
		return
	}

	switch {
	case address <= 0x7FFF:
		b.mbc.Write(address, value)
	case address <= 0x9FFF:
		b.ppu.WriteVRAM(address-0x8000, value)
	case address <= 0xBFFF:
		b.mbc.Write(address, value)
	case address <= 0xDFFF:
		b.wram[address-0xC000] = value
	case address <= 0xFDFF:
		b.wram[address-0xE000] = value
	case address <= 0xFE9F:
		b.ppu.WriteOAM(address-0xFE00, value)
	case address <= 0xFEFF:
		// unusable
	case address == addr.P1:
		b.joypad.Write(value)
	case address == addr.SB, address == addr.SC:
		b.serial.Write(address, value, b.clockCount)
	case address == addr.DIV, address == addr.TIMA, address == addr.TMA, address == addr.TAC:
		b.timer.Write(address, value)
	case address == addr.IF:
		b.ic.writeIF(value)
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		b.apu.Write(address, value)
	case address == addr.DMA:
		b.ppu.StartDMA(value)
	case address >= addr.LCDC && address <= addr.WX:
		b.ppu.WriteRegister(address, value)
	case address == addr.BootROMDisable:
		if value&0x01 != 0 {
			b.bootROMActive = false
		}
	case address >= 0xFF80 && address <= 0xFFFE:
		b.hram[address-0xFF80] = value
	case address == addr.IE:
		b.ic.writeIE(value)
	}
}
