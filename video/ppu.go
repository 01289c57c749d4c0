// Package video implements the picture processing unit: the LCDC/STAT
// register file, the OAM-search/pixel-transfer/HBlank/VBlank mode state
// machine, the OAM DMA engine, and scanline rendering into a FrameBuffer.
package video

import (
	"github.com/tholian-dev/dmgcore/addr"
	"github.com/tholian-dev/dmgcore/bit"
	"github.com/tholian-dev/dmgcore/timing"
)

type Mode uint8

const (
	ModeHBlank Mode = 0
	ModeVBlank Mode = 1
	ModeOAMScan Mode = 2
	ModeTransfer Mode = 3
)

const (
	oamScanDots     = 80
	minTransferDots = 172
	scanlineDots    = timing.DotsPerScanline
)

// STAT enable bits (bits 3-6).
const (
	statHBlankIRQ = 1 << 3
	statVBlankIRQ = 1 << 4
	statOAMIRQ    = 1 << 5
	statLYCIRQ    = 1 << 6
)

// PPU owns VRAM, OAM, the LCD register file, and the OAM DMA engine.
type PPU struct {
	VRAM [0x2000]byte
	OAM  [0xA0]byte

	lcdc, stat, scy, scx, ly, lyc, bgp, obp0, obp1, wy, wx byte

	dot               int
	mode              Mode
	windowLineCounter int
	windowTriggeredThisFrame bool

	statLineHigh bool // previous level of the combined STAT IRQ line, for blocking

	frame          *FrameBuffer
	sprites        *SpritePriority
	vblankPending  bool

	dmaActive      bool
	dmaSource      uint16
	dmaRemaining   int // remaining M-cycles
	dmaJustStarted bool

	requestInterrupt func(bit uint8)
}

func New(requestInterrupt func(bit uint8)) *PPU {
	return &PPU{
		frame:            NewFrameBuffer(),
		sprites:          NewSpritePriority(),
		requestInterrupt: requestInterrupt,
		lcdc:             0x91,
		bgp:              0xFC,
	}
}

func (p *PPU) Frame() *FrameBuffer { return p.frame }

// TakeVBlank reports and clears whether a VBlank edge occurred since the
// last call, for the host's on_vblank callback.
func (p *PPU) TakeVBlank() bool {
	v := p.vblankPending
	p.vblankPending = false
	return v
}

func (p *PPU) lcdEnabled() bool { return bit.IsSet(7, p.lcdc) }

// --- register & memory access, from the CPU's perspective ---

func (p *PPU) ReadRegister(address uint16) byte {
	switch address {
	case addr.LCDC:
		return p.lcdc
	case addr.STAT:
		return 0x80 | p.stat | byte(p.mode)
	case addr.SCY:
		return p.scy
	case addr.SCX:
		return p.scx
	case addr.LY:
		return p.ly
	case addr.LYC:
		return p.lyc
	case addr.BGP:
		return p.bgp
	case addr.OBP0:
		return p.obp0
	case addr.OBP1:
		return p.obp1
	case addr.WY:
		return p.wy
	case addr.WX:
		return p.wx
	}
	return 0xFF
}

func (p *PPU) WriteRegister(address uint16, value byte) {
	switch address {
	case addr.LCDC:
		wasEnabled := p.lcdEnabled()
		p.lcdc = value
		if wasEnabled && !p.lcdEnabled() {
			p.ly = 0
			p.dot = 0
			p.mode = ModeHBlank
		}
	case addr.STAT:
		p.stat = value & 0x78
	case addr.SCY:
		p.scy = value
	case addr.SCX:
		p.scx = value
	case addr.LY:
		// read-only
	case addr.LYC:
		p.lyc = value
	case addr.BGP:
		p.bgp = value
	case addr.OBP0:
		p.obp0 = value
	case addr.OBP1:
		p.obp1 = value
	case addr.WY:
		p.wy = value
	case addr.WX:
		p.wx = value
	}
}

// VRAMBlocked reports whether the CPU's view of VRAM is currently locked.
func (p *PPU) VRAMBlocked() bool {
	return p.lcdEnabled() && p.mode == ModeTransfer
}

// OAMBlocked reports whether the CPU's view of OAM is currently locked
// (true during both OAM-search and pixel-transfer, and during DMA).
func (p *PPU) OAMBlocked() bool {
	if p.dmaActive {
		return true
	}
	return p.lcdEnabled() && (p.mode == ModeOAMScan || p.mode == ModeTransfer)
}

func (p *PPU) ReadVRAM(offset uint16) byte {
	if p.VRAMBlocked() {
		return 0xFF
	}
	return p.VRAM[offset]
}

func (p *PPU) WriteVRAM(offset uint16, value byte) {
	if p.VRAMBlocked() {
		return
	}
	p.VRAM[offset] = value
}

func (p *PPU) ReadOAM(offset uint16) byte {
	if p.OAMBlocked() {
		return 0xFF
	}
	return p.OAM[offset]
}

func (p *PPU) WriteOAM(offset uint16, value byte) {
	if p.OAMBlocked() {
		return
	}
	p.OAM[offset] = value
}

// --- OAM DMA ---

// StartDMA begins a 160 M-cycle transfer from source*0x100 into OAM. The
// caller (the bus) still owns reading the source bytes since they may
// come from ROM/WRAM/etc; DMA here only tracks timing and gates access.
func (p *PPU) StartDMA(source byte) {
	p.dmaActive = true
	p.dmaSource = uint16(source) << 8
	p.dmaRemaining = timing.DMATransferMachineCycles
	p.dmaJustStarted = true
}

func (p *PPU) DMAActive() bool   { return p.dmaActive }
func (p *PPU) DMASource() uint16 { return p.dmaSource }

// StepDMA is called once per M-cycle elapsed on the bus while a transfer
// is active; copyByte is provided by the bus (it knows how to read
// arbitrary source addresses, OAM DMA does not).
func (p *PPU) StepDMA(copyByte func(src uint16) byte) {
	if !p.dmaActive {
		return
	}
	index := timing.DMATransferMachineCycles - p.dmaRemaining
	p.OAM[index] = copyByte(p.dmaSource + uint16(index))
	p.dmaRemaining--
	if p.dmaRemaining == 0 {
		p.dmaActive = false
	}
}

// --- mode state machine ---

// Tick advances the PPU by tCycles T-cycles (always a multiple of 4,
// since it is only ever called after a bus access).
func (p *PPU) Tick(tCycles int) {
	if !p.lcdEnabled() {
		return
	}
	for i := 0; i < tCycles; i++ {
		p.tickDot()
	}
}

func (p *PPU) tickDot() {
	p.dot++

	switch p.mode {
	case ModeOAMScan:
		if p.dot >= oamScanDots {
			p.dot = 0
			p.setMode(ModeTransfer)
		}
	case ModeTransfer:
		if p.dot >= p.transferLength() {
			p.renderScanline()
			p.dot = 0
			p.setMode(ModeHBlank)
		}
	case ModeHBlank:
		if p.dot >= p.hblankLength() {
			p.dot = 0
			p.advanceLine()
		}
	case ModeVBlank:
		if p.dot >= scanlineDots {
			p.dot = 0
			p.advanceLine()
		}
	}
}

func (p *PPU) transferLength() int {
	// approximate the variable-length mode-3 window: a baseline plus a
	// per-scanline penalty for sprites visible on it and for the window
	// being active, which is close enough for interrupt-timing purposes
	// without a full dot-by-dot pixel FIFO.
	length := minTransferDots
	length += p.visibleSpriteCount() * 6
	if p.windowVisibleOnLine() {
		length += 6
	}
	if length > scanlineDots-oamScanDots {
		length = scanlineDots - oamScanDots
	}
	return length
}

func (p *PPU) hblankLength() int {
	return scanlineDots - oamScanDots - p.transferLength()
}

func (p *PPU) visibleSpriteCount() int {
	if !bit.IsSet(1, p.lcdc) {
		return 0
	}
	height := 8
	if bit.IsSet(2, p.lcdc) {
		height = 16
	}
	count := 0
	for i := 0; i < 40 && count < 10; i++ {
		y := int(p.OAM[i*4]) - 16
		if int(p.ly) >= y && int(p.ly) < y+height {
			count++
		}
	}
	return count
}

func (p *PPU) windowVisibleOnLine() bool {
	return bit.IsSet(5, p.lcdc) && int(p.ly) >= int(p.wy) && p.wx <= 166
}

func (p *PPU) advanceLine() {
	p.ly++
	if p.ly == timing.VisibleScanlines {
		p.setMode(ModeVBlank)
		p.vblankPending = true
		p.requestInterrupt(0) // VBlank = bit 0
	} else if p.ly >= timing.TotalScanlines {
		p.ly = 0
		p.windowLineCounter = 0
		p.windowTriggeredThisFrame = false
		p.setMode(ModeOAMScan)
	} else if p.mode == ModeVBlank {
		// stay in vblank mode for lines 144-153
	} else {
		p.setMode(ModeOAMScan)
	}
	p.checkLYC()
}

func (p *PPU) setMode(m Mode) {
	p.mode = m
	switch m {
	case ModeOAMScan:
		p.raiseStatIfBlocked(statOAMIRQ)
	case ModeHBlank:
		p.raiseStatIfBlocked(statHBlankIRQ)
	case ModeVBlank:
		p.raiseStatIfBlocked(statVBlankIRQ)
	default:
		p.evaluateStatLine()
	}
}

func (p *PPU) checkLYC() {
	if p.ly == p.lyc {
		p.stat |= 0x04
		p.raiseStatIfBlocked(statLYCIRQ)
	} else {
		p.stat &^= 0x04
		p.evaluateStatLine()
	}
}

// raiseStatIfBlocked implements the "STAT blocking" quirk: the interrupt
// line is a single physical wire, so it is edge-triggered on the OR of
// all enabled conditions, not on any one source individually.
func (p *PPU) raiseStatIfBlocked(sourceBit byte) {
	if p.stat&sourceBit != 0 {
		p.evaluateStatLine()
	} else {
		p.evaluateStatLineNoRaise()
	}
}

func (p *PPU) evaluateStatLine() {
	high := p.statLineActive()
	if high && !p.statLineHigh {
		p.requestInterrupt(1) // STAT = bit 1
	}
	p.statLineHigh = high
}

func (p *PPU) evaluateStatLineNoRaise() {
	p.statLineHigh = p.statLineActive()
}

// Snapshot is the plain-data form of PPU state used by save states.
type Snapshot struct {
	VRAM [0x2000]byte
	OAM  [0xA0]byte

	LCDC, STAT, SCY, SCX, LY, LYC, BGP, OBP0, OBP1, WY, WX byte

	Dot                      int32
	Mode                     Mode
	WindowLineCounter        int32
	WindowTriggeredThisFrame bool
	StatLineHigh             bool

	DMAActive      bool
	DMASource      uint16
	DMARemaining   int32
	DMAJustStarted bool
}

func (p *PPU) Export() Snapshot {
	return Snapshot{
		VRAM: p.VRAM, OAM: p.OAM,
		LCDC: p.lcdc, STAT: p.stat, SCY: p.scy, SCX: p.scx, LY: p.ly, LYC: p.lyc,
		BGP: p.bgp, OBP0: p.obp0, OBP1: p.obp1, WY: p.wy, WX: p.wx,
		Dot: int32(p.dot), Mode: p.mode,
		WindowLineCounter:        int32(p.windowLineCounter),
		WindowTriggeredThisFrame: p.windowTriggeredThisFrame,
		StatLineHigh:             p.statLineHigh,
		DMAActive:                p.dmaActive, DMASource: p.dmaSource,
		DMARemaining: int32(p.dmaRemaining), DMAJustStarted: p.dmaJustStarted,
	}
}

func (p *PPU) Import(s Snapshot) {
	p.VRAM, p.OAM = s.VRAM, s.OAM
	p.lcdc, p.stat, p.scy, p.scx, p.ly, p.lyc = s.LCDC, s.STAT, s.SCY, s.SCX, s.LY, s.LYC
	p.bgp, p.obp0, p.obp1, p.wy, p.wx = s.BGP, s.OBP0, s.OBP1, s.WY, s.WX
	p.dot, p.mode = int(s.Dot), s.Mode
	p.windowLineCounter = int(s.WindowLineCounter)
	p.windowTriggeredThisFrame = s.WindowTriggeredThisFrame
	p.statLineHigh = s.StatLineHigh
	p.dmaActive, p.dmaSource = s.DMAActive, s.DMASource
	p.dmaRemaining, p.dmaJustStarted = int(s.DMARemaining), s.DMAJustStarted
}

func (p *PPU) statLineActive() bool {
	if p.stat&statLYCIRQ != 0 && p.stat&0x04 != 0 {
		return true
	}
	switch p.mode {
	case ModeOAMScan:
		return p.stat&statOAMIRQ != 0
	case ModeHBlank:
		return p.stat&statHBlankIRQ != 0
	case ModeVBlank:
		return p.stat&statVBlankIRQ != 0 || p.stat&statOAMIRQ != 0
	}
	return false
}
