// Package serial implements the DMG link-cable shift register (SB/SC).
// No external link partner is modeled: every transfer simply shifts in
// 0xFF and reports completion to the host via a callback.
package serial

import "github.com/tholian-dev/dmgcore/timing"

// Port is the SB/SC register pair plus the 8-bit-period shift timer.
type Port struct {
	sb, sc byte

	// transferStartedAt is clock_count>>9 (aligned to the 8192Hz shift
	// clock via timing.SerialOffset) when the in-flight transfer began; it
	// is reset to 0 when the transfer completes. A transfer is in flight
	// while SC bits 7 and 0 are both set.
	transferStartedAt uint64

	onByteOut func(byte)
}

func NewPort() *Port {
	return &Port{sb: 0xFF}
}

// OnByteOut registers the callback invoked with the outgoing SB byte once
// a transfer completes (§6 on_serial_out).
func (p *Port) OnByteOut(fn func(byte)) {
	p.onByteOut = fn
}

func (p *Port) Read(address uint16) byte {
	if address == 0xFF01 {
		return p.sb
	}
	return p.sc | 0x7E // bits 1-6 always read high
}

func (p *Port) Write(address uint16, value byte, clockCount uint64) {
	if address == 0xFF01 {
		p.sb = value
		return
	}
	active := p.sc&0x81 == 0x81
	p.sc = value
	if value&0x81 == 0x81 && !active {
		p.transferStartedAt = (clockCount + timing.SerialOffset) >> 9
	}
}

// Tick advances the shift clock. clockCount is the scheduler's current
// T-cycle count, already advanced past the access that triggered this
// catch-up.
func (p *Port) Tick(clockCount uint64) (raiseInterrupt bool) {
	if p.sc&0x81 != 0x81 {
		return false
	}
	elapsedShiftTicks := ((clockCount + timing.SerialOffset) >> 9) - p.transferStartedAt
	if elapsedShiftTicks < 8 {
		return false
	}

	out := p.sb
	p.sb = 0xFF
	p.sc &^= 0x80
	p.transferStartedAt = 0
	if p.onByteOut != nil {
		p.onByteOut(out)
	}
	return true
}

// Snapshot is the plain-data form of Port state used by save states.
type Snapshot struct {
	SB, SC            byte
	TransferStartedAt uint64
}

func (p *Port) Export() Snapshot {
	return Snapshot{SB: p.sb, SC: p.sc, TransferStartedAt: p.transferStartedAt}
}

func (p *Port) Import(s Snapshot) {
	p.sb, p.sc = s.SB, s.SC
	p.transferStartedAt = s.TransferStartedAt
}
