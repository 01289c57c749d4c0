// Package cpu implements the fetch/decode/execute loop for the device's
// ~500 opcode slots (256 base + 256 CB-prefixed), interrupt dispatch, and
// the HALT/STOP/IME state machine.
package cpu

import "github.com/tholian-dev/dmgcore/bit"

// Bus is the narrow interface the CPU needs from its host system. Every
// Read/Write is a bus access and must advance the shared clock by exactly
// one M-cycle (4 T-cycles); Tick is used for cycles the CPU burns without
// touching the bus (internal delay states).
type Bus interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
	Tick(tCycles int)
	// PendingInterrupts returns IE & IF & 0x1F. This does not count as a
	// bus access: the interrupt controller is combinational logic wired
	// directly to the CPU, not a memory-mapped read.
	PendingInterrupts() byte
	// ClearInterrupt clears bit `index` of IF.
	ClearInterrupt(index uint8)
}

// Flag bit positions within F.
const (
	flagZ uint8 = 0x80
	flagN uint8 = 0x40
	flagH uint8 = 0x20
	flagC uint8 = 0x10
)

// State is the CPU's run state, part of save-state.
type State uint8

const (
	Running State = iota
	Halted
	Stopped
)

// IMEState models the EI one-instruction-delay pipeline.
type IMEState uint8

const (
	IMEDisabled IMEState = iota
	IMEEnabling
	IMEEnabled
)

// CPU holds the eight 8-bit registers (packed as four 16-bit pairs), the
// stack pointer, program counter, interrupt state and run state.
type CPU struct {
	a, f, b, c, d, e, h, l uint8
	sp, pc                 uint16

	ime         IMEState
	imeDelay    int
	state       State
	haltBug     bool
	illegalLock bool

	bus Bus
}

func New(bus Bus) *CPU {
	return &CPU{bus: bus}
}

// PowerOnDMG sets registers to their documented post-boot-ROM values, for
// use when no boot ROM image is supplied.
func (c *CPU) PowerOnDMG() {
	c.a, c.f = 0x01, 0xB0
	c.b, c.c = 0x00, 0x13
	c.d, c.e = 0x00, 0xD8
	c.h, c.l = 0x01, 0x4D
	c.sp = 0xFFFE
	c.pc = 0x0100
	c.ime = IMEDisabled
	c.state = Running
}

// PowerOnReset zeroes every register and starts fetching from address
// 0x0000, for use when a boot ROM image is supplied and gets to set
// registers up itself as it runs.
func (c *CPU) PowerOnReset() {
	c.a, c.f, c.b, c.c, c.d, c.e, c.h, c.l = 0, 0, 0, 0, 0, 0, 0, 0
	c.sp, c.pc = 0, 0
	c.ime = IMEDisabled
	c.state = Running
}

func (c *CPU) af() uint16 { return bit.Combine(c.a, c.f) }
func (c *CPU) bc() uint16 { return bit.Combine(c.b, c.c) }
func (c *CPU) de() uint16 { return bit.Combine(c.d, c.e) }
func (c *CPU) hl() uint16 { return bit.Combine(c.h, c.l) }

func (c *CPU) setAF(v uint16) { c.a, c.f = bit.High(v), bit.Low(v)&0xF0 }
func (c *CPU) setBC(v uint16) { c.b, c.c = bit.High(v), bit.Low(v) }
func (c *CPU) setDE(v uint16) { c.d, c.e = bit.High(v), bit.Low(v) }
func (c *CPU) setHL(v uint16) { c.h, c.l = bit.High(v), bit.Low(v) }

func (c *CPU) flag(mask uint8) bool   { return c.f&mask != 0 }
func (c *CPU) setFlag(mask uint8, v bool) {
	if v {
		c.f |= mask
	} else {
		c.f &^= mask
	}
}

// PC, SP, Registers exposed read-only for save-state and tests.
func (c *CPU) PC() uint16    { return c.pc }
func (c *CPU) SP() uint16    { return c.sp }
func (c *CPU) A() uint8      { return c.a }
func (c *CPU) F() uint8      { return c.f }
func (c *CPU) B() uint8      { return c.b }
func (c *CPU) C() uint8      { return c.c }
func (c *CPU) D() uint8      { return c.d }
func (c *CPU) E() uint8      { return c.e }
func (c *CPU) H() uint8      { return c.h }
func (c *CPU) L() uint8      { return c.l }
func (c *CPU) RunState() State { return c.state }
func (c *CPU) IME() IMEState { return c.ime }

// SetRegisters restores CPU state from a save-state blob.
func (c *CPU) SetRegisters(a, f, b, cc, d, e, h, l uint8, sp, pc uint16, ime IMEState, state State) {
	c.a, c.f, c.b, c.c, c.d, c.e, c.h, c.l = a, f, b, cc, d, e, h, l
	c.sp, c.pc = sp, pc
	c.ime = ime
	c.state = state
}

// Snapshot is the plain-data form of CPU state used by save states.
type Snapshot struct {
	A, F, B, C, D, E, H, L    uint8
	SP, PC                    uint16
	IME                       IMEState
	IMEDelay                  int32
	RunState                  State
	HaltBug, IllegalLock      bool
}

func (c *CPU) Export() Snapshot {
	return Snapshot{
		A: c.a, F: c.f, B: c.b, C: c.c, D: c.d, E: c.e, H: c.h, L: c.l,
		SP: c.sp, PC: c.pc,
		IME:         c.ime,
		IMEDelay:    int32(c.imeDelay),
		RunState:    c.state,
		HaltBug:     c.haltBug,
		IllegalLock: c.illegalLock,
	}
}

func (c *CPU) Import(s Snapshot) {
	c.a, c.f, c.b, c.c, c.d, c.e, c.h, c.l = s.A, s.F, s.B, s.C, s.D, s.E, s.H, s.L
	c.sp, c.pc = s.SP, s.PC
	c.ime = s.IME
	c.imeDelay = int(s.IMEDelay)
	c.state = s.RunState
	c.haltBug = s.HaltBug
	c.illegalLock = s.IllegalLock
}
