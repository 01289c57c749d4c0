package dmgcore

import (
	"github.com/tholian-dev/dmgcore/addr"
	"github.com/tholian-dev/dmgcore/timing"
)

// postBootDIVSeed is the internal divider value the real boot ROM leaves
// behind by the time it hands off to cartridge code at 0x0100. Skipping
// the boot ROM image still needs to seed this, or DIV-dependent timing
// (including the falling-edge TIMA quirk) starts from the wrong phase.
const postBootDIVSeed = 0xABCC

// postBootHRAMScratch holds the three HRAM bytes (0xFF7A-0xFF7C) the boot
// ROM leaves behind as a side effect of its own execution, not otherwise
// meaningful to cartridge code.
var postBootHRAMScratch = [3]byte{0x39, 0x01, 0x2E}

// skipBootROM fast-forwards the components that a real boot ROM would
// have left in a specific state, for the no-boot-ROM power-on path.
func (s *System) skipBootROM() {
	s.bus.timer.SetSeed(uint16(postBootDIVSeed))
	s.bus.clockCount = timing.PostBootClockCount
	s.bus.ic.flags = 0x01 // IF reads back as 0xE1 once readIF ORs in 0xE0
	s.bus.hram[0x7A], s.bus.hram[0x7B], s.bus.hram[0x7C] = postBootHRAMScratch[0], postBootHRAMScratch[1], postBootHRAMScratch[2]
	s.bus.serial.Write(addr.SB, 0x00, s.bus.clockCount)
	s.bus.serial.Write(addr.SC, 0x7E, s.bus.clockCount)
	s.bus.apu.PowerOnPostBoot()
}

// AtPostBootFingerprint reports whether clock_count matches the number
// of T-cycles a real boot ROM burns before jumping to cartridge code.
// Intended for conformance tests that run an actual boot ROM image and
// want to confirm the handoff happened at the documented point rather
// than early or late.
func (s *System) AtPostBootFingerprint() bool {
	return s.bus.clockCount == timing.PostBootClockCount
}
