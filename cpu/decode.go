package cpu

import "github.com/tholian-dev/dmgcore/bit"

// Register-index helpers used by the bit-field-decoded opcode tables: the
// 3-bit r8 field addresses B,C,D,E,H,L,(HL),A in that order, and the 2-bit
// rp/rp2 fields address the 16-bit pairs (rp includes SP, rp2 includes AF
// instead, for PUSH/POP).

func (c *CPU) getR8(idx uint8) uint8 {
	switch idx {
	case 0:
		return c.b
	case 1:
		return c.c
	case 2:
		return c.d
	case 3:
		return c.e
	case 4:
		return c.h
	case 5:
		return c.l
	case 6:
		return c.bus.Read(c.hl())
	default:
		return c.a
	}
}

func (c *CPU) setR8(idx uint8, v uint8) {
	switch idx {
	case 0:
		c.b = v
	case 1:
		c.c = v
	case 2:
		c.d = v
	case 3:
		c.e = v
	case 4:
		c.h = v
	case 5:
		c.l = v
	case 6:
		c.bus.Write(c.hl(), v)
	default:
		c.a = v
	}
}

// modifyR8 applies an in-place op (inc/dec/rotate/shift/...) to register or
// (HL)-addressed memory, doing the read-modify-write as two bus accesses
// when idx selects (HL).
func (c *CPU) modifyR8(idx uint8, fn func(*uint8)) {
	if idx == 6 {
		v := c.bus.Read(c.hl())
		fn(&v)
		c.bus.Write(c.hl(), v)
		return
	}
	switch idx {
	case 0:
		fn(&c.b)
	case 1:
		fn(&c.c)
	case 2:
		fn(&c.d)
	case 3:
		fn(&c.e)
	case 4:
		fn(&c.h)
	case 5:
		fn(&c.l)
	default:
		fn(&c.a)
	}
}

func (c *CPU) getRP(idx uint8) uint16 {
	switch idx {
	case 0:
		return c.bc()
	case 1:
		return c.de()
	case 2:
		return c.hl()
	default:
		return c.sp
	}
}

func (c *CPU) setRP(idx uint8, v uint16) {
	switch idx {
	case 0:
		c.setBC(v)
	case 1:
		c.setDE(v)
	case 2:
		c.setHL(v)
	default:
		c.sp = v
	}
}

func (c *CPU) getRP2(idx uint8) uint16 {
	switch idx {
	case 0:
		return c.bc()
	case 1:
		return c.de()
	case 2:
		return c.hl()
	default:
		return c.af()
	}
}

func (c *CPU) setRP2(idx uint8, v uint16) {
	switch idx {
	case 0:
		c.setBC(v)
	case 1:
		c.setDE(v)
	case 2:
		c.setHL(v)
	default:
		c.setAF(v)
	}
}

func (c *CPU) condTrue(cc uint8) bool {
	switch cc {
	case 0:
		return !c.flag(flagZ)
	case 1:
		return c.flag(flagZ)
	case 2:
		return !c.flag(flagC)
	default:
		return c.flag(flagC)
	}
}

// aluOp applies one of the 8 ALU-A operations (ADD,ADC,SUB,SBC,AND,XOR,
// OR,CP in that bit-field order) to the accumulator.
func (c *CPU) aluOp(idx uint8, value uint8) {
	switch idx {
	case 0:
		c.addToA(value)
	case 1:
		c.adcToA(value)
	case 2:
		c.sub(value)
	case 3:
		c.sbc(value)
	case 4:
		c.and(value)
	case 5:
		c.xor(value)
	case 6:
		c.or(value)
	default:
		c.cp(value)
	}
}

func (c *CPU) fetchByte() uint8 {
	v := c.bus.Read(c.pc)
	c.pc++
	return v
}

func (c *CPU) fetchWord() uint16 {
	low := c.fetchByte()
	high := c.fetchByte()
	return bit.Combine(high, low)
}

// fetchOpcode reads the next instruction byte, honoring the HALT-bug
// quirk where the PC increment that should follow this fetch is skipped
// exactly once.
func (c *CPU) fetchOpcode() uint8 {
	v := c.bus.Read(c.pc)
	if c.haltBug {
		c.haltBug = false
	} else {
		c.pc++
	}
	return v
}
