package cpu

import "github.com/tholian-dev/dmgcore/bit"

// This file holds the primitive ALU and bit operations shared by the
// unprefixed and CB-prefixed opcode tables. Each operates on a register
// value passed by pointer so (HL)-addressed variants can share the same
// code as register-addressed ones.

func (c *CPU) inc(v *uint8) {
	half := *v&0x0F == 0x0F
	*v++
	c.setFlag(flagZ, *v == 0)
	c.setFlag(flagN, false)
	c.setFlag(flagH, half)
}

func (c *CPU) dec(v *uint8) {
	half := *v&0x0F == 0x00
	*v--
	c.setFlag(flagZ, *v == 0)
	c.setFlag(flagN, true)
	c.setFlag(flagH, half)
}

func (c *CPU) addToA(value uint8) {
	half := (c.a&0x0F)+(value&0x0F) > 0x0F
	sum := uint16(c.a) + uint16(value)
	c.a = uint8(sum)
	c.setFlag(flagZ, c.a == 0)
	c.setFlag(flagN, false)
	c.setFlag(flagH, half)
	c.setFlag(flagC, sum > 0xFF)
}

func (c *CPU) adcToA(value uint8) {
	carry := uint16(0)
	if c.flag(flagC) {
		carry = 1
	}
	half := (c.a&0x0F)+(value&0x0F)+uint8(carry) > 0x0F
	sum := uint16(c.a) + uint16(value) + carry
	c.a = uint8(sum)
	c.setFlag(flagZ, c.a == 0)
	c.setFlag(flagN, false)
	c.setFlag(flagH, half)
	c.setFlag(flagC, sum > 0xFF)
}

func (c *CPU) sub(value uint8) {
	half := c.a&0x0F < value&0x0F
	carry := c.a < value
	c.a -= value
	c.setFlag(flagZ, c.a == 0)
	c.setFlag(flagN, true)
	c.setFlag(flagH, half)
	c.setFlag(flagC, carry)
}

func (c *CPU) sbc(value uint8) {
	carry := uint8(0)
	if c.flag(flagC) {
		carry = 1
	}
	half := int(c.a&0x0F)-int(value&0x0F)-int(carry) < 0
	full := int(c.a)-int(value)-int(carry) < 0
	c.a = c.a - value - carry
	c.setFlag(flagZ, c.a == 0)
	c.setFlag(flagN, true)
	c.setFlag(flagH, half)
	c.setFlag(flagC, full)
}

func (c *CPU) and(value uint8) {
	c.a &= value
	c.setFlag(flagZ, c.a == 0)
	c.setFlag(flagN, false)
	c.setFlag(flagH, true)
	c.setFlag(flagC, false)
}

func (c *CPU) or(value uint8) {
	c.a |= value
	c.setFlag(flagZ, c.a == 0)
	c.setFlag(flagN, false)
	c.setFlag(flagH, false)
	c.setFlag(flagC, false)
}

func (c *CPU) xor(value uint8) {
	c.a ^= value
	c.setFlag(flagZ, c.a == 0)
	c.setFlag(flagN, false)
	c.setFlag(flagH, false)
	c.setFlag(flagC, false)
}

func (c *CPU) cp(value uint8) {
	half := c.a&0x0F < value&0x0F
	carry := c.a < value
	result := c.a - value
	c.setFlag(flagZ, result == 0)
	c.setFlag(flagN, true)
	c.setFlag(flagH, half)
	c.setFlag(flagC, carry)
}

func (c *CPU) addToHL(value uint16) {
	hl := c.hl()
	half := (hl&0x0FFF)+(value&0x0FFF) > 0x0FFF
	sum := uint32(hl) + uint32(value)
	c.setHL(uint16(sum))
	c.setFlag(flagN, false)
	c.setFlag(flagH, half)
	c.setFlag(flagC, sum > 0xFFFF)
}

func (c *CPU) rlc(v *uint8) {
	carry := *v&0x80 != 0
	*v = *v<<1 | *v>>7
	c.setFlag(flagZ, *v == 0)
	c.setFlag(flagN, false)
	c.setFlag(flagH, false)
	c.setFlag(flagC, carry)
}

func (c *CPU) rrc(v *uint8) {
	carry := *v&0x01 != 0
	*v = *v>>1 | *v<<7
	c.setFlag(flagZ, *v == 0)
	c.setFlag(flagN, false)
	c.setFlag(flagH, false)
	c.setFlag(flagC, carry)
}

func (c *CPU) rl(v *uint8) {
	oldCarry := uint8(0)
	if c.flag(flagC) {
		oldCarry = 1
	}
	newCarry := *v&0x80 != 0
	*v = *v<<1 | oldCarry
	c.setFlag(flagZ, *v == 0)
	c.setFlag(flagN, false)
	c.setFlag(flagH, false)
	c.setFlag(flagC, newCarry)
}

func (c *CPU) rr(v *uint8) {
	oldCarry := uint8(0)
	if c.flag(flagC) {
		oldCarry = 0x80
	}
	newCarry := *v&0x01 != 0
	*v = *v>>1 | oldCarry
	c.setFlag(flagZ, *v == 0)
	c.setFlag(flagN, false)
	c.setFlag(flagH, false)
	c.setFlag(flagC, newCarry)
}

func (c *CPU) sla(v *uint8) {
	carry := *v&0x80 != 0
	*v <<= 1
	c.setFlag(flagZ, *v == 0)
	c.setFlag(flagN, false)
	c.setFlag(flagH, false)
	c.setFlag(flagC, carry)
}

func (c *CPU) sra(v *uint8) {
	carry := *v&0x01 != 0
	*v = *v&0x80 | *v>>1
	c.setFlag(flagZ, *v == 0)
	c.setFlag(flagN, false)
	c.setFlag(flagH, false)
	c.setFlag(flagC, carry)
}

func (c *CPU) srl(v *uint8) {
	carry := *v&0x01 != 0
	*v >>= 1
	c.setFlag(flagZ, *v == 0)
	c.setFlag(flagN, false)
	c.setFlag(flagH, false)
	c.setFlag(flagC, carry)
}

func (c *CPU) swap(v *uint8) {
	*v = *v<<4 | *v>>4
	c.setFlag(flagZ, *v == 0)
	c.setFlag(flagN, false)
	c.setFlag(flagH, false)
	c.setFlag(flagC, false)
}

func (c *CPU) bitTest(index uint8, v uint8) {
	c.setFlag(flagZ, v&(1<<index) == 0)
	c.setFlag(flagN, false)
	c.setFlag(flagH, true)
}

func res(index uint8, v uint8) uint8 { return v &^ (1 << index) }
func set(index uint8, v uint8) uint8 { return v | (1 << index) }

func (c *CPU) pushStack(v uint16) {
	c.sp--
	c.bus.Write(c.sp, bit.High(v))
	c.sp--
	c.bus.Write(c.sp, bit.Low(v))
}

func (c *CPU) popStack() uint16 {
	low := c.bus.Read(c.sp)
	c.sp++
	high := c.bus.Read(c.sp)
	c.sp++
	return bit.Combine(high, low)
}

func (c *CPU) daa() {
	adjust := uint8(0)
	carry := c.flag(flagC)
	if c.flag(flagH) || (!c.flag(flagN) && c.a&0x0F > 9) {
		adjust |= 0x06
	}
	if c.flag(flagC) || (!c.flag(flagN) && c.a > 0x99) {
		adjust |= 0x60
		carry = true
	}
	if c.flag(flagN) {
		c.a -= adjust
	} else {
		c.a += adjust
	}
	c.setFlag(flagZ, c.a == 0)
	c.setFlag(flagH, false)
	c.setFlag(flagC, carry)
}
