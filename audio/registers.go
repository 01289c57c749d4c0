package audio

import "github.com/tholian-dev/dmgcore/addr"

// readMask ORs in the bits that always read as 1 regardless of what was
// written, per the documented NRxx read masks.
var readMask = map[uint16]byte{
	addr.NR10: 0x80,
	addr.NR11: 0x3F,
	addr.NR12: 0x00,
	addr.NR13: 0xFF,
	addr.NR14: 0xBF,
	addr.NR21: 0x3F,
	addr.NR22: 0x00,
	addr.NR23: 0xFF,
	addr.NR24: 0xBF,
	addr.NR30: 0x7F,
	addr.NR31: 0xFF,
	addr.NR32: 0x9F,
	addr.NR33: 0xFF,
	addr.NR34: 0xBF,
	addr.NR41: 0xFF,
	addr.NR42: 0x00,
	addr.NR43: 0x00,
	addr.NR44: 0xBF,
	addr.NR50: 0x00,
	addr.NR51: 0x00,
	addr.NR52: 0x70,
}

// Read returns the current value of an audio register. The caller must
// have already called Tick with the current clock_count.
func (a *APU) Read(address uint16) byte {
	switch address {
	case addr.NR10:
		return boolBit(a.ch1.sweepDecreasing, 3) | a.ch1.sweepPeriod<<4 | a.ch1.sweepShift | readMask[address]
	case addr.NR11:
		return a.ch1.duty<<6 | readMask[address]
	case addr.NR12:
		return a.ch1.envelopeInitialVolume<<4 | boolBit(a.ch1.envelopeIncreasing, 3) | a.ch1.envelopePeriod
	case addr.NR13:
		return readMask[address]
	case addr.NR14:
		return boolBit(a.ch1.lengthEnabled, 6) | readMask[address]

	case addr.NR21:
		return a.ch2.duty<<6 | readMask[address]
	case addr.NR22:
		return a.ch2.envelopeInitialVolume<<4 | boolBit(a.ch2.envelopeIncreasing, 3) | a.ch2.envelopePeriod
	case addr.NR23:
		return readMask[address]
	case addr.NR24:
		return boolBit(a.ch2.lengthEnabled, 6) | readMask[address]

	case addr.NR30:
		return boolBit(a.ch3.dacEnabled, 7) | readMask[address]
	case addr.NR31:
		return readMask[address]
	case addr.NR32:
		return a.ch3.outputLevel<<5 | readMask[address]
	case addr.NR33:
		return readMask[address]
	case addr.NR34:
		return boolBit(a.ch3.lengthEnabled, 6) | readMask[address]

	case addr.NR41:
		return readMask[address]
	case addr.NR42:
		return a.ch4.envelopeInitialVolume<<4 | boolBit(a.ch4.envelopeIncreasing, 3) | a.ch4.envelopePeriod
	case addr.NR43:
		return a.ch4.clockShift<<4 | boolBit(a.ch4.widthMode7bit, 3) | a.ch4.divisorCode
	case addr.NR44:
		return boolBit(a.ch4.lengthEnabled, 6) | readMask[address]

	case addr.NR50:
		return a.nr50
	case addr.NR51:
		return a.nr51
	case addr.NR52:
		return a.statusByte()
	}

	if address >= addr.WaveRAMStart && address <= addr.WaveRAMEnd {
		return a.ch3.waveRAM[address-addr.WaveRAMStart]
	}
	return 0xFF
}

func (a *APU) statusByte() byte {
	v := readMask[addr.NR52]
	if a.powerOn {
		v |= 0x80
	}
	if a.ch1.enabled {
		v |= 0x01
	}
	if a.ch2.enabled {
		v |= 0x02
	}
	if a.ch3.enabled {
		v |= 0x04
	}
	if a.ch4.enabled {
		v |= 0x08
	}
	return v
}

func boolBit(b bool, index uint8) byte {
	if b {
		return 1 << index
	}
	return 0
}

// Write applies a write to an audio register, including trigger and
// power-control side effects.
func (a *APU) Write(address uint16, value byte) {
	if address >= addr.WaveRAMStart && address <= addr.WaveRAMEnd {
		a.ch3.waveRAM[address-addr.WaveRAMStart] = value
		return
	}

	if address == addr.NR52 {
		a.setPower(value&0x80 != 0)
		return
	}

	if !a.powerOn {
		// while powered off, only length counters (on DMG, the full
		// registers) are writable; we keep it simple and drop all writes,
		// matching the dominant behavior of "off resets and ignores".
		return
	}

	switch address {
	case addr.NR10:
		a.ch1.sweepPeriod = (value >> 4) & 0x07
		a.ch1.sweepDecreasing = value&0x08 != 0
		a.ch1.sweepShift = value & 0x07
	case addr.NR11:
		a.ch1.duty = (value >> 6) & 0x03
		a.ch1.lengthTimer = 64 - uint16(value&0x3F)
	case addr.NR12:
		a.ch1.envelopeInitialVolume = value >> 4
		a.ch1.envelopeIncreasing = value&0x08 != 0
		a.ch1.envelopePeriod = value & 0x07
		a.ch1.dacEnabled = value&0xF8 != 0
		if !a.ch1.dacEnabled {
			a.ch1.enabled = false
		}
	case addr.NR13:
		a.ch1.frequency = a.ch1.frequency&0x700 | uint16(value)
	case addr.NR14:
		a.ch1.frequency = a.ch1.frequency&0xFF | uint16(value&0x07)<<8
		a.handleLengthEnableTransition(&a.ch1.lengthEnabled, &a.ch1.lengthTimer, &a.ch1.enabled, value)
		if value&0x80 != 0 {
			a.triggerSquare(&a.ch1)
		}

	case addr.NR21:
		a.ch2.duty = (value >> 6) & 0x03
		a.ch2.lengthTimer = 64 - uint16(value&0x3F)
	case addr.NR22:
		a.ch2.envelopeInitialVolume = value >> 4
		a.ch2.envelopeIncreasing = value&0x08 != 0
		a.ch2.envelopePeriod = value & 0x07
		a.ch2.dacEnabled = value&0xF8 != 0
		if !a.ch2.dacEnabled {
			a.ch2.enabled = false
		}
	case addr.NR23:
		a.ch2.frequency = a.ch2.frequency&0x700 | uint16(value)
	case addr.NR24:
		a.ch2.frequency = a.ch2.frequency&0xFF | uint16(value&0x07)<<8
		a.handleLengthEnableTransition(&a.ch2.lengthEnabled, &a.ch2.lengthTimer, &a.ch2.enabled, value)
		if value&0x80 != 0 {
			a.triggerSquare(&a.ch2)
		}

	case addr.NR30:
		a.ch3.dacEnabled = value&0x80 != 0
		if !a.ch3.dacEnabled {
			a.ch3.enabled = false
		}
	case addr.NR31:
		a.ch3.lengthTimer = 256 - uint16(value)
	case addr.NR32:
		a.ch3.outputLevel = (value >> 5) & 0x03
	case addr.NR33:
		a.ch3.frequency = a.ch3.frequency&0x700 | uint16(value)
	case addr.NR34:
		a.ch3.frequency = a.ch3.frequency&0xFF | uint16(value&0x07)<<8
		a.handleLengthEnableTransition(&a.ch3.lengthEnabled, &a.ch3.lengthTimer, &a.ch3.enabled, value)
		if value&0x80 != 0 {
			a.triggerWave()
		}

	case addr.NR41:
		a.ch4.lengthTimer = 64 - uint16(value&0x3F)
	case addr.NR42:
		a.ch4.envelopeInitialVolume = value >> 4
		a.ch4.envelopeIncreasing = value&0x08 != 0
		a.ch4.envelopePeriod = value & 0x07
		a.ch4.dacEnabled = value&0xF8 != 0
		if !a.ch4.dacEnabled {
			a.ch4.enabled = false
		}
	case addr.NR43:
		a.ch4.clockShift = value >> 4
		a.ch4.widthMode7bit = value&0x08 != 0
		a.ch4.divisorCode = value & 0x07
	case addr.NR44:
		a.handleLengthEnableTransition(&a.ch4.lengthEnabled, &a.ch4.lengthTimer, &a.ch4.enabled, value)
		if value&0x80 != 0 {
			a.triggerNoise()
		}

	case addr.NR50:
		a.nr50 = value
	case addr.NR51:
		a.nr51 = value
	}
}

// handleLengthEnableTransition implements the obscure "extra length clock"
// quirk: enabling length on a frame-sequencer step that would not itself
// clock length, while the timer is non-zero, still ticks it once.
func (a *APU) handleLengthEnableTransition(enabled *bool, timer *uint16, chanEnabled *bool, value byte) {
	wasEnabled := *enabled
	nowEnabled := value&0x40 != 0
	*enabled = nowEnabled

	firstHalf := a.frameSeqStep%2 == 1 // steps 1,3,5,7 don't clock length next
	if !wasEnabled && nowEnabled && firstHalf && *timer > 0 {
		*timer--
		if *timer == 0 {
			*chanEnabled = false
		}
	}
}

func (a *APU) triggerSquare(c *squareChannel) {
	c.enabled = c.dacEnabled
	if c.lengthTimer == 0 {
		c.lengthTimer = 64
	}
	c.frequencyTimer = (2048 - int(c.frequency)) * squareFreqTimerMultiplier
	c.envelopeTimer = c.envelopePeriod
	c.volume = c.envelopeInitialVolume

	if c.hasSweep {
		c.shadowFrequency = c.frequency
		c.sweepTimer = c.sweepPeriod
		if c.sweepTimer == 0 {
			c.sweepTimer = 8
		}
		c.sweepEnabled = c.sweepPeriod != 0 || c.sweepShift != 0
		if c.sweepShift != 0 {
			if _, overflow := c.sweepFrequency(); overflow {
				c.enabled = false
			}
		}
	}
}

func (a *APU) triggerWave() {
	a.ch3.enabled = a.ch3.dacEnabled
	if a.ch3.lengthTimer == 0 {
		a.ch3.lengthTimer = 256
	}
	a.ch3.frequencyTimer = (2048 - int(a.ch3.frequency)) * waveFreqTimerMultiplier
	a.ch3.wavePos = 0
}

func (a *APU) triggerNoise() {
	a.ch4.enabled = a.ch4.dacEnabled
	if a.ch4.lengthTimer == 0 {
		a.ch4.lengthTimer = 64
	}
	a.ch4.frequencyTimer = noiseDivisors[a.ch4.divisorCode] << a.ch4.clockShift
	a.ch4.lfsr = 0x7FFF
	a.ch4.envelopeTimer = a.ch4.envelopePeriod
	a.ch4.volume = a.ch4.envelopeInitialVolume
}

func (a *APU) setPower(on bool) {
	if a.powerOn == on {
		return
	}
	a.powerOn = on
	if !on {
		// turning power off resets every register to zero, silencing all
		// channels; the sample rate, last-seen clock and queued samples
		// survive the reset, while the sample phase accumulator restarts
		// at zero.
		*a = APU{powerOn: false, sampleFrequency: a.sampleFrequency, lastClock: a.lastClock, samples: a.samples}
		a.ch1.hasSweep = true
	} else {
		a.ch1.dutyPos = 0
		a.ch2.dutyPos = 0
		a.ch3.wavePos = 0
		a.frameSeqStep = 0
	}
}

// PowerOnPostBoot seeds every register to the documented values the boot
// ROM leaves behind by the time it hands off to cartridge code, for the
// no-boot-ROM power-on path. Values are the well-known DMG post-boot NRxx
// register table; NR52 is written first since Write drops every other
// register write while powerOn is false.
func (a *APU) PowerOnPostBoot() {
	a.Write(addr.NR52, 0x80)
	a.Write(addr.NR10, 0x80)
	a.Write(addr.NR11, 0xBF)
	a.Write(addr.NR12, 0xF3)
	a.Write(addr.NR13, 0xFF)
	a.Write(addr.NR14, 0xBF)
	a.Write(addr.NR21, 0x3F)
	a.Write(addr.NR22, 0x00)
	a.Write(addr.NR23, 0xFF)
	a.Write(addr.NR24, 0xBF)
	a.Write(addr.NR30, 0x7F)
	a.Write(addr.NR31, 0xFF)
	a.Write(addr.NR32, 0x9F)
	a.Write(addr.NR33, 0xFF)
	a.Write(addr.NR34, 0xBF)
	a.Write(addr.NR41, 0xFF)
	a.Write(addr.NR42, 0x00)
	a.Write(addr.NR43, 0x00)
	a.Write(addr.NR44, 0xBF)
	a.Write(addr.NR50, 0x77)
	a.Write(addr.NR51, 0xF3)
}
