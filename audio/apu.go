// Package audio implements the four-channel programmable sound generator:
// two square channels (one with frequency sweep), a wave channel fed from
// 16 bytes of wave RAM, and a noise channel driven by an LFSR, mixed
// through NR50/NR51 into an interleaved stereo sample queue.
package audio

import "github.com/tholian-dev/dmgcore/timing"

type squareChannel struct {
	enabled     bool
	dacEnabled  bool
	lengthTimer uint16
	lengthEnabled bool

	frequency      uint16
	frequencyTimer int
	dutyPos        uint8
	duty           uint8

	volume                uint8
	envelopeInitialVolume uint8
	envelopeIncreasing    bool
	envelopePeriod        uint8
	envelopeTimer         uint8

	hasSweep        bool
	shadowFrequency uint16
	sweepTimer      uint8
	sweepEnabled    bool
	sweepPeriod     uint8
	sweepDecreasing bool
	sweepShift      uint8
}

func (c *squareChannel) lengthClock() {
	if !c.lengthEnabled || c.lengthTimer == 0 {
		return
	}
	c.lengthTimer--
	if c.lengthTimer == 0 {
		c.enabled = false
	}
}

func (c *squareChannel) envelopeClock() {
	if c.envelopePeriod == 0 {
		return
	}
	if c.envelopeTimer > 0 {
		c.envelopeTimer--
	}
	if c.envelopeTimer == 0 {
		c.envelopeTimer = c.envelopePeriod
		if c.envelopeIncreasing && c.volume < 15 {
			c.volume++
		} else if !c.envelopeIncreasing && c.volume > 0 {
			c.volume--
		}
	}
}

func (c *squareChannel) stepFrequencyTimer() {
	c.frequencyTimer--
	if c.frequencyTimer <= 0 {
		c.frequencyTimer = (2048 - int(c.frequency)) * squareFreqTimerMultiplier
		c.dutyPos = (c.dutyPos + 1) % 8
	}
}

func (c *squareChannel) amplitude() int {
	if !c.enabled || !c.dacEnabled {
		return 0
	}
	bit := (waveDutyTable[c.duty] >> c.dutyPos) & 1
	return int(bit) * int(c.volume)
}

// sweepFrequency recomputes the swept frequency from the shadow register
// and reports whether it overflowed past 2047.
func (c *squareChannel) sweepFrequency() (newFreq uint16, overflow bool) {
	delta := c.shadowFrequency >> c.sweepShift
	if c.sweepDecreasing {
		newFreq = c.shadowFrequency - delta
	} else {
		newFreq = c.shadowFrequency + delta
	}
	return newFreq, newFreq > 2047
}

func (c *squareChannel) sweepClock() {
	if !c.hasSweep || !c.sweepEnabled {
		return
	}
	if c.sweepTimer > 0 {
		c.sweepTimer--
	}
	if c.sweepTimer != 0 {
		return
	}
	c.sweepTimer = c.sweepPeriod
	if c.sweepTimer == 0 {
		c.sweepTimer = 8
	}
	if c.sweepPeriod == 0 {
		return
	}
	newFreq, overflow := c.sweepFrequency()
	if overflow {
		c.enabled = false
		return
	}
	if c.sweepShift == 0 {
		return
	}
	c.shadowFrequency = newFreq
	c.frequency = newFreq & 0x7FF
	// a second overflow check with the new shadow value disables the
	// channel on the following recalculation, matching hardware.
	if _, overflow2 := c.sweepFrequency(); overflow2 {
		c.enabled = false
	}
}

type waveChannel struct {
	enabled       bool
	dacEnabled    bool
	lengthTimer   uint16
	lengthEnabled bool

	frequency      uint16
	frequencyTimer int
	wavePos        uint8
	outputLevel    uint8 // raw NR32 bits 5-6
	waveRAM        [ch3WaveRAMSize]byte
}

func (c *waveChannel) lengthClock() {
	if !c.lengthEnabled || c.lengthTimer == 0 {
		return
	}
	c.lengthTimer--
	if c.lengthTimer == 0 {
		c.enabled = false
	}
}

func (c *waveChannel) stepFrequencyTimer() {
	c.frequencyTimer--
	if c.frequencyTimer <= 0 {
		c.frequencyTimer = (2048 - int(c.frequency)) * waveFreqTimerMultiplier
		c.wavePos = (c.wavePos + 1) % 32
	}
}

func (c *waveChannel) amplitude() int {
	if !c.enabled || !c.dacEnabled {
		return 0
	}
	b := c.waveRAM[c.wavePos/2]
	var nibble byte
	if c.wavePos%2 == 0 {
		nibble = b >> 4
	} else {
		nibble = b & 0x0F
	}
	shift := ch3ShiftTable[c.outputLevel&0x03]
	return int(nibble >> shift)
}

type noiseChannel struct {
	enabled       bool
	dacEnabled    bool
	lengthTimer   uint16
	lengthEnabled bool

	frequencyTimer int
	lfsr           uint16
	widthMode7bit  bool
	clockShift     uint8
	divisorCode    uint8

	volume                uint8
	envelopeInitialVolume uint8
	envelopeIncreasing    bool
	envelopePeriod        uint8
	envelopeTimer         uint8
}

func (c *noiseChannel) lengthClock() {
	if !c.lengthEnabled || c.lengthTimer == 0 {
		return
	}
	c.lengthTimer--
	if c.lengthTimer == 0 {
		c.enabled = false
	}
}

func (c *noiseChannel) envelopeClock() {
	if c.envelopePeriod == 0 {
		return
	}
	if c.envelopeTimer > 0 {
		c.envelopeTimer--
	}
	if c.envelopeTimer == 0 {
		c.envelopeTimer = c.envelopePeriod
		if c.envelopeIncreasing && c.volume < 15 {
			c.volume++
		} else if !c.envelopeIncreasing && c.volume > 0 {
			c.volume--
		}
	}
}

func (c *noiseChannel) stepFrequencyTimer() {
	c.frequencyTimer--
	if c.frequencyTimer <= 0 {
		c.frequencyTimer = noiseDivisors[c.divisorCode] << c.clockShift
		xor := (c.lfsr & 1) ^ ((c.lfsr >> 1) & 1)
		c.lfsr = (c.lfsr >> 1) | (xor << 14)
		if c.widthMode7bit {
			c.lfsr &^= 1 << 6
			c.lfsr |= xor << 6
		}
	}
}

func (c *noiseChannel) amplitude() int {
	if !c.enabled || !c.dacEnabled {
		return 0
	}
	if c.lfsr&1 == 1 {
		return 0
	}
	return int(c.volume)
}

// APU is the four-channel sound controller. It is lazily caught up: a
// caller must invoke Tick with the current clock_count before reading
// registers or draining samples, matching the "APU catches up on query"
// model described for the scheduler.
type APU struct {
	powerOn bool

	ch1, ch2 squareChannel
	ch3      waveChannel
	ch4      noiseChannel

	nr50, nr51 byte

	frameSeqStep  uint8
	frameSeqTimer int

	lastClock       uint64
	sampleFrequency uint64
	sampleMod       uint64

	samples []int16
}

// New builds an APU producing samples at the given host sample rate
// (e.g. 44100).
func New(sampleRate uint64) *APU {
	a := &APU{sampleFrequency: sampleRate}
	a.frameSeqTimer = timing.FrameSequencerPeriod
	a.ch1.hasSweep = true
	return a
}

// Tick advances every channel and the frame sequencer from the APU's last
// observed clock to clockCount, one T-cycle at a time, emitting samples
// along the way.
func (a *APU) Tick(clockCount uint64) {
	if clockCount <= a.lastClock {
		return
	}
	for c := a.lastClock; c < clockCount; c++ {
		if a.powerOn {
			a.ch1.stepFrequencyTimer()
			a.ch2.stepFrequencyTimer()
			a.ch3.stepFrequencyTimer()
			a.ch4.stepFrequencyTimer()

			a.frameSeqTimer--
			if a.frameSeqTimer <= 0 {
				a.frameSeqTimer = timing.FrameSequencerPeriod
				a.stepFrameSequencer()
			}
		}
		a.emitSample()
	}
	a.lastClock = clockCount
}

func (a *APU) stepFrameSequencer() {
	switch a.frameSeqStep {
	case 0, 4:
		a.clockLength()
	case 2, 6:
		a.clockLength()
		a.ch1.sweepClock()
	case 7:
		a.clockEnvelope()
	}
	a.frameSeqStep = (a.frameSeqStep + 1) % 8
}

func (a *APU) clockLength() {
	a.ch1.lengthClock()
	a.ch2.lengthClock()
	a.ch3.lengthClock()
	a.ch4.lengthClock()
}

func (a *APU) clockEnvelope() {
	a.ch1.envelopeClock()
	a.ch2.envelopeClock()
	a.ch4.envelopeClock()
}

func (a *APU) emitSample() {
	a.sampleMod = (a.sampleMod + a.sampleFrequency) % timing.CPUClockHz
	if a.sampleMod >= a.sampleFrequency {
		return
	}

	var left, right int
	amps := [4]int{a.ch1.amplitude(), a.ch2.amplitude(), a.ch3.amplitude(), a.ch4.amplitude()}
	for i, amp := range amps {
		if a.nr51&(1<<(i+4)) != 0 {
			left += amp
		}
		if a.nr51&(1<<i) != 0 {
			right += amp
		}
	}

	leftVol := int((a.nr50>>4)&0x07) + 1
	rightVol := int(a.nr50&0x07) + 1
	left = left * leftVol * 4
	right = right * rightVol * 4

	a.samples = append(a.samples, clampSample(left), clampSample(right))
}

func clampSample(v int) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

// Drain returns and clears the interleaved stereo sample queue.
func (a *APU) Drain() []int16 {
	out := a.samples
	a.samples = nil
	return out
}
