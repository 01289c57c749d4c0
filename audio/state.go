package audio

// squareSnapshot, waveSnapshot and noiseSnapshot are the plain-data forms
// of each channel's internal state, used by save states.
type squareSnapshot struct {
	Enabled, DACEnabled                          bool
	LengthTimer                                  uint16
	LengthEnabled                                bool
	Frequency                                    uint16
	FrequencyTimer                                int32
	DutyPos, Duty                                 uint8
	Volume, EnvelopeInitialVolume                 uint8
	EnvelopeIncreasing                            bool
	EnvelopePeriod, EnvelopeTimer                 uint8
	HasSweep                                      bool
	ShadowFrequency                               uint16
	SweepTimer                                    uint8
	SweepEnabled                                  bool
	SweepPeriod                                   uint8
	SweepDecreasing                               bool
	SweepShift                                    uint8
}

func (c *squareChannel) export() squareSnapshot {
	return squareSnapshot{
		Enabled: c.enabled, DACEnabled: c.dacEnabled,
		LengthTimer: c.lengthTimer, LengthEnabled: c.lengthEnabled,
		Frequency: c.frequency, FrequencyTimer: int32(c.frequencyTimer),
		DutyPos: c.dutyPos, Duty: c.duty,
		Volume: c.volume, EnvelopeInitialVolume: c.envelopeInitialVolume,
		EnvelopeIncreasing: c.envelopeIncreasing,
		EnvelopePeriod:     c.envelopePeriod, EnvelopeTimer: c.envelopeTimer,
		HasSweep: c.hasSweep, ShadowFrequency: c.shadowFrequency,
		SweepTimer: c.sweepTimer, SweepEnabled: c.sweepEnabled,
		SweepPeriod: c.sweepPeriod, SweepDecreasing: c.sweepDecreasing,
		SweepShift: c.sweepShift,
	}
}

func (c *squareChannel) restore(s squareSnapshot) {
	c.enabled, c.dacEnabled = s.Enabled, s.DACEnabled
	c.lengthTimer, c.lengthEnabled = s.LengthTimer, s.LengthEnabled
	c.frequency, c.frequencyTimer = s.Frequency, int(s.FrequencyTimer)
	c.dutyPos, c.duty = s.DutyPos, s.Duty
	c.volume, c.envelopeInitialVolume = s.Volume, s.EnvelopeInitialVolume
	c.envelopeIncreasing = s.EnvelopeIncreasing
	c.envelopePeriod, c.envelopeTimer = s.EnvelopePeriod, s.EnvelopeTimer
	c.hasSweep, c.shadowFrequency = s.HasSweep, s.ShadowFrequency
	c.sweepTimer, c.sweepEnabled = s.SweepTimer, s.SweepEnabled
	c.sweepPeriod, c.sweepDecreasing = s.SweepPeriod, s.SweepDecreasing
	c.sweepShift = s.SweepShift
}

type waveSnapshot struct {
	Enabled, DACEnabled          bool
	LengthTimer                  uint16
	LengthEnabled                bool
	Frequency                    uint16
	FrequencyTimer                int32
	WavePos, OutputLevel          uint8
	WaveRAM                       [ch3WaveRAMSize]byte
}

func (c *waveChannel) export() waveSnapshot {
	return waveSnapshot{
		Enabled: c.enabled, DACEnabled: c.dacEnabled,
		LengthTimer: c.lengthTimer, LengthEnabled: c.lengthEnabled,
		Frequency: c.frequency, FrequencyTimer: int32(c.frequencyTimer),
		WavePos: c.wavePos, OutputLevel: c.outputLevel,
		WaveRAM: c.waveRAM,
	}
}

func (c *waveChannel) restore(s waveSnapshot) {
	c.enabled, c.dacEnabled = s.Enabled, s.DACEnabled
	c.lengthTimer, c.lengthEnabled = s.LengthTimer, s.LengthEnabled
	c.frequency, c.frequencyTimer = s.Frequency, int(s.FrequencyTimer)
	c.wavePos, c.outputLevel = s.WavePos, s.OutputLevel
	c.waveRAM = s.WaveRAM
}

type noiseSnapshot struct {
	Enabled, DACEnabled            bool
	LengthTimer                    uint16
	LengthEnabled                  bool
	FrequencyTimer                  int32
	LFSR                            uint16
	WidthMode7Bit                   bool
	ClockShift, DivisorCode         uint8
	Volume, EnvelopeInitialVolume   uint8
	EnvelopeIncreasing              bool
	EnvelopePeriod, EnvelopeTimer   uint8
}

func (c *noiseChannel) export() noiseSnapshot {
	return noiseSnapshot{
		Enabled: c.enabled, DACEnabled: c.dacEnabled,
		LengthTimer: c.lengthTimer, LengthEnabled: c.lengthEnabled,
		FrequencyTimer: int32(c.frequencyTimer),
		LFSR:           c.lfsr, WidthMode7Bit: c.widthMode7bit,
		ClockShift: c.clockShift, DivisorCode: c.divisorCode,
		Volume: c.volume, EnvelopeInitialVolume: c.envelopeInitialVolume,
		EnvelopeIncreasing: c.envelopeIncreasing,
		EnvelopePeriod:     c.envelopePeriod, EnvelopeTimer: c.envelopeTimer,
	}
}

func (c *noiseChannel) restore(s noiseSnapshot) {
	c.enabled, c.dacEnabled = s.Enabled, s.DACEnabled
	c.lengthTimer, c.lengthEnabled = s.LengthTimer, s.LengthEnabled
	c.frequencyTimer = int(s.FrequencyTimer)
	c.lfsr, c.widthMode7bit = s.LFSR, s.WidthMode7Bit
	c.clockShift, c.divisorCode = s.ClockShift, s.DivisorCode
	c.volume, c.envelopeInitialVolume = s.Volume, s.EnvelopeInitialVolume
	c.envelopeIncreasing = s.EnvelopeIncreasing
	c.envelopePeriod, c.envelopeTimer = s.EnvelopePeriod, s.EnvelopeTimer
}

// Snapshot is the plain-data form of the full APU used by save states.
type Snapshot struct {
	PowerOn                bool
	CH1, CH2               squareSnapshot
	CH3                    waveSnapshot
	CH4                    noiseSnapshot
	NR50, NR51             byte
	FrameSeqStep           uint8
	FrameSeqTimer          int32
	LastClock              uint64
	SampleMod              uint64
}

func (a *APU) Export() Snapshot {
	return Snapshot{
		PowerOn: a.powerOn,
		CH1:     a.ch1.export(), CH2: a.ch2.export(),
		CH3: a.ch3.export(), CH4: a.ch4.export(),
		NR50: a.nr50, NR51: a.nr51,
		FrameSeqStep: a.frameSeqStep, FrameSeqTimer: int32(a.frameSeqTimer),
		LastClock: a.lastClock, SampleMod: a.sampleMod,
	}
}

func (a *APU) Import(s Snapshot) {
	a.powerOn = s.PowerOn
	a.ch1.restore(s.CH1)
	a.ch2.restore(s.CH2)
	a.ch3.restore(s.CH3)
	a.ch4.restore(s.CH4)
	a.nr50, a.nr51 = s.NR50, s.NR51
	a.frameSeqStep = s.FrameSeqStep
	a.frameSeqTimer = int(s.FrameSeqTimer)
	a.lastClock = s.LastClock
	a.sampleMod = s.SampleMod
}
