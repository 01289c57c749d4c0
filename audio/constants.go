package audio

// waveDutyTable holds the 8-step high/low pattern for each of the four duty
// cycles (12.5%, 25%, 50%, 75%) usable by channels 1 and 2.
var waveDutyTable = [4]uint8{
	0b0000_0001, // 12.5%
	0b0000_0011, // 25%
	0b0000_1111, // 50%
	0b1111_1100, // 75%
}

// ch3ShiftTable maps NR32 bits 5-6 to a right-shift amount applied to each
// 4-bit wave sample: 0 -> mute (shift 4), 1 -> 100% (shift 0), 2 -> 50%
// (shift 1), 3 -> 25% (shift 2). The mapping is intentionally non-linear.
var ch3ShiftTable = [4]uint8{4, 0, 1, 2}

// noiseDivisors maps NR43 bits 0-2 to the LFSR clock divisor.
var noiseDivisors = [8]int{8, 16, 32, 48, 64, 80, 96, 112}

const (
	squareFreqTimerMultiplier = 4
	waveFreqTimerMultiplier   = 2

	ch3WaveRAMSize = 16
)
