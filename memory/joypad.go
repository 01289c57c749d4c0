package memory

// JoypadBit identifies one of the eight buttons in the host-facing
// set_joypad bitmask: bit 7..0 = Start, Select, B, A, Down, Up, Left, Right.
// A 0 bit means the button is pressed.
type JoypadBit uint8

const (
	JoypadStart JoypadBit = 1 << 7
	JoypadSelect JoypadBit = 1 << 6
	JoypadB     JoypadBit = 1 << 5
	JoypadA     JoypadBit = 1 << 4
	JoypadDown  JoypadBit = 1 << 3
	JoypadUp    JoypadBit = 1 << 2
	JoypadLeft  JoypadBit = 1 << 1
	JoypadRight JoypadBit = 1 << 0
)

// Joypad models the P1 (0xFF00) register and the host-visible button
// state backing it. The upper nibble selects which of the two 4-bit
// groups (direction keys, action keys) is multiplexed onto the lower
// nibble; both can be selected at once, in which case bits are ANDed.
type Joypad struct {
	state    byte // 8 bits, 0 = pressed, host-facing
	selected byte // last value written to P1's select bits (4,5)
}

func NewJoypad() *Joypad {
	return &Joypad{state: 0xFF}
}

// SetState replaces the full 8-bit button state. Returns true if any
// previously-unpressed button transitioned to pressed while selected,
// which the caller should turn into a joypad interrupt request.
func (j *Joypad) SetState(bits byte) bool {
	before := j.Read()
	j.state = bits
	after := j.Read()
	// a high-to-low transition on any bit the current selection exposes
	// raises the joypad interrupt
	return before&^after != 0
}

// Read returns the current P1 register value: bits 6-7 fixed high, bits
// 4-5 reflecting the last select write, and bits 0-3 the multiplexed
// button nibble.
func (j *Joypad) Read() byte {
	nibble := byte(0x0F)
	if j.selected&0x10 == 0 { // direction keys selected
		nibble &= j.state & 0x0F
	}
	if j.selected&0x20 == 0 { // action keys selected
		nibble &= (j.state >> 4) & 0x0F
	}
	return 0xC0 | (j.selected & 0x30) | nibble
}

// Write stores the select bits (4,5) from a P1 write; the lower nibble is
// read-only from the CPU's perspective.
func (j *Joypad) Write(value byte) {
	j.selected = value & 0x30
}

// JoypadSnapshot is the plain-data form of Joypad state used by save states.
type JoypadSnapshot struct {
	State, Selected byte
}

func (j *Joypad) Export() JoypadSnapshot {
	return JoypadSnapshot{State: j.state, Selected: j.selected}
}

func (j *Joypad) Import(s JoypadSnapshot) {
	j.state, j.selected = s.State, s.Selected
}
