package dmgcore

import "github.com/tholian-dev/dmgcore/addr"

// interruptController holds the IF/IE register pair. It is deliberately
// tiny and is held by value on Bus; the PPU, timer, serial port and joypad
// raise their bits through requestBit.
type interruptController struct {
	flags  byte // IF, 0xFF0F; only the low 5 bits are meaningful
	enable byte // IE, 0xFFFF
}

func (ic *interruptController) request(source addr.Interrupt) {
	ic.flags |= byte(source)
}

func (ic *interruptController) requestBit(index uint8) {
	ic.flags |= 1 << index
}

func (ic *interruptController) clearBit(index uint8) {
	ic.flags &^= 1 << index
}

func (ic *interruptController) pending() byte {
	return ic.flags & ic.enable & 0x1F
}

func (ic *interruptController) readIF() byte { return ic.flags | 0xE0 }
func (ic *interruptController) readIE() byte { return ic.enable }

func (ic *interruptController) writeIF(v byte) { ic.flags = v & 0x1F }
func (ic *interruptController) writeIE(v byte) { ic.enable = v }
