package cpu

import "github.com/tholian-dev/dmgcore/addr"

// Step runs exactly one instruction (or one idle cycle while halted/
// stopped, or one interrupt dispatch) and returns. The EI delay, HALT
// wake-up, and interrupt-dispatch checks all happen here rather than
// inside execute, since they gate whether execute runs at all.
func (c *CPU) Step() {
	if c.imeDelay > 0 {
		// EI's delay: IME becomes Enabled once the instruction following
		// EI has executed, unless that instruction was DI.
		defer func() {
			if c.imeDelay > 0 {
				c.imeDelay--
				if c.imeDelay == 0 && c.ime == IMEEnabling {
					c.ime = IMEEnabled
				}
			}
		}()
	}

	if c.state == Halted {
		if c.bus.PendingInterrupts() != 0 {
			c.state = Running
		} else {
			c.bus.Tick(4)
			return
		}
	}

	if c.state == Stopped {
		c.bus.Tick(4)
		return
	}

	if c.ime == IMEEnabled {
		if pending := c.bus.PendingInterrupts(); pending != 0 {
			c.dispatchInterrupt(pending)
			return
		}
	}

	op := c.fetchOpcode()
	if op == 0xCB {
		cbOp := c.fetchByte()
		c.executeCB(cbOp)
		return
	}
	c.execute(op)
}

// halt implements the HALT opcode, including the documented "HALT bug":
// executing HALT while IME is not truly enabled and an interrupt is
// already pending does not halt the CPU at all, it instead fails to
// advance PC past the HALT opcode for the next fetch.
func (c *CPU) halt() {
	if c.ime == IMEEnabled {
		c.state = Halted
		return
	}
	if c.bus.PendingInterrupts() != 0 {
		c.haltBug = true
		return
	}
	c.state = Halted
}

// dispatchInterrupt services the lowest-indexed pending interrupt: two
// idle M-cycles, a push of PC, then a final M-cycle to load the vector
// address, for 20 T-cycles total.
func (c *CPU) dispatchInterrupt(pending byte) {
	index := lowestSetBit(pending)
	c.bus.ClearInterrupt(index)
	c.ime = IMEDisabled
	c.state = Running
	c.bus.Tick(8)
	c.pushStack(c.pc)
	c.pc = addr.VectorFor(index)
	c.bus.Tick(4)
}

func lowestSetBit(v byte) uint8 {
	for i := uint8(0); i < 5; i++ {
		if v&(1<<i) != 0 {
			return i
		}
	}
	return 0
}
