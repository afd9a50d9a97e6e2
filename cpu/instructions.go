package cpu

// Instruction handlers, ported from mos6502.go's per-opcode logic but
// adapted to read/write through operandAddress/readOperand/rmw so every
// bus access charges its own cycle. Handlers return an error only for BRK
// and STP; bus faults are discarded, not returned.

func adc(c *Cpu, mode uint8) error {
	c.addWithCarry(c.readOperand(mode))
	return nil
}

func (c *Cpu) addWithCarry(b uint8) {
	a := c.A
	carry := uint16(0)
	if c.flagSet(FlagCarry) {
		carry = 1
	}
	sum := uint16(a) + uint16(b) + carry
	c.A = uint8(sum)

	if sum > 0xFF {
		c.flagsOn(FlagCarry)
	} else {
		c.flagsOff(FlagCarry)
	}
	if (a^c.A)&(b^c.A)&0x80 != 0 {
		c.flagsOn(FlagOverflow)
	} else {
		c.flagsOff(FlagOverflow)
	}
	c.setZN(c.A)
}

func and_(c *Cpu, mode uint8) error {
	c.A &= c.readOperand(mode)
	c.setZN(c.A)
	return nil
}

func asl(c *Cpu, mode uint8) error {
	c.rmw(mode, func(v uint8) uint8 {
		if v&0x80 != 0 {
			c.flagsOn(FlagCarry)
		} else {
			c.flagsOff(FlagCarry)
		}
		r := v << 1
		c.setZN(r)
		return r
	})
	return nil
}

func (c *Cpu) branchOn(cond bool) error {
	c.branch(cond)
	return nil
}

func bcc(c *Cpu, mode uint8) error { return c.branchOn(!c.flagSet(FlagCarry)) }
func bcs(c *Cpu, mode uint8) error { return c.branchOn(c.flagSet(FlagCarry)) }
func beq(c *Cpu, mode uint8) error { return c.branchOn(c.flagSet(FlagZero)) }
func bne(c *Cpu, mode uint8) error { return c.branchOn(!c.flagSet(FlagZero)) }
func bmi(c *Cpu, mode uint8) error { return c.branchOn(c.flagSet(FlagNegative)) }
func bpl(c *Cpu, mode uint8) error { return c.branchOn(!c.flagSet(FlagNegative)) }
func bvc(c *Cpu, mode uint8) error { return c.branchOn(!c.flagSet(FlagOverflow)) }
func bvs(c *Cpu, mode uint8) error { return c.branchOn(c.flagSet(FlagOverflow)) }

func bit(c *Cpu, mode uint8) error {
	v := c.readOperand(mode)
	if c.A&v == 0 {
		c.flagsOn(FlagZero)
	} else {
		c.flagsOff(FlagZero)
	}
	if v&0x80 != 0 {
		c.flagsOn(FlagNegative)
	} else {
		c.flagsOff(FlagNegative)
	}
	if v&0x40 != 0 {
		c.flagsOn(FlagOverflow)
	} else {
		c.flagsOff(FlagOverflow)
	}
	return nil
}

// brk pushes PC+1 (the byte after the padding byte BRK always consumes),
// then status with B set, disables further IRQs, and reads the new PC
// through the bus from the IRQ/BRK vector ($FFFE/$FFFF) per spec.md
// §4.5/§9 and §8 S1's 7-cycle count.
func brk(c *Cpu, mode uint8) error {
	c.fetch() // padding byte, always consumed and discarded
	c.pushAddress(c.PC)
	c.push(c.statusBits(true))
	c.flagsOn(FlagInterruptDisable)
	lo, _ := c.Mem.Get(0xFFFE)
	hi, _ := c.Mem.Get(0xFFFF)
	c.PC = uint16(hi)<<8 | uint16(lo)
	return ErrBreak
}

// Implied-mode flag ops charge an extra internal cycle, per spec.md
// §4.5's "Implied/accumulator-only ops: add one cycle."
func clc(c *Cpu, mode uint8) error { c.Mem.Cycle(); c.flagsOff(FlagCarry); return nil }
func cld(c *Cpu, mode uint8) error { c.Mem.Cycle(); c.flagsOff(FlagDecimal); return nil }
func cli(c *Cpu, mode uint8) error { c.Mem.Cycle(); c.flagsOff(FlagInterruptDisable); return nil }
func clv(c *Cpu, mode uint8) error { c.Mem.Cycle(); c.flagsOff(FlagOverflow); return nil }
func sec(c *Cpu, mode uint8) error { c.Mem.Cycle(); c.flagsOn(FlagCarry); return nil }
func sed(c *Cpu, mode uint8) error { c.Mem.Cycle(); c.flagsOn(FlagDecimal); return nil }
func sei(c *Cpu, mode uint8) error { c.Mem.Cycle(); c.flagsOn(FlagInterruptDisable); return nil }

func (c *Cpu) compare(reg, v uint8) {
	diff := reg - v
	if reg >= v {
		c.flagsOn(FlagCarry)
	} else {
		c.flagsOff(FlagCarry)
	}
	c.setZN(diff)
}

func cmp(c *Cpu, mode uint8) error { c.compare(c.A, c.readOperand(mode)); return nil }
func cpx(c *Cpu, mode uint8) error { c.compare(c.X, c.readOperand(mode)); return nil }
func cpy(c *Cpu, mode uint8) error { c.compare(c.Y, c.readOperand(mode)); return nil }

func dec(c *Cpu, mode uint8) error {
	c.rmw(mode, func(v uint8) uint8 {
		r := v - 1
		c.setZN(r)
		return r
	})
	return nil
}

func dex(c *Cpu, mode uint8) error { c.Mem.Cycle(); c.X--; c.setZN(c.X); return nil }
func dey(c *Cpu, mode uint8) error { c.Mem.Cycle(); c.Y--; c.setZN(c.Y); return nil }
func inx(c *Cpu, mode uint8) error { c.Mem.Cycle(); c.X++; c.setZN(c.X); return nil }
func iny(c *Cpu, mode uint8) error { c.Mem.Cycle(); c.Y++; c.setZN(c.Y); return nil }

func inc(c *Cpu, mode uint8) error {
	c.rmw(mode, func(v uint8) uint8 {
		r := v + 1
		c.setZN(r)
		return r
	})
	return nil
}

func eor(c *Cpu, mode uint8) error {
	c.A ^= c.readOperand(mode)
	c.setZN(c.A)
	return nil
}

func ora(c *Cpu, mode uint8) error {
	c.A |= c.readOperand(mode)
	c.setZN(c.A)
	return nil
}

func jmp(c *Cpu, mode uint8) error {
	c.PC = c.operandAddress(mode, false)
	return nil
}

func jsr(c *Cpu, mode uint8) error {
	target := c.fetch16()
	c.Mem.Cycle() // internal: predecrement stack pointer
	c.pushAddress(c.PC - 1)
	c.PC = target
	return nil
}

func rts(c *Cpu, mode uint8) error {
	c.Mem.Cycle() // dummy read of the byte after the opcode, discarded
	c.Mem.Cycle() // internal: increment stack pointer
	c.PC = c.popAddress() + 1
	c.Mem.Cycle() // internal delay before the next fetch
	return nil
}

func rti(c *Cpu, mode uint8) error {
	c.Mem.Cycle() // dummy read of the byte after the opcode, discarded
	c.Mem.Cycle() // internal: increment stack pointer
	status := c.pop()
	c.P = status &^ (FlagBreak | FlagUnused)
	c.PC = c.popAddress()
	return nil
}

func lda(c *Cpu, mode uint8) error { c.A = c.readOperand(mode); c.setZN(c.A); return nil }
func ldx(c *Cpu, mode uint8) error { c.X = c.readOperand(mode); c.setZN(c.X); return nil }
func ldy(c *Cpu, mode uint8) error { c.Y = c.readOperand(mode); c.setZN(c.Y); return nil }

func lsr(c *Cpu, mode uint8) error {
	c.rmw(mode, func(v uint8) uint8 {
		if v&0x01 != 0 {
			c.flagsOn(FlagCarry)
		} else {
			c.flagsOff(FlagCarry)
		}
		r := v >> 1
		c.setZN(r)
		return r
	})
	return nil
}

// Documented illegal NOP variants consume an operand like their
// addressing mode implies but otherwise have no effect. Implied-mode NOP
// still charges the internal cycle every implied-only op adds.
func nop(c *Cpu, mode uint8) error {
	if mode == Implied {
		c.Mem.Cycle()
	} else {
		c.readOperand(mode)
	}
	return nil
}

// PHA/PHP add one cycle, PLA/PLP add two, per spec.md §4.5's push/pull rule.
func pha(c *Cpu, mode uint8) error { c.Mem.Cycle(); c.push(c.A); return nil }

func php(c *Cpu, mode uint8) error { c.Mem.Cycle(); c.push(c.statusBits(true)); return nil }

func pla(c *Cpu, mode uint8) error {
	c.Mem.Cycle() // internal delay for the dummy stack read
	c.Mem.Cycle() // internal: increment stack pointer
	c.A = c.pop()
	c.setZN(c.A)
	return nil
}

func plp(c *Cpu, mode uint8) error {
	c.Mem.Cycle()
	c.Mem.Cycle()
	status := c.pop()
	c.P = status &^ (FlagBreak | FlagUnused)
	return nil
}

func rol(c *Cpu, mode uint8) error {
	c.rmw(mode, func(v uint8) uint8 {
		oldCarry := uint8(0)
		if c.flagSet(FlagCarry) {
			oldCarry = 1
		}
		if v&0x80 != 0 {
			c.flagsOn(FlagCarry)
		} else {
			c.flagsOff(FlagCarry)
		}
		r := (v << 1) | oldCarry
		c.setZN(r)
		return r
	})
	return nil
}

func ror(c *Cpu, mode uint8) error {
	c.rmw(mode, func(v uint8) uint8 {
		oldCarry := uint8(0)
		if c.flagSet(FlagCarry) {
			oldCarry = 0x80
		}
		if v&0x01 != 0 {
			c.flagsOn(FlagCarry)
		} else {
			c.flagsOff(FlagCarry)
		}
		r := (v >> 1) | oldCarry
		c.setZN(r)
		return r
	})
	return nil
}

func sbc(c *Cpu, mode uint8) error {
	c.addWithCarry(^c.readOperand(mode))
	return nil
}

func sta(c *Cpu, mode uint8) error {
	c.Mem.Set(c.operandAddress(mode, true), c.A)
	return nil
}

func stx(c *Cpu, mode uint8) error {
	c.Mem.Set(c.operandAddress(mode, true), c.X)
	return nil
}

func sty(c *Cpu, mode uint8) error {
	c.Mem.Set(c.operandAddress(mode, true), c.Y)
	return nil
}

func tax(c *Cpu, mode uint8) error { c.Mem.Cycle(); c.X = c.A; c.setZN(c.X); return nil }
func tay(c *Cpu, mode uint8) error { c.Mem.Cycle(); c.Y = c.A; c.setZN(c.Y); return nil }
func tsx(c *Cpu, mode uint8) error { c.Mem.Cycle(); c.X = c.SP; c.setZN(c.X); return nil }
func txa(c *Cpu, mode uint8) error { c.Mem.Cycle(); c.A = c.X; c.setZN(c.A); return nil }
func txs(c *Cpu, mode uint8) error { c.Mem.Cycle(); c.SP = c.X; return nil }
func tya(c *Cpu, mode uint8) error { c.Mem.Cycle(); c.A = c.Y; c.setZN(c.A); return nil }

// stp halts the core, matching the 6502's documented KIL/STP/JAM
// opcodes, which hang the bus until reset.
func stp(c *Cpu, mode uint8) error { return ErrStop }

// sbcUnofficial is $EB, a byte-identical duplicate of SBC immediate that
// real 6502s execute — kept distinct from sbc() only so the decode table
// can cite it explicitly per spec.md §9's illegal-opcode policy.
func sbcUnofficial(c *Cpu, mode uint8) error { return sbc(c, mode) }
