// Package cpu implements a cycle-accurate MOS 6502 interpreter for the
// NES's CPU core: all 151 legal opcodes, the documented illegal opcodes
// (NOP variants, the $EB unofficial SBC, the STP/KIL family), and exact
// per-instruction cycle accounting via the underlying memory bus.
//
// Grounded on mos6502/mos6502.go's opcode-table shape and instruction
// naming, with dispatch reworked from reflection into a plain function
// table (see SPEC_FULL.md §4.5 / DESIGN.md), and opcode coverage
// reconciled against original_source/decoder.rs's literal decode table.
package cpu

import (
	"fmt"

	"github.com/bdwalton/gontendo/memory"
)

// Status register bit positions, matching original_source/cpu.rs's
// StatusRegister bitflags exactly (C Z I D B U V N).
const (
	FlagCarry            uint8 = 1 << 0
	FlagZero             uint8 = 1 << 1
	FlagInterruptDisable uint8 = 1 << 2
	FlagDecimal          uint8 = 1 << 3
	FlagBreak            uint8 = 1 << 4
	FlagUnused           uint8 = 1 << 5
	FlagOverflow         uint8 = 1 << 6
	FlagNegative         uint8 = 1 << 7
)

// Addressing modes.
const (
	Implied uint8 = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndirectX
	IndirectY
)

const stackPage = 0x0100

// Vectors holds the three 16-bit reset-time interrupt vectors.
type Vectors struct {
	NMI, Reset, IRQ uint16
}

// Registers is the flattened, wire-shaped register snapshot spec.md §3/§6
// describes: p packs C Z I D B U V N with B and U synthesized at read
// time, never stored directly on Cpu.P.
type Registers struct {
	PC      uint16
	A, X, Y uint8
	P       uint8
	SP      uint8
}

// Cpu is a single MOS 6502 core wired to a NES CPU bus.
type Cpu struct {
	A, X, Y uint8
	P       uint8 // C Z I D V N only; U is synthesized, B never stored here
	SP      uint8
	PC      uint16

	Mem     *memory.Memory
	Vectors Vectors
}

// New powers on a Cpu: sp=0xFD, p has only I set (U/B are synthesized on
// read, never stored), pc loaded from the reset vector.
func New(m *memory.Memory) *Cpu {
	c := &Cpu{Mem: m, SP: 0xFD, P: FlagInterruptDisable}
	c.Vectors = readVectors(m)
	c.PC = c.Vectors.Reset
	return c
}

// readVectors reads the three vectors once at reset; a failed read (a ROM
// too small to contain $FFFA-$FFFF, which this core treats as malformed
// but not fatal at this layer) defaults to $8000.
func readVectors(m *memory.Memory) Vectors {
	read := func(addr uint16) uint16 {
		v, err := m.GetShort(addr)
		if err != nil {
			return 0x8000
		}
		return v
	}
	return Vectors{
		NMI:   read(0xFFFA),
		Reset: read(0xFFFC),
		IRQ:   read(0xFFFE),
	}
}

func (c *Cpu) String() string {
	return fmt.Sprintf("A=%02X X=%02X Y=%02X SP=%02X PC=%04X P=%08b", c.A, c.X, c.Y, c.SP, c.PC, c.statusBits(false))
}

// Snapshot returns the flattened register view used by the snapshot codec.
func (c *Cpu) Snapshot() Registers {
	return Registers{PC: c.PC, A: c.A, X: c.X, Y: c.Y, P: c.statusBits(false), SP: c.SP}
}

// Restore loads a flattened register view back into the Cpu. B is dropped
// per spec.md §3 ("never stored in p directly").
func (c *Cpu) Restore(r Registers) {
	c.PC, c.A, c.X, c.Y, c.SP = r.PC, r.A, r.X, r.Y, r.SP
	c.P = r.P &^ (FlagBreak | FlagUnused)
}

// --- flag helpers ---

func (c *Cpu) flagsOn(mask uint8)  { c.P |= mask }
func (c *Cpu) flagsOff(mask uint8) { c.P &^= mask }

func (c *Cpu) flagSet(mask uint8) bool { return c.P&mask != 0 }

func (c *Cpu) setZN(v uint8) {
	if v == 0 {
		c.flagsOn(FlagZero)
	} else {
		c.flagsOff(FlagZero)
	}
	if v&0x80 != 0 {
		c.flagsOn(FlagNegative)
	} else {
		c.flagsOff(FlagNegative)
	}
}

// statusBits packs the pushed/read status byte. U is always forced on;
// B is set only for PHP/BRK pushes, per spec.md §3.
func (c *Cpu) statusBits(brk bool) uint8 {
	v := c.P | FlagUnused
	if brk {
		v |= FlagBreak
	} else {
		v &^= FlagBreak
	}
	return v
}

// --- stack helpers ---

func (c *Cpu) stackAddr() uint16 { return stackPage + uint16(c.SP) }

func (c *Cpu) push(v uint8) {
	c.Mem.Set(c.stackAddr(), v)
	c.SP--
}

func (c *Cpu) pop() uint8 {
	c.SP++
	v, _ := c.Mem.Get(c.stackAddr())
	return v
}

// pushAddress pushes high byte first, then low, matching
// original_source/interpreter.rs's push_address.
func (c *Cpu) pushAddress(addr uint16) {
	c.push(uint8(addr >> 8))
	c.push(uint8(addr))
}

func (c *Cpu) popAddress() uint16 {
	lo := uint16(c.pop())
	hi := uint16(c.pop())
	return hi<<8 | lo
}

// --- fetch helpers (each Get call costs exactly one bus cycle) ---

func (c *Cpu) fetch() uint8 {
	v, _ := c.Mem.Get(c.PC)
	c.PC++
	return v
}

func (c *Cpu) fetch16() uint16 {
	lo := uint16(c.fetch())
	hi := uint16(c.fetch())
	return hi<<8 | lo
}

func pageCrossed(a, b uint16) bool { return a&0xFF00 != b&0xFF00 }

// read16ZP reads a 16-bit pointer out of the zero page, wrapping within
// page 0 (the classic 6502 zero-page-indirect bug).
func (c *Cpu) read16ZP(zp uint8) uint16 {
	lo, _ := c.Mem.Get(uint16(zp))
	hi, _ := c.Mem.Get(uint16(zp + 1))
	return uint16(hi)<<8 | uint16(lo)
}

// readIndirectBuggy reproduces JMP ($xxFF)'s page-wrap bug: the high byte
// is fetched from $xx00, not $(xx+1)00.
func (c *Cpu) readIndirectBuggy(ptr uint16) uint16 {
	lo, _ := c.Mem.Get(ptr)
	hiAddr := (ptr & 0xFF00) | uint16(uint8(ptr)+1)
	hi, _ := c.Mem.Get(hiAddr)
	return uint16(hi)<<8 | uint16(lo)
}

// operandAddress resolves the effective address for mode, charging every
// bus cycle spec.md §4.5 documents (page-crossing surcharges, the
// dummy-read cycle for indexed zero-page and (zp,X), and the
// always-charged surcharge for indexed absolute / (zp),Y writes). Must
// not be called for Implied or Accumulator.
func (c *Cpu) operandAddress(mode uint8, forWrite bool) uint16 {
	switch mode {
	case Immediate:
		addr := c.PC
		c.PC++
		return addr
	case ZeroPage:
		return uint16(c.fetch())
	case ZeroPageX:
		zp := c.fetch()
		c.Mem.Cycle() // dummy read while the index is added
		return uint16(zp + c.X)
	case ZeroPageY:
		zp := c.fetch()
		c.Mem.Cycle()
		return uint16(zp + c.Y)
	case Absolute:
		return c.fetch16()
	case AbsoluteX:
		base := c.fetch16()
		addr := base + uint16(c.X)
		if forWrite || pageCrossed(base, addr) {
			c.Mem.Cycle()
		}
		return addr
	case AbsoluteY:
		base := c.fetch16()
		addr := base + uint16(c.Y)
		if forWrite || pageCrossed(base, addr) {
			c.Mem.Cycle()
		}
		return addr
	case Indirect:
		ptr := c.fetch16()
		return c.readIndirectBuggy(ptr)
	case IndirectX:
		zp := c.fetch()
		c.Mem.Cycle() // dummy read while X is added, always charged
		return c.read16ZP(zp + c.X)
	case IndirectY:
		zp := c.fetch()
		base := c.read16ZP(zp)
		addr := base + uint16(c.Y)
		if forWrite || pageCrossed(base, addr) {
			c.Mem.Cycle()
		}
		return addr
	default:
		panic("cpu: invalid addressing mode for operandAddress")
	}
}

// readOperand reads the operand byte for a read-only instruction
// (ADC/AND/CMP/LDA/...), handling Immediate inline without an extra bus
// access.
func (c *Cpu) readOperand(mode uint8) uint8 {
	if mode == Immediate {
		return c.fetch()
	}
	v, _ := c.Mem.Get(c.operandAddress(mode, false))
	return v
}

// rmw reads, dummy-writes back the original value, then writes back f's
// result — the real read-modify-write bus pattern for ASL/LSR/ROL/ROR/
// INC/DEC on memory operands.
func (c *Cpu) rmw(mode uint8, f func(uint8) uint8) {
	if mode == Accumulator {
		c.Mem.Cycle() // implied/accumulator-only ops add one cycle
		c.A = f(c.A)
		return
	}
	addr := c.operandAddress(mode, true)
	old, _ := c.Mem.Get(addr)
	c.Mem.Set(addr, old) // dummy write of the unmodified value
	c.Mem.Set(addr, f(old))
}

// relativeTarget consumes the branch offset byte and returns the target
// address, without yet charging the taken/page-cross surcharges.
func (c *Cpu) relativeTarget() uint16 {
	offset := int8(c.fetch())
	return uint16(int32(c.PC) + int32(offset))
}

func (c *Cpu) branch(taken bool) {
	target := c.relativeTarget()
	if !taken {
		return
	}
	c.Mem.Cycle() // taken branch
	if pageCrossed(c.PC, target) {
		c.Mem.Cycle() // taken branch crossing a page
	}
	c.PC = target
}

// Step decodes and executes exactly one instruction, returning the error
// taxonomy spec.md §7 describes: ErrBreak after BRK, ErrStop after
// STP/KIL, or *InvalidOpError for an undecoded opcode. Bus errors are not
// returned: the handlers discard the errors of individual reads and
// writes, so an unmapped read yields 0 and an unmapped write is dropped.
func (c *Cpu) Step() error {
	pcAtFetch := c.PC
	op := c.fetch()

	entry, ok := decodeTable[op]
	if !ok {
		return &InvalidOpError{Op: op, PC: pcAtFetch}
	}

	return entry.fn(c, entry.mode)
}

// Interrupt services an NMI or IRQ: pushes PC then status with B clear, U
// set, disables further IRQs, and jumps to target. Used by both
// interrupt sources per spec.md §4.5 ("Used by NMI and IRQ paths").
func (c *Cpu) Interrupt(target uint16) {
	c.pushAddress(c.PC)
	c.push(c.statusBits(false))
	c.flagsOn(FlagInterruptDisable)
	c.PC = target
}

// NMI services a non-maskable interrupt using the vector captured at
// reset.
func (c *Cpu) NMI() { c.Interrupt(c.Vectors.NMI) }

// IRQ services a maskable interrupt, honoring the I flag.
func (c *Cpu) IRQ() {
	if c.flagSet(FlagInterruptDisable) {
		return
	}
	c.Interrupt(c.Vectors.IRQ)
}
