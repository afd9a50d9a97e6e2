// Package memory implements the NES CPU address bus: RAM mirroring,
// memory-mapped PPU registers, OAM-DMA, controller ports, and cartridge
// PRG/save-RAM windows. Grounded on console/bus.go's address-decode switch
// and original_source/memory.rs's get/set/oam_dma/cycle semantics.
package memory

import (
	"errors"
	"fmt"

	"github.com/bdwalton/gontendo/controller"
	"github.com/bdwalton/gontendo/mappers"
	"github.com/bdwalton/gontendo/ppu"
)

// Sentinel errors surfaced up through Cpu.
var (
	ErrUnmappedRead  = errors.New("memory: unmapped read")
	ErrUnmappedWrite = errors.New("memory: unmapped write")
)

// UnmappedReadError / UnmappedWriteError carry the offending address.
type UnmappedReadError struct{ Addr uint16 }

func (e *UnmappedReadError) Error() string {
	return fmt.Sprintf("%v: $%04X", ErrUnmappedRead, e.Addr)
}
func (e *UnmappedReadError) Unwrap() error { return ErrUnmappedRead }

type UnmappedWriteError struct{ Addr uint16 }

func (e *UnmappedWriteError) Error() string {
	return fmt.Sprintf("%v: $%04X", ErrUnmappedWrite, e.Addr)
}
func (e *UnmappedWriteError) Unwrap() error { return ErrUnmappedWrite }

// Memory is the CPU's view of the world: 2KiB of internal RAM (mirrored
// 4x), the PPU's memory-mapped registers (mirrored every 8 bytes from
// $2008-$3FFF), APU/controller ports, 8KiB of cartridge save RAM, and the
// mapper's PRG ROM window.
type Memory struct {
	Ram    [0x800]uint8
	Saved  [0x2000]uint8
	Cycles uint64

	Ppu    *ppu.Ppu
	Mapper mappers.Mapper

	ControllerA controller.Controller
	ControllerB controller.Controller
}

func New(p *ppu.Ppu, m mappers.Mapper, a, b controller.Controller) *Memory {
	return &Memory{Ppu: p, Mapper: m, ControllerA: a, ControllerB: b}
}

// Cycle advances the monotonic CPU cycle counter by one. Every completed
// bus access costs exactly one cycle via Get/Set; additional cycles
// charged by the interpreter for page-crossing, dummy reads, and RMW
// surcharges call this directly.
func (m *Memory) Cycle() { m.Cycles++ }

// CycleMany advances the cycle counter by n, used by OAM-DMA.
func (m *Memory) CycleMany(n uint64) { m.Cycles += n }

// Get reads one byte from the CPU address space and costs one cycle.
func (m *Memory) Get(addr uint16) (uint8, error) {
	v, err := m.PassGet(addr)
	m.Cycle()
	return v, err
}

// Set writes one byte to the CPU address space and costs one cycle.
func (m *Memory) Set(addr uint16, v uint8) error {
	err := m.PassSet(addr, v)
	m.Cycle()
	return err
}

// PassGet performs a read without charging a cycle, for address-resolution
// helpers (and disassembly) that charge cycles separately.
func (m *Memory) PassGet(addr uint16) (uint8, error) {
	switch {
	case addr <= 0x1FFF:
		return m.Ram[addr%0x800], nil
	case addr == 0x2002:
		return m.Ppu.ReadStatus(), nil
	case addr == 0x2004:
		return m.Ppu.ReadOamData(), nil
	case addr == 0x2007:
		return m.Ppu.ReadData(), nil
	case addr >= 0x2008 && addr <= 0x3FFF:
		return m.PassGet(0x2000 + (addr-0x2000)%8)
	case addr == 0x4015:
		return 0, nil // APU status, unimplemented, reads as 0
	case addr == 0x4016:
		return m.ControllerA.Read(), nil
	case addr == 0x4017:
		return m.ControllerB.Read(), nil
	case addr >= 0x4000 && addr <= 0x4013:
		return 0, nil // APU registers, unimplemented
	case addr >= 0x6000 && addr <= 0x7FFF:
		return m.Saved[addr-0x6000], nil
	case addr >= 0x8000:
		return m.Mapper.PrgRead(addr - 0x8000), nil
	default:
		return 0, &UnmappedReadError{addr}
	}
}

// PassSet performs a write without charging a cycle.
func (m *Memory) PassSet(addr uint16, v uint8) error {
	switch {
	case addr <= 0x1FFF:
		m.Ram[addr%0x800] = v
	case addr == 0x2000:
		m.Ppu.WriteCtrl(v)
	case addr == 0x2001:
		m.Ppu.WriteMask(v)
	case addr == 0x2003:
		m.Ppu.WriteOamAddress(v)
	case addr == 0x2004:
		m.Ppu.WriteOamData(v)
	case addr == 0x2005:
		m.Ppu.WriteScroll(v)
	case addr == 0x2006:
		m.Ppu.WriteAddress(v)
	case addr == 0x2007:
		m.Ppu.WriteData(v)
	case addr >= 0x2008 && addr <= 0x3FFF:
		return m.PassSet(0x2000+(addr-0x2000)%8, v)
	case addr == 0x4014:
		m.oamDMA(v)
	case addr >= 0x4000 && addr <= 0x4013:
		// APU registers, no-op.
	case addr == 0x4015, addr == 0x4016, addr == 0x4017:
		// APU status / controller strobe, no-op in this core.
	case addr >= 0x6000 && addr <= 0x7FFF:
		m.Saved[addr-0x6000] = v
	default:
		// $8000-$FFFF (PRG ROM) included: NROM has no writable PRG
		// window, matching original_source/memory.rs's UnmappedWrite
		// for this range. A mapper with genuine PRG-RAM/bank-select
		// writes would need its own case here, not a blanket
		// Mapper.PrgWrite call.
		return &UnmappedWriteError{addr}
	}
	return nil
}

// GetShort reads a little-endian 16-bit value, low byte first.
func (m *Memory) GetShort(addr uint16) (uint16, error) {
	lo, err := m.Get(addr)
	if err != nil {
		return 0, err
	}
	hi, err := m.Get(addr + 1)
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// oamDMA copies the 256-byte page starting at page<<8 into OAM. Each byte
// costs two cycles (one bus read, one bus write into OAM), 512 total, plus
// a 1-cycle alignment wait if DMA starts on an even CPU cycle or 2 if odd
// (the triggering $4014 Set call itself charges one more on top of this),
// matching original_source/memory.rs's oam_dma.
func (m *Memory) oamDMA(page uint8) {
	base := uint16(page) << 8

	extra := uint64(1)
	if m.Cycles%2 == 1 {
		extra = 2
	}
	m.CycleMany(extra)

	var buf [256]uint8
	for i := 0; i < 256; i++ {
		v, _ := m.PassGet(base + uint16(i))
		m.Cycle() // read cycle
		buf[i] = v
		m.Cycle() // write cycle into OAM
	}
	m.Ppu.ReplaceOAM(buf)
}
