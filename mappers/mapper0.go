package mappers

import "github.com/bdwalton/gontendo/rom"

func init() {
	registerMapper(0, newNROM)
}

// nrom implements mapper 0: up to 32KiB of PRG ROM mirrored if only 16KiB
// is present, and either CHR ROM or a single 8KiB bank of CHR RAM.
type nrom struct {
	*baseMapper
	chrRAM []uint8
}

func newNROM(r *rom.Rom) Mapper {
	m := &nrom{baseMapper: &baseMapper{id: 0, name: "NROM", rom: r}}
	if r.HasCHRRAM() {
		m.chrRAM = make([]uint8, 0x2000)
	}
	return m
}

func (m *nrom) PrgRead(addr uint16) uint8 {
	return m.rom.Prg[int(addr)%len(m.rom.Prg)]
}

func (m *nrom) PrgWrite(addr uint16, val uint8) {
	// NROM PRG ROM is not writable; real cartridges ignore the write.
}

func (m *nrom) ChrRead(addr uint16) uint8 {
	if m.chrRAM != nil {
		return m.chrRAM[addr]
	}
	return m.rom.Chr[addr]
}

func (m *nrom) ChrWrite(addr uint16, val uint8) {
	if m.chrRAM != nil {
		m.chrRAM[addr] = val
	}
	// Writes to real CHR ROM are ignored.
}
