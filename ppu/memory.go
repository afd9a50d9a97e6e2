package ppu

import "github.com/bdwalton/gontendo/rom"

// NameTable is one 1KiB logical nametable page (32x30 tiles plus a 64-byte
// attribute table in its last 64 bytes).
type NameTable struct {
	Contents [0x400]uint8
}

// chrBus is the subset of mappers.Mapper the PPU needs for pattern-table
// access, kept narrow so this package doesn't import mappers.
type chrBus interface {
	ChrRead(addr uint16) uint8
	ChrWrite(addr uint16, value uint8)
}

const physicalNameTables = 2

// mirrorTable maps the logical 4-entry nametable array onto the 2
// physical 1KiB pages NROM actually wires up, per spec.md §9's alias-table
// design note: horizontal=[0,0,1,1], vertical=[0,1,0,1].
func mirrorTable(m rom.Mirroring) [4]int {
	switch m {
	case rom.Vertical:
		return [4]int{0, 1, 0, 1}
	case rom.FourScreen:
		// Four-screen needs 4 independent physical pages, which NROM
		// (the only mapper this core implements) never provides;
		// fall back to the two physical pages available.
		return [4]int{0, 1, 0, 1}
	default: // Horizontal
		return [4]int{0, 0, 1, 1}
	}
}

// PpuMemory is the PPU's own address space: pattern tables (via the
// mapper), the aliased nametables, and palette RAM.
type PpuMemory struct {
	chr     chrBus
	physical [physicalNameTables]*NameTable
	alias    [4]int
	Palette  PaletteMemory
}

func NewMemory(chr chrBus, mirroring rom.Mirroring) *PpuMemory {
	m := &PpuMemory{
		chr:   chr,
		alias: mirrorTable(mirroring),
	}
	for i := range m.physical {
		m.physical[i] = &NameTable{}
	}
	return m
}

func (m *PpuMemory) nameTable(logical int) *NameTable {
	return m.physical[m.alias[logical%4]]
}

// NameTableContents and SetNameTableContents expose one logical
// nametable's raw bytes for the snapshot codec. Logical index 0-3 is
// resolved through the same alias table Read/Write use, so restoring all
// four logical slots from a snapshot correctly re-converges onto the two
// physical pages even though the wire format stores four copies.
func (m *PpuMemory) NameTableContents(logical int) [0x400]uint8 {
	return m.nameTable(logical).Contents
}

func (m *PpuMemory) SetNameTableContents(logical int, data [0x400]uint8) {
	m.nameTable(logical).Contents = data
}

// Read decodes a full 16-bit PPU-bus address.
func (m *PpuMemory) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x1FFF:
		return m.chr.ChrRead(addr)
	case addr <= 0x3EFF:
		base := addr - 0x2000
		page := int(base/0x400) % 4
		idx := base % 0x400
		return m.nameTable(page).Contents[idx]
	default: // 0x3F00-0x3FFF
		return m.Palette.Get(addr - 0x3F00)
	}
}

func (m *PpuMemory) Write(addr uint16, value uint8) {
	switch {
	case addr <= 0x1FFF:
		m.chr.ChrWrite(addr, value)
	case addr <= 0x3EFF:
		base := addr - 0x2000
		page := int(base/0x400) % 4
		idx := base % 0x400
		m.nameTable(page).Contents[idx] = value
	default: // 0x3F00-0x3FFF
		m.Palette.Set(addr-0x3F00, value)
	}
}
