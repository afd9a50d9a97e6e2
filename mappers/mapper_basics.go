// Package mappers implements and registers cartridge mappers referenced
// numerically by iNES ROM headers. Only mapper 0 (NROM) is implemented;
// spec.md's Non-goals explicitly exclude the rest, but the registry shape
// is kept so additional mappers have an obvious place to land.
package mappers

import (
	"fmt"

	"github.com/bdwalton/gontendo/rom"
)

// Mapper abstracts a cartridge's address-translation logic for the PRG/CHR
// banks. The CPU bus and PPU memory both go through a Mapper rather than
// indexing Rom.Prg/Rom.Chr directly.
type Mapper interface {
	ID() uint16
	Name() string
	PrgRead(addr uint16) uint8
	PrgWrite(addr uint16, val uint8)
	ChrRead(addr uint16) uint8
	ChrWrite(addr uint16, val uint8)
	MirroringMode() rom.Mirroring
	HasSaveRAM() bool
}

// A global registry of mapper constructors, keyed by mapper id.
var registry = map[uint16]func(*rom.Rom) Mapper{}

func registerMapper(id uint16, ctor func(*rom.Rom) Mapper) {
	if _, ok := registry[id]; ok {
		panic(fmt.Sprintf("mappers: id %d already registered", id))
	}
	registry[id] = ctor
}

// Get constructs the mapper registered for r's header mapper number.
func Get(r *rom.Rom) (Mapper, error) {
	id := uint16(r.Flags.Mapper)
	ctor, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("mappers: %w: id %d", rom.ErrUnsupportedMapper, id)
	}
	return ctor(r), nil
}

type baseMapper struct {
	id   uint16
	name string
	rom  *rom.Rom
}

func (bm *baseMapper) ID() uint16           { return bm.id }
func (bm *baseMapper) Name() string         { return bm.name }
func (bm *baseMapper) HasSaveRAM() bool     { return bm.rom.Flags.BatteryRAM }
func (bm *baseMapper) MirroringMode() rom.Mirroring {
	return bm.rom.Flags.Mirroring
}
