package ppu

// PaletteMemory holds the 32-byte palette RAM as a solid background color
// plus four 3-color background and sprite palettes. $3F10/$3F14/$3F18/$3F1C
// mirror $3F00/$3F04/$3F08/$3F0C (the "universal background" pair), per
// spec.md §4.4 — this mirroring is implemented directly from that prose
// rather than from original_source/ppu.rs's PaletteMemory.get/set, whose
// base-offset arithmetic disagrees between the two methods (see DESIGN.md).
type PaletteMemory struct {
	BackgroundSolid uint8
	Background      [4][3]uint8
	Sprite          [4][3]uint8
}

// Get reads a palette byte at an address already reduced to 0-0x1F.
func (p *PaletteMemory) Get(addr uint16) uint8 {
	addr %= 0x20
	if addr%4 == 0 {
		// $00/$04/$08/$0C and their $10/$14/$18/$1C mirrors all read
		// the single shared background-solid entry.
		return p.BackgroundSolid
	}
	if addr < 0x10 {
		page := (addr - 1) / 4
		idx := (addr - 1) % 4
		return p.Background[page][idx]
	}
	page := (addr - 0x11) / 4
	idx := (addr - 0x11) % 4
	return p.Sprite[page][idx]
}

// Set writes a palette byte at an address already reduced to 0-0x1F.
func (p *PaletteMemory) Set(addr uint16, value uint8) {
	addr %= 0x20
	if addr%4 == 0 {
		p.BackgroundSolid = value
		return
	}
	if addr < 0x10 {
		page := (addr - 1) / 4
		idx := (addr - 1) % 4
		p.Background[page][idx] = value
		return
	}
	page := (addr - 0x11) / 4
	idx := (addr - 0x11) % 4
	p.Sprite[page][idx] = value
}
