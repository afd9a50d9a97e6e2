// Package ppu implements the NES Picture Processing Unit's register file,
// two-write latches, OAM, and memory-mapped address space. It does not
// drive the dot clock itself — that's render.SoftwareRenderer's job; this
// package only exposes the register read/write side effects spec.md §4.4
// requires and the raw pixel/tile data the renderer reads.
package ppu

import "github.com/bdwalton/gontendo/rom"

const SpriteCount = 64

// PpuRegisters bundles every piece of PPU register state addressable from
// the CPU bus.
type PpuRegisters struct {
	Control    ControlRegister
	Mask       MaskRegister
	Status     StatusRegister
	Render     RenderRegister
	OamAddress uint8
	ReadBuffer uint8
}

// Ppu is the full PPU: registers, OAM, and its own memory bus.
type Ppu struct {
	Registers PpuRegisters
	Memory    *PpuMemory
	Oam       [SpriteCount]Sprite
}

func New(chr chrBus, mirroring rom.Mirroring) *Ppu {
	p := &Ppu{Memory: NewMemory(chr, mirroring)}
	for i := range p.Oam {
		p.Oam[i] = defaultSprite()
	}
	p.Registers.Status.VBlank = true // matches power-on StatusRegister default
	return p
}

// WriteCtrl handles a $2000 write.
func (p *Ppu) WriteCtrl(value uint8) {
	p.Registers.Control = controlFromBits(value)
	p.Registers.Render.writeControl(value)
}

// WriteMask handles a $2001 write.
func (p *Ppu) WriteMask(value uint8) {
	p.Registers.Mask = maskFromBits(value)
}

// ReadStatus handles a $2002 read: returns the packed status bits, clears
// vblank, and resets the write-latch toggle.
func (p *Ppu) ReadStatus() uint8 {
	bits := p.Registers.Status.bits()
	p.Registers.Status.VBlank = false
	p.Registers.Render.readStatus()
	return bits
}

// WriteOamAddress handles a $2003 write.
func (p *Ppu) WriteOamAddress(value uint8) {
	p.Registers.OamAddress = value
}

// ReadOamData handles a $2004 read.
func (p *Ppu) ReadOamData() uint8 {
	sprite := p.Registers.OamAddress / 4
	offset := p.Registers.OamAddress % 4
	return p.Oam[sprite].read(offset)
}

// WriteOamData handles a $2004 write, incrementing OamAddress.
func (p *Ppu) WriteOamData(value uint8) {
	sprite := p.Registers.OamAddress / 4
	offset := p.Registers.OamAddress % 4
	p.Oam[sprite].write(offset, value)
	p.Registers.OamAddress++
}

// WriteScroll handles a $2005 write.
func (p *Ppu) WriteScroll(value uint8) {
	p.Registers.Render.writeScroll(value)
}

// WriteAddress handles a $2006 write.
func (p *Ppu) WriteAddress(value uint8) {
	p.Registers.Render.writeAddress(value)
}

func (p *Ppu) incrementV() {
	if p.Registers.Control.Increment32 {
		p.Registers.Render.V += 32
	} else {
		p.Registers.Render.V++
	}
}

// WriteData handles a $2007 write.
func (p *Ppu) WriteData(value uint8) {
	p.Memory.Write(p.Registers.Render.V, value)
	p.incrementV()
}

const paletteBase = 0x3F00

// ReadData handles a $2007 read. Addresses in the palette range bypass
// the read buffer and return immediately (the hardware behavior spec.md
// §9 asks for, diverging from original_source/ppu.rs's always-buffered
// read); the buffer is still refilled, from the nametable mirror that sits
// underneath the palette address range on real hardware. All other
// addresses keep the classic one-read-behind buffered semantics.
func (p *Ppu) ReadData() uint8 {
	v := p.Registers.Render.V

	if v >= paletteBase {
		result := p.Memory.Read(v)
		p.Registers.ReadBuffer = p.Memory.Read(v - 0x1000)
		p.incrementV()
		return result
	}

	result := p.Registers.ReadBuffer
	p.Registers.ReadBuffer = p.Memory.Read(v)
	p.incrementV()
	return result
}

// ScrollX and ScrollY expose the loopy register file's derived fine-scroll
// position, for the renderer's background fetch.
func (p *Ppu) ScrollX() uint8 { return p.Registers.Render.xScroll() }
func (p *Ppu) ScrollY() uint8 { return p.Registers.Render.yScroll() }

// BaseNameTableX and BaseNameTableY expose PPUCTRL's base-nametable-select
// bits, stored in t[11:10] by WriteCtrl.
func (p *Ppu) BaseNameTableX() bool { return p.Registers.Render.nameTableX() }
func (p *Ppu) BaseNameTableY() bool { return p.Registers.Render.nameTableY() }

// SetSpriteZeroHit lets the renderer raise or clear the status flag the
// sprite pre-pass computes.
func (p *Ppu) SetSpriteZeroHit(v bool) { p.Registers.Status.SpriteZeroHit = v }

// SetVBlank lets the renderer raise/clear vblank at the documented
// scanline/dot per spec.md §4.6.
func (p *Ppu) SetVBlank(v bool) { p.Registers.Status.VBlank = v }

// GenNMI reports whether PPUCTRL currently requests NMI-on-vblank.
func (p *Ppu) GenNMI() bool { return p.Registers.Control.GenNMI }

// ReplaceOAM rebuilds all 64 sprites from a 256-byte OAM-DMA payload.
func (p *Ppu) ReplaceOAM(data [256]uint8) {
	for i := range p.Oam {
		p.Oam[i] = Sprite{
			Y:     data[i*4],
			Tile:  data[i*4+1],
			Attrs: data[i*4+2],
			X:     data[i*4+3],
		}
	}
}
