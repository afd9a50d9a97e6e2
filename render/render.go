// Package render implements the pure-software scanline renderer: the
// dot-clock walk, per-scanline sprite pre-pass, background tile fetch,
// and pixel composition that turn Ppu state into finished RGBA8 frames.
//
// Grounded entirely on original_source/software.rs — there is no working
// Go-teacher equivalent; ppu/ppu.go's old Tick() was a placeholder static
// pattern, not a real renderer, and was dropped (see DESIGN.md).
package render

import "github.com/bdwalton/gontendo/ppu"

const (
	Width  = 256
	Height = 240

	FrameSize = Width * Height * 4

	ScanlineWidth = 341
	ScanlineCount = 262
)

// RenderedFrame is one completed row-major RGBA8 frame, alpha always 0xFF.
type RenderedFrame struct {
	Pixels [FrameSize]byte
}

// RenderAction reports whether a Render call produced a frame that also
// requests NMI delivery.
type RenderAction int

const (
	ActionNone RenderAction = iota
	ActionSendNMI
)

// Color is one packed RGBA8 palette entry.
type Color [4]byte

// NESPalette is the fixed 64-entry 2C02 RGBA palette, reproduced
// byte-for-byte from original_source/software.rs's NES_PALETTE.
var NESPalette = [64]Color{
	{98, 98, 98, 255}, {0, 31, 177, 255}, {35, 3, 199, 255}, {81, 0, 177, 255},
	{115, 0, 117, 255}, {127, 0, 35, 255}, {115, 10, 0, 255}, {81, 39, 0, 255},
	{35, 67, 0, 255}, {0, 86, 0, 255}, {0, 92, 0, 255}, {0, 82, 35, 255},
	{0, 60, 117, 255}, {0, 0, 0, 255}, {0, 0, 0, 255}, {0, 0, 0, 255},
	{170, 170, 170, 255}, {13, 86, 255, 255}, {74, 47, 255, 255}, {138, 18, 255, 255},
	{188, 8, 213, 255}, {210, 17, 104, 255}, {199, 45, 0, 255}, {157, 84, 0, 255},
	{96, 123, 0, 255}, {32, 151, 0, 255}, {0, 162, 0, 255}, {0, 152, 66, 255},
	{0, 124, 180, 255}, {0, 0, 0, 255}, {0, 0, 0, 255}, {0, 0, 0, 255},
	{255, 255, 255, 255}, {82, 174, 255, 255}, {143, 133, 255, 255}, {210, 101, 255, 255},
	{255, 86, 255, 255}, {255, 93, 206, 255}, {255, 119, 86, 255}, {249, 158, 0, 255},
	{188, 199, 0, 255}, {121, 231, 0, 255}, {66, 246, 17, 255}, {38, 239, 125, 255},
	{44, 213, 245, 255}, {77, 77, 77, 255}, {0, 0, 0, 255}, {0, 0, 0, 255},
	{255, 255, 255, 255}, {182, 225, 255, 255}, {205, 208, 255, 255}, {232, 195, 255, 255},
	{255, 187, 255, 255}, {255, 188, 243, 255}, {255, 198, 195, 255}, {255, 213, 153, 255},
	{232, 230, 129, 255}, {205, 243, 129, 255}, {182, 250, 153, 255}, {168, 249, 195, 255},
	{168, 240, 243, 255}, {183, 183, 183, 255}, {0, 0, 0, 255}, {0, 0, 0, 255},
}

// preRenderedScanline holds the sprite pre-pass output for the scanline
// currently being walked: one optional foreground and background color
// per horizontal position.
type preRenderedScanline struct {
	background [Width]*Color
	foreground [Width]*Color
}

// SoftwareRenderer walks the PPU dot clock 3 dots per elapsed CPU cycle,
// emitting one RenderedFrame via pushFrame (the Frame Sink) at each vblank
// reached while PPUCTRL's NMI flag is set.
type SoftwareRenderer struct {
	ScanX, ScanY int
	lastCycle    uint64

	preRendered *preRenderedScanline
	frame       RenderedFrame
	pushFrame   func(RenderedFrame)
}

// New builds a renderer at the start of frame (0,0). pushFrame is called
// with the just-completed frame at a vblank only when PPUCTRL's NMI flag is
// set (at most once per Render call); the renderer never
// retains a reference to it afterward, per spec.md §9's "Rendered-frame
// ownership" note.
func New(pushFrame func(RenderedFrame)) *SoftwareRenderer {
	return &SoftwareRenderer{pushFrame: pushFrame}
}

func patternAddress(tableHi bool, tile uint8, row int) uint16 {
	base := uint16(0)
	if tableHi {
		base = 0x1000
	}
	return base + uint16(tile)*16 + uint16(row)
}

// decodeTile reads one 8x8 tile's bitplanes for pixel column x / row y and
// returns the 2-bit color index (0 = transparent).
func decodeTile(p *ppu.Ppu, addr uint16, x int) uint8 {
	plane0 := p.Memory.Read(addr)
	plane1 := p.Memory.Read(addr + 8)
	mask := uint8(1 << uint(7-x))
	idx := uint8(0)
	if plane0&mask != 0 {
		idx |= 1
	}
	if plane1&mask != 0 {
		idx |= 2
	}
	return idx
}

// renderSpritePixel decodes one pixel of an 8x8 tile at the given CHR
// address/column into a resolved Color via the supplied 3-entry palette,
// returning nil for a transparent (index 0) pixel.
func renderSpritePixel(p *ppu.Ppu, addr uint16, x int, palette [3]uint8) *Color {
	idx := decodeTile(p, addr, x)
	if idx == 0 {
		return nil
	}
	c := NESPalette[palette[idx-1]]
	return &c
}

func (r *SoftwareRenderer) renderBackgroundPixel(p *ppu.Ppu, table int, x, y int) *Color {
	col, row := x/8, y/8
	colSub, rowSub := x%8, y%8

	ntBase := uint16(0x2000 + table*0x400)
	tile := p.Memory.Read(ntBase + uint16(col+row*32))

	attrCol, attrRow := col/4, row/4
	attrByte := p.Memory.Read(ntBase + 0x3C0 + uint16(attrCol+attrRow*8))
	attrRight := (col / 2) % 2
	attrBottom := (row / 2) % 2
	shift := uint(attrRight*2 + attrBottom*4)
	paletteIndex := (attrByte >> shift) & 0b11

	palette := p.Memory.Palette.Background[paletteIndex]
	addr := patternAddress(p.Registers.Control.BGPatternHi, tile, rowSub)
	return renderSpritePixel(p, addr, colSub, palette)
}

// preRenderSprites decodes every sprite overlapping scanline y into the
// foreground/background scanline buffers, iterating OAM in reverse so
// lower-index sprites win ties, and raises sprite-zero hit per the
// hardware rule (§9 Open Question #1): the background pixel at the same
// coordinate must also be opaque, and x != 255.
func (r *SoftwareRenderer) preRenderSprites(p *ppu.Ppu, y int) *preRenderedScanline {
	result := &preRenderedScanline{}

	const spriteHeight = 8
	for i := ppu.SpriteCount - 1; i >= 0; i-- {
		sprite := p.Oam[i]
		spriteY := int(sprite.Y) + 1

		if !(spriteY <= y && y < spriteY+spriteHeight) {
			continue
		}

		offsetY := y - spriteY
		palette := p.Memory.Palette.Sprite[sprite.PaletteIndex()]

		for offsetX := 0; offsetX < spriteHeight; offsetX++ {
			writeX := int(sprite.X) + offsetX
			if writeX >= Width {
				break
			}

			spriteOffsetX := offsetX
			if sprite.FlipX() {
				spriteOffsetX = spriteHeight - 1 - offsetX
			}
			spriteOffsetY := offsetY
			if sprite.FlipY() {
				spriteOffsetY = spriteHeight - 1 - offsetY
			}

			addr := patternAddress(p.Registers.Control.SpritePatternHi, sprite.Tile, spriteOffsetY)
			color := renderSpritePixel(p, addr, spriteOffsetX, palette)
			if color == nil {
				continue
			}

			if i == 0 && writeX != 255 && r.backgroundOpaqueAt(p, writeX, y) {
				p.SetSpriteZeroHit(true)
			}

			if sprite.BehindBackground() {
				result.background[writeX] = color
			} else {
				result.foreground[writeX] = color
			}
		}
	}

	return result
}

// backgroundOpaqueAt reports whether the background tile pixel at (x,y)
// (scrolled the same way renderPixel scrolls it) is non-transparent,
// needed only to evaluate the hardware sprite-zero-hit rule.
func (r *SoftwareRenderer) backgroundOpaqueAt(p *ppu.Ppu, x, y int) bool {
	table, ox, oy := r.scrolledCoords(p, x, y)
	return r.renderBackgroundPixel(p, table, ox, oy) != nil
}

func (r *SoftwareRenderer) scrolledCoords(p *ppu.Ppu, x, y int) (table, ox, oy int) {
	ox = x + int(p.ScrollX())
	oy = y + int(p.ScrollY())
	nameTable := p.BaseNameTableX() != p.BaseNameTableY()

	if ox >= Width {
		ox -= Width
		nameTable = !nameTable
	}
	if oy >= Height {
		oy -= Height
		nameTable = !nameTable
	}

	if nameTable {
		table = 1
	}
	return table, ox, oy
}

func (r *SoftwareRenderer) renderPixel(p *ppu.Ppu, x, y int) Color {
	if r.preRendered != nil {
		if c := r.preRendered.foreground[x]; c != nil {
			return *c
		}
	}

	table, ox, oy := r.scrolledCoords(p, x, y)

	if c := r.renderBackgroundPixel(p, table, ox, oy); c != nil {
		return *c
	}
	if r.preRendered != nil {
		if c := r.preRendered.background[x]; c != nil {
			return *c
		}
	}
	return NESPalette[p.Memory.Palette.BackgroundSolid]
}

// Render advances the dot clock by 3*(cycle-lastCycle) dots, the NTSC
// PPU/CPU clock ratio, emitting pixels into the in-progress frame. If the
// walk passes a vblank start and PPUCTRL's NMI flag is set, it fires
// pushFrame once and returns ActionSendNMI.
func (r *SoftwareRenderer) Render(p *ppu.Ppu, cycle uint64) RenderAction {
	dots := 3 * (cycle - r.lastCycle)
	r.lastCycle = cycle

	hasVBlank := false

	for i := uint64(0); i < dots; i++ {
		switch {
		case r.ScanY <= 239:
			if r.ScanX == 0 {
				r.preRendered = r.preRenderSprites(p, r.ScanY)
			}
			if r.ScanX >= 1 && r.ScanX <= 256 {
				x := r.ScanX - 1
				color := r.renderPixel(p, x, r.ScanY)
				addr := (x + r.ScanY*Width) * 4
				copy(r.frame.Pixels[addr:addr+4], color[:])
			}
		case r.ScanY == 241:
			if r.ScanX == 1 {
				hasVBlank = true
			}
		case r.ScanY == 261:
			if r.ScanX == 1 {
				p.SetSpriteZeroHit(false)
				p.SetVBlank(false)
			}
		}

		r.ScanX++
		if r.ScanX >= ScanlineWidth {
			r.ScanX = 0
			r.ScanY++
			if r.ScanY >= ScanlineCount {
				r.ScanY = 0
			}
		}
	}

	if hasVBlank {
		p.SetVBlank(true)
	}

	// A frame is only handed to the Frame Sink alongside an NMI request,
	// matching original_source/software.rs's render() exactly: without
	// gen_nmi set, the in-progress frame buffer keeps accumulating into
	// the next one rather than being flushed.
	if hasVBlank && p.GenNMI() {
		r.pushFrame(r.frame)
		return ActionSendNMI
	}
	return ActionNone
}
