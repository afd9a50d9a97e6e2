package ppu

// Sprite is one 4-byte OAM entry. The default Y of 0xFF places a cleared
// sprite entry off the visible 240-line screen.
type Sprite struct {
	Y      uint8
	Tile   uint8
	Attrs  uint8
	X      uint8
}

func defaultSprite() Sprite { return Sprite{Y: 0xFF} }

// Attribute bits within Sprite.Attrs.
const (
	spritePaletteMask = 0b0000_0011
	spritePriority    = 0b0010_0000 // 1 = behind background
	spriteFlipX       = 0b0100_0000
	spriteFlipY       = 0b1000_0000
)

// PaletteIndex, BehindBackground, FlipX, and FlipY decode Sprite.Attrs for
// the renderer's sprite pre-pass.
func (s Sprite) PaletteIndex() uint8    { return s.Attrs & spritePaletteMask }
func (s Sprite) BehindBackground() bool { return s.Attrs&spritePriority != 0 }
func (s Sprite) FlipX() bool            { return s.Attrs&spriteFlipX != 0 }
func (s Sprite) FlipY() bool            { return s.Attrs&spriteFlipY != 0 }

// read/write implement $2004 OAMDATA byte addressing within one sprite:
// offset 0=Y, 1=Tile, 2=Attrs, 3=X.
func (s Sprite) read(offset uint8) uint8 {
	switch offset {
	case 0:
		return s.Y
	case 1:
		return s.Tile
	case 2:
		return s.Attrs
	case 3:
		return s.X
	default:
		panic("ppu: unmapped sprite offset")
	}
}

func (s *Sprite) write(offset, value uint8) {
	switch offset {
	case 0:
		s.Y = value
	case 1:
		s.Tile = value
	case 2:
		s.Attrs = value
	case 3:
		s.X = value
	default:
		panic("ppu: unmapped sprite offset")
	}
}
