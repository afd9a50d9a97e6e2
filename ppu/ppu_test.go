package ppu

import (
	"testing"

	"github.com/bdwalton/gontendo/rom"
)

type fakeChr struct{ data [0x2000]uint8 }

func (f *fakeChr) ChrRead(addr uint16) uint8         { return f.data[addr] }
func (f *fakeChr) ChrWrite(addr uint16, v uint8)     { f.data[addr] = v }

func newTestPpu() *Ppu {
	return New(&fakeChr{}, rom.Horizontal)
}

func TestStatusReadClearsVBlankAndLatch(t *testing.T) {
	p := newTestPpu()
	p.Registers.Status.VBlank = true
	p.Registers.Render.W = true

	p.ReadStatus()

	if p.Registers.Status.VBlank {
		t.Error("VBlank still set after $2002 read")
	}
	if p.Registers.Render.W {
		t.Error("W latch still set after $2002 read")
	}
}

func TestScrollAddressTwoWriteLatch(t *testing.T) {
	p := newTestPpu()

	p.WriteAddress(0x21)
	p.WriteAddress(0x08)

	if p.Registers.Render.V != 0x2108 {
		t.Errorf("V = %#x, want 0x2108", p.Registers.Render.V)
	}
}

func TestStatusReadResetsLatchMidSequence(t *testing.T) {
	p := newTestPpu()

	p.WriteAddress(0x21) // first write: w becomes true
	p.ReadStatus()       // resets w to false
	p.WriteAddress(0x08) // now re-interpreted as a first write

	if p.Registers.Render.W != true {
		t.Errorf("W = %v after re-interpreted first write, want true", p.Registers.Render.W)
	}
}

func TestPaletteMirroring(t *testing.T) {
	p := newTestPpu()

	p.WriteAddress(0x3F)
	p.WriteAddress(0x00)
	p.WriteData(0x0F) // background solid

	p.WriteAddress(0x3F)
	p.WriteAddress(0x10)
	got := p.Memory.Palette.Get(0x10 % 0x20)
	if got != 0x0F {
		t.Errorf("$3F10 mirror of $3F00 = %#x, want 0x0F", got)
	}
}

func TestOAMDMAReplace(t *testing.T) {
	p := newTestPpu()
	var buf [256]uint8
	buf[0], buf[1], buf[2], buf[3] = 0x20, 0x01, 0x00, 0x80

	p.ReplaceOAM(buf)

	want := Sprite{Y: 0x20, Tile: 0x01, Attrs: 0x00, X: 0x80}
	if p.Oam[0] != want {
		t.Errorf("Oam[0] = %+v, want %+v", p.Oam[0], want)
	}
}

func TestReadDataBuffered(t *testing.T) {
	p := newTestPpu()
	p.Memory.Write(0x2005, 0x42) // inside nametable space

	p.Registers.Render.V = 0x2005
	first := p.ReadData() // returns old (zero) buffer, primes buffer with 0x42
	if first != 0 {
		t.Errorf("first ReadData() = %#x, want 0 (buffered)", first)
	}
	if p.Registers.ReadBuffer != 0x42 {
		t.Errorf("ReadBuffer = %#x, want 0x42", p.Registers.ReadBuffer)
	}
}

func TestReadDataUnbufferedForPalette(t *testing.T) {
	p := newTestPpu()
	p.Memory.Palette.BackgroundSolid = 0x30

	p.Registers.Render.V = 0x3F00
	got := p.ReadData()
	if got != 0x30 {
		t.Errorf("ReadData() at palette addr = %#x, want 0x30 (unbuffered)", got)
	}
}
