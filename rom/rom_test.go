package rom

import (
	"bytes"
	"testing"
)

func buildImage(flags6, flags7, prgBlocks, chrBlocks uint8, trainer bool) []byte {
	h := make([]byte, 16)
	copy(h, magic)
	h[4] = prgBlocks
	h[5] = chrBlocks
	h[6] = flags6
	h[7] = flags7

	buf := bytes.NewBuffer(h)
	if trainer {
		buf.Write(make([]byte, trainerSize))
	}
	buf.Write(make([]byte, int(prgBlocks)*prgBlockSize))
	buf.Write(make([]byte, int(chrBlocks)*chrBlockSize))
	return buf.Bytes()
}

func TestParseBasicNROM(t *testing.T) {
	img := buildImage(0x00, 0x00, 2, 1, false)

	r, err := Parse(bytes.NewReader(img))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got, want := len(r.Prg), 2*prgBlockSize; got != want {
		t.Errorf("len(Prg) = %d, want %d", got, want)
	}
	if got, want := len(r.Chr), 1*chrBlockSize; got != want {
		t.Errorf("len(Chr) = %d, want %d", got, want)
	}
	if r.Flags.Mirroring != Horizontal {
		t.Errorf("Mirroring = %v, want Horizontal", r.Flags.Mirroring)
	}
	if r.Flags.Mapper != 0 {
		t.Errorf("Mapper = %d, want 0", r.Flags.Mapper)
	}
}

func TestParseVerticalMirroringAndTrainer(t *testing.T) {
	img := buildImage(flags6Mirroring|flags6Trainer, 0x00, 1, 1, true)

	r, err := Parse(bytes.NewReader(img))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if r.Flags.Mirroring != Vertical {
		t.Errorf("Mirroring = %v, want Vertical", r.Flags.Mirroring)
	}
	if !r.Flags.HasTrainer {
		t.Error("HasTrainer = false, want true")
	}
}

func TestParseFourScreen(t *testing.T) {
	img := buildImage(flags6IgnoreMirroring, 0x00, 1, 1, false)

	r, err := Parse(bytes.NewReader(img))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if r.Flags.Mirroring != FourScreen {
		t.Errorf("Mirroring = %v, want FourScreen", r.Flags.Mirroring)
	}
	if !r.Flags.FourScreen {
		t.Error("FourScreen = false, want true")
	}
}

func TestParseBadMagic(t *testing.T) {
	img := buildImage(0, 0, 1, 1, false)
	img[0] = 'X'

	if _, err := Parse(bytes.NewReader(img)); err != ErrBadMagic {
		t.Errorf("err = %v, want ErrBadMagic", err)
	}
}

func TestParseTruncated(t *testing.T) {
	img := buildImage(0, 0, 2, 1, false)
	truncated := img[:len(img)-100]

	_, err := Parse(bytes.NewReader(truncated))
	if err == nil {
		t.Fatal("expected error on truncated image")
	}
}

func TestMapperNumberHighNibble(t *testing.T) {
	// Mapper 33 = low nibble 1 (flags6 bits 4-7), high nibble 2 (flags7 bits 4-7).
	img := buildImage(0x10, 0x20, 1, 1, false)

	r, err := Parse(bytes.NewReader(img))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if r.Flags.Mapper != 0x21 {
		t.Errorf("Mapper = %d, want 33", r.Flags.Mapper)
	}
}
