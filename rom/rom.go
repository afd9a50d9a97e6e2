package rom

import (
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	trainerSize  = 512
	prgBlockSize = 16384
	chrBlockSize = 8192
)

var (
	// ErrBadMagic is returned when the first four header bytes aren't
	// the iNES constant "NES\x1A".
	ErrBadMagic = errors.New("rom: bad iNES magic")
	// ErrTruncated is returned when fewer bytes are available than the
	// header claims the image should contain.
	ErrTruncated = errors.New("rom: truncated image")
	// ErrUnsupportedMapper is returned by callers (see mappers.Get) when
	// a ROM's mapper number has no registered implementation. Declared
	// here so Rom.Flags.Mapper errors can be described uniformly.
	ErrUnsupportedMapper = errors.New("rom: unsupported mapper")
)

// Rom holds the immutable PRG/CHR banks and header flags of a parsed iNES
// image. Once loaded, a Rom is never mutated; it is shared read-only by the
// CPU bus, the PPU memory and the mapper.
type Rom struct {
	Flags   Flags
	Prg     []byte
	Chr     []byte
	trainer []byte
}

// Load reads and parses an iNES image from disk.
func Load(path string) (*Rom, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rom: opening %s: %w", path, err)
	}
	defer f.Close()

	r, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("rom: parsing %s: %w", path, err)
	}
	return r, nil
}

// Parse reads an iNES image from an arbitrary reader.
func Parse(r io.Reader) (*Rom, error) {
	hb := make([]byte, 16)
	if _, err := io.ReadFull(r, hb); err != nil {
		return nil, fmt.Errorf("reading header: %w", ErrTruncated)
	}

	h, err := parseHeader(hb)
	if err != nil {
		return nil, err
	}

	flags := h.toFlags()
	rom := &Rom{Flags: flags}

	if flags.HasTrainer {
		rom.trainer = make([]byte, trainerSize)
		if _, err := io.ReadFull(r, rom.trainer); err != nil {
			return nil, fmt.Errorf("reading trainer: %w", ErrTruncated)
		}
	}

	prgLen := prgBlockSize * int(flags.prgBlocks)
	rom.Prg = make([]byte, prgLen)
	if _, err := io.ReadFull(r, rom.Prg); err != nil {
		return nil, fmt.Errorf("reading %d bytes of PRG ROM: %w", prgLen, ErrTruncated)
	}

	chrLen := chrBlockSize * int(flags.chrBlocks)
	rom.Chr = make([]byte, chrLen)
	if chrLen > 0 {
		if _, err := io.ReadFull(r, rom.Chr); err != nil {
			return nil, fmt.Errorf("reading %d bytes of CHR ROM: %w", chrLen, ErrTruncated)
		}
	}

	return rom, nil
}

// NumPrgBlocks reports the number of 16KiB PRG ROM blocks.
func (r *Rom) NumPrgBlocks() int { return len(r.Prg) / prgBlockSize }

// HasCHRRAM reports whether the cartridge relies on CHR RAM (chrSize==0 in
// the header) rather than CHR ROM.
func (r *Rom) HasCHRRAM() bool { return len(r.Chr) == 0 }

func (r *Rom) String() string {
	return fmt.Sprintf("ROM{prg=%dKiB chr=%dKiB mapper=%d mirroring=%s battery=%v}",
		len(r.Prg)/1024, len(r.Chr)/1024, r.Flags.Mapper, r.Flags.Mirroring, r.Flags.BatteryRAM)
}
