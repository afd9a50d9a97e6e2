// Package snapshot implements the binary save-state codec: encoding and
// decoding a complete, resumable emulator state.
//
// Grounded on original_source/state.rs's field list (spec.md §6 is
// authoritative on exact fields — see SPEC_FULL.md §6) using stdlib
// encoding/gob, since no library anywhere in the retrieval pack offers a
// serialization codec (see DESIGN.md for the full justification).
package snapshot

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/bdwalton/gontendo/cpu"
	"github.com/bdwalton/gontendo/ppu"
)

// DecodeError wraps a malformed snapshot payload, per spec.md §7's
// SnapshotDecode error.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("snapshot: decode: %v", e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// Snapshot is the flattened, gob-encodable view of a full emulator state.
// Field order mirrors spec.md §6's list for readability, though gob itself
// encodes by name, not position.
type Snapshot struct {
	Ram              [0x800]uint8
	ControllerCycles [2]uint64

	Registers cpu.Registers

	Control    ppu.ControlRegister
	Mask       ppu.MaskRegister
	Status     ppu.StatusRegister
	Render     ppu.RenderRegister
	OamAddress uint8
	ReadBuffer uint8

	Oam     [ppu.SpriteCount]ppu.Sprite
	Names   [4][0x400]uint8
	Palette ppu.PaletteMemory
}

// Capture builds a Snapshot from a live Cpu (and, transitively, its
// Memory and Ppu). The ROM and mapper are not captured — snapshots
// deserialize back into a running emulator given the same ROM, per
// spec.md §6.
func Capture(c *cpu.Cpu) Snapshot {
	m := c.Mem
	p := m.Ppu

	var names [4][0x400]uint8
	for i := range names {
		names[i] = p.Memory.NameTableContents(i)
	}

	return Snapshot{
		Ram:              m.Ram,
		ControllerCycles: [2]uint64{m.ControllerA.Clock(), m.ControllerB.Clock()},
		Registers:        c.Snapshot(),
		Control:          p.Registers.Control,
		Mask:             p.Registers.Mask,
		Status:           p.Registers.Status,
		Render:           p.Registers.Render,
		OamAddress:       p.Registers.OamAddress,
		ReadBuffer:       p.Registers.ReadBuffer,
		Oam:              p.Oam,
		Names:            names,
		Palette:          p.Memory.Palette,
	}
}

// Restore writes a Snapshot back into a live Cpu, which must already be
// wired to a Memory/Ppu built from the same ROM the snapshot was taken
// against. Controller button state itself is not restored (it is host
// input, not emulator state); only the read-clock phase is, so the next
// Read() call resumes at the right shift position.
func (s Snapshot) Restore(c *cpu.Cpu) {
	m := c.Mem
	p := m.Ppu

	m.Ram = s.Ram
	m.ControllerA.SetClock(s.ControllerCycles[0])
	m.ControllerB.SetClock(s.ControllerCycles[1])

	c.Restore(s.Registers)

	p.Registers.Control = s.Control
	p.Registers.Mask = s.Mask
	p.Registers.Status = s.Status
	p.Registers.Render = s.Render
	p.Registers.OamAddress = s.OamAddress
	p.Registers.ReadBuffer = s.ReadBuffer
	p.Oam = s.Oam
	for i := range s.Names {
		p.Memory.SetNameTableContents(i, s.Names[i])
	}
	p.Memory.Palette = s.Palette
}

// Encode serializes a Snapshot to its binary wire form.
func Encode(s Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, fmt.Errorf("snapshot: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a Snapshot from its binary wire form.
func Decode(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return Snapshot{}, &DecodeError{Err: err}
	}
	return s, nil
}
