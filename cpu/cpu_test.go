package cpu

import (
	"errors"
	"testing"

	"github.com/bdwalton/gontendo/controller"
	"github.com/bdwalton/gontendo/mappers"
	"github.com/bdwalton/gontendo/memory"
	"github.com/bdwalton/gontendo/ppu"
	"github.com/bdwalton/gontendo/rom"
)

type fakeChr struct{ data [0x2000]uint8 }

func (f *fakeChr) ChrRead(addr uint16) uint8     { return f.data[addr] }
func (f *fakeChr) ChrWrite(addr uint16, v uint8) { f.data[addr] = v }

// newTestCpu builds a Cpu over a 32KiB NROM PRG ROM image with prg
// placed at $8000 and the reset vector pointed at $8000.
func newTestCpu(t *testing.T, prg []byte) *Cpu {
	t.Helper()
	buf := make([]byte, 0x8000)
	copy(buf, prg)
	buf[0x7FFC] = 0x00 // reset vector low -> $8000
	buf[0x7FFD] = 0x80

	r := &rom.Rom{Prg: buf}
	m, err := mappers.Get(r)
	if err != nil {
		t.Fatalf("mappers.Get: %v", err)
	}
	p := ppu.New(&fakeChr{}, rom.Horizontal)
	mem := memory.New(p, m, &controller.GenericController{}, &controller.GenericController{})
	return New(mem)
}

func TestLDAImmediateCycleCount(t *testing.T) {
	c := newTestCpu(t, []byte{0xA9, 0x42}) // LDA #$42
	before := c.Mem.Cycles
	if err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.A != 0x42 {
		t.Errorf("A = %#x, want 0x42", c.A)
	}
	if got := c.Mem.Cycles - before; got != 2 {
		t.Errorf("cycles = %d, want 2", got)
	}
}

func TestAbsoluteXPageCrossExtraCycle(t *testing.T) {
	// LDA $20FF,X with X=1 crosses into $2100: 5 cycles instead of 4.
	prg := make([]byte, 0x8000)
	prg[0] = 0xBD
	prg[1] = 0xFF
	prg[2] = 0x20
	c := newTestCpu(t, prg)
	c.X = 1
	before := c.Mem.Cycles
	if err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if got := c.Mem.Cycles - before; got != 5 {
		t.Errorf("cycles = %d, want 5 (page cross)", got)
	}
}

func TestAbsoluteXNoCrossFourCycles(t *testing.T) {
	prg := make([]byte, 0x8000)
	prg[0] = 0xBD
	prg[1] = 0x00
	prg[2] = 0x20
	c := newTestCpu(t, prg)
	c.X = 1
	before := c.Mem.Cycles
	if err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if got := c.Mem.Cycles - before; got != 4 {
		t.Errorf("cycles = %d, want 4 (no page cross)", got)
	}
}

func TestSTAAbsoluteXAlwaysFiveCycles(t *testing.T) {
	// STA $2000,X is a write: always charges the extra cycle even
	// without a page cross, per spec.md's RMW/indexed-store rule.
	prg := make([]byte, 0x8000)
	prg[0] = 0x9D
	prg[1] = 0x00
	prg[2] = 0x20
	c := newTestCpu(t, prg)
	c.X = 1
	before := c.Mem.Cycles
	if err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if got := c.Mem.Cycles - before; got != 5 {
		t.Errorf("cycles = %d, want 5", got)
	}
}

func TestASLAbsoluteXRMWCycles(t *testing.T) {
	// ASL $2000,X is 7 cycles regardless of page crossing.
	prg := make([]byte, 0x8000)
	prg[0] = 0x1E
	prg[1] = 0x00
	prg[2] = 0x20
	c := newTestCpu(t, prg)
	c.X = 1
	before := c.Mem.Cycles
	if err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if got := c.Mem.Cycles - before; got != 7 {
		t.Errorf("cycles = %d, want 7", got)
	}
}

func TestBranchTakenSamePage(t *testing.T) {
	prg := make([]byte, 0x8000)
	prg[0] = 0xD0 // BNE
	prg[1] = 0x7F // from $8002 -> $8081, same page
	c := newTestCpu(t, prg)
	c.flagsOff(FlagZero) // branch taken
	before := c.Mem.Cycles
	if err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if got := c.Mem.Cycles - before; got != 3 { // 2 (fetch+operand) + 1 (taken)
		t.Errorf("cycles = %d, want 3", got)
	}
}

func TestBranchTakenCrossingPage(t *testing.T) {
	prg := make([]byte, 0x8000)
	prg[0] = 0xD0 // BNE
	prg[1] = 0xFD // -3, from $8002 -> $7FFF, crosses into the previous page
	c := newTestCpu(t, prg)
	c.flagsOff(FlagZero) // branch taken
	before := c.Mem.Cycles
	if err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if got := c.Mem.Cycles - before; got != 4 { // 2 + taken(1) + page-cross(1)
		t.Errorf("cycles = %d, want 4", got)
	}
	if c.PC != 0x7FFF {
		t.Errorf("PC = %#x, want 0x7FFF", c.PC)
	}
}

func TestImpliedOpChargesTwoCycles(t *testing.T) {
	c := newTestCpu(t, []byte{0x18}) // CLC
	before := c.Mem.Cycles
	if err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if got := c.Mem.Cycles - before; got != 2 {
		t.Errorf("cycles = %d, want 2 (fetch + implied internal cycle)", got)
	}
}

func TestAccumulatorOpChargesTwoCycles(t *testing.T) {
	c := newTestCpu(t, []byte{0x0A}) // ASL A
	before := c.Mem.Cycles
	if err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if got := c.Mem.Cycles - before; got != 2 {
		t.Errorf("cycles = %d, want 2", got)
	}
}

func TestPushPullCycleCounts(t *testing.T) {
	tests := []struct {
		name string
		prg  []byte
		want uint64
	}{
		{"PHA", []byte{0x48}, 3},
		{"PHP", []byte{0x08}, 3},
		{"PLA", []byte{0x68}, 4},
		{"PLP", []byte{0x28}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCpu(t, tt.prg)
			c.SP = 0xFD
			before := c.Mem.Cycles
			if err := c.Step(); err != nil {
				t.Fatalf("Step: %v", err)
			}
			if got := c.Mem.Cycles - before; got != tt.want {
				t.Errorf("cycles = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestJSRRTSRTICycleCounts(t *testing.T) {
	c := newTestCpu(t, []byte{0x20, 0x00, 0x90}) // JSR $9000
	c.SP = 0xFD
	before := c.Mem.Cycles
	if err := c.Step(); err != nil {
		t.Fatalf("JSR step: %v", err)
	}
	if got := c.Mem.Cycles - before; got != 6 {
		t.Errorf("JSR cycles = %d, want 6", got)
	}
	if c.PC != 0x9000 {
		t.Fatalf("PC = %#x, want 0x9000 after JSR", c.PC)
	}

	c2 := newTestCpu(t, []byte{0x60}) // RTS
	c2.SP = 0xFB
	c2.Mem.Set(0x01FC, 0x00)
	c2.Mem.Set(0x01FD, 0x80)
	before = c2.Mem.Cycles
	if err := c2.Step(); err != nil {
		t.Fatalf("RTS step: %v", err)
	}
	if got := c2.Mem.Cycles - before; got != 6 {
		t.Errorf("RTS cycles = %d, want 6", got)
	}

	c3 := newTestCpu(t, []byte{0x40}) // RTI
	c3.SP = 0xFA
	c3.Mem.Set(0x01FB, 0x00) // status
	c3.Mem.Set(0x01FC, 0x00)
	c3.Mem.Set(0x01FD, 0x80)
	before = c3.Mem.Cycles
	if err := c3.Step(); err != nil {
		t.Fatalf("RTI step: %v", err)
	}
	if got := c3.Mem.Cycles - before; got != 6 {
		t.Errorf("RTI cycles = %d, want 6", got)
	}
}

func TestBRKPushesBreakFlagSet(t *testing.T) {
	c := newTestCpu(t, []byte{0x00}) // BRK
	c.SP = 0xFD
	before := c.Mem.Cycles
	err := c.Step()
	if !errors.Is(err, ErrBreak) {
		t.Fatalf("Step error = %v, want ErrBreak", err)
	}
	if got := c.Mem.Cycles - before; got != 7 {
		t.Errorf("BRK cycles = %d, want 7", got)
	}
	pushed, _ := c.Mem.Get(0x0100 + uint16(c.SP) + 1)
	if pushed&FlagBreak == 0 {
		t.Error("pushed status has B clear, want set after BRK")
	}
	if pushed&FlagUnused == 0 {
		t.Error("pushed status has U clear, want always set")
	}
}

func TestNMIPushesBreakFlagClear(t *testing.T) {
	c := newTestCpu(t, []byte{0xEA}) // NOP, irrelevant
	c.Vectors.NMI = 0x9000
	c.SP = 0xFD
	c.NMI()
	pushed, _ := c.Mem.Get(0x0100 + uint16(c.SP) + 1)
	if pushed&FlagBreak != 0 {
		t.Error("pushed status has B set, want clear for NMI")
	}
	if c.PC != 0x9000 {
		t.Errorf("PC = %#x, want 0x9000 after NMI", c.PC)
	}
}

func TestJMPIndirectPageWrapBug(t *testing.T) {
	prg := make([]byte, 0x8000)
	prg[0] = 0x6C // JMP ($81FF)
	prg[1] = 0xFF
	prg[2] = 0x81
	prg[0x1FF] = 0x34 // value at $81FF -> low byte
	prg[0x100] = 0x12 // value at $8100 (NOT $8200) -> high byte, the bug
	c := newTestCpu(t, prg)
	if err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.PC != 0x1234 {
		t.Errorf("PC = %#x, want 0x1234 (wrapped high byte)", c.PC)
	}
}

func TestInvalidOpcodeReturnsTypedError(t *testing.T) {
	c := newTestCpu(t, []byte{0x0B}) // ANC, not decoded
	err := c.Step()
	var ioe *InvalidOpError
	if !errors.As(err, &ioe) {
		t.Fatalf("Step error = %v, want *InvalidOpError", err)
	}
	if ioe.Op != 0x0B {
		t.Errorf("Op = %#x, want 0x0B", ioe.Op)
	}
}

func TestSimpleProgramRunsToBreak(t *testing.T) {
	// LDA #$01; STA $00; BRK
	c := newTestCpu(t, []byte{0xA9, 0x01, 0x85, 0x00, 0x00})
	if err := c.Step(); err != nil {
		t.Fatalf("LDA step: %v", err)
	}
	if err := c.Step(); err != nil {
		t.Fatalf("STA step: %v", err)
	}
	v, _ := c.Mem.Get(0x00)
	if v != 0x01 {
		t.Errorf("Ram[0] = %#x, want 1", v)
	}
	if err := c.Step(); !errors.Is(err, ErrBreak) {
		t.Fatalf("BRK step err = %v, want ErrBreak", err)
	}
}
