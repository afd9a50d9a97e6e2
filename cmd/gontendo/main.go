// Command gontendo runs a cycle-accurate NES emulator against a single
// iNES ROM file, displaying it in an ebiten window.
//
// Grounded on gintendo.go's main(), adapted from a -nes_rom flag to a
// single positional argument per spec.md §6's CLI contract, and from a
// single-goroutine Bus.Run loop to the emulation-goroutine/frame-channel
// split SPEC_FULL.md §5 describes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/bdwalton/gontendo/controller"
	"github.com/bdwalton/gontendo/cpu"
	"github.com/bdwalton/gontendo/host"
	"github.com/bdwalton/gontendo/mappers"
	"github.com/bdwalton/gontendo/memory"
	"github.com/bdwalton/gontendo/ppu"
	"github.com/bdwalton/gontendo/render"
	"github.com/bdwalton/gontendo/rom"
	"github.com/golang/glog"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	flag.Parse()
	defer glog.Flush()

	if flag.NArg() != 1 {
		glog.Errorf("usage: gontendo <path-to-nes-rom>")
		os.Exit(1)
	}

	if err := run(flag.Arg(0)); err != nil {
		glog.Errorf("gontendo: %v", err)
		os.Exit(1)
	}
}

func run(path string) error {
	r, err := rom.Load(path)
	if err != nil {
		return fmt.Errorf("loading rom: %w", err)
	}

	m, err := mappers.Get(r)
	if err != nil {
		return fmt.Errorf("selecting mapper: %w", err)
	}

	p := ppu.New(m, r.Flags.Mirroring)

	latch := controller.NewSyncController(controller.NewGenericController())
	mem := memory.New(p, m, latch, &controller.NoController{})
	c := cpu.New(mem)

	frames := make(chan render.RenderedFrame, 2)
	renderer := render.New(func(f render.RenderedFrame) { pushFrame(frames, f) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go runEmulation(ctx, cancel, c, p, renderer)

	game := host.NewGame(frames, latch)
	ebiten.SetWindowSize(render.Width*2, render.Height*2)
	ebiten.SetWindowTitle(fmt.Sprintf("gontendo - %s", r.String()))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	return ebiten.RunGame(game)
}

// pushFrame delivers a completed frame to the host, dropping the oldest
// buffered frame rather than blocking the emulation goroutine if the host
// hasn't drained in time — the core is never allowed to suspend, per
// spec.md §5.
func pushFrame(frames chan render.RenderedFrame, f render.RenderedFrame) {
	select {
	case frames <- f:
	default:
		select {
		case <-frames:
		default:
		}
		frames <- f
	}
}

// runEmulation is the single emulation thread spec.md §5 describes: step
// CPU, poll the renderer against the bus's monotonic cycle count, deliver
// NMI. ErrBreak is logged and emulation continues; on ErrStop or any other
// error the core surfaces, it logs the error and cancels ctx.
func runEmulation(ctx context.Context, cancel context.CancelFunc, c *cpu.Cpu, p *ppu.Ppu, r *render.SoftwareRenderer) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		err := c.Step()
		if action := r.Render(p, c.Mem.Cycles); action == render.ActionSendNMI {
			c.NMI()
		}

		if err == nil {
			continue
		}

		switch {
		case errors.Is(err, cpu.ErrBreak):
			glog.Infof("BRK executed at $%04X", c.PC)
		case errors.Is(err, cpu.ErrStop):
			glog.Errorf("STP executed at $%04X, halting emulation", c.PC)
			cancel()
			return
		default:
			glog.Errorf("cpu error: %v", err)
			cancel()
			return
		}
	}
}
