// Package host implements the ebiten-backed Frame Sink and Controller
// Source: an ebiten.Game that draws frames the emulation goroutine
// produces and polls keys into a shared, mutex-guarded controller latch.
//
// Grounded on console/bus.go's Layout/Draw/Update shape and
// console/controller.go's ebiten-key-to-button mapping; the emulation
// loop itself stays in cmd/gontendo, not here, so this package never
// touches Cpu/Memory/Ppu directly.
package host

import (
	"github.com/bdwalton/gontendo/controller"
	"github.com/bdwalton/gontendo/render"
	"github.com/hajimehoshi/ebiten/v2"
)

// keyOrder maps ebiten keys to Button bits in hardware shift order (bit 0
// read first), matching console/controller.go's mapping.
var keyOrder = []struct {
	key ebiten.Key
	btn controller.Button
}{
	{ebiten.KeyA, controller.A},
	{ebiten.KeyB, controller.B},
	{ebiten.KeySpace, controller.Select},
	{ebiten.KeyEnter, controller.Start},
	{ebiten.KeyUp, controller.Up},
	{ebiten.KeyDown, controller.Down},
	{ebiten.KeyLeft, controller.Left},
	{ebiten.KeyRight, controller.Right},
}

// Game is the ebiten.Game implementation driving the window. The
// emulation goroutine owns the Cpu/Memory/Ppu/Renderer bundle entirely;
// Game only ever touches the frame channel and the controller latch.
type Game struct {
	Frames     <-chan render.RenderedFrame
	Controller *controller.SyncController

	latest render.RenderedFrame
}

// NewGame builds a Game reading completed frames from frames and routing
// key presses into latch.
func NewGame(frames <-chan render.RenderedFrame, latch *controller.SyncController) *Game {
	return &Game{Frames: frames, Controller: latch}
}

// Layout returns the NES's fixed native resolution; ebiten scales the
// window around it.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return render.Width, render.Height
}

// Update polls keys into the controller latch and drains at most one
// pending frame, matching console/bus.go's "the emulation goroutine
// drives state, Update just has to exist" shape.
func (g *Game) Update() error {
	for _, k := range keyOrder {
		g.Controller.Set(k.btn, ebiten.IsKeyPressed(k.key))
	}
	g.drainFrame()
	return nil
}

// drainFrame takes at most one pending frame off the channel without
// blocking, keeping Update a non-blocking driver for the ebiten loop.
func (g *Game) drainFrame() {
	select {
	case f := <-g.Frames:
		g.latest = f
	default:
	}
}

// Draw blits the most recently received frame onto screen.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.WritePixels(g.latest.Pixels[:])
}
