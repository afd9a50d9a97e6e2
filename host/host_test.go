package host

import (
	"testing"

	"github.com/bdwalton/gontendo/controller"
	"github.com/bdwalton/gontendo/render"
)

func TestLayoutReturnsNativeResolution(t *testing.T) {
	g := NewGame(nil, controller.NewSyncController(controller.NewGenericController()))
	w, h := g.Layout(800, 600)
	if w != render.Width || h != render.Height {
		t.Errorf("Layout = (%d,%d), want (%d,%d)", w, h, render.Width, render.Height)
	}
}

func TestDrainFrameTakesAtMostOnePending(t *testing.T) {
	frames := make(chan render.RenderedFrame, 2)
	var a, b render.RenderedFrame
	a.Pixels[0] = 0x11
	b.Pixels[0] = 0x22
	frames <- a
	frames <- b

	g := NewGame(frames, controller.NewSyncController(controller.NewGenericController()))
	g.drainFrame()
	if g.latest.Pixels[0] != 0x11 {
		t.Errorf("latest.Pixels[0] = %#x, want 0x11 after first drain", g.latest.Pixels[0])
	}
	g.drainFrame()
	if g.latest.Pixels[0] != 0x22 {
		t.Errorf("latest.Pixels[0] = %#x, want 0x22 after second drain", g.latest.Pixels[0])
	}
}

func TestDrainFrameNonBlockingWhenEmpty(t *testing.T) {
	frames := make(chan render.RenderedFrame)
	g := NewGame(frames, controller.NewSyncController(controller.NewGenericController()))
	g.drainFrame() // must not block
}
