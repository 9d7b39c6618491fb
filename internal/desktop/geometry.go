package desktop

import (
	"github.com/wailsapp/wails/v3/pkg/application"
	"github.com/wailsapp/wails/v3/pkg/events"

	"github.com/inotes/inotes-desktop/internal/windowconfig"
)

// Geometry exposes a Wails window's size and position to windowconfig.
type Geometry struct {
	w application.Window
}

func NewGeometry(w application.Window) *Geometry { return &Geometry{w: w} }

func (g *Geometry) Size() (int, int)     { return g.w.Size() }
func (g *Geometry) Position() (int, int) { return g.w.Position() }
func (g *Geometry) SetSize(width, height int) {
	g.w.SetSize(width, height)
}
func (g *Geometry) SetPosition(x, y int) {
	g.w.SetPosition(x, y)
}

// TrackGeometry feeds move and resize events of w into tracker and flushes
// the last geometry when the window closes, then calls onClosed if set. The
// returned func removes the hooks.
func TrackGeometry(w application.Window, tracker *windowconfig.Tracker, onClosed func()) func() {
	changed := func(*application.WindowEvent) { tracker.Changed() }
	offs := []func(){
		w.RegisterHook(events.Common.WindowDidMove, changed),
		w.RegisterHook(events.Common.WindowDidResize, changed),
		w.OnWindowEvent(events.Common.WindowClosing, func(*application.WindowEvent) {
			tracker.Flush()
			if onClosed != nil {
				onClosed()
			}
		}),
	}
	return func() {
		for _, off := range offs {
			off()
		}
	}
}
