package desktop

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wailsapp/wails/v3/pkg/application"
	"github.com/wailsapp/wails/v3/pkg/events"

	"github.com/inotes/inotes-desktop/internal/database"
	"github.com/inotes/inotes-desktop/internal/lifecycle"
	"github.com/inotes/inotes-desktop/internal/windowconfig"
)

// stubWindow records hooks and listeners so tests can fire window events.
// Methods not overridden panic through the nil embedded interface.
type stubWindow struct {
	application.Window

	mu        sync.Mutex
	hooks     map[events.WindowEventType][]func(*application.WindowEvent)
	listeners map[events.WindowEventType][]func(*application.WindowEvent)
}

func newStubWindow() *stubWindow {
	return &stubWindow{
		hooks:     make(map[events.WindowEventType][]func(*application.WindowEvent)),
		listeners: make(map[events.WindowEventType][]func(*application.WindowEvent)),
	}
}

func (s *stubWindow) RegisterHook(eventType events.WindowEventType, callback func(event *application.WindowEvent)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks[eventType] = append(s.hooks[eventType], callback)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.hooks, eventType)
	}
}

func (s *stubWindow) OnWindowEvent(eventType events.WindowEventType, callback func(event *application.WindowEvent)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[eventType] = append(s.listeners[eventType], callback)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, eventType)
	}
}

// fire runs hooks, then listeners unless a hook cancelled the event.
func (s *stubWindow) fire(eventType events.WindowEventType) *application.WindowEvent {
	s.mu.Lock()
	hooks := append([]func(*application.WindowEvent){}, s.hooks[eventType]...)
	listeners := append([]func(*application.WindowEvent){}, s.listeners[eventType]...)
	s.mu.Unlock()

	e := &application.WindowEvent{}
	for _, h := range hooks {
		h(e)
	}
	if e.Cancelled {
		return e
	}
	for _, l := range listeners {
		l(e)
	}
	return e
}

func TestAttachMainCloseHook_EditorsOpenCancelsClose(t *testing.T) {
	host := NewHost(nil, zerolog.Nop(), false)
	coord := lifecycle.New(host, zerolog.Nop())
	main := newStubWindow()
	AttachMainCloseHook(host, main, coord)

	coord.RegisterEditorWindow()
	e := main.fire(events.Common.WindowClosing)

	assert.True(t, e.Cancelled)
	assert.False(t, host.Quitting())
	assert.Equal(t, lifecycle.Snapshot{EditorCount: 1, MainClosed: true}, coord.Snapshot())
}

func TestAttachMainCloseHook_NoEditorsQuits(t *testing.T) {
	host := NewHost(nil, zerolog.Nop(), false)
	coord := lifecycle.New(host, zerolog.Nop())
	main := newStubWindow()
	AttachMainCloseHook(host, main, coord)

	e := main.fire(events.Common.WindowClosing)
	assert.False(t, e.Cancelled)
	assert.True(t, host.Quitting())

	// While quitting the coordinator is not consulted.
	coord.RegisterEditorWindow()
	before := coord.Snapshot()
	e = main.fire(events.Common.WindowClosing)
	assert.False(t, e.Cancelled)
	assert.Equal(t, before, coord.Snapshot())
}

func TestAttachMainCloseHook_Detach(t *testing.T) {
	host := NewHost(nil, zerolog.Nop(), false)
	coord := lifecycle.New(host, zerolog.Nop())
	main := newStubWindow()

	off := AttachMainCloseHook(host, main, coord)
	off()

	coord.RegisterEditorWindow()
	e := main.fire(events.Common.WindowClosing)
	assert.False(t, e.Cancelled)
	assert.False(t, coord.Snapshot().MainClosed)
}

func TestWindow_DevtoolsFixedAtCreation(t *testing.T) {
	w := &window{w: newStubWindow(), devtools: false}
	assert.ErrorIs(t, w.OpenDevTools(), ErrDevtoolsUnavailable)
}

type fakeGeometry struct {
	mu         sync.Mutex
	w, h, x, y int
}

func (g *fakeGeometry) Size() (int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.w, g.h
}

func (g *fakeGeometry) Position() (int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.x, g.y
}

func (g *fakeGeometry) SetSize(w, h int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.w, g.h = w, h
}

func (g *fakeGeometry) SetPosition(x, y int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.x, g.y = x, y
}

func TestTrackGeometry_FlushesAndReportsClose(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), database.FileName))
	require.NoError(t, err)
	defer db.Close()
	store := windowconfig.NewStore(db)

	geo := &fakeGeometry{w: 420, h: 640, x: 5, y: 6}
	tracker := windowconfig.NewTracker(store, "window_1", geo, time.Hour, zerolog.Nop())
	win := newStubWindow()

	closed := 0
	TrackGeometry(win, tracker, func() { closed++ })

	win.fire(events.Common.WindowDidMove)
	win.fire(events.Common.WindowClosing)
	assert.Equal(t, 1, closed)

	cfg, err := store.Get(context.Background(), "window_1")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, 420, cfg.Width)
	assert.Equal(t, 640, cfg.Height)
}
