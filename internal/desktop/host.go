package desktop

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/wailsapp/wails/v3/pkg/application"
	"github.com/wailsapp/wails/v3/pkg/events"

	"github.com/inotes/inotes-desktop/internal/lifecycle"
)

var (
	ErrNoApp      = errors.New("desktop application not initialized")
	ErrWindowGone = errors.New("window no longer exists")
	// ErrDevtoolsUnavailable is returned for windows built without devtools;
	// Wails fixes this at creation, so the window has to be recreated.
	ErrDevtoolsUnavailable = errors.New("window was created without devtools")
)

// Host implements lifecycle.Host over a Wails application.
type Host struct {
	app      *application.App
	log      zerolog.Logger
	devtools atomic.Bool

	quitting atomic.Bool
	quitOnce sync.Once

	mu        sync.Mutex
	onCreated []func(label string, w application.Window)
	// withDevtools records, per label, whether the window was built with
	// devtools enabled.
	withDevtools map[string]bool
}

// NewHost wraps app. Windows it creates get devtools when devtools is set.
func NewHost(app *application.App, log zerolog.Logger, devtools bool) *Host {
	h := &Host{
		app:          app,
		log:          log.With().Str("component", "host").Logger(),
		withDevtools: make(map[string]bool),
	}
	h.devtools.Store(devtools)
	return h
}

// SetDevtools controls whether newly created windows allow devtools.
func (h *Host) SetDevtools(enabled bool) {
	h.devtools.Store(enabled)
}

// OnWindowCreated registers fn to run for every window the host creates.
func (h *Host) OnWindowCreated(fn func(label string, w application.Window)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onCreated = append(h.onCreated, fn)
}

// Native returns the Wails window with the given name.
func (h *Host) Native(label string) (application.Window, bool) {
	if h.app == nil {
		return nil, false
	}
	w, ok := h.app.Window.GetByName(label)
	if !ok || w == nil {
		return nil, false
	}
	return w, true
}

func (h *Host) Window(label string) (lifecycle.Window, bool) {
	w, ok := h.Native(label)
	if !ok {
		return nil, false
	}
	h.mu.Lock()
	devtools := h.withDevtools[label]
	h.mu.Unlock()
	return &window{w: w, devtools: devtools}, true
}

func (h *Host) CreateWindow(opts lifecycle.WindowOptions) (lifecycle.Window, error) {
	if h.app == nil {
		return nil, ErrNoApp
	}
	devtools := h.devtools.Load()
	w := h.app.Window.NewWithOptions(webviewOptions(opts, devtools))
	h.log.Debug().Str("label", opts.Label).Bool("devtools", devtools).Msg("window created")

	h.mu.Lock()
	h.withDevtools[opts.Label] = devtools
	hooks := append([]func(string, application.Window){}, h.onCreated...)
	h.mu.Unlock()
	for _, fn := range hooks {
		fn(opts.Label, w)
	}
	return &window{w: w, devtools: devtools}, nil
}

// Exit quits the application once. Close hooks see Quitting() as true from
// this point on and let windows go.
func (h *Host) Exit() {
	h.quitting.Store(true)
	h.quitOnce.Do(func() {
		h.log.Info().Msg("quitting application")
		if h.app != nil {
			h.app.Quit()
		}
	})
}

// Quitting reports whether Exit has been called.
func (h *Host) Quitting() bool {
	return h.quitting.Load()
}

// Emit broadcasts an event to every window.
func (h *Host) Emit(name string, data ...any) {
	if h.app == nil {
		return
	}
	h.app.Event.Emit(name, data...)
}

// AttachMainCloseHook routes close requests on the main window through the
// coordinator, cancelling the close when it asks for the window to be kept.
func AttachMainCloseHook(h *Host, w application.Window, coord *lifecycle.Coordinator) func() {
	return w.RegisterHook(events.Common.WindowClosing, func(e *application.WindowEvent) {
		if h.Quitting() {
			return
		}
		if coord.MainCloseRequested() {
			e.Cancel()
		}
	})
}

func webviewOptions(opts lifecycle.WindowOptions, devtools bool) application.WebviewWindowOptions {
	wo := application.WebviewWindowOptions{
		Name:            opts.Label,
		Title:           opts.Title,
		URL:             opts.URL,
		Width:           opts.Width,
		Height:          opts.Height,
		MinWidth:        opts.MinWidth,
		MinHeight:       opts.MinHeight,
		Frameless:       opts.Frameless,
		AlwaysOnTop:     opts.AlwaysOnTop,
		DisableResize:   !opts.Resizable,
		DevToolsEnabled: devtools,
	}
	if opts.Transparent {
		wo.BackgroundType = application.BackgroundTypeTransparent
	}
	return wo
}

// window adapts a Wails window to lifecycle.Window.
type window struct {
	w        application.Window
	devtools bool
}

func (w *window) Show() error {
	if w.w == nil {
		return ErrWindowGone
	}
	w.w.Show()
	return nil
}

func (w *window) Hide() error {
	if w.w == nil {
		return ErrWindowGone
	}
	w.w.Hide()
	return nil
}

func (w *window) Focus() error {
	if w.w == nil {
		return ErrWindowGone
	}
	w.w.Focus()
	return nil
}

func (w *window) OpenDevTools() error {
	if w.w == nil {
		return ErrWindowGone
	}
	if !w.devtools {
		return ErrDevtoolsUnavailable
	}
	w.w.OpenDevTools()
	return nil
}

// OpenEditorWindow creates an editor window showing route and returns its
// label. The frontend registers the window with the coordinator once it has
// loaded.
func OpenEditorWindow(h *Host, route string, dev bool) (string, error) {
	label := NewEditorLabel()
	if _, err := h.CreateWindow(lifecycle.EditorWindowOptions(label, route, dev)); err != nil {
		return "", fmt.Errorf("open editor window: %w", err)
	}
	return label, nil
}
