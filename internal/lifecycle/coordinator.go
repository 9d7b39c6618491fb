// Package lifecycle decides whether closing the main window hides it or
// exits the application, based on how many editor windows are still open.
package lifecycle

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

var (
	// ErrUnbalancedUnregister is returned when an editor window unregisters
	// while no editor window is registered.
	ErrUnbalancedUnregister = errors.New("unregister without a registered editor window")
	// ErrRevealMain wraps failures to show the main window again.
	ErrRevealMain = errors.New("reveal main window")
	// ErrDevtoolsDisabled is returned by ToggleDevtools when devtools are off.
	ErrDevtoolsDisabled = errors.New("devtools disabled")
)

// Snapshot is a consistent view of the coordinator state.
type Snapshot struct {
	EditorCount int  `json:"editorCount"`
	MainClosed  bool `json:"mainClosed"`
}

// Coordinator tracks open editor windows and the main window's closed flag.
// All state transitions happen under a single lock; window operations run
// after the lock is released.
type Coordinator struct {
	host Host
	log  zerolog.Logger

	mu          sync.Mutex
	editorCount int
	mainClosed  bool
	devtools    bool
}

// New creates a coordinator bound to the given window host.
func New(host Host, log zerolog.Logger) *Coordinator {
	return &Coordinator{
		host: host,
		log:  log.With().Str("component", "lifecycle").Logger(),
	}
}

// SetDevtoolsEnabled turns the devtools command on or off.
func (c *Coordinator) SetDevtoolsEnabled(enabled bool) {
	c.mu.Lock()
	c.devtools = enabled
	c.mu.Unlock()
}

// Snapshot returns the current editor count and main-closed flag.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{EditorCount: c.editorCount, MainClosed: c.mainClosed}
}

// RegisterEditorWindow records that an editor window opened.
func (c *Coordinator) RegisterEditorWindow() {
	c.mu.Lock()
	c.editorCount++
	count := c.editorCount
	c.mu.Unlock()

	c.log.Info().Int("editors", count).Msg("editor window registered")
}

// UnregisterEditorWindow records that an editor window closed. When the last
// editor goes away while the main window is closed, the main window is shown
// again. A call with no registered editors leaves the count at zero and
// returns ErrUnbalancedUnregister.
func (c *Coordinator) UnregisterEditorWindow() error {
	c.mu.Lock()
	if c.editorCount == 0 {
		c.mu.Unlock()
		c.log.Warn().Msg("editor window unregistered with none registered")
		return ErrUnbalancedUnregister
	}
	c.editorCount--
	count := c.editorCount
	reveal := count == 0 && c.mainClosed
	if reveal {
		c.mainClosed = false
	}
	c.mu.Unlock()

	c.log.Info().Int("editors", count).Msg("editor window unregistered")
	if !reveal {
		return nil
	}
	if err := c.revealMain(); err != nil {
		return fmt.Errorf("%w: %w", ErrRevealMain, err)
	}
	c.log.Info().Msg("main window revealed")
	return nil
}

// MainCloseRequested handles a close request on the main window. With no
// editor windows open the application exits; otherwise the main window is
// hidden and the returned prevent flag tells the caller to cancel the close.
func (c *Coordinator) MainCloseRequested() (prevent bool) {
	c.mu.Lock()
	c.mainClosed = true
	count := c.editorCount
	c.mu.Unlock()

	if count == 0 {
		c.log.Info().Msg("main window closed with no editors, exiting")
		c.host.Exit()
		return false
	}

	c.log.Info().Int("editors", count).Msg("main window closed, hiding while editors are open")
	win, ok := c.host.Window(MainWindowLabel)
	if !ok {
		// Nothing to hide; still keep the process alive for the editors.
		return true
	}
	if err := win.Hide(); err != nil {
		c.log.Error().Err(err).Msg("hide main window")
	}
	return true
}

// ToggleDevtools opens the developer tools on the main window. It is a no-op
// when the main window does not exist.
func (c *Coordinator) ToggleDevtools() error {
	c.mu.Lock()
	enabled := c.devtools
	c.mu.Unlock()
	if !enabled {
		return ErrDevtoolsDisabled
	}

	win, ok := c.host.Window(MainWindowLabel)
	if !ok {
		return nil
	}
	return win.OpenDevTools()
}

func (c *Coordinator) revealMain() error {
	win, ok := c.host.Window(MainWindowLabel)
	if !ok {
		var err error
		win, err = c.host.CreateWindow(MainWindowOptions())
		if err != nil {
			return fmt.Errorf("create main window: %w", err)
		}
	}
	if err := win.Show(); err != nil {
		return fmt.Errorf("show: %w", err)
	}
	if err := win.Focus(); err != nil {
		return fmt.Errorf("focus: %w", err)
	}
	return nil
}
