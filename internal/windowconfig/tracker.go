package windowconfig

import (
	"context"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/rs/zerolog"
)

// SaveDelay is how long a window has to stay still before its geometry is
// written.
const SaveDelay = time.Second

// Tracker saves a window's geometry after it stops moving or resizing.
type Tracker struct {
	store    *Store
	windowID string
	window   Geometry
	log      zerolog.Logger

	debounced func(func())

	mu      sync.Mutex
	stopped bool
}

// NewTracker creates a tracker for one window.
func NewTracker(store *Store, windowID string, w Geometry, delay time.Duration, log zerolog.Logger) *Tracker {
	return &Tracker{
		store:     store,
		windowID:  windowID,
		window:    w,
		log:       log.With().Str("window", windowID).Logger(),
		debounced: debounce.New(delay),
	}
}

// Changed schedules a save; repeated calls within the delay collapse into one.
func (t *Tracker) Changed() {
	t.debounced(t.save)
}

// Flush saves immediately and stops further tracking. Pending debounced
// saves become no-ops.
func (t *Tracker) Flush() {
	t.save()
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

func (t *Tracker) save() {
	t.mu.Lock()
	stopped := t.stopped
	t.mu.Unlock()
	if stopped {
		return
	}

	if err := t.store.Capture(context.Background(), t.windowID, t.window); err != nil {
		t.log.Error().Err(err).Msg("save window config")
		return
	}
	t.log.Debug().Msg("window config saved")
}
