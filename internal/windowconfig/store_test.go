package windowconfig

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inotes/inotes-desktop/internal/database"
)

type fakeGeometry struct {
	mu         sync.Mutex
	w, h, x, y int
	sizeSet    bool
	posSet     bool
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
	g.w, g.h, g.sizeSet = w, h, true
}

func (g *fakeGeometry) SetPosition(x, y int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.x, g.y, g.posSet = x, y, true
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), database.FileName))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db)
}

func intPtr(v int) *int { return &v }

func TestSaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Save(ctx, "note-1", 320, 480, intPtr(10), intPtr(20)))

	c, err := s.Get(ctx, "note-1")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, 320, c.Width)
	assert.Equal(t, 480, c.Height)
	require.NotNil(t, c.X)
	assert.Equal(t, 10, *c.X)
	assert.Equal(t, 20, *c.Y)
}

func TestSave_Upserts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Save(ctx, "note-1", 320, 480, nil, nil))
	first, err := s.Get(ctx, "note-1")
	require.NoError(t, err)
	assert.Nil(t, first.X)

	require.NoError(t, s.Save(ctx, "note-1", 500, 600, intPtr(1), intPtr(2)))
	second, err := s.Get(ctx, "note-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "same row is updated")
	assert.Equal(t, 500, second.Width)
	assert.Equal(t, 1, *second.X)
}

func TestGet_MissingAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	c, err := s.Get(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, c)

	require.NoError(t, s.Save(ctx, "note-1", 300, 300, nil, nil))
	require.NoError(t, s.Delete(ctx, "note-1"))
	c, err = s.Get(ctx, "note-1")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	// No saved config: defaults, position untouched.
	g := &fakeGeometry{}
	c, err := s.Apply(ctx, "fresh", g, DefaultWidth, DefaultHeight)
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.Equal(t, DefaultWidth, g.w)
	assert.Equal(t, DefaultHeight, g.h)
	assert.False(t, g.posSet)

	// Saved size without position.
	require.NoError(t, s.Save(ctx, "sized", 350, 450, nil, nil))
	g = &fakeGeometry{}
	_, err = s.Apply(ctx, "sized", g, DefaultWidth, DefaultHeight)
	require.NoError(t, err)
	assert.Equal(t, 350, g.w)
	assert.False(t, g.posSet)

	// Saved size and position.
	require.NoError(t, s.Save(ctx, "placed", 350, 450, intPtr(100), intPtr(200)))
	g = &fakeGeometry{}
	_, err = s.Apply(ctx, "placed", g, DefaultWidth, DefaultHeight)
	require.NoError(t, err)
	assert.True(t, g.posSet)
	assert.Equal(t, 100, g.x)
	assert.Equal(t, 200, g.y)
}

func TestTracker_DebouncesAndFlushes(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	g := &fakeGeometry{w: 300, h: 400, x: 5, y: 6}

	tr := NewTracker(s, "note-1", g, 20*time.Millisecond, zerolog.Nop())
	for i := 0; i < 5; i++ {
		tr.Changed()
	}

	require.Eventually(t, func() bool {
		c, err := s.Get(ctx, "note-1")
		return err == nil && c != nil && c.Width == 300
	}, 2*time.Second, 10*time.Millisecond)

	g.SetSize(640, 480)
	tr.Flush()

	c, err := s.Get(ctx, "note-1")
	require.NoError(t, err)
	assert.Equal(t, 640, c.Width)

	// Changes after Flush are ignored.
	g.SetSize(10, 10)
	tr.Changed()
	time.Sleep(60 * time.Millisecond)
	c, err = s.Get(ctx, "note-1")
	require.NoError(t, err)
	assert.Equal(t, 640, c.Width)
}
