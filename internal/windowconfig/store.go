// Package windowconfig remembers the size and position of note windows.
package windowconfig

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/inotes/inotes-desktop/internal/database"
)

// Default size applied to windows without a saved configuration.
const (
	DefaultWidth  = 400
	DefaultHeight = 600
)

// Config is a saved window geometry. X and Y are nil when no position was
// recorded.
type Config struct {
	ID       int64  `json:"id"`
	WindowID string `json:"window_id"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	X        *int   `json:"x"`
	Y        *int   `json:"y"`
}

// Geometry is a window whose size and position can be read and changed.
type Geometry interface {
	Size() (width, height int)
	Position() (x, y int)
	SetSize(width, height int)
	SetPosition(x, y int)
}

// Store handles window_configs.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Save records the geometry for windowID, replacing any previous entry.
func (s *Store) Save(ctx context.Context, windowID string, width, height int, x, y *int) error {
	now := database.Now()
	return database.WithTx(s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
		UPDATE window_configs SET width = ?, height = ?, x = ?, y = ?, updated_at = ?
		WHERE window_id = ?`, width, height, nullable(x), nullable(y), now, windowID)
		if err != nil {
			return fmt.Errorf("update window config: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil || n > 0 {
			return err
		}
		_, err = tx.ExecContext(ctx, `
		INSERT INTO window_configs (window_id, width, height, x, y, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, windowID, width, height, nullable(x), nullable(y), now, now)
		if err != nil {
			return fmt.Errorf("insert window config: %w", err)
		}
		return nil
	})
}

// Get returns the saved geometry for windowID, or nil if there is none.
func (s *Store) Get(ctx context.Context, windowID string) (*Config, error) {
	row := s.db.QueryRowContext(ctx, `
	SELECT id, window_id, width, height, x, y FROM window_configs WHERE window_id = ?`, windowID)

	var (
		c    Config
		x, y sql.NullInt64
	)
	if err := row.Scan(&c.ID, &c.WindowID, &c.Width, &c.Height, &x, &y); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if x.Valid {
		v := int(x.Int64)
		c.X = &v
	}
	if y.Valid {
		v := int(y.Int64)
		c.Y = &v
	}
	return &c, nil
}

// Delete removes the saved geometry for windowID.
func (s *Store) Delete(ctx context.Context, windowID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM window_configs WHERE window_id = ?`, windowID)
	return err
}

// Apply sizes (and, when a position was saved, moves) w from the saved
// configuration, falling back to the given default size.
func (s *Store) Apply(ctx context.Context, windowID string, w Geometry, defaultWidth, defaultHeight int) (*Config, error) {
	c, err := s.Get(ctx, windowID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		w.SetSize(defaultWidth, defaultHeight)
		return nil, nil
	}
	w.SetSize(c.Width, c.Height)
	if c.X != nil && c.Y != nil {
		w.SetPosition(*c.X, *c.Y)
	}
	return c, nil
}

// Capture saves the current geometry of w.
func (s *Store) Capture(ctx context.Context, windowID string, w Geometry) error {
	width, height := w.Size()
	x, y := w.Position()
	return s.Save(ctx, windowID, width, height, &x, &y)
}

func nullable(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
