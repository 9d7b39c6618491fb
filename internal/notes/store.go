// Package notes stores notes in the application's SQLite database.
package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/inotes/inotes-desktop/internal/database"
)

// DefaultColor is the sticky-note yellow used when none is given.
const DefaultColor = "#ffd54f"

// excerptLength is the preview length shown in the note list.
const excerptLength = 500

// ErrNotFound is returned when a note id does not exist.
var ErrNotFound = errors.New("note not found")

// Note is a stored note.
type Note struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Color     string    `json:"color"`
	IsPinned  bool      `json:"is_pinned"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewNote holds the fields for Create.
type NewNote struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Color    string `json:"color"`
	IsPinned bool   `json:"is_pinned"`
}

// NoteUpdate is a partial update; nil fields are left unchanged.
type NoteUpdate struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	Color    *string `json:"color,omitempty"`
	IsPinned *bool   `json:"is_pinned,omitempty"`
}

// Store handles notes.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

const selectColumns = `SELECT id, title, content, COALESCE(color, ''), is_pinned, created_at, updated_at FROM notes`

const listOrder = ` ORDER BY is_pinned DESC, updated_at DESC, id DESC`

// List returns all notes, pinned first, then most recently updated.
func (s *Store) List(ctx context.Context) ([]Note, error) {
	return s.query(ctx, selectColumns+listOrder)
}

// Get returns the note with the given id, or nil if there is none.
func (s *Store) Get(ctx context.Context, id int64) (*Note, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	n, err := scanNote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

// Create inserts a note and returns its id.
func (s *Store) Create(ctx context.Context, n NewNote) (int64, error) {
	color := n.Color
	if color == "" {
		color = DefaultColor
	}
	now := database.Now()
	res, err := s.db.ExecContext(ctx, `
	INSERT INTO notes (title, content, color, is_pinned, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)`, n.Title, n.Content, color, n.IsPinned, now, now)
	if err != nil {
		return 0, fmt.Errorf("insert note: %w", err)
	}
	return res.LastInsertId()
}

// Update applies the non-nil fields of u and bumps updated_at.
func (s *Store) Update(ctx context.Context, id int64, u NoteUpdate) error {
	var (
		fields []string
		args   []any
	)
	if u.Title != nil {
		fields = append(fields, "title = ?")
		args = append(args, *u.Title)
	}
	if u.Content != nil {
		fields = append(fields, "content = ?")
		args = append(args, *u.Content)
	}
	if u.Color != nil {
		fields = append(fields, "color = ?")
		args = append(args, *u.Color)
	}
	if u.IsPinned != nil {
		fields = append(fields, "is_pinned = ?")
		args = append(args, *u.IsPinned)
	}
	fields = append(fields, "updated_at = ?")
	args = append(args, database.Now(), id)

	res, err := s.db.ExecContext(ctx, `UPDATE notes SET `+strings.Join(fields, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update note %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("update note %d: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes a note. Deleting a missing note is not an error.
func (s *Store) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	return err
}

// Search returns notes whose title or content contains keyword.
func (s *Store) Search(ctx context.Context, keyword string) ([]Note, error) {
	pattern := "%" + escapeLike(keyword) + "%"
	return s.query(ctx, selectColumns+` WHERE title LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\'`+listOrder, pattern, pattern)
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Note, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(s scanner) (Note, error) {
	var n Note
	err := s.Scan(&n.ID, &n.Title, &n.Content, &n.Color, &n.IsPinned, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Excerpt returns the list preview for a note body.
func Excerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptLength {
		return content
	}
	return string(runes[:excerptLength])
}
