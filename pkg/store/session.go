package store

import (
	"sync"
	"time"

	"sheets-editor-be/pkg/doctree"

	"github.com/google/uuid"
)

// EditSession is one open editor on a sheet. The editor is single-writer:
// every access goes through Do.
type EditSession struct {
	ID      string    `json:"id"`
	SheetID uuid.UUID `json:"sheet_id"`
	UserID  uuid.UUID `json:"user_id"`
	Title   string    `json:"title"`

	CreatedAt time.Time `json:"created_at"`

	mu           sync.Mutex
	editor       *doctree.Editor
	lastActiveAt time.Time
}

func NewEditSession(sheetID, userID uuid.UUID, title string, editor *doctree.Editor) *EditSession {
	now := time.Now()
	if editor == nil {
		editor = doctree.New()
	}
	return &EditSession{
		ID:           uuid.NewString(),
		SheetID:      sheetID,
		UserID:       userID,
		Title:        title,
		CreatedAt:    now,
		editor:       editor,
		lastActiveAt: now,
	}
}

// Do runs fn with exclusive access to the editor.
func (s *EditSession) Do(fn func(e *doctree.Editor) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActiveAt = time.Now()
	return fn(s.editor)
}

func (s *EditSession) LastActiveAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActiveAt
}
