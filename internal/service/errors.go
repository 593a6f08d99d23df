package service

import "errors"

var (
	ErrSheetNotFound   = errors.New("sheet not found")
	ErrSessionNotFound = errors.New("editing session not found")
	ErrInvalidCommand  = errors.New("invalid command")
)

// Websocket message types pushed to a session.
const (
	MessageDocument = "document"
	MessageSaved    = "saved"
)

// SessionNotifier pushes a message to every connection watching a session.
type SessionNotifier interface {
	Push(sessionID, msgType string, data interface{})
}
