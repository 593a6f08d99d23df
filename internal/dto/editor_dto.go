package dto

import (
	"sheets-editor-be/pkg/citation"
	"sheets-editor-be/pkg/doctree"
	"sheets-editor-be/pkg/formatting"
	"sheets-editor-be/pkg/serializer"

	"github.com/google/uuid"
)

// Generic command names accepted by POST /sessions/:sid/commands.
const (
	OpInsertNodes    = "insert_nodes"
	OpDeleteRange    = "delete_range"
	OpSetNodes       = "set_nodes"
	OpUnsetNodes     = "unset_nodes"
	OpWrapNodes      = "wrap_nodes"
	OpUnwrapNodes    = "unwrap_nodes"
	OpRemoveNodes    = "remove_nodes"
	OpInsertText     = "insert_text"
	OpDeleteBackward = "delete_backward"
	OpInsertBreak    = "insert_break"
)

type SessionStateResponse struct {
	SessionId string            `json:"session_id"`
	SheetId   uuid.UUID         `json:"sheet_id"`
	Document  []*doctree.Node   `json:"document"`
	Selection *doctree.Range    `json:"selection"`
	Marks     doctree.Props     `json:"marks,omitempty"`
	Active    formatting.Active `json:"active"`
	Applied   bool              `json:"applied"`
}

type SelectRequest struct {
	Selection *doctree.Range `json:"selection"`
}

// CommandRequest drives one command-layer operation. At, Point and Range
// pick the target; without them the selection is used.
type CommandRequest struct {
	Op    string          `json:"op" validate:"required,oneof=insert_nodes delete_range set_nodes unset_nodes wrap_nodes unwrap_nodes remove_nodes insert_text delete_backward insert_break"`
	Nodes []*doctree.Node `json:"nodes"`
	Node  *doctree.Node   `json:"node"`
	At    doctree.Path    `json:"at"`
	Point *doctree.Point  `json:"point"`
	Range *doctree.Range  `json:"range"`
	Props doctree.Props   `json:"props"`
	Keys  []string        `json:"keys"`
	Match []string        `json:"match"`
	Mode  string          `json:"mode" validate:"omitempty,oneof=all lowest highest"`
	Split bool            `json:"split"`
	Text  string          `json:"text"`
}

type MarkRequest struct {
	Mark string `json:"mark" validate:"required,oneof=bold italic underline code"`
}

type BlockRequest struct {
	Format    string `json:"format" validate:"required"`
	BlockType string `json:"block_type" validate:"omitempty,oneof=type align"`
}

type KeyRequest struct {
	Key string `json:"key" validate:"required,oneof=Backspace Enter"`
}

type TextRequest struct {
	Text string `json:"text" validate:"required"`
}

type PasteRequest struct {
	Text string `json:"text" validate:"required"`
}

// PasteResponse carries the new state, or Pending when a short link is being
// resolved and the document will arrive over the websocket.
type PasteResponse struct {
	Pending bool                  `json:"pending"`
	Kind    string                `json:"kind,omitempty"`
	State   *SessionStateResponse `json:"state,omitempty"`
}

type HtmlResponse struct {
	Html string `json:"html"`
}

type PayloadResponse struct {
	Items []serializer.PayloadItem `json:"items"`
}

type SaveSessionRequest struct {
	Title string `json:"title" validate:"omitempty,max=255"`
}

type SaveSessionResponse struct {
	SheetId uuid.UUID `json:"sheet_id"`
	Queued  bool      `json:"queued"`
	Items   int       `json:"items"`
}

type ResolveCitationsRequest struct {
	Text             string            `json:"text" validate:"required"`
	Sources          []citation.Source `json:"sources"`
	LiteralThreshold int               `json:"literal_threshold" validate:"omitempty,min=1"`
}
