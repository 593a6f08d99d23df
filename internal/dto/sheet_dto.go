package dto

import (
	"time"

	"sheets-editor-be/pkg/serializer"

	"github.com/google/uuid"
)

type CreateSheetRequest struct {
	Title   string                   `json:"title" validate:"required,max=255"`
	Content []serializer.PayloadItem `json:"content"`
}

type CreateSheetResponse struct {
	Id uuid.UUID `json:"id"`
}

type ShowSheetResponse struct {
	Id        uuid.UUID                `json:"id"`
	Title     string                   `json:"title"`
	Content   []serializer.PayloadItem `json:"content"`
	Html      string                   `json:"html"`
	Version   int                      `json:"version"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt *time.Time               `json:"updated_at"`
}

const DefaultSheetPageSize = 20

type ListSheetsRequest struct {
	Limit  int `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int `query:"offset" validate:"omitempty,min=0"`
}

type SheetSummaryResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Version   int        `json:"version"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// SaveSheetMessage is queued on every save and persisted by the consumer.
type SaveSheetMessage struct {
	SheetId     uuid.UUID                `json:"sheet_id"`
	UserId      uuid.UUID                `json:"user_id"`
	SessionId   string                   `json:"session_id"`
	Title       string                   `json:"title,omitempty"`
	Content     []serializer.PayloadItem `json:"content"`
	Html        string                   `json:"html"`
	RequestedAt time.Time                `json:"requested_at"`
}

// SheetSavedNotice is pushed to the session that requested a save once it is
// persisted.
type SheetSavedNotice struct {
	SheetId uuid.UUID `json:"sheet_id"`
	Version int       `json:"version"`
	SavedAt time.Time `json:"saved_at"`
}
