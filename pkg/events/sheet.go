package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	SheetSaved   = "SHEET_SAVED"
	SheetCreated = "SHEET_CREATED"
)

// NewSheetSaved announces a persisted sheet version. sessionID is empty when
// the save did not come from an editing session.
func NewSheetSaved(sheetID, userID uuid.UUID, sessionID string, version int) BaseEvent {
	return BaseEvent{
		Type: SheetSaved,
		Data: map[string]interface{}{
			"sheet_id":   sheetID.String(),
			"user_id":    userID.String(),
			"session_id": sessionID,
			"version":    version,
		},
		OccurredAt: time.Now(),
	}
}

func NewSheetCreated(sheetID, userID uuid.UUID) BaseEvent {
	return BaseEvent{
		Type: SheetCreated,
		Data: map[string]interface{}{
			"sheet_id": sheetID.String(),
			"user_id":  userID.String(),
		},
		OccurredAt: time.Now(),
	}
}
