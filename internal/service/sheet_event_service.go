package service

import (
	"context"

	"sheets-editor-be/internal/pkg/logger"
	"sheets-editor-be/pkg/events"
	pktNats "sheets-editor-be/pkg/nats"
)

const sheetEventsDurable = "sheet-saved-push"

type EventSubscriber interface {
	Subscribe(ctx context.Context, subject, durableName string, handler pktNats.EventHandler) error
}

// SheetEventService forwards SHEET_SAVED events from the bus to the session
// that asked for the save.
type SheetEventService struct {
	subscriber EventSubscriber
	notifier   SessionNotifier
	logger     logger.ILogger
}

func NewSheetEventService(sub EventSubscriber, notifier SessionNotifier, log logger.ILogger) *SheetEventService {
	return &SheetEventService{
		subscriber: sub,
		notifier:   notifier,
		logger:     log,
	}
}

func (s *SheetEventService) Start(ctx context.Context) error {
	return s.subscriber.Subscribe(ctx, pktNats.Subject(events.SheetSaved), sheetEventsDurable, s.HandleEvent)
}

func (s *SheetEventService) HandleEvent(ctx context.Context, event events.Event) error {
	if event.EventType() != events.SheetSaved {
		return nil
	}

	payload := event.Payload()
	sessionID, _ := payload["session_id"].(string)
	if sessionID == "" {
		return nil
	}

	s.notifier.Push(sessionID, MessageSaved, payload)
	s.logger.Debug("SheetEventService", "Pushed save notice", map[string]interface{}{"session_id": sessionID, "sheet_id": payload["sheet_id"]})
	return nil
}
