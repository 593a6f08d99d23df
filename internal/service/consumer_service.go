package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"sheets-editor-be/internal/dto"
	"sheets-editor-be/internal/entity"
	"sheets-editor-be/internal/pkg/logger"
	"sheets-editor-be/internal/repository/specification"
	"sheets-editor-be/internal/repository/unitofwork"
	"sheets-editor-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

const consumerModule = "ConsumerService"

type IConsumerService interface {
	Consume(ctx context.Context) error
	// Flush persists every pending save immediately.
	Flush(ctx context.Context)
}

type pendingSave struct {
	msg   dto.SaveSheetMessage
	timer *time.Timer
}

// consumerService persists queued saves. Saves for the same sheet arriving
// within the debounce window collapse into the latest one.
type consumerService struct {
	subscriber     message.Subscriber
	topicName      string
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher events.Publisher
	notifier       SessionNotifier
	debounce       time.Duration
	logger         logger.ILogger

	mu      sync.Mutex
	pending map[uuid.UUID]*pendingSave
}

// NewConsumerService wires the save pipeline. eventPublisher may be nil, in
// which case the requesting session is notified directly.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher events.Publisher,
	notifier SessionNotifier,
	debounce time.Duration,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:     subscriber,
		topicName:      topicName,
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		notifier:       notifier,
		debounce:       debounce,
		logger:         log,
		pending:        make(map[uuid.UUID]*pendingSave),
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.SaveSheetMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error(consumerModule, "Failed to unmarshal save message", map[string]interface{}{"error": err.Error(), "message_id": msg.UUID})
		msg.Ack()
		return
	}

	cs.schedule(ctx, payload)
	msg.Ack()
}

func (cs *consumerService) schedule(ctx context.Context, payload dto.SaveSheetMessage) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if p, ok := cs.pending[payload.SheetId]; ok {
		p.msg = payload
		p.timer.Reset(cs.debounce)
		return
	}

	p := &pendingSave{msg: payload}
	p.timer = time.AfterFunc(cs.debounce, func() { cs.fire(ctx, payload.SheetId, p) })
	cs.pending[payload.SheetId] = p
}

// fire runs when a sheet's window closes. A timer reset after it already
// fired calls fire twice; only the call still owning the entry persists.
func (cs *consumerService) fire(ctx context.Context, sheetID uuid.UUID, p *pendingSave) {
	cs.mu.Lock()
	if cs.pending[sheetID] != p {
		cs.mu.Unlock()
		return
	}
	delete(cs.pending, sheetID)
	msg := p.msg
	cs.mu.Unlock()

	if err := cs.persist(ctx, msg); err != nil {
		cs.logger.Error(consumerModule, "Failed to persist sheet", map[string]interface{}{"sheet_id": sheetID, "error": err.Error()})
	}
}

func (cs *consumerService) Flush(ctx context.Context) {
	cs.mu.Lock()
	batch := make([]dto.SaveSheetMessage, 0, len(cs.pending))
	for id, p := range cs.pending {
		p.timer.Stop()
		batch = append(batch, p.msg)
		delete(cs.pending, id)
	}
	cs.mu.Unlock()

	for _, msg := range batch {
		if err := cs.persist(ctx, msg); err != nil {
			cs.logger.Error(consumerModule, "Failed to persist sheet on flush", map[string]interface{}{"sheet_id": msg.SheetId, "error": err.Error()})
		}
	}
}

func (cs *consumerService) persist(ctx context.Context, msg dto.SaveSheetMessage) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer uow.Rollback()

	sheet, err := uow.SheetRepository().FindOne(ctx,
		specification.ByID{ID: msg.SheetId},
		specification.SheetOwnedByUser{UserID: msg.UserId},
	)
	if err != nil {
		return fmt.Errorf("load sheet: %w", err)
	}
	if sheet == nil {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, msg.SheetId)
	}

	sheet.Content = msg.Content
	sheet.Html = msg.Html
	if msg.Title != "" {
		sheet.Title = msg.Title
	}
	if err := uow.SheetRepository().Update(ctx, sheet); err != nil {
		return fmt.Errorf("update sheet: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	cs.logger.Info(consumerModule, "Sheet saved", map[string]interface{}{"sheet_id": sheet.Id, "version": sheet.Version, "items": len(sheet.Content)})
	cs.announce(ctx, sheet, msg.SessionId)
	return nil
}

func (cs *consumerService) announce(ctx context.Context, sheet *entity.Sheet, sessionID string) {
	if cs.eventPublisher != nil {
		err := cs.eventPublisher.Publish(ctx, events.NewSheetSaved(sheet.Id, sheet.UserId, sessionID, sheet.Version))
		if err == nil {
			return
		}
		cs.logger.Warn(consumerModule, "Failed to publish SHEET_SAVED, notifying directly", map[string]interface{}{"sheet_id": sheet.Id, "error": err.Error()})
	}

	if cs.notifier != nil && sessionID != "" {
		cs.notifier.Push(sessionID, MessageSaved, dto.SheetSavedNotice{
			SheetId: sheet.Id,
			Version: sheet.Version,
			SavedAt: time.Now(),
		})
	}
}
