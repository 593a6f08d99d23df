package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sheets-editor-be/internal/dto"
	"sheets-editor-be/internal/pkg/logger"
	"sheets-editor-be/internal/repository/unitofwork"
	"sheets-editor-be/pkg/doctree"
	"sheets-editor-be/pkg/embed"
	"sheets-editor-be/pkg/formatting"
	"sheets-editor-be/pkg/hydrate"
	"sheets-editor-be/pkg/listrules"
	"sheets-editor-be/pkg/serializer"
	"sheets-editor-be/pkg/store"

	"github.com/google/uuid"
)

const editorModule = "EditorService"

type SessionStore interface {
	Save(session *store.EditSession)
	Get(sessionID string) (*store.EditSession, bool)
	Delete(sessionID string)
}

type PasteClassifier interface {
	NeedsResolution(text string) bool
	Classify(ctx context.Context, text string) embed.Result
}

type IEditorService interface {
	Open(ctx context.Context, userId uuid.UUID, sheetId uuid.UUID) (*dto.SessionStateResponse, error)
	Get(ctx context.Context, userId uuid.UUID, sessionId string) (*dto.SessionStateResponse, error)
	Select(ctx context.Context, userId uuid.UUID, sessionId string, req *dto.SelectRequest) (*dto.SessionStateResponse, error)
	Command(ctx context.Context, userId uuid.UUID, sessionId string, req *dto.CommandRequest) (*dto.SessionStateResponse, error)
	ToggleMark(ctx context.Context, userId uuid.UUID, sessionId string, req *dto.MarkRequest) (*dto.SessionStateResponse, error)
	ToggleBlock(ctx context.Context, userId uuid.UUID, sessionId string, req *dto.BlockRequest) (*dto.SessionStateResponse, error)
	ToggleCode(ctx context.Context, userId uuid.UUID, sessionId string) (*dto.SessionStateResponse, error)
	Key(ctx context.Context, userId uuid.UUID, sessionId string, req *dto.KeyRequest) (*dto.SessionStateResponse, error)
	Text(ctx context.Context, userId uuid.UUID, sessionId string, req *dto.TextRequest) (*dto.SessionStateResponse, error)
	Paste(ctx context.Context, userId uuid.UUID, sessionId string, req *dto.PasteRequest) (*dto.PasteResponse, error)
	HTML(ctx context.Context, userId uuid.UUID, sessionId string) (*dto.HtmlResponse, error)
	Payload(ctx context.Context, userId uuid.UUID, sessionId string) (*dto.PayloadResponse, error)
	Save(ctx context.Context, userId uuid.UUID, sessionId string, req *dto.SaveSessionRequest) (*dto.SaveSessionResponse, error)
	Close(ctx context.Context, userId uuid.UUID, sessionId string) error
}

type editorService struct {
	uowFactory       unitofwork.RepositoryFactory
	sessions         SessionStore
	classifier       PasteClassifier
	publisherService IPublisherService
	notifier         SessionNotifier
	resolveTimeout   time.Duration
	logger           logger.ILogger
}

func NewEditorService(
	uowFactory unitofwork.RepositoryFactory,
	sessions SessionStore,
	classifier PasteClassifier,
	publisherService IPublisherService,
	notifier SessionNotifier,
	resolveTimeout time.Duration,
	log logger.ILogger,
) IEditorService {
	return &editorService{
		uowFactory:       uowFactory,
		sessions:         sessions,
		classifier:       classifier,
		publisherService: publisherService,
		notifier:         notifier,
		resolveTimeout:   resolveTimeout,
		logger:           log,
	}
}

// Open hydrates the stored sheet into a fresh editor with the caret at the
// start of the document.
func (s *editorService) Open(ctx context.Context, userId uuid.UUID, sheetId uuid.UUID) (*dto.SessionStateResponse, error) {
	sheet, err := findSheet(ctx, s.uowFactory.NewUnitOfWork(ctx), userId, sheetId)
	if err != nil {
		return nil, err
	}

	editor := doctree.NewFromNodes(hydrate.FromPayload(sheet.Content))
	if start, ok := editor.Start(doctree.Path{}); ok {
		editor.Select(doctree.Collapsed(start))
	}

	session := store.NewEditSession(sheet.Id, userId, sheet.Title, editor)
	s.sessions.Save(session)
	s.logger.Info(editorModule, "Session opened", map[string]interface{}{"session_id": session.ID, "sheet_id": sheet.Id, "user_id": userId})

	return s.mutate(session, func(*doctree.Editor) (bool, error) { return true, nil })
}

func (s *editorService) Get(ctx context.Context, userId uuid.UUID, sessionId string) (*dto.SessionStateResponse, error) {
	return s.run(userId, sessionId, func(*doctree.Editor) (bool, error) { return false, nil })
}

func (s *editorService) Select(ctx context.Context, userId uuid.UUID, sessionId string, req *dto.SelectRequest) (*dto.SessionStateResponse, error) {
	return s.run(userId, sessionId, func(e *doctree.Editor) (bool, error) {
		if req.Selection == nil {
			e.Deselect()
			return true, nil
		}
		if !e.Select(*req.Selection) {
			return false, fmt.Errorf("%w: selection does not address the document", ErrInvalidCommand)
		}
		return true, nil
	})
}

func (s *editorService) Command(ctx context.Context, userId uuid.UUID, sessionId string, req *dto.CommandRequest) (*dto.SessionStateResponse, error) {
	return s.run(userId, sessionId, func(e *doctree.Editor) (bool, error) {
		return executeCommand(e, req)
	})
}

func (s *editorService) ToggleMark(ctx context.Context, userId uuid.UUID, sessionId string, req *dto.MarkRequest) (*dto.SessionStateResponse, error) {
	return s.run(userId, sessionId, func(e *doctree.Editor) (bool, error) {
		if e.Selection == nil {
			return false, nil
		}
		return formatting.ToggleMark(e, req.Mark), nil
	})
}

func (s *editorService) ToggleBlock(ctx context.Context, userId uuid.UUID, sessionId string, req *dto.BlockRequest) (*dto.SessionStateResponse, error) {
	blockType := formatting.BlockTypeType
	if req.BlockType == string(formatting.BlockTypeAlign) || (req.BlockType == "" && formatting.IsAlignType(req.Format)) {
		blockType = formatting.BlockTypeAlign
	}
	return s.run(userId, sessionId, func(e *doctree.Editor) (bool, error) {
		if e.Selection == nil {
			return false, nil
		}
		return formatting.ToggleBlock(e, req.Format, blockType), nil
	})
}

func (s *editorService) ToggleCode(ctx context.Context, userId uuid.UUID, sessionId string) (*dto.SessionStateResponse, error) {
	return s.run(userId, sessionId, func(e *doctree.Editor) (bool, error) {
		if e.Selection == nil {
			return false, nil
		}
		return formatting.ToggleCodeBlock(e), nil
	})
}

func (s *editorService) Key(ctx context.Context, userId uuid.UUID, sessionId string, req *dto.KeyRequest) (*dto.SessionStateResponse, error) {
	return s.run(userId, sessionId, func(e *doctree.Editor) (bool, error) {
		return listrules.HandleKey(e, req.Key), nil
	})
}

func (s *editorService) Text(ctx context.Context, userId uuid.UUID, sessionId string, req *dto.TextRequest) (*dto.SessionStateResponse, error) {
	return s.run(userId, sessionId, func(e *doctree.Editor) (bool, error) {
		return e.InsertText(req.Text), nil
	})
}

// Paste classifies synchronously unless the text is a short link. Those are
// resolved in the background and applied at whatever the selection is by
// then; the resulting document is pushed to the session.
func (s *editorService) Paste(ctx context.Context, userId uuid.UUID, sessionId string, req *dto.PasteRequest) (*dto.PasteResponse, error) {
	session, err := s.session(userId, sessionId)
	if err != nil {
		return nil, err
	}

	if s.classifier.NeedsResolution(req.Text) {
		go s.resolvePaste(session, req.Text)
		return &dto.PasteResponse{Pending: true}, nil
	}

	res := s.classifier.Classify(ctx, req.Text)
	state, err := s.mutate(session, func(e *doctree.Editor) (bool, error) {
		return embed.Apply(e, res), nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.PasteResponse{Kind: res.Provider, State: state}, nil
}

func (s *editorService) resolvePaste(session *store.EditSession, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.resolveTimeout)
	defer cancel()

	res := s.classifier.Classify(ctx, text)
	state, err := s.mutate(session, func(e *doctree.Editor) (bool, error) {
		return embed.Apply(e, res), nil
	})
	if err != nil {
		s.logger.Error(editorModule, "Failed to apply resolved paste", map[string]interface{}{"session_id": session.ID, "error": err.Error()})
		return
	}

	s.logger.Info(editorModule, "Resolved paste applied", map[string]interface{}{"session_id": session.ID, "provider": res.Provider})
	if s.notifier != nil {
		s.notifier.Push(session.ID, MessageDocument, state)
	}
}

func (s *editorService) HTML(ctx context.Context, userId uuid.UUID, sessionId string) (*dto.HtmlResponse, error) {
	session, err := s.session(userId, sessionId)
	if err != nil {
		return nil, err
	}
	var html string
	_ = session.Do(func(e *doctree.Editor) error {
		html = serializer.SerializeDocument(e.Children())
		return nil
	})
	return &dto.HtmlResponse{Html: html}, nil
}

func (s *editorService) Payload(ctx context.Context, userId uuid.UUID, sessionId string) (*dto.PayloadResponse, error) {
	session, err := s.session(userId, sessionId)
	if err != nil {
		return nil, err
	}
	var items []serializer.PayloadItem
	_ = session.Do(func(e *doctree.Editor) error {
		items = serializer.BuildPayload(e.Children())
		return nil
	})
	return &dto.PayloadResponse{Items: items}, nil
}

// Save queues the current document; the consumer persists it after the
// debounce window and the session hears back with a "saved" message.
func (s *editorService) Save(ctx context.Context, userId uuid.UUID, sessionId string, req *dto.SaveSessionRequest) (*dto.SaveSessionResponse, error) {
	session, err := s.session(userId, sessionId)
	if err != nil {
		return nil, err
	}

	msg := dto.SaveSheetMessage{
		SheetId:     session.SheetID,
		UserId:      userId,
		SessionId:   session.ID,
		RequestedAt: time.Now(),
	}
	if req != nil {
		msg.Title = req.Title
	}
	_ = session.Do(func(e *doctree.Editor) error {
		msg.Content = serializer.BuildPayload(e.Children())
		msg.Html = serializer.SerializeDocument(e.Children())
		return nil
	})

	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		return nil, err
	}

	return &dto.SaveSessionResponse{
		SheetId: session.SheetID,
		Queued:  true,
		Items:   len(msg.Content),
	}, nil
}

func (s *editorService) Close(ctx context.Context, userId uuid.UUID, sessionId string) error {
	if _, err := s.session(userId, sessionId); err != nil {
		return err
	}
	s.sessions.Delete(sessionId)
	s.logger.Info(editorModule, "Session closed", map[string]interface{}{"session_id": sessionId})
	return nil
}

// session returns the caller's session. Sessions of other users are reported
// as missing.
func (s *editorService) session(userId uuid.UUID, sessionId string) (*store.EditSession, error) {
	session, ok := s.sessions.Get(sessionId)
	if !ok || session.UserID != userId {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionId)
	}
	return session, nil
}

func (s *editorService) run(userId uuid.UUID, sessionId string, fn func(e *doctree.Editor) (bool, error)) (*dto.SessionStateResponse, error) {
	session, err := s.session(userId, sessionId)
	if err != nil {
		return nil, err
	}
	return s.mutate(session, fn)
}

// mutate runs fn under the session lock and snapshots the resulting state
// before releasing it.
func (s *editorService) mutate(session *store.EditSession, fn func(e *doctree.Editor) (bool, error)) (*dto.SessionStateResponse, error) {
	var state *dto.SessionStateResponse
	err := session.Do(func(e *doctree.Editor) error {
		applied, err := fn(e)
		if err != nil {
			return err
		}
		state = snapshot(session, e)
		state.Applied = applied
		return nil
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

func snapshot(session *store.EditSession, e *doctree.Editor) *dto.SessionStateResponse {
	var sel *doctree.Range
	if e.Selection != nil {
		r := e.Selection.Clone()
		sel = &r
	}
	return &dto.SessionStateResponse{
		SessionId: session.ID,
		SheetId:   session.SheetID,
		Document:  e.Document(),
		Selection: sel,
		Marks:     e.Marks.Clone(),
		Active:    formatting.ActiveFormats(e),
	}
}
