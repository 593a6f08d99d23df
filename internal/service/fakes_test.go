package service

import (
	"context"
	"sync"
	"time"

	"sheets-editor-be/internal/entity"
	"sheets-editor-be/internal/pkg/logger"
	"sheets-editor-be/internal/repository/contract"
	"sheets-editor-be/internal/repository/specification"
	"sheets-editor-be/internal/repository/unitofwork"
	"sheets-editor-be/pkg/events"
	"sheets-editor-be/pkg/serializer"

	"github.com/google/uuid"
)

var nopLogger = logger.NewNopLogger()

// sheetTable is an in-memory stand-in for the sheets table.
type sheetTable struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]entity.Sheet
	updates int
}

func newSheetTable(sheets ...entity.Sheet) *sheetTable {
	t := &sheetTable{rows: map[uuid.UUID]entity.Sheet{}}
	for _, s := range sheets {
		t.rows[s.Id] = s
	}
	return t
}

func (t *sheetTable) get(id uuid.UUID) (entity.Sheet, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.rows[id]
	return s, ok
}

func (t *sheetTable) updateCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.updates
}

func (t *sheetTable) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUoW{table: t}
}

type fakeUoW struct {
	table *sheetTable
}

func (u *fakeUoW) Begin(ctx context.Context) error { return nil }
func (u *fakeUoW) Commit() error                   { return nil }
func (u *fakeUoW) Rollback() error                 { return nil }

func (u *fakeUoW) SheetRepository() contract.SheetRepository {
	return &fakeSheetRepository{table: u.table}
}

type fakeSheetRepository struct {
	table *sheetTable
}

func (r *fakeSheetRepository) matches(s entity.Sheet, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			if s.Id != sp.ID {
				return false
			}
		case specification.SheetOwnedByUser:
			if s.UserId != sp.UserID {
				return false
			}
		}
	}
	return !s.IsDeleted
}

func (r *fakeSheetRepository) Create(ctx context.Context, sheet *entity.Sheet) error {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()
	r.table.rows[sheet.Id] = *sheet
	return nil
}

func (r *fakeSheetRepository) Update(ctx context.Context, sheet *entity.Sheet) error {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()
	now := time.Now()
	sheet.Version++
	sheet.UpdatedAt = &now
	r.table.rows[sheet.Id] = *sheet
	r.table.updates++
	return nil
}

func (r *fakeSheetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()
	s := r.table.rows[id]
	s.IsDeleted = true
	r.table.rows[id] = s
	return nil
}

func (r *fakeSheetRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Sheet, error) {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()
	for _, s := range r.table.rows {
		if r.matches(s, specs) {
			out := s
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakeSheetRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Sheet, error) {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()
	var out []*entity.Sheet
	for _, s := range r.table.rows {
		if r.matches(s, specs) {
			s := s
			out = append(out, &s)
		}
	}
	return out, nil
}

func (r *fakeSheetRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type push struct {
	SessionID string
	Type      string
	Data      interface{}
}

type fakeNotifier struct {
	pushes chan push
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{pushes: make(chan push, 16)}
}

func (n *fakeNotifier) Push(sessionID, msgType string, data interface{}) {
	n.pushes <- push{SessionID: sessionID, Type: msgType, Data: data}
}

type fakeEventPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *fakeEventPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *fakeEventPublisher) published() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

type fakePublisherService struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *fakePublisherService) Publish(ctx context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

func sheetWithHTML(userID uuid.UUID, html string) entity.Sheet {
	return entity.Sheet{
		Id:     uuid.New(),
		Title:  "Sheet",
		UserId: userID,
		Content: []serializer.PayloadItem{
			{Position: 0, Type: serializer.PayloadContent, Content: html},
		},
		Html: html,
	}
}
