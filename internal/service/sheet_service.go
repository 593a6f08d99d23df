package service

import (
	"context"
	"fmt"
	"time"

	"sheets-editor-be/internal/dto"
	"sheets-editor-be/internal/entity"
	"sheets-editor-be/internal/pkg/logger"
	"sheets-editor-be/internal/repository/scope"
	"sheets-editor-be/internal/repository/specification"
	"sheets-editor-be/internal/repository/unitofwork"
	"sheets-editor-be/pkg/events"
	"sheets-editor-be/pkg/hydrate"
	"sheets-editor-be/pkg/serializer"

	"github.com/google/uuid"
)

type ISheetService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateSheetRequest) (*dto.CreateSheetResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowSheetResponse, error)
	List(ctx context.Context, userId uuid.UUID, req *dto.ListSheetsRequest) ([]*dto.SheetSummaryResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type sheetService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher events.Publisher
	logger         logger.ILogger
}

func NewSheetService(uowFactory unitofwork.RepositoryFactory, eventPublisher events.Publisher, log logger.ILogger) ISheetService {
	return &sheetService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

// Create stores the sheet with its content re-derived from the parsed tree,
// so what is persisted is always sanitized and normalized.
func (s *sheetService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateSheetRequest) (*dto.CreateSheetResponse, error) {
	nodes := hydrate.FromPayload(req.Content)
	sheet := entity.Sheet{
		Id:        uuid.New(),
		Title:     req.Title,
		Content:   serializer.BuildPayload(nodes),
		Html:      serializer.SerializeDocument(nodes),
		UserId:    userId,
		CreatedAt: time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.SheetRepository().Create(ctx, &sheet); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewSheetCreated(sheet.Id, userId)); err != nil {
			s.logger.Warn("SheetService", "Failed to publish SHEET_CREATED", map[string]interface{}{"sheet_id": sheet.Id, "error": err.Error()})
		}
	}

	return &dto.CreateSheetResponse{Id: sheet.Id}, nil
}

func (s *sheetService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowSheetResponse, error) {
	sheet, err := findSheet(ctx, s.uowFactory.NewUnitOfWork(ctx), userId, id)
	if err != nil {
		return nil, err
	}

	return &dto.ShowSheetResponse{
		Id:        sheet.Id,
		Title:     sheet.Title,
		Content:   sheet.Content,
		Html:      sheet.Html,
		Version:   sheet.Version,
		CreatedAt: sheet.CreatedAt,
		UpdatedAt: sheet.UpdatedAt,
	}, nil
}

func (s *sheetService) List(ctx context.Context, userId uuid.UUID, req *dto.ListSheetsRequest) ([]*dto.SheetSummaryResponse, error) {
	limit := req.Limit
	if limit == 0 {
		limit = dto.DefaultSheetPageSize
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	sheets, err := uow.SheetRepository().FindAll(ctx,
		specification.SheetOwnedByUser{UserID: userId},
		specification.Scope(scope.OrderByUpdatedDesc),
		specification.Pagination{Limit: limit, Offset: req.Offset},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.SheetSummaryResponse, 0, len(sheets))
	for _, sheet := range sheets {
		res = append(res, &dto.SheetSummaryResponse{
			Id:        sheet.Id,
			Title:     sheet.Title,
			Version:   sheet.Version,
			UpdatedAt: sheet.UpdatedAt,
		})
	}
	return res, nil
}

func (s *sheetService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := findSheet(ctx, uow, userId, id); err != nil {
		return err
	}
	return uow.SheetRepository().Delete(ctx, id)
}

func findSheet(ctx context.Context, uow unitofwork.UnitOfWork, userId, id uuid.UUID) (*entity.Sheet, error) {
	sheet, err := uow.SheetRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.SheetOwnedByUser{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if sheet == nil {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, id)
	}
	return sheet, nil
}
