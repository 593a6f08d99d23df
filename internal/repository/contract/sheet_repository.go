package contract

import (
	"context"

	"sheets-editor-be/internal/entity"
	"sheets-editor-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SheetRepository interface {
	Create(ctx context.Context, sheet *entity.Sheet) error
	Update(ctx context.Context, sheet *entity.Sheet) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Sheet, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Sheet, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
