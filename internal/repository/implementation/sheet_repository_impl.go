package implementation

import (
	"context"
	"errors"

	"sheets-editor-be/internal/entity"
	"sheets-editor-be/internal/mapper"
	"sheets-editor-be/internal/model"
	"sheets-editor-be/internal/repository/contract"
	"sheets-editor-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SheetRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SheetMapper
}

func NewSheetRepository(db *gorm.DB) contract.SheetRepository {
	return &SheetRepositoryImpl{
		db:     db,
		mapper: mapper.NewSheetMapper(),
	}
}

func (r *SheetRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SheetRepositoryImpl) Create(ctx context.Context, sheet *entity.Sheet) error {
	m := r.mapper.ToModel(sheet)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*sheet = *r.mapper.ToEntity(m)
	return nil
}

// Update bumps the stored version; the entity gets the new value back.
func (r *SheetRepositoryImpl) Update(ctx context.Context, sheet *entity.Sheet) error {
	m := r.mapper.ToModel(sheet)
	m.Version++
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*sheet = *r.mapper.ToEntity(m)
	return nil
}

func (r *SheetRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Sheet{}, id).Error
}

func (r *SheetRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Sheet, error) {
	var m model.Sheet
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SheetRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Sheet, error) {
	var models []*model.Sheet
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *SheetRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Sheet{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
