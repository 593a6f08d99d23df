package mapper

import (
	"time"

	"sheets-editor-be/internal/entity"
	"sheets-editor-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SheetMapper struct{}

func NewSheetMapper() *SheetMapper {
	return &SheetMapper{}
}

func (m *SheetMapper) ToEntity(s *model.Sheet) *entity.Sheet {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.Sheet{
		Id:        s.Id,
		Title:     s.Title,
		Content:   s.Content.Data(),
		Html:      s.Html,
		Version:   s.Version,
		UserId:    s.UserId,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: s.DeletedAt.Valid,
	}
}

func (m *SheetMapper) ToModel(s *entity.Sheet) *model.Sheet {
	if s == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if s.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	} else if s.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.Sheet{
		Id:        s.Id,
		Title:     s.Title,
		Content:   datatypes.NewJSONType(s.Content),
		Html:      s.Html,
		Version:   s.Version,
		UserId:    s.UserId,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *SheetMapper) ToEntities(sheets []*model.Sheet) []*entity.Sheet {
	entities := make([]*entity.Sheet, len(sheets))
	for i, s := range sheets {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
