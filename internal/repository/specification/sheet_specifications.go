package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SheetOwnedByUser struct {
	UserID uuid.UUID
}

func (s SheetOwnedByUser) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("sheets.user_id = ?", s.UserID)
}
