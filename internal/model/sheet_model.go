package model

import (
	"time"

	"sheets-editor-be/pkg/serializer"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Sheet struct {
	Id        uuid.UUID                                    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title     string                                       `gorm:"type:varchar(255);not null"`
	Content   datatypes.JSONType[[]serializer.PayloadItem] `gorm:"type:jsonb"`
	Html      string                                       `gorm:"type:text"`
	Version   int                                          `gorm:"not null;default:0"`
	UserId    uuid.UUID                                    `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time                                    `gorm:"autoCreateTime"`
	UpdatedAt time.Time                                    `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt                               `gorm:"index"`
}

func (Sheet) TableName() string {
	return "sheets"
}
