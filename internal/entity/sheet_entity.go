package entity

import (
	"time"

	"sheets-editor-be/pkg/serializer"

	"github.com/google/uuid"
)

type Sheet struct {
	Id        uuid.UUID
	Title     string
	Content   []serializer.PayloadItem
	Html      string
	Version   int
	UserId    uuid.UUID
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
