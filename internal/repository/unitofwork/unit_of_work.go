package unitofwork

import (
	"context"

	"sheets-editor-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	SheetRepository() contract.SheetRepository
}
