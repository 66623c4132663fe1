package child

import (
	"context"
	"io"
	"siat-api/internal/logs"

	"gorm.io/gorm"
)

// Upload is one photo from the registration form.
type Upload struct {
	Filename string
	Content  io.Reader
}

type ChildServicePort interface {
	Create(ctx context.Context, in RegistrationInput, childPhoto, guardianPhoto *Upload) (uint, error)
	Update(ctx context.Context, id uint, in RegistrationInput, childPhoto, guardianPhoto *Upload) (uint, error)
	Get(ctx context.Context, id uint) (Registration, error)
	List(ctx context.Context) ([]Summary, error)
	Delete(ctx context.Context, id uint) error
	Export(ctx context.Context) ([]byte, error)
}

// ChildUnlinker drops references to a child that is being deleted. It runs
// inside the delete transaction.
type ChildUnlinker interface {
	UnlinkChild(tx *gorm.DB, childID uint) error
}

type AuditPort interface {
	Record(log logs.SystemLog, metadata interface{})
}
