package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"chatlinks/internal/archive"
	"chatlinks/internal/domain"
)

var (
	// ErrArchiveNotFound is returned when no archive is stored under a name.
	ErrArchiveNotFound = archive.ErrNotFound
	// ErrInvalidName is returned when an archive name cannot be used as a key.
	ErrInvalidName = errors.New("invalid archive name")
)

var validate = validator.New()

// ValidateName checks that name can be used as an archive name: it must be
// non-empty, at most 128 printable ASCII characters and must not contain ':'.
func ValidateName(name string) error {
	if err := validate.Var(name, "required,max=128,printascii,excludesall=:"); err != nil {
		return fmt.Errorf("%w %q", ErrInvalidName, name)
	}
	return nil
}

// ArchiveInfo describes a stored archive.
type ArchiveInfo struct {
	Name         string    `json:"name"`
	MessageCount int       `json:"message_count"`
	ImportedAt   time.Time `json:"imported_at"`
}

// Repository stores imported chat archives by name.
// Only the message collections are kept; search results are never persisted.
type Repository interface {
	// SaveArchive stores messages under name, replacing any previous archive
	// of the same name. Message order is preserved.
	SaveArchive(ctx context.Context, name string, messages []domain.Message) error

	// LoadMessages returns the messages of an archive in their original order.
	LoadMessages(ctx context.Context, name string) ([]domain.Message, error)

	// ListArchives returns every stored archive, sorted by name.
	ListArchives(ctx context.Context) ([]ArchiveInfo, error)

	// DeleteArchive removes an archive. Deleting an unknown archive is not an error.
	DeleteArchive(ctx context.Context, name string) error

	// Close gracefully shuts down the repository connection.
	Close() error
}
