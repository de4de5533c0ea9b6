package notes

import (
	"errors"
	"fmt"

	"github.com/aidanlsb/quill/internal/note"
)

var (
	// ErrExportCreate indicates the export file could not be created.
	ErrExportCreate = errors.New("failed to create export file")
	// ErrExportWrite indicates the export file could not be written.
	ErrExportWrite = errors.New("failed to write export file")
	// ErrImportRead indicates the import file could not be read.
	ErrImportRead = errors.New("failed to read import file")
)

// NotFoundError reports an id that is not in the cache.
type NotFoundError struct {
	ID note.ID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no note with id '%s' found", e.ID)
}

// RelativePathError reports a note whose body could not be made relative to
// the export directory.
type RelativePathError struct {
	ID  note.ID
	Err error
}

func (e *RelativePathError) Error() string {
	return fmt.Sprintf("failed to get relative path of note '%s'", e.ID)
}

func (e *RelativePathError) Unwrap() error {
	return e.Err
}
