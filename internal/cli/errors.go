package cli

import (
	"errors"

	"github.com/aidanlsb/quill/internal/atomicfile"
	"github.com/aidanlsb/quill/internal/cache"
	"github.com/aidanlsb/quill/internal/config"
	"github.com/aidanlsb/quill/internal/exchange"
	"github.com/aidanlsb/quill/internal/note"
	"github.com/aidanlsb/quill/internal/notes"
	"github.com/aidanlsb/quill/internal/paths"
)

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Config errors
	ErrConfigInvalid   = "CONFIG_INVALID"
	ErrHomeDirNotFound = "HOME_DIR_NOT_FOUND"

	// Cache errors
	ErrCacheNotFound = "CACHE_NOT_FOUND"
	ErrCacheOpen     = "CACHE_OPEN_FAILED"
	ErrCacheDecode   = "CACHE_DECODE_FAILED"
	ErrCacheCreate   = "CACHE_CREATE_FAILED"
	ErrCacheEncode   = "CACHE_ENCODE_FAILED"
	ErrCacheLocked   = "CACHE_LOCKED"

	// Note errors
	ErrNoteNotFound  = "NOTE_NOT_FOUND"
	ErrMalformedID   = "MALFORMED_ID"
	ErrNoteInvalid   = "NOTE_INVALID"
	ErrPathNotFound  = "PATH_NOT_FOUND"
	ErrRelativePath  = "RELATIVE_PATH_FAILED"
	ErrIDUnavailable = "ID_UNAVAILABLE"

	// Export/import errors
	ErrExportCreate  = "EXPORT_CREATE_FAILED"
	ErrExportWrite   = "EXPORT_WRITE_FAILED"
	ErrImportRead    = "IMPORT_READ_FAILED"
	ErrEncodeFailed  = "ENCODE_FAILED"
	ErrDecodeFailed  = "DECODE_FAILED"
	ErrUnknownFormat = "UNKNOWN_FORMAT"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"

	// General errors
	ErrFileWriteError = "FILE_WRITE_ERROR"
	ErrInternal       = "INTERNAL_ERROR"
)

// errorCode classifies an operation error into a stable code and an optional
// suggestion.
func errorCode(err error) (string, string) {
	var notFound *notes.NotFoundError
	var canonErr *paths.CanonicalizeError
	var relErr *notes.RelativePathError
	var writeErr *atomicfile.Error

	switch {
	case errors.Is(err, cache.ErrNotExist):
		return ErrCacheNotFound, "Create a note with 'quill new' or run 'quill import'"
	case errors.Is(err, cache.ErrLocked):
		return ErrCacheLocked, "Another quill command is running; retry when it finishes"
	case errors.Is(err, cache.ErrOpen):
		return ErrCacheOpen, ""
	case errors.Is(err, cache.ErrDecode):
		return ErrCacheDecode, "The cache file is not a quill cache; pass --cache to use another one"
	case errors.Is(err, cache.ErrCreate):
		return ErrCacheCreate, ""
	case errors.Is(err, cache.ErrEncode):
		return ErrCacheEncode, ""
	case errors.Is(err, cache.ErrIDExhausted):
		return ErrIDUnavailable, ""
	case errors.Is(err, config.ErrHomeDir):
		return ErrHomeDirNotFound, "Pass --cache or set " + config.EnvCache
	case errors.As(err, &notFound):
		return ErrNoteNotFound, "Run 'quill list' to see note ids"
	case errors.Is(err, note.ErrMalformedID):
		return ErrMalformedID, "Ids are hexadecimal, as shown by 'quill list'"
	case errors.Is(err, note.ErrInvalid):
		return ErrNoteInvalid, ""
	case errors.As(err, &relErr):
		return ErrRelativePath, ""
	case errors.Is(err, exchange.ErrUnknownFormat):
		return ErrUnknownFormat, "Use --format json, yaml or toml"
	case errors.Is(err, exchange.ErrEncode):
		return ErrEncodeFailed, ""
	case errors.Is(err, exchange.ErrDecode):
		return ErrDecodeFailed, ""
	case errors.Is(err, notes.ErrExportCreate):
		return ErrExportCreate, ""
	case errors.Is(err, notes.ErrExportWrite):
		return ErrExportWrite, ""
	case errors.Is(err, notes.ErrImportRead):
		return ErrImportRead, ""
	case errors.As(err, &canonErr):
		return ErrPathNotFound, "Paths must exist when they are stored"
	case errors.As(err, &writeErr):
		return ErrFileWriteError, ""
	}
	return ErrInternal, ""
}

// handleOperationError reports err using its classified code.
func handleOperationError(err error) error {
	code, suggestion := errorCode(err)
	return handleError(code, err, suggestion)
}
