package notes

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aidanlsb/quill/internal/atomicfile"
	"github.com/aidanlsb/quill/internal/cache"
	"github.com/aidanlsb/quill/internal/exchange"
	"github.com/aidanlsb/quill/internal/note"
	"github.com/aidanlsb/quill/internal/paths"
	"github.com/aidanlsb/quill/internal/query"
)

// ExportInput describes an export.
type ExportInput struct {
	Path string
	// Relative rewrites bodies relative to the export file's directory.
	Relative bool
	// Format overrides detection from the file extension.
	Format string
	// Fallback is used when neither Format nor the extension decide.
	Fallback exchange.Format
}

// ExportResult reports a finished export.
type ExportResult struct {
	Path   string          `json:"path"`
	Format exchange.Format `json:"format"`
	Count  int             `json:"count"`
}

// Export writes the notes matching q to in.Path, replacing the file
// atomically.
func (s *Service) Export(q query.Query, in ExportInput) (*ExportResult, error) {
	format, err := exchange.DetectFormat(in.Format, in.Path, fallbackFormat(in.Fallback))
	if err != nil {
		return nil, err
	}

	target, err := filepath.Abs(in.Path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrExportCreate, in.Path, err)
	}

	var matched []note.Note
	err = s.Store.View(func(c *cache.Cache) error {
		matched = q.Filter(c.Notes())
		return nil
	})
	if err != nil {
		return nil, err
	}

	if in.Relative {
		dir, err := paths.Canonicalize(filepath.Dir(target))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrExportCreate, err)
		}
		if matched, err = relativeBodies(matched, dir); err != nil {
			return nil, err
		}
	}

	err = atomicfile.Write(target, 0o644, func(w io.Writer) error {
		return exchange.Encode(w, format, matched)
	})
	if err != nil {
		var writeErr *atomicfile.Error
		if errors.As(err, &writeErr) && writeErr.Stage == atomicfile.StageCreate {
			return nil, fmt.Errorf("%w: %w", ErrExportCreate, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrExportWrite, err)
	}

	s.logger().Info("exported notes", slog.String("path", target), slog.Int("count", len(matched)))
	return &ExportResult{Path: target, Format: format, Count: len(matched)}, nil
}

func relativeBodies(notes []note.Note, dir string) ([]note.Note, error) {
	out := make([]note.Note, len(notes))
	for i, n := range notes {
		rel, err := paths.RelativeFrom(n.Body, dir)
		if err != nil {
			return nil, &RelativePathError{ID: n.ID, Err: err}
		}
		n.Body = rel
		out[i] = n
	}
	return out, nil
}

func fallbackFormat(f exchange.Format) exchange.Format {
	if f == "" {
		return exchange.FormatJSON
	}
	return f
}

// ImportInput describes an import.
type ImportInput struct {
	Path string
	// Relative resolves bodies against the import file's directory.
	Relative bool
	// Force overwrites existing notes without confirmation.
	Force  bool
	Format string
}

// ImportResult reports a finished import.
type ImportResult struct {
	Imported  int `json:"imported"`
	Unchanged int `json:"unchanged"`
	Skipped   int `json:"skipped"`
	Total     int `json:"total"`
}

// Import reads notes from in.Path into the cache. Any body that fails to
// resolve aborts the whole import before the cache is touched. Notes whose
// id is already taken replace the existing note only when forced or
// confirmed. The cache is saved once at the end.
func (s *Service) Import(in ImportInput) (*ImportResult, error) {
	format, err := exchange.DetectFormat(in.Format, in.Path, exchange.FormatJSON)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(in.Path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrImportRead, in.Path, err)
	}
	incoming, err := exchange.Decode(data, format)
	if err != nil {
		return nil, err
	}

	if in.Relative {
		source, err := paths.Canonicalize(in.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrImportRead, err)
		}
		dir := filepath.Dir(source)
		for i := range incoming {
			body, err := paths.ResolveFrom(incoming[i].Body, dir)
			if err != nil {
				return nil, err
			}
			incoming[i].Body = body
		}
	}

	for _, n := range incoming {
		if err := n.Validate(); err != nil {
			return nil, err
		}
		// Stored bodies are absolute; relative ones only make sense against
		// the import file.
		if !filepath.IsAbs(n.Body) {
			return nil, fmt.Errorf("%w: body %q of note %s is not absolute (use --relative to resolve it against the import file)", note.ErrInvalid, n.Body, n.ID)
		}
	}

	result := &ImportResult{}
	err = s.Store.Update(cache.MissingEmpty, func(c *cache.Cache) error {
		for _, n := range incoming {
			if existing, ok := c.Get(n.ID); ok {
				if existing.Equal(n) {
					result.Unchanged++
					continue
				}
				if !in.Force {
					ok, err := s.confirm(fmt.Sprintf("Overwrite note %s %q with %q?", n.ID, existing.Title, n.Title))
					if err != nil {
						return err
					}
					if !ok {
						s.logger().Info("skipped existing note", slog.String("id", n.ID.String()))
						result.Skipped++
						continue
					}
				}
			}
			c.Put(n)
			result.Imported++
		}
		result.Total = c.Len()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger().Info("imported notes", slog.String("path", in.Path), slog.Int("imported", result.Imported), slog.Int("skipped", result.Skipped))
	return result, nil
}
