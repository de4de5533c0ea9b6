// Package exchange encodes and decodes note lists in the human-readable
// formats used by export and import.
//
// JSON and YAML files hold a top-level list of notes. TOML has no top-level
// arrays, so TOML files hold a [[notes]] array of tables.
package exchange

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/quill/internal/note"
)

var (
	// ErrEncode indicates notes could not be encoded.
	ErrEncode = errors.New("failed to encode notes")
	// ErrDecode indicates a file could not be decoded into notes.
	ErrDecode = errors.New("failed to decode notes")
	// ErrUnknownFormat indicates an unsupported format name.
	ErrUnknownFormat = errors.New("unknown export format")
)

// Format names an interchange format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatYAML, FormatTOML}

// ParseFormat parses a format name. "yml" is accepted as YAML.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// DetectFormat picks the format from explicit when set, otherwise from the
// file extension of path, otherwise fallback.
func DetectFormat(explicit, path string, fallback Format) (Format, error) {
	if strings.TrimSpace(explicit) != "" {
		return ParseFormat(explicit)
	}
	if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext != "" {
		if f, err := ParseFormat(ext); err == nil {
			return f, nil
		}
	}
	if fallback == "" {
		fallback = FormatJSON
	}
	return fallback, nil
}

type tomlDocument struct {
	Notes []record `toml:"notes"`
}

// record is the on-file shape of a note. Tags are always written as a list,
// never as null.
type record struct {
	ID    note.ID  `json:"id" yaml:"id" toml:"id"`
	Title string   `json:"title" yaml:"title" toml:"title"`
	Tags  []string `json:"tags" yaml:"tags" toml:"tags"`
	Body  string   `json:"body" yaml:"body" toml:"body"`
}

func toRecords(notes []note.Note) []record {
	out := make([]record, 0, len(notes))
	for _, n := range notes {
		tags := n.Tags
		if tags == nil {
			tags = []string{}
		}
		out = append(out, record{ID: n.ID, Title: n.Title, Tags: tags, Body: n.Body})
	}
	return out
}

// Encode writes notes to w in format f.
func Encode(w io.Writer, f Format, notes []note.Note) error {
	records := toRecords(notes)

	var err error
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(records)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err = enc.Encode(records)
		if err == nil {
			err = enc.Close()
		}
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(tomlDocument{Notes: records})
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return fmt.Errorf("%w as %s: %v", ErrEncode, f, err)
	}
	return nil
}

// Decode parses data in format f. Tags are normalized on the way in.
func Decode(data []byte, f Format) ([]note.Note, error) {
	var records []record

	var err error
	switch f {
	case FormatJSON:
		err = json.Unmarshal(data, &records)
	case FormatYAML:
		err = yaml.Unmarshal(data, &records)
	case FormatTOML:
		var doc tomlDocument
		_, err = toml.Decode(string(data), &doc)
		records = doc.Notes
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return nil, fmt.Errorf("%w as %s: %v", ErrDecode, f, err)
	}

	notes := make([]note.Note, 0, len(records))
	for _, r := range records {
		notes = append(notes, note.Note{
			ID:    r.ID,
			Title: r.Title,
			Tags:  note.NormalizeTags(r.Tags),
			Body:  r.Body,
		})
	}
	return notes, nil
}
