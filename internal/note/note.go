// Package note defines the note record stored in the cache and the
// field-level predicates used to match records against a query.
package note

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/aidanlsb/quill/internal/paths"
)

var (
	// ErrMalformedID indicates an id string that is not a hexadecimal id.
	ErrMalformedID = errors.New("id could not be parsed")
	// ErrInvalid indicates a record that violates the note invariants.
	ErrInvalid = errors.New("invalid note")
)

// ID is the primary key of a note within a cache.
// It is always displayed and parsed in hexadecimal.
type ID uint64

// String formats the id as 16 upper-case hex digits.
func (id ID) String() string {
	return fmt.Sprintf("%016X", uint64(id))
}

// ParseID parses a hexadecimal id. Case is ignored and a leading "0x" is
// accepted.
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		return 0, ErrMalformedID
	}
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedID, s)
	}
	return ID(v), nil
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Note is a metadata record describing a document stored elsewhere on disk.
type Note struct {
	ID    ID       `json:"id" yaml:"id" toml:"id"`
	Title string   `json:"title" yaml:"title" toml:"title"`
	Tags  []string `json:"tags" yaml:"tags" toml:"tags"`

	// Body is the path to the note's content, not the content itself.
	Body string `json:"body" yaml:"body" toml:"body"`
}

// Clone returns a copy of n that shares no slices with it.
func (n Note) Clone() Note {
	out := n
	out.Tags = append([]string(nil), n.Tags...)
	return out
}

// Equal reports whether two notes hold the same id, title, tags and body.
func (n Note) Equal(other Note) bool {
	if n.ID != other.ID || n.Title != other.Title || n.Body != other.Body {
		return false
	}
	if len(n.Tags) != len(other.Tags) {
		return false
	}
	for i := range n.Tags {
		if n.Tags[i] != other.Tags[i] {
			return false
		}
	}
	return true
}

// HasTag reports whether the note carries tag.
func (n Note) HasTag(tag string) bool {
	i := sort.SearchStrings(n.Tags, tag)
	return i < len(n.Tags) && n.Tags[i] == tag
}

// Validate checks the record invariants. Tags must already be normalized.
func (n Note) Validate() error {
	err := validation.ValidateStruct(&n,
		validation.Field(&n.Title, validation.Required, validation.By(notBlank)),
		validation.Field(&n.Body, validation.Required, validation.By(notBlank)),
		validation.Field(&n.Tags, validation.By(normalizedTags)),
	)
	if err != nil {
		return fmt.Errorf("%w %s: %v", ErrInvalid, n.ID, err)
	}
	return nil
}

func notBlank(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}

func normalizedTags(value interface{}) error {
	tags, _ := value.([]string)
	for i, tag := range tags {
		if tag == "" {
			return errors.New("must not contain empty tags")
		}
		if i > 0 && tags[i-1] >= tag {
			return errors.New("must be sorted and unique")
		}
	}
	return nil
}

// FilterID reports whether query parses as an id equal to the note's id.
// A malformed query never matches.
func (n Note) FilterID(query string) bool {
	id, err := ParseID(query)
	return err == nil && id == n.ID
}

// FilterTitle reports whether pattern is a valid regular expression matching
// anywhere in the title. An invalid pattern never matches.
func (n Note) FilterTitle(pattern string) bool {
	re, err := regexp.Compile(pattern)
	return err == nil && re.MatchString(n.Title)
}

// FilterTags reports whether every tag in tags is carried by the note.
func (n Note) FilterTags(tags []string) bool {
	for _, tag := range tags {
		if !n.HasTag(tag) {
			return false
		}
	}
	return true
}

// FilterBody canonicalizes path the same way bodies are canonicalized when
// written and compares it to the stored body. Unresolvable paths never match.
func (n Note) FilterBody(path string) bool {
	canonical, err := paths.Canonicalize(path)
	return err == nil && canonical == n.Body
}
