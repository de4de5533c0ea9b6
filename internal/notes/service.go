// Package notes implements the note operations behind each quill command.
//
// Every operation is a single cache transaction: it loads the whole cache,
// works on it in memory and, for the mutating operations, saves it back once.
package notes

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/aidanlsb/quill/internal/cache"
	"github.com/aidanlsb/quill/internal/note"
	"github.com/aidanlsb/quill/internal/opener"
	"github.com/aidanlsb/quill/internal/parser"
	"github.com/aidanlsb/quill/internal/paths"
	"github.com/aidanlsb/quill/internal/query"
)

// DefaultLimit is the number of notes listed, opened or shown when no
// positive limit is given.
const DefaultLimit = 10

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// Service coordinates the cache store with the opener and confirmer.
type Service struct {
	Store     *cache.Store
	Opener    opener.Opener
	Confirmer Confirmer
	Logger    *slog.Logger

	// IDs draws candidates for new note ids. Defaults to cache.RandomIDs.
	IDs cache.IDSource
}

// NewService creates a note service.
func NewService(store *cache.Store, op opener.Opener, confirm Confirmer, logger *slog.Logger) *Service {
	return &Service{Store: store, Opener: op, Confirmer: confirm, Logger: logger}
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s.Logger
}

func (s *Service) confirm(prompt string) (bool, error) {
	if s.Confirmer == nil {
		return false, nil
	}
	return s.Confirmer.Confirm(prompt)
}

// NewInput describes a note to create.
type NewInput struct {
	Title string
	Tags  []string
	Body  string
}

// NewResult is the created note and the cache size after creation.
type NewResult struct {
	Note  note.Note `json:"note"`
	Total int       `json:"total"`
}

// New creates a note with a fresh random id. The body must exist. A blank
// title falls back to the shallowest heading of a markdown body.
func (s *Service) New(in NewInput) (*NewResult, error) {
	body, err := paths.Canonicalize(in.Body)
	if err != nil {
		return nil, err
	}

	n := note.Note{
		Title: in.Title,
		Tags:  note.NormalizeTags(in.Tags),
		Body:  body,
	}
	if n.Title == "" {
		n.Title = titleFromBody(body)
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}

	var total int
	err = s.Store.Update(cache.MissingEmpty, func(c *cache.Cache) error {
		id, err := c.NewID(s.IDs)
		if err != nil {
			return err
		}
		n.ID = id
		c.Put(n)
		total = c.Len()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &NewResult{Note: n, Total: total}, nil
}

func titleFromBody(body string) string {
	if !parser.IsMarkdown(body) {
		return ""
	}
	content, err := os.ReadFile(body)
	if err != nil {
		return ""
	}
	return parser.DocumentTitle(string(content))
}

// UpdateInput describes an update. Nil fields are left unchanged.
type UpdateInput struct {
	ID    string
	Title *string
	Tags  *[]string
	Body  *string
}

// Update replaces the supplied fields of an existing note. An unknown id
// leaves the cache untouched.
func (s *Service) Update(in UpdateInput) (*note.Note, error) {
	id, err := note.ParseID(in.ID)
	if err != nil {
		return nil, err
	}

	var body string
	if in.Body != nil {
		if body, err = paths.Canonicalize(*in.Body); err != nil {
			return nil, err
		}
	}

	var updated note.Note
	err = s.Store.Update(cache.MissingError, func(c *cache.Cache) error {
		n, ok := c.Get(id)
		if !ok {
			return &NotFoundError{ID: id}
		}
		if in.Title != nil {
			n.Title = *in.Title
		}
		if in.Tags != nil {
			n.Tags = note.NormalizeTags(*in.Tags)
		}
		if in.Body != nil {
			n.Body = body
		}
		if err := n.Validate(); err != nil {
			return err
		}
		c.Put(n)
		updated = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ListResult holds the notes shown and how many more matched.
type ListResult struct {
	Notes     []note.Note `json:"notes"`
	Remaining int         `json:"remaining"`
}

// List returns up to limit notes matching q in ascending id order.
func (s *Service) List(q query.Query, limit int) (*ListResult, error) {
	var matched []note.Note
	err := s.Store.View(func(c *cache.Cache) error {
		matched = q.Filter(c.Notes())
		return nil
	})
	if err != nil {
		return nil, err
	}

	shown, remaining := truncate(matched, limit)
	return &ListResult{Notes: shown, Remaining: remaining}, nil
}

func truncate(matched []note.Note, limit int) ([]note.Note, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(matched) <= limit {
		return matched, 0
	}
	return matched[:limit], len(matched) - limit
}

// OpenedNote is a listed note and the outcome of opening its body.
type OpenedNote struct {
	note.Note
	Opened bool   `json:"opened"`
	Error  string `json:"error,omitempty"`
}

// OpenResult holds the notes opened and how many more matched.
type OpenResult struct {
	Notes     []OpenedNote `json:"notes"`
	Remaining int          `json:"remaining"`
}

// Open lists like List and opens the body of every shown note. A failure to
// open one body is logged and recorded, and does not stop the others.
func (s *Service) Open(q query.Query, limit int) (*OpenResult, error) {
	listed, err := s.List(q, limit)
	if err != nil {
		return nil, err
	}

	result := &OpenResult{Remaining: listed.Remaining}
	for _, n := range listed.Notes {
		opened := OpenedNote{Note: n}
		if s.Opener == nil {
			opened.Error = opener.ErrNoOpener.Error()
		} else if err := s.Opener.Open(n.Body); err != nil {
			opened.Error = err.Error()
		} else {
			opened.Opened = true
		}
		if !opened.Opened {
			s.logger().Warn("failed to open note", slog.String("id", n.ID.String()), slog.String("body", n.Body), slog.String("error", opened.Error))
		}
		result.Notes = append(result.Notes, opened)
	}
	return result, nil
}

// ShownNote is a listed note together with its body content.
type ShownNote struct {
	note.Note
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ShowResult holds the notes shown and how many more matched.
type ShowResult struct {
	Notes     []ShownNote `json:"notes"`
	Remaining int         `json:"remaining"`
}

// Show lists like List and reads the body of every shown note.
func (s *Service) Show(q query.Query, limit int) (*ShowResult, error) {
	listed, err := s.List(q, limit)
	if err != nil {
		return nil, err
	}

	result := &ShowResult{Remaining: listed.Remaining}
	for _, n := range listed.Notes {
		shown := ShownNote{Note: n}
		content, err := os.ReadFile(n.Body)
		if err != nil {
			shown.Error = err.Error()
		} else {
			shown.Content = string(content)
		}
		result.Notes = append(result.Notes, shown)
	}
	return result, nil
}

// DropResult reports what Drop removed.
type DropResult struct {
	Dropped   []note.Note `json:"dropped"`
	Kept      int         `json:"kept"`
	Remaining int         `json:"remaining"`
}

// Drop removes every note matching q. Unless force is set each removal is
// confirmed first; declined notes are kept. Nothing is saved when no note
// was removed.
func (s *Service) Drop(q query.Query, force bool) (*DropResult, error) {
	result := &DropResult{}
	err := s.Store.Update(cache.MissingError, func(c *cache.Cache) error {
		for _, n := range q.Filter(c.Notes()) {
			if !force {
				ok, err := s.confirm(fmt.Sprintf("Drop note %s %q?", n.ID, n.Title))
				if err != nil {
					return err
				}
				if !ok {
					s.logger().Info("kept note", slog.String("id", n.ID.String()))
					result.Kept++
					continue
				}
			}
			c.Delete(n.ID)
			s.logger().Info("dropped note", slog.String("id", n.ID.String()))
			result.Dropped = append(result.Dropped, n)
		}
		result.Remaining = c.Len()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// TagCount is the number of notes carrying a tag.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Tags counts tag usage over the whole cache, sorted by tag.
func (s *Service) Tags() ([]TagCount, error) {
	counts := make(map[string]int)
	err := s.Store.View(func(c *cache.Cache) error {
		for _, n := range c.Notes() {
			for _, tag := range n.Tags {
				counts[tag]++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]TagCount, 0, len(counts))
	for tag, count := range counts {
		out = append(out, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out, nil
}
