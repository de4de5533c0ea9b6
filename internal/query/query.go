// Package query implements the note query model shared by every command that
// selects notes: list, open, show, drop and export.
//
// A query combines optional criteria with AND semantics:
//
//	title    regular expression matched anywhere in the title
//	bodies   alternatives; a note matches if its body equals any of them
//	ids      alternatives; a note matches if its id equals any of them
//	tags     required subset; a note must carry every listed tag
//
// Absent criteria are vacuously satisfied, so the zero Query matches every
// note. Malformed criteria (bad regexp, unparsable id, unresolvable path)
// never raise errors; they simply match nothing.
package query

import (
	"regexp"

	"github.com/aidanlsb/quill/internal/note"
	"github.com/aidanlsb/quill/internal/paths"
)

// Query holds the user-supplied selection criteria.
type Query struct {
	Title  string   `json:"title,omitempty"`
	Bodies []string `json:"bodies,omitempty"`
	IDs    []string `json:"ids,omitempty"`
	Tags   []string `json:"tags,omitempty"`
}

// Empty reports whether the query has no criteria at all.
func (q Query) Empty() bool {
	return q.Title == "" && len(q.Bodies) == 0 && len(q.IDs) == 0 && len(q.Tags) == 0
}

// Match reports whether n satisfies q. It evaluates the per-field predicates
// directly; use Compile when matching many notes.
func (q Query) Match(n note.Note) bool {
	if q.Title != "" && !n.FilterTitle(q.Title) {
		return false
	}
	if len(q.Bodies) > 0 && !anyOf(q.Bodies, n.FilterBody) {
		return false
	}
	if len(q.IDs) > 0 && !anyOf(q.IDs, n.FilterID) {
		return false
	}
	if len(q.Tags) > 0 && !n.FilterTags(note.NormalizeTags(q.Tags)) {
		return false
	}
	return true
}

func anyOf(values []string, pred func(string) bool) bool {
	for _, v := range values {
		if pred(v) {
			return true
		}
	}
	return false
}

// Matcher is a compiled query. The title pattern is compiled and body
// alternatives are canonicalized once, so a Matcher gives the same answers as
// Query.Match without repeating that work per note.
type Matcher struct {
	hasTitle  bool
	title     *regexp.Regexp
	hasBodies bool
	bodies    map[string]struct{}
	hasIDs    bool
	ids       map[note.ID]struct{}
	tags      []string
}

// Compile prepares q for repeated matching.
func (q Query) Compile() *Matcher {
	m := &Matcher{}

	if q.Title != "" {
		m.hasTitle = true
		// An invalid pattern leaves title nil, which matches nothing.
		m.title, _ = regexp.Compile(q.Title)
	}

	if len(q.Bodies) > 0 {
		m.hasBodies = true
		m.bodies = make(map[string]struct{}, len(q.Bodies))
		for _, body := range q.Bodies {
			if canonical, err := paths.Canonicalize(body); err == nil {
				m.bodies[canonical] = struct{}{}
			}
		}
	}

	if len(q.IDs) > 0 {
		m.hasIDs = true
		m.ids = make(map[note.ID]struct{}, len(q.IDs))
		for _, raw := range q.IDs {
			if id, err := note.ParseID(raw); err == nil {
				m.ids[id] = struct{}{}
			}
		}
	}

	m.tags = note.NormalizeTags(q.Tags)
	return m
}

// Match reports whether n satisfies the compiled query.
func (m *Matcher) Match(n note.Note) bool {
	if m.hasTitle && (m.title == nil || !m.title.MatchString(n.Title)) {
		return false
	}
	if m.hasBodies {
		if _, ok := m.bodies[n.Body]; !ok {
			return false
		}
	}
	if m.hasIDs {
		if _, ok := m.ids[n.ID]; !ok {
			return false
		}
	}
	return n.FilterTags(m.tags)
}

// Filter returns the notes matching q, preserving input order.
func (q Query) Filter(notes []note.Note) []note.Note {
	m := q.Compile()
	var out []note.Note
	for _, n := range notes {
		if m.Match(n) {
			out = append(out, n)
		}
	}
	return out
}
