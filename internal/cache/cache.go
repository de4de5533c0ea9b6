// Package cache persists the full set of notes.
//
// The cache is read and written as a whole: callers load every note, mutate the
// in-memory Cache, and save it back. Store wraps that cycle in a locked
// transaction so the read-modify-write happens against one consistent snapshot.
package cache

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/aidanlsb/quill/internal/note"
)

// maxIDAttempts bounds id regeneration on collision. With 64-bit random ids a
// second attempt is already vanishingly rare.
const maxIDAttempts = 16

// ErrIDExhausted indicates that no free id could be drawn.
var ErrIDExhausted = errors.New("could not allocate a unique note id")

// IDSource draws random id candidates.
type IDSource func() uint64

// RandomIDs draws ids from the process-wide random source.
func RandomIDs() uint64 {
	return rand.Uint64()
}

// Cache is the in-memory mapping from id to note.
type Cache struct {
	notes map[note.ID]note.Note
	dirty bool
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{notes: make(map[note.ID]note.Note)}
}

// Len returns the number of notes.
func (c *Cache) Len() int {
	return len(c.notes)
}

// Get returns the note with id.
func (c *Cache) Get(id note.ID) (note.Note, bool) {
	n, ok := c.notes[id]
	if !ok {
		return note.Note{}, false
	}
	return n.Clone(), true
}

// Has reports whether a note with id exists.
func (c *Cache) Has(id note.ID) bool {
	_, ok := c.notes[id]
	return ok
}

// Put inserts or replaces the note keyed by n.ID.
func (c *Cache) Put(n note.Note) {
	c.notes[n.ID] = n.Clone()
	c.dirty = true
}

// Delete removes the note with id and reports whether it existed.
func (c *Cache) Delete(id note.ID) bool {
	if _, ok := c.notes[id]; !ok {
		return false
	}
	delete(c.notes, id)
	c.dirty = true
	return true
}

// Dirty reports whether the cache was modified since it was loaded.
func (c *Cache) Dirty() bool {
	return c.dirty
}

// Notes returns copies of all notes in ascending id order.
func (c *Cache) Notes() []note.Note {
	out := make([]note.Note, 0, len(c.notes))
	for _, n := range c.notes {
		out = append(out, n.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// NewID draws a random id not yet used in the cache. Random assignment can
// collide; a colliding candidate is discarded and another one drawn.
func (c *Cache) NewID(src IDSource) (note.ID, error) {
	if src == nil {
		src = RandomIDs
	}
	for i := 0; i < maxIDAttempts; i++ {
		id := note.ID(src())
		if !c.Has(id) {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w after %d attempts", ErrIDExhausted, maxIDAttempts)
}
