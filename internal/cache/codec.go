package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/aidanlsb/quill/internal/note"
	"github.com/aidanlsb/quill/internal/sqlutil"
)

// SchemaVersion is the on-disk cache layout version.
const SchemaVersion = "1"

var (
	// ErrNotExist indicates that no cache file exists yet.
	ErrNotExist = errors.New("no cache of notes exists yet")
	// ErrOpen indicates the cache file could not be opened.
	ErrOpen = errors.New("failed to open the notes cache")
	// ErrDecode indicates the cache file could not be read back as notes.
	ErrDecode = errors.New("failed to decode the notes cache")
	// ErrCreate indicates the cache file could not be created.
	ErrCreate = errors.New("failed to create the notes cache")
	// ErrEncode indicates the notes could not be written to the cache file.
	ErrEncode = errors.New("failed to encode the notes cache")
)

const schema = `
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS notes (
	id    TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	body  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS note_tags (
	note_id TEXT NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
	tag     TEXT NOT NULL,
	PRIMARY KEY (note_id, tag)
);
`

func openDB(location string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", location)
	if err != nil {
		return nil, err
	}
	// One connection keeps every statement inside the same transaction scope.
	db.SetMaxOpenConns(1)
	return db, nil
}

// Load reads every note from the cache at location.
func Load(location string) (*Cache, error) {
	if _, err := os.Stat(location); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotExist, location)
		}
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}

	db, err := openDB(location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}
	defer db.Close()

	if err := checkVersion(db); err != nil {
		return nil, err
	}

	rows, err := db.Query(`SELECT id, title, body FROM notes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	loaded, err := sqlutil.ScanRows(rows, scanNote)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	c := New()
	for _, n := range loaded {
		c.notes[n.ID] = n
	}

	if err := loadTags(db, c); err != nil {
		return nil, err
	}
	return c, nil
}

func checkVersion(db *sql.DB) error {
	var version string
	err := db.QueryRow(`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&version)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if version != SchemaVersion {
		return fmt.Errorf("%w: unsupported schema version %q", ErrDecode, version)
	}
	return nil
}

func scanNote(rows *sql.Rows) (note.Note, error) {
	var n note.Note
	var rawID string
	if err := rows.Scan(&rawID, &n.Title, &n.Body); err != nil {
		return n, err
	}
	id, err := note.ParseID(rawID)
	n.ID = id
	return n, err
}

type tagRow struct {
	id  note.ID
	tag string
}

func scanTag(rows *sql.Rows) (tagRow, error) {
	var r tagRow
	var rawID string
	if err := rows.Scan(&rawID, &r.tag); err != nil {
		return r, err
	}
	id, err := note.ParseID(rawID)
	r.id = id
	return r, err
}

func loadTags(db *sql.DB, c *Cache) error {
	// ORDER BY tag keeps each note's tag set sorted.
	rows, err := db.Query(`SELECT note_id, tag FROM note_tags ORDER BY note_id, tag`)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	tags, err := sqlutil.ScanRows(rows, scanTag)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}

	for _, r := range tags {
		n, ok := c.notes[r.id]
		if !ok {
			return fmt.Errorf("%w: tag %q references unknown note %s", ErrDecode, r.tag, r.id)
		}
		n.Tags = append(n.Tags, r.tag)
		c.notes[r.id] = n
	}
	return nil
}

// Save replaces the whole contents of the cache at location with c.
//
// The replacement runs in a single SQLite transaction, so a crash mid-save
// leaves the previous collection intact.
func Save(c *Cache, location string) error {
	if err := os.MkdirAll(filepath.Dir(location), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrCreate, err)
	}

	db, err := openDB(location)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCreate, err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("%w: %v", ErrCreate, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	defer tx.Rollback()

	if err := writeNotes(tx, c); err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	c.dirty = false
	return nil
}

func writeNotes(tx *sql.Tx, c *Cache) error {
	for _, stmt := range []string{`DELETE FROM note_tags`, `DELETE FROM notes`} {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, SchemaVersion); err != nil {
		return err
	}

	noteStmt, err := tx.Prepare(`INSERT INTO notes (id, title, body) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer noteStmt.Close()

	tagStmt, err := tx.Prepare(`INSERT INTO note_tags (note_id, tag) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer tagStmt.Close()

	for _, n := range c.Notes() {
		id := n.ID.String()
		if _, err := noteStmt.Exec(id, n.Title, n.Body); err != nil {
			return fmt.Errorf("insert note %s: %w", id, err)
		}
		for _, tag := range note.NormalizeTags(n.Tags) {
			if _, err := tagStmt.Exec(id, tag); err != nil {
				return fmt.Errorf("insert tag %q for note %s: %w", tag, id, err)
			}
		}
	}
	return nil
}
