package cache

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// ErrLocked indicates another invocation holds the cache lock.
var ErrLocked = errors.New("the notes cache is in use by another process")

// MissingPolicy decides what Update does when no cache file exists yet.
type MissingPolicy int

const (
	// MissingError fails with ErrNotExist.
	MissingError MissingPolicy = iota
	// MissingEmpty starts from an empty cache.
	MissingEmpty
)

// Store runs read-modify-write transactions against the cache file at
// Location.
//
// Each transaction holds an advisory lock on "<Location>.lock" so that two
// concurrent invocations cannot interleave their load and save; the second
// one fails fast with ErrLocked rather than silently discarding the first
// one's changes.
type Store struct {
	Location string
	Logger   *slog.Logger
}

// NewStore returns a Store for the cache file at location.
func NewStore(location string, logger *slog.Logger) *Store {
	return &Store{Location: location, Logger: logger}
}

func (s *Store) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s.Logger
}

// View loads the cache under a shared lock and passes it to fn. Changes fn
// makes are discarded.
func (s *Store) View(fn func(c *Cache) error) error {
	if _, err := os.Stat(s.Location); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotExist, s.Location)
	}

	lock, err := s.acquire(false)
	if err != nil {
		return err
	}
	defer lock.Release()

	c, err := Load(s.Location)
	if err != nil {
		return err
	}
	s.logger().Debug("cache loaded", slog.String("location", s.Location), slog.Int("notes", c.Len()))
	return fn(c)
}

// Update loads the cache under an exclusive lock, passes it to fn and saves
// it afterwards. Nothing is written when fn returns an error or leaves the
// cache unmodified.
func (s *Store) Update(missing MissingPolicy, fn func(c *Cache) error) error {
	lock, err := s.acquire(true)
	if err != nil {
		return err
	}
	defer lock.Release()

	c, err := Load(s.Location)
	if errors.Is(err, ErrNotExist) && missing == MissingEmpty {
		s.logger().Debug("starting a new cache", slog.String("location", s.Location))
		c, err = New(), nil
	}
	if err != nil {
		return err
	}

	if err := fn(c); err != nil {
		return err
	}
	if !c.Dirty() {
		s.logger().Debug("cache unchanged, skipping save", slog.String("location", s.Location))
		return nil
	}

	if err := Save(c, s.Location); err != nil {
		return err
	}
	s.logger().Debug("cache saved", slog.String("location", s.Location), slog.Int("notes", c.Len()))
	return nil
}

// LockPath returns the advisory lock file guarding the cache at location.
func LockPath(location string) string {
	return location + ".lock"
}

type cacheLock struct {
	file *os.File
}

func (s *Store) acquire(exclusive bool) (*cacheLock, error) {
	if err := os.MkdirAll(filepath.Dir(s.Location), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreate, err)
	}

	lockFile, err := os.OpenFile(LockPath(s.Location), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache lock: %w", err)
	}

	if err := lockFileNonBlocking(lockFile, exclusive); err != nil {
		lockFile.Close()
		if isWouldBlockError(err) {
			return nil, ErrLocked
		}
		return nil, fmt.Errorf("failed to acquire cache lock: %w", err)
	}

	return &cacheLock{file: lockFile}, nil
}

func (l *cacheLock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	unlockErr := unlockFile(l.file)
	closeErr := l.file.Close()
	if unlockErr != nil {
		return unlockErr
	}
	return closeErr
}
