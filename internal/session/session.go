// Package session holds the bearer token the backend issued at login. The
// client never inspects or expires the token; the backend's acceptance of a
// request is the only validity check.
package session

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Storage persists a token between runs. Injectable so tests and the plain
// commands can run without touching the user's real token file.
type Storage interface {
	Read() (string, error)
	Write(token string) error
	Clear() error
}

// FileStorage keeps the token in a single file, readable by the owner only.
type FileStorage struct {
	path string
}

// NewFileStorage returns storage backed by the given file path.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Read returns the stored token, or empty when none has been saved.
func (s *FileStorage) Read() (string, error) {
	bytes, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "reading token file")
	}
	return strings.TrimSpace(string(bytes)), nil
}

// Write saves the token.
func (s *FileStorage) Write(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrap(err, "creating token directory")
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0600); err != nil {
		return errors.Wrap(err, "writing token file")
	}
	return nil
}

// Clear removes the token file.
func (s *FileStorage) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing token file")
	}
	return nil
}

// MemoryStorage is an in-memory Storage for tests.
type MemoryStorage struct {
	mu    sync.Mutex
	token string
}

func (s *MemoryStorage) Read() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryStorage) Write(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStorage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// Store caches the token in memory on top of a Storage backend.
type Store struct {
	mu      sync.Mutex
	storage Storage
	token   string
	loaded  bool
}

// NewStore returns a Store reading from and writing through the given backend.
func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

// Token returns the current bearer token, or empty when logged out. A storage
// read failure is treated as "no token": every caller already handles the
// unauthenticated case.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		token, err := s.storage.Read()
		if err == nil {
			s.token = token
		}
		s.loaded = true
	}
	return s.token
}

// SetToken stores a freshly issued token.
func (s *Store) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.Write(token); err != nil {
		return err
	}
	s.token = token
	s.loaded = true
	return nil
}

// Clear forgets the token (logout).
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.Clear(); err != nil {
		return err
	}
	s.token = ""
	s.loaded = true
	return nil
}

// Authenticated reports whether a token is present.
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}
