package client

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/juangracia/booking-mvp-case-study/internal/core/domain"
)

// Session is an authenticated identity plus the bearer token proving it.
type Session struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Storage persists a session across process restarts. Token and identity are
// a single unit: Save writes both, Clear removes both, and Load never
// returns one without the other.
type Storage interface {
	Load() (*Session, error)
	Save(Session) error
	Clear() error
}

// FileStorage keeps the session as a JSON file, created with 0600 since it
// holds a bearer token.
type FileStorage struct {
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (f *FileStorage) Load() (*Session, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, err
	}
	if sess.Token == "" || sess.User.ID == "" {
		return nil, errors.New("stored session is incomplete")
	}
	return &sess, nil
}

func (f *FileStorage) Save(sess Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(f.path, raw, 0o600)
}

func (f *FileStorage) Clear() error {
	err := os.Remove(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// SessionStore is the single authority on authentication state. It is either
// anonymous or holds exactly one session, and it keeps its in-memory state
// and the durable Storage in agreement on every transition.
type SessionStore struct {
	mu        sync.RWMutex
	storage   Storage
	session   *Session
	restored  bool
	observers []func()
	log       zerolog.Logger
}

func NewSessionStore(storage Storage, log zerolog.Logger) *SessionStore {
	return &SessionStore{storage: storage, log: log}
}

// Restore loads the persisted session, once. Anything short of a complete,
// well-formed record yields anonymous: a broken session file is cleared, not
// reported, so a corrupt disk state can never wedge startup.
func (s *SessionStore) Restore() {
	s.mu.Lock()
	if s.restored {
		s.mu.Unlock()
		return
	}
	s.restored = true

	sess, err := s.storage.Load()
	if err != nil {
		s.log.Warn().Err(err).Msg("discarding unreadable stored session")
		if cerr := s.storage.Clear(); cerr != nil {
			s.log.Warn().Err(cerr).Msg("clearing stored session failed")
		}
		s.mu.Unlock()
		s.notify()
		return
	}
	s.session = sess
	s.mu.Unlock()
	s.notify()
}

// Restored reports whether Restore has completed. Callers that decide based
// on authentication state must not do so before this is true.
func (s *SessionStore) Restored() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.restored
}

// Current returns the active session, or false when anonymous.
func (s *SessionStore) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return Session{}, false
	}
	return *s.session, true
}

func (s *SessionStore) Authenticated() bool {
	_, ok := s.Current()
	return ok
}

func (s *SessionStore) IsAdmin() bool {
	sess, ok := s.Current()
	return ok && sess.User.IsAdmin()
}

// Establish makes sess the active session. The durable write happens first:
// if it fails the store stays as it was, so memory and disk never disagree.
func (s *SessionStore) Establish(sess Session) error {
	s.mu.Lock()
	if err := s.storage.Save(sess); err != nil {
		s.mu.Unlock()
		return err
	}
	s.session = &sess
	s.restored = true
	s.mu.Unlock()
	s.notify()
	return nil
}

// Clear drops the session from memory and storage. Memory is cleared even if
// the durable delete fails; a leftover file is reported so the caller can
// retry, while the process itself is anonymous immediately.
func (s *SessionStore) Clear() error {
	s.mu.Lock()
	s.session = nil
	s.restored = true
	err := s.storage.Clear()
	s.mu.Unlock()
	s.notify()
	return err
}

// Subscribe registers fn to run after every state transition. Callbacks run
// outside the store lock.
func (s *SessionStore) Subscribe(fn func()) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

func (s *SessionStore) notify() {
	s.mu.RLock()
	obs := make([]func(), len(s.observers))
	copy(obs, s.observers)
	s.mu.RUnlock()
	for _, fn := range obs {
		fn()
	}
}
