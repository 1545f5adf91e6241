package store

import (
	"crypto/md5" //nolint:gosec // offline identities follow the game's name-based UUID scheme
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.trai.ch/quarry/internal/core/domain"
	"go.trai.ch/zerr"
)

// ErrEmptyUsername is returned when logging in without a username.
var ErrEmptyUsername = errors.New("username must not be empty")

// Sessions implements ports.SessionStore on session.json.
type Sessions struct {
	path string

	mu      sync.Mutex
	current *domain.Session
}

// LoadSessions reads the session file at path. A missing file means nobody is logged in.
func LoadSessions(path string) (*Sessions, error) {
	var s domain.Session
	ok, err := readJSON(path, &s)
	if err != nil {
		return nil, err
	}

	store := &Sessions{path: path}
	if ok && s.Username != "" {
		if _, err := uuid.Parse(s.UUID); err != nil {
			s.UUID = ""
		}
		store.current = &s
	}
	return store, nil
}

// Current returns the persisted session.
func (s *Sessions) Current() (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return domain.Session{}, false
	}
	return *s.current, true
}

// Login persists an offline session for username.
func (s *Sessions) Login(username string) (domain.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.Session{}, ErrEmptyUsername
	}

	session := domain.Session{
		Username: username,
		UUID:     OfflineUUID(username),
		Offline:  true,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := writeJSON(s.path, session, domain.PrivateFilePerm); err != nil {
		return domain.Session{}, err
	}
	s.current = &session
	return session, nil
}

// Logout forgets the session and deletes its file.
func (s *Sessions) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", s.path)
	}
	return nil
}

// OfflineUUID returns the name-based version 3 UUID the game derives for
// offline players from "OfflinePlayer:<username>".
func OfflineUUID(username string) string {
	sum := md5.Sum([]byte("OfflinePlayer:" + username)) //nolint:gosec // see import
	sum[6] = (sum[6] & 0x0f) | 0x30
	sum[8] = (sum[8] & 0x3f) | 0x80
	return uuid.UUID(sum).String()
}
