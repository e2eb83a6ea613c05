package auth

import (
	"sync"

	"github.com/aufaim/portfoliochat/internal/config"
	apierrors "github.com/aufaim/portfoliochat/internal/errors"
)

// CredentialStore persists the tokens of the current session
type CredentialStore interface {
	Load() (*config.Credentials, error)
	Save(creds *config.Credentials) error
	Delete() error
}

// FileStore keeps credentials in the config directory
type FileStore struct{}

func (FileStore) Load() (*config.Credentials, error)  { return config.LoadCredentials() }
func (FileStore) Save(creds *config.Credentials) error { return config.SaveCredentials(creds) }
func (FileStore) Delete() error                        { return config.DeleteCredentials() }

// MemoryStore keeps credentials in memory
type MemoryStore struct {
	mu    sync.RWMutex
	creds *config.Credentials
}

// NewMemoryStore creates a store holding creds (may be nil)
func NewMemoryStore(creds *config.Credentials) *MemoryStore {
	return &MemoryStore{creds: creds}
}

func (s *MemoryStore) Load() (*config.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil {
		return nil, apierrors.ErrLoginRequired
	}
	c := *s.creds
	return &c, nil
}

func (s *MemoryStore) Save(creds *config.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *creds
	s.creds = &c
	return nil
}

func (s *MemoryStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = nil
	return nil
}
