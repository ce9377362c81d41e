package scholar

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const credentialSavedMessage = "API key saved successfully"

// CredentialStore holds the single provider credential.
//
// GetCredential never fails; it returns "" when no credential is stored.
// SetCredential rejects empty or whitespace-only tokens with KindInvalidCredential
// and leaves the stored value untouched in that case.
type CredentialStore interface {
	HasCredential() bool
	GetCredential() string
	SetCredential(token string) error
}

func normalizeCredential(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", &Failure{Kind: KindInvalidCredential, Message: "API key must not be empty"}
	}
	return token, nil
}

// MemoryCredentialStore keeps the credential for the lifetime of the process.
type MemoryCredentialStore struct {
	mu     sync.RWMutex
	token  string
	notify Notifier
}

// NewMemoryCredentialStore creates an empty in-memory store.
func NewMemoryCredentialStore(notify Notifier) *MemoryCredentialStore {
	return &MemoryCredentialStore{notify: notify}
}

func (s *MemoryCredentialStore) HasCredential() bool {
	return s.GetCredential() != ""
}

func (s *MemoryCredentialStore) GetCredential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *MemoryCredentialStore) SetCredential(token string) error {
	token, err := normalizeCredential(token)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	s.notify.emit(Event{Type: EventCredentialSaved, Message: credentialSavedMessage})
	return nil
}

// credentialFile is the on-disk format of FileCredentialStore.
type credentialFile struct {
	APIKey    string    `yaml:"apiKey"`
	UpdatedAt time.Time `yaml:"updatedAt"`
}

// FileCredentialStore persists the credential in a YAML file readable only by the owner.
type FileCredentialStore struct {
	path   string
	notify Notifier

	mu    sync.RWMutex
	token string
}

// NewFileCredentialStore opens (or lazily creates) the credential file at path.
func NewFileCredentialStore(path string, notify Notifier) (*FileCredentialStore, error) {
	s := &FileCredentialStore{path: path, notify: notify}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scholar: read credential file: %w", err)
	}
	var cf credentialFile
	if err := yaml.Unmarshal(raw, &cf); err != nil {
		return nil, fmt.Errorf("scholar: parse credential file: %w", err)
	}
	s.token = strings.TrimSpace(cf.APIKey)
	return s, nil
}

func (s *FileCredentialStore) HasCredential() bool {
	return s.GetCredential() != ""
}

func (s *FileCredentialStore) GetCredential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *FileCredentialStore) SetCredential(token string) error {
	token, err := normalizeCredential(token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(credentialFile{APIKey: token, UpdatedAt: time.Now().UTC()}); err != nil {
		return err
	}
	s.token = token
	s.notify.emit(Event{Type: EventCredentialSaved, Message: credentialSavedMessage})
	return nil
}

// write replaces the file atomically so a crash never leaves a truncated key behind.
func (s *FileCredentialStore) write(cf credentialFile) error {
	raw, err := yaml.Marshal(cf)
	if err != nil {
		return fmt.Errorf("scholar: encode credential file: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("scholar: create credential dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".credential-*")
	if err != nil {
		return fmt.Errorf("scholar: create temp credential file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("scholar: chmod credential file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("scholar: write credential file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("scholar: close credential file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("scholar: replace credential file: %w", err)
	}
	return nil
}

// maskCredential keeps the first and last four characters for log output.
func maskCredential(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
