// Package auth stores the TikTok Cookie header value between runs.
// Cookies meaningfully improve extraction odds in geo-blocked regions,
// so they are worth keeping, but they are session credentials and never
// belong in plain text. Storage falls back keychain → encrypted file →
// environment.
package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

var (
	ErrInvalidCredential  = errors.New("invalid credential")
	ErrCredentialNotFound = errors.New("credential not found")
	ErrStoreUnavailable   = errors.New("credential store unavailable")
)

// Credential is a named stored cookie.
type Credential struct {
	Name         string    `json:"name"`
	Cookie       string    `json:"cookie"`
	UserAgent    string    `json:"user_agent,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// CookieStore is the interface for storing and retrieving cookies.
type CookieStore interface {
	Store(cred *Credential) error
	Retrieve(name string) (*Credential, error)
	Delete(name string) error
	Exists(name string) bool
}

// Manager handles cookie storage with fallback mechanisms.
type Manager struct {
	stores []CookieStore
}

// NewManager creates a manager with the available storage backends in
// preference order.
func NewManager() (*Manager, error) {
	var stores []CookieStore

	// Keyring first (system keychain), when the platform supports it.
	if keyringStore, err := NewKeyringStore(); err == nil {
		stores = append(stores, keyringStore)
	}

	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	encryptedStore, err := NewEncryptedFileStore(filepath.Join(configDir, "cookies.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, encryptedStore)

	stores = append(stores, NewEnvironmentStore())

	return &Manager{stores: stores}, nil
}

// Store saves a cookie using the first store that accepts it.
func (m *Manager) Store(cred *Credential) error {
	if cred.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidCredential)
	}
	if cred.Cookie == "" {
		return fmt.Errorf("%w: cookie is required", ErrInvalidCredential)
	}

	cred.LastModified = time.Now()

	var lastErr error
	for _, store := range m.stores {
		if err := store.Store(cred); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}

	if lastErr != nil {
		return fmt.Errorf("failed to store cookie: %w", lastErr)
	}
	return ErrStoreUnavailable
}

// Retrieve gets a cookie from the first store that has it.
func (m *Manager) Retrieve(name string) (*Credential, error) {
	for _, store := range m.stores {
		if cred, err := store.Retrieve(name); err == nil && cred != nil {
			return cred, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrCredentialNotFound, name)
}

// RetrieveDefault gets the default cookie, preferring the environment
// for one-off overrides.
func (m *Manager) RetrieveDefault() (*Credential, error) {
	if envStore, ok := m.stores[len(m.stores)-1].(*EnvironmentStore); ok {
		if cred, err := envStore.Retrieve(""); err == nil && cred != nil {
			return cred, nil
		}
	}
	return m.Retrieve("default")
}

// Delete removes a cookie from every store that has it.
func (m *Manager) Delete(name string) error {
	found := false
	for _, store := range m.stores {
		if store.Exists(name) {
			if err := store.Delete(name); err != nil {
				return err
			}
			found = true
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrCredentialNotFound, name)
	}
	return nil
}

// getConfigDir returns the per-user config directory for the scraper.
func getConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	dir := filepath.Join(base, "ttscraper")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return dir, nil
}
