package auth

import (
	"os"
	"time"
)

// EnvironmentStore implements CookieStore by reading the cookie from
// environment variables. It is read-only: Store and Delete report the
// store unavailable so the manager falls through to a writable backend.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based cookie store.
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported; the environment cannot be written.
func (e *EnvironmentStore) Store(cred *Credential) error {
	return ErrStoreUnavailable
}

// Retrieve reads the cookie from TTSCRAPER_COOKIE. The name is ignored
// since the environment holds at most one cookie.
func (e *EnvironmentStore) Retrieve(name string) (*Credential, error) {
	cookie := os.Getenv("TTSCRAPER_COOKIE")
	if cookie == "" {
		return nil, ErrCredentialNotFound
	}

	return &Credential{
		Name:         "default",
		Cookie:       cookie,
		UserAgent:    os.Getenv("TTSCRAPER_USER_AGENT"),
		LastModified: time.Now(),
	}, nil
}

// Delete is not supported.
func (e *EnvironmentStore) Delete(name string) error {
	return ErrStoreUnavailable
}

// Exists checks whether TTSCRAPER_COOKIE is set.
func (e *EnvironmentStore) Exists(name string) bool {
	return os.Getenv("TTSCRAPER_COOKIE") != ""
}
