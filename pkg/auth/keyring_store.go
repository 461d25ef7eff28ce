package auth

import (
	"encoding/json"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "ttscraper"
	keyringPrefix  = "tiktok_cookie_"
)

// KeyringStore implements CookieStore using the system keychain.
type KeyringStore struct{}

// NewKeyringStore creates a new keyring-based cookie store.
func NewKeyringStore() (*KeyringStore, error) {
	// Probe availability: headless systems often have no keychain.
	testKey := "test_availability"
	if err := keyring.Set(keyringService, testKey, "test"); err != nil {
		return nil, fmt.Errorf("keyring not available: %w", err)
	}
	_ = keyring.Delete(keyringService, testKey)

	return &KeyringStore{}, nil
}

// Store saves a cookie to the system keychain.
func (k *KeyringStore) Store(cred *Credential) error {
	if cred == nil || cred.Name == "" {
		return ErrInvalidCredential
	}

	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}

	if err := keyring.Set(keyringService, keyringPrefix+cred.Name, string(data)); err != nil {
		return fmt.Errorf("failed to store in keyring: %w", err)
	}

	return nil
}

// Retrieve gets a cookie from the system keychain.
func (k *KeyringStore) Retrieve(name string) (*Credential, error) {
	if name == "" {
		return nil, ErrInvalidCredential
	}

	data, err := keyring.Get(keyringService, keyringPrefix+name)
	if err != nil {
		if err == keyring.ErrNotFound {
			return nil, ErrCredentialNotFound
		}
		return nil, fmt.Errorf("failed to retrieve from keyring: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal([]byte(data), &cred); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credential: %w", err)
	}

	return &cred, nil
}

// Delete removes a cookie from the keychain.
func (k *KeyringStore) Delete(name string) error {
	if name == "" {
		return ErrInvalidCredential
	}
	if err := keyring.Delete(keyringService, keyringPrefix+name); err != nil {
		if err == keyring.ErrNotFound {
			return ErrCredentialNotFound
		}
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}
	return nil
}

// Exists checks whether a cookie is stored under the given name.
func (k *KeyringStore) Exists(name string) bool {
	_, err := keyring.Get(keyringService, keyringPrefix+name)
	return err == nil
}
