package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 32
	keySize    = 32
	iterations = 100000
)

// EncryptedFileStore implements CookieStore using an AES-GCM encrypted
// file. Used as a fallback when the system keychain is unavailable.
type EncryptedFileStore struct {
	filePath string
	password []byte
}

type encryptedData struct {
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// NewEncryptedFileStore creates a new encrypted file-based cookie store.
func NewEncryptedFileStore(filePath string) (*EncryptedFileStore, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &EncryptedFileStore{
		filePath: filePath,
		password: derivePassword(),
	}, nil
}

// derivePassword builds the encryption passphrase. An explicit vault
// key from the environment wins; otherwise it falls back to a
// machine-local derivation so the file at least isn't portable.
func derivePassword() []byte {
	if key := os.Getenv("TTSCRAPER_VAULT_KEY"); key != "" {
		return []byte(key)
	}

	hostname, _ := os.Hostname()
	home, _ := os.UserHomeDir()
	seed := fmt.Sprintf("ttscraper:%s:%s", hostname, home)
	sum := sha256.Sum256([]byte(seed))
	return sum[:]
}

// Store saves a cookie to the encrypted file.
func (e *EncryptedFileStore) Store(cred *Credential) error {
	if cred == nil || cred.Name == "" {
		return ErrInvalidCredential
	}

	creds, err := e.load()
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if creds == nil {
		creds = make(map[string]*Credential)
	}

	creds[cred.Name] = cred
	return e.save(creds)
}

// Retrieve gets a cookie from the encrypted file.
func (e *EncryptedFileStore) Retrieve(name string) (*Credential, error) {
	if name == "" {
		return nil, ErrInvalidCredential
	}

	creds, err := e.load()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCredentialNotFound
		}
		return nil, err
	}

	cred, ok := creds[name]
	if !ok {
		return nil, ErrCredentialNotFound
	}
	return cred, nil
}

// Delete removes a cookie from the encrypted file.
func (e *EncryptedFileStore) Delete(name string) error {
	if name == "" {
		return ErrInvalidCredential
	}

	creds, err := e.load()
	if err != nil {
		if os.IsNotExist(err) {
			return ErrCredentialNotFound
		}
		return err
	}

	if _, ok := creds[name]; !ok {
		return ErrCredentialNotFound
	}
	delete(creds, name)

	if len(creds) == 0 {
		return os.Remove(e.filePath)
	}
	return e.save(creds)
}

// Exists checks whether a cookie is stored under the given name.
func (e *EncryptedFileStore) Exists(name string) bool {
	creds, err := e.load()
	if err != nil {
		return false
	}
	_, ok := creds[name]
	return ok
}

func (e *EncryptedFileStore) save(creds map[string]*Credential) error {
	plaintext, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	key := pbkdf2.Key(e.password, salt, iterations, keySize, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	envelope := encryptedData{
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: gcm.Seal(nil, nonce, plaintext, nil),
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	return os.WriteFile(e.filePath, data, 0600)
}

func (e *EncryptedFileStore) load() (map[string]*Credential, error) {
	data, err := os.ReadFile(e.filePath)
	if err != nil {
		return nil, err
	}

	var envelope encryptedData
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal envelope: %w", err)
	}

	key := pbkdf2.Key(e.password, envelope.Salt, iterations, keySize, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	plaintext, err := gcm.Open(nil, envelope.Nonce, envelope.Ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}

	var creds map[string]*Credential
	if err := json.Unmarshal(plaintext, &creds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credentials: %w", err)
	}
	return creds, nil
}
