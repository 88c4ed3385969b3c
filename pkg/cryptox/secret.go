package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrSecretTooShort is returned when a secret file holds fewer bytes than required.
var ErrSecretTooShort = errors.New("secret too short")

// LoadOrGenerateSecret reads a base64url secret from path. When the file does
// not exist a new secret of size random bytes is generated and written with
// mode 0600, creating parent directories as needed.
func LoadOrGenerateSecret(path string, size int) ([]byte, error) {
	path = filepath.Clean(path)

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		secret, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(string(raw)))
		if err != nil {
			return nil, fmt.Errorf("decode secret %s: %w", path, err)
		}
		if len(secret) < size {
			return nil, fmt.Errorf("%w: %s has %d bytes, need %d", ErrSecretTooShort, path, len(secret), size)
		}
		return secret, nil

	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return nil, err
		}
		secret := make([]byte, size)
		if _, err := rand.Read(secret); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, []byte(base64.RawURLEncoding.EncodeToString(secret)), 0600); err != nil {
			return nil, err
		}
		return secret, nil

	default:
		return nil, err
	}
}

var (
	pepperMu sync.RWMutex
	pepper   string
)

// LoadPepper loads (or creates) the password pepper file and installs it for
// HashPassword and VerifyPassword.
func LoadPepper(path string) error {
	secret, err := LoadOrGenerateSecret(path, keyLength)
	if err != nil {
		return fmt.Errorf("load pepper: %w", err)
	}
	SetPepper(base64.RawURLEncoding.EncodeToString(secret))
	return nil
}

// SetPepper installs the pepper directly. Tests use it to avoid touching disk.
func SetPepper(p string) {
	pepperMu.Lock()
	pepper = p
	pepperMu.Unlock()
}

func GetPepper() string {
	pepperMu.RLock()
	defer pepperMu.RUnlock()
	return pepper
}
