package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
)

const secretLength = 32

// LoadOrCreateSecret loads the token-signing secret from a file or generates
// one on first run. The secret is fixed for the lifetime of the file, so
// tokens stay verifiable across restarts.
func LoadOrCreateSecret(file string) ([]byte, error) {
	file = filepath.Clean(file)
	if err := os.MkdirAll(filepath.Dir(file), 0750); err != nil {
		return nil, fmt.Errorf("cryptox: create secret dir: %w", err)
	}

	if _, err := os.Stat(file); os.IsNotExist(err) {
		raw := make([]byte, secretLength)
		if _, err := rand.Read(raw); err != nil {
			return nil, fmt.Errorf("cryptox: generate secret: %w", err)
		}
		secret := []byte(base64.RawURLEncoding.EncodeToString(raw))

		if err := os.WriteFile(file, secret, 0600); err != nil {
			return nil, fmt.Errorf("cryptox: write secret file: %w", err)
		}
		return secret, nil
	}

	secret, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("cryptox: read secret file: %w", err)
	}
	if len(secret) == 0 {
		return nil, fmt.Errorf("cryptox: secret file %s is empty", file)
	}

	return secret, nil
}
