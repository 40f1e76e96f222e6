package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrEmptySecret is returned when a secret file holds nothing but
// whitespace.
var ErrEmptySecret = errors.New("config: secret file is empty")

// resolveSecret settles c.Secret from, in order: the file named by
// WECOM_SECRET_FILE, WECOM_SECRET, the file named by secret_file, and the
// inline secret. A named file that cannot be read is an error rather than a
// silent fallback.
func (c *Config) resolveSecret() error {
	if path := strings.TrimSpace(os.Getenv(KeySecretFile)); path != "" {
		secret, err := readSecretFile(KeySecretFile, path)
		if err != nil {
			return err
		}
		c.Secret = secret
		return nil
	}
	if secret := strings.TrimSpace(os.Getenv(KeySecret)); secret != "" {
		c.Secret = secret
		return nil
	}
	if path := strings.TrimSpace(c.SecretFile); path != "" {
		secret, err := readSecretFile("secret_file", path)
		if err != nil {
			return err
		}
		c.Secret = secret
	}
	return nil
}

func readSecretFile(source, path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("config: %s: %w", source, err)
	}
	secret := strings.TrimSpace(string(b))
	if secret == "" {
		return "", fmt.Errorf("%w: %s=%s", ErrEmptySecret, source, path)
	}
	return secret, nil
}
