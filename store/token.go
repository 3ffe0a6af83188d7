package store

import (
	"os"
	"path/filepath"
	"strings"
)

// SaveToken persists the bearer token so a restart does not force a new
// login. The file is private to the user.
func SaveToken(token string) error {
	path, err := configPath("token")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strings.TrimSpace(token)), 0o600)
}

// LoadToken returns the saved token, or "" when none exists.
func LoadToken() (string, error) {
	path, err := configPath("token")
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func ClearToken() error {
	path, err := configPath("token")
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
