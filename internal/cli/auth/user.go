package auth

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// lastLoginPath returns the full path to the file storing last successful login name.
func lastLoginPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "last_login"), nil
}

// SaveLastLogin stores the provided login as the current user context for the CLI.
func SaveLastLogin(login string) error {
	if login == "" {
		return errors.New("empty login")
	}
	p, err := lastLoginPath()
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(login), 0o600)
}

// LoadLastLogin returns last stored login.
func LoadLastLogin() (string, error) {
	p, err := lastLoginPath()
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	login := strings.TrimRight(string(b), "\r\n ")
	if login == "" {
		return "", errors.New("no stored login")
	}
	return login, nil
}
