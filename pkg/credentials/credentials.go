// Package credentials persists the CLI session token between runs in
// <home>/.contactmanager/credentials.json.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"contactmanager/client"
)

type Credentials struct {
	Token string `json:"token"`
}

// DefaultPath returns <home>/.contactmanager/credentials.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".contactmanager", "credentials.json"), nil
}

// FileStore keeps the token in a single JSON file readable only by its owner.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load returns the stored session. A missing file is an empty session.
func (f *FileStore) Load() (client.Session, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return client.Session{}, nil
		}
		return client.Session{}, err
	}
	var c Credentials
	if err := json.Unmarshal(b, &c); err != nil {
		return client.Session{}, fmt.Errorf("credentials: parse %s: %w", f.Path, err)
	}
	return client.Session{Token: c.Token}, nil
}

func (f *FileStore) Save(s client.Session) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(Credentials{Token: s.Token}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.Path, b, 0o600)
}

// Clear removes the stored token. Clearing an absent file is not an error.
func (f *FileStore) Clear() error {
	err := os.Remove(f.Path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
