package tokenstore

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const credentialsFileName = "credentials.json"

// FileStore persists the credential pair as a JSON file in a data folder,
// surviving process restarts. Tokens are secrets so the file is 0600.
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

func NewFileStore(dataFolder string) *FileStore {
	return &FileStore{path: filepath.Join(dataFolder, credentialsFileName)}
}

func (s *FileStore) Set(creds Credentials) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "[FileStore.Set] MkdirAll")
	}
	payload, err := json.Marshal(creds)
	if err != nil {
		return errors.Wrap(err, "[FileStore.Set] Marshal")
	}
	if err := os.WriteFile(s.path, payload, 0o600); err != nil {
		return errors.Wrap(err, "[FileStore.Set] WriteFile")
	}
	return nil
}

func (s *FileStore) Get() (Credentials, bool, error) {
	payload, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return Credentials{}, false, nil
	}
	if err != nil {
		return Credentials{}, false, errors.Wrap(err, "[FileStore.Get] ReadFile")
	}

	var creds Credentials
	if err := json.Unmarshal(payload, &creds); err != nil {
		// An unreadable file cannot restore a session; discard it
		_ = s.Clear()
		return Credentials{}, false, nil
	}

	if creds.AccessToken == "" {
		// Half-present pairs violate the two-token invariant; clear them
		if creds.RefreshToken != "" {
			_ = s.Clear()
		}
		return Credentials{}, false, nil
	}
	if creds.RefreshToken == "" {
		_ = s.Clear()
		return Credentials{}, false, nil
	}
	return creds, true, nil
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[FileStore.Clear] Remove")
	}
	return nil
}
