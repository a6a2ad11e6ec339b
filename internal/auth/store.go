package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Credential names used across the application.
const (
	SlackUserToken = "SLACK_USER_TOKEN"
	XAIAPIKey      = "XAI_API_KEY"
	OpenAIAPIKey   = "OPENAI_API_KEY"
)

// Store reads and writes named credentials. Lookups check the process
// environment first and fall back to a JSON file on disk, so a credential
// set either way resolves to the same value. An absent credential is not
// an error; Get returns the empty string and callers decide whether that
// is fatal for their operation.
type Store struct {
	path string
}

// NewStore creates a Store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the path to the credentials file (~/.repharsely/credentials.json).
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".repharsely", "credentials.json"), nil
}

// DefaultStore returns a Store backed by the default credentials file.
func DefaultStore() (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return NewStore(path), nil
}

// Get returns the credential with the given name, checking the environment
// first, then the stored file. Returns "" when the credential is absent.
func (s *Store) Get(name string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	creds, err := s.load()
	if err != nil {
		return ""
	}
	return creds[name]
}

// Set persists the credential with restricted permissions.
func (s *Store) Set(name, value string) error {
	creds, err := s.load()
	if err != nil {
		return err
	}
	creds[name] = value
	return s.save(creds)
}

// Delete removes the named credential from the stored file. Deleting a
// credential that is not stored is not an error.
func (s *Store) Delete(name string) error {
	creds, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := creds[name]; !ok {
		return nil
	}
	delete(creds, name)
	return s.save(creds)
}

// Names returns the names of all stored credentials, sorted.
func (s *Store) Names() ([]string, error) {
	creds, err := s.load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(creds))
	for name := range creds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// load reads the credentials file. Returns an empty map if the file
// doesn't exist.
func (s *Store) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	creds := map[string]string{}
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}
	return creds, nil
}

// save writes the credentials file with restricted permissions.
func (s *Store) save(creds map[string]string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating credentials directory: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling credentials: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}
