package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog"

	"github.com/healthbook/healthbook/internal/model"
)

// JSONUserPrefsStorage keeps the user preferences in a small JSON file. It is
// never encrypted.
type JSONUserPrefsStorage struct {
	path string
}

func NewJSONUserPrefsStorage(path string) *JSONUserPrefsStorage {
	return &JSONUserPrefsStorage{path: path}
}

func (s *JSONUserPrefsStorage) Path() string { return s.path }

func (s *JSONUserPrefsStorage) ReadUserPrefs() (model.UserPrefs, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.UserPrefs{}, ErrNoData
	}
	if err != nil {
		return model.UserPrefs{}, fmt.Errorf("read %s: %w", s.path, err)
	}
	var prefs model.UserPrefs
	if err := json.Unmarshal(data, &prefs); err != nil {
		return model.UserPrefs{}, &DataConversionError{Location: s.path, Err: err}
	}
	return prefs, nil
}

func (s *JSONUserPrefsStorage) SaveUserPrefs(prefs model.UserPrefs) error {
	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode user prefs: %w", err)
	}
	return writeFileAtomic(s.path, data)
}

// LoadUserPrefs reads the preferences from s, falling back to defaults
// pointing at defaultPath when none are saved or they cannot be read.
func LoadUserPrefs(s UserPrefsStorage, defaultPath string, logger zerolog.Logger) model.UserPrefs {
	p, err := s.ReadUserPrefs()
	if err != nil {
		if !errors.Is(err, ErrNoData) {
			logger.Warn().Err(err).Msg("user prefs unreadable, using defaults")
		}
		return model.DefaultUserPrefs(defaultPath)
	}
	return p.Normalize(defaultPath)
}
