package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/healthbook/healthbook/internal/domain/healthbook"
	"github.com/healthbook/healthbook/internal/platform/encryption"
)

// ErrSealedWithoutKey is returned when the data file is encrypted and no
// ENCRYPTION_KEY or ENCRYPTION_PASSPHRASE was configured.
var ErrSealedWithoutKey = errors.New("storage: data file is encrypted but no encryption secret is configured")

// JSONHealthBookStorage keeps the health book in one JSON file. With a Sealer
// the file is encrypted; plaintext files written before encryption was turned
// on are still read.
type JSONHealthBookStorage struct {
	path   string
	sealer *encryption.Sealer
}

func NewJSONHealthBookStorage(path string, sealer *encryption.Sealer) *JSONHealthBookStorage {
	return &JSONHealthBookStorage{path: path, sealer: sealer}
}

func (s *JSONHealthBookStorage) Location() string { return s.path }

func (s *JSONHealthBookStorage) ReadHealthBook(ctx context.Context) (*healthbook.HealthBook, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	if encryption.IsSealed(data) {
		if s.sealer == nil {
			return nil, ErrSealedWithoutKey
		}
		if data, err = s.sealer.Open(data); err != nil {
			return nil, &DataConversionError{Location: s.path, Err: err}
		}
	}

	b, err := decodeHealthBook(data)
	if err != nil {
		return nil, &DataConversionError{Location: s.path, Err: err}
	}
	return b, nil
}

// SaveHealthBook writes to a temporary file next to the target and renames it
// over the target, so a crash never leaves a half-written file behind.
func (s *JSONHealthBookStorage) SaveHealthBook(ctx context.Context, b *healthbook.HealthBook) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encodeHealthBook(b)
	if err != nil {
		return fmt.Errorf("encode health book: %w", err)
	}
	if s.sealer != nil {
		if data, err = s.sealer.Seal(data); err != nil {
			return fmt.Errorf("seal health book: %w", err)
		}
	}
	return writeFileAtomic(s.path, data)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
