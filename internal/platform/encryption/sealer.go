// Package encryption seals the health book at rest with AES-256-GCM. The key
// is either given directly or derived from a passphrase with argon2id.
package encryption

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/argon2"
)

// Sealed payload layout:
//
//	magic | mode | [salt, passphrase mode only] | nonce | ciphertext
var magic = []byte("HBSEAL")

const (
	modeKey        byte = 1
	modePassphrase byte = 2

	keySize  = 32
	saltSize = 16

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

var (
	ErrNotSealed    = errors.New("encryption: data is not sealed")
	ErrModeMismatch = errors.New("encryption: data was sealed with a different kind of secret")
)

// Sealer encrypts and decrypts whole documents.
type Sealer struct {
	mode       byte
	aead       cipher.AEAD
	passphrase []byte
}

// NewSealer uses key, which must be 32 bytes, for every payload.
func NewSealer(key []byte) (*Sealer, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}
	return &Sealer{mode: modeKey, aead: aead}, nil
}

// NewPassphraseSealer derives a fresh key from passphrase and a random salt
// for every sealed payload.
func NewPassphraseSealer(passphrase string) (*Sealer, error) {
	if passphrase == "" {
		return nil, errors.New("encryption: empty passphrase")
	}
	return &Sealer{mode: modePassphrase, passphrase: []byte(passphrase)}, nil
}

// FromConfig builds a Sealer from a 64-character hex key or a passphrase.
// With neither set it returns nil, and the caller stores plaintext.
func FromConfig(hexKey, passphrase string, logger zerolog.Logger) (*Sealer, error) {
	switch {
	case hexKey != "" && passphrase != "":
		return nil, errors.New("encryption: set either ENCRYPTION_KEY or ENCRYPTION_PASSPHRASE, not both")
	case hexKey != "":
		key, err := hex.DecodeString(hexKey)
		if err != nil {
			return nil, fmt.Errorf("ENCRYPTION_KEY is not valid hex: %w", err)
		}
		if len(key) != keySize {
			return nil, fmt.Errorf("ENCRYPTION_KEY must be %d bytes (%d hex chars), got %d bytes", keySize, keySize*2, len(key))
		}
		logger.Info().Msg("at-rest encryption enabled (key)")
		return NewSealer(key)
	case passphrase != "":
		logger.Info().Msg("at-rest encryption enabled (passphrase)")
		return NewPassphraseSealer(passphrase)
	}
	logger.Warn().Msg("at-rest encryption disabled: no ENCRYPTION_KEY or ENCRYPTION_PASSPHRASE set")
	return nil, nil
}

// IsSealed reports whether data starts with the sealed payload header.
func IsSealed(data []byte) bool {
	return bytes.HasPrefix(data, magic)
}

func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	out := append([]byte{}, magic...)
	out = append(out, s.mode)

	aead := s.aead
	if s.mode == modePassphrase {
		salt := make([]byte, saltSize)
		if _, err := io.ReadFull(rand.Reader, salt); err != nil {
			return nil, fmt.Errorf("encrypt: generate salt: %w", err)
		}
		var err error
		if aead, err = s.derive(salt); err != nil {
			return nil, err
		}
		out = append(out, salt...)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("encrypt: generate nonce: %w", err)
	}
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plaintext, magic), nil
}

func (s *Sealer) Open(data []byte) ([]byte, error) {
	if !IsSealed(data) || len(data) < len(magic)+1 {
		return nil, ErrNotSealed
	}
	mode, rest := data[len(magic)], data[len(magic)+1:]
	if mode != s.mode {
		return nil, ErrModeMismatch
	}

	aead := s.aead
	if mode == modePassphrase {
		if len(rest) < saltSize {
			return nil, errors.New("decrypt: payload too short")
		}
		var err error
		if aead, err = s.derive(rest[:saltSize]); err != nil {
			return nil, err
		}
		rest = rest[saltSize:]
	}

	nonceSize := aead.NonceSize()
	if len(rest) < nonceSize {
		return nil, errors.New("decrypt: payload too short")
	}
	plaintext, err := aead.Open(nil, rest[:nonceSize], rest[nonceSize:], magic)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	return plaintext, nil
}

func (s *Sealer) derive(salt []byte) (cipher.AEAD, error) {
	return newAEAD(argon2.IDKey(s.passphrase, salt, argonTime, argonMemory, argonThreads, keySize))
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	if len(key) != keySize {
		return nil, fmt.Errorf("encryption: key must be %d bytes, got %d", keySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("encryption: create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("encryption: create GCM: %w", err)
	}
	return aead, nil
}
