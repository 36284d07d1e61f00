// Package astrocrypt keeps configuration secrets sealed at rest.
//
// A sealed value has the form "gcm1:<base64url>" and is bound to a label,
// normally the env key it is stored under. It only opens with the same key
// and the same label, so a sealed value copied into another variable fails
// instead of leaking into the wrong setting.
package astrocrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const sealedPrefix = "gcm1:"

var (
	ErrMissingKey       = errors.New("secret key is missing")
	ErrInvalidKeyLength = errors.New("secret key must be 16, 24, or 32 bytes")
	ErrNotSealed        = errors.New("value is not sealed")
	ErrInvalidData      = errors.New("sealed value is corrupt")
	ErrWrongKeyOrLabel  = errors.New("sealed value does not open with this key and label")
)

var encoding = base64.RawURLEncoding

type Service struct {
	aead cipher.AEAD
}

// NewService picks AES-128, AES-192 or AES-256 from the key length.
func NewService(key []byte) (*Service, error) {
	switch len(key) {
	case 0:
		return nil, ErrMissingKey
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: got %d", ErrInvalidKeyLength, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Service{aead: aead}, nil
}

// IsSealed reports whether v carries the sealed-value prefix.
func IsSealed(v string) bool {
	return strings.HasPrefix(v, sealedPrefix)
}

// Seal encrypts plaintext with label as additional authenticated data.
func (s *Service) Seal(label, plaintext string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("read nonce: %w", err)
	}
	out := s.aead.Seal(nonce, nonce, []byte(plaintext), []byte(label))
	return sealedPrefix + encoding.EncodeToString(out), nil
}

// Open reverses Seal. A malformed value wraps ErrNotSealed or
// ErrInvalidData; a well-formed value under another key or label wraps
// ErrWrongKeyOrLabel.
func (s *Service) Open(label, sealed string) (string, error) {
	body, ok := strings.CutPrefix(sealed, sealedPrefix)
	if !ok {
		return "", ErrNotSealed
	}

	data, err := encoding.DecodeString(body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	n := s.aead.NonceSize()
	if len(data) < n+s.aead.Overhead() {
		return "", fmt.Errorf("%w: %d bytes, need at least %d", ErrInvalidData, len(data), n+s.aead.Overhead())
	}

	plain, err := s.aead.Open(nil, data[:n], data[n:], []byte(label))
	if err != nil {
		return "", fmt.Errorf("%w (label %q): %w", ErrWrongKeyOrLabel, label, err)
	}
	return string(plain), nil
}
