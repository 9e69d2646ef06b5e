// Package leads captures customer contact details from chat traffic into an
// encrypted, append-only archive.
package leads

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// Cipher seals lead records with AES-256-GCM. Each sealed record is one
// base64 line carrying the nonce and ciphertext.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher builds a cipher from a base64-encoded 32-byte key.
func NewCipher(encodedKey string) (*Cipher, error) {
	key, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("leads: decode encryption key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("leads: encryption key must be 32 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("leads: init cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("leads: init gcm: %w", err)
	}
	return &Cipher{aead: aead}, nil
}

// GenerateKey returns a fresh base64-encoded key suitable for NewCipher.
func GenerateKey() (string, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("leads: generate key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

// Seal encrypts plaintext into a single base64 line.
func (c *Cipher) Seal(plaintext []byte) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("leads: generate nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts one line produced by Seal.
func (c *Cipher) Open(line string) ([]byte, error) {
	sealed, err := base64.StdEncoding.DecodeString(line)
	if err != nil {
		return nil, fmt.Errorf("leads: decode record: %w", err)
	}
	if len(sealed) < c.aead.NonceSize() {
		return nil, errors.New("leads: record too short")
	}
	nonce, ciphertext := sealed[:c.aead.NonceSize()], sealed[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("leads: decrypt record: %w", err)
	}
	return plaintext, nil
}
