package file

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/hkdf"
)

const keyFileSize = 32

// ErrSealedDataCorrupt is returned when an encrypted credentials file cannot
// be authenticated or is too short to contain a nonce.
var ErrSealedDataCorrupt = errors.New("sealed credentials corrupt")

// sealer encrypts and decrypts the credentials payload with AES-256-GCM.
// The AES key is expanded from the keyfile material via HKDF-SHA256 so the
// raw keyfile bytes are never used as a cipher key directly.
type sealer struct {
	aead cipher.AEAD
}

// newSealerFromKeyFile loads (or creates) the keyfile and derives the AEAD.
func newSealerFromKeyFile(keyPath string) (*sealer, error) {
	material, err := loadOrCreateKeyFile(keyPath)
	if err != nil {
		return nil, err
	}

	h := hkdf.New(sha256.New, material, nil, []byte("tripkit-credentials-v1"))
	key := make([]byte, 32)
	if _, err := io.ReadFull(h, key); err != nil {
		return nil, fmt.Errorf("failed to derive encryption key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &sealer{aead: aead}, nil
}

// seal encrypts plaintext, prepending the random nonce.
func (s *sealer) seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return s.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// open decrypts data produced by seal.
func (s *sealer) open(data []byte) ([]byte, error) {
	if len(data) < s.aead.NonceSize() {
		return nil, ErrSealedDataCorrupt
	}
	nonce, ciphertext := data[:s.aead.NonceSize()], data[s.aead.NonceSize():]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrSealedDataCorrupt
	}
	return plaintext, nil
}

// loadOrCreateKeyFile reads the key material, generating a fresh random
// keyfile with 0600 permissions on first use.
func loadOrCreateKeyFile(keyPath string) ([]byte, error) {
	material, err := os.ReadFile(keyPath)
	if err == nil {
		if len(material) != keyFileSize {
			return nil, fmt.Errorf("keyfile %s has unexpected size %d", keyPath, len(material))
		}
		return material, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read keyfile: %w", err)
	}

	material = make([]byte, keyFileSize)
	if _, err := io.ReadFull(rand.Reader, material); err != nil {
		return nil, fmt.Errorf("failed to generate keyfile material: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(keyPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to ensure keyfile directory: %w", err)
	}
	if err := os.WriteFile(keyPath, material, 0600); err != nil {
		return nil, fmt.Errorf("failed to write keyfile: %w", err)
	}
	return material, nil
}
