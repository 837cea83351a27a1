package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
)

var (
	sealKeyOnce sync.Once
	sealKey     []byte
	sealKeyPath string // Can be set via SetSealKeyPath before first use
)

// SetSealKeyPath configures where to load the sealing key from. This must be
// called before any Seal/Open operations.
// If not set, the key will be loaded from the PORTAL_SEAL_KEY environment variable.
func SetSealKeyPath(path string) {
	sealKeyPath = path
}

// loadSealKey loads and derives a 32-byte key from either:
// 1. File specified by sealKeyPath (if set)
// 2. PORTAL_SEAL_KEY environment variable
// 3. Generates an ephemeral key for development (sessions won't survive restart)
func loadSealKey() ([]byte, error) {
	var keyMaterial []byte

	if sealKeyPath != "" {
		data, err := os.ReadFile(sealKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read seal key file: %w", err)
		}
		keyMaterial = data
	} else if envKey := os.Getenv("PORTAL_SEAL_KEY"); envKey != "" {
		keyMaterial = []byte(envKey)
	} else {
		keyMaterial = make([]byte, 32)
		if _, err := rand.Read(keyMaterial); err != nil {
			return nil, fmt.Errorf("failed to generate ephemeral seal key: %w", err)
		}
	}

	// Derive a proper 32-byte key regardless of the input material length
	hash := sha256.Sum256(keyMaterial)
	return hash[:], nil
}

func getSealKey() ([]byte, error) {
	var err error
	sealKeyOnce.Do(func() {
		sealKey, err = loadSealKey()
	})
	if err != nil {
		return nil, err
	}
	if sealKey == nil {
		return nil, fmt.Errorf("seal key not initialised")
	}
	return sealKey, nil
}

// Seal encrypts plaintext with XChaCha20-Poly1305 under the process seal key.
// The random nonce is prepended to the returned ciphertext. Used to protect
// upstream bearer tokens and cached profiles persisted in the session store.
func Seal(plaintext []byte) ([]byte, error) {
	key, err := getSealKey()
	if err != nil {
		return nil, err
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise aead: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts data produced by Seal. It fails if the ciphertext was
// tampered with or sealed under a different key.
func Open(sealed []byte) ([]byte, error) {
	key, err := getSealKey()
	if err != nil {
		return nil, err
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise aead: %w", err)
	}

	if len(sealed) < aead.NonceSize() {
		return nil, fmt.Errorf("sealed data too short")
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open sealed data: %w", err)
	}

	return plaintext, nil
}
